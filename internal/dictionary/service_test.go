package dictionary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	words map[string]Word
	order []string
}

func newMemRepo() *memRepo {
	return &memRepo{words: make(map[string]Word)}
}

func (m *memRepo) List(ctx context.Context) ([]Word, error) {
	out := make([]Word, 0, len(m.order))
	for _, id := range m.order {
		if w, ok := m.words[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*Word, error) {
	w, ok := m.words[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &w, nil
}

func (m *memRepo) Upsert(ctx context.Context, w Word) error {
	if _, ok := m.words[w.ID]; !ok {
		m.order = append(m.order, w.ID)
	}
	m.words[w.ID] = w
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	delete(m.words, id)
	return nil
}

func (m *memRepo) SetMedia(ctx context.Context, id, imageURL, audioURL string) error {
	w, ok := m.words[id]
	if !ok {
		return ErrNotFound
	}
	if imageURL != "" {
		w.ImageURL = imageURL
	}
	if audioURL != "" {
		w.AudioURL = audioURL
	}
	m.words[id] = w
	return nil
}

func seedWords(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	for _, w := range []Word{
		{English: "Water", Assamese: "পানী", TaiKhamyang: "নাম", Category: "Nature"},
		{English: "Fire", Assamese: "জুই", TaiKhamyang: "ফাই", Category: "Nature"},
		{English: "Mother", Assamese: "মা", TaiKhamyang: "মে", Category: "Family"},
	} {
		_, err := svc.Save(ctx, w, "Admin")
		require.NoError(t, err)
	}
}

func TestSearchSubstringCaseFolded(t *testing.T) {
	svc := NewService(newMemRepo())
	seedWords(t, svc)

	words, err := svc.Search(context.Background(), "WAT", "")
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "Water", words[0].English)

	// Assamese script matches too.
	words, err = svc.Search(context.Background(), "পানী", "")
	require.NoError(t, err)
	require.Len(t, words, 1)

	words, err = svc.Search(context.Background(), "zzz", "")
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestSearchCategoryFilter(t *testing.T) {
	svc := NewService(newMemRepo())
	seedWords(t, svc)

	words, err := svc.Search(context.Background(), "", "Nature")
	require.NoError(t, err)
	assert.Len(t, words, 2)

	words, err = svc.Search(context.Background(), "fire", "Family")
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestSaveNewWordDefaults(t *testing.T) {
	svc := NewService(newMemRepo())

	w, err := svc.Save(context.Background(), Word{English: "Bird", Assamese: "চৰাই", TaiKhamyang: "নোক"}, "Mina")
	require.NoError(t, err)
	assert.NotEmpty(t, w.ID)
	assert.False(t, w.CreatedAt.IsZero())
	assert.Equal(t, "General", w.Category)
	assert.Equal(t, "Mina", w.AddedBy)
}

func TestSaveUpdatePreservesProvenance(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	created, err := svc.Save(context.Background(), Word{English: "Bird", Assamese: "চৰাই", TaiKhamyang: "নোক"}, "Mina")
	require.NoError(t, err)

	updated, err := svc.Save(context.Background(), Word{ID: created.ID, English: "Small bird", Assamese: "চৰাই", TaiKhamyang: "নোক"}, "Someone Else")
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Mina", updated.AddedBy)
	assert.Equal(t, "Small bird", updated.English)

	words, _ := repo.List(context.Background())
	assert.Len(t, words, 1)
}

func TestSaveUpdateMissingWord(t *testing.T) {
	svc := NewService(newMemRepo())
	_, err := svc.Save(context.Background(), Word{ID: "ghost", English: "x", Assamese: "y", TaiKhamyang: "z"}, "Mina")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttachMedia(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	created, err := svc.Save(context.Background(), Word{English: "Bird", Assamese: "চৰাই", TaiKhamyang: "নোক"}, "Mina")
	require.NoError(t, err)

	require.NoError(t, svc.AttachMedia(context.Background(), created.ID, "https://cdn/img.png", ""))
	w, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/img.png", w.ImageURL)
	assert.Empty(t, w.AudioURL)

	assert.ErrorIs(t, svc.AttachMedia(context.Background(), "ghost", "u", ""), ErrNotFound)
}
