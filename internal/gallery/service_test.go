package gallery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	images map[string]Image
}

func (m *memRepo) List(ctx context.Context) ([]Image, error) {
	out := make([]Image, 0, len(m.images))
	for _, img := range m.images {
		out = append(out, img)
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*Image, error) {
	img, ok := m.images[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &img, nil
}

func (m *memRepo) Upsert(ctx context.Context, img Image) error {
	m.images[img.ID] = img
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	delete(m.images, id)
	return nil
}

func TestSaveImageLifecycle(t *testing.T) {
	svc := NewService(&memRepo{images: make(map[string]Image)})
	ctx := context.Background()

	created, err := svc.Save(ctx, Image{URL: "https://cdn/festival.jpg", Caption: "Poi Sangken"}, "Mina")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Mina", created.AddedBy)

	updated, err := svc.Save(ctx, Image{ID: created.ID, URL: created.URL, Caption: "Poi Sangken 2026"}, "Other")
	require.NoError(t, err)
	assert.Equal(t, "Mina", updated.AddedBy)
	assert.Equal(t, "Poi Sangken 2026", updated.Caption)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
