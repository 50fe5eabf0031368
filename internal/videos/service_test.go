package videos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	videos map[string]Video
}

func (m *memRepo) List(ctx context.Context) ([]Video, error) {
	out := make([]Video, 0, len(m.videos))
	for _, v := range m.videos {
		out = append(out, v)
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*Video, error) {
	v, ok := m.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (m *memRepo) Upsert(ctx context.Context, v Video) error {
	m.videos[v.ID] = v
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	delete(m.videos, id)
	return nil
}

func TestSaveVideoLifecycle(t *testing.T) {
	svc := NewService(&memRepo{videos: make(map[string]Video)})
	ctx := context.Background()

	created, err := svc.Save(ctx, Video{Title: "Weaving lesson", YouTubeURL: "https://youtube.com/watch?v=abc"}, "Mina")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Mina", created.AddedBy)

	updated, err := svc.Save(ctx, Video{ID: created.ID, Title: "Weaving lesson, part 1", YouTubeURL: created.YouTubeURL}, "Other")
	require.NoError(t, err)
	assert.Equal(t, "Mina", updated.AddedBy)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
