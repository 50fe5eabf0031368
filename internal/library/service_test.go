package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	books map[string]Book
}

func (m *memRepo) List(ctx context.Context) ([]Book, error) {
	out := make([]Book, 0, len(m.books))
	for _, b := range m.books {
		out = append(out, b)
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*Book, error) {
	b, ok := m.books[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *memRepo) Upsert(ctx context.Context, b Book) error {
	m.books[b.ID] = b
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	delete(m.books, id)
	return nil
}

func TestSaveBookLifecycle(t *testing.T) {
	svc := NewService(&memRepo{books: make(map[string]Book)})
	ctx := context.Background()

	created, err := svc.Save(ctx, Book{Title: "Tai Grammar", Author: "P. Gogoi", PDFURL: "https://cdn/tai.pdf"}, "Mina")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Mina", created.AddedBy)
	assert.False(t, created.CreatedAt.IsZero())

	updated, err := svc.Save(ctx, Book{ID: created.ID, Title: "Tai Grammar, 2nd ed.", Author: "P. Gogoi", PDFURL: "https://cdn/tai2.pdf"}, "Other")
	require.NoError(t, err)
	assert.Equal(t, "Mina", updated.AddedBy)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Tai Grammar, 2nd ed.", updated.Title)

	_, err = svc.Save(ctx, Book{ID: "ghost", Title: "x", Author: "y", PDFURL: "z"}, "Mina")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
