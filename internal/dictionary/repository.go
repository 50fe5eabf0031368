package dictionary

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested word does not exist.
var ErrNotFound = errors.New("dictionary: word not found")

// Repository defines persistence operations for dictionary entries.
type Repository interface {
	List(ctx context.Context) ([]Word, error)
	Get(ctx context.Context, id string) (*Word, error)
	Upsert(ctx context.Context, word Word) error
	Delete(ctx context.Context, id string) error
	SetMedia(ctx context.Context, id, imageURL, audioURL string) error
}
