package gallery

import (
	"errors"
	"time"
)

// ErrNotFound indicates the requested image does not exist.
var ErrNotFound = errors.New("image not found")

// Image is a captioned photograph in the community gallery.
type Image struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption"`
	AddedBy   string    `json:"addedBy"`
	CreatedAt time.Time `json:"createdAt"`
}
