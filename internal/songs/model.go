package songs

import (
	"errors"
	"time"
)

// ErrNotFound indicates the requested song does not exist.
var ErrNotFound = errors.New("song not found")

// Song is a recorded track in the community archive.
type Song struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	AudioURL  string    `json:"audioUrl"`
	AddedBy   string    `json:"addedBy"`
	CreatedAt time.Time `json:"createdAt"`
}
