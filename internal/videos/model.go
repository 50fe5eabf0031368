package videos

import (
	"errors"
	"time"
)

// ErrNotFound indicates the requested video does not exist.
var ErrNotFound = errors.New("video not found")

// Video is an embedded YouTube lesson or performance.
type Video struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	YouTubeURL string    `json:"youtubeUrl"`
	AddedBy    string    `json:"addedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}
