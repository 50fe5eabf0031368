package library

import (
	"errors"
	"time"
)

// ErrNotFound indicates the requested book does not exist.
var ErrNotFound = errors.New("book not found")

// Book is a shelved PDF available to readers.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	PDFURL      string    `json:"pdfUrl"`
	AddedBy     string    `json:"addedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}
