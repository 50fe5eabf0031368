package students

import (
	"errors"
	"time"
)

// ErrNotFound indicates the requested access request does not exist.
var ErrNotFound = errors.New("student request not found")

// Status tracks the review outcome of an access request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is a learner's application for member access. The password is
// chosen by the applicant and echoed back to them once approved; it is
// never included in review listings.
type Request struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Password      string    `json:"password,omitempty"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	PhotoURL      string    `json:"photoUrl"`
	Status        Status    `json:"status"`
	RequestedAt   time.Time `json:"requestedAt"`
	CanAccessExam bool      `json:"canAccessExam"`
}
