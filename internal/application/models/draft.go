package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus is the tri-state outcome of the last submission attempt.
type SubmissionStatus string

const (
	SubmissionUnset   SubmissionStatus = ""
	SubmissionSuccess SubmissionStatus = "success"
	SubmissionError   SubmissionStatus = "error"
)

// Draft is one visitor's in-progress application between requests.
type Draft struct {
	ID          uuid.UUID        `json:"id"`
	Application Application      `json:"application"`
	Status      SubmissionStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewDraft starts a blank draft at now.
func NewDraft(id uuid.UUID, now time.Time) *Draft {
	return &Draft{
		ID:          id,
		Application: New(now.Format(DateLayout)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy of the draft.
func (d *Draft) Clone() *Draft {
	c := *d
	c.Application = d.Application.Clone()
	return &c
}
