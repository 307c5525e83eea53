package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action names an auditable step in a draft's life.
type Action string

const (
	ActionDraftCreated        Action = "draft_created"
	ActionDraftReset          Action = "draft_reset"
	ActionSubmissionSucceeded Action = "submission_succeeded"
	ActionSubmissionFailed    Action = "submission_failed"
	ActionAttachmentsUploaded Action = "attachments_uploaded"
)

// Event is emitted from domain logic to capture key actions. It carries no
// applicant data: the payload itself lives only at the intake endpoint.
// Client is a browser family and OS ("Firefox 120.0 / Linux"), never the
// address or full User-Agent.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Action    Action    `json:"action"`
	DraftID   uuid.UUID `json:"draft_id"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Client    string    `json:"client,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
