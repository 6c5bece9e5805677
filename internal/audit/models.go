package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp   time.Time
	RequestID   string
	RequesterID string
	Actor       string
	Action      Action
	Detail      string
}

// Action identifies what happened.
type Action string

const (
	ActionRequestSubmitted Action = "request_submitted"
	ActionRequestApproved  Action = "request_approved"
	ActionRequestRejected  Action = "request_rejected"
	ActionIdentityCreated  Action = "identity_created"
	ActionIdentityDeleted  Action = "identity_deleted"
)
