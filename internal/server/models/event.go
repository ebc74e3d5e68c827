package models

import "time"

// Audit event tags. The event column is free-form text in the schema but
// writers only use these values.
const (
	EventCreated       = "created"
	EventAccepted      = "accepted"
	EventRejected      = "rejected"
	EventCancelled     = "cancelled"
	EventUploadStarted = "upload_started"
	EventUploadFailed  = "upload_failed"
	EventUploaded      = "uploaded"
	EventDownloaded    = "downloaded"
)

// TransferEvent is one immutable audit record for a session. Events are
// append-only; nothing in the system updates or deletes them.
type TransferEvent struct {
	ID        string
	SessionID string
	Event     string
	Message   string // optional human-readable detail
	IP        string // optional origin address
	CreatedAt time.Time
}
