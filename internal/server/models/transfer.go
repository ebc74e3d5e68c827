package models

import "time"

// TransferSession is one declared intent to move a file from a sender to a
// receiver. The receiver slot holds either a resolved user id or an opaque
// network address; an address-bound session is bound to the first user that
// accepts it, and the binding never changes afterwards.
type TransferSession struct {
	ID           string
	SenderID     string
	ReceiverID   string // empty until bound for address-bound sessions
	ReceiverAddr string

	FileName string
	FileSize int64
	FileType string
	Checksum string // 64-char lowercase hex SHA-256, as declared by the sender

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReceiverBound reports whether a receiver identity has been resolved.
func (t *TransferSession) ReceiverBound() bool {
	return t.ReceiverID != ""
}

// IsParty reports whether userID is the sender or the bound receiver.
func (t *TransferSession) IsParty(userID string) bool {
	return t.SenderID == userID || t.ReceiverID == userID
}
