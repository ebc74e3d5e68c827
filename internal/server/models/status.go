package models

import (
	"database/sql/driver"
	"fmt"
)

// Status is the lifecycle state of a transfer session. It is a closed
// enumeration: every switch over it is exhaustive, so adding a state is a
// compile-time-visible change at every transition site.
type Status int

const (
	StatusPending Status = iota
	StatusAccepted
	StatusRejected
	StatusInProgress
	StatusCompleted
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus converts the persisted text form back into a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "accepted":
		return StatusAccepted, nil
	case "rejected":
		return StatusRejected, nil
	case "in_progress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	case "cancelled":
		return StatusCancelled, nil
	case "failed":
		return StatusFailed, nil
	}
	return 0, fmt.Errorf("unknown transfer status %q", s)
}

// Terminal reports whether no transition leaves this status.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusCompleted, StatusCancelled, StatusFailed:
		return true
	case StatusPending, StatusAccepted, StatusInProgress:
		return false
	}
	return false
}

// CanTransition reports whether the edge s -> to exists in the lifecycle
// graph. Status only ever moves forward along these edges:
//
//	pending -> accepted | rejected | cancelled
//	accepted -> in_progress | cancelled
//	in_progress -> completed | cancelled | failed
//	pending/accepted upload verdicts: -> completed | failed
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusAccepted || to == StatusRejected || to == StatusCancelled ||
			to == StatusCompleted || to == StatusFailed
	case StatusAccepted:
		return to == StatusInProgress || to == StatusCancelled ||
			to == StatusCompleted || to == StatusFailed
	case StatusInProgress:
		return to == StatusCompleted || to == StatusCancelled || to == StatusFailed
	case StatusRejected, StatusCompleted, StatusCancelled, StatusFailed:
		return false
	}
	return false
}

// Value implements driver.Valuer; statuses are persisted as text.
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *Status) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseStatus(v)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	case []byte:
		parsed, err := ParseStatus(string(v))
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}
	return fmt.Errorf("cannot scan %T into Status", src)
}
