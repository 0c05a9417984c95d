package model

import "strings"

// Status is the moderation state shared by submissions and feedback.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	// StatusOpen only appears on submissions written by older clients.
	// It is treated like PENDING for visibility and is not settable.
	StatusOpen Status = "OPEN"
)

// ParseStatus accepts the admin-settable statuses, case-insensitively.
func ParseStatus(value string) (Status, bool) {
	s := Status(strings.ToUpper(strings.TrimSpace(value)))
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return s, true
	}
	return "", false
}
