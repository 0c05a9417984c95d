package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Action types written to the activity log.
const (
	ActionLogin                  = "LOGIN"
	ActionSignup                 = "SIGNUP"
	ActionCreateSubmission       = "CREATE_SUBMISSION"
	ActionUpdateSubmissionStatus = "UPDATE_SUBMISSION_STATUS"
	ActionGiveFeedback           = "GIVE_FEEDBACK"
	ActionUpdateFeedback         = "UPDATE_FEEDBACK"
	ActionUpdateFeedbackStatus   = "UPDATE_FEEDBACK_STATUS"
	ActionReplyFeedback          = "REPLY_FEEDBACK"
)

// ActivityLog represents an entry in a user's audit trail.
// Entries are append-only and never updated or deleted.
type ActivityLog struct {
	ID         string            `json:"id" gorm:"type:varchar(36);primaryKey" bson:"_id"`
	UserID     string            `json:"userId" gorm:"type:varchar(36);not null;index" bson:"user_id"`
	ActionType string            `json:"actionType" gorm:"size:64;not null;index" bson:"action_type"`
	Details    datatypes.JSONMap `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt  time.Time         `json:"createdAt" gorm:"index" bson:"created_at"`
}

// BeforeCreate sets the ID before creating the record.
func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
