package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnonymousReviewer is stored as reviewer id when feedback is left without a token.
const AnonymousReviewer = "anonymous"

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is a reviewer's rating and comments on a submission.
type Feedback struct {
	ID                 string     `json:"id" gorm:"type:varchar(36);primaryKey" bson:"_id"`
	SubmissionID       string     `json:"submissionId" gorm:"type:varchar(36);index;not null" bson:"submission_id"`
	ReviewerUserID     string     `json:"reviewerUserId" gorm:"type:varchar(36);index;not null" bson:"reviewer_user_id"`
	Comments           string     `json:"comments" gorm:"type:text" bson:"comments"`
	Rating             int        `json:"rating" gorm:"not null" bson:"rating"`
	Status             Status     `json:"status" gorm:"size:16;index;not null" bson:"status"`
	RejectionReason    string     `json:"rejectionReason,omitempty" gorm:"type:text" bson:"rejection_reason,omitempty"`
	SubmitterReply     string     `json:"submitterReply,omitempty" gorm:"type:text" bson:"submitter_reply,omitempty"`
	SubmitterRepliedAt *time.Time `json:"submitterRepliedAt,omitempty" bson:"submitter_replied_at,omitempty"`
	PointsAwarded      bool       `json:"-" gorm:"not null;default:false" bson:"points_awarded"`
	CreatedAt          time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty" gorm:"autoUpdateTime:false" bson:"updated_at,omitempty"`
}

// BeforeCreate sets the ID before creating the record.
func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// ValidRating reports whether r lies within the accepted rating range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
