package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Submission is a piece of work a user presents for review.
type Submission struct {
	ID          string                      `json:"id" gorm:"type:varchar(36);primaryKey" bson:"_id"`
	OwnerUserID string                      `json:"ownerUserId" gorm:"type:varchar(36);index;not null" bson:"owner_user_id"`
	Title       string                      `json:"title" gorm:"size:255;not null" bson:"title"`
	Description string                      `json:"description" gorm:"type:text;not null" bson:"description"`
	FileURLs    datatypes.JSONSlice[string] `json:"fileUrls" bson:"file_urls"`
	Tags        datatypes.JSONSlice[string] `json:"tags" bson:"tags"`
	Status      Status                      `json:"status" gorm:"size:16;index;not null" bson:"status"`
	CreatedAt   time.Time                   `json:"createdAt" bson:"created_at"`
	UpdatedAt   *time.Time                  `json:"updatedAt,omitempty" gorm:"autoUpdateTime:false" bson:"updated_at,omitempty"`
}

// BeforeCreate sets the ID before creating the record.
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// VisibleTo reports whether a caller may read the submission.
// Owners and admins see every status, everyone else only approved work.
func (s *Submission) VisibleTo(userID string, admin bool) bool {
	return admin || (userID != "" && s.OwnerUserID == userID) || s.Status == StatusApproved
}
