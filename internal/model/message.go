package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is an inbox item sent to the administrators.
type Message struct {
	ID             string    `json:"id" gorm:"type:varchar(36);primaryKey" bson:"_id"`
	SenderID       string    `json:"senderId" gorm:"type:varchar(36);index" bson:"sender_id"`
	SenderUsername string    `json:"senderUsername" gorm:"size:64" bson:"sender_username"`
	Subject        string    `json:"subject" gorm:"size:255;not null" bson:"subject"`
	Description    string    `json:"description" gorm:"type:text" bson:"description"`
	MediaURL       string    `json:"mediaUrl,omitempty" gorm:"size:512" bson:"media_url,omitempty"`
	Read           bool      `json:"read" gorm:"not null;default:false" bson:"read"`
	CreatedAt      time.Time `json:"createdAt" gorm:"index" bson:"created_at"`
}

// BeforeCreate sets the ID before creating the record.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
