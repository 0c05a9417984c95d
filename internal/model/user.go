package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Levels derived from a user's points.
const (
	LevelBronze   = "Bronze"
	LevelSilver   = "Silver"
	LevelGold     = "Gold"
	LevelPlatinum = "Platinum"
)

// User represents a registered account with its gamification state.
type User struct {
	ID           string                      `json:"id" gorm:"type:varchar(36);primaryKey" bson:"_id"`
	Username     string                      `json:"username" gorm:"size:64;uniqueIndex;not null" bson:"username"`
	Email        string                      `json:"email" gorm:"size:255;uniqueIndex;not null" bson:"email"`
	PasswordHash string                      `json:"-" gorm:"size:255;not null" bson:"password_hash"` // Never expose in JSON
	Name         string                      `json:"name" gorm:"size:255" bson:"name"`
	Bio          string                      `json:"bio,omitempty" gorm:"type:text" bson:"bio,omitempty"`
	Age          *int                        `json:"age,omitempty" bson:"age,omitempty"`
	RegNumber    string                      `json:"regNumber,omitempty" gorm:"size:64" bson:"reg_number,omitempty"`
	ProfilePic   string                      `json:"profilePic,omitempty" gorm:"size:512" bson:"profile_pic,omitempty"`
	Skills       datatypes.JSONSlice[string] `json:"skills,omitempty" bson:"skills,omitempty"`
	Roles        datatypes.JSONSlice[Role]   `json:"roles" bson:"roles"`

	Points       int                         `json:"points" gorm:"not null;default:0;index" bson:"points"`
	Level        string                      `json:"level" gorm:"size:32;not null;default:'Bronze'" bson:"level"`
	Badges       datatypes.JSONSlice[string] `json:"badges" bson:"badges"`
	ReviewsGiven int                         `json:"reviewsGiven" gorm:"not null;default:0" bson:"reviews_given"`

	ResetPasswordToken       *string    `json:"-" gorm:"size:64;index" bson:"reset_password_token,omitempty"`
	ResetPasswordTokenExpiry *time.Time `json:"-" bson:"reset_password_token_expiry,omitempty"`
	LastLoginAt              *time.Time `json:"lastLoginAt,omitempty" bson:"last_login_at,omitempty"`
	CreatedAt                time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt                time.Time  `json:"updatedAt" bson:"updated_at"`
}

// BeforeCreate sets the ID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HasRole reports whether the stored role set contains role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasBadge reports whether the user already earned badge.
func (u *User) HasBadge(badge string) bool {
	for _, b := range u.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// LevelForPoints returns the level a points total falls into.
func LevelForPoints(points int) string {
	switch {
	case points >= 600:
		return LevelPlatinum
	case points >= 300:
		return LevelGold
	case points >= 100:
		return LevelSilver
	default:
		return LevelBronze
	}
}
