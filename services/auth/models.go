package auth

import (
	"time"
)

// CodePurpose pins an issued code to the flow it was created for. The original
// schema stored verify and reset codes indistinguishably, which made them
// structurally interchangeable; tagging them closes that hole.
type CodePurpose string

const (
	PurposeEmailVerify   CodePurpose = "email_verify"
	PurposePasswordReset CodePurpose = "password_reset"
)

type EmailCode struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Code      string      `gorm:"uniqueIndex;not null" json:"-"`
	UserID    uint        `gorm:"index;not null" json:"user_id"`
	Purpose   CodePurpose `gorm:"not null" json:"purpose"`
	ExpiresAt time.Time   `gorm:"not null" json:"expires_at"`
}

func (EmailCode) TableName() string {
	return "email_codes"
}
