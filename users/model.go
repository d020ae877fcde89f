package users

import (
	"time"
)

// User is the account record. Password holds the bcrypt hash and is excluded
// from every JSON response.
type User struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Country    string    `json:"country"`
	Image      string    `json:"image"`
	IsVerified bool      `gorm:"not null;default:false" json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
