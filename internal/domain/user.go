package domain

import "strings"

// User Model
type User struct {
	ID        uint    `gorm:"primaryKey"`      // Primary key
	Username  string  `gorm:"unique;not null"` // Unique login name, stored lowercase
	Password  string  `gorm:"not null"`        // Bcrypt hash
	FirstName string  `gorm:"size:30"`
	LastName  string  `gorm:"size:30"`
	Email     string  `gorm:"size:75"`
	Role      string  `gorm:"default:user"`                                  // Role: user or admin
	Profile   Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // One-to-one relationship with Profile
}

// NewUser builds a user record from registration input. The username is
// lowercased so lookups stay case-insensitive.
func NewUser(username, passwordHash, firstName, lastName, email string) User {
	return User{
		Username:  strings.ToLower(username),
		Password:  passwordHash,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	}
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
