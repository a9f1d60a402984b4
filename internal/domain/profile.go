package domain

import "time"

// DefaultDailyPoints is the sendable point budget a profile starts each day with.
const DefaultDailyPoints = 100

// Profile Model
type Profile struct {
	ID               uint   `gorm:"primaryKey"` // Primary key
	UserID           uint   `gorm:"uniqueIndex"`
	Bio              string `gorm:"size:200"`
	Image            string // Stored path of the uploaded profile image
	Wallet           int    `gorm:"not null;default:0"`   // Points spendable in the store
	Points           int    `gorm:"not null;default:100"` // Daily budget of sendable points
	AllTimePoints    int    `gorm:"not null;default:0"`   // Lifetime earned points, drives the leaderboard
	DisplayPoints    bool   `gorm:"default:false"`        // Show this profile on the leaderboard
	DisplayPurchases bool   `gorm:"default:false"`        // Show purchases to other users
	LastInboxVisit   time.Time
}

// NewProfile builds the profile that accompanies a freshly registered user.
// Registration composes NewUser and NewProfile explicitly rather than hiding
// both creations behind a single form save.
func NewProfile(userID uint, bio string, displayPoints, displayPurchases bool) Profile {
	return Profile{
		UserID:           userID,
		Bio:              bio,
		Points:           DefaultDailyPoints,
		DisplayPoints:    displayPoints,
		DisplayPurchases: displayPurchases,
	}
}
