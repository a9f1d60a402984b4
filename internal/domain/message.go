package domain

import "time"

// Message Model. Immutable once created, except for the read flag.
type Message struct {
	ID             uint `gorm:"primaryKey"`
	SenderID       uint `gorm:"not null;index"`
	Sender         User
	ConversationID uint   `gorm:"not null;index"`
	Body           string `gorm:"type:text"`
	Points         int    `gorm:"not null;default:0"` // Token points scored from the body at send time
	Read           bool   `gorm:"default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
