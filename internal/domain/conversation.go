package domain

import "time"

// Conversation Model. Paired one-to-one with a UserGroup; never merged or
// split after creation. Inboxes list conversations most recently updated first.
type Conversation struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:400;default:Conversation"`
	UserGroupID uint   `gorm:"uniqueIndex"`
	UserGroup   UserGroup
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
