package domain

// Token maps a recognized emoji tag to its per-occurrence point value.
// Admin-managed; seeded with the default set at migration time.
type Token struct {
	ID     uint   `gorm:"primaryKey"`
	Tag    string `gorm:"size:7;uniqueIndex"` // The emoji/emoticon itself
	Points int    `gorm:"not null"`
}
