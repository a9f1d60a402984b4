package domain

// UserGroup is the membership set behind a conversation. Name is the canonical
// membership key: the members' usernames sorted and joined with "-", so one
// participant set maps to exactly one group.
type UserGroup struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:400;uniqueIndex"`
	Members []User `gorm:"many2many:user_group_members;"`
}
