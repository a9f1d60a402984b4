package api

import (
	"pawsitivity/internal/domain"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// currentUserID pulls the authenticated user's ID out of the gin context.
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// conversationMembers loads a conversation's member users.
func conversationMembers(db *gorm.DB, convo *domain.Conversation) ([]domain.User, error) {
	var group domain.UserGroup
	if err := db.Preload("Members").First(&group, convo.UserGroupID).Error; err != nil {
		return nil, err
	}
	return group.Members, nil
}

// isMember reports whether userID belongs to the member list.
func isMember(members []domain.User, userID uint) bool {
	for _, m := range members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// otherMemberIDs returns the member user IDs excluding the given user.
func otherMemberIDs(members []domain.User, userID uint) []uint {
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		if m.ID != userID {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// otherMemberNames returns the member full names excluding the given user.
func otherMemberNames(members []domain.User, userID uint) []string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		if m.ID != userID {
			names = append(names, m.FullName())
		}
	}
	return names
}
