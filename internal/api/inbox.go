package api

import (
	"net/http"
	"strings"
	"time"

	"pawsitivity/internal/domain"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ConversationSummary is one inbox row: the conversation named after the other
// members, plus a preview of the latest message.
type ConversationSummary struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	LastMessage string    `json:"last_message"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// sameDay reports whether two times fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// InboxHandler lists the user's conversations, most recently updated first.
// The first visit of a calendar day also resets the profile's sendable point
// budget to its daily default.
func InboxHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var profile domain.Profile
		if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		// Refill the daily point budget on the first visit of the day
		now := time.Now()
		if !sameDay(profile.LastInboxVisit, now) {
			if err := db.Model(&profile).Updates(map[string]any{
				"points":           domain.DefaultDailyPoints,
				"last_inbox_visit": now,
			}).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh points"})
				return
			}
		}

		var convos []domain.Conversation
		if err := db.
			Select("conversations.*").
			Joins("JOIN user_groups ON user_groups.id = conversations.user_group_id").
			Joins("JOIN user_group_members ON user_group_members.user_group_id = user_groups.id").
			Where("user_group_members.user_id = ?", userID).
			Order("conversations.updated_at desc").
			Find(&convos).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
			return
		}

		summaries := make([]ConversationSummary, 0, len(convos))
		for i := range convos {
			members, err := conversationMembers(db, &convos[i])
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
				return
			}
			// Preview the most recent message, if any
			var last domain.Message
			preview := ""
			if err := db.Where("conversation_id = ?", convos[i].ID).
				Order("created_at desc").First(&last).Error; err == nil {
				preview = last.Body
			}
			summaries = append(summaries, ConversationSummary{
				ID:          convos[i].ID,
				Name:        strings.Join(otherMemberNames(members, userID), ", "),
				LastMessage: preview,
				UpdatedAt:   convos[i].UpdatedAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{"conversations": summaries})
	}
}
