package api

import (
	"context"
	"net/http"
	"time"

	"pawsitivity/internal/domain"
	"pawsitivity/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// leaderboardSize is how many profiles the leaderboard shows.
const leaderboardSize = 10

// LeaderboardEntry is one row of the public leaderboard.
type LeaderboardEntry struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// LeaderboardHandler returns the top profiles by all-time points among users
// who opted in to public points, cached for a minute.
func LeaderboardHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		var cached []LeaderboardEntry
		found, err := utils.GetCache(ctx, rdb, "leaderboard", &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"leaderboard": cached, "cached": true})
			return
		}
		var profiles []domain.Profile
		if err := db.Where("display_points = ?", true).
			Order("all_time_points desc, id asc").
			Limit(leaderboardSize).
			Find(&profiles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
			return
		}
		entries := make([]LeaderboardEntry, 0, len(profiles))
		for _, p := range profiles {
			var user domain.User
			if err := db.First(&user, p.UserID).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
				return
			}
			entries = append(entries, LeaderboardEntry{Name: user.FullName(), Points: p.AllTimePoints})
		}
		_ = utils.SetCache(ctx, rdb, "leaderboard", entries, 60*time.Second)
		c.JSON(http.StatusOK, gin.H{"leaderboard": entries, "cached": false})
	}
}
