package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pawsitivity/internal/domain"
	"pawsitivity/internal/groups"
	"pawsitivity/internal/points"
	"pawsitivity/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MessageRequest is the payload for posting to an existing conversation.
type MessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// CreateConversationRequest resolves (or creates) a conversation for the
// named recipients and posts its first message.
type CreateConversationRequest struct {
	SendTo []string `json:"send_to" binding:"required"`
	Body   string   `json:"body" binding:"required"`
}

// MessageResponse is a posted message as returned to clients.
type MessageResponse struct {
	ID        uint      `json:"id"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	Points    int       `json:"points"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// sendMessage scores the body, stores the message, touches the conversation
// and distributes the scored points to the other members.
func sendMessage(db *gorm.DB, convo *domain.Conversation, members []domain.User, senderID uint, body string) (*domain.Message, error) {
	table, err := points.LoadTable(db)
	if err != nil {
		return nil, err
	}
	message := domain.Message{
		SenderID:       senderID,
		ConversationID: convo.ID,
		Body:           body,
		Points:         points.Score(body, table),
	}
	if err := db.Create(&message).Error; err != nil {
		return nil, err
	}
	// Bump the conversation so it sorts to the top of inboxes
	if err := db.Model(convo).Update("updated_at", time.Now()).Error; err != nil {
		return nil, err
	}
	if _, err := points.Distribute(db, message.Points, senderID, otherMemberIDs(members, senderID)); err != nil {
		return nil, err
	}
	return &message, nil
}

// invalidatePointCaches drops caches whose contents depend on point balances.
func invalidatePointCaches(rdb *redis.Client) {
	ctx := context.Background()
	_ = utils.DeleteCache(ctx, rdb, "leaderboard")
	_ = utils.DeleteCacheByPrefix(ctx, rdb, "admin:users:")
}

// GetConversationHandler returns a conversation's messages and members.
// Only members may view; viewing marks the other members' messages as read.
func GetConversationHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		convoID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation id"})
			return
		}
		var convo domain.Conversation
		if err := db.First(&convo, convoID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		members, err := conversationMembers(db, &convo)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
			return
		}
		if !isMember(members, userID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this conversation"})
			return
		}
		var msgs []domain.Message
		if err := db.Preload("Sender").
			Where("conversation_id = ?", convo.ID).
			Order("created_at asc").
			Find(&msgs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
			return
		}
		// Everything addressed to the viewer is now read
		if err := db.Model(&domain.Message{}).
			Where("conversation_id = ? AND sender_id <> ?", convo.ID, userID).
			Update("read", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update messages"})
			return
		}
		resp := make([]MessageResponse, len(msgs))
		for i, m := range msgs {
			resp[i] = MessageResponse{
				ID:        m.ID,
				Sender:    m.Sender.FullName(),
				Body:      m.Body,
				Points:    m.Points,
				Read:      m.Read,
				CreatedAt: m.CreatedAt,
			}
		}
		memberNames := make([]string, len(members))
		for i, m := range members {
			memberNames[i] = m.FullName()
		}
		c.JSON(http.StatusOK, gin.H{
			"conversation": gin.H{"id": convo.ID, "name": convo.Name},
			"members":      memberNames,
			"messages":     resp,
		})
	}
}

// PostMessageHandler posts a message into an existing conversation.
func PostMessageHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		convoID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation id"})
			return
		}
		var req MessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var convo domain.Conversation
		if err := db.First(&convo, convoID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		members, err := conversationMembers(db, &convo)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
			return
		}
		if !isMember(members, userID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this conversation"})
			return
		}
		message, err := sendMessage(db, &convo, members, userID, req.Body)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":         userID,
				"conversation_id": convo.ID,
				"error":           err.Error(),
			}).Error("Message send failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
			return
		}
		invalidatePointCaches(rdb)
		c.JSON(http.StatusCreated, gin.H{
			"message_id": message.ID,
			"points":     message.Points,
		})
	}
}

// CreateConversationHandler resolves the group for the requested recipients,
// creating it when needed, and posts the first message. An unknown recipient
// fails the whole request without leaving partial state behind.
func CreateConversationHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.SendTo) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var requester domain.User
		if err := db.First(&requester, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		_, convo, err := groups.Resolve(db, requester.Username, req.SendTo)
		if err != nil {
			if errors.Is(err, groups.ErrRecipientNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Conversation resolution failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
			return
		}
		members, err := conversationMembers(db, convo)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
			return
		}
		message, err := sendMessage(db, convo, members, userID, req.Body)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":         userID,
				"conversation_id": convo.ID,
				"error":           err.Error(),
			}).Error("Message send failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
			return
		}
		invalidatePointCaches(rdb)
		c.JSON(http.StatusCreated, gin.H{
			"conversation_id": convo.ID,
			"message_id":      message.ID,
			"points":          message.Points,
		})
	}
}
