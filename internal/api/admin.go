package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"pawsitivity/internal/domain" // Importing domain models
	"pawsitivity/internal/mail"
	"pawsitivity/internal/utils" // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID       uint           `json:"id"`
	Username string         `json:"username"`
	Name     string         `json:"name"`
	Role     string         `json:"role"`
	Profile  domain.Profile `json:"profile"`
}

// pageParams reads page/page_size query parameters with the usual bounds.
func pageParams(c *gin.Context) (int, int) {
	page := 1
	pageSize := 20
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}

// ListUsersHandler returns all users with their profile info
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		cacheKey := "admin:users:page=" + c.DefaultQuery("page", "1") + ":size=" + c.DefaultQuery("page_size", "20")
		var cached struct {
			Users      []UserAdminResponse `json:"users"`
			Page       int                 `json:"page"`
			PageSize   int                 `json:"page_size"`
			Total      int64               `json:"total"`
			TotalPages int                 `json:"total_pages"`
		}
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"users":       cached.Users,
				"page":        cached.Page,
				"page_size":   cached.PageSize,
				"total":       cached.Total,
				"total_pages": cached.TotalPages,
				"cached":      true,
			})
			return
		}
		page, pageSize := pageParams(c)
		offset := (page - 1) * pageSize
		var total int64
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
			return
		}
		var users []domain.User
		if err := db.Preload("Profile").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize
		resp := make([]UserAdminResponse, len(users))
		for i, u := range users {
			resp[i] = UserAdminResponse{
				ID:       u.ID,
				Username: u.Username,
				Name:     u.FullName(),
				Role:     u.Role,
				Profile:  u.Profile,
			}
		}
		respData := gin.H{
			"users":       resp,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages,
			"cached":      false,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData)
	}
}

// ProductRequest is the admin payload for creating or updating a product.
type ProductRequest struct {
	Name      string `json:"name" binding:"required"`
	PointCost int    `json:"point_cost" binding:"gte=0"` // Free products are allowed
	Image     string `json:"image"`
}

// CreateProductHandler adds a product to the catalog.
func CreateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		product := domain.Product{Name: req.Name, PointCost: req.PointCost, Image: req.Image}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, "store:index")
		c.JSON(http.StatusCreated, gin.H{"product": product})
	}
}

// UpdateProductHandler edits a catalog product. AmountSold is deliberately
// untouchable here; only purchases move it.
func UpdateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var product domain.Product
		if err := db.First(&product, productID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if err := db.Model(&product).Updates(map[string]any{
			"name":       req.Name,
			"point_cost": req.PointCost,
			"image":      req.Image,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, "store:index")
		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}

// TokenRequest is the admin payload for adding a scoring token.
type TokenRequest struct {
	Tag    string `json:"tag" binding:"required"`
	Points int    `json:"points" binding:"required,gte=0"`
}

// ListTokensHandler returns the emoji token table.
func ListTokensHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokens []domain.Token
		if err := db.Order("tag asc").Find(&tokens).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tokens"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tokens": tokens})
	}
}

// CreateTokenHandler adds a recognized token to the scoring table.
func CreateTokenHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		token := domain.Token{Tag: req.Tag, Points: req.Points}
		if err := db.Create(&token).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Token already exists"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token})
	}
}

// RunRemindersHandler triggers the inactivity reminder sweep.
func RunRemindersHandler(db *gorm.DB, mailer mail.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		sent, err := mail.RemindInactiveUsers(db, mailer)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Reminder sweep failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"reminders_sent": sent})
	}
}
