package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"pawsitivity/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ProfileUpdateRequest carries an owner's profile edits.
type ProfileUpdateRequest struct {
	FirstName        string `json:"first_name" binding:"required"`
	LastName         string `json:"last_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Bio              string `json:"bio"`
	DisplayPoints    bool   `json:"display_points"`
	DisplayPurchases bool   `json:"display_purchases"`
}

// ChangePasswordRequest carries a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// PurchaseView is one purchase shown on a profile.
type PurchaseView struct {
	Product   string    `json:"product"`
	CreatedAt time.Time `json:"created_at"`
}

// GetProfileHandler returns a user's profile. The wallet and point balances
// are owner-only; purchases show when the owner opted in or is viewing.
func GetProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewerID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		targetID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}
		var user domain.User
		if err := db.First(&user, targetID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		var profile domain.Profile
		if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		owner := viewerID == user.ID
		resp := gin.H{
			"user_id": user.ID,
			"name":    user.FullName(),
			"bio":     profile.Bio,
			"image":   profile.Image,
		}
		if owner {
			resp["email"] = user.Email
			resp["wallet"] = profile.Wallet
			resp["points"] = profile.Points
			resp["display_points"] = profile.DisplayPoints
			resp["display_purchases"] = profile.DisplayPurchases
		}
		if owner || profile.DisplayPoints {
			resp["all_time_points"] = profile.AllTimePoints
		}
		if owner || profile.DisplayPurchases {
			var purchases []domain.Purchase
			if err := db.Preload("Product").
				Where("buyer_id = ?", profile.ID).
				Order("created_at desc").
				Find(&purchases).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchases"})
				return
			}
			views := make([]PurchaseView, len(purchases))
			for i, p := range purchases {
				views[i] = PurchaseView{Product: p.Product.Name, CreatedAt: p.CreatedAt}
			}
			resp["purchases"] = views
		}
		c.JSON(http.StatusOK, resp)
	}
}

// UpdateProfileHandler lets a user edit their own profile and account info.
func UpdateProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		targetID, err := strconv.Atoi(c.Param("id"))
		if err != nil || uint(targetID) != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can't edit another user's profile"})
			return
		}
		var req ProfileUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]any{
				"first_name": req.FirstName,
				"last_name":  req.LastName,
				"email":      req.Email,
			}).Error; err != nil {
				return err
			}
			return tx.Model(&domain.Profile{}).Where("user_id = ?", userID).Updates(map[string]any{
				"bio":               req.Bio,
				"display_points":    req.DisplayPoints,
				"display_purchases": req.DisplayPurchases,
			}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
	}
}

// ChangePasswordHandler lets a user change their own password after
// re-verifying the current one.
func ChangePasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		targetID, err := strconv.Atoi(c.Param("id"))
		if err != nil || uint(targetID) != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can't edit another user's password"})
			return
		}
		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if !isValidPassword(req.NewPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-15 characters"})
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		if err := db.Model(&user).Update("password", string(hash)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}

// UploadImageHandler stores a profile image under a random filename and
// records its path on the profile.
func UploadImageHandler(db *gorm.DB, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		targetID, err := strconv.Atoi(c.Param("id"))
		if err != nil || uint(targetID) != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can't edit another user's profile"})
			return
		}
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image file required"})
			return
		}
		if err := os.MkdirAll(uploadDir, 0o755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
			return
		}
		// Random filename keeps uploads from colliding or being guessable
		name := uuid.NewString() + filepath.Ext(file.Filename)
		path := filepath.Join(uploadDir, name)
		if err := c.SaveUploadedFile(file, path); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Image upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
			return
		}
		if err := db.Model(&domain.Profile{}).Where("user_id = ?", userID).
			Update("image", path).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"image": path})
	}
}
