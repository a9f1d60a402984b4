package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pawsitivity/internal/domain"
	"pawsitivity/internal/store"
	"pawsitivity/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// recentBuyersShown caps how many recent purchaser names a product page lists.
const recentBuyersShown = 3

// ListProductsHandler returns the catalog ordered by popularity, cached for a
// minute.
func ListProductsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		var cached []domain.Product
		found, err := utils.GetCache(ctx, rdb, "store:index", &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"products": cached, "cached": true})
			return
		}
		var products []domain.Product
		if err := db.Order("amount_sold desc, name asc").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		_ = utils.SetCache(ctx, rdb, "store:index", products, 60*time.Second)
		c.JSON(http.StatusOK, gin.H{"products": products, "cached": false})
	}
}

// GetProductHandler returns one product with its most recent buyers.
func GetProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		var product domain.Product
		if err := db.First(&product, productID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		buyers, err := store.RecentBuyerNames(db, product.ID, recentBuyersShown)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchasers"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": product, "recent_purchasers": buyers})
	}
}

// PurchaseHandler executes a purchase for the authenticated user. Domain
// failures come back as visible messages, never as hard errors.
func PurchaseHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		productID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		var profile domain.Profile
		if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		purchase, err := store.Purchase(db, profile.ID, uint(productID))
		if err != nil {
			switch {
			case errors.Is(err, store.ErrAlreadyPurchased):
				c.JSON(http.StatusConflict, gin.H{"error": "Already purchased item"})
			case errors.Is(err, store.ErrInsufficientFunds):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Not enough points"})
			case errors.Is(err, store.ErrProductNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			default:
				logrus.WithFields(logrus.Fields{
					"user_id":    userID,
					"product_id": productID,
					"error":      err.Error(),
				}).Error("Purchase failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Purchase failed"})
			}
			return
		}
		ctx := context.Background()
		_ = utils.DeleteCache(ctx, rdb, "store:index")
		_ = utils.DeleteCacheByPrefix(ctx, rdb, "admin:users:")
		c.JSON(http.StatusOK, gin.H{"message": "Purchase successful", "purchase_id": purchase.ID})
	}
}
