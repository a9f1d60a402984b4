package main

import (
	"context"
	"log"

	"pawsitivity/internal/api"        // API handlers
	"pawsitivity/internal/config"     // Configuration
	"pawsitivity/internal/mail"       // Reminder mail
	"pawsitivity/internal/middleware" // Middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig()

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	mailer := &mail.SMTPMailer{Addr: cfg.SMTPAddr, From: cfg.SMTPFrom}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Public routes
	r.POST("/auth/register", api.RegisterHandler(db, cfg.JWTSecret))
	r.POST("/auth/login", api.LoginHandler(db, cfg.JWTSecret))
	r.GET("/leaderboard", api.LeaderboardHandler(db, redisClient))
	r.GET("/store", api.ListProductsHandler(db, redisClient))

	// Authenticated routes
	authGroup := r.Group("/")
	authGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, redisClient))
	authGroup.POST("/auth/logout", api.LogoutHandler(redisClient))
	authGroup.GET("/inbox", api.InboxHandler(db))
	authGroup.GET("/conversations/:id", api.GetConversationHandler(db))
	authGroup.POST("/conversations/:id/messages", api.PostMessageHandler(db, redisClient))
	authGroup.POST("/conversations", api.CreateConversationHandler(db, redisClient))
	authGroup.GET("/profiles/:id", api.GetProfileHandler(db))
	authGroup.PUT("/profiles/:id", api.UpdateProfileHandler(db))
	authGroup.PUT("/profiles/:id/password", api.ChangePasswordHandler(db))
	authGroup.POST("/profiles/:id/image", api.UploadImageHandler(db, cfg.UploadDir))
	authGroup.GET("/store/products/:id", api.GetProductHandler(db))
	authGroup.POST("/store/products/:id/purchase", api.PurchaseHandler(db, redisClient))

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, redisClient), middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/users", api.ListUsersHandler(db, redisClient))
	adminGroup.POST("/products", api.CreateProductHandler(db, redisClient))
	adminGroup.PUT("/products/:id", api.UpdateProductHandler(db, redisClient))
	adminGroup.GET("/tokens", api.ListTokensHandler(db))
	adminGroup.POST("/tokens", api.CreateTokenHandler(db))
	adminGroup.POST("/reminders", api.RunRemindersHandler(db, mailer))

	log.Println("Server running on " + cfg.AppPort)
	r.Run(":" + cfg.AppPort)
}
