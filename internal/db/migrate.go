package db

import (
	"pawsitivity/internal/domain" // Importing domain models
	"pawsitivity/internal/points"

	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Migrate performs automatic migration for the database schema and seeds the
// default token table when it is empty.
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Profile{},
		&domain.UserGroup{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.Token{},
		&domain.Product{},
		&domain.Purchase{},
	)
	if err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	if err := SeedTokens(db); err != nil {
		logrus.Fatalf("token seeding failed: %v", err)
	}
	logrus.Info("Migration completed.")
}

// SeedTokens inserts the default emoji token values if none exist yet.
func SeedTokens(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Token{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for tag, value := range points.DefaultTable() {
		if err := db.Create(&domain.Token{Tag: tag, Points: value}).Error; err != nil {
			return err
		}
	}
	return nil
}
