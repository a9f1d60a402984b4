// Package store implements the rewards-store purchase transaction.
package store

import (
	"errors"

	"pawsitivity/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrAlreadyPurchased means the buyer already owns this product.
	ErrAlreadyPurchased = errors.New("already purchased item")
	// ErrInsufficientFunds means the buyer's wallet cannot cover the cost.
	ErrInsufficientFunds = errors.New("not enough points")
	// ErrProductNotFound means the product does not exist.
	ErrProductNotFound = errors.New("product not found")
)

// Purchase spends wallet points on a product. The duplicate check, wallet
// debit, sale increment and purchase row commit together or not at all; the
// wallet guard lives inside the UPDATE so two racing purchases cannot
// overspend the same wallet, and the unique (buyer, product) index rolls the
// whole transaction back when two racing purchases both pass the pre-check.
func Purchase(db *gorm.DB, buyerProfileID, productID uint) (*domain.Purchase, error) {
	var purchase domain.Purchase
	err := db.Transaction(func(tx *gorm.DB) error {
		var product domain.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		var existing int64
		if err := tx.Model(&domain.Purchase{}).
			Where("buyer_id = ? AND product_id = ?", buyerProfileID, productID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyPurchased
		}
		res := tx.Model(&domain.Profile{}).
			Where("id = ? AND wallet >= ?", buyerProfileID, product.PointCost).
			Update("wallet", gorm.Expr("wallet - ?", product.PointCost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}
		if err := tx.Model(&product).
			Update("amount_sold", gorm.Expr("amount_sold + ?", 1)).Error; err != nil {
			return err
		}
		purchase = domain.Purchase{BuyerID: buyerProfileID, ProductID: productID}
		if err := tx.Create(&purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyPurchased
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"buyer_profile_id": buyerProfileID,
		"product_id":       productID,
	}).Info("Purchase completed")
	return &purchase, nil
}

// RecentBuyerNames returns the full names of up to limit most recent buyers of
// a product, newest first.
func RecentBuyerNames(db *gorm.DB, productID uint, limit int) ([]string, error) {
	var purchases []domain.Purchase
	if err := db.Where("product_id = ?", productID).
		Order("created_at desc").
		Limit(limit).
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	names := make([]string, 0, len(purchases))
	for _, p := range purchases {
		var profile domain.Profile
		if err := db.First(&profile, p.BuyerID).Error; err != nil {
			return nil, err
		}
		var user domain.User
		if err := db.First(&user, profile.UserID).Error; err != nil {
			return nil, err
		}
		names = append(names, user.FullName())
	}
	return names, nil
}
