package domain

import "time"

// Purchase joins a buyer profile to a product. At most one purchase may exist
// per (buyer, product) pair; the unique index is the authority, the store
// transactor's pre-check only gives the friendly error on the common path.
type Purchase struct {
	ID        uint `gorm:"primaryKey"`
	BuyerID   uint `gorm:"not null;uniqueIndex:idx_buyer_product"`
	Buyer     Profile
	ProductID uint `gorm:"not null;uniqueIndex:idx_buyer_product"`
	Product   Product
	CreatedAt time.Time
}
