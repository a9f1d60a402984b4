package domain

// Product Model. Admin-managed; AmountSold is only mutated through purchases.
type Product struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:50;not null"`
	PointCost  int    `gorm:"not null"`
	AmountSold int    `gorm:"not null;default:0"`
	Image      string // Stored path of the product image
}
