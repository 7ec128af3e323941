package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CustomerID   uint       `gorm:"not null;uniqueIndex:uq_carts_customer" json:"customer_id"` // one cart per customer
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	LastModified time.Time  `gorm:"not null" json:"last_modified"`
	Lines        []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"lines"`
}

// CartLine keeps the unit price seen when the SKU was first added; later
// catalog price changes do not touch it.
type CartLine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CartID    uint            `gorm:"not null;uniqueIndex:uq_cart_lines_cart_sku" json:"cart_id"`
	SKU       string          `gorm:"size:32;not null;uniqueIndex:uq_cart_lines_cart_sku;index:idx_cart_lines_sku" json:"sku"`
	Quantity  int             `gorm:"not null;check:ck_cart_lines_quantity,quantity > 0" json:"quantity"`
	PriceSeen decimal.Decimal `gorm:"type:decimal(10,2);not null;check:ck_cart_lines_price_seen,price_seen >= 0" json:"price_seen"`
	AddedAt   time.Time       `gorm:"not null" json:"added_at"`
}

// Subtotal is PriceSeen × Quantity, exact.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.PriceSeen.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
