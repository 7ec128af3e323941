package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	SKU         string          `gorm:"primaryKey;size:32" json:"sku"`
	CategoryID  uint            `gorm:"not null;index:idx_products_category" json:"category_id"`
	Name        string          `gorm:"size:120;not null" json:"name"`
	Brand       *string         `gorm:"size:80" json:"brand,omitempty"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	ListPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null;check:ck_products_list_price,list_price >= 0" json:"list_price"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);not null;check:ck_products_tax_rate,tax_rate >= 0" json:"tax_rate"`
	Status      ProductStatus   `gorm:"type:varchar(10);not null;default:ACTIVE" json:"status"`

	// Rows that keep the product from being deleted.
	CartLines  []CartLine  `gorm:"foreignKey:SKU;references:SKU;constraint:OnDelete:RESTRICT" json:"-"`
	OrderLines []OrderLine `gorm:"foreignKey:SKU;references:SKU;constraint:OnDelete:RESTRICT" json:"-"`
	Reviews    []Review    `gorm:"foreignKey:SKU;references:SKU;constraint:OnDelete:RESTRICT" json:"-"`
	Stock      []Stock     `gorm:"foreignKey:SKU;references:SKU;constraint:OnDelete:RESTRICT" json:"-"`
}

type Warehouse struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Name    string  `gorm:"size:80;not null" json:"name"`
	Address *string `gorm:"size:255" json:"address,omitempty"`

	Stock []Stock `gorm:"foreignKey:WarehouseID;constraint:OnDelete:CASCADE" json:"-"`
}

// Stock is maintained by inventory processes; checkout never decrements it.
type Stock struct {
	WarehouseID      uint      `gorm:"primaryKey" json:"warehouse_id"`
	SKU              string    `gorm:"primaryKey;size:32;index:idx_stock_sku" json:"sku"`
	Quantity         int       `gorm:"not null;check:ck_stock_quantity,quantity >= 0" json:"quantity"`
	ReorderThreshold int       `gorm:"not null;check:ck_stock_reorder_threshold,reorder_threshold >= 0" json:"reorder_threshold"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (Stock) TableName() string { return "stock" }
