package models

import "time"

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;uniqueIndex:uq_reviews_customer_sku" json:"customer_id"`
	SKU        string    `gorm:"size:32;not null;uniqueIndex:uq_reviews_customer_sku;index:idx_reviews_sku_date,priority:1" json:"sku"`
	Rating     int       `gorm:"not null;check:ck_reviews_rating,rating BETWEEN 1 AND 5" json:"rating"`
	Title      *string   `gorm:"size:120" json:"title,omitempty"`
	Body       *string   `gorm:"type:text" json:"body,omitempty"`
	ReviewedOn time.Time `gorm:"type:date;not null;index:idx_reviews_sku_date,priority:2" json:"reviewed_on"`
}
