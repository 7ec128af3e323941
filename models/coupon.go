package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon is a discount rule. MaxUsages is stored but not enforced at checkout.
type Coupon struct {
	Code         string          `gorm:"primaryKey;size:30" json:"code"`
	Type         CouponType      `gorm:"type:varchar(12);not null" json:"type"`
	Value        decimal.Decimal `gorm:"type:decimal(10,2);not null;check:ck_coupons_value,value >= 0" json:"value"`
	StartDate    time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate      time.Time       `gorm:"type:date;not null;check:ck_coupons_dates,end_date >= start_date" json:"end_date"`
	MinimumOrder decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"minimum_order"`
	MaxUsages    int             `gorm:"not null;check:ck_coupons_max_usages,max_usages > 0" json:"max_usages"`
}

// OrderCoupon is the audit record of the coupon applied to an order; the
// order id is the key, so an order carries at most one.
type OrderCoupon struct {
	OrderID        uint            `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	CouponCode     string          `gorm:"size:30;not null;index:idx_order_coupons_code" json:"coupon_code"`
	AppliedAt      time.Time       `gorm:"not null" json:"applied_at"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;check:ck_order_coupons_discount,discount_amount >= 0" json:"discount_amount"`

	Coupon Coupon `gorm:"foreignKey:CouponCode;references:Code;constraint:OnDelete:RESTRICT" json:"-"`
}
