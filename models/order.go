package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is immutable once created apart from Status and the payments and
// shipments attached to it later.
type Order struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Reference         string          `gorm:"size:64;not null;uniqueIndex:uq_orders_reference" json:"reference"`
	CustomerID        uint            `gorm:"not null;index:idx_orders_customer_created,priority:1" json:"customer_id"`
	ShippingAddressID uint            `gorm:"not null" json:"shipping_address_id"`
	CreatedAt         time.Time       `gorm:"not null;index:idx_orders_customer_created,priority:2" json:"created_at"`
	Status            OrderStatus     `gorm:"type:varchar(16);not null" json:"status"`
	GrossTotal        decimal.Decimal `gorm:"type:decimal(10,2);not null;check:ck_orders_gross_total,gross_total >= 0" json:"gross_total"`
	DiscountTotal     decimal.Decimal `gorm:"type:decimal(10,2);not null;check:ck_orders_discount_total,discount_total >= 0" json:"discount_total"`
	NetTotal          decimal.Decimal `gorm:"type:decimal(10,2);not null;check:ck_orders_net_total,net_total >= 0 AND ABS(net_total - (gross_total - discount_total)) < 0.01" json:"net_total"`

	Customer        Customer     `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"-"`
	ShippingAddress Address      `gorm:"foreignKey:ShippingAddressID;constraint:OnDelete:RESTRICT" json:"-"`
	Lines           []OrderLine  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
	Payments        []Payment    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	Shipments       []Shipment   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"shipments,omitempty"`
	Coupon          *OrderCoupon `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"coupon,omitempty"`
}

type OrderLine struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderID      uint            `gorm:"not null;uniqueIndex:uq_order_lines_order_sku" json:"order_id"`
	SKU          string          `gorm:"size:32;not null;uniqueIndex:uq_order_lines_order_sku;index:idx_order_lines_sku" json:"sku"`
	Quantity     int             `gorm:"not null;check:ck_order_lines_quantity,quantity > 0" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null;check:ck_order_lines_unit_price,unit_price >= 0" json:"unit_price"`
	LineDiscount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0;check:ck_order_lines_discount,line_discount >= 0" json:"line_discount"`

	Return *Return `gorm:"foreignKey:OrderLineID;constraint:OnDelete:CASCADE" json:"return,omitempty"`
}

type PaymentMethod struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"size:50;not null;uniqueIndex:uq_payment_methods_name" json:"name"`
	Provider *string `gorm:"size:80" json:"provider,omitempty"`
}

// Payment is append-only; several attempts per order are allowed.
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;index:idx_payments_order_time,priority:1" json:"order_id"`
	MethodID      uint            `gorm:"not null" json:"method_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null;check:ck_payments_amount,amount >= 0" json:"amount"`
	PaidAt        time.Time       `gorm:"not null;index:idx_payments_order_time,priority:2" json:"paid_at"`
	Outcome       PaymentOutcome  `gorm:"type:varchar(2);not null" json:"outcome"`
	TransactionID *string         `gorm:"size:80;uniqueIndex:uq_payments_transaction" json:"transaction_id,omitempty"`

	Method PaymentMethod `gorm:"foreignKey:MethodID;constraint:OnDelete:RESTRICT" json:"method"`
}

type Carrier struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `gorm:"size:80;not null;uniqueIndex:uq_carriers_name" json:"name"`
	CustomerCare *string `gorm:"size:120" json:"customer_care,omitempty"`
}

// Shipment is append-only; the tracking code is opaque and globally unique.
type Shipment struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	OrderID           uint           `gorm:"not null;index:idx_shipments_order" json:"order_id"`
	CarrierID         uint           `gorm:"not null;index:idx_shipments_carrier" json:"carrier_id"`
	Tracking          string         `gorm:"size:80;not null;uniqueIndex:uq_shipments_tracking" json:"tracking"`
	Status            ShipmentStatus `gorm:"type:varchar(12);not null" json:"status"`
	DispatchedAt      time.Time      `gorm:"not null" json:"dispatched_at"`
	EstimatedDelivery *time.Time     `gorm:"type:date" json:"estimated_delivery,omitempty"`

	Carrier Carrier `gorm:"foreignKey:CarrierID;constraint:OnDelete:RESTRICT" json:"carrier"`
}

// Return is opened against a single order line, at most once.
type Return struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	OrderLineID uint         `gorm:"not null;uniqueIndex:uq_returns_order_line" json:"order_line_id"`
	Reason      string       `gorm:"size:255;not null" json:"reason"`
	Status      ReturnStatus `gorm:"type:varchar(10);not null;index:idx_returns_status" json:"status"`
	OpenedOn    time.Time    `gorm:"type:date;not null" json:"opened_on"`
}

// All lists every table in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&Customer{},
		&Address{},
		&Category{},
		&Product{},
		&Warehouse{},
		&Stock{},
		&Cart{},
		&CartLine{},
		&Coupon{},
		&Order{},
		&OrderLine{},
		&OrderCoupon{},
		&PaymentMethod{},
		&Payment{},
		&Carrier{},
		&Shipment{},
		&Review{},
		&Return{},
	}
}
