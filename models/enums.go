package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

type AddressType string
type ProductStatus string
type OrderStatus string
type PaymentOutcome string
type ShipmentStatus string
type CouponType string
type ReturnStatus string

const (
	AddressShipping AddressType = "SHIPPING"
	AddressBilling  AddressType = "BILLING"

	ProductActive   ProductStatus = "ACTIVE"
	ProductInactive ProductStatus = "INACTIVE"

	// Order statuses
	OrderCreated       OrderStatus = "CREATED"        // Checkout committed
	OrderPaid          OrderStatus = "PAID"           // At least one OK payment recorded
	OrderInPreparation OrderStatus = "IN_PREPARATION" // Picked and packed
	OrderShipped       OrderStatus = "SHIPPED"        // Handed to a carrier
	OrderDelivered     OrderStatus = "DELIVERED"      // Customer received it
	OrderCancelled     OrderStatus = "CANCELLED"      // Terminal

	PaymentOK PaymentOutcome = "OK"
	PaymentKO PaymentOutcome = "KO"

	ShipmentPreparing ShipmentStatus = "PREPARING"
	ShipmentInTransit ShipmentStatus = "IN_TRANSIT"
	ShipmentDelivered ShipmentStatus = "DELIVERED"
	ShipmentProblem   ShipmentStatus = "PROBLEM"

	CouponPercentage CouponType = "PERCENTAGE"
	CouponFixed      CouponType = "FIXED"

	ReturnOpen     ReturnStatus = "OPEN"
	ReturnApproved ReturnStatus = "APPROVED"
	ReturnRejected ReturnStatus = "REJECTED"
	ReturnRefunded ReturnStatus = "REFUNDED"
)

var (
	addressTypes    = []AddressType{AddressShipping, AddressBilling}
	productStatuses = []ProductStatus{ProductActive, ProductInactive}
	orderStatuses   = []OrderStatus{OrderCreated, OrderPaid, OrderInPreparation, OrderShipped, OrderDelivered, OrderCancelled}
	paymentOutcomes = []PaymentOutcome{PaymentOK, PaymentKO}
	shipmentStates  = []ShipmentStatus{ShipmentPreparing, ShipmentInTransit, ShipmentDelivered, ShipmentProblem}
	couponTypes     = []CouponType{CouponPercentage, CouponFixed}
	returnStatuses  = []ReturnStatus{ReturnOpen, ReturnApproved, ReturnRejected, ReturnRefunded}
)

func oneOf[T ~string](v T, set []T) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

func parseEnum[T ~string](name, raw string, set []T) (T, error) {
	v := T(strings.ToUpper(strings.TrimSpace(raw)))
	if !oneOf(v, set) {
		var zero T
		return zero, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

func valueEnum[T ~string](name string, v T, set []T) (driver.Value, error) {
	if !oneOf(v, set) {
		return nil, fmt.Errorf("invalid %s %q", name, string(v))
	}
	return string(v), nil
}

func scanEnum[T ~string](name string, dst *T, src any, set []T) error {
	var raw string
	switch s := src.(type) {
	case string:
		raw = s
	case []byte:
		raw = string(s)
	default:
		return fmt.Errorf("cannot scan %T into %s", src, name)
	}
	v, err := parseEnum(name, raw, set)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func ParseAddressType(s string) (AddressType, error) { return parseEnum("address type", s, addressTypes) }
func (t AddressType) Valid() bool                    { return oneOf(t, addressTypes) }
func (t AddressType) Value() (driver.Value, error)   { return valueEnum("address type", t, addressTypes) }
func (t *AddressType) Scan(src any) error            { return scanEnum("address type", t, src, addressTypes) }

func ParseProductStatus(s string) (ProductStatus, error) {
	return parseEnum("product status", s, productStatuses)
}
func (s ProductStatus) Valid() bool                  { return oneOf(s, productStatuses) }
func (s ProductStatus) Value() (driver.Value, error) { return valueEnum("product status", s, productStatuses) }
func (s *ProductStatus) Scan(src any) error          { return scanEnum("product status", s, src, productStatuses) }

func ParseOrderStatus(s string) (OrderStatus, error) { return parseEnum("order status", s, orderStatuses) }
func (s OrderStatus) Valid() bool                    { return oneOf(s, orderStatuses) }
func (s OrderStatus) Value() (driver.Value, error)   { return valueEnum("order status", s, orderStatuses) }
func (s *OrderStatus) Scan(src any) error            { return scanEnum("order status", s, src, orderStatuses) }

// IsTerminal reports whether no lifecycle event may move the order further.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

func (s OrderStatus) String() string { return string(s) }

func ParsePaymentOutcome(s string) (PaymentOutcome, error) {
	return parseEnum("payment outcome", s, paymentOutcomes)
}
func (o PaymentOutcome) Valid() bool                  { return oneOf(o, paymentOutcomes) }
func (o PaymentOutcome) Value() (driver.Value, error) { return valueEnum("payment outcome", o, paymentOutcomes) }
func (o *PaymentOutcome) Scan(src any) error          { return scanEnum("payment outcome", o, src, paymentOutcomes) }

func ParseShipmentStatus(s string) (ShipmentStatus, error) {
	return parseEnum("shipment status", s, shipmentStates)
}
func (s ShipmentStatus) Valid() bool                  { return oneOf(s, shipmentStates) }
func (s ShipmentStatus) Value() (driver.Value, error) { return valueEnum("shipment status", s, shipmentStates) }
func (s *ShipmentStatus) Scan(src any) error          { return scanEnum("shipment status", s, src, shipmentStates) }

func ParseCouponType(s string) (CouponType, error) { return parseEnum("coupon type", s, couponTypes) }
func (t CouponType) Valid() bool                   { return oneOf(t, couponTypes) }
func (t CouponType) Value() (driver.Value, error)  { return valueEnum("coupon type", t, couponTypes) }
func (t *CouponType) Scan(src any) error           { return scanEnum("coupon type", t, src, couponTypes) }

func ParseReturnStatus(s string) (ReturnStatus, error) {
	return parseEnum("return status", s, returnStatuses)
}
func (s ReturnStatus) Valid() bool                  { return oneOf(s, returnStatuses) }
func (s ReturnStatus) Value() (driver.Value, error) { return valueEnum("return status", s, returnStatuses) }
func (s *ReturnStatus) Scan(src any) error          { return scanEnum("return status", s, src, returnStatuses) }
