// Package reportControllers serves read-only projections over orders,
// shipments, stock, coupons and reviews.
package reportControllers

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/apperror"
	"github.com/junaidrashid-git/glowhub/models"
)

const stamp = "2006-01-02 15:04:05"

type CustomerOrderRow struct {
	OrderID   uint               `json:"order_id"`
	CreatedAt time.Time          `json:"created_at"`
	Status    models.OrderStatus `json:"status"`
	NetTotal  decimal.Decimal    `json:"net_total"`
}

func (CustomerOrderRow) header() []string { return []string{"OrderID", "CreatedAt", "Status", "NetTotal"} }
func (r CustomerOrderRow) cells() []any {
	return []any{r.OrderID, r.CreatedAt.Format(stamp), string(r.Status), r.NetTotal.StringFixed(2)}
}

// OrdersByCustomerEmail lists a customer's orders, newest first.
func OrdersByCustomerEmail(ctx context.Context, env *app.Env, email string) ([]CustomerOrderRow, error) {
	var rows []CustomerOrderRow
	err := env.Conn(ctx).Table("orders").
		Select("orders.id AS order_id, orders.created_at, orders.status, orders.net_total").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("customers.email = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("orders.created_at DESC").
		Scan(&rows).Error
	return rows, wrap("order", email, err)
}

type OrderLineRow struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineDiscount decimal.Decimal `json:"line_discount"`
}

func (OrderLineRow) header() []string {
	return []string{"SKU", "Name", "Quantity", "UnitPrice", "LineDiscount"}
}
func (r OrderLineRow) cells() []any {
	return []any{r.SKU, r.Name, r.Quantity, r.UnitPrice.StringFixed(2), r.LineDiscount.StringFixed(2)}
}

// OrderLineDetail lists the lines of one order by SKU.
func OrderLineDetail(ctx context.Context, env *app.Env, orderID uint) ([]OrderLineRow, error) {
	var rows []OrderLineRow
	err := env.Conn(ctx).Table("order_lines").
		Select("products.sku, products.name, order_lines.quantity, order_lines.unit_price, order_lines.line_discount").
		Joins("JOIN products ON products.sku = order_lines.sku").
		Where("order_lines.order_id = ?", orderID).
		Order("products.sku").
		Scan(&rows).Error
	return rows, wrap("order line", apperror.Key(orderID), err)
}

type CarrierShipmentRow struct {
	Tracking     string                `json:"tracking"`
	Status       models.ShipmentStatus `json:"status"`
	DispatchedAt time.Time             `json:"dispatched_at"`
	OrderID      uint                  `json:"order_id"`
	Email        string                `json:"email"`
}

func (CarrierShipmentRow) header() []string {
	return []string{"Tracking", "Status", "DispatchedAt", "OrderID", "Email"}
}
func (r CarrierShipmentRow) cells() []any {
	return []any{r.Tracking, string(r.Status), r.DispatchedAt.Format(stamp), r.OrderID, r.Email}
}

// ShipmentsByCarrier lists a carrier's shipments dispatched within [from, to], newest first.
func ShipmentsByCarrier(ctx context.Context, env *app.Env, carrier string, from, to time.Time) ([]CarrierShipmentRow, error) {
	if to.Before(from) {
		return nil, apperror.InvalidArgument("period end %s is before start %s", to.Format(stamp), from.Format(stamp))
	}
	var rows []CarrierShipmentRow
	err := env.Conn(ctx).Table("shipments").
		Select("shipments.tracking, shipments.status, shipments.dispatched_at, orders.id AS order_id, customers.email").
		Joins("JOIN carriers ON carriers.id = shipments.carrier_id").
		Joins("JOIN orders ON orders.id = shipments.order_id").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("carriers.name = ? AND shipments.dispatched_at >= ? AND shipments.dispatched_at <= ?", carrier, from, to).
		Order("shipments.dispatched_at DESC").
		Scan(&rows).Error
	return rows, wrap("shipment", carrier, err)
}

type LowStockRow struct {
	Warehouse        string `json:"warehouse"`
	SKU              string `json:"sku"`
	Name             string `json:"name"`
	Quantity         int    `json:"quantity"`
	ReorderThreshold int    `json:"reorder_threshold"`
}

func (LowStockRow) header() []string {
	return []string{"Warehouse", "SKU", "Name", "Quantity", "ReorderThreshold"}
}
func (r LowStockRow) cells() []any {
	return []any{r.Warehouse, r.SKU, r.Name, r.Quantity, r.ReorderThreshold}
}

// BelowReorderThreshold lists stock rows under their reorder threshold.
func BelowReorderThreshold(ctx context.Context, env *app.Env) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := env.Conn(ctx).Table("stock").
		Select("warehouses.name AS warehouse, products.sku, products.name, stock.quantity, stock.reorder_threshold").
		Joins("JOIN warehouses ON warehouses.id = stock.warehouse_id").
		Joins("JOIN products ON products.sku = stock.sku").
		Where("stock.quantity < stock.reorder_threshold").
		Order("warehouses.name, products.sku").
		Scan(&rows).Error
	return rows, wrap("stock", "", err)
}

type CouponUsageRow struct {
	Email          string          `json:"email"`
	OrderID        uint            `json:"order_id"`
	AppliedAt      time.Time       `json:"applied_at"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

func (CouponUsageRow) header() []string {
	return []string{"Email", "OrderID", "AppliedAt", "DiscountAmount"}
}
func (r CouponUsageRow) cells() []any {
	return []any{r.Email, r.OrderID, r.AppliedAt.Format(stamp), r.DiscountAmount.StringFixed(2)}
}

// CouponUsers lists who used a coupon and when, newest first.
func CouponUsers(ctx context.Context, env *app.Env, code string) ([]CouponUsageRow, error) {
	var rows []CouponUsageRow
	err := env.Conn(ctx).Table("order_coupons").
		Select("customers.email, orders.id AS order_id, order_coupons.applied_at, order_coupons.discount_amount").
		Joins("JOIN orders ON orders.id = order_coupons.order_id").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("order_coupons.coupon_code = ?", strings.TrimSpace(code)).
		Order("order_coupons.applied_at DESC").
		Scan(&rows).Error
	return rows, wrap("order coupon", code, err)
}

type CategoryReviewRow struct {
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Rating     int       `json:"rating"`
	Title      *string   `json:"title,omitempty"`
	ReviewedOn time.Time `json:"reviewed_on"`
}

func (CategoryReviewRow) header() []string {
	return []string{"SKU", "Name", "Email", "Rating", "Title", "ReviewedOn"}
}
func (r CategoryReviewRow) cells() []any {
	title := ""
	if r.Title != nil {
		title = *r.Title
	}
	return []any{r.SKU, r.Name, r.Email, r.Rating, title, r.ReviewedOn.Format(time.DateOnly)}
}

// ReviewsByCategory lists reviews of products filed directly under the named
// category, newest first.
func ReviewsByCategory(ctx context.Context, env *app.Env, category string) ([]CategoryReviewRow, error) {
	var rows []CategoryReviewRow
	err := env.Conn(ctx).Table("reviews").
		Select("products.sku, products.name, customers.email, reviews.rating, reviews.title, reviews.reviewed_on").
		Joins("JOIN products ON products.sku = reviews.sku").
		Joins("JOIN categories ON categories.id = products.category_id").
		Joins("JOIN customers ON customers.id = reviews.customer_id").
		Where("categories.name = ?", category).
		Order("reviews.reviewed_on DESC, reviews.id DESC").
		Scan(&rows).Error
	return rows, wrap("review", category, err)
}

func wrap(entity, key string, err error) error {
	if err != nil {
		return apperror.FromStore(entity, key, err)
	}
	return nil
}
