package orderControllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/apperror"
	cartControllers "github.com/junaidrashid-git/glowhub/controllers/cart"
	couponControllers "github.com/junaidrashid-git/glowhub/controllers/coupon"
	"github.com/junaidrashid-git/glowhub/events"
	"github.com/junaidrashid-git/glowhub/middleware"
	"github.com/junaidrashid-git/glowhub/models"
)

// -------- Request Structs --------
type CheckoutRequest struct {
	ShippingAddressID uint   `json:"shipping_address_id" binding:"required"`
	CouponCode        string `json:"coupon_code"`
}

type CheckoutResult struct {
	OrderID       uint            `json:"order_id"`
	Reference     string          `json:"reference"`
	GrossTotal    decimal.Decimal `json:"gross_total"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	NetTotal      decimal.Decimal `json:"net_total"`
}

// -------- Helpers --------

var tolerance = decimal.RequireFromString("0.01")

// Generate unique order reference
func generateOrderRef(now time.Time) string {
	// Example: ORD-20250908130500-<uuid4>
	return "ORD-" + now.Format("20060102150405") + "-" + uuid.NewString()
}

// -------- Core Logic --------

// Checkout turns the customer's cart into an order in one transaction. The
// cart row is locked first, so a concurrent checkout of the same cart waits
// and then finds no lines.
func Checkout(ctx context.Context, env *app.Env, customerID, shippingAddressID uint, couponCode string) (*CheckoutResult, error) {
	couponCode = strings.TrimSpace(couponCode)

	var order models.Order
	err := env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		now := env.Now()
		cart, err := cartControllers.LockCart(tx, customerID, now)
		if err != nil {
			return err
		}

		var lines []models.CartLine
		if err := tx.Where("cart_id = ?", cart.ID).Order("id").Find(&lines).Error; err != nil {
			return apperror.FromStore("cart line", apperror.Key(cart.ID), err)
		}
		if len(lines) == 0 {
			return apperror.EmptyCart(customerID)
		}

		var address models.Address
		if err := tx.First(&address, shippingAddressID).Error; err != nil {
			return apperror.FromStore("address", apperror.Key(shippingAddressID), err)
		}
		if address.CustomerID != customerID {
			return apperror.InvalidArgument("address %d does not belong to customer %d", shippingAddressID, customerID)
		}

		gross := decimal.Zero
		for _, l := range lines {
			gross = gross.Add(l.Subtotal())
		}

		discount := decimal.Zero
		var coupon *models.Coupon
		if couponCode != "" {
			coupon, discount, err = couponControllers.EvaluateCode(tx, couponCode, gross, now)
			if err != nil {
				return err
			}
		}

		net := gross.Sub(discount).Round(2)
		if net.Sub(gross.Sub(discount)).Abs().GreaterThanOrEqual(tolerance) || net.IsNegative() {
			return apperror.InvalidArgument("net total %s does not match %s - %s", net, gross, discount)
		}

		order = models.Order{
			Reference:         generateOrderRef(now),
			CustomerID:        customerID,
			ShippingAddressID: shippingAddressID,
			CreatedAt:         now,
			Status:            models.OrderCreated,
			GrossTotal:        gross,
			DiscountTotal:     discount,
			NetTotal:          net,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return apperror.FromStore("order", order.Reference, err)
		}

		orderLines := make([]models.OrderLine, 0, len(lines))
		for _, l := range lines {
			orderLines = append(orderLines, models.OrderLine{
				OrderID:      order.ID,
				SKU:          l.SKU,
				Quantity:     l.Quantity,
				UnitPrice:    l.PriceSeen,
				LineDiscount: decimal.Zero,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&orderLines).Error; err != nil {
			return apperror.FromStore("order line", order.Reference, err)
		}
		order.Lines = orderLines

		if coupon != nil {
			usage := models.OrderCoupon{
				OrderID:        order.ID,
				CouponCode:     coupon.Code,
				AppliedAt:      now,
				DiscountAmount: discount,
			}
			if err := tx.Omit(clause.Associations).Create(&usage).Error; err != nil {
				return apperror.FromStore("order coupon", coupon.Code, err)
			}
		}

		// Clear cart items
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartLine{}).Error; err != nil {
			return apperror.FromStore("cart line", apperror.Key(cart.ID), err)
		}
		if err := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("last_modified", now).Error; err != nil {
			return apperror.FromStore("cart", apperror.Key(cart.ID), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	env.Log.Info("order placed",
		zap.Uint("order_id", order.ID),
		zap.String("reference", order.Reference),
		zap.Uint("customer_id", customerID),
		zap.String("net_total", order.NetTotal.StringFixed(2)),
		zap.String("coupon", couponCode),
	)
	env.Publish(ctx, events.New(events.OrderPlaced, order.ID, order.Status, order.CreatedAt, map[string]any{
		"reference": order.Reference,
		"net_total": order.NetTotal.StringFixed(2),
		"lines":     len(order.Lines),
	}))

	return &CheckoutResult{
		OrderID:       order.ID,
		Reference:     order.Reference,
		GrossTotal:    order.GrossTotal,
		DiscountTotal: order.DiscountTotal,
		NetTotal:      order.NetTotal,
	}, nil
}

// GetOrder loads an order with its lines, payments, shipments and coupon.
func GetOrder(ctx context.Context, env *app.Env, orderID uint) (*models.Order, error) {
	var order models.Order
	err := env.Conn(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_lines.id") }).
		Preload("Lines.Return").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payments.id") }).
		Preload("Payments.Method").
		Preload("Shipments", func(db *gorm.DB) *gorm.DB { return db.Order("shipments.id") }).
		Preload("Shipments.Carrier").
		Preload("Coupon").
		First(&order, orderID).Error
	if err != nil {
		return nil, apperror.FromStore("order", apperror.Key(orderID), err)
	}
	return &order, nil
}

// -------- Handlers --------

// POST /customers/:id/checkout
func CheckoutHandler(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		var req CheckoutRequest
		if !middleware.Bind(c, &req) {
			return
		}

		res, err := Checkout(c.Request.Context(), env, customerID, req.ShippingAddressID, req.CouponCode)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

// GET /orders/:id
func GetOrderByIDHandler(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		order, err := GetOrder(c.Request.Context(), env, orderID)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
