package paymentControllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/apperror"
	orderControllers "github.com/junaidrashid-git/glowhub/controllers/order"
	"github.com/junaidrashid-git/glowhub/events"
	"github.com/junaidrashid-git/glowhub/middleware"
	"github.com/junaidrashid-git/glowhub/models"
)

type PaymentRequest struct {
	Method        string          `json:"method" binding:"required"`
	Provider      string          `json:"provider"`
	Amount        decimal.Decimal `json:"amount"`
	Outcome       string          `json:"outcome" binding:"required"`
	TransactionID string          `json:"transaction_id"`
}

// PayOrder records a payment attempt against an order. The payment row and
// any status change it causes commit together.
func PayOrder(ctx context.Context, env *app.Env, orderID uint, req PaymentRequest) (*models.Payment, error) {
	method := strings.TrimSpace(req.Method)
	if method == "" {
		return nil, apperror.InvalidArgument("payment method is required")
	}
	outcome, err := models.ParsePaymentOutcome(req.Outcome)
	if err != nil {
		return nil, apperror.InvalidArgument("%v", err)
	}
	if req.Amount.IsNegative() {
		return nil, apperror.InvalidArgument("payment amount must not be negative")
	}

	var (
		payment models.Payment
		order   *models.Order
		moved   bool
	)
	err = env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if order, err = orderControllers.LockOrder(tx, orderID); err != nil {
			return err
		}

		pm, err := ensureMethod(tx, method, req.Provider)
		if err != nil {
			return err
		}

		payment = models.Payment{
			OrderID:  order.ID,
			MethodID: pm.ID,
			Amount:   req.Amount.Round(2),
			PaidAt:   env.Now(),
			Outcome:  outcome,
		}
		if txID := strings.TrimSpace(req.TransactionID); txID != "" {
			payment.TransactionID = &txID
		}
		if err := tx.Omit(clause.Associations).Create(&payment).Error; err != nil {
			return apperror.FromStore("payment", req.TransactionID, err)
		}
		payment.Method = *pm

		moved, err = orderControllers.Advance(tx, order, orderControllers.AfterPayment(order.Status, outcome))
		return err
	})
	if err != nil {
		return nil, err
	}

	env.Log.Info("payment recorded",
		zap.Uint("order_id", order.ID),
		zap.Uint("payment_id", payment.ID),
		zap.String("outcome", string(outcome)),
		zap.String("status", string(order.Status)),
	)
	env.Publish(ctx, events.New(events.PaymentRecorded, order.ID, order.Status, payment.PaidAt, map[string]any{
		"payment_id": payment.ID,
		"outcome":    string(outcome),
		"amount":     payment.Amount.StringFixed(2),
	}))
	if moved {
		env.Publish(ctx, events.New(events.OrderStatusMoved, order.ID, order.Status, payment.PaidAt, nil))
	}
	return &payment, nil
}

// ensureMethod returns the payment method called name, creating it on first use.
func ensureMethod(tx *gorm.DB, name, provider string) (*models.PaymentMethod, error) {
	pm := models.PaymentMethod{Name: name}
	if p := strings.TrimSpace(provider); p != "" {
		pm.Provider = &p
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&pm).Error; err != nil {
		return nil, apperror.FromStore("payment method", name, err)
	}

	var found models.PaymentMethod
	if err := tx.Where("name = ?", name).First(&found).Error; err != nil {
		return nil, apperror.FromStore("payment method", name, err)
	}
	return &found, nil
}

// POST /orders/:id/payments
func PayOrderHandler(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		var req PaymentRequest
		if !middleware.Bind(c, &req) {
			return
		}

		payment, err := PayOrder(c.Request.Context(), env, orderID, req)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, payment)
	}
}
