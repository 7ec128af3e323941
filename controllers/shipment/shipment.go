package shipmentControllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
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

type ShipmentRequest struct {
	Carrier           string `json:"carrier" binding:"required"`
	CustomerCare      string `json:"customer_care"`
	Tracking          string `json:"tracking" binding:"required"`
	Status            string `json:"status"`             // defaults to PREPARING
	EstimatedDelivery string `json:"estimated_delivery"` // YYYY-MM-DD
}

// CreateShipment records a shipment for an order and moves the order to
// SHIPPED when it has not shipped yet. Both writes commit together.
func CreateShipment(ctx context.Context, env *app.Env, orderID uint, req ShipmentRequest) (*models.Shipment, error) {
	carrier := strings.TrimSpace(req.Carrier)
	tracking := strings.TrimSpace(req.Tracking)
	if carrier == "" {
		return nil, apperror.InvalidArgument("carrier is required")
	}
	if tracking == "" {
		return nil, apperror.InvalidArgument("tracking code is required")
	}

	status := models.ShipmentPreparing
	if strings.TrimSpace(req.Status) != "" {
		s, err := models.ParseShipmentStatus(req.Status)
		if err != nil {
			return nil, apperror.InvalidArgument("%v", err)
		}
		status = s
	}

	var eta *time.Time
	if req.EstimatedDelivery != "" {
		t, err := time.Parse(time.DateOnly, req.EstimatedDelivery)
		if err != nil {
			return nil, apperror.InvalidArgument("invalid estimated_delivery %q", req.EstimatedDelivery)
		}
		eta = &t
	}

	var (
		shipment models.Shipment
		order    *models.Order
		moved    bool
	)
	err := env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if order, err = orderControllers.LockOrder(tx, orderID); err != nil {
			return err
		}

		c, err := ensureCarrier(tx, carrier, req.CustomerCare)
		if err != nil {
			return err
		}

		shipment = models.Shipment{
			OrderID:           order.ID,
			CarrierID:         c.ID,
			Tracking:          tracking,
			Status:            status,
			DispatchedAt:      env.Now(),
			EstimatedDelivery: eta,
		}
		if err := tx.Omit(clause.Associations).Create(&shipment).Error; err != nil {
			return apperror.FromStore("shipment", tracking, err)
		}
		shipment.Carrier = *c

		moved, err = orderControllers.Advance(tx, order, orderControllers.AfterShipment(order.Status))
		return err
	})
	if err != nil {
		return nil, err
	}

	env.Log.Info("shipment created",
		zap.Uint("order_id", order.ID),
		zap.String("tracking", tracking),
		zap.String("carrier", carrier),
		zap.String("status", string(order.Status)),
	)
	env.Publish(ctx, events.New(events.ShipmentCreated, order.ID, order.Status, shipment.DispatchedAt, map[string]any{
		"tracking": tracking,
		"carrier":  carrier,
	}))
	if moved {
		env.Publish(ctx, events.New(events.OrderStatusMoved, order.ID, order.Status, shipment.DispatchedAt, nil))
	}
	return &shipment, nil
}

// ensureCarrier returns the carrier called name, creating it on first use.
func ensureCarrier(tx *gorm.DB, name, customerCare string) (*models.Carrier, error) {
	c := models.Carrier{Name: name}
	if cc := strings.TrimSpace(customerCare); cc != "" {
		c.CustomerCare = &cc
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&c).Error; err != nil {
		return nil, apperror.FromStore("carrier", name, err)
	}

	var found models.Carrier
	if err := tx.Where("name = ?", name).First(&found).Error; err != nil {
		return nil, apperror.FromStore("carrier", name, err)
	}
	return &found, nil
}

// POST /orders/:id/shipments
func CreateShipmentHandler(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		var req ShipmentRequest
		if !middleware.Bind(c, &req) {
			return
		}

		shipment, err := CreateShipment(c.Request.Context(), env, orderID, req)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, shipment)
	}
}
