package orderControllers

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/glowhub/apperror"
	"github.com/junaidrashid-git/glowhub/models"
)

// AfterPayment is the status an order takes once a payment is recorded. An OK
// payment moves the order to PAID whatever its state; KO leaves it alone.
func AfterPayment(current models.OrderStatus, outcome models.PaymentOutcome) models.OrderStatus {
	if outcome == models.PaymentOK {
		return models.OrderPaid
	}
	return current
}

// AfterShipment is the status an order takes once a shipment is created.
// Orders already shipped, delivered or cancelled never move back.
func AfterShipment(current models.OrderStatus) models.OrderStatus {
	switch current {
	case models.OrderCreated, models.OrderPaid, models.OrderInPreparation:
		return models.OrderShipped
	}
	return current
}

// LockOrder loads the order and holds its row lock until tx ends.
func LockOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error; err != nil {
		return nil, apperror.FromStore("order", apperror.Key(orderID), err)
	}
	return &order, nil
}

// Advance writes next as the order's status when it differs from the current
// one, reporting whether anything changed.
func Advance(tx *gorm.DB, order *models.Order, next models.OrderStatus) (bool, error) {
	if !next.Valid() {
		return false, apperror.InvalidArgument("unknown order status %q", next)
	}
	if next == order.Status {
		return false, nil
	}
	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", next).Error; err != nil {
		return false, apperror.FromStore("order", apperror.Key(order.ID), err)
	}
	order.Status = next
	return true, nil
}
