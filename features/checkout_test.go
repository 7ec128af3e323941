package features

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/junaidrashid-git/glowhub/apperror"
	cartControllers "github.com/junaidrashid-git/glowhub/controllers/cart"
	orderControllers "github.com/junaidrashid-git/glowhub/controllers/order"
	paymentControllers "github.com/junaidrashid-git/glowhub/controllers/payment"
	shipmentControllers "github.com/junaidrashid-git/glowhub/controllers/shipment"
	"github.com/junaidrashid-git/glowhub/database/databasetest"
	"github.com/junaidrashid-git/glowhub/models"
)

type checkoutTestContext struct {
	t       *testing.T
	h       *databasetest.Harness
	fixture databasetest.Fixture

	before  models.Cart
	result  *orderControllers.CheckoutResult
	err     error
	results []error
	orderID uint
}

func (c *checkoutTestContext) reset() {
	c.h = nil
	c.fixture = databasetest.Fixture{}
	c.before = models.Cart{}
	c.result = nil
	c.err = nil
	c.results = nil
	c.orderID = 0
}

func (c *checkoutTestContext) aSeededCatalogWithCustomer(email string) error {
	c.h = databasetest.NewFile(c.t)
	c.fixture = databasetest.Seed(c.t, c.h)
	if c.fixture.Customer.Email != email {
		return fmt.Errorf("seeded customer is %s", c.fixture.Customer.Email)
	}
	return nil
}

func (c *checkoutTestContext) theCustomerAdds(qty int, sku string) error {
	_, err := cartControllers.AddItem(context.Background(), c.h.Env, c.fixture.Customer.ID, sku, qty)
	return err
}

func (c *checkoutTestContext) checkout(coupon string) {
	if err := c.h.DB.First(&c.before, c.fixture.Cart.ID).Error; err != nil {
		c.err = err
		return
	}
	c.result, c.err = orderControllers.Checkout(context.Background(), c.h.Env, c.fixture.Customer.ID, c.fixture.ShippingAddress.ID, coupon)
}

func (c *checkoutTestContext) theCustomerChecksOutWithCoupon(code string) error {
	c.checkout(code)
	return nil
}

func (c *checkoutTestContext) theCustomerChecksOut() error {
	c.checkout("")
	return nil
}

func (c *checkoutTestContext) theCustomerChecksOutTwiceAtOnce() error {
	var wg sync.WaitGroup
	c.results = make([]error, 2)
	for i := range c.results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, c.results[i] = orderControllers.Checkout(context.Background(), c.h.Env, c.fixture.Customer.ID, c.fixture.ShippingAddress.ID, "")
		}(i)
	}
	wg.Wait()
	return nil
}

func (c *checkoutTestContext) aPlacedOrder() error {
	if err := c.theCustomerAdds(1, "GH-SKIN-001"); err != nil {
		return err
	}
	c.checkout("")
	if c.err != nil {
		return c.err
	}
	c.orderID = c.result.OrderID
	return nil
}

func (c *checkoutTestContext) aPaymentWithOutcomeIsRecorded(outcome string) error {
	_, err := paymentControllers.PayOrder(context.Background(), c.h.Env, c.orderID, paymentControllers.PaymentRequest{
		Method:  "CARD",
		Amount:  decimal.RequireFromString("12.90"),
		Outcome: outcome,
	})
	return err
}

func (c *checkoutTestContext) aShipmentWithTrackingIsCreated(tracking string) error {
	_, err := shipmentControllers.CreateShipment(context.Background(), c.h.Env, c.orderID, shipmentControllers.ShipmentRequest{
		Carrier:  "BRT",
		Tracking: tracking,
	})
	return err
}

func (c *checkoutTestContext) theCartHasLines(n int) error {
	var count int64
	if err := c.h.DB.Model(&models.CartLine{}).Where("cart_id = ?", c.fixture.Cart.ID).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(n) {
		return fmt.Errorf("expected %d cart lines, got %d", n, count)
	}
	return nil
}

func (c *checkoutTestContext) theLineHasQuantity(sku string, qty int) error {
	var line models.CartLine
	if err := c.h.DB.Where("cart_id = ? AND sku = ?", c.fixture.Cart.ID, sku).First(&line).Error; err != nil {
		return err
	}
	if line.Quantity != qty {
		return fmt.Errorf("expected %d of %s, got %d", qty, sku, line.Quantity)
	}
	return nil
}

func (c *checkoutTestContext) theOrderTotalsAre(gross, discount, net string) error {
	if c.err != nil {
		return fmt.Errorf("checkout failed: %w", c.err)
	}
	want := map[string]string{"gross": gross, "discount": discount, "net": net}
	got := map[string]decimal.Decimal{"gross": c.result.GrossTotal, "discount": c.result.DiscountTotal, "net": c.result.NetTotal}
	for k, v := range want {
		if !decimal.RequireFromString(v).Equal(got[k]) {
			return fmt.Errorf("expected %s total %s, got %s", k, v, got[k].StringFixed(2))
		}
	}
	return nil
}

func (c *checkoutTestContext) theNetTotalEqualsGrossMinusDiscount() error {
	var order models.Order
	if err := c.h.DB.First(&order, c.result.OrderID).Error; err != nil {
		return err
	}
	if !order.NetTotal.Equal(order.GrossTotal.Sub(order.DiscountTotal).Round(2)) {
		return fmt.Errorf("net %s != %s - %s", order.NetTotal, order.GrossTotal, order.DiscountTotal)
	}
	return nil
}

func (c *checkoutTestContext) theCartWasModifiedByCheckout() error {
	var after models.Cart
	if err := c.h.DB.First(&after, c.fixture.Cart.ID).Error; err != nil {
		return err
	}
	if !after.LastModified.After(c.before.LastModified) {
		return fmt.Errorf("lastModified %s not after %s", after.LastModified, c.before.LastModified)
	}
	return nil
}

func hasKind(err error, kind string) error {
	var e *apperror.Error
	if !errors.As(err, &e) {
		return fmt.Errorf("expected %s, got %v", kind, err)
	}
	if e.Kind.String() != kind {
		return fmt.Errorf("expected %s, got %s", kind, e.Kind)
	}
	return nil
}

func (c *checkoutTestContext) checkoutFailsWith(kind string) error {
	return hasKind(c.err, kind)
}

func (c *checkoutTestContext) ordersExist(n int) error {
	var count int64
	if err := c.h.DB.Model(&models.Order{}).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(n) {
		return fmt.Errorf("expected %d orders, got %d", n, count)
	}
	return nil
}

func (c *checkoutTestContext) noOrderExists() error { return c.ordersExist(0) }

func (c *checkoutTestContext) checkoutsSucceed(ok int, kind string) error {
	succeeded := 0
	for _, err := range c.results {
		if err == nil {
			succeeded++
			continue
		}
		if err := hasKind(err, kind); err != nil {
			return err
		}
	}
	if succeeded != ok {
		return fmt.Errorf("expected %d successful checkouts, got %d", ok, succeeded)
	}
	return nil
}

func (c *checkoutTestContext) theOrderStatusIs(status string) error {
	var order models.Order
	if err := c.h.DB.First(&order, c.orderID).Error; err != nil {
		return err
	}
	if string(order.Status) != status {
		return fmt.Errorf("expected status %s, got %s", status, order.Status)
	}
	return nil
}

func (c *checkoutTestContext) theOrderHasShipments(n int) error {
	var count int64
	if err := c.h.DB.Model(&models.Shipment{}).Where("order_id = ?", c.orderID).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(n) {
		return fmt.Errorf("expected %d shipments, got %d", n, count)
	}
	return nil
}

func initializeScenario(t *testing.T) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		tc := &checkoutTestContext{t: t}

		ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
			tc.reset()
			return ctx, nil
		})

		// Given steps
		ctx.Step(`^a seeded catalog with customer "([^"]*)"$`, tc.aSeededCatalogWithCustomer)
		ctx.Step(`^the cart holds (\d+) of "([^"]*)"$`, tc.theCustomerAdds)
		ctx.Step(`^a placed order$`, tc.aPlacedOrder)

		// When steps
		ctx.Step(`^the customer adds (\d+) of "([^"]*)"$`, tc.theCustomerAdds)
		ctx.Step(`^the customer checks out with coupon "([^"]*)"$`, tc.theCustomerChecksOutWithCoupon)
		ctx.Step(`^the customer checks out$`, tc.theCustomerChecksOut)
		ctx.Step(`^the customer checks out twice at once$`, tc.theCustomerChecksOutTwiceAtOnce)
		ctx.Step(`^a payment with outcome "([^"]*)" is recorded$`, tc.aPaymentWithOutcomeIsRecorded)
		ctx.Step(`^a shipment with tracking "([^"]*)" is created$`, tc.aShipmentWithTrackingIsCreated)

		// Then steps
		ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
		ctx.Step(`^the order totals are gross "([^"]*)", discount "([^"]*)" and net "([^"]*)"$`, tc.theOrderTotalsAre)
		ctx.Step(`^the net total equals gross minus discount$`, tc.theNetTotalEqualsGrossMinusDiscount)
		ctx.Step(`^the "([^"]*)" line has quantity (\d+)$`, tc.theLineHasQuantity)
		ctx.Step(`^the cart was modified by checkout$`, tc.theCartWasModifiedByCheckout)
		ctx.Step(`^checkout fails with "([^"]*)"$`, tc.checkoutFailsWith)
		ctx.Step(`^no order exists$`, tc.noOrderExists)
		ctx.Step(`^(\d+) orders? exists?$`, tc.ordersExist)
		ctx.Step(`^exactly (\d+) checkout succeeds and the other fails with "([^"]*)"$`, tc.checkoutsSucceed)
		ctx.Step(`^the order status is "([^"]*)"$`, tc.theOrderStatusIs)
		ctx.Step(`^the order has (\d+) shipments?$`, tc.theOrderHasShipments)
	}
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario(t),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"checkout.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
