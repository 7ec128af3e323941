package customerControllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/apperror"
	"github.com/junaidrashid-git/glowhub/middleware"
	"github.com/junaidrashid-git/glowhub/models"
)

type CreateCustomerInput struct {
	Email            string `json:"email" binding:"required"`
	FirstName        string `json:"first_name" binding:"required"`
	LastName         string `json:"last_name" binding:"required"`
	RegistrationDate string `json:"registration_date"` // YYYY-MM-DD, defaults to today
}

type AddressInput struct {
	Street     string  `json:"street" binding:"required"`
	Unit       *string `json:"unit"`
	City       string  `json:"city" binding:"required"`
	PostalCode *string `json:"postal_code"`
	Region     *string `json:"region"`
	Country    string  `json:"country" binding:"required"`
	Type       string  `json:"type" binding:"required"`
	IsDefault  bool    `json:"is_default"`
}

// CreateCustomer stores a customer together with an empty cart.
func CreateCustomer(ctx context.Context, env *app.Env, in CreateCustomerInput) (*models.Customer, error) {
	// Stored lower-cased so the unique index and the email report ignore case.
	email := strings.ToLower(strings.TrimSpace(in.Email))
	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	if !strings.Contains(email, "@") {
		return nil, apperror.InvalidArgument("invalid email %q", in.Email)
	}
	if first == "" || last == "" {
		return nil, apperror.InvalidArgument("first and last name are required")
	}

	now := env.Now()
	registered := app.DateOf(now)
	if in.RegistrationDate != "" {
		d, err := time.Parse(time.DateOnly, in.RegistrationDate)
		if err != nil {
			return nil, apperror.InvalidArgument("invalid registration_date %q", in.RegistrationDate)
		}
		registered = d
	}

	customer := models.Customer{Email: email, FirstName: first, LastName: last, RegistrationDate: registered}
	err := env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&customer).Error; err != nil {
			return apperror.FromStore("customer", email, err)
		}
		cart := models.Cart{CustomerID: customer.ID, CreatedAt: now, LastModified: now}
		if err := tx.Omit(clause.Associations).Create(&cart).Error; err != nil {
			return apperror.FromStore("cart", email, err)
		}
		customer.Cart = &cart
		return nil
	})
	if err != nil {
		return nil, err
	}

	env.Log.Info("customer created", zap.Uint("customer_id", customer.ID), zap.String("email", email))
	return &customer, nil
}

// AddAddress attaches an address to a customer. Marking it default does not
// clear other defaults.
func AddAddress(ctx context.Context, env *app.Env, customerID uint, in AddressInput) (*models.Address, error) {
	typ, err := models.ParseAddressType(in.Type)
	if err != nil {
		return nil, apperror.InvalidArgument("%v", err)
	}
	addr := models.Address{
		CustomerID: customerID,
		Street:     strings.TrimSpace(in.Street),
		Unit:       in.Unit,
		City:       strings.TrimSpace(in.City),
		PostalCode: in.PostalCode,
		Region:     in.Region,
		Country:    strings.TrimSpace(in.Country),
		Type:       typ,
		IsDefault:  in.IsDefault,
	}
	if addr.Street == "" || addr.City == "" || addr.Country == "" {
		return nil, apperror.InvalidArgument("street, city and country are required")
	}

	err = env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Customer{}, customerID).Error; err != nil {
			return apperror.FromStore("customer", apperror.Key(customerID), err)
		}
		if err := tx.Create(&addr).Error; err != nil {
			return apperror.FromStore("address", apperror.Key(customerID), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

var errNoop = errors.New("nothing to delete")

// DeleteCustomer removes a customer with their cart, addresses and reviews.
// Customers with orders are kept; an unknown id is a no-op.
func DeleteCustomer(ctx context.Context, env *app.Env, customerID uint) error {
	err := env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&customer, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNoop
			}
			return apperror.FromStore("customer", apperror.Key(customerID), err)
		}

		var orders int64
		if err := tx.Model(&models.Order{}).Where("customer_id = ?", customerID).Count(&orders).Error; err != nil {
			return apperror.FromStore("order", apperror.Key(customerID), err)
		}
		if orders > 0 {
			return apperror.ConstraintViolation("customer", "fk_orders_customer", nil)
		}

		carts := tx.Model(&models.Cart{}).Select("id").Where("customer_id = ?", customerID)
		steps := []struct {
			entity string
			run    func() error
		}{
			{"cart line", func() error { return tx.Where("cart_id IN (?)", carts).Delete(&models.CartLine{}).Error }},
			{"cart", func() error { return tx.Where("customer_id = ?", customerID).Delete(&models.Cart{}).Error }},
			{"review", func() error { return tx.Where("customer_id = ?", customerID).Delete(&models.Review{}).Error }},
			{"address", func() error { return tx.Where("customer_id = ?", customerID).Delete(&models.Address{}).Error }},
			{"customer", func() error { return tx.Delete(&customer).Error }},
		}
		for _, s := range steps {
			if err := s.run(); err != nil {
				return apperror.FromStore(s.entity, apperror.Key(customerID), err)
			}
		}
		return nil
	})
	if errors.Is(err, errNoop) {
		return nil
	}
	if err != nil {
		return err
	}
	env.Log.Info("customer deleted", zap.Uint("customer_id", customerID))
	return nil
}

// GetCustomer loads a customer with addresses and cart lines.
func GetCustomer(ctx context.Context, env *app.Env, customerID uint) (*models.Customer, error) {
	var customer models.Customer
	if err := env.Conn(ctx).Preload("Addresses").Preload("Cart.Lines").First(&customer, customerID).Error; err != nil {
		return nil, apperror.FromStore("customer", apperror.Key(customerID), err)
	}
	return &customer, nil
}

// POST /customers
func PostCustomer(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateCustomerInput
		if !middleware.Bind(c, &input) {
			return
		}
		customer, err := CreateCustomer(c.Request.Context(), env, input)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, customer)
	}
}

// GET /customers/:id
func GetCustomerHandler(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		customer, err := GetCustomer(c.Request.Context(), env, customerID)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

// POST /customers/:id/addresses
func PostAddress(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		var input AddressInput
		if !middleware.Bind(c, &input) {
			return
		}
		addr, err := AddAddress(c.Request.Context(), env, customerID, input)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, addr)
	}
}

// DELETE /customers/:id
func DeleteCustomerHandler(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		if err := DeleteCustomer(c.Request.Context(), env, customerID); err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
	}
}
