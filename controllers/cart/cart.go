package cartControllers

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
	"github.com/junaidrashid-git/glowhub/middleware"
	"github.com/junaidrashid-git/glowhub/models"
)

type CartItemInput struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// GetOrCreateCart returns the customer's cart, creating it on first use.
func GetOrCreateCart(ctx context.Context, env *app.Env, customerID uint) (*models.Cart, error) {
	var cart *models.Cart
	err := env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = ensureCart(tx, customerID, env.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := env.Conn(ctx).Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_lines.id")
	}).First(cart, cart.ID).Error; err != nil {
		return nil, apperror.FromStore("cart", "", err)
	}
	return cart, nil
}

// LockCart returns the customer's cart with its row locked for the rest of tx.
// The cart is created when missing; that insert is undone if tx rolls back.
func LockCart(tx *gorm.DB, customerID uint, now time.Time) (*models.Cart, error) {
	cart, err := ensureCart(tx, customerID, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(cart, cart.ID).Error; err != nil {
		return nil, apperror.FromStore("cart", "", err)
	}
	return cart, nil
}

func ensureCart(tx *gorm.DB, customerID uint, now time.Time) (*models.Cart, error) {
	if err := tx.Select("id").First(&models.Customer{}, customerID).Error; err != nil {
		return nil, apperror.FromStore("customer", apperror.Key(customerID), err)
	}

	// Two first-time writers may race here; the unique customer index keeps one row.
	cart := models.Cart{CustomerID: customerID, CreatedAt: now, LastModified: now}
	if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&cart).Error; err != nil {
		return nil, apperror.FromStore("cart", apperror.Key(customerID), err)
	}

	var found models.Cart
	if err := tx.Where("customer_id = ?", customerID).First(&found).Error; err != nil {
		return nil, apperror.FromStore("cart", apperror.Key(customerID), err)
	}
	return &found, nil
}

// AddItem puts qty units of sku in the customer's cart. An existing line keeps
// its original price and has its quantity increased; a new line records the
// product's current list price.
func AddItem(ctx context.Context, env *app.Env, customerID uint, sku string, qty int) (*models.CartLine, error) {
	sku = strings.TrimSpace(sku)
	if qty <= 0 {
		return nil, apperror.InvalidArgument("quantity must be positive, got %d", qty)
	}
	if sku == "" {
		return nil, apperror.InvalidArgument("sku is required")
	}

	var line models.CartLine
	err := env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		now := env.Now()
		cart, err := LockCart(tx, customerID, now)
		if err != nil {
			return err
		}

		var product models.Product
		if err := tx.First(&product, "sku = ?", sku).Error; err != nil {
			return apperror.FromStore("product", sku, err)
		}

		res := tx.Model(&models.CartLine{}).
			Where("cart_id = ? AND sku = ?", cart.ID, sku).
			Update("quantity", gorm.Expr("quantity + ?", qty))
		if res.Error != nil {
			return apperror.FromStore("cart line", sku, res.Error)
		}
		if res.RowsAffected == 0 {
			newLine := models.CartLine{
				CartID:    cart.ID,
				SKU:       sku,
				Quantity:  qty,
				PriceSeen: product.ListPrice,
				AddedAt:   now,
			}
			if err := tx.Omit(clause.Associations).Create(&newLine).Error; err != nil {
				return apperror.FromStore("cart line", sku, err)
			}
		}

		if err := touch(tx, cart.ID, now); err != nil {
			return err
		}
		return tx.Where("cart_id = ? AND sku = ?", cart.ID, sku).First(&line).Error
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// RemoveItem deletes the sku line from the customer's cart. Missing lines are a no-op.
func RemoveItem(ctx context.Context, env *app.Env, customerID uint, sku string) error {
	return env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		now := env.Now()
		cart, err := LockCart(tx, customerID, now)
		if err != nil {
			return err
		}

		res := tx.Where("cart_id = ? AND sku = ?", cart.ID, strings.TrimSpace(sku)).Delete(&models.CartLine{})
		if res.Error != nil {
			return apperror.FromStore("cart line", sku, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return touch(tx, cart.ID, now)
	})
}

func touch(tx *gorm.DB, cartID uint, now time.Time) error {
	if err := tx.Model(&models.Cart{}).Where("id = ?", cartID).Update("last_modified", now).Error; err != nil {
		return apperror.FromStore("cart", apperror.Key(cartID), err)
	}
	return nil
}

// POST /customers/:id/cart
func UpdateCartItem(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}

		var input CartItemInput
		if !middleware.Bind(c, &input) {
			return
		}

		line, err := AddItem(c.Request.Context(), env, customerID, input.SKU, input.Quantity)
		if err != nil {
			middleware.Fail(c, err)
			return
		}

		env.Log.Debug("cart line updated", zap.Uint("customer_id", customerID), zap.String("sku", line.SKU), zap.Int("quantity", line.Quantity))
		c.JSON(http.StatusOK, line)
	}
}

// DELETE /customers/:id/cart/:sku
func DeleteCartItem(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}

		if err := RemoveItem(c.Request.Context(), env, customerID, c.Param("sku")); err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// GET /customers/:id/cart
func GetCustomerCart(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}

		cart, err := GetOrCreateCart(c.Request.Context(), env, customerID)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}
