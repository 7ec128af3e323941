package productcontroller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/apperror"
	"github.com/junaidrashid-git/glowhub/middleware"
	"github.com/junaidrashid-git/glowhub/models"
)

// DefaultTaxRate applies when a product is created without one.
var DefaultTaxRate = decimal.NewFromInt(22)

type ProductInput struct {
	SKU         string           `json:"sku" binding:"required"`
	CategoryID  uint             `json:"category_id" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	Price       decimal.Decimal  `json:"price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	Brand       *string          `json:"brand"`
	Description *string          `json:"description"`
	Status      string           `json:"status"`
}

type PriceInput struct {
	Price decimal.Decimal `json:"price"`
}

func (in ProductInput) toModel() (models.Product, error) {
	p := models.Product{
		SKU:         strings.TrimSpace(in.SKU),
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Brand:       in.Brand,
		Description: in.Description,
		ListPrice:   in.Price.Round(2),
		TaxRate:     DefaultTaxRate,
		Status:      models.ProductActive,
	}
	if in.TaxRate != nil {
		p.TaxRate = in.TaxRate.Round(2)
	}
	if in.Status != "" {
		s, err := models.ParseProductStatus(in.Status)
		if err != nil {
			return p, apperror.InvalidArgument("%v", err)
		}
		p.Status = s
	}

	switch {
	case p.SKU == "" || len(p.SKU) > 32:
		return p, apperror.InvalidArgument("sku must be 1 to 32 characters")
	case p.Name == "":
		return p, apperror.InvalidArgument("product name is required")
	case p.ListPrice.IsNegative():
		return p, apperror.InvalidArgument("price must not be negative")
	case p.TaxRate.IsNegative():
		return p, apperror.InvalidArgument("tax rate must not be negative")
	}
	return p, nil
}

// CreateProduct adds a product to an existing category.
func CreateProduct(ctx context.Context, env *app.Env, in ProductInput) (*models.Product, error) {
	product, err := in.toModel()
	if err != nil {
		return nil, err
	}

	err = env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Category{}, product.CategoryID).Error; err != nil {
			return apperror.FromStore("category", apperror.Key(product.CategoryID), err)
		}
		if err := tx.Omit(clause.Associations).Create(&product).Error; err != nil {
			return apperror.FromStore("product", product.SKU, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	env.Log.Info("product created", zap.String("sku", product.SKU), zap.String("price", product.ListPrice.StringFixed(2)))
	return &product, nil
}

// UpdateProductPrice changes the list price. Cart lines keep the price they
// were added at.
func UpdateProductPrice(ctx context.Context, env *app.Env, sku string, price decimal.Decimal) error {
	sku = strings.TrimSpace(sku)
	if price.IsNegative() {
		return apperror.InvalidArgument("price must not be negative")
	}

	res := env.Conn(ctx).Model(&models.Product{}).Where("sku = ?", sku).Update("list_price", price.Round(2))
	if res.Error != nil {
		return apperror.FromStore("product", sku, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("product", sku)
	}
	env.Log.Info("product price updated", zap.String("sku", sku), zap.String("price", price.StringFixed(2)))
	return nil
}

// productRefs are the tables that keep a product from being deleted.
var productRefs = []struct {
	model      any
	constraint string
}{
	{&models.CartLine{}, "fk_cart_lines_product"},
	{&models.OrderLine{}, "fk_order_lines_product"},
	{&models.Review{}, "fk_reviews_product"},
	{&models.Stock{}, "fk_stock_product"},
}

// DeleteProduct removes a product nothing refers to. An unknown sku is a no-op.
func DeleteProduct(ctx context.Context, env *app.Env, sku string) error {
	sku = strings.TrimSpace(sku)
	return env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "sku = ?", sku).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return apperror.FromStore("product", sku, err)
		}

		for _, ref := range productRefs {
			var n int64
			if err := tx.Model(ref.model).Where("sku = ?", sku).Count(&n).Error; err != nil {
				return apperror.FromStore("product", sku, err)
			}
			if n > 0 {
				return apperror.ConstraintViolation("product", ref.constraint, nil)
			}
		}

		if err := tx.Delete(&product).Error; err != nil {
			return apperror.FromStore("product", sku, err)
		}
		env.Log.Info("product deleted", zap.String("sku", sku))
		return nil
	})
}

// ListProducts returns products, optionally limited to a category subtree.
func ListProducts(ctx context.Context, env *app.Env, categoryID uint) ([]models.Product, error) {
	db := env.Conn(ctx)
	query := db.Model(&models.Product{})
	if categoryID != 0 {
		tree, err := LoadCategoryTree(db)
		if err != nil {
			return nil, err
		}
		ids := tree.Subtree(categoryID)
		if ids == nil {
			return nil, apperror.NotFound("category", apperror.Key(categoryID))
		}
		query = query.Where("category_id IN ?", ids)
	}

	var products []models.Product
	if err := query.Order("sku").Find(&products).Error; err != nil {
		return nil, apperror.FromStore("product", "", err)
	}
	return products, nil
}

// POST /products
func PostProduct(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if !middleware.Bind(c, &input) {
			return
		}
		product, err := CreateProduct(c.Request.Context(), env, input)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// GET /products?category_id=
func GetProducts(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categoryID uint
		if raw := c.Query("category_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				middleware.Fail(c, apperror.InvalidArgument("invalid category_id %q", raw))
				return
			}
			categoryID = uint(id)
		}

		products, err := ListProducts(c.Request.Context(), env, categoryID)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// PUT /products/:sku/price
func UpdatePrice(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PriceInput
		if !middleware.Bind(c, &input) {
			return
		}
		if err := UpdateProductPrice(c.Request.Context(), env, c.Param("sku"), input.Price); err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Price updated", "sku": c.Param("sku"), "price": input.Price.StringFixed(2)})
	}
}

// DELETE /products/:sku
func DeleteProductHandler(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := DeleteProduct(c.Request.Context(), env, c.Param("sku")); err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
