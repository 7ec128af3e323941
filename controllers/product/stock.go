package productcontroller

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

type WarehouseInput struct {
	Name    string  `json:"name" binding:"required"`
	Address *string `json:"address"`
}

type StockInput struct {
	Quantity         int `json:"quantity"`
	ReorderThreshold int `json:"reorder_threshold"`
}

func CreateWarehouse(ctx context.Context, env *app.Env, in WarehouseInput) (*models.Warehouse, error) {
	w := models.Warehouse{Name: strings.TrimSpace(in.Name), Address: in.Address}
	if w.Name == "" {
		return nil, apperror.InvalidArgument("warehouse name is required")
	}
	if err := env.Conn(ctx).Omit(clause.Associations).Create(&w).Error; err != nil {
		return nil, apperror.FromStore("warehouse", w.Name, err)
	}
	return &w, nil
}

// SetStock writes the on-hand quantity and reorder threshold of sku at a
// warehouse, inserting the row on first use.
func SetStock(ctx context.Context, env *app.Env, warehouseID uint, sku string, in StockInput) (*models.Stock, error) {
	var stock *models.Stock
	err := env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		stock, err = upsertStock(tx, warehouseID, sku, in, env.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	env.Log.Info("stock updated", zap.Uint("warehouse_id", warehouseID), zap.String("sku", stock.SKU), zap.Int("quantity", stock.Quantity))
	return stock, nil
}

func upsertStock(tx *gorm.DB, warehouseID uint, sku string, in StockInput, now time.Time) (*models.Stock, error) {
	sku = strings.TrimSpace(sku)
	if in.Quantity < 0 || in.ReorderThreshold < 0 {
		return nil, apperror.InvalidArgument("quantity and reorder threshold must not be negative")
	}
	if err := tx.Select("id").First(&models.Warehouse{}, warehouseID).Error; err != nil {
		return nil, apperror.FromStore("warehouse", apperror.Key(warehouseID), err)
	}
	if err := tx.Select("sku").First(&models.Product{}, "sku = ?", sku).Error; err != nil {
		return nil, apperror.FromStore("product", sku, err)
	}

	stock := models.Stock{
		WarehouseID:      warehouseID,
		SKU:              sku,
		Quantity:         in.Quantity,
		ReorderThreshold: in.ReorderThreshold,
		UpdatedAt:        now,
	}
	err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "warehouse_id"}, {Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "reorder_threshold", "updated_at"}),
	}).Create(&stock).Error
	if err != nil {
		return nil, apperror.FromStore("stock", sku, err)
	}
	return &stock, nil
}

// POST /warehouses
func PostWarehouse(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input WarehouseInput
		if !middleware.Bind(c, &input) {
			return
		}
		w, err := CreateWarehouse(c.Request.Context(), env, input)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, w)
	}
}

// PUT /warehouses/:id/stock/:sku
func PutStock(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		warehouseID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		var input StockInput
		if !middleware.Bind(c, &input) {
			return
		}
		stock, err := SetStock(c.Request.Context(), env, warehouseID, c.Param("sku"), input)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, stock)
	}
}
