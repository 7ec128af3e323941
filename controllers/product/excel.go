package productcontroller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/apperror"
	"github.com/junaidrashid-git/glowhub/middleware"
	"github.com/junaidrashid-git/glowhub/models"
)

type ImportResult struct {
	Updated int      `json:"updated_count"`
	Skipped int      `json:"skipped_count"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportStock applies a stock sheet to one warehouse. The first sheet must
// have a header row followed by rows of SKU, quantity, reorder threshold.
// Bad rows are skipped and reported; good rows commit together.
func ImportStock(ctx context.Context, env *app.Env, warehouseID uint, xlFile *xlsx.File) (*ImportResult, error) {
	if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
		return nil, apperror.InvalidArgument("Excel file is empty or missing header row")
	}
	sheet := xlFile.Sheets[0]

	res := &ImportResult{}
	err := env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Warehouse{}, warehouseID).Error; err != nil {
			return apperror.FromStore("warehouse", apperror.Key(warehouseID), err)
		}

		now := env.Now()
		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]
			get := func(index int) string {
				if row != nil && index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			sku := get(0)
			if sku == "" {
				res.Skipped++
				continue
			}
			qty, err1 := strconv.Atoi(get(1))
			threshold, err2 := strconv.Atoi(get(2))
			if err1 != nil || err2 != nil {
				res.Skipped++
				res.Errors = append(res.Errors, "row "+strconv.Itoa(i+1)+": invalid number")
				continue
			}

			if _, err := upsertStock(tx, warehouseID, sku, StockInput{Quantity: qty, ReorderThreshold: threshold}, now); err != nil {
				var typed *apperror.Error
				if !errors.As(err, &typed) {
					return err
				}
				res.Skipped++
				res.Errors = append(res.Errors, "row "+strconv.Itoa(i+1)+": "+err.Error())
				continue
			}
			res.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	env.Log.Info("stock imported", zap.Uint("warehouse_id", warehouseID), zap.Int("updated", res.Updated), zap.Int("skipped", res.Skipped))
	return res, nil
}

// POST /warehouses/:id/stock/import
func ImportStockFromExcel(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		warehouseID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}

		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			middleware.Fail(c, apperror.InvalidArgument("Excel file is required"))
			return
		}
		file, err := excelFileHeader.Open()
		if err != nil {
			middleware.Fail(c, apperror.InvalidArgument("Failed to open Excel file"))
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			middleware.Fail(c, apperror.InvalidArgument("Failed to parse Excel file: %v", err))
			return
		}

		res, err := ImportStock(c.Request.Context(), env, warehouseID, xlFile)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
