package productcontroller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/middleware"
	"github.com/junaidrashid-git/glowhub/models"
)

// CatalogWorkbook lays the catalog out as a single "Products" sheet.
func CatalogWorkbook(products []models.Product, tree *CategoryTree) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	// Header row
	headers := []string{"SKU", "Name", "Brand", "Category", "ListPrice", "TaxRate", "Status"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	// Data rows
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.SKU)
		row.AddCell().SetValue(p.Name)
		brand := ""
		if p.Brand != nil {
			brand = *p.Brand
		}
		row.AddCell().SetValue(brand)
		row.AddCell().SetValue(strings.Join(tree.Path(p.CategoryID), " > "))
		row.AddCell().SetValue(p.ListPrice.StringFixed(2))
		row.AddCell().SetValue(p.TaxRate.StringFixed(2))
		row.AddCell().SetValue(string(p.Status))
	}
	return file, nil
}

// GET /products/export
func ExportProductsToExcel(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		products, err := ListProducts(ctx, env, 0)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		tree, err := LoadCategoryTree(env.Conn(ctx))
		if err != nil {
			middleware.Fail(c, err)
			return
		}

		file, err := CatalogWorkbook(products, tree)
		if err != nil {
			middleware.Fail(c, fmt.Errorf("failed to create Excel sheet: %w", err))
			return
		}
		WriteWorkbook(c, "products.xlsx", file)
	}
}

// WriteWorkbook streams file to the client as a download.
func WriteWorkbook(c *gin.Context, name string, file *xlsx.File) {
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Status(http.StatusOK)

	if err := file.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
