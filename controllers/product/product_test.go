package productcontroller

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/glowhub/apperror"
	"github.com/junaidrashid-git/glowhub/database/databasetest"
	"github.com/junaidrashid-git/glowhub/models"
)

func ptr[T any](v T) *T { return &v }

func TestCategoryTree(t *testing.T) {
	cats := []models.Category{
		{ID: 1, Name: "Skincare"},
		{ID: 2, Name: "Cleansing", ParentID: ptr[uint](1)},
		{ID: 3, Name: "Toners", ParentID: ptr[uint](2)},
		{ID: 4, Name: "Makeup"},
		{ID: 5, Name: "Orphan", ParentID: ptr[uint](99)},
	}
	tree := NewCategoryTree(cats)

	assert.Equal(t, []uint{1, 2, 3}, tree.Subtree(1))
	assert.Equal(t, []uint{4}, tree.Subtree(4))
	assert.Nil(t, tree.Subtree(42))
	assert.Equal(t, []string{"Skincare", "Cleansing", "Toners"}, tree.Path(3))

	nested := tree.Nested()
	require.Len(t, nested, 3)
	assert.Equal(t, "Skincare", nested[0].Name)
	require.Len(t, nested[0].Children, 1)
	assert.Equal(t, "Toners", nested[0].Children[0].Children[0].Name)
	assert.Equal(t, "Orphan", nested[2].Name)
}

func TestDeleteCategoryNullsChildren(t *testing.T) {
	h := databasetest.New(t)
	f := databasetest.Seed(t, h)
	ctx := context.Background()

	face, err := CreateCategory(ctx, h.Env, CategoryInput{Name: "Face"})
	require.NoError(t, err)
	serums, err := CreateCategory(ctx, h.Env, CategoryInput{Name: "Serums", ParentID: &face.ID})
	require.NoError(t, err)

	require.NoError(t, DeleteCategory(ctx, h.Env, face.ID))
	require.NoError(t, DeleteCategory(ctx, h.Env, face.ID))

	var got models.Category
	require.NoError(t, h.DB.First(&got, serums.ID).Error)
	assert.Nil(t, got.ParentID)

	err = DeleteCategory(ctx, h.Env, f.Cleansing.ID)
	assert.ErrorIs(t, err, apperror.ErrConstraintViolation)

	_, err = CreateCategory(ctx, h.Env, CategoryInput{Name: "Lost", ParentID: ptr[uint](999)})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateProduct(t *testing.T) {
	h := databasetest.New(t)
	f := databasetest.Seed(t, h)
	ctx := context.Background()

	p, err := CreateProduct(ctx, h.Env, ProductInput{SKU: "GH-BODY-001", CategoryID: f.Skincare.ID, Name: "Body Lotion", Price: decimal.RequireFromString("7.50")})
	require.NoError(t, err)
	assert.Equal(t, "22.00", p.TaxRate.StringFixed(2))
	assert.Equal(t, models.ProductActive, p.Status)

	tests := []struct {
		name string
		in   ProductInput
		want error
	}{
		{"duplicate sku", ProductInput{SKU: "GH-BODY-001", CategoryID: f.Skincare.ID, Name: "Again", Price: decimal.NewFromInt(1)}, apperror.ErrConstraintViolation},
		{"negative price", ProductInput{SKU: "GH-X-1", CategoryID: f.Skincare.ID, Name: "X", Price: decimal.NewFromInt(-1)}, apperror.ErrInvalidArgument},
		{"negative tax", ProductInput{SKU: "GH-X-2", CategoryID: f.Skincare.ID, Name: "X", TaxRate: ptr(decimal.NewFromInt(-5))}, apperror.ErrInvalidArgument},
		{"unknown category", ProductInput{SKU: "GH-X-3", CategoryID: 999, Name: "X"}, apperror.ErrNotFound},
		{"bad status", ProductInput{SKU: "GH-X-4", CategoryID: f.Skincare.ID, Name: "X", Status: "RETIRED"}, apperror.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateProduct(ctx, h.Env, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateProductPrice(t *testing.T) {
	h := databasetest.New(t)
	databasetest.Seed(t, h)
	ctx := context.Background()

	require.NoError(t, UpdateProductPrice(ctx, h.Env, "GH-SKIN-001", decimal.RequireFromString("13.40")))
	var p models.Product
	require.NoError(t, h.DB.First(&p, "sku = ?", "GH-SKIN-001").Error)
	assert.Equal(t, "13.40", p.ListPrice.StringFixed(2))

	assert.ErrorIs(t, UpdateProductPrice(ctx, h.Env, "GH-NONE", decimal.NewFromInt(1)), apperror.ErrNotFound)
	assert.ErrorIs(t, UpdateProductPrice(ctx, h.Env, "GH-SKIN-001", decimal.NewFromInt(-1)), apperror.ErrInvalidArgument)
}

func TestDeleteProduct(t *testing.T) {
	h := databasetest.New(t)
	f := databasetest.Seed(t, h)
	ctx := context.Background()

	require.NoError(t, DeleteProduct(ctx, h.Env, "GH-MINI-001"))
	require.NoError(t, DeleteProduct(ctx, h.Env, "GH-MINI-001"))

	require.NoError(t, h.DB.Omit(clause.Associations).Create(&models.CartLine{
		CartID: f.Cart.ID, SKU: "GH-SKIN-001", Quantity: 1, PriceSeen: decimal.RequireFromString("12.90"), AddedAt: databasetest.Start,
	}).Error)
	assert.ErrorIs(t, DeleteProduct(ctx, h.Env, "GH-SKIN-001"), apperror.ErrConstraintViolation)

	products, err := ListProducts(ctx, h.Env, f.Skincare.ID)
	require.NoError(t, err)
	assert.Len(t, products, 4, "subtree includes Cleansing")

	_, err = ListProducts(ctx, h.Env, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSetStockUpserts(t *testing.T) {
	h := databasetest.New(t)
	databasetest.Seed(t, h)
	ctx := context.Background()

	var w models.Warehouse
	require.NoError(t, h.DB.First(&w).Error)

	_, err := SetStock(ctx, h.Env, w.ID, "GH-SKIN-001", StockInput{Quantity: 3, ReorderThreshold: 10})
	require.NoError(t, err)
	s, err := SetStock(ctx, h.Env, w.ID, "GH-SKIN-001", StockInput{Quantity: 40, ReorderThreshold: 10})
	require.NoError(t, err)
	assert.Equal(t, 40, s.Quantity)

	var rows []models.Stock
	require.NoError(t, h.DB.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 40, rows[0].Quantity)

	_, err = SetStock(ctx, h.Env, w.ID, "GH-NONE", StockInput{Quantity: 1})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = SetStock(ctx, h.Env, w.ID+1, "GH-SKIN-001", StockInput{Quantity: 1})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = SetStock(ctx, h.Env, w.ID, "GH-SKIN-001", StockInput{Quantity: -1})
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

func TestImportStock(t *testing.T) {
	h := databasetest.New(t)
	databasetest.Seed(t, h)

	var w models.Warehouse
	require.NoError(t, h.DB.First(&w).Error)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Stock")
	require.NoError(t, err)
	for _, cells := range [][]string{
		{"SKU", "Quantity", "ReorderThreshold"},
		{"GH-SKIN-001", "12", "5"},
		{"GH-HAIR-001", "2", "8"},
		{"GH-NONE", "1", "1"},
		{"GH-MAKE-001", "many", "1"},
	} {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetValue(v)
		}
	}

	res, err := ImportStock(context.Background(), h.Env, w.ID, file)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Updated)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Errors, 2)

	_, err = ImportStock(context.Background(), h.Env, w.ID+5, file)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCatalogWorkbook(t *testing.T) {
	h := databasetest.New(t)
	databasetest.Seed(t, h)
	ctx := context.Background()

	products, err := ListProducts(ctx, h.Env, 0)
	require.NoError(t, err)
	tree, err := LoadCategoryTree(h.DB)
	require.NoError(t, err)

	file, err := CatalogWorkbook(products, tree)
	require.NoError(t, err)
	sheet := file.Sheets[0]
	require.Len(t, sheet.Rows, 6)
	assert.Equal(t, "GH-HAIR-001", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "Skincare > Cleansing", sheet.Rows[1].Cells[3].String())
}
