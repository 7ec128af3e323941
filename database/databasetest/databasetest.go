// Package databasetest builds throwaway in-memory stores for tests.
package databasetest

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/database"
	"github.com/junaidrashid-git/glowhub/events"
	"github.com/junaidrashid-git/glowhub/models"
)

// Start is the first instant handed out by the test clock. Both seeded coupons
// are active on this date.
var Start = time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)

var seq atomic.Int64

// Clock advances one second on every read, so consecutive writes always get
// strictly increasing timestamps.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock { return &Clock{now: start} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// Set jumps the clock so the next read returns t + 1s.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Harness bundles an Env with the fakes behind it.
type Harness struct {
	*app.Env
	Clock    *Clock
	Recorder *events.Recorder
}

// New opens a private in-memory SQLite store with every table migrated. The
// pool is capped at one connection, so transactions run one at a time the
// way SQLite's writer lock would order them.
func New(t testing.TB) *Harness {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))
	return open(t, dsn, 1)
}

// NewFile opens a migrated SQLite file store under t.TempDir with the default
// connection pool, so concurrent transactions really contend for the lock.
func NewFile(t testing.TB) *Harness {
	t.Helper()
	return open(t, filepath.Join(t.TempDir(), "glowhub.db"), 0)
}

func open(t testing.TB, dsn string, maxConns int) *Harness {
	t.Helper()

	log := zap.NewNop()
	db, err := database.Open(dsn, false, log)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	if maxConns > 0 {
		sqlDB.SetMaxOpenConns(maxConns)
	}
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	clock := NewClock(Start)
	rec := &events.Recorder{}
	env := app.New(db, log, rec)
	env.Clock = clock.Now

	return &Harness{Env: env, Clock: clock, Recorder: rec}
}

// Fixture is the catalog and customer created by Seed.
type Fixture struct {
	Customer        models.Customer
	Cart            models.Cart
	ShippingAddress models.Address
	Skincare        models.Category
	Cleansing       models.Category
}

var seededProducts = []struct {
	sku   string
	name  string
	price string
}{
	{"GH-SKIN-001", "Gentle Cleansing Gel", "12.90"},
	{"GH-SKIN-002", "Moisturising Cream", "18.50"},
	{"GH-MAKE-001", "Volume Mascara", "14.90"},
	{"GH-HAIR-001", "Nourishing Shampoo", "9.90"},
	{"GH-MINI-001", "Travel Size Toner", "4.00"},
}

// Seed inserts one customer with an empty cart and a shipping address, a small
// category tree, five products, a warehouse and the WELCOME10/FREESHIP5 coupons.
func Seed(t testing.TB, h *Harness) Fixture {
	t.Helper()
	db := h.DB

	var f Fixture
	f.Customer = models.Customer{Email: "gabriel.rossi@example.com", FirstName: "Gabriel", LastName: "Rossi", RegistrationDate: app.DateOf(Start)}
	require.NoError(t, db.Omit(clause.Associations).Create(&f.Customer).Error)

	f.Cart = models.Cart{CustomerID: f.Customer.ID, CreatedAt: Start, LastModified: Start}
	require.NoError(t, db.Omit(clause.Associations).Create(&f.Cart).Error)

	f.ShippingAddress = models.Address{CustomerID: f.Customer.ID, Street: "Via Roma 10", City: "Roma", Country: "Italia", Type: models.AddressShipping, IsDefault: true}
	require.NoError(t, db.Create(&f.ShippingAddress).Error)

	f.Skincare = models.Category{Name: "Skincare"}
	require.NoError(t, db.Omit(clause.Associations).Create(&f.Skincare).Error)
	f.Cleansing = models.Category{Name: "Cleansing", ParentID: &f.Skincare.ID}
	require.NoError(t, db.Omit(clause.Associations).Create(&f.Cleansing).Error)

	for _, p := range seededProducts {
		require.NoError(t, db.Create(&models.Product{
			SKU:        p.sku,
			CategoryID: f.Cleansing.ID,
			Name:       p.name,
			ListPrice:  decimal.RequireFromString(p.price),
			TaxRate:    decimal.NewFromInt(22),
			Status:     models.ProductActive,
		}).Error)
	}

	require.NoError(t, db.Omit(clause.Associations).Create(&models.Warehouse{Name: "Milano Nord"}).Error)

	require.NoError(t, db.Create(&[]models.Coupon{
		{
			Code: "WELCOME10", Type: models.CouponPercentage, Value: decimal.NewFromInt(10),
			StartDate: date(2025, 9, 1), EndDate: date(2026, 9, 1),
			MinimumOrder: decimal.RequireFromString("10.00"), MaxUsages: 1000,
		},
		{
			Code: "FREESHIP5", Type: models.CouponFixed, Value: decimal.RequireFromString("5.00"),
			StartDate: date(2025, 9, 1), EndDate: date(2026, 3, 1),
			MinimumOrder: decimal.RequireFromString("20.00"), MaxUsages: 500,
		},
	}).Error)

	return f
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
