package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/buffet-app/database"
	"github.com/yeremiapane/buffet-app/models"
)

type fixture struct {
	db       *gorm.DB
	tables   []models.Table
	employee models.Employee
	pork     models.BuffetType
	beef     models.BuffetType
	porkItem models.MenuItem
	beefItem models.MenuItem
	soldOut  models.MenuItem
}

// newTestDB opens a private in-memory database on a single connection, so
// concurrent transactions queue instead of failing with SQLITE_BUSY.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{db: newTestDB(t)}

	f.tables = []models.Table{
		{TableNumber: "1", Type: models.TableTypeStandard, Status: models.TableStatusAvailable},
		{TableNumber: "2", Type: models.TableTypeStandard, Status: models.TableStatusAvailable},
		{TableNumber: "9", Type: models.TableTypeVIP, Status: models.TableStatusAvailable},
	}
	require.NoError(t, f.db.Create(&f.tables).Error)

	f.employee = models.Employee{FirstName: "Somchai", Email: "staff@test.local", Password: "x", Role: models.RoleStaff}
	require.NoError(t, f.db.Create(&f.employee).Error)

	f.pork = models.BuffetType{Name: "Pork", PricePerHead: decimal.NewFromInt(299), Tier: 1}
	f.beef = models.BuffetType{Name: "Pork & Beef", PricePerHead: decimal.NewFromInt(399), Tier: 2}
	require.NoError(t, f.db.Create(&f.pork).Error)
	require.NoError(t, f.db.Create(&f.beef).Error)

	f.porkItem = models.MenuItem{NameTH: "หมูสามชั้น", NameEN: "Pork belly", Category: "หมู", BuffetTypeID: f.pork.ID, Available: true}
	f.beefItem = models.MenuItem{NameTH: "เนื้อสไลซ์", NameEN: "Sliced beef", Category: "เนื้อ", BuffetTypeID: f.beef.ID, Available: true}
	f.soldOut = models.MenuItem{NameTH: "หมูนุ่ม", NameEN: "Marinated pork", Category: "หมู", BuffetTypeID: f.pork.ID, Available: false}
	for _, m := range []*models.MenuItem{&f.porkItem, &f.beefItem, &f.soldOut} {
		require.NoError(t, f.db.Create(m).Error)
	}
	return f
}

func (f *fixture) tableStatus(t *testing.T, tableID uint) string {
	t.Helper()
	var table models.Table
	require.NoError(t, f.db.First(&table, tableID).Error)
	return table.Status
}

func (f *fixture) openOrder(t *testing.T, tableID, buffetID uint, headcount int) *models.Order {
	t.Helper()
	order, err := NewOrderService(f.db).CreateOrder(ctx(), CreateOrderInput{
		TableID:      tableID,
		EmployeeID:   f.employee.ID,
		BuffetTypeID: buffetID,
		Headcount:    headcount,
	})
	require.NoError(t, err)
	return order
}

func ctx() context.Context { return context.Background() }
