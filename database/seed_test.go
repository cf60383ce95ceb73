package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/buffet-app/models"
)

func TestSeedIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, Migrate(db))
	require.NoError(t, Seed(db))
	require.NoError(t, Seed(db))

	counts := map[interface{}]int64{
		&models.Table{}:      10,
		&models.Employee{}:   4,
		&models.BuffetType{}: 2,
		&models.MenuItem{}:   5,
	}
	for model, want := range counts {
		var got int64
		require.NoError(t, db.Model(model).Count(&got).Error)
		assert.Equal(t, want, got, "%T", model)
	}

	var vip int64
	db.Model(&models.Table{}).Where("type = ?", models.TableTypeVIP).Count(&vip)
	assert.Equal(t, int64(2), vip)
}
