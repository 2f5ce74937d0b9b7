package services

import (
	"testing"

	"filatrack/internal/database"
	"filatrack/internal/repositories"

	. "filatrack/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) database.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	db := database.DB{SQL: gormDB}
	require.NoError(t, db.MigrateModels())

	t.Cleanup(func() {
		sqlDB, err := gormDB.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func testRepos() repositories.Repository {
	return repositories.New()
}

func createFilament(
	t *testing.T,
	db database.DB,
	identity FilamentIdentity,
	spoolWeight, remaining float64,
	price *decimal.Decimal,
) *Filament {
	t.Helper()

	filament := &Filament{
		Type:              identity.Type,
		Color:             identity.Color,
		Brand:             identity.Brand,
		SpoolWeight:       spoolWeight,
		QuantityRemaining: remaining,
		Price:             price,
	}
	require.NoError(t, db.SQL.Create(filament).Error)
	return filament
}

func priceOf(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}
