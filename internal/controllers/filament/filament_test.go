package filamentController

import (
	"context"
	"testing"

	"filatrack/config"
	"filatrack/internal/database"
	"filatrack/internal/repositories"
	"filatrack/internal/services"

	. "filatrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newController(t *testing.T) (FilamentControllerInterface, database.DB) {
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

	repos := repositories.New()
	svc, err := services.New(db, config.Config{}, repos)
	require.NoError(t, err)

	return New(repos, svc, db), db
}

func ptr[T any](v T) *T { return &v }

func TestCreateFilament(t *testing.T) {
	controller, _ := newController(t)
	ctx := context.Background()

	t.Run("Quantity defaults to spool weight", func(t *testing.T) {
		filament, err := controller.CreateFilament(ctx, &CreateFilamentRequest{
			Type:        "PLA",
			Color:       "Black",
			Brand:       "Prusament",
			SpoolWeight: 1000,
		})

		require.NoError(t, err)
		assert.Equal(t, 1000.0, filament.QuantityRemaining)
	})

	t.Run("Explicit quantity is kept", func(t *testing.T) {
		filament, err := controller.CreateFilament(ctx, &CreateFilamentRequest{
			Type:              "PLA",
			Color:             "White",
			Brand:             "Prusament",
			SpoolWeight:       1000,
			QuantityRemaining: ptr(420.0),
		})

		require.NoError(t, err)
		assert.Equal(t, 420.0, filament.QuantityRemaining)
	})

	t.Run("Incomplete identity is rejected", func(t *testing.T) {
		_, err := controller.CreateFilament(ctx, &CreateFilamentRequest{
			Type:        "PLA",
			Brand:       "Prusament",
			SpoolWeight: 1000,
		})

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Zero spool weight is rejected", func(t *testing.T) {
		_, err := controller.CreateFilament(ctx, &CreateFilamentRequest{
			Type:  "PLA",
			Color: "Red",
			Brand: "Prusament",
		})

		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestAdjustQuantity(t *testing.T) {
	controller, db := newController(t)
	ctx := context.Background()

	filament, err := controller.CreateFilament(ctx, &CreateFilamentRequest{
		Type:        "PETG",
		Color:       "Clear",
		Brand:       "Overture",
		SpoolWeight: 1000,
	})
	require.NoError(t, err)

	adjusted, err := controller.AdjustQuantity(ctx, filament.ID, &AdjustQuantityRequest{Delta: -150})
	require.NoError(t, err)
	assert.Equal(t, 850.0, adjusted.QuantityRemaining)

	var stored Filament
	require.NoError(t, db.SQL.First(&stored, "id = ?", filament.ID).Error)
	assert.Equal(t, 850.0, stored.QuantityRemaining)
}

func TestDeleteFilamentReferentialGuard(t *testing.T) {
	controller, db := newController(t)
	ctx := context.Background()

	filament, err := controller.CreateFilament(ctx, &CreateFilamentRequest{
		Type:        "PLA",
		Color:       "Black",
		Brand:       "Prusament",
		SpoolWeight: 1000,
	})
	require.NoError(t, err)

	printer := &Printer{Name: "Workhorse", PowerConsumption: 0.12}
	require.NoError(t, db.SQL.Create(printer).Error)

	job := &PrintJob{
		ProjectName:  "Benchy",
		Date:         datatypes.Date{},
		PrinterID:    printer.ID,
		Duration:     2,
		FilamentID:   filament.ID,
		FilamentUsed: 50,
	}
	require.NoError(t, db.SQL.Create(job).Error)

	t.Run("Referenced spool cannot be deleted", func(t *testing.T) {
		err := controller.DeleteFilament(ctx, filament.ID)
		assert.ErrorIs(t, err, ErrFilamentInUse)

		_, err = controller.GetFilament(ctx, filament.ID)
		assert.NoError(t, err)
	})

	t.Run("Unreferenced spool deletes cleanly", func(t *testing.T) {
		require.NoError(t, db.SQL.Delete(job).Error)

		require.NoError(t, controller.DeleteFilament(ctx, filament.ID))

		_, err := controller.GetFilament(ctx, filament.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListIdentities(t *testing.T) {
	controller, _ := newController(t)
	ctx := context.Background()

	for _, req := range []CreateFilamentRequest{
		{Type: "PLA", Color: "Black", Brand: "Prusament", SpoolWeight: 1000},
		{Type: "PLA", Color: "Black", Brand: "Prusament", SpoolWeight: 1000},
		{Type: "PETG", Color: "Clear", Brand: "Overture", SpoolWeight: 1000},
	} {
		_, err := controller.CreateFilament(ctx, &req)
		require.NoError(t, err)
	}

	identities, err := controller.ListIdentities(ctx)
	require.NoError(t, err)

	// Duplicate spools collapse into one identity
	assert.Len(t, identities, 2)
}
