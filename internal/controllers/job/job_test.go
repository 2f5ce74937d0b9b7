package jobController

import (
	"context"
	"testing"

	"filatrack/config"
	"filatrack/internal/database"
	"filatrack/internal/repositories"
	"filatrack/internal/services"

	. "filatrack/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type fixture struct {
	db         database.DB
	repos      repositories.Repository
	controller JobControllerInterface
}

func newFixture(t *testing.T) *fixture {
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

	return &fixture{
		db:         db,
		repos:      repos,
		controller: New(repos, svc, db),
	}
}

func (f *fixture) createFilament(t *testing.T, remaining float64) *Filament {
	t.Helper()

	filament := &Filament{
		Type:              "PLA",
		Color:             "Black",
		Brand:             "Prusament",
		SpoolWeight:       1000,
		QuantityRemaining: remaining,
	}
	require.NoError(t, f.db.SQL.Create(filament).Error)
	return filament
}

func (f *fixture) createPrinter(t *testing.T) *Printer {
	t.Helper()

	printer := &Printer{
		Name:             "Workhorse",
		PowerConsumption: 0.12,
		Components: []PrinterComponent{
			{Name: "Nozzle 0.4mm"},
			{Name: "PTFE Tube"},
		},
	}
	require.NoError(t, f.db.SQL.Create(printer).Error)
	return printer
}

func (f *fixture) remaining(t *testing.T, id uuid.UUID) float64 {
	t.Helper()

	var filament Filament
	require.NoError(t, f.db.SQL.First(&filament, "id = ?", id).Error)
	return filament.QuantityRemaining
}

func ptr[T any](v T) *T { return &v }

func TestCreateJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	printer := f.createPrinter(t)
	spool := f.createFilament(t, 1000)

	job, err := f.controller.CreateJob(ctx, &CreateJobRequest{
		ProjectName:  "Benchy",
		Date:         "2026-08-20",
		PrinterID:    printer.ID,
		Duration:     5,
		FilamentID:   spool.ID,
		FilamentUsed: 200,
	})
	require.NoError(t, err)
	require.NotNil(t, job)

	assert.Equal(t, 800.0, f.remaining(t, spool.ID))

	t.Run("Component usage accumulates the duration", func(t *testing.T) {
		var components []PrinterComponent
		require.NoError(t, f.db.SQL.Find(&components, "printer_id = ?", printer.ID).Error)
		require.Len(t, components, 2)
		for _, component := range components {
			assert.Equal(t, 5.0, component.UsageHours)
		}
	})
}

func TestCreateJobInsufficientQuantityIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	printer := f.createPrinter(t)
	plenty := f.createFilament(t, 1000)
	scarce := f.createFilament(t, 10)

	_, err := f.controller.CreateJob(ctx, &CreateJobRequest{
		ProjectName:   "Two Color Vase",
		Date:          "2026-08-20",
		PrinterID:     printer.ID,
		Duration:      3,
		FilamentID:    plenty.ID,
		FilamentUsed:  100,
		FilamentID2:   &scarce.ID,
		FilamentUsed2: ptr(50.0),
	})
	require.ErrorIs(t, err, ErrInsufficientQuantity)

	// Slot 1 had enough, but the shortfall in slot 2 must leave it untouched
	assert.Equal(t, 1000.0, f.remaining(t, plenty.ID))
	assert.Equal(t, 10.0, f.remaining(t, scarce.ID))

	var count int64
	require.NoError(t, f.db.SQL.Model(&PrintJob{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreateJobValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	printer := f.createPrinter(t)
	spool := f.createFilament(t, 1000)

	tests := []struct {
		name    string
		request CreateJobRequest
	}{
		{
			name: "Missing project name",
			request: CreateJobRequest{
				Date: "2026-08-20", PrinterID: printer.ID,
				FilamentID: spool.ID, FilamentUsed: 10,
			},
		},
		{
			name: "Missing date",
			request: CreateJobRequest{
				ProjectName: "X", PrinterID: printer.ID,
				FilamentID: spool.ID, FilamentUsed: 10,
			},
		},
		{
			name: "Negative duration",
			request: CreateJobRequest{
				ProjectName: "X", Date: "2026-08-20", PrinterID: printer.ID,
				Duration: -1, FilamentID: spool.ID, FilamentUsed: 10,
			},
		},
		{
			name: "Secondary slot missing quantity",
			request: CreateJobRequest{
				ProjectName: "X", Date: "2026-08-20", PrinterID: printer.ID,
				FilamentID: spool.ID, FilamentUsed: 10,
				FilamentID2: &spool.ID,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.controller.CreateJob(ctx, &tt.request)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUpdateJobFailureTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	printer := f.createPrinter(t)
	spool := f.createFilament(t, 1000)

	job, err := f.controller.CreateJob(ctx, &CreateJobRequest{
		ProjectName:  "Tall Vase",
		Date:         "2026-08-20",
		PrinterID:    printer.ID,
		Duration:     5,
		FilamentID:   spool.ID,
		FilamentUsed: 100,
	})
	require.NoError(t, err)
	require.Equal(t, 900.0, f.remaining(t, spool.ID))

	response, err := f.controller.UpdateJob(ctx, job.ID, &UpdateJobRequest{
		IsFailed:          ptr(true),
		FailurePercentage: ptr(60.0),
	})
	require.NoError(t, err)
	require.NotNil(t, response.Adjustment)

	t.Run("Unused share of each slot is credited back", func(t *testing.T) {
		// 100g used, failed at 60%: 40g returns to the spool
		require.Len(t, response.Adjustment.Restored, 1)
		assert.InDelta(t, 40.0, response.Adjustment.Restored[0].AmountRestored, 0.001)
		assert.InDelta(t, 940.0, f.remaining(t, spool.ID), 0.001)
	})

	t.Run("Duration shrinks to the completed share", func(t *testing.T) {
		assert.InDelta(t, 3.0, response.Adjustment.NewDuration, 0.001)
		assert.InDelta(t, 2.0, response.Adjustment.TimeSaved, 0.001)
		assert.InDelta(t, 3.0, response.Job.Duration, 0.001)
	})

	t.Run("Stored used amount is untouched", func(t *testing.T) {
		assert.Equal(t, 100.0, response.Job.FilamentUsed)
		assert.True(t, response.Job.IsFailed)
		require.NotNil(t, response.Job.FailurePercentage)
		assert.Equal(t, 60.0, *response.Job.FailurePercentage)
	})

	t.Run("Unfailing clears flags without reversing the credit", func(t *testing.T) {
		response, err := f.controller.UpdateJob(ctx, job.ID, &UpdateJobRequest{
			IsFailed: ptr(false),
		})
		require.NoError(t, err)

		assert.Nil(t, response.Adjustment)
		assert.False(t, response.Job.IsFailed)
		assert.Nil(t, response.Job.FailurePercentage)
		// Inventory and duration stay where the failure left them
		assert.InDelta(t, 940.0, f.remaining(t, spool.ID), 0.001)
		assert.InDelta(t, 3.0, response.Job.Duration, 0.001)
	})
}

func TestUpdateJobFailedToFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	printer := f.createPrinter(t)
	spool := f.createFilament(t, 1000)

	job, err := f.controller.CreateJob(ctx, &CreateJobRequest{
		ProjectName:  "Bracket",
		Date:         "2026-08-20",
		PrinterID:    printer.ID,
		Duration:     4,
		FilamentID:   spool.ID,
		FilamentUsed: 80,
	})
	require.NoError(t, err)

	_, err = f.controller.UpdateJob(ctx, job.ID, &UpdateJobRequest{
		IsFailed:          ptr(true),
		FailurePercentage: ptr(50.0),
	})
	require.NoError(t, err)
	afterFailure := f.remaining(t, spool.ID)

	response, err := f.controller.UpdateJob(ctx, job.ID, &UpdateJobRequest{
		IsFailed:          ptr(true),
		FailurePercentage: ptr(75.0),
	})
	require.NoError(t, err)

	// Percentage overwrites, nothing further is restored
	assert.Nil(t, response.Adjustment)
	require.NotNil(t, response.Job.FailurePercentage)
	assert.Equal(t, 75.0, *response.Job.FailurePercentage)
	assert.Equal(t, afterFailure, f.remaining(t, spool.ID))

	t.Run("Bare percentage overwrites without re-sending the flag", func(t *testing.T) {
		response, err := f.controller.UpdateJob(ctx, job.ID, &UpdateJobRequest{
			FailurePercentage: ptr(30.0),
		})
		require.NoError(t, err)

		assert.Nil(t, response.Adjustment)
		assert.True(t, response.Job.IsFailed)
		require.NotNil(t, response.Job.FailurePercentage)
		assert.Equal(t, 30.0, *response.Job.FailurePercentage)
		assert.Equal(t, afterFailure, f.remaining(t, spool.ID))
	})
}

func TestUpdateJobBarePercentageOnActiveJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	printer := f.createPrinter(t)
	spool := f.createFilament(t, 1000)

	job, err := f.controller.CreateJob(ctx, &CreateJobRequest{
		ProjectName:  "Vase",
		Date:         "2026-08-21",
		PrinterID:    printer.ID,
		Duration:     2,
		FilamentID:   spool.ID,
		FilamentUsed: 50,
	})
	require.NoError(t, err)

	_, err = f.controller.UpdateJob(ctx, job.ID, &UpdateJobRequest{
		FailurePercentage: ptr(40.0),
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateJobFailureRequiresPercentage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	printer := f.createPrinter(t)
	spool := f.createFilament(t, 1000)

	job, err := f.controller.CreateJob(ctx, &CreateJobRequest{
		ProjectName:  "Hinge",
		Date:         "2026-08-20",
		PrinterID:    printer.ID,
		Duration:     2,
		FilamentID:   spool.ID,
		FilamentUsed: 30,
	})
	require.NoError(t, err)

	_, err = f.controller.UpdateJob(ctx, job.ID, &UpdateJobRequest{IsFailed: ptr(true)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.controller.UpdateJob(ctx, job.ID, &UpdateJobRequest{
		IsFailed:          ptr(true),
		FailurePercentage: ptr(100.0),
	})
	assert.ErrorIs(t, err, ErrValidation)

	// A rejected transition must not have touched the spool
	assert.Equal(t, 970.0, f.remaining(t, spool.ID))
}

func TestDeleteJobRestoresStoredAmounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	printer := f.createPrinter(t)
	spool := f.createFilament(t, 1000)

	job, err := f.controller.CreateJob(ctx, &CreateJobRequest{
		ProjectName:  "Lamp Shade",
		Date:         "2026-08-20",
		PrinterID:    printer.ID,
		Duration:     6,
		FilamentID:   spool.ID,
		FilamentUsed: 200,
	})
	require.NoError(t, err)
	require.Equal(t, 800.0, f.remaining(t, spool.ID))

	t.Run("Delete after failure re-credits the full stored amount", func(t *testing.T) {
		_, err := f.controller.UpdateJob(ctx, job.ID, &UpdateJobRequest{
			IsFailed:          ptr(true),
			FailurePercentage: ptr(50.0),
		})
		require.NoError(t, err)
		require.InDelta(t, 900.0, f.remaining(t, spool.ID), 0.001)

		response, err := f.controller.DeleteJob(ctx, job.ID)
		require.NoError(t, err)
		require.Len(t, response.Restored, 1)
		assert.Equal(t, 200.0, response.Restored[0].AmountRestored)

		// The failure credit plus the delete credit overshoot the original
		// balance; stored used amounts are never rewritten on failure.
		assert.InDelta(t, 1100.0, f.remaining(t, spool.ID), 0.001)
	})

	t.Run("Deleted job is gone", func(t *testing.T) {
		_, err := f.controller.GetJob(ctx, job.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCreateJobMultiSlotDebitsEverySlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	printer := f.createPrinter(t)
	first := f.createFilament(t, 500)
	second := f.createFilament(t, 300)

	job, err := f.controller.CreateJob(ctx, &CreateJobRequest{
		ProjectName:   "Two Tone Sign",
		Date:          "2026-08-21",
		PrinterID:     printer.ID,
		Duration:      8,
		FilamentID:    first.ID,
		FilamentUsed:  120,
		FilamentID2:   &second.ID,
		FilamentUsed2: ptr(60.0),
	})
	require.NoError(t, err)

	assert.Equal(t, 380.0, f.remaining(t, first.ID))
	assert.Equal(t, 240.0, f.remaining(t, second.ID))
	assert.Len(t, job.Slots(), 2)

	t.Run("Failure credits every slot proportionally", func(t *testing.T) {
		response, err := f.controller.UpdateJob(ctx, job.ID, &UpdateJobRequest{
			IsFailed:          ptr(true),
			FailurePercentage: ptr(25.0),
		})
		require.NoError(t, err)
		require.Len(t, response.Adjustment.Restored, 2)

		// 75% of each slot's recorded use returns
		assert.InDelta(t, 90.0, response.Adjustment.Restored[0].AmountRestored, 0.001)
		assert.InDelta(t, 45.0, response.Adjustment.Restored[1].AmountRestored, 0.001)
		assert.InDelta(t, 470.0, f.remaining(t, first.ID), 0.001)
		assert.InDelta(t, 285.0, f.remaining(t, second.ID), 0.001)
	})
}
