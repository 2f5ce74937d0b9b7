package services

import (
	"context"
	"testing"
	"time"

	"filatrack/config"

	. "filatrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestCostSummary(t *testing.T) {
	db := testDB(t)
	repos := testRepos()
	cfg := config.Config{
		ElectricityRate: 0.20,
		CurrencyCode:    "USD",
	}
	service := NewReportService(repos.PrintJob, repos.Filament, repos.Printer, cfg)
	ctx := context.Background()

	priced := createFilament(
		t, db,
		FilamentIdentity{Type: "PLA", Color: "Black", Brand: "Prusament"},
		1000, 800, priceOf(25),
	)
	unpriced := createFilament(
		t, db,
		FilamentIdentity{Type: "PETG", Color: "Clear", Brand: "Overture"},
		1000, 600, nil,
	)

	printer := &Printer{Name: "Workhorse", PowerConsumption: 0.5}
	require.NoError(t, db.SQL.Create(printer).Error)

	used2 := 50.0
	job := &PrintJob{
		ProjectName:   "Benchy",
		Date:          datatypes.Date(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)),
		PrinterID:     printer.ID,
		Duration:      10,
		FilamentID:    priced.ID,
		FilamentUsed:  100,
		FilamentID2:   &unpriced.ID,
		FilamentUsed2: &used2,
	}
	require.NoError(t, db.SQL.Create(job).Error)

	summary, err := service.CostSummary(ctx, db.SQL, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "USD", summary.Currency)
	assert.Equal(t, 0.20, summary.ElectricityRate)
	require.Len(t, summary.Jobs, 1)

	report := summary.Jobs[0]

	// 25/1000 per gram * 100g = 2.50; the unpriced slot contributes nothing
	assert.Equal(t, "2.5", report.MaterialCost.String())

	// 10h * 0.5kW * 0.20/kWh = 1.00
	assert.Equal(t, "1", report.ElectricityCost.String())
	assert.Equal(t, "3.5", report.TotalCost.String())

	assert.True(t, summary.TotalCost.Equal(report.TotalCost))

	t.Run("Date range excludes jobs outside the window", func(t *testing.T) {
		from := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)

		summary, err := service.CostSummary(ctx, db.SQL, &from, nil)
		require.NoError(t, err)
		assert.Empty(t, summary.Jobs)

		to := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
		summary, err = service.CostSummary(ctx, db.SQL, nil, &to)
		require.NoError(t, err)
		assert.Len(t, summary.Jobs, 1)
	})
}

func TestCostSummaryEmptyLedger(t *testing.T) {
	db := testDB(t)
	repos := testRepos()
	service := NewReportService(repos.PrintJob, repos.Filament, repos.Printer, config.Config{})

	summary, err := service.CostSummary(context.Background(), db.SQL, nil, nil)
	require.NoError(t, err)

	assert.Empty(t, summary.Jobs)
	assert.True(t, summary.TotalCost.IsZero())
}
