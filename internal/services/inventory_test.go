package services

import (
	"context"
	"testing"

	. "filatrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryStatus(t *testing.T) {
	db := testDB(t)
	repos := testRepos()
	aggregation := NewAggregationService(repos.Filament)
	service := NewInventoryService(aggregation, repos.LinkGroup, repos.IdealQuantity)
	ctx := context.Background()

	blackPrusament := FilamentIdentity{Type: "PLA", Color: "Black", Brand: "Prusament"}
	blackOverture := FilamentIdentity{Type: "PLA", Color: "Black", Brand: "Overture"}
	clearPETG := FilamentIdentity{Type: "PETG", Color: "Clear", Brand: "Overture"}
	redTPU := FilamentIdentity{Type: "TPU", Color: "Red", Brand: "NinjaTek"}

	// Two identities share a group, one is ungrouped with a target, one
	// target has no stock at all.
	createFilament(t, db, blackPrusament, 1000, 800, nil)
	createFilament(t, db, blackOverture, 1000, 400, nil)
	createFilament(t, db, clearPETG, 1000, 500, nil)

	group := &LinkGroup{
		Name:          "Black PLA",
		IdealQuantity: 2000,
		Identities: []LinkedIdentity{
			{Type: blackPrusament.Type, Color: blackPrusament.Color, Brand: blackPrusament.Brand},
			{Type: blackOverture.Type, Color: blackOverture.Color, Brand: blackOverture.Brand},
		},
	}
	require.NoError(t, db.SQL.Create(group).Error)

	_, err := repos.IdealQuantity.Set(ctx, db.SQL, clearPETG, 1000)
	require.NoError(t, err)
	_, err = repos.IdealQuantity.Set(ctx, db.SQL, redTPU, 500)
	require.NoError(t, err)

	entries, err := service.Status(ctx, db.SQL)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	t.Run("Group entry sums member stock", func(t *testing.T) {
		entry := entries[0]

		assert.Equal(t, EntryKindGroup, entry.Kind)
		assert.True(t, entry.IsGroup)
		assert.Equal(t, "Black PLA", entry.GroupName)
		assert.Equal(t, 1200.0, entry.CurrentQuantity)
		assert.Equal(t, 2000.0, entry.IdealQuantity)
		assert.Equal(t, -800.0, entry.Difference)
		require.NotNil(t, entry.Percentage)
		assert.InDelta(t, 60.0, *entry.Percentage, 0.001)
		assert.Equal(t, StockLevelAdequate, entry.Level)
		assert.Equal(t, 2, entry.SpoolCount)
		assert.Len(t, entry.Members, 2)
	})

	t.Run("Grouped identities do not reappear individually", func(t *testing.T) {
		for _, entry := range entries[1:] {
			require.NotNil(t, entry.Identity)
			assert.NotEqual(t, blackPrusament, *entry.Identity)
			assert.NotEqual(t, blackOverture, *entry.Identity)
		}
	})

	t.Run("Ungrouped identity with target", func(t *testing.T) {
		entry := entries[1]

		assert.Equal(t, EntryKindIndividual, entry.Kind)
		assert.False(t, entry.IsGroup)
		assert.Equal(t, clearPETG, *entry.Identity)
		assert.Equal(t, 500.0, entry.CurrentQuantity)
		assert.Equal(t, -500.0, entry.Difference)
		require.NotNil(t, entry.Percentage)
		assert.InDelta(t, 50.0, *entry.Percentage, 0.001)
		assert.Equal(t, StockLevelAdequate, entry.Level)
	})

	t.Run("Target with no stock becomes a synthetic entry", func(t *testing.T) {
		entry := entries[2]

		assert.Equal(t, EntryKindOutOfStockTarget, entry.Kind)
		assert.Equal(t, redTPU, *entry.Identity)
		assert.Equal(t, 0.0, entry.CurrentQuantity)
		assert.Equal(t, 500.0, entry.IdealQuantity)
		assert.Equal(t, -500.0, entry.Difference)
		assert.Nil(t, entry.Percentage)
		assert.Equal(t, StockLevelOutOfStock, entry.Level)
		assert.Equal(t, 0, entry.SpoolCount)
	})
}

func TestInventoryStatusNoTarget(t *testing.T) {
	db := testDB(t)
	repos := testRepos()
	aggregation := NewAggregationService(repos.Filament)
	service := NewInventoryService(aggregation, repos.LinkGroup, repos.IdealQuantity)
	ctx := context.Background()

	identity := FilamentIdentity{Type: "ASA", Color: "White", Brand: "Polymaker"}
	createFilament(t, db, identity, 1000, 650, nil)

	entries, err := service.Status(ctx, db.SQL)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, EntryKindIndividual, entry.Kind)
	assert.Nil(t, entry.Percentage)
	assert.Equal(t, StockLevelNoTarget, entry.Level)
	assert.Equal(t, 650.0, entry.Difference)
}

func TestInventoryStatusZeroQuantityTargetSkipped(t *testing.T) {
	db := testDB(t)
	repos := testRepos()
	aggregation := NewAggregationService(repos.Filament)
	service := NewInventoryService(aggregation, repos.LinkGroup, repos.IdealQuantity)
	ctx := context.Background()

	identity := FilamentIdentity{Type: "PC", Color: "Black", Brand: "Polymaker"}
	_, err := repos.IdealQuantity.Set(ctx, db.SQL, identity, 0)
	require.NoError(t, err)

	entries, err := service.Status(ctx, db.SQL)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStockPercentage(t *testing.T) {
	assert.Nil(t, stockPercentage(100, 0))
	assert.Nil(t, stockPercentage(100, -5))

	p := stockPercentage(250, 1000)
	require.NotNil(t, p)
	assert.InDelta(t, 25.0, *p, 0.001)
}
