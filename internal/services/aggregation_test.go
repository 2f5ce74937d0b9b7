package services

import (
	"context"
	"testing"

	. "filatrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	db := testDB(t)
	repos := testRepos()
	service := NewAggregationService(repos.Filament)
	ctx := context.Background()

	blackPLA := FilamentIdentity{Type: "PLA", Color: "Black", Brand: "Prusament"}
	clearPETG := FilamentIdentity{Type: "PETG", Color: "Clear", Brand: "Overture"}

	t.Run("Empty ledger yields no aggregates", func(t *testing.T) {
		aggregates, err := service.Aggregate(ctx, db.SQL)

		require.NoError(t, err)
		assert.Empty(t, aggregates)
	})

	t.Run("Spools group by identity", func(t *testing.T) {
		createFilament(t, db, blackPLA, 1000, 1000, priceOf(25))
		createFilament(t, db, blackPLA, 1000, 400, priceOf(20))
		createFilament(t, db, clearPETG, 1000, 760, nil)

		aggregates, err := service.Aggregate(ctx, db.SQL)
		require.NoError(t, err)
		require.Len(t, aggregates, 2)

		byIdentity := make(map[FilamentIdentity]FilamentAggregate)
		for _, a := range aggregates {
			byIdentity[a.Identity] = a
		}

		pla := byIdentity[blackPLA]
		assert.Equal(t, 2, pla.SpoolCount)
		assert.Equal(t, 1400.0, pla.QuantityRemaining)
		assert.Equal(t, 2000.0, pla.TotalWeight)
		assert.InDelta(t, 70.0, pla.Percentage, 0.001)
		assert.Len(t, pla.SpoolIDs, 2)

		petg := byIdentity[clearPETG]
		assert.Equal(t, 1, petg.SpoolCount)
		assert.Equal(t, 760.0, petg.QuantityRemaining)
	})

	t.Run("Average price covers only priced spools", func(t *testing.T) {
		aggregates, err := service.Aggregate(ctx, db.SQL)
		require.NoError(t, err)

		byIdentity := make(map[FilamentIdentity]FilamentAggregate)
		for _, a := range aggregates {
			byIdentity[a.Identity] = a
		}

		pla := byIdentity[blackPLA]
		require.NotNil(t, pla.AveragePrice)
		assert.Equal(t, "22.5", pla.AveragePrice.String())

		petg := byIdentity[clearPETG]
		assert.Nil(t, petg.AveragePrice)
	})
}

func TestBuildAggregateZeroWeight(t *testing.T) {
	identity := FilamentIdentity{Type: "PLA", Color: "Black", Brand: "Generic"}

	aggregate := buildAggregate(identity, nil)

	assert.Equal(t, 0.0, aggregate.Percentage)
	assert.Equal(t, 0, aggregate.SpoolCount)
	assert.Nil(t, aggregate.AveragePrice)
}
