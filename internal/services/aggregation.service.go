package services

import (
	"context"

	"filatrack/internal/repositories"
	"filatrack/pkg/logger"

	. "filatrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AggregationService rolls individual spools up into per-identity aggregates.
// It is a pure read over the filament ledger: every call recomputes from the
// current rows, there is no cache to invalidate.
type AggregationService struct {
	filamentRepo repositories.FilamentRepository
}

func NewAggregationService(filamentRepo repositories.FilamentRepository) *AggregationService {
	return &AggregationService{filamentRepo: filamentRepo}
}

// Aggregate returns one FilamentAggregate per distinct identity with at least
// one spool. Ordering follows the ledger's identity ordering.
func (s *AggregationService) Aggregate(ctx context.Context, tx *gorm.DB) ([]FilamentAggregate, error) {
	log := logger.NewWithContext(ctx, "aggregationService").Function("Aggregate")

	filaments, err := s.filamentRepo.GetAll(ctx, tx)
	if err != nil {
		return nil, log.Err("failed to load filaments for aggregation", err)
	}

	var order []FilamentIdentity
	byIdentity := make(map[FilamentIdentity][]*Filament)
	for _, f := range filaments {
		identity := f.Identity()
		if _, seen := byIdentity[identity]; !seen {
			order = append(order, identity)
		}
		byIdentity[identity] = append(byIdentity[identity], f)
	}

	aggregates := make([]FilamentAggregate, 0, len(order))
	for _, identity := range order {
		aggregates = append(aggregates, buildAggregate(identity, byIdentity[identity]))
	}

	log.Debug("Aggregated filament inventory", "identities", len(aggregates), "spools", len(filaments))
	return aggregates, nil
}

func buildAggregate(identity FilamentIdentity, spools []*Filament) FilamentAggregate {
	aggregate := FilamentAggregate{
		Identity:   identity,
		SpoolCount: len(spools),
	}

	var priceSum decimal.Decimal
	var priced int
	for _, spool := range spools {
		aggregate.QuantityRemaining += spool.QuantityRemaining
		aggregate.TotalWeight += spool.SpoolWeight
		aggregate.SpoolIDs = append(aggregate.SpoolIDs, spool.ID)
		if spool.Price != nil {
			priceSum = priceSum.Add(*spool.Price)
			priced++
		}
	}

	if aggregate.TotalWeight > 0 {
		aggregate.Percentage = aggregate.QuantityRemaining / aggregate.TotalWeight * 100
	}

	if priced > 0 {
		avg := priceSum.Div(decimal.NewFromInt(int64(priced))).Round(2)
		aggregate.AveragePrice = &avg
	}

	return aggregate
}
