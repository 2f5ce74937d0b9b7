package services

import (
	"context"

	"filatrack/internal/repositories"
	"filatrack/pkg/logger"

	. "filatrack/internal/models"

	"gorm.io/gorm"
)

// InventoryService reconciles aggregated stock, link groups and ideal
// quantity targets into one status list: group entries first, then ungrouped
// individual identities, then synthetic entries for targets with no live
// stock. Recomputed in full on every call.
type InventoryService struct {
	aggregation   *AggregationService
	linkGroupRepo repositories.LinkGroupRepository
	idealRepo     repositories.IdealQuantityRepository
}

func NewInventoryService(
	aggregation *AggregationService,
	linkGroupRepo repositories.LinkGroupRepository,
	idealRepo repositories.IdealQuantityRepository,
) *InventoryService {
	return &InventoryService{
		aggregation:   aggregation,
		linkGroupRepo: linkGroupRepo,
		idealRepo:     idealRepo,
	}
}

func (s *InventoryService) Status(ctx context.Context, tx *gorm.DB) ([]InventoryStatusEntry, error) {
	log := logger.NewWithContext(ctx, "inventoryService").Function("Status")

	aggregates, err := s.aggregation.Aggregate(ctx, tx)
	if err != nil {
		return nil, err
	}

	groups, err := s.linkGroupRepo.GetAll(ctx, tx)
	if err != nil {
		return nil, err
	}

	ideals, err := s.idealRepo.GetAll(ctx, tx)
	if err != nil {
		return nil, err
	}

	aggregateByIdentity := make(map[FilamentIdentity]FilamentAggregate, len(aggregates))
	for _, aggregate := range aggregates {
		aggregateByIdentity[aggregate.Identity] = aggregate
	}

	idealByIdentity := make(map[FilamentIdentity]float64, len(ideals))
	for _, ideal := range ideals {
		idealByIdentity[ideal.Identity()] = ideal.Quantity
	}

	// Identities claimed by a group are excluded from the individual pass
	// and from the zero-stock pass.
	consumed := make(map[FilamentIdentity]bool)

	var entries []InventoryStatusEntry
	for _, group := range groups {
		if len(group.Identities) == 0 {
			continue
		}

		entry := InventoryStatusEntry{
			Kind:          EntryKindGroup,
			IsGroup:       true,
			GroupID:       &group.ID,
			GroupName:     group.Name,
			IdealQuantity: group.IdealQuantity,
		}

		for _, link := range group.Identities {
			identity := link.Identity()
			consumed[identity] = true
			if aggregate, ok := aggregateByIdentity[identity]; ok {
				entry.CurrentQuantity += aggregate.QuantityRemaining
				entry.SpoolCount += aggregate.SpoolCount
				entry.Members = append(entry.Members, aggregate)
			}
		}

		entry.Difference = entry.CurrentQuantity - entry.IdealQuantity
		entry.Percentage = stockPercentage(entry.CurrentQuantity, entry.IdealQuantity)
		entry.Level = StockLevelFor(entry.Percentage)
		entries = append(entries, entry)
	}

	for _, aggregate := range aggregates {
		if consumed[aggregate.Identity] {
			continue
		}

		ideal := idealByIdentity[aggregate.Identity]

		identity := aggregate.Identity
		entry := InventoryStatusEntry{
			Kind:            EntryKindIndividual,
			Identity:        &identity,
			CurrentQuantity: aggregate.QuantityRemaining,
			IdealQuantity:   ideal,
			Difference:      aggregate.QuantityRemaining - ideal,
			Percentage:      stockPercentage(aggregate.QuantityRemaining, ideal),
			SpoolCount:      aggregate.SpoolCount,
		}
		entry.Level = StockLevelFor(entry.Percentage)
		entries = append(entries, entry)
	}

	// Targets with no spools at all: reported completely out of stock, with
	// percentage deliberately nil rather than a computed 0%.
	for _, ideal := range ideals {
		identity := ideal.Identity()
		if consumed[identity] {
			continue
		}
		if _, hasStock := aggregateByIdentity[identity]; hasStock {
			continue
		}
		if ideal.Quantity == 0 {
			continue
		}

		entries = append(entries, InventoryStatusEntry{
			Kind:          EntryKindOutOfStockTarget,
			Identity:      &identity,
			IdealQuantity: ideal.Quantity,
			Difference:    -ideal.Quantity,
			Percentage:    nil,
			Level:         StockLevelOutOfStock,
		})
	}

	log.Debug("Inventory status reconciled", "entries", len(entries))
	return entries, nil
}

// stockPercentage returns current/ideal*100, or nil when no target is set.
// A nil percentage is "not applicable", never a division by zero.
func stockPercentage(current, ideal float64) *float64 {
	if ideal <= 0 {
		return nil
	}
	p := current / ideal * 100
	return &p
}
