package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FilamentAggregate is the per-identity rollup of every spool sharing that
// identity. Recomputed in full on every read.
type FilamentAggregate struct {
	Identity          FilamentIdentity `json:"identity"`
	QuantityRemaining float64          `json:"quantityRemaining"`
	TotalWeight       float64          `json:"totalWeight"`
	Percentage        float64          `json:"percentage"`
	AveragePrice      *decimal.Decimal `json:"averagePrice,omitempty"`
	SpoolCount        int              `json:"spoolCount"`
	SpoolIDs          []uuid.UUID      `json:"spoolIds"`
}

type InventoryEntryKind string

const (
	EntryKindGroup            InventoryEntryKind = "group"
	EntryKindIndividual       InventoryEntryKind = "individual"
	EntryKindOutOfStockTarget InventoryEntryKind = "out_of_stock_target"
)

// InventoryStatusEntry is one line of the reconciled status list. Kind
// discriminates the variant; group fields are set only for group entries and
// Identity only for the other two kinds. Percentage is nil whenever no target
// percentage can be computed (zero ideal, or a target with no live stock).
type InventoryStatusEntry struct {
	Kind            InventoryEntryKind  `json:"kind"`
	IsGroup         bool                `json:"isGroup"`
	GroupID         *uuid.UUID          `json:"groupId,omitempty"`
	GroupName       string              `json:"groupName,omitempty"`
	Identity        *FilamentIdentity   `json:"identity,omitempty"`
	CurrentQuantity float64             `json:"currentQuantity"`
	IdealQuantity   float64             `json:"idealQuantity"`
	Difference      float64             `json:"difference"`
	Percentage      *float64            `json:"percentage"`
	SpoolCount      int                 `json:"spoolCount"`
	Level           StockLevel          `json:"level"`
	Members         []FilamentAggregate `json:"members,omitempty"`
}

type StockLevel string

const (
	StockLevelNoTarget    StockLevel = "No Target Set"
	StockLevelOutOfStock  StockLevel = "Out of Stock"
	StockLevelCritical    StockLevel = "Critical"
	StockLevelLow         StockLevel = "Low"
	StockLevelAdequate    StockLevel = "Adequate"
	StockLevelOptimal     StockLevel = "Optimal"
	StockLevelOverstocked StockLevel = "Overstocked"
)

// StockLevelFor maps a stock percentage to its band. First match wins,
// ascending thresholds; a nil percentage means no target is set.
func StockLevelFor(percentage *float64) StockLevel {
	switch {
	case percentage == nil:
		return StockLevelNoTarget
	case *percentage == 0:
		return StockLevelOutOfStock
	case *percentage < 20:
		return StockLevelCritical
	case *percentage < 50:
		return StockLevelLow
	case *percentage < 95:
		return StockLevelAdequate
	case *percentage < 120:
		return StockLevelOptimal
	default:
		return StockLevelOverstocked
	}
}
