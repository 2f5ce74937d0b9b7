package seed

import (
	"time"

	"filatrack/pkg/logger"

	. "filatrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func Seed(db *gorm.DB, log logger.Logger) error {
	log = log.Function("Seed")

	if err := seedFilaments(db, log); err != nil {
		return log.Err("failed to seed filaments", err)
	}

	if err := seedPrinters(db, log); err != nil {
		return log.Err("failed to seed printers", err)
	}

	if err := seedIdealQuantities(db, log); err != nil {
		return log.Err("failed to seed ideal quantities", err)
	}

	if err := seedLinkGroups(db, log); err != nil {
		return log.Err("failed to seed link groups", err)
	}

	log.Info("Seed complete")
	return nil
}

func ptr[T any](v T) *T { return &v }

func seedFilaments(db *gorm.DB, log logger.Logger) error {
	log.Info("Seeding filaments")

	purchase := datatypes.Date(time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
	price := decimal.NewFromFloat(24.99)

	filaments := []Filament{
		{
			Type:              "PLA",
			Color:             "Galaxy Black",
			Brand:             "Prusament",
			SpoolWeight:       1000,
			QuantityRemaining: 1000,
			Price:             &price,
			PurchaseDate:      &purchase,
		},
		{
			Type:              "PLA",
			Color:             "Galaxy Black",
			Brand:             "Prusament",
			SpoolWeight:       1000,
			QuantityRemaining: 420,
			Price:             &price,
		},
		{
			Type:              "PETG",
			Color:             "Clear",
			Brand:             "Overture",
			SpoolWeight:       1000,
			QuantityRemaining: 760,
		},
		{
			Type:              "TPU",
			Color:             "Red",
			Brand:             "NinjaTek",
			SpoolWeight:       500,
			QuantityRemaining: 500,
		},
	}

	for i := range filaments {
		if err := db.Create(&filaments[i]).Error; err != nil {
			return err
		}
	}

	log.Info("Filaments seeded", "count", len(filaments))
	return nil
}

func seedPrinters(db *gorm.DB, log logger.Logger) error {
	log.Info("Seeding printers")

	installed := datatypes.Date(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	printers := []Printer{
		{
			Name:             "Workhorse",
			Model:            ptr("Prusa MK4"),
			PowerConsumption: 0.12,
			Components: []PrinterComponent{
				{
					Name:                "Nozzle 0.4mm",
					InstallationDate:    &installed,
					ReplacementInterval: ptr(500.0),
				},
				{
					Name:             "PTFE Tube",
					InstallationDate: &installed,
				},
			},
		},
		{
			Name:             "Speed Demon",
			Model:            ptr("Bambu X1C"),
			PowerConsumption: 0.35,
		},
	}

	for i := range printers {
		if err := db.Create(&printers[i]).Error; err != nil {
			return err
		}
	}

	log.Info("Printers seeded", "count", len(printers))
	return nil
}

func seedIdealQuantities(db *gorm.DB, log logger.Logger) error {
	log.Info("Seeding ideal quantities")

	ideals := []IdealQuantity{
		{Type: "PLA", Color: "Galaxy Black", Brand: "Prusament", Quantity: 2000},
		{Type: "PETG", Color: "Clear", Brand: "Overture", Quantity: 1000},
		{Type: "ABS", Color: "White", Brand: "Polymaker", Quantity: 500},
	}

	for i := range ideals {
		if err := db.Create(&ideals[i]).Error; err != nil {
			return err
		}
	}

	log.Info("Ideal quantities seeded", "count", len(ideals))
	return nil
}

func seedLinkGroups(db *gorm.DB, log logger.Logger) error {
	log.Info("Seeding link groups")

	group := LinkGroup{
		Name:          "Black PLA",
		Description:   ptr("Interchangeable black PLA spools"),
		IdealQuantity: 3000,
		Identities: []LinkedIdentity{
			{Type: "PLA", Color: "Galaxy Black", Brand: "Prusament"},
			{Type: "PLA", Color: "Black", Brand: "Overture"},
		},
	}

	if err := db.Create(&group).Error; err != nil {
		return err
	}

	log.Info("Link groups seeded")
	return nil
}
