package repositories

type Repository struct {
	Filament      FilamentRepository
	IdealQuantity IdealQuantityRepository
	LinkGroup     LinkGroupRepository
	Printer       PrinterRepository
	PrintJob      PrintJobRepository
}

func New() Repository {
	return Repository{
		Filament:      NewFilamentRepository(),
		IdealQuantity: NewIdealQuantityRepository(),
		LinkGroup:     NewLinkGroupRepository(),
		Printer:       NewPrinterRepository(),
		PrintJob:      NewPrintJobRepository(),
	}
}
