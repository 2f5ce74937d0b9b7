package services

import (
	"context"
	"time"

	"filatrack/config"
	"filatrack/internal/repositories"
	"filatrack/pkg/logger"

	. "filatrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// JobCostReport is the per-job cost breakdown: material cost from the priced
// spools consumed, electricity cost from duration and printer draw.
type JobCostReport struct {
	JobID           uuid.UUID       `json:"jobId"`
	ProjectName     string          `json:"projectName"`
	Duration        float64         `json:"duration"`
	MaterialCost    decimal.Decimal `json:"materialCost"`
	ElectricityCost decimal.Decimal `json:"electricityCost"`
	TotalCost       decimal.Decimal `json:"totalCost"`
}

type CostSummary struct {
	Currency             string          `json:"currency"`
	ElectricityRate      float64         `json:"electricityRate"`
	Jobs                 []JobCostReport `json:"jobs"`
	TotalMaterialCost    decimal.Decimal `json:"totalMaterialCost"`
	TotalElectricityCost decimal.Decimal `json:"totalElectricityCost"`
	TotalCost            decimal.Decimal `json:"totalCost"`
}

// ReportService computes material and electricity cost reports. The
// electricity rate and currency come from configuration, not ambient state.
type ReportService struct {
	jobRepo      repositories.PrintJobRepository
	filamentRepo repositories.FilamentRepository
	printerRepo  repositories.PrinterRepository
	config       config.Config
}

func NewReportService(
	jobRepo repositories.PrintJobRepository,
	filamentRepo repositories.FilamentRepository,
	printerRepo repositories.PrinterRepository,
	config config.Config,
) *ReportService {
	return &ReportService{
		jobRepo:      jobRepo,
		filamentRepo: filamentRepo,
		printerRepo:  printerRepo,
		config:       config,
	}
}

// CostSummary reports costs for jobs dated inside [from, to]; nil bounds
// leave that side open.
func (s *ReportService) CostSummary(
	ctx context.Context,
	tx *gorm.DB,
	from, to *time.Time,
) (*CostSummary, error) {
	log := logger.NewWithContext(ctx, "reportService").Function("CostSummary")

	jobs, err := s.jobRepo.GetByDateRange(ctx, tx, from, to)
	if err != nil {
		return nil, err
	}

	rate := decimal.NewFromFloat(s.config.ElectricityRate)

	summary := &CostSummary{
		Currency:        s.config.CurrencyCode,
		ElectricityRate: s.config.ElectricityRate,
		Jobs:            make([]JobCostReport, 0, len(jobs)),
	}

	for _, job := range jobs {
		report, err := s.jobCost(ctx, tx, job, rate)
		if err != nil {
			return nil, err
		}

		summary.Jobs = append(summary.Jobs, *report)
		summary.TotalMaterialCost = summary.TotalMaterialCost.Add(report.MaterialCost)
		summary.TotalElectricityCost = summary.TotalElectricityCost.Add(report.ElectricityCost)
	}
	summary.TotalCost = summary.TotalMaterialCost.Add(summary.TotalElectricityCost)

	log.Debug("Cost summary computed", "jobs", len(summary.Jobs))
	return summary, nil
}

func (s *ReportService) jobCost(
	ctx context.Context,
	tx *gorm.DB,
	job *PrintJob,
	rate decimal.Decimal,
) (*JobCostReport, error) {
	log := logger.NewWithContext(ctx, "reportService").Function("jobCost")

	report := &JobCostReport{
		JobID:       job.ID,
		ProjectName: job.ProjectName,
		Duration:    job.Duration,
	}

	for _, slot := range job.Slots() {
		filament, err := s.filamentRepo.GetByID(ctx, tx, slot.FilamentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				// Spool removed after the job; no price to attribute
				continue
			}
			return nil, err
		}
		if filament.Price == nil || filament.SpoolWeight <= 0 {
			continue
		}

		// cost per gram = spool price / spool weight
		costPerGram := filament.Price.Div(decimal.NewFromFloat(filament.SpoolWeight))
		report.MaterialCost = report.MaterialCost.
			Add(costPerGram.Mul(decimal.NewFromFloat(slot.Used)))
	}
	report.MaterialCost = report.MaterialCost.Round(2)

	printer, err := s.printerRepo.GetByID(ctx, tx, job.PrinterID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, log.Err("failed to load printer for cost report", err, "jobID", job.ID)
		}
	} else {
		// kWh = duration (h) * draw (kW)
		kwh := decimal.NewFromFloat(job.Duration).Mul(decimal.NewFromFloat(printer.PowerConsumption))
		report.ElectricityCost = kwh.Mul(rate).Round(2)
	}

	report.TotalCost = report.MaterialCost.Add(report.ElectricityCost)
	return report, nil
}
