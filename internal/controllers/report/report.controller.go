package reportController

import (
	"context"
	"errors"
	"time"

	"filatrack/internal/database"
	"filatrack/internal/services"
	"filatrack/pkg/logger"
)

var ErrValidation = errors.New("validation error")

type ReportController struct {
	reportService *services.ReportService
	db            database.DB
}

// CostSummaryRequest bounds the report by job date; empty strings leave the
// bound open.
type CostSummaryRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type ReportControllerInterface interface {
	GetCostSummary(ctx context.Context, request *CostSummaryRequest) (*services.CostSummary, error)
}

func New(services services.Service, db database.DB) ReportControllerInterface {
	return &ReportController{
		reportService: services.Report,
		db:            db,
	}
}

func (c *ReportController) GetCostSummary(
	ctx context.Context,
	request *CostSummaryRequest,
) (*services.CostSummary, error) {
	log := logger.NewWithContext(ctx, "reportController").Function("GetCostSummary")

	from, err := parseBound(request.From)
	if err != nil {
		return nil, log.ErrorWithType(ErrValidation, "invalid from date", "from", request.From)
	}
	to, err := parseBound(request.To)
	if err != nil {
		return nil, log.ErrorWithType(ErrValidation, "invalid to date", "to", request.To)
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, log.ErrorWithType(ErrValidation, "to date precedes from date")
	}

	return c.reportService.CostSummary(ctx, c.db.SQL, from, to)
}

func parseBound(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
