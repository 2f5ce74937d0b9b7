package handlers

import (
	"errors"

	"filatrack/internal/app"
	reportController "filatrack/internal/controllers/report"
	"filatrack/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	Handler
	reportController reportController.ReportControllerInterface
}

func NewReportHandler(app app.App, router fiber.Router) *ReportHandler {
	log := logger.New("handlers").File("report_handler")
	return &ReportHandler{
		reportController: app.Controllers.Report,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *ReportHandler) Register() {
	reports := h.router.Group("/reports")
	reports.Get("/costs", h.getCostSummary)
}

func (h *ReportHandler) getCostSummary(c *fiber.Ctx) error {
	req := reportController.CostSummaryRequest{
		From: c.Query("from"),
		To:   c.Query("to"),
	}

	summary, err := h.reportController.GetCostSummary(c.Context(), &req)
	if err != nil {
		if errors.Is(err, reportController.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute cost summary",
		})
	}

	return c.JSON(fiber.Map{"summary": summary})
}
