package handlers

import (
	"filatrack/internal/app"
	"filatrack/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	log    logger.Logger
	router fiber.Router
}

func Router(router fiber.Router, app *app.App) error {
	api := router.Group("/api")

	HealthHandler(api, app.Config)
	NewFilamentHandler(*app, api).Register()
	NewPrinterHandler(*app, api).Register()
	NewJobHandler(*app, api).Register()
	NewLinkGroupHandler(*app, api).Register()
	NewInventoryHandler(*app, api).Register()
	NewReportHandler(*app, api).Register()
	NewBackupHandler(*app, api).Register()

	return nil
}
