package handlers

import (
	"filatrack/internal/app"
	backupController "filatrack/internal/controllers/backup"
	"filatrack/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type BackupHandler struct {
	Handler
	backupController backupController.BackupControllerInterface
}

func NewBackupHandler(app app.App, router fiber.Router) *BackupHandler {
	log := logger.New("handlers").File("backup_handler")
	return &BackupHandler{
		backupController: app.Controllers.Backup,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *BackupHandler) Register() {
	h.router.Post("/backup", h.runBackup)
}

func (h *BackupHandler) runBackup(c *fiber.Ctx) error {
	result, err := h.backupController.RunBackup(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create backup",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"backup": result})
}
