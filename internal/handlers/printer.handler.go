package handlers

import (
	"errors"

	"filatrack/internal/app"
	printerController "filatrack/internal/controllers/printer"
	"filatrack/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PrinterHandler struct {
	Handler
	printerController printerController.PrinterControllerInterface
}

func NewPrinterHandler(app app.App, router fiber.Router) *PrinterHandler {
	log := logger.New("handlers").File("printer_handler")
	return &PrinterHandler{
		printerController: app.Controllers.Printer,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *PrinterHandler) Register() {
	printers := h.router.Group("/printers")
	printers.Get("", h.getPrinters)
	printers.Get("/:id", h.getPrinter)
	printers.Post("", h.createPrinter)
	printers.Put("/:id", h.updatePrinter)
	printers.Delete("/:id", h.deletePrinter)
	printers.Post("/:id/components", h.createComponent)

	components := h.router.Group("/components")
	components.Put("/:id", h.updateComponent)
	components.Delete("/:id", h.deleteComponent)
}

func printerErrorStatus(err error) int {
	switch {
	case errors.Is(err, printerController.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, printerController.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, printerController.ErrPrinterInUse):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *PrinterHandler) getPrinters(c *fiber.Ctx) error {
	printers, err := h.printerController.GetPrinters(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get printers",
		})
	}

	return c.JSON(fiber.Map{"printers": printers})
}

func (h *PrinterHandler) getPrinter(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid printer ID",
		})
	}

	printer, err := h.printerController.GetPrinter(c.Context(), id)
	if err != nil {
		return c.Status(printerErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"printer": printer})
}

func (h *PrinterHandler) createPrinter(c *fiber.Ctx) error {
	var req printerController.CreatePrinterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	printer, err := h.printerController.CreatePrinter(c.Context(), &req)
	if err != nil {
		return c.Status(printerErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"printer": printer})
}

func (h *PrinterHandler) updatePrinter(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid printer ID",
		})
	}

	var req printerController.UpdatePrinterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	printer, err := h.printerController.UpdatePrinter(c.Context(), id, &req)
	if err != nil {
		return c.Status(printerErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"printer": printer})
}

func (h *PrinterHandler) deletePrinter(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid printer ID",
		})
	}

	if err := h.printerController.DeletePrinter(c.Context(), id); err != nil {
		return c.Status(printerErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *PrinterHandler) createComponent(c *fiber.Ctx) error {
	printerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid printer ID",
		})
	}

	var req printerController.CreateComponentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	component, err := h.printerController.CreateComponent(c.Context(), printerID, &req)
	if err != nil {
		return c.Status(printerErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"component": component})
}

func (h *PrinterHandler) updateComponent(c *fiber.Ctx) error {
	componentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid component ID",
		})
	}

	var req printerController.UpdateComponentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	component, err := h.printerController.UpdateComponent(c.Context(), componentID, &req)
	if err != nil {
		return c.Status(printerErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"component": component})
}

func (h *PrinterHandler) deleteComponent(c *fiber.Ctx) error {
	componentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid component ID",
		})
	}

	if err := h.printerController.DeleteComponent(c.Context(), componentID); err != nil {
		return c.Status(printerErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
