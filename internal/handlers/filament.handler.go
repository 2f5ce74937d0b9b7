package handlers

import (
	"errors"

	"filatrack/internal/app"
	filamentController "filatrack/internal/controllers/filament"
	"filatrack/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FilamentHandler struct {
	Handler
	filamentController filamentController.FilamentControllerInterface
}

func NewFilamentHandler(app app.App, router fiber.Router) *FilamentHandler {
	log := logger.New("handlers").File("filament_handler")
	return &FilamentHandler{
		filamentController: app.Controllers.Filament,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *FilamentHandler) Register() {
	filaments := h.router.Group("/filaments")
	filaments.Get("", h.getFilaments)
	filaments.Get("/identities", h.getIdentities)
	filaments.Get("/:id", h.getFilament)
	filaments.Post("", h.createFilament)
	filaments.Put("/:id", h.updateFilament)
	filaments.Post("/:id/adjust", h.adjustQuantity)
	filaments.Delete("/:id", h.deleteFilament)
}

func filamentErrorStatus(err error) int {
	switch {
	case errors.Is(err, filamentController.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, filamentController.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, filamentController.ErrFilamentInUse):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *FilamentHandler) getFilaments(c *fiber.Ctx) error {
	filaments, err := h.filamentController.GetFilaments(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get filaments",
		})
	}

	return c.JSON(fiber.Map{"filaments": filaments})
}

func (h *FilamentHandler) getIdentities(c *fiber.Ctx) error {
	identities, err := h.filamentController.ListIdentities(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list identities",
		})
	}

	return c.JSON(fiber.Map{"identities": identities})
}

func (h *FilamentHandler) getFilament(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid filament ID",
		})
	}

	filament, err := h.filamentController.GetFilament(c.Context(), id)
	if err != nil {
		return c.Status(filamentErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"filament": filament})
}

func (h *FilamentHandler) createFilament(c *fiber.Ctx) error {
	var req filamentController.CreateFilamentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	filament, err := h.filamentController.CreateFilament(c.Context(), &req)
	if err != nil {
		return c.Status(filamentErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"filament": filament})
}

func (h *FilamentHandler) updateFilament(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid filament ID",
		})
	}

	var req filamentController.UpdateFilamentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	filament, err := h.filamentController.UpdateFilament(c.Context(), id, &req)
	if err != nil {
		return c.Status(filamentErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"filament": filament})
}

func (h *FilamentHandler) adjustQuantity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid filament ID",
		})
	}

	var req filamentController.AdjustQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	filament, err := h.filamentController.AdjustQuantity(c.Context(), id, &req)
	if err != nil {
		return c.Status(filamentErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"filament": filament})
}

func (h *FilamentHandler) deleteFilament(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid filament ID",
		})
	}

	if err := h.filamentController.DeleteFilament(c.Context(), id); err != nil {
		return c.Status(filamentErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
