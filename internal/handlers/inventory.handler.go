package handlers

import (
	"errors"

	"filatrack/internal/app"
	inventoryController "filatrack/internal/controllers/inventory"
	"filatrack/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	Handler
	inventoryController inventoryController.InventoryControllerInterface
}

func NewInventoryHandler(app app.App, router fiber.Router) *InventoryHandler {
	log := logger.New("handlers").File("inventory_handler")
	return &InventoryHandler{
		inventoryController: app.Controllers.Inventory,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *InventoryHandler) Register() {
	inventory := h.router.Group("/inventory")
	inventory.Get("/aggregates", h.getAggregates)
	inventory.Get("/status", h.getStatus)

	ideals := h.router.Group("/ideal-quantities")
	ideals.Get("", h.getIdealQuantities)
	ideals.Put("", h.setIdealQuantity)
}

func (h *InventoryHandler) getAggregates(c *fiber.Ctx) error {
	aggregates, err := h.inventoryController.GetAggregates(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to aggregate inventory",
		})
	}

	return c.JSON(fiber.Map{"aggregates": aggregates})
}

func (h *InventoryHandler) getStatus(c *fiber.Ctx) error {
	entries, err := h.inventoryController.GetStatus(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute inventory status",
		})
	}

	return c.JSON(fiber.Map{"entries": entries})
}

func (h *InventoryHandler) getIdealQuantities(c *fiber.Ctx) error {
	ideals, err := h.inventoryController.GetIdealQuantities(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get ideal quantities",
		})
	}

	return c.JSON(fiber.Map{"idealQuantities": ideals})
}

func (h *InventoryHandler) setIdealQuantity(c *fiber.Ctx) error {
	var req inventoryController.SetIdealQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ideal, err := h.inventoryController.SetIdealQuantity(c.Context(), &req)
	if err != nil {
		if errors.Is(err, inventoryController.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to set ideal quantity",
		})
	}

	return c.JSON(fiber.Map{"idealQuantity": ideal})
}
