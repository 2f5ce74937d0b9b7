package handlers

import (
	"errors"

	"filatrack/internal/app"
	linkGroupController "filatrack/internal/controllers/linkgroup"
	"filatrack/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LinkGroupHandler struct {
	Handler
	linkGroupController linkGroupController.LinkGroupControllerInterface
}

func NewLinkGroupHandler(app app.App, router fiber.Router) *LinkGroupHandler {
	log := logger.New("handlers").File("linkgroup_handler")
	return &LinkGroupHandler{
		linkGroupController: app.Controllers.LinkGroup,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *LinkGroupHandler) Register() {
	groups := h.router.Group("/link-groups")
	groups.Get("", h.getLinkGroups)
	groups.Get("/:id", h.getLinkGroup)
	groups.Post("", h.createLinkGroup)
	groups.Put("/:id", h.updateLinkGroup)
	groups.Delete("/:id", h.deleteLinkGroup)
	groups.Post("/:id/identities", h.addIdentity)
	groups.Delete("/:id/identities", h.removeIdentity)
}

func linkGroupErrorStatus(err error) int {
	switch {
	case errors.Is(err, linkGroupController.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, linkGroupController.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, linkGroupController.ErrDuplicateLink):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *LinkGroupHandler) getLinkGroups(c *fiber.Ctx) error {
	groups, err := h.linkGroupController.GetLinkGroups(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get link groups",
		})
	}

	return c.JSON(fiber.Map{"linkGroups": groups})
}

func (h *LinkGroupHandler) getLinkGroup(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid link group ID",
		})
	}

	group, err := h.linkGroupController.GetLinkGroup(c.Context(), id)
	if err != nil {
		return c.Status(linkGroupErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"linkGroup": group})
}

func (h *LinkGroupHandler) createLinkGroup(c *fiber.Ctx) error {
	var req linkGroupController.CreateLinkGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	group, err := h.linkGroupController.CreateLinkGroup(c.Context(), &req)
	if err != nil {
		return c.Status(linkGroupErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"linkGroup": group})
}

func (h *LinkGroupHandler) updateLinkGroup(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid link group ID",
		})
	}

	var req linkGroupController.UpdateLinkGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	group, err := h.linkGroupController.UpdateLinkGroup(c.Context(), id, &req)
	if err != nil {
		return c.Status(linkGroupErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"linkGroup": group})
}

func (h *LinkGroupHandler) deleteLinkGroup(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid link group ID",
		})
	}

	if err := h.linkGroupController.DeleteLinkGroup(c.Context(), id); err != nil {
		return c.Status(linkGroupErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *LinkGroupHandler) addIdentity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid link group ID",
		})
	}

	var req linkGroupController.IdentityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	link, err := h.linkGroupController.AddIdentity(c.Context(), id, &req)
	if err != nil {
		return c.Status(linkGroupErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"identity": link})
}

func (h *LinkGroupHandler) removeIdentity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid link group ID",
		})
	}

	var req linkGroupController.IdentityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.linkGroupController.RemoveIdentity(c.Context(), id, &req); err != nil {
		return c.Status(linkGroupErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
