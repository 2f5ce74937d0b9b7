package handlers

import (
	"errors"

	"filatrack/internal/app"
	jobController "filatrack/internal/controllers/job"
	"filatrack/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type JobHandler struct {
	Handler
	jobController jobController.JobControllerInterface
}

func NewJobHandler(app app.App, router fiber.Router) *JobHandler {
	log := logger.New("handlers").File("job_handler")
	return &JobHandler{
		jobController: app.Controllers.Job,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *JobHandler) Register() {
	jobs := h.router.Group("/jobs")
	jobs.Get("", h.getJobs)
	jobs.Get("/:id", h.getJob)
	jobs.Post("", h.createJob)
	jobs.Put("/:id", h.updateJob)
	jobs.Delete("/:id", h.deleteJob)
}

func jobErrorStatus(err error) int {
	switch {
	case errors.Is(err, jobController.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, jobController.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, jobController.ErrInsufficientQuantity):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *JobHandler) getJobs(c *fiber.Ctx) error {
	jobs, err := h.jobController.GetJobs(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get print jobs",
		})
	}

	return c.JSON(fiber.Map{"jobs": jobs})
}

func (h *JobHandler) getJob(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID",
		})
	}

	job, err := h.jobController.GetJob(c.Context(), id)
	if err != nil {
		return c.Status(jobErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"job": job})
}

func (h *JobHandler) createJob(c *fiber.Ctx) error {
	var req jobController.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	job, err := h.jobController.CreateJob(c.Context(), &req)
	if err != nil {
		return c.Status(jobErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"job": job})
}

func (h *JobHandler) updateJob(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID",
		})
	}

	var req jobController.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.jobController.UpdateJob(c.Context(), id, &req)
	if err != nil {
		return c.Status(jobErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result := fiber.Map{"job": response.Job}
	if response.Adjustment != nil {
		result["adjustment"] = response.Adjustment
	}

	return c.JSON(result)
}

func (h *JobHandler) deleteJob(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID",
		})
	}

	response, err := h.jobController.DeleteJob(c.Context(), id)
	if err != nil {
		return c.Status(jobErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"restored": response.Restored})
}
