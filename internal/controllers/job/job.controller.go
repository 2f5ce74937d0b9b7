package jobController

import (
	"context"
	"errors"
	"time"

	"filatrack/internal/database"
	"filatrack/internal/repositories"
	"filatrack/internal/services"
	"filatrack/pkg/logger"

	. "filatrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("not found")
	ErrInsufficientQuantity = errors.New("insufficient filament quantity")
)

type JobController struct {
	jobRepo            repositories.PrintJobRepository
	filamentRepo       repositories.FilamentRepository
	printerRepo        repositories.PrinterRepository
	transactionService *services.TransactionService
	db                 database.DB
}

type SlotRequest struct {
	FilamentID uuid.UUID `json:"filamentId"`
	Used       float64   `json:"used"`
}

type CreateJobRequest struct {
	ProjectName   string     `json:"projectName"`
	Date          string     `json:"date"`
	PrinterID     uuid.UUID  `json:"printerId"`
	Duration      float64    `json:"duration"`
	Notes         *string    `json:"notes,omitempty"`
	FilamentID    uuid.UUID  `json:"filamentId"`
	FilamentUsed  float64    `json:"filamentUsed"`
	FilamentID2   *uuid.UUID `json:"filamentId2,omitempty"`
	FilamentUsed2 *float64   `json:"filamentUsed2,omitempty"`
	FilamentID3   *uuid.UUID `json:"filamentId3,omitempty"`
	FilamentUsed3 *float64   `json:"filamentUsed3,omitempty"`
	FilamentID4   *uuid.UUID `json:"filamentId4,omitempty"`
	FilamentUsed4 *float64   `json:"filamentUsed4,omitempty"`
}

type UpdateJobRequest struct {
	ProjectName       *string    `json:"projectName,omitempty"`
	Date              *string    `json:"date,omitempty"`
	PrinterID         *uuid.UUID `json:"printerId,omitempty"`
	Duration          *float64   `json:"duration,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	IsFailed          *bool      `json:"isFailed,omitempty"`
	FailurePercentage *float64   `json:"failurePercentage,omitempty"`
}

// RestoredFilament reports one slot's credit back to inventory, for
// user-facing messaging.
type RestoredFilament struct {
	Slot           int              `json:"slot"`
	FilamentID     uuid.UUID        `json:"filamentId"`
	Identity       FilamentIdentity `json:"identity"`
	AmountRestored float64          `json:"amountRestored"`
}

// FailureAdjustment is the transient result of the Active to Failed
// transition. The original duration survives only here, as TimeSaved.
type FailureAdjustment struct {
	FailurePercentage float64            `json:"failurePercentage"`
	Restored          []RestoredFilament `json:"restored"`
	NewDuration       float64            `json:"newDuration"`
	TimeSaved         float64            `json:"timeSaved"`
}

type UpdateJobResponse struct {
	Job        *PrintJob          `json:"job"`
	Adjustment *FailureAdjustment `json:"adjustment,omitempty"`
}

type DeleteJobResponse struct {
	Restored []RestoredFilament `json:"restored"`
}

type JobControllerInterface interface {
	GetJobs(ctx context.Context) ([]*PrintJob, error)
	GetJob(ctx context.Context, id uuid.UUID) (*PrintJob, error)
	CreateJob(ctx context.Context, request *CreateJobRequest) (*PrintJob, error)
	UpdateJob(ctx context.Context, id uuid.UUID, request *UpdateJobRequest) (*UpdateJobResponse, error)
	DeleteJob(ctx context.Context, id uuid.UUID) (*DeleteJobResponse, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) JobControllerInterface {
	return &JobController{
		jobRepo:            repos.PrintJob,
		filamentRepo:       repos.Filament,
		printerRepo:        repos.Printer,
		transactionService: services.Transaction,
		db:                 db,
	}
}

func parseDate(dateStr string) (datatypes.Date, error) {
	if dateStr == "" {
		return datatypes.Date{}, errors.New("date is required")
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return datatypes.Date{}, errors.New("invalid date format, expected YYYY-MM-DD")
	}
	return datatypes.Date(t), nil
}

func (c *JobController) GetJobs(ctx context.Context) ([]*PrintJob, error) {
	return c.jobRepo.GetAll(ctx, c.db.SQL)
}

func (c *JobController) GetJob(ctx context.Context, id uuid.UUID) (*PrintJob, error) {
	log := logger.NewWithContext(ctx, "jobController").Function("GetJob")

	job, err := c.jobRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "print job not found", "id", id)
		}
		return nil, err
	}

	return job, nil
}

// CreateJob records a print and debits every populated filament slot. All
// slots are validated against current stock before any debit, so a shortfall
// in any slot aborts the whole creation with nothing debited. Every component
// of the printer accumulates the job's duration.
func (c *JobController) CreateJob(
	ctx context.Context,
	request *CreateJobRequest,
) (*PrintJob, error) {
	log := logger.NewWithContext(ctx, "jobController").Function("CreateJob")

	if request.ProjectName == "" {
		return nil, log.ErrorWithType(ErrValidation, "projectName is required")
	}
	if request.PrinterID == uuid.Nil {
		return nil, log.ErrorWithType(ErrValidation, "printerId is required")
	}
	if request.FilamentID == uuid.Nil {
		return nil, log.ErrorWithType(ErrValidation, "filamentId is required")
	}
	if request.Duration < 0 {
		return nil, log.ErrorWithType(ErrValidation, "duration cannot be negative")
	}
	if request.FilamentUsed < 0 {
		return nil, log.ErrorWithType(ErrValidation, "filamentUsed cannot be negative")
	}

	date, err := parseDate(request.Date)
	if err != nil {
		return nil, log.ErrorWithType(ErrValidation, "invalid date", "error", err)
	}

	job := &PrintJob{
		ProjectName:   request.ProjectName,
		Date:          date,
		PrinterID:     request.PrinterID,
		Duration:      request.Duration,
		Notes:         request.Notes,
		FilamentID:    request.FilamentID,
		FilamentUsed:  request.FilamentUsed,
		FilamentID2:   request.FilamentID2,
		FilamentUsed2: request.FilamentUsed2,
		FilamentID3:   request.FilamentID3,
		FilamentUsed3: request.FilamentUsed3,
		FilamentID4:   request.FilamentID4,
		FilamentUsed4: request.FilamentUsed4,
	}

	if err := validateSecondarySlots(job); err != nil {
		return nil, log.ErrorWithType(ErrValidation, err.Error())
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.printerRepo.GetByID(ctx, tx, request.PrinterID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return log.ErrorWithType(ErrNotFound, "printer not found", "id", request.PrinterID)
			}
			return err
		}

		// Validate every slot before debiting any of them
		slots := job.Slots()
		for _, slot := range slots {
			filament, err := c.filamentRepo.GetByID(ctx, tx, slot.FilamentID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return log.ErrorWithType(
						ErrNotFound,
						"filament not found",
						"slot", slot.Slot,
						"filamentID", slot.FilamentID,
					)
				}
				return err
			}
			if filament.QuantityRemaining < slot.Used {
				return log.ErrorWithType(
					ErrInsufficientQuantity,
					"not enough filament remaining",
					"slot", slot.Slot,
					"filamentID", slot.FilamentID,
					"remaining", filament.QuantityRemaining,
					"requested", slot.Used,
				)
			}
		}

		for _, slot := range slots {
			if err := c.filamentRepo.AdjustQuantity(ctx, tx, slot.FilamentID, -slot.Used); err != nil {
				return err
			}
		}

		if err := c.jobRepo.Create(ctx, tx, job); err != nil {
			return err
		}

		return c.printerRepo.AccumulateComponentUsage(ctx, tx, request.PrinterID, request.Duration)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Print job created", "id", job.ID, "project", job.ProjectName, "slots", len(job.Slots()))
	return job, nil
}

func validateSecondarySlots(job *PrintJob) error {
	pairs := []struct {
		id   *uuid.UUID
		used *float64
	}{
		{job.FilamentID2, job.FilamentUsed2},
		{job.FilamentID3, job.FilamentUsed3},
		{job.FilamentID4, job.FilamentUsed4},
	}
	for _, pair := range pairs {
		if (pair.id == nil) != (pair.used == nil) {
			return errors.New("secondary filament slots require both filament id and quantity")
		}
		if pair.used != nil && *pair.used < 0 {
			return errors.New("filament quantity cannot be negative")
		}
	}
	return nil
}

// UpdateJob applies field edits and drives the failure state machine:
//
//   - Active to Failed is the only transition that touches inventory and
//     duration: each slot is credited used*(100-p)/100 and the stored
//     duration shrinks to duration*p/100. The stored per-slot used amounts
//     are left as recorded.
//   - Failed to Active clears the flags only. The forward credit and the
//     duration shrink are not reversed.
//   - Failed to Failed overwrites the percentage without further restoration.
func (c *JobController) UpdateJob(
	ctx context.Context,
	id uuid.UUID,
	request *UpdateJobRequest,
) (*UpdateJobResponse, error) {
	log := logger.NewWithContext(ctx, "jobController").Function("UpdateJob")

	response := &UpdateJobResponse{}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		existing, err := c.jobRepo.GetByID(ctx, tx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return log.ErrorWithType(ErrNotFound, "print job not found", "id", id)
			}
			return err
		}

		updates := make(map[string]any)

		if request.ProjectName != nil {
			if *request.ProjectName == "" {
				return log.ErrorWithType(ErrValidation, "projectName cannot be empty")
			}
			updates["project_name"] = *request.ProjectName
		}
		if request.Date != nil {
			date, err := parseDate(*request.Date)
			if err != nil {
				return log.ErrorWithType(ErrValidation, "invalid date", "error", err)
			}
			updates["date"] = date
		}
		if request.PrinterID != nil {
			if _, err := c.printerRepo.GetByID(ctx, tx, *request.PrinterID); err != nil {
				if err == gorm.ErrRecordNotFound {
					return log.ErrorWithType(ErrNotFound, "printer not found", "id", *request.PrinterID)
				}
				return err
			}
			updates["printer_id"] = *request.PrinterID
		}
		if request.Duration != nil {
			if *request.Duration < 0 {
				return log.ErrorWithType(ErrValidation, "duration cannot be negative")
			}
			updates["duration"] = *request.Duration
		}
		if request.Notes != nil {
			updates["notes"] = *request.Notes
		}

		if request.IsFailed != nil {
			switch {
			case *request.IsFailed && !existing.IsFailed:
				adjustment, err := c.applyFailure(ctx, tx, existing, request.FailurePercentage, updates)
				if err != nil {
					return err
				}
				response.Adjustment = adjustment

			case !*request.IsFailed && existing.IsFailed:
				// Inventory credited and duration shrunk on the forward
				// transition stay as they are.
				updates["is_failed"] = false
				updates["failure_percentage"] = nil

			case *request.IsFailed && existing.IsFailed:
				if request.FailurePercentage != nil {
					if err := validatePercentage(*request.FailurePercentage); err != nil {
						return log.ErrorWithType(ErrValidation, err.Error())
					}
					updates["failure_percentage"] = *request.FailurePercentage
				}
			}
		} else if request.FailurePercentage != nil {
			// A bare percentage on a failed job is the Failed to Failed
			// overwrite without re-sending the flag.
			if !existing.IsFailed {
				return log.ErrorWithType(ErrValidation, "failurePercentage requires a failed job")
			}
			if err := validatePercentage(*request.FailurePercentage); err != nil {
				return log.ErrorWithType(ErrValidation, err.Error())
			}
			updates["failure_percentage"] = *request.FailurePercentage
		}

		if len(updates) == 0 {
			return log.ErrorWithType(ErrValidation, "no fields to update")
		}

		job, err := c.jobRepo.Update(ctx, tx, id, updates)
		if err != nil {
			return err
		}

		response.Job = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Print job updated", "id", id, "failureAdjusted", response.Adjustment != nil)
	return response, nil
}

func validatePercentage(p float64) error {
	if p < 1 || p > 99 {
		return errors.New("failure percentage must be between 1 and 99")
	}
	return nil
}

// applyFailure handles the Active to Failed transition: it credits the
// unused share of every slot back to its spool and rewrites the duration.
// The pre-failure duration is not retained on the entity; it is returned to
// the caller once, as TimeSaved.
func (c *JobController) applyFailure(
	ctx context.Context,
	tx *gorm.DB,
	job *PrintJob,
	percentage *float64,
	updates map[string]any,
) (*FailureAdjustment, error) {
	log := logger.NewWithContext(ctx, "jobController").Function("applyFailure")

	if percentage == nil {
		return nil, log.ErrorWithType(ErrValidation, "failurePercentage is required when marking a job failed")
	}
	if err := validatePercentage(*percentage); err != nil {
		return nil, log.ErrorWithType(ErrValidation, err.Error())
	}

	restoreFactor := (100 - *percentage) / 100

	adjustment := &FailureAdjustment{FailurePercentage: *percentage}
	for _, slot := range job.Slots() {
		amount := slot.Used * restoreFactor

		filament, err := c.filamentRepo.GetByID(ctx, tx, slot.FilamentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, log.ErrorWithType(
					ErrNotFound,
					"filament not found for restoration",
					"slot", slot.Slot,
					"filamentID", slot.FilamentID,
				)
			}
			return nil, err
		}

		if err := c.filamentRepo.AdjustQuantity(ctx, tx, slot.FilamentID, amount); err != nil {
			return nil, err
		}

		adjustment.Restored = append(adjustment.Restored, RestoredFilament{
			Slot:           slot.Slot,
			FilamentID:     slot.FilamentID,
			Identity:       filament.Identity(),
			AmountRestored: amount,
		})
	}

	originalDuration := job.Duration
	adjustment.NewDuration = originalDuration * (*percentage / 100)
	adjustment.TimeSaved = originalDuration - adjustment.NewDuration

	// The failure-computed duration wins over any duration edit carried in
	// the same update call.
	updates["duration"] = adjustment.NewDuration
	updates["is_failed"] = true
	updates["failure_percentage"] = *percentage

	log.Info(
		"Failure adjustment applied",
		"jobID", job.ID,
		"percentage", *percentage,
		"slotsRestored", len(adjustment.Restored),
		"timeSaved", adjustment.TimeSaved,
	)

	return adjustment, nil
}

// DeleteJob removes a job and credits the full stored used amount of every
// slot back to its spool, regardless of failure state. For a job that was
// marked failed this re-credits material the failure transition already
// restored in part, because the stored used amounts are never rewritten.
func (c *JobController) DeleteJob(ctx context.Context, id uuid.UUID) (*DeleteJobResponse, error) {
	log := logger.NewWithContext(ctx, "jobController").Function("DeleteJob")

	response := &DeleteJobResponse{}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		job, err := c.jobRepo.GetByID(ctx, tx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return log.ErrorWithType(ErrNotFound, "print job not found", "id", id)
			}
			return err
		}

		for _, slot := range job.Slots() {
			filament, err := c.filamentRepo.GetByID(ctx, tx, slot.FilamentID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					// Slot references a spool deleted out from under the job;
					// nothing to credit
					continue
				}
				return err
			}

			if err := c.filamentRepo.AdjustQuantity(ctx, tx, slot.FilamentID, slot.Used); err != nil {
				return err
			}

			response.Restored = append(response.Restored, RestoredFilament{
				Slot:           slot.Slot,
				FilamentID:     slot.FilamentID,
				Identity:       filament.Identity(),
				AmountRestored: slot.Used,
			})
		}

		return c.jobRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Print job deleted", "id", id, "slotsRestored", len(response.Restored))
	return response, nil
}
