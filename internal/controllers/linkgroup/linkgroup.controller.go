package linkGroupController

import (
	"context"
	"errors"

	"filatrack/internal/database"
	"filatrack/internal/repositories"
	"filatrack/internal/services"
	"filatrack/pkg/logger"

	. "filatrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrDuplicateLink = errors.New("identity already linked to another group")
)

type LinkGroupController struct {
	linkGroupRepo      repositories.LinkGroupRepository
	transactionService *services.TransactionService
	db                 database.DB
}

type CreateLinkGroupRequest struct {
	Name          string   `json:"name"`
	Description   *string  `json:"description,omitempty"`
	IdealQuantity *float64 `json:"idealQuantity,omitempty"`
}

type UpdateLinkGroupRequest struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	IdealQuantity *float64 `json:"idealQuantity,omitempty"`
}

type IdentityRequest struct {
	Type  string `json:"type"`
	Color string `json:"color"`
	Brand string `json:"brand"`
}

type LinkGroupControllerInterface interface {
	GetLinkGroups(ctx context.Context) ([]*LinkGroup, error)
	GetLinkGroup(ctx context.Context, id uuid.UUID) (*LinkGroup, error)
	CreateLinkGroup(ctx context.Context, request *CreateLinkGroupRequest) (*LinkGroup, error)
	UpdateLinkGroup(ctx context.Context, id uuid.UUID, request *UpdateLinkGroupRequest) (*LinkGroup, error)
	DeleteLinkGroup(ctx context.Context, id uuid.UUID) error
	AddIdentity(ctx context.Context, groupID uuid.UUID, request *IdentityRequest) (*LinkedIdentity, error)
	RemoveIdentity(ctx context.Context, groupID uuid.UUID, request *IdentityRequest) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) LinkGroupControllerInterface {
	return &LinkGroupController{
		linkGroupRepo:      repos.LinkGroup,
		transactionService: services.Transaction,
		db:                 db,
	}
}

func (c *LinkGroupController) GetLinkGroups(ctx context.Context) ([]*LinkGroup, error) {
	return c.linkGroupRepo.GetAll(ctx, c.db.SQL)
}

func (c *LinkGroupController) GetLinkGroup(ctx context.Context, id uuid.UUID) (*LinkGroup, error) {
	log := logger.NewWithContext(ctx, "linkGroupController").Function("GetLinkGroup")

	group, err := c.linkGroupRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "link group not found", "id", id)
		}
		return nil, err
	}

	return group, nil
}

func (c *LinkGroupController) CreateLinkGroup(
	ctx context.Context,
	request *CreateLinkGroupRequest,
) (*LinkGroup, error) {
	log := logger.NewWithContext(ctx, "linkGroupController").Function("CreateLinkGroup")

	if request.Name == "" {
		return nil, log.ErrorWithType(ErrValidation, "name is required")
	}

	group := &LinkGroup{
		Name:        request.Name,
		Description: request.Description,
	}
	if request.IdealQuantity != nil {
		if *request.IdealQuantity < 0 {
			return nil, log.ErrorWithType(ErrValidation, "idealQuantity cannot be negative")
		}
		group.IdealQuantity = *request.IdealQuantity
	}

	if err := c.linkGroupRepo.Create(ctx, c.db.SQL, group); err != nil {
		return nil, err
	}

	log.Info("Link group created", "id", group.ID, "name", group.Name)
	return group, nil
}

func (c *LinkGroupController) UpdateLinkGroup(
	ctx context.Context,
	id uuid.UUID,
	request *UpdateLinkGroupRequest,
) (*LinkGroup, error) {
	log := logger.NewWithContext(ctx, "linkGroupController").Function("UpdateLinkGroup")

	updates := make(map[string]any)
	if request.Name != nil {
		if *request.Name == "" {
			return nil, log.ErrorWithType(ErrValidation, "name cannot be empty")
		}
		updates["name"] = *request.Name
	}
	if request.Description != nil {
		updates["description"] = *request.Description
	}
	if request.IdealQuantity != nil {
		if *request.IdealQuantity < 0 {
			return nil, log.ErrorWithType(ErrValidation, "idealQuantity cannot be negative")
		}
		updates["ideal_quantity"] = *request.IdealQuantity
	}
	if len(updates) == 0 {
		return nil, log.ErrorWithType(ErrValidation, "no fields to update")
	}

	group, err := c.linkGroupRepo.Update(ctx, c.db.SQL, id, updates)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "link group not found", "id", id)
		}
		return nil, err
	}

	return group, nil
}

func (c *LinkGroupController) DeleteLinkGroup(ctx context.Context, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "linkGroupController").Function("DeleteLinkGroup")

	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.linkGroupRepo.GetByID(ctx, tx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return log.ErrorWithType(ErrNotFound, "link group not found", "id", id)
			}
			return err
		}

		if err := c.linkGroupRepo.Delete(ctx, tx, id); err != nil {
			return err
		}

		log.Info("Link group deleted", "id", id)
		return nil
	})
}

func identityFromRequest(request *IdentityRequest) (FilamentIdentity, error) {
	identity := FilamentIdentity{
		Type:  request.Type,
		Color: request.Color,
		Brand: request.Brand,
	}
	if !identity.IsComplete() {
		return FilamentIdentity{}, errors.New("type, color, and brand are all required")
	}
	return identity, nil
}

// AddIdentity links an identity to the group. An identity can belong to at
// most one group globally. Re-adding an identity to its current group is a
// no-op returning the existing link.
func (c *LinkGroupController) AddIdentity(
	ctx context.Context,
	groupID uuid.UUID,
	request *IdentityRequest,
) (*LinkedIdentity, error) {
	log := logger.NewWithContext(ctx, "linkGroupController").Function("AddIdentity")

	identity, err := identityFromRequest(request)
	if err != nil {
		return nil, log.ErrorWithType(ErrValidation, err.Error())
	}

	var link *LinkedIdentity
	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.linkGroupRepo.GetByID(ctx, tx, groupID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return log.ErrorWithType(ErrNotFound, "link group not found", "id", groupID)
			}
			return err
		}

		link, err = c.linkGroupRepo.AddIdentity(ctx, tx, groupID, identity)
		if err != nil {
			if errors.Is(err, repositories.ErrIdentityLinkedElsewhere) {
				return log.ErrorWithType(
					ErrDuplicateLink,
					"identity belongs to another group",
					"type", identity.Type,
					"color", identity.Color,
					"brand", identity.Brand,
				)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Identity linked", "groupID", groupID, "type", identity.Type, "color", identity.Color, "brand", identity.Brand)
	return link, nil
}

func (c *LinkGroupController) RemoveIdentity(
	ctx context.Context,
	groupID uuid.UUID,
	request *IdentityRequest,
) error {
	log := logger.NewWithContext(ctx, "linkGroupController").Function("RemoveIdentity")

	identity, err := identityFromRequest(request)
	if err != nil {
		return log.ErrorWithType(ErrValidation, err.Error())
	}

	err = c.linkGroupRepo.RemoveIdentity(ctx, c.db.SQL, groupID, identity)
	if err != nil {
		if errors.Is(err, repositories.ErrIdentityNotLinked) {
			return log.ErrorWithType(ErrNotFound, "identity not linked to this group")
		}
		return err
	}

	return nil
}
