package repositories

import (
	"context"
	"errors"

	"filatrack/pkg/logger"

	. "filatrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrIdentityLinkedElsewhere signals that an identity already belongs to a
// different link group.
var ErrIdentityLinkedElsewhere = errors.New("identity already linked to another group")

// ErrIdentityNotLinked signals a remove for an identity the group does not contain.
var ErrIdentityNotLinked = errors.New("identity not linked to this group")

type LinkGroupRepository interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*LinkGroup, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*LinkGroup, error)
	Create(ctx context.Context, tx *gorm.DB, group *LinkGroup) error
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) (*LinkGroup, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	AddIdentity(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, identity FilamentIdentity) (*LinkedIdentity, error)
	RemoveIdentity(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, identity FilamentIdentity) error
	FindLink(ctx context.Context, tx *gorm.DB, identity FilamentIdentity) (*LinkedIdentity, error)
}

type linkGroupRepository struct{}

func NewLinkGroupRepository() LinkGroupRepository {
	return &linkGroupRepository{}
}

func (r *linkGroupRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*LinkGroup, error) {
	log := logger.NewWithContext(ctx, "linkGroupRepository").Function("GetAll")

	var groups []*LinkGroup
	if err := tx.WithContext(ctx).
		Preload("Identities").
		Order("name ASC").
		Find(&groups).Error; err != nil {
		return nil, log.Err("failed to get link groups", err)
	}

	return groups, nil
}

func (r *linkGroupRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*LinkGroup, error) {
	log := logger.NewWithContext(ctx, "linkGroupRepository").Function("GetByID")

	var group LinkGroup
	if err := tx.WithContext(ctx).
		Preload("Identities").
		Where("id = ?", id).
		First(&group).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get link group", err, "id", id)
	}

	return &group, nil
}

func (r *linkGroupRepository) Create(ctx context.Context, tx *gorm.DB, group *LinkGroup) error {
	log := logger.NewWithContext(ctx, "linkGroupRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(group).Error; err != nil {
		return log.Err("failed to create link group", err, "name", group.Name)
	}

	log.Info("Link group created", "id", group.ID, "name", group.Name)
	return nil
}

func (r *linkGroupRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) (*LinkGroup, error) {
	log := logger.NewWithContext(ctx, "linkGroupRepository").Function("Update")

	result := tx.WithContext(ctx).Model(&LinkGroup{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, log.Err("failed to update link group", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, tx, id)
}

// Delete removes the group and its links. Spools and standalone ideal
// quantities for the member identities are untouched.
func (r *linkGroupRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "linkGroupRepository").Function("Delete")

	if err := tx.WithContext(ctx).
		Where("group_id = ?", id).
		Delete(&LinkedIdentity{}).Error; err != nil {
		return log.Err("failed to delete group links", err, "groupID", id)
	}

	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&LinkGroup{})
	if result.Error != nil {
		return log.Err("failed to delete link group", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	log.Info("Link group deleted", "id", id)
	return nil
}

// AddIdentity links an identity to the group. Linking is exclusive: an
// identity held by a different group fails with ErrIdentityLinkedElsewhere,
// while re-adding to the same group is an idempotent no-op.
func (r *linkGroupRepository) AddIdentity(
	ctx context.Context,
	tx *gorm.DB,
	groupID uuid.UUID,
	identity FilamentIdentity,
) (*LinkedIdentity, error) {
	log := logger.NewWithContext(ctx, "linkGroupRepository").Function("AddIdentity")

	existing, err := r.FindLink(ctx, tx, identity)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.GroupID == groupID {
			return existing, nil
		}
		return nil, ErrIdentityLinkedElsewhere
	}

	link := &LinkedIdentity{
		GroupID: groupID,
		Type:    identity.Type,
		Color:   identity.Color,
		Brand:   identity.Brand,
	}
	if err := tx.WithContext(ctx).Create(link).Error; err != nil {
		return nil, log.Err("failed to link identity", err, "groupID", groupID, "identity", identity)
	}

	log.Info("Identity linked to group", "groupID", groupID, "identity", identity)
	return link, nil
}

func (r *linkGroupRepository) RemoveIdentity(
	ctx context.Context,
	tx *gorm.DB,
	groupID uuid.UUID,
	identity FilamentIdentity,
) error {
	log := logger.NewWithContext(ctx, "linkGroupRepository").Function("RemoveIdentity")

	result := tx.WithContext(ctx).
		Where("group_id = ? AND type = ? AND color = ? AND brand = ?",
			groupID, identity.Type, identity.Color, identity.Brand).
		Delete(&LinkedIdentity{})
	if result.Error != nil {
		return log.Err("failed to unlink identity", result.Error, "groupID", groupID, "identity", identity)
	}
	if result.RowsAffected == 0 {
		return ErrIdentityNotLinked
	}

	log.Info("Identity unlinked from group", "groupID", groupID, "identity", identity)
	return nil
}

// FindLink returns the link holding an identity, or nil when unlinked.
func (r *linkGroupRepository) FindLink(
	ctx context.Context,
	tx *gorm.DB,
	identity FilamentIdentity,
) (*LinkedIdentity, error) {
	log := logger.NewWithContext(ctx, "linkGroupRepository").Function("FindLink")

	var link LinkedIdentity
	err := tx.WithContext(ctx).
		Where("type = ? AND color = ? AND brand = ?", identity.Type, identity.Color, identity.Brand).
		First(&link).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to look up identity link", err, "identity", identity)
	}

	return &link, nil
}
