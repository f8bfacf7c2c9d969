package repository

import (
	"context"
	"errors"

	"agility/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// RoleOf returns the user's role on the project, or the empty role when the
// user has no membership. Absence is a normal outcome, not an error.
func (r *MembershipRepository) RoleOf(ctx context.Context, userID string, projectID uuid.UUID) (model.Role, error) {
	var membership model.Membership
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return membership.Role, nil
}

// AllRolesOf returns every membership the user holds, across all projects.
func (r *MembershipRepository) AllRolesOf(ctx context.Context, userID string) ([]model.Membership, error) {
	var memberships []model.Membership
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&memberships).Error
	return memberships, err
}

// Add creates a membership for the (project, user) pair. Uses a transaction
// to close the check-then-create race; an existing pair yields
// ErrMembershipExists rather than a silent upsert.
func (r *MembershipRepository) Add(ctx context.Context, projectID uuid.UUID, userID string, role model.Role) error {
	membership := model.Membership{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Membership
		err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).First(&existing).Error
		if err == nil {
			return ErrMembershipExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&membership).Error
	})
}

// SetRole changes the role on an existing membership.
func (r *MembershipRepository) SetRole(ctx context.Context, userID string, projectID uuid.UUID, role model.Role) error {
	result := r.db.WithContext(ctx).Model(&model.Membership{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

// Remove deletes a single user's membership on a project.
func (r *MembershipRepository) Remove(ctx context.Context, userID string, projectID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.Membership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

// RemoveAll deletes every membership on a project. Part of the project delete
// cascade.
func (r *MembershipRepository) RemoveAll(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.Membership{}).Error
}

// GetTeam returns the project's memberships with their user profiles loaded.
func (r *MembershipRepository) GetTeam(ctx context.Context, projectID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Find(&memberships).Error
	return memberships, err
}
