package repository

import (
	"context"
	"errors"

	"agility/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SprintRepository struct {
	db *gorm.DB
}

func NewSprintRepository(db *gorm.DB) *SprintRepository {
	return &SprintRepository{db: db}
}

func (r *SprintRepository) Create(ctx context.Context, sprint *model.Sprint) error {
	return r.db.WithContext(ctx).Create(sprint).Error
}

func (r *SprintRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sprint, error) {
	var sprint model.Sprint
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sprint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSprintNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

// GetByProjectID retrieves all sprints in a project.
func (r *SprintRepository) GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.Sprint, error) {
	var sprints []model.Sprint
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Find(&sprints).Error
	return sprints, err
}

// Update replaces the sprint's header, description and due date.
func (r *SprintRepository) Update(ctx context.Context, sprint *model.Sprint) error {
	result := r.db.WithContext(ctx).Model(&model.Sprint{}).
		Where("id = ?", sprint.ID).
		Updates(map[string]interface{}{
			"header":      sprint.Header,
			"description": sprint.Description,
			"due":         sprint.Due,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSprintNotFound
	}
	return nil
}

// Delete removes the sprint only. Tasks under it are left in place and become
// unreachable through sprint listings; downstream consumers rely on that.
func (r *SprintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Sprint{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSprintNotFound
	}
	return nil
}
