package repository

import (
	"context"
	"errors"

	"agility/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create persists the project and then the creator's lead membership. The two
// writes are deliberately sequential, not transactional: the store is treated
// as a plain document collection and the membership row is written only after
// the project row exists.
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project, creatorID string) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return err
	}
	membership := model.Membership{
		ID:        uuid.New(),
		ProjectID: project.ID,
		UserID:    creatorID,
		Role:      model.RoleProjectLead,
	}
	return r.db.WithContext(ctx).Create(&membership).Error
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetByIDs returns the projects matching the given ids, in store order.
func (r *ProjectRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	if len(ids) == 0 {
		return projects, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&projects).Error
	return projects, err
}

// Update replaces both mutable fields; there are no partial-field semantics.
func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	result := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// Delete removes the project's memberships first and the project itself
// second. The order matters: a crash between the two steps leaves a project
// with no team, which reads as empty, whereas the reverse order could leave
// membership rows granting access to a project that no longer exists.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("project_id = ?", id).Delete(&model.Membership{}).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&model.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
