package repository

import (
	"context"
	"errors"

	"agility/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetBySprintID retrieves all tasks in a sprint.
func (r *TaskRepository) GetBySprintID(ctx context.Context, sprintID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("sprint_id = ?", sprintID).Find(&tasks).Error
	return tasks, err
}

// Update replaces every mutable field, including the full notes and blocks
// sequences. Callers submit the complete desired content, never a diff.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"header":      task.Header,
			"description": task.Description,
			"due":         task.Due,
			"notes":       task.Notes,
			"blocks":      task.Blocks,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// UpdateNotes replaces the task's whole notes sequence.
func (r *TaskRepository) UpdateNotes(ctx context.Context, taskID uuid.UUID, notes []string) error {
	return r.replaceSequence(ctx, taskID, "notes", notes)
}

// UpdateBlocks replaces the task's whole blocks sequence.
func (r *TaskRepository) UpdateBlocks(ctx context.Context, taskID uuid.UUID, blocks []string) error {
	return r.replaceSequence(ctx, taskID, "blocks", blocks)
}

func (r *TaskRepository) replaceSequence(ctx context.Context, taskID uuid.UUID, column string, values []string) error {
	if values == nil {
		values = []string{}
	}
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", taskID).
		Update(column, values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
