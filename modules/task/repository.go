package task

import (
	"errors"

	"gorm.io/gorm"

	domain "github.com/vinayytyagi/lineup/domain/task"
)

// ErrTaskNotFound is returned when a task does not exist or belongs to
// someone else. The two cases are deliberately indistinguishable.
var ErrTaskNotFound = errors.New("task not found")

// Repository is the persistence surface the task service needs. Satisfied by
// TaskRepository in production and by fakes in tests.
type Repository interface {
	ListRange(ownerID, startISO, endISOExclusive string) ([]domain.Task, error)
	Create(t *domain.Task) error
	FindByID(ownerID, id string) (*domain.Task, error)
	Update(t *domain.Task) error
	Delete(ownerID, id string) error
	MaxOrder(ownerID, scheduledISO string) (int, error)
	BulkSetOrder(ownerID string, updates []ReorderUpdate) (int, error)
	CountByOwner(ownerID string) (int64, error)
}

// TaskRepository handles task persistence using GORM.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

// ListRange returns the owner's tasks scheduled in [startISO, endISOExclusive),
// sorted by date, then order, then newest created.
func (r *TaskRepository) ListRange(ownerID, startISO, endISOExclusive string) ([]domain.Task, error) {
	var tasks []domain.Task
	result := r.db.
		Where("owner_id = ? AND scheduled_date >= ? AND scheduled_date < ?", ownerID, startISO, endISOExclusive).
		Order("scheduled_date ASC, sort_order ASC, created_at DESC").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Create inserts a new task.
func (r *TaskRepository) Create(t *domain.Task) error {
	return r.db.Create(t).Error
}

// FindByID finds a task by id, scoped to its owner.
func (r *TaskRepository) FindByID(ownerID, id string) (*domain.Task, error) {
	var t domain.Task
	result := r.db.First(&t, "id = ? AND owner_id = ?", id, ownerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &t, nil
}

// Update persists all fields of an existing task.
func (r *TaskRepository) Update(t *domain.Task) error {
	return r.db.Save(t).Error
}

// Delete removes a task, scoped to its owner.
func (r *TaskRepository) Delete(ownerID, id string) error {
	result := r.db.Delete(&domain.Task{}, "id = ? AND owner_id = ?", id, ownerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// MaxOrder returns the highest order value on the given day, or zero when the
// day is empty so the first append lands at OrderGap.
func (r *TaskRepository) MaxOrder(ownerID, scheduledISO string) (int, error) {
	var max *int
	result := r.db.Model(&domain.Task{}).
		Where("owner_id = ? AND scheduled_date = ?", ownerID, scheduledISO).
		Select("MAX(sort_order)").
		Scan(&max)
	if result.Error != nil {
		return 0, result.Error
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// BulkSetOrder applies a batch of date/order assignments inside one
// transaction and reports how many rows actually changed.
func (r *TaskRepository) BulkSetOrder(ownerID string, updates []ReorderUpdate) (int, error) {
	modified := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			result := tx.Model(&domain.Task{}).
				Where("id = ? AND owner_id = ?", u.ID, ownerID).
				Updates(map[string]any{
					"scheduled_date": u.ScheduledDate,
					"sort_order":     u.Order,
				})
			if result.Error != nil {
				return result.Error
			}
			modified += int(result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return modified, nil
}

// CountByOwner returns how many tasks the owner has in total.
func (r *TaskRepository) CountByOwner(ownerID string) (int64, error) {
	var count int64
	result := r.db.Model(&domain.Task{}).Where("owner_id = ?", ownerID).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
