package timeline

import (
	"context"

	domain "github.com/vinayytyagi/lineup/domain/task"
	taskmod "github.com/vinayytyagi/lineup/modules/task"
)

// Source is the storage behind a timeline session. Guest sessions have no
// Source at all; admin sessions have a read-only one.
type Source interface {
	ListRange(ctx context.Context, startISO, endISOExclusive string) ([]domain.Task, error)
	Create(ctx context.Context, req taskmod.CreateTaskRequest) (*domain.Task, error)
	Update(ctx context.Context, req taskmod.UpdateTaskRequest) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	BulkReorder(ctx context.Context, updates []taskmod.ReorderUpdate) (int, error)
}

// userSource scopes every task operation to the authenticated user.
type userSource struct {
	port    taskmod.TaskPort
	ownerID string
}

// NewUserSource creates a Source over the task module for one user.
func NewUserSource(port taskmod.TaskPort, ownerID string) Source {
	return &userSource{port: port, ownerID: ownerID}
}

func (s *userSource) ListRange(ctx context.Context, startISO, endISOExclusive string) ([]domain.Task, error) {
	return s.port.ListRange(ctx, s.ownerID, startISO, endISOExclusive)
}

func (s *userSource) Create(ctx context.Context, req taskmod.CreateTaskRequest) (*domain.Task, error) {
	req.OwnerID = s.ownerID
	return s.port.Create(ctx, req)
}

func (s *userSource) Update(ctx context.Context, req taskmod.UpdateTaskRequest) (*domain.Task, error) {
	req.OwnerID = s.ownerID
	return s.port.Update(ctx, req)
}

func (s *userSource) Delete(ctx context.Context, id string) error {
	return s.port.Delete(ctx, s.ownerID, id)
}

func (s *userSource) BulkReorder(ctx context.Context, updates []taskmod.ReorderUpdate) (int, error) {
	return s.port.BulkReorder(ctx, s.ownerID, updates)
}

// adminSource reads another user's timeline and rejects every mutation.
type adminSource struct {
	port         taskmod.TaskPort
	targetUserID string
}

// NewAdminSource creates a read-only Source over another user's tasks.
func NewAdminSource(port taskmod.TaskPort, targetUserID string) Source {
	return &adminSource{port: port, targetUserID: targetUserID}
}

func (s *adminSource) ListRange(ctx context.Context, startISO, endISOExclusive string) ([]domain.Task, error) {
	return s.port.ListRange(ctx, s.targetUserID, startISO, endISOExclusive)
}

func (s *adminSource) Create(context.Context, taskmod.CreateTaskRequest) (*domain.Task, error) {
	return nil, ErrReadOnly
}

func (s *adminSource) Update(context.Context, taskmod.UpdateTaskRequest) (*domain.Task, error) {
	return nil, ErrReadOnly
}

func (s *adminSource) Delete(context.Context, string) error {
	return ErrReadOnly
}

func (s *adminSource) BulkReorder(context.Context, []taskmod.ReorderUpdate) (int, error) {
	return 0, ErrReadOnly
}
