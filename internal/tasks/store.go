// Package tasks holds the task list of the signed-in user. Every mutation
// writes the full list to the key-value store before the in-memory copy is
// replaced, so a failed write leaves the list unchanged.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskboard/internal/blob"
	"github.com/mesh-intelligence/taskboard/internal/derive"
	"github.com/mesh-intelligence/taskboard/internal/logging"
	"github.com/mesh-intelligence/taskboard/internal/notify"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Options configures a Store. Zero fields get working defaults.
type Options struct {
	Notifier notify.Notifier
	Metrics  *Metrics
	Now      func() time.Time
	NewID    func() string
}

// Store is the task list of one user at a time.
type Store struct {
	mu     sync.RWMutex
	kv     types.Store
	userID string
	tasks  []types.Task

	notifier notify.Notifier
	metrics  *Metrics
	now      func() time.Time
	newID    func() string
}

// New creates a Store over kv with no user loaded.
func New(kv types.Store, opts Options) *Store {
	s := &Store{
		kv:       kv,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if s.notifier == nil {
		s.notifier = notify.Discard
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = newTaskID
	}
	return s
}

func newTaskID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Load switches the store to userID and reads that user's tasks. A user with
// no stored list, or with a corrupt one, receives the sample tasks, which
// are persisted before Load returns. The previous user is unloaded first, so
// a failed Load leaves no user loaded.
func (s *Store) Load(ctx context.Context, userID string) (err error) {
	start, status := time.Now(), statusSuccess
	defer func() {
		if err != nil {
			status = statusError
		}
		s.metrics.observe(opLoad, start, status)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID, s.tasks = "", nil
	if userID == "" {
		return types.ErrNotAuthenticated
	}

	key := types.TaskKey(userID)
	var stored []types.Task
	found, err := blob.Load(ctx, s.kv, key, &stored)
	if err != nil && !errors.Is(err, types.ErrStorageCorrupt) {
		return err
	}
	if !found {
		stored = sampleTasks(userID, s.now(), s.newID)
		if err := blob.Save(ctx, s.kv, key, stored); err != nil {
			return fmt.Errorf("seeding tasks: %w", err)
		}
		logging.Info(ctx, "seeded sample tasks", zap.String("user_id", userID), zap.Int("count", len(stored)))
	}
	if stored == nil {
		stored = []types.Task{}
	}

	s.userID = userID
	s.tasks = stored
	return nil
}

// Reset forgets the loaded user and its tasks.
func (s *Store) Reset() {
	s.mu.Lock()
	s.userID = ""
	s.tasks = nil
	s.mu.Unlock()
}

// UserID returns the id of the loaded user, or "" when none is loaded.
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// AddTask appends a new task built from in and returns it.
func (s *Store) AddTask(ctx context.Context, in types.TaskInput) (task types.Task, err error) {
	start, status := time.Now(), statusSuccess
	defer func() {
		if err != nil {
			status = statusError
		}
		s.metrics.observe(opAdd, start, status)
	}()

	if err := in.Validate(); err != nil {
		return types.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" {
		return types.Task{}, types.ErrNotAuthenticated
	}

	task = types.Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Status:      in.Status,
		CreatedAt:   s.now(),
		UpdatedAt:   in.UpdatedAt,
		UserID:      s.userID,
	}

	next := make([]types.Task, 0, len(s.tasks)+1)
	next = append(next, s.tasks...)
	next = append(next, task)
	if err := s.commitLocked(ctx, next); err != nil {
		return types.Task{}, err
	}

	s.notifier.Notify(ctx, notify.Notification{
		Title:       "Task created",
		Description: "Your task has been created successfully",
	})
	return task, nil
}

// UpdateTask replaces the editable fields of the stored task with the same
// id and stamps UpdatedAt. ID, UserID and CreatedAt keep their stored values.
// An unknown id is a no-op.
func (s *Store) UpdateTask(ctx context.Context, task types.Task) (err error) {
	start, status := time.Now(), statusSuccess
	defer func() {
		if err != nil {
			status = statusError
		}
		s.metrics.observe(opUpdate, start, status)
	}()

	if task.ID == "" {
		return types.ErrInvalidID
	}
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" {
		return types.ErrNotAuthenticated
	}

	i := s.indexLocked(task.ID)
	if i < 0 {
		status = statusNoop
		return nil
	}

	updated := s.tasks[i]
	updated.Title = task.Title
	updated.Description = task.Description
	updated.DueDate = task.DueDate
	updated.Priority = task.Priority
	updated.Status = task.Status
	now := s.now()
	updated.UpdatedAt = &now

	next := append([]types.Task(nil), s.tasks...)
	next[i] = updated
	if err := s.commitLocked(ctx, next); err != nil {
		return err
	}

	s.notifier.Notify(ctx, notify.Notification{
		Title:       "Task updated",
		Description: "Your task has been updated successfully",
	})
	return nil
}

// DeleteTask removes the task with the given id. An unknown id is a no-op.
func (s *Store) DeleteTask(ctx context.Context, id string) (err error) {
	start, status := time.Now(), statusSuccess
	defer func() {
		if err != nil {
			status = statusError
		}
		s.metrics.observe(opDelete, start, status)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" {
		return types.ErrNotAuthenticated
	}

	i := s.indexLocked(id)
	if i < 0 {
		status = statusNoop
		return nil
	}

	next := make([]types.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	if err := s.commitLocked(ctx, next); err != nil {
		return err
	}

	s.notifier.Notify(ctx, notify.Notification{
		Title:       "Task deleted",
		Description: "Your task has been deleted",
	})
	return nil
}

// ToggleTaskStatus flips the task between pending and completed and stamps
// UpdatedAt. An unknown id is a no-op.
func (s *Store) ToggleTaskStatus(ctx context.Context, id string) (err error) {
	start, status := time.Now(), statusSuccess
	defer func() {
		if err != nil {
			status = statusError
		}
		s.metrics.observe(opToggle, start, status)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" {
		return types.ErrNotAuthenticated
	}

	i := s.indexLocked(id)
	if i < 0 {
		status = statusNoop
		return nil
	}

	next := append([]types.Task(nil), s.tasks...)
	now := s.now()
	next[i].Status = next[i].Status.Toggled()
	next[i].UpdatedAt = &now
	return s.commitLocked(ctx, next)
}

// Tasks returns a copy of the list in insertion order.
func (s *Store) Tasks() []types.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Task(nil), s.tasks...)
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (types.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i], true
	}
	return types.Task{}, false
}

// Filtered returns the tasks matching f, sorted by due date.
func (s *Store) Filtered(f types.TaskFilters) []types.Task {
	return derive.Apply(s.Tasks(), f)
}

// Stats returns the dashboard counters of the full list.
func (s *Store) Stats() types.DashboardStats {
	return derive.Stats(s.Tasks(), s.now())
}

// Breakdown returns the per-priority and per-status counts.
func (s *Store) Breakdown() types.Breakdown {
	return derive.BreakdownOf(s.Tasks())
}

// Upcoming returns up to limit pending tasks ordered by due date.
func (s *Store) Upcoming(limit int) []types.UpcomingTask {
	return derive.Upcoming(s.Tasks(), s.now(), limit)
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// commitLocked persists next and then makes it the current list.
// The caller must hold s.mu.
func (s *Store) commitLocked(ctx context.Context, next []types.Task) error {
	if err := blob.Save(ctx, s.kv, types.TaskKey(s.userID), next); err != nil {
		logging.Error(ctx, "persisting tasks failed", zap.String("user_id", s.userID), zap.Error(err))
		return err
	}
	s.tasks = next
	return nil
}
