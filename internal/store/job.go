package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/odeislands/recap-planner/internal/store/model"
	"gorm.io/gorm"
)

// Job is the persistence contract for recap generation jobs. Every mutation
// is a single conditional UPDATE so concurrent writers against the same job
// id serialize on the row, while jobs with different ids never contend.
type Job interface {
	Create(ctx context.Context, job model.Job) (*model.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	// Advance moves a queued or processing job to processing and raises its
	// progress. A regressing progress value matches no row.
	Advance(ctx context.Context, id uuid.UUID, progress int) (*model.Job, error)
	// Complete records the terminal completed status together with the
	// artifact map and completion timestamp.
	Complete(ctx context.Context, id uuid.UUID, artifacts []byte, completedAt time.Time) (*model.Job, error)
	Fail(ctx context.Context, id uuid.UUID) (*model.Job, error)
	// MarkExpired applies the expiry override once now is past the job's
	// expiresAt. Applying it to an already-expired job is a no-op.
	MarkExpired(ctx context.Context, id uuid.UUID, now time.Time) (*model.Job, error)
	// ExpireDue sweeps the override across every due job.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[model.JobStatus]int64, error)
	InitialMigration() error
}

type JobStore struct {
	db *gorm.DB
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (s *JobStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Job{})
}

func (s *JobStore) Create(ctx context.Context, job model.Job) (*model.Job, error) {
	result := s.db.WithContext(ctx).Create(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("creating job: %w", result.Error)
	}
	return &job, nil
}

func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	result := s.db.WithContext(ctx).First(&job, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying job: %w", result.Error)
	}
	return &job, nil
}

func (s *JobStore) Advance(ctx context.Context, id uuid.UUID, progress int) (*model.Job, error) {
	result := s.db.WithContext(ctx).Model(&model.Job{}).
		Where("id = ? AND status IN ? AND progress <= ?", id, model.ActiveStatuses, progress).
		Updates(map[string]any{
			"status":   model.JobStatusProcessing,
			"progress": progress,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("advancing job: %w", result.Error)
	}
	return s.afterConditionalUpdate(ctx, id, result.RowsAffected)
}

func (s *JobStore) Complete(ctx context.Context, id uuid.UUID, artifacts []byte, completedAt time.Time) (*model.Job, error) {
	result := s.db.WithContext(ctx).Model(&model.Job{}).
		Where("id = ? AND status IN ?", id, model.ActiveStatuses).
		Updates(map[string]any{
			"status":       model.JobStatusCompleted,
			"progress":     100,
			"artifacts":    artifacts,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("completing job: %w", result.Error)
	}
	return s.afterConditionalUpdate(ctx, id, result.RowsAffected)
}

func (s *JobStore) Fail(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	result := s.db.WithContext(ctx).Model(&model.Job{}).
		Where("id = ? AND status IN ?", id, model.ActiveStatuses).
		Update("status", model.JobStatusFailed)
	if result.Error != nil {
		return nil, fmt.Errorf("failing job: %w", result.Error)
	}
	return s.afterConditionalUpdate(ctx, id, result.RowsAffected)
}

func (s *JobStore) MarkExpired(ctx context.Context, id uuid.UUID, now time.Time) (*model.Job, error) {
	result := s.db.WithContext(ctx).Model(&model.Job{}).
		Where("id = ? AND expires_at < ? AND status <> ?", id, now, model.JobStatusExpired).
		Update("status", model.JobStatusExpired)
	if result.Error != nil {
		return nil, fmt.Errorf("expiring job: %w", result.Error)
	}
	// No row matched either because the job is gone, already expired or not
	// yet due. Get settles which.
	return s.Get(ctx, id)
}

func (s *JobStore) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.Job{}).
		Where("expires_at < ? AND status <> ?", now, model.JobStatusExpired).
		Update("status", model.JobStatusExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("sweeping expired jobs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *JobStore) CountByStatus(ctx context.Context) (map[model.JobStatus]int64, error) {
	var rows []struct {
		Status model.JobStatus
		Total  int64
	}
	result := s.db.WithContext(ctx).Model(&model.Job{}).
		Select("status, count(*) as total").
		Group("status").
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("counting jobs: %w", result.Error)
	}

	counts := make(map[model.JobStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// afterConditionalUpdate resolves the outcome of a guarded UPDATE: a matched
// row yields the fresh record, no match yields ErrRecordNotFound for a
// missing job or ErrStaleTransition when the precondition no longer holds.
func (s *JobStore) afterConditionalUpdate(ctx context.Context, id uuid.UUID, rowsAffected int64) (*model.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return job, ErrStaleTransition
	}
	return job, nil
}
