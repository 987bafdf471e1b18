package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	api "github.com/odeislands/recap-planner/api/v1alpha1"
	"github.com/odeislands/recap-planner/internal/auth"
	"github.com/odeislands/recap-planner/internal/storage"
	"github.com/odeislands/recap-planner/internal/store"
	"github.com/odeislands/recap-planner/internal/store/model"
	"github.com/odeislands/recap-planner/pkg/metrics"
	"go.uber.org/zap"
)

// JobService owns the job lifecycle: it is the only component that mutates
// a job's status, via the store's conditional updates.
type JobService struct {
	store      store.Store
	retention  time.Duration
	perChapter time.Duration
}

func NewJobService(store store.Store, retention, perChapter time.Duration) *JobService {
	return &JobService{
		store:      store,
		retention:  retention,
		perChapter: perChapter,
	}
}

func (s *JobService) CreateJob(ctx context.Context, user auth.User, customization api.Customization) (*model.Job, error) {
	custJSON, err := json.Marshal(customization)
	if err != nil {
		return nil, fmt.Errorf("encoding customization: %w", err)
	}

	now := time.Now().UTC()
	job := model.Job{
		ID:                    uuid.New(),
		Username:              user.Username,
		OrgID:                 user.Organization,
		VideoID:               uuid.NewString(),
		Status:                model.JobStatusQueued,
		Progress:              0,
		Customization:         custJSON,
		CreatedAt:             now,
		EstimatedCompletionAt: now.Add(time.Duration(customization.Chapters) * s.perChapter),
		ExpiresAt:             now.Add(s.retention),
	}

	created, err := s.store.Job().Create(ctx, job)
	if err != nil {
		return nil, err
	}

	metrics.IncreaseJobsCreatedMetric()
	return created, nil
}

// GetJob returns the job's current snapshot for its owner. A missing job
// and a job owned by another caller produce the same ErrJobNotFound. The
// expiry override is applied lazily before the snapshot is taken.
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID, user auth.User) (*model.Job, error) {
	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}

	if job.Username != user.Username || job.OrgID != user.Organization {
		return nil, NewErrJobNotFound(id)
	}

	if job.Status != model.JobStatusExpired && time.Now().After(job.ExpiresAt) {
		job, err = s.store.Job().MarkExpired(ctx, id, time.Now())
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrJobNotFound(id)
			}
			return nil, err
		}
	}

	return job, nil
}

// AdvanceForm carries a pipeline progress report. Status nil means a plain
// progress update.
type AdvanceForm struct {
	Progress int
	Status   *model.JobStatus
}

// AdvanceJob applies a pipeline status update. Transitions must follow
// queued -> processing -> {completed, failed}; anything else, including
// advancing an expired job or regressing progress, is rejected with
// ErrInvalidTransition and leaves the record unchanged.
func (s *JobService) AdvanceJob(ctx context.Context, id uuid.UUID, form AdvanceForm) (*model.Job, error) {
	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}

	target := model.JobStatusProcessing
	if form.Status != nil {
		target = *form.Status
	}

	now := time.Now()
	if job.Status == model.JobStatusExpired || now.After(job.ExpiresAt) {
		if _, err := s.store.Job().MarkExpired(ctx, id, now); err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}
		return nil, s.rejectTransition(id, model.JobStatusExpired, target)
	}

	if !job.Status.CanTransition(target) {
		return nil, s.rejectTransition(id, job.Status, target)
	}
	if form.Progress < job.Progress {
		zap.S().Named("job_service").Warnw("rejected progress regression",
			"job_id", id, "current", job.Progress, "requested", form.Progress)
		return nil, NewErrProgressRegression(id, job.Progress, form.Progress)
	}

	var updated *model.Job
	switch target {
	case model.JobStatusCompleted:
		artifacts, err := s.buildArtifacts(job)
		if err != nil {
			return nil, err
		}
		updated, err = s.store.Job().Complete(ctx, id, artifacts, now.UTC())
		if err != nil {
			return s.mapStoreErr(id, updated, target, err)
		}
	case model.JobStatusFailed:
		updated, err = s.store.Job().Fail(ctx, id)
		if err != nil {
			return s.mapStoreErr(id, updated, target, err)
		}
	default:
		updated, err = s.store.Job().Advance(ctx, id, form.Progress)
		if err != nil {
			return s.mapStoreErr(id, updated, target, err)
		}
	}

	return updated, nil
}

// buildArtifacts assembles the artifact locator map recorded on completion:
// the caption endpoint plus the manifest and poster object keys the
// encoding pipeline deposits for the job's video.
func (s *JobService) buildArtifacts(job *model.Job) ([]byte, error) {
	artifacts := map[string]string{
		"captions": fmt.Sprintf("/api/v1/jobs/%s/captions", job.ID),
		"video":    storage.ManifestKey(job.VideoID),
		"poster":   storage.PosterKey(job.VideoID),
	}
	data, err := json.Marshal(artifacts)
	if err != nil {
		return nil, fmt.Errorf("encoding artifacts: %w", err)
	}
	return data, nil
}

func (s *JobService) mapStoreErr(id uuid.UUID, current *model.Job, target model.JobStatus, err error) (*model.Job, error) {
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, NewErrJobNotFound(id)
	}
	if errors.Is(err, store.ErrStaleTransition) {
		from := model.JobStatusExpired
		if current != nil {
			from = current.Status
		}
		return nil, s.rejectTransition(id, from, target)
	}
	return nil, err
}

func (s *JobService) rejectTransition(id uuid.UUID, from, to model.JobStatus) error {
	zap.S().Named("job_service").Warnw("rejected job transition",
		"job_id", id, "from", from, "to", to)
	return NewErrInvalidTransition(id, from, to)
}
