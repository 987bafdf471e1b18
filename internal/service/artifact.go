package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	api "github.com/odeislands/recap-planner/api/v1alpha1"
	"github.com/odeislands/recap-planner/internal/auth"
	"github.com/odeislands/recap-planner/internal/storage"
	"github.com/odeislands/recap-planner/internal/store/model"
)

// ArtifactService serves typed artifacts for jobs confirmed completed.
// Everything it returns is a deterministic function of the job record, so
// responses are idempotent and cacheable forever.
type ArtifactService struct {
	jobs *JobService
}

func NewArtifactService(jobs *JobService) *ArtifactService {
	return &ArtifactService{jobs: jobs}
}

// GetCaptions renders the WebVTT caption track for a completed job.
// ErrJobNotFound propagates unchanged from the ownership check; any
// non-completed status, expired included, yields ErrJobNotReady.
func (s *ArtifactService) GetCaptions(ctx context.Context, id uuid.UUID, user auth.User) ([]byte, error) {
	job, err := s.jobs.GetJob(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusCompleted {
		return nil, NewErrJobNotReady(id, job.Status)
	}

	var customization api.Customization
	if err := json.Unmarshal(job.Customization, &customization); err != nil {
		return nil, fmt.Errorf("decoding customization for job %s: %w", id, err)
	}

	return RenderCaptions(job.ID, customization), nil
}

// GetManifestRef returns the locator of a completed job's HLS master
// playlist and poster frame.
func (s *ArtifactService) GetManifestRef(ctx context.Context, id uuid.UUID, user auth.User) (api.ManifestRef, error) {
	job, err := s.jobs.GetJob(ctx, id, user)
	if err != nil {
		return api.ManifestRef{}, err
	}
	if job.Status != model.JobStatusCompleted {
		return api.ManifestRef{}, NewErrJobNotReady(id, job.Status)
	}

	return api.ManifestRef{
		VideoId:   job.VideoID,
		ObjectKey: storage.ManifestKey(job.VideoID),
		PosterKey: storage.PosterKey(job.VideoID),
	}, nil
}
