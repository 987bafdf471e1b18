package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/odeislands/recap-planner/internal/store/model"
)

// ErrJobNotFound covers both a missing job and a job owned by somebody
// else. The two are intentionally indistinguishable so callers cannot
// enumerate other owners' jobs.
type ErrJobNotFound struct {
	error
}

func NewErrJobNotFound(id uuid.UUID) *ErrJobNotFound {
	return &ErrJobNotFound{fmt.Errorf("job %s not found", id)}
}

// ErrJobNotReady means the job exists and is owned by the caller but has
// not reached the completed status, so no artifact can be served.
type ErrJobNotReady struct {
	error
}

func NewErrJobNotReady(id uuid.UUID, status model.JobStatus) *ErrJobNotReady {
	return &ErrJobNotReady{fmt.Errorf("job %s artifacts not available in status %q", id, status)}
}

// ErrInvalidTransition rejects an out-of-order status update from the
// producing pipeline. It is a pipeline programming error, never shown to
// end clients in detail.
type ErrInvalidTransition struct {
	error
}

func NewErrInvalidTransition(id uuid.UUID, from model.JobStatus, to model.JobStatus) *ErrInvalidTransition {
	return &ErrInvalidTransition{fmt.Errorf("job %s cannot move from %q to %q", id, from, to)}
}

func NewErrProgressRegression(id uuid.UUID, current, requested int) *ErrInvalidTransition {
	return &ErrInvalidTransition{fmt.Errorf("job %s progress cannot regress from %d to %d", id, current, requested)}
}
