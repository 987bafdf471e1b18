package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusExpired    JobStatus = "expired"
)

// ActiveStatuses are the statuses from which the producing pipeline may
// still advance a job. Everything else is terminal.
var ActiveStatuses = []JobStatus{JobStatusQueued, JobStatusProcessing}

func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusExpired:
		return true
	default:
		return false
	}
}

// CanTransition reports whether moving from s to target respects the
// monotonic ordering queued -> processing -> {completed, failed}. The expiry
// override is applied through MarkExpired, not through this check.
func (s JobStatus) CanTransition(target JobStatus) bool {
	if s == target && !s.Terminal() {
		return true
	}
	switch s {
	case JobStatusQueued:
		return target == JobStatusProcessing || target == JobStatusCompleted || target == JobStatusFailed
	case JobStatusProcessing:
		return target == JobStatusCompleted || target == JobStatusFailed
	default:
		return false
	}
}

// Job is one tracked recap generation request. Mutated only through the
// conditional updates in the job store.
type Job struct {
	ID       uuid.UUID `gorm:"primaryKey"`
	Username string    `gorm:"index:jobs_org_username;not null"`
	OrgID    string    `gorm:"index:jobs_org_username;not null"`
	VideoID  string    `gorm:"not null"`

	Status   JobStatus `gorm:"not null"`
	Progress int       `gorm:"not null;default:0"`

	// Customization is the serialized closed-schema parameter bag supplied
	// at creation. Read-only afterwards.
	Customization []byte `gorm:"type:jsonb"`
	// Artifacts is empty unless Status is completed.
	Artifacts []byte `gorm:"type:jsonb"`

	CreatedAt             time.Time
	CompletedAt           *time.Time
	EstimatedCompletionAt time.Time
	ExpiresAt             time.Time `gorm:"index"`
}

type JobList []Job

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}
