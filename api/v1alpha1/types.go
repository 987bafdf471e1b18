package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus values exposed over the wire.
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
	JobStatusExpired    = "expired"
)

// Customization is the closed, versioned parameter bag supplied at job
// creation. Optional fields are explicit; there are no free-form entries.
type Customization struct {
	Version    int    `json:"version" validate:"gte=1"`
	Chapters   int    `json:"chapters" validate:"chapters"`
	Theme      string `json:"theme,omitempty" validate:"omitempty,recap_theme"`
	PlayerName string `json:"playerName,omitempty" validate:"omitempty,max=80"`
}

// JobCreate is the payload for POST /api/v1/jobs.
type JobCreate struct {
	Customization Customization `json:"customization"`
}

// JobAdvance is the pipeline-facing payload for POST /api/v1/jobs/{id}/advance.
// Status is optional; when omitted only progress moves.
type JobAdvance struct {
	Progress int     `json:"progress" validate:"gte=0,lte=100"`
	Status   *string `json:"status,omitempty" validate:"omitempty,advance_status"`
}

// Job is the read-only snapshot returned to the job's owner.
type Job struct {
	Id                      uuid.UUID         `json:"id"`
	Status                  string            `json:"status"`
	Progress                int               `json:"progress"`
	CreatedAt               time.Time         `json:"createdAt"`
	CompletedAt             *time.Time        `json:"completedAt,omitempty"`
	EstimatedCompletionTime time.Time         `json:"estimatedCompletionTime"`
	ExpiresAt               time.Time         `json:"expiresAt"`
	Customization           Customization     `json:"customization"`
	Artifacts               map[string]string `json:"artifacts"`
}

// ManifestRef points a completed job's owner at the HLS master playlist.
type ManifestRef struct {
	VideoId   string `json:"videoId"`
	ObjectKey string `json:"objectKey"`
	PosterKey string `json:"posterKey"`
}

// VideoStatus is the readiness report of the video-status endpoint.
type VideoStatus struct {
	Status  string `json:"status"`
	VideoId string `json:"videoId"`
}

const (
	VideoStatusProcessing = "processing"
	VideoStatusCompleted  = "completed"
	VideoStatusReady      = "ready"
	VideoStatusError      = "error"
)

// Error is the generic JSON error body.
type Error struct {
	Message string `json:"message"`
}
