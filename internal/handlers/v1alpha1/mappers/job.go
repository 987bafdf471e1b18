package mappers

import (
	"encoding/json"

	api "github.com/odeislands/recap-planner/api/v1alpha1"
	"github.com/odeislands/recap-planner/internal/store/model"
)

// JobToApi projects a job record into its owner-facing snapshot. The
// artifact map is surfaced only while the job is completed; expiry hides
// it again without erasing the record.
func JobToApi(job model.Job) api.Job {
	out := api.Job{
		Id:                      job.ID,
		Status:                  string(job.Status),
		Progress:                job.Progress,
		CreatedAt:               job.CreatedAt,
		CompletedAt:             job.CompletedAt,
		EstimatedCompletionTime: job.EstimatedCompletionAt,
		ExpiresAt:               job.ExpiresAt,
		Artifacts:               map[string]string{},
	}

	if len(job.Customization) > 0 {
		_ = json.Unmarshal(job.Customization, &out.Customization)
	}

	if job.Status == model.JobStatusCompleted && len(job.Artifacts) > 0 {
		_ = json.Unmarshal(job.Artifacts, &out.Artifacts)
	}

	return out
}
