package v1alpha1

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	api "github.com/odeislands/recap-planner/api/v1alpha1"
	"github.com/odeislands/recap-planner/internal/auth"
	"github.com/odeislands/recap-planner/internal/handlers/v1alpha1/mappers"
	"github.com/odeislands/recap-planner/internal/handlers/validator"
	"github.com/odeislands/recap-planner/internal/service"
	"github.com/odeislands/recap-planner/internal/store/model"
	"go.uber.org/zap"
)

// (POST /api/v1/jobs)
func (s *ServiceHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var form api.JobCreate
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid payload")
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)
	if err := v.Struct(form.Customization); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.MustHaveUser(r.Context())
	job, err := s.jobSrv.CreateJob(r.Context(), user, form.Customization)
	if err != nil {
		zap.S().Named("handlers").Errorw("failed to create job", "error", err)
		renderError(w, r, http.StatusInternalServerError, "failed to create job")
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, mappers.JobToApi(*job))
}

// (GET /api/v1/jobs/{id}/status)
func (s *ServiceHandler) GetJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusNotFound, "job not found")
		return
	}

	user := auth.MustHaveUser(r.Context())
	job, err := s.jobSrv.GetJob(r.Context(), jobID, user)
	if err != nil {
		switch err.(type) {
		case *service.ErrJobNotFound:
			renderError(w, r, http.StatusNotFound, "job not found")
		default:
			zap.S().Named("handlers").Errorw("failed to get job", "job_id", jobID, "error", err)
			renderError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	render.JSON(w, r, mappers.JobToApi(*job))
}

// (POST /api/v1/jobs/{id}/advance)
// Called by the encoding pipeline, not by end clients.
func (s *ServiceHandler) AdvanceJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusNotFound, "job not found")
		return
	}

	var form api.JobAdvance
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid payload")
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	advance := service.AdvanceForm{Progress: form.Progress}
	if form.Status != nil {
		status := model.JobStatus(*form.Status)
		advance.Status = &status
	}

	job, err := s.jobSrv.AdvanceJob(r.Context(), jobID, advance)
	if err != nil {
		switch err.(type) {
		case *service.ErrJobNotFound:
			renderError(w, r, http.StatusNotFound, "job not found")
		case *service.ErrInvalidTransition:
			renderError(w, r, http.StatusConflict, "job update rejected")
		default:
			zap.S().Named("handlers").Errorw("failed to advance job", "job_id", jobID, "error", err)
			renderError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	render.JSON(w, r, mappers.JobToApi(*job))
}
