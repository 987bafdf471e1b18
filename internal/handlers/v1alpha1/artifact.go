package v1alpha1

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/odeislands/recap-planner/internal/auth"
	"github.com/odeislands/recap-planner/internal/service"
	"go.uber.org/zap"
)

// A completed job's artifacts never change, so clients may cache them
// indefinitely, keyed by job id.
const immutableCacheControl = "public, max-age=31536000, immutable"

// (GET /api/v1/jobs/{id}/captions)
func (s *ServiceHandler) GetCaptions(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusNotFound, "job not found")
		return
	}

	user := auth.MustHaveUser(r.Context())
	captions, err := s.artifactSrv.GetCaptions(r.Context(), jobID, user)
	if err != nil {
		s.renderArtifactError(w, r, jobID, err)
		return
	}

	w.Header().Set("Content-Type", "text/vtt; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("captions-%s.vtt", jobID)))
	w.Header().Set("Cache-Control", immutableCacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(captions)
}

// (GET /api/v1/jobs/{id}/manifest)
func (s *ServiceHandler) GetManifest(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusNotFound, "job not found")
		return
	}

	user := auth.MustHaveUser(r.Context())
	ref, err := s.artifactSrv.GetManifestRef(r.Context(), jobID, user)
	if err != nil {
		s.renderArtifactError(w, r, jobID, err)
		return
	}

	w.Header().Set("Cache-Control", immutableCacheControl)
	render.JSON(w, r, ref)
}

func (s *ServiceHandler) renderArtifactError(w http.ResponseWriter, r *http.Request, jobID uuid.UUID, err error) {
	switch err.(type) {
	case *service.ErrJobNotFound:
		renderError(w, r, http.StatusNotFound, "job not found")
	case *service.ErrJobNotReady:
		renderError(w, r, http.StatusAccepted, "job not ready")
	default:
		zap.S().Named("handlers").Errorw("failed to serve artifact", "job_id", jobID, "error", err)
		renderError(w, r, http.StatusInternalServerError, "internal error")
	}
}
