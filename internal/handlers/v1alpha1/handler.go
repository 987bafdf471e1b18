package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	api "github.com/odeislands/recap-planner/api/v1alpha1"
	"github.com/odeislands/recap-planner/internal/service"
)

type ServiceHandler struct {
	jobSrv      *service.JobService
	artifactSrv *service.ArtifactService
	videoSrv    *service.VideoService
}

func NewServiceHandler(jobService *service.JobService, artifactService *service.ArtifactService, videoService *service.VideoService) *ServiceHandler {
	return &ServiceHandler{
		jobSrv:      jobService,
		artifactSrv: artifactService,
		videoSrv:    videoService,
	}
}

func (s *ServiceHandler) Routes(router chi.Router) {
	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/jobs", s.CreateJob)
		r.Get("/jobs/{id}/status", s.GetJobStatus)
		r.Post("/jobs/{id}/advance", s.AdvanceJob)
		r.Get("/jobs/{id}/captions", s.GetCaptions)
		r.Get("/jobs/{id}/manifest", s.GetManifest)
		r.Get("/video-status/{videoId}", s.VideoStatus)
	})
	router.Get("/health", s.Health)
}

func (s *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, api.Error{Message: message})
}
