package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	api "github.com/odeislands/recap-planner/api/v1alpha1"
	"go.uber.org/zap"
)

// (GET /api/v1/video-status/{videoId})
// Read-only readiness probe; touches object storage, never the job store.
func (s *ServiceHandler) VideoStatus(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoId")
	if videoID == "" {
		renderError(w, r, http.StatusBadRequest, "videoId required")
		return
	}

	status, err := s.videoSrv.Status(r.Context(), videoID)
	if err != nil {
		zap.S().Named("handlers").Errorw("video readiness probe failed", "video_id", videoID, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.VideoStatus{Status: api.VideoStatusError, VideoId: videoID})
		return
	}

	render.JSON(w, r, status)
}
