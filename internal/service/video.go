package service

import (
	"context"

	api "github.com/odeislands/recap-planner/api/v1alpha1"
	"github.com/odeislands/recap-planner/internal/storage"
	"github.com/odeislands/recap-planner/pkg/metrics"
	"go.uber.org/zap"
)

type Prober interface {
	Probe(ctx context.Context, videoID string) (storage.ProbeResult, error)
}

// VideoService answers the read-only video readiness endpoint. It never
// touches the job store; the prober is its only dependency.
type VideoService struct {
	prober Prober
	// allowOptimisticReady maps connectivity-class probe failures to an
	// optimistic "ready" answer. Set only in environments where storage
	// credentials are declared absent.
	allowOptimisticReady bool
}

func NewVideoService(prober Prober, allowOptimisticReady bool) *VideoService {
	return &VideoService{
		prober:               prober,
		allowOptimisticReady: allowOptimisticReady,
	}
}

func (s *VideoService) Status(ctx context.Context, videoID string) (api.VideoStatus, error) {
	result, err := s.prober.Probe(ctx, videoID)
	metrics.IncreaseProbeResultMetric(string(result))

	switch result {
	case storage.ProbeCompleted:
		return api.VideoStatus{Status: api.VideoStatusCompleted, VideoId: videoID}, nil
	case storage.ProbeProcessing:
		return api.VideoStatus{Status: api.VideoStatusProcessing, VideoId: videoID}, nil
	default:
		if s.allowOptimisticReady && storage.IsConnectivity(err) {
			zap.S().Named("video_service").Infow("storage unreachable, reporting optimistic ready",
				"video_id", videoID, "error", err)
			return api.VideoStatus{Status: api.VideoStatusReady, VideoId: videoID}, nil
		}
		return api.VideoStatus{Status: api.VideoStatusError, VideoId: videoID}, err
	}
}
