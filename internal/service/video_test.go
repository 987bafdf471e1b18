package service_test

import (
	"context"
	"errors"

	api "github.com/odeislands/recap-planner/api/v1alpha1"
	"github.com/odeislands/recap-planner/internal/service"
	"github.com/odeislands/recap-planner/internal/storage"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubProber struct {
	result storage.ProbeResult
	err    error
}

func (p *stubProber) Probe(ctx context.Context, videoID string) (storage.ProbeResult, error) {
	return p.result, p.err
}

var _ = Describe("video service", func() {
	const videoID = "video-1"

	It("maps a completed probe to the completed status", func() {
		svc := service.NewVideoService(&stubProber{result: storage.ProbeCompleted}, false)
		status, err := svc.Status(context.TODO(), videoID)
		Expect(err).To(BeNil())
		Expect(status.Status).To(Equal(api.VideoStatusCompleted))
		Expect(status.VideoId).To(Equal(videoID))
	})

	It("maps a processing probe to the processing status", func() {
		svc := service.NewVideoService(&stubProber{result: storage.ProbeProcessing}, false)
		status, err := svc.Status(context.TODO(), videoID)
		Expect(err).To(BeNil())
		Expect(status.Status).To(Equal(api.VideoStatusProcessing))
	})

	It("surfaces probe failures as errors by default", func() {
		cause := storage.NewConnectivityError(errors.New("connection refused"))
		svc := service.NewVideoService(&stubProber{result: storage.ProbeErrored, err: cause}, false)
		status, err := svc.Status(context.TODO(), videoID)
		Expect(err).ToNot(BeNil())
		Expect(status.Status).To(Equal(api.VideoStatusError))
	})

	It("answers ready on connectivity failures when the optimistic fallback is on", func() {
		cause := storage.NewConnectivityError(errors.New("connection refused"))
		svc := service.NewVideoService(&stubProber{result: storage.ProbeErrored, err: cause}, true)
		status, err := svc.Status(context.TODO(), videoID)
		Expect(err).To(BeNil())
		Expect(status.Status).To(Equal(api.VideoStatusReady))
	})

	It("never answers ready for non-connectivity failures", func() {
		svc := service.NewVideoService(&stubProber{result: storage.ProbeErrored, err: context.DeadlineExceeded}, true)
		status, err := svc.Status(context.TODO(), videoID)
		Expect(err).ToNot(BeNil())
		Expect(status.Status).To(Equal(api.VideoStatusError))
	})
})
