package storage_test

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/odeislands/recap-planner/internal/storage"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeObjectStore answers probes from a fixed key set.
type fakeObjectStore struct {
	keys []string
	err  error
}

func (f *fakeObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, k := range f.keys {
		if k == key {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeObjectStore) FirstMatching(ctx context.Context, prefix string, match func(key string) bool) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, k := range f.keys {
		if strings.HasPrefix(k, prefix) && match(k) {
			return true, nil
		}
	}
	return false, nil
}

var _ = Describe("completion prober", func() {
	const videoID = "7b5b7a2e-0000-0000-0000-000000000000"

	probe := func(store storage.ObjectStore) (storage.ProbeResult, error) {
		p := storage.NewCompletionProber(store, 5*time.Second)
		return p.Probe(context.TODO(), videoID)
	}

	It("reports processing when nothing has been written yet", func() {
		result, err := probe(&fakeObjectStore{})
		Expect(err).To(BeNil())
		Expect(result).To(Equal(storage.ProbeProcessing))
	})

	It("reports processing when only the manifest exists", func() {
		result, err := probe(&fakeObjectStore{keys: []string{
			storage.ManifestKey(videoID),
		}})
		Expect(err).To(BeNil())
		Expect(result).To(Equal(storage.ProbeProcessing))
	})

	It("reports processing when segments exist but the manifest does not", func() {
		result, err := probe(&fakeObjectStore{keys: []string{
			"videos/" + videoID + "/1080p/segment_000.ts",
		}})
		Expect(err).To(BeNil())
		Expect(result).To(Equal(storage.ProbeProcessing))
	})

	It("reports completed once the manifest and a segment both exist", func() {
		result, err := probe(&fakeObjectStore{keys: []string{
			storage.ManifestKey(videoID),
			"videos/" + videoID + "/720p/segment_042.ts",
		}})
		Expect(err).To(BeNil())
		Expect(result).To(Equal(storage.ProbeCompleted))
	})

	It("ignores non-segment objects under the video prefix", func() {
		result, err := probe(&fakeObjectStore{keys: []string{
			storage.ManifestKey(videoID),
			storage.PosterKey(videoID),
			"videos/" + videoID + "/720p/init.mp4",
		}})
		Expect(err).To(BeNil())
		Expect(result).To(Equal(storage.ProbeProcessing))
	})

	It("reports errored when the backend is unreachable", func() {
		cause := storage.NewConnectivityError(errors.New("connection refused"))
		result, err := probe(&fakeObjectStore{err: cause})
		Expect(result).To(Equal(storage.ProbeErrored))
		Expect(storage.IsConnectivity(err)).To(BeTrue())
	})

	It("keeps non-connectivity failures out of the connectivity class", func() {
		result, err := probe(&fakeObjectStore{err: context.DeadlineExceeded})
		Expect(result).To(Equal(storage.ProbeErrored))
		Expect(err).ToNot(BeNil())
		Expect(storage.IsConnectivity(err)).To(BeFalse())
	})
})

var _ = Describe("object layout", func() {
	It("recognizes segment keys in any variant directory", func() {
		Expect(storage.IsSegmentKey("videos/v/1080p/segment_000.ts")).To(BeTrue())
		Expect(storage.IsSegmentKey("videos/v/audio/segment_9.ts")).To(BeTrue())
		Expect(storage.IsSegmentKey("videos/v/manifest/master.m3u8")).To(BeFalse())
		Expect(storage.IsSegmentKey("videos/v/1080p/init.mp4")).To(BeFalse())
		Expect(storage.IsSegmentKey("videos/v/1080p/segment_000.ts.tmp")).To(BeFalse())
	})
})
