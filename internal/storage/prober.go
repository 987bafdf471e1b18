package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// ProbeResult is the tri-state readiness signal derived from object
// presence in durable storage.
type ProbeResult string

const (
	ProbeProcessing ProbeResult = "processing"
	ProbeCompleted  ProbeResult = "completed"
	ProbeErrored    ProbeResult = "errored"
)

// The encoding pipeline deposits HLS output under a fixed layout:
// the master playlist under manifest/, one directory per quality variant
// holding segment_NNN.ts chunks, and a poster frame under thumbnails/.
func ManifestKey(videoID string) string {
	return fmt.Sprintf("videos/%s/manifest/master.m3u8", videoID)
}

func PosterKey(videoID string) string {
	return fmt.Sprintf("videos/%s/thumbnails/poster.jpg", videoID)
}

func VideoPrefix(videoID string) string {
	return fmt.Sprintf("videos/%s/", videoID)
}

func IsSegmentKey(key string) bool {
	base := path.Base(key)
	return strings.HasPrefix(base, "segment_") && strings.HasSuffix(base, ".ts")
}

// CompletionProber infers whether a video finished encoding by checking
// storage for its manifest and at least one media segment. It holds no
// state; probing repeatedly with no intervening writes returns the same
// result.
type CompletionProber struct {
	store   ObjectStore
	timeout time.Duration
}

func NewCompletionProber(store ObjectStore, timeout time.Duration) *CompletionProber {
	return &CompletionProber{store: store, timeout: timeout}
}

// Probe returns ProbeCompleted only when both the manifest object and at
// least one segment object exist. The manifest may be written before all
// segments land, so its presence alone never counts as completion.
func (p *CompletionProber) Probe(ctx context.Context, videoID string) (ProbeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	manifestExists, err := p.store.Exists(ctx, ManifestKey(videoID))
	if err != nil {
		return ProbeErrored, fmt.Errorf("probing manifest for video %s: %w", videoID, err)
	}
	if !manifestExists {
		return ProbeProcessing, nil
	}

	hasSegment, err := p.store.FirstMatching(ctx, VideoPrefix(videoID), IsSegmentKey)
	if err != nil {
		return ProbeErrored, fmt.Errorf("probing segments for video %s: %w", videoID, err)
	}
	if !hasSegment {
		return ProbeProcessing, nil
	}

	return ProbeCompleted, nil
}
