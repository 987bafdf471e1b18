package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	api "github.com/odeislands/recap-planner/api/v1alpha1"
)

const (
	introCueDuration   = 4 * time.Second
	chapterCueDuration = 6 * time.Second
	outroCueDuration   = 5 * time.Second
)

// RenderCaptions produces the WebVTT caption track for a recap. It is a
// pure function of (jobID, customization): same inputs, byte-identical
// output. No wall clock, no randomness.
func RenderCaptions(jobID uuid.UUID, c api.Customization) []byte {
	var b strings.Builder
	b.WriteString("WEBVTT\n")
	fmt.Fprintf(&b, "NOTE recap %s\n\n", jobID)

	cursor := time.Duration(0)

	intro := "Your recap begins."
	if c.PlayerName != "" {
		intro = fmt.Sprintf("%s, your recap begins.", c.PlayerName)
	}
	writeCue(&b, cursor, introCueDuration, intro)
	cursor += introCueDuration

	for i := 1; i <= c.Chapters; i++ {
		text := fmt.Sprintf("Chapter %d of %d", i, c.Chapters)
		if c.Theme != "" {
			text = fmt.Sprintf("%s\n%s", text, themeLine(c.Theme, i))
		}
		writeCue(&b, cursor, chapterCueDuration, text)
		cursor += chapterCueDuration
	}

	writeCue(&b, cursor, outroCueDuration,
		fmt.Sprintf("Your journey spans %d chapters.", c.Chapters))

	return []byte(b.String())
}

func writeCue(b *strings.Builder, start, duration time.Duration, text string) {
	fmt.Fprintf(b, "%s --> %s\n%s\n\n", vttTimestamp(start), vttTimestamp(start+duration), text)
}

func vttTimestamp(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	ms := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// themeLine picks a fixed phrase for the chapter based on the theme. The
// selection is positional, never random, to keep rendering deterministic.
func themeLine(theme string, chapter int) string {
	phrases, ok := themePhrases[theme]
	if !ok || len(phrases) == 0 {
		return theme
	}
	return phrases[(chapter-1)%len(phrases)]
}

var themePhrases = map[string][]string{
	"islands": {
		"The tide carries you onward.",
		"New shores come into view.",
		"The currents remember your path.",
	},
	"voyage": {
		"The map unfolds a little further.",
		"Old waypoints fade behind you.",
		"The horizon keeps its promise.",
	},
}
