package service_test

import (
	"bytes"
	"strings"

	"github.com/google/uuid"
	api "github.com/odeislands/recap-planner/api/v1alpha1"
	"github.com/odeislands/recap-planner/internal/service"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("caption rendering", func() {
	jobID := uuid.MustParse("0b6f9f95-4b53-4e4d-8f0a-6a2e3c1d9b42")

	It("is byte-identical across renders", func() {
		c := api.Customization{Version: 1, Chapters: 5, Theme: "voyage", PlayerName: "Kei"}
		first := service.RenderCaptions(jobID, c)
		second := service.RenderCaptions(jobID, c)
		Expect(bytes.Equal(first, second)).To(BeTrue())
	})

	It("starts with the WEBVTT header", func() {
		out := string(service.RenderCaptions(jobID, api.Customization{Chapters: 1}))
		Expect(out).To(HavePrefix("WEBVTT\n"))
	})

	It("greets the player by name in the intro cue", func() {
		out := string(service.RenderCaptions(jobID, api.Customization{Chapters: 2, PlayerName: "Nia"}))
		Expect(out).To(ContainSubstring("Nia, your recap begins."))
	})

	It("falls back to a neutral intro without a player name", func() {
		out := string(service.RenderCaptions(jobID, api.Customization{Chapters: 2}))
		Expect(out).To(ContainSubstring("Your recap begins."))
		Expect(out).ToNot(ContainSubstring(", your recap begins."))
	})

	It("emits one cue per chapter and a closing chapter count", func() {
		out := string(service.RenderCaptions(jobID, api.Customization{Chapters: 4}))
		Expect(out).To(ContainSubstring("Chapter 1 of 4"))
		Expect(out).To(ContainSubstring("Chapter 4 of 4"))
		Expect(out).To(ContainSubstring("Your journey spans 4 chapters."))
	})

	It("lays out contiguous cue timings", func() {
		out := string(service.RenderCaptions(jobID, api.Customization{Chapters: 2}))
		Expect(out).To(ContainSubstring("00:00:00.000 --> 00:00:04.000"))
		Expect(out).To(ContainSubstring("00:00:04.000 --> 00:00:10.000"))
		Expect(out).To(ContainSubstring("00:00:10.000 --> 00:00:16.000"))
		Expect(out).To(ContainSubstring("00:00:16.000 --> 00:00:21.000"))
	})

	It("weaves theme phrases into chapter cues", func() {
		out := string(service.RenderCaptions(jobID, api.Customization{Chapters: 3, Theme: "islands"}))
		Expect(out).To(ContainSubstring("The tide carries you onward."))
		Expect(strings.Count(out, "Chapter")).To(Equal(3))
	})
})
