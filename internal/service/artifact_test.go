package service_test

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	api "github.com/odeislands/recap-planner/api/v1alpha1"
	"github.com/odeislands/recap-planner/internal/auth"
	"github.com/odeislands/recap-planner/internal/config"
	"github.com/odeislands/recap-planner/internal/service"
	st "github.com/odeislands/recap-planner/internal/store"
	"github.com/odeislands/recap-planner/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("artifact service", Ordered, func() {
	var (
		s      st.Store
		gormdb *gorm.DB
		jobs   *service.JobService
		svc    *service.ArtifactService
		owner  auth.User
	)

	customization := api.Customization{Version: 1, Chapters: 4, Theme: "islands"}

	BeforeAll(func() {
		db, err := st.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = st.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())

		jobs = service.NewJobService(s, 720*time.Hour, 90*time.Second)
		svc = service.NewArtifactService(jobs)
		owner = auth.User{Username: "admin", Organization: "org"}
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM jobs;")
	})

	AfterAll(func() {
		s.Close()
	})

	complete := func(id uuid.UUID) {
		target := model.JobStatusCompleted
		_, err := jobs.AdvanceJob(context.TODO(), id, service.AdvanceForm{Progress: 100, Status: &target})
		Expect(err).To(BeNil())
	}

	Context("captions", func() {
		It("serves the caption track once the job is completed", func() {
			job, err := jobs.CreateJob(context.TODO(), owner, customization)
			Expect(err).To(BeNil())
			complete(job.ID)

			captions, err := svc.GetCaptions(context.TODO(), job.ID, owner)
			Expect(err).To(BeNil())
			Expect(string(captions)).To(HavePrefix("WEBVTT"))
			Expect(string(captions)).To(ContainSubstring("4 chapters"))
		})

		It("renders the same bytes on every read", func() {
			job, err := jobs.CreateJob(context.TODO(), owner, customization)
			Expect(err).To(BeNil())
			complete(job.ID)

			first, err := svc.GetCaptions(context.TODO(), job.ID, owner)
			Expect(err).To(BeNil())
			second, err := svc.GetCaptions(context.TODO(), job.ID, owner)
			Expect(err).To(BeNil())
			Expect(bytes.Equal(first, second)).To(BeTrue())
		})

		It("answers not ready while the job is still in flight", func() {
			job, err := jobs.CreateJob(context.TODO(), owner, customization)
			Expect(err).To(BeNil())

			_, err = svc.GetCaptions(context.TODO(), job.ID, owner)
			var notReady *service.ErrJobNotReady
			Expect(errors.As(err, &notReady)).To(BeTrue())
		})

		It("answers not ready for a failed job", func() {
			job, err := jobs.CreateJob(context.TODO(), owner, customization)
			Expect(err).To(BeNil())

			target := model.JobStatusFailed
			_, err = jobs.AdvanceJob(context.TODO(), job.ID, service.AdvanceForm{Status: &target})
			Expect(err).To(BeNil())

			_, err = svc.GetCaptions(context.TODO(), job.ID, owner)
			var notReady *service.ErrJobNotReady
			Expect(errors.As(err, &notReady)).To(BeTrue())
		})

		It("hides another user's captions behind not found", func() {
			job, err := jobs.CreateJob(context.TODO(), owner, customization)
			Expect(err).To(BeNil())
			complete(job.ID)

			_, err = svc.GetCaptions(context.TODO(), job.ID, auth.User{Username: "mallory", Organization: "org"})
			var notFound *service.ErrJobNotFound
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})
	})

	Context("manifest", func() {
		It("locates the playlist and poster of a completed job", func() {
			job, err := jobs.CreateJob(context.TODO(), owner, customization)
			Expect(err).To(BeNil())
			complete(job.ID)

			ref, err := svc.GetManifestRef(context.TODO(), job.ID, owner)
			Expect(err).To(BeNil())
			Expect(ref.VideoId).To(Equal(job.VideoID))
			Expect(ref.ObjectKey).To(Equal("videos/" + job.VideoID + "/manifest/master.m3u8"))
			Expect(ref.PosterKey).To(Equal("videos/" + job.VideoID + "/thumbnails/poster.jpg"))
		})

		It("answers not ready while the job is still queued", func() {
			job, err := jobs.CreateJob(context.TODO(), owner, customization)
			Expect(err).To(BeNil())

			_, err = svc.GetManifestRef(context.TODO(), job.ID, owner)
			var notReady *service.ErrJobNotReady
			Expect(errors.As(err, &notReady)).To(BeTrue())
		})
	})
})
