package store_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/odeislands/recap-planner/internal/config"
	st "github.com/odeislands/recap-planner/internal/store"
	"github.com/odeislands/recap-planner/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func newJob(status model.JobStatus, expiresAt time.Time) model.Job {
	return model.Job{
		ID:                    uuid.New(),
		Username:              "admin",
		OrgID:                 "org",
		VideoID:               uuid.NewString(),
		Status:                status,
		Customization:         []byte(`{"version":1,"chapters":4}`),
		CreatedAt:             time.Now().UTC(),
		EstimatedCompletionAt: time.Now().UTC().Add(6 * time.Minute),
		ExpiresAt:             expiresAt,
	}
}

var _ = Describe("job store", Ordered, func() {
	var (
		s      st.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := st.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = st.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM jobs;")
	})

	AfterAll(func() {
		s.Close()
	})

	Context("create and get", func() {
		It("successfully creates a job", func() {
			job, err := s.Job().Create(context.TODO(), newJob(model.JobStatusQueued, time.Now().Add(time.Hour)))
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusQueued))
			Expect(job.Progress).To(Equal(0))

			got, err := s.Job().Get(context.TODO(), job.ID)
			Expect(err).To(BeNil())
			Expect(got.ID).To(Equal(job.ID))
			Expect(got.Artifacts).To(BeEmpty())
		})

		It("rejects a duplicate id", func() {
			job := newJob(model.JobStatusQueued, time.Now().Add(time.Hour))
			_, err := s.Job().Create(context.TODO(), job)
			Expect(err).To(BeNil())

			_, err = s.Job().Create(context.TODO(), job)
			Expect(err).To(MatchError(st.ErrDuplicateKey))
		})

		It("get of an unknown id yields ErrRecordNotFound", func() {
			_, err := s.Job().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})
	})

	Context("advance", func() {
		It("moves a queued job to processing", func() {
			job, err := s.Job().Create(context.TODO(), newJob(model.JobStatusQueued, time.Now().Add(time.Hour)))
			Expect(err).To(BeNil())

			advanced, err := s.Job().Advance(context.TODO(), job.ID, 10)
			Expect(err).To(BeNil())
			Expect(advanced.Status).To(Equal(model.JobStatusProcessing))
			Expect(advanced.Progress).To(Equal(10))
		})

		It("accepts an equal progress value", func() {
			job, err := s.Job().Create(context.TODO(), newJob(model.JobStatusQueued, time.Now().Add(time.Hour)))
			Expect(err).To(BeNil())

			_, err = s.Job().Advance(context.TODO(), job.ID, 40)
			Expect(err).To(BeNil())

			advanced, err := s.Job().Advance(context.TODO(), job.ID, 40)
			Expect(err).To(BeNil())
			Expect(advanced.Progress).To(Equal(40))
		})

		It("rejects a regressing progress value and leaves the row untouched", func() {
			job, err := s.Job().Create(context.TODO(), newJob(model.JobStatusQueued, time.Now().Add(time.Hour)))
			Expect(err).To(BeNil())

			_, err = s.Job().Advance(context.TODO(), job.ID, 40)
			Expect(err).To(BeNil())

			current, err := s.Job().Advance(context.TODO(), job.ID, 10)
			Expect(err).To(MatchError(st.ErrStaleTransition))
			Expect(current.Status).To(Equal(model.JobStatusProcessing))
			Expect(current.Progress).To(Equal(40))
		})

		It("rejects advancing a terminal job", func() {
			job, err := s.Job().Create(context.TODO(), newJob(model.JobStatusQueued, time.Now().Add(time.Hour)))
			Expect(err).To(BeNil())

			_, err = s.Job().Fail(context.TODO(), job.ID)
			Expect(err).To(BeNil())

			current, err := s.Job().Advance(context.TODO(), job.ID, 50)
			Expect(err).To(MatchError(st.ErrStaleTransition))
			Expect(current.Status).To(Equal(model.JobStatusFailed))
		})

		It("advancing an unknown id yields ErrRecordNotFound", func() {
			_, err := s.Job().Advance(context.TODO(), uuid.New(), 10)
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})
	})

	Context("complete", func() {
		It("records artifacts, progress and the completion timestamp", func() {
			job, err := s.Job().Create(context.TODO(), newJob(model.JobStatusProcessing, time.Now().Add(time.Hour)))
			Expect(err).To(BeNil())

			completedAt := time.Now().UTC().Truncate(time.Second)
			completed, err := s.Job().Complete(context.TODO(), job.ID, []byte(`{"captions":"/x"}`), completedAt)
			Expect(err).To(BeNil())
			Expect(completed.Status).To(Equal(model.JobStatusCompleted))
			Expect(completed.Progress).To(Equal(100))
			Expect(completed.Artifacts).To(Equal([]byte(`{"captions":"/x"}`)))
			Expect(completed.CompletedAt).ToNot(BeNil())
		})

		It("cannot complete a failed job", func() {
			job, err := s.Job().Create(context.TODO(), newJob(model.JobStatusQueued, time.Now().Add(time.Hour)))
			Expect(err).To(BeNil())

			_, err = s.Job().Fail(context.TODO(), job.ID)
			Expect(err).To(BeNil())

			current, err := s.Job().Complete(context.TODO(), job.ID, []byte(`{}`), time.Now())
			Expect(err).To(MatchError(st.ErrStaleTransition))
			Expect(current.Status).To(Equal(model.JobStatusFailed))
			Expect(current.Artifacts).To(BeEmpty())
		})
	})

	Context("expiry", func() {
		It("marks a due job expired", func() {
			job, err := s.Job().Create(context.TODO(), newJob(model.JobStatusProcessing, time.Now().Add(-time.Minute)))
			Expect(err).To(BeNil())

			expired, err := s.Job().MarkExpired(context.TODO(), job.ID, time.Now())
			Expect(err).To(BeNil())
			Expect(expired.Status).To(Equal(model.JobStatusExpired))
		})

		It("marking an already expired job is a no-op", func() {
			job, err := s.Job().Create(context.TODO(), newJob(model.JobStatusProcessing, time.Now().Add(-time.Minute)))
			Expect(err).To(BeNil())

			_, err = s.Job().MarkExpired(context.TODO(), job.ID, time.Now())
			Expect(err).To(BeNil())

			expired, err := s.Job().MarkExpired(context.TODO(), job.ID, time.Now())
			Expect(err).To(BeNil())
			Expect(expired.Status).To(Equal(model.JobStatusExpired))
		})

		It("overrides a terminal status once the deadline passes", func() {
			job, err := s.Job().Create(context.TODO(), newJob(model.JobStatusQueued, time.Now().Add(-time.Minute)))
			Expect(err).To(BeNil())

			_, err = s.Job().Fail(context.TODO(), job.ID)
			Expect(err).To(BeNil())

			expired, err := s.Job().MarkExpired(context.TODO(), job.ID, time.Now())
			Expect(err).To(BeNil())
			Expect(expired.Status).To(Equal(model.JobStatusExpired))
		})

		It("leaves a job alone before its deadline", func() {
			job, err := s.Job().Create(context.TODO(), newJob(model.JobStatusQueued, time.Now().Add(time.Hour)))
			Expect(err).To(BeNil())

			current, err := s.Job().MarkExpired(context.TODO(), job.ID, time.Now())
			Expect(err).To(BeNil())
			Expect(current.Status).To(Equal(model.JobStatusQueued))
		})

		It("sweeps every due job", func() {
			_, err := s.Job().Create(context.TODO(), newJob(model.JobStatusQueued, time.Now().Add(-time.Minute)))
			Expect(err).To(BeNil())
			_, err = s.Job().Create(context.TODO(), newJob(model.JobStatusProcessing, time.Now().Add(-time.Minute)))
			Expect(err).To(BeNil())
			fresh, err := s.Job().Create(context.TODO(), newJob(model.JobStatusQueued, time.Now().Add(time.Hour)))
			Expect(err).To(BeNil())

			swept, err := s.Job().ExpireDue(context.TODO(), time.Now())
			Expect(err).To(BeNil())
			Expect(swept).To(Equal(int64(2)))

			got, err := s.Job().Get(context.TODO(), fresh.ID)
			Expect(err).To(BeNil())
			Expect(got.Status).To(Equal(model.JobStatusQueued))
		})
	})

	Context("count by status", func() {
		It("groups jobs per status", func() {
			_, err := s.Job().Create(context.TODO(), newJob(model.JobStatusQueued, time.Now().Add(time.Hour)))
			Expect(err).To(BeNil())
			_, err = s.Job().Create(context.TODO(), newJob(model.JobStatusQueued, time.Now().Add(time.Hour)))
			Expect(err).To(BeNil())
			_, err = s.Job().Create(context.TODO(), newJob(model.JobStatusProcessing, time.Now().Add(time.Hour)))
			Expect(err).To(BeNil())

			counts, err := s.Job().CountByStatus(context.TODO())
			Expect(err).To(BeNil())
			Expect(counts[model.JobStatusQueued]).To(Equal(int64(2)))
			Expect(counts[model.JobStatusProcessing]).To(Equal(int64(1)))
		})
	})
})
