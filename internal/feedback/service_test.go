package feedback_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/academic-requests/internal"
	feedbackDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/feedback"
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
	"github.com/frahmantamala/academic-requests/internal/core/events"
	"github.com/frahmantamala/academic-requests/internal/feedback"
	feedbackPostgres "github.com/frahmantamala/academic-requests/internal/feedback/postgres"
	"github.com/frahmantamala/academic-requests/internal/policy"
	"github.com/frahmantamala/academic-requests/internal/testutil/testdb"
	userPostgres "github.com/frahmantamala/academic-requests/internal/user/postgres"
)

type capturePublisher struct {
	events []events.Event
}

func (c *capturePublisher) Publish(_ context.Context, e events.Event) error {
	c.events = append(c.events, e)
	return nil
}

func num(i int64) *int64 { return &i }

func validationFields(err error) []string {
	appErr, ok := internal.IsAppError(err)
	Expect(ok).To(BeTrue())
	details, ok := appErr.Details.(internal.ValidationErrors)
	Expect(ok).To(BeTrue())
	var fields []string
	for _, e := range details.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}

var _ = Describe("Feedback Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		service   *feedback.Service
		publisher *capturePublisher
		dana      *userDatamodel.User
		noName    *userDatamodel.User
	)

	actorOf := func(u *userDatamodel.User) policy.Actor {
		return policy.Actor{ID: u.ID, Role: policy.Role(u.Role)}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testdb.NewSQLite()
		Expect(err).NotTo(HaveOccurred())

		dana = &userDatamodel.User{Username: "dana@uni.ac.il", Email: "dana@uni.ac.il", FirstName: "Dana", LastName: "Levi", Role: "student", PasswordHash: "x"}
		noName = &userDatamodel.User{Username: "anon-user", Email: "n@uni.ac.il", Role: "student", PasswordHash: "x"}
		Expect(db.Create(dana).Error).To(Succeed())
		Expect(db.Create(noName).Error).To(Succeed())

		publisher = &capturePublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = feedback.NewService(
			feedbackPostgres.NewFeedbackRepository(db),
			userPostgres.NewRepository(db),
			policy.New(),
			publisher,
			logger,
		)
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	Describe("Submit", func() {
		It("stores feedback with display labels and publishes an event", func() {
			f, err := service.Submit(ctx, actorOf(dana), feedback.SubmitFeedbackDTO{
				UserID: num(dana.ID), Rating: num(5), Comment: "great", Category: "website",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(f.ID).NotTo(BeZero())
			Expect(f.RatingDisplay).To(Equal("5 - מעולה"))
			Expect(f.CategoryDisplay).To(Equal("האתר"))
			Expect(f.UserName).NotTo(BeNil())
			Expect(*f.UserName).To(Equal("Dana Levi"))

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeFeedbackSubmitted))
		})

		It("defaults the category to general", func() {
			f, err := service.Submit(ctx, actorOf(dana), feedback.SubmitFeedbackDTO{UserID: num(dana.ID), Rating: num(3), Comment: "ok"})
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Category).To(Equal("general"))
			Expect(f.CategoryDisplay).To(Equal("כללי"))
		})

		It("hides the name of anonymous feedback", func() {
			f, err := service.Submit(ctx, actorOf(dana), feedback.SubmitFeedbackDTO{UserID: num(dana.ID), Rating: num(2), Comment: "meh", IsAnonymous: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(f.UserName).To(BeNil())
		})

		It("falls back to the username when no name is set", func() {
			f, err := service.Submit(ctx, actorOf(noName), feedback.SubmitFeedbackDTO{UserID: num(noName.ID), Rating: num(4), Comment: "fine"})
			Expect(err).NotTo(HaveOccurred())
			Expect(*f.UserName).To(Equal("anon-user"))
		})

		It("rejects missing fields", func() {
			_, err := service.Submit(ctx, actorOf(dana), feedback.SubmitFeedbackDTO{})
			Expect(err).To(HaveOccurred())
			Expect(validationFields(err)).To(ConsistOf("user_id", "rating", "comment"))
			Expect(publisher.events).To(BeEmpty())
		})

		DescribeTable("rejects ratings outside 1..5",
			func(rating int64) {
				_, err := service.Submit(ctx, actorOf(dana), feedback.SubmitFeedbackDTO{UserID: num(dana.ID), Rating: num(rating), Comment: "x"})
				Expect(validationFields(err)).To(ConsistOf("rating"))
			},
			Entry("zero", int64(0)),
			Entry("six", int64(6)),
			Entry("negative", int64(-1)),
		)

		It("rejects an unknown category", func() {
			_, err := service.Submit(ctx, actorOf(dana), feedback.SubmitFeedbackDTO{UserID: num(dana.ID), Rating: num(3), Comment: "x", Category: "food"})
			Expect(validationFields(err)).To(ConsistOf("category"))
		})

		It("returns not found for an unknown user", func() {
			ghost := policy.Actor{ID: 999, Role: policy.RoleStudent}
			_, err := service.Submit(ctx, ghost, feedback.SubmitFeedbackDTO{UserID: num(999), Rating: num(3), Comment: "x"})
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})

		It("refuses feedback submitted for someone else", func() {
			_, err := service.Submit(ctx, actorOf(dana), feedback.SubmitFeedbackDTO{UserID: num(noName.ID), Rating: num(3), Comment: "x"})
			Expect(errors.Is(err, internal.ErrPermissionDenied)).To(BeTrue())
		})
	})

	Describe("List and Delete", func() {
		It("lists newest first", func() {
			now := time.Now()
			Expect(db.Create(&feedbackDatamodel.Feedback{UserID: dana.ID, Rating: 1, Comment: "old", Category: "general", CreatedAt: now.Add(-time.Hour)}).Error).To(Succeed())
			Expect(db.Create(&feedbackDatamodel.Feedback{UserID: dana.ID, Rating: 5, Comment: "new", Category: "process", CreatedAt: now}).Error).To(Succeed())

			list, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
			Expect(list[0].Comment).To(Equal("new"))
			Expect(list[1].RatingDisplay).To(Equal("1 - גרוע מאוד"))
		})

		It("deletes permanently and reports unknown ids", func() {
			f, err := service.Submit(ctx, actorOf(dana), feedback.SubmitFeedbackDTO{UserID: num(dana.ID), Rating: num(3), Comment: "x"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, f.ID)).To(Succeed())
			_, err = service.GetByID(ctx, f.ID)
			Expect(errors.Is(err, internal.ErrFeedbackNotFound)).To(BeTrue())

			err = service.Delete(ctx, f.ID)
			Expect(errors.Is(err, internal.ErrFeedbackNotFound)).To(BeTrue())
		})
	})
})
