package notification_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	notificationDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/notification"
	"github.com/frahmantamala/academic-requests/internal/notification"
)

type MockRepository struct {
	rows       []*notificationDatamodel.Notification
	shouldFail bool
	failError  error
}

func (m *MockRepository) ListByUser(_ context.Context, userID int64, unreadOnly bool) ([]*notificationDatamodel.Notification, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*notificationDatamodel.Notification
	for _, n := range m.rows {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockRepository) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	var n int64
	for _, row := range m.rows {
		if row.UserID == userID && !row.IsRead {
			row.IsRead = true
			n++
		}
	}
	return n, nil
}

func (m *MockRepository) CountUnread(_ context.Context, userID int64) (int64, error) {
	var n int64
	for _, row := range m.rows {
		if row.UserID == userID && !row.IsRead {
			n++
		}
	}
	return n, nil
}

var _ = Describe("Notification Service", func() {
	var (
		ctx      context.Context
		mockRepo *MockRepository
		service  *notification.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = &MockRepository{rows: []*notificationDatamodel.Notification{
			{ID: 1, UserID: 7, Message: "old", IsRead: true},
			{ID: 2, UserID: 7, Message: "mid"},
			{ID: 3, UserID: 7, Message: "new"},
			{ID: 4, UserID: 8, Message: "someone else"},
		}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = notification.NewService(mockRepo, logger)
	})

	It("lists newest first, optionally unread only", func() {
		all, err := service.List(ctx, 7, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(3))
		Expect(all[0].Message).To(Equal("new"))

		unread, err := service.List(ctx, 7, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(unread).To(HaveLen(2))
	})

	It("returns an empty list for a user without notifications", func() {
		list, err := service.List(ctx, 99, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).NotTo(BeNil())
		Expect(list).To(BeEmpty())
	})

	It("marks everything read for one user only", func() {
		n, err := service.MarkAllRead(ctx, 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(2)))

		count, err := service.UnreadCount(ctx, 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(BeZero())

		count, err = service.UnreadCount(ctx, 8)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(1)))
	})

	It("propagates repository failures", func() {
		mockRepo.shouldFail = true
		mockRepo.failError = errors.New("db down")

		_, err := service.List(ctx, 7, false)
		Expect(err).To(MatchError("db down"))
		_, err = service.MarkAllRead(ctx, 7)
		Expect(err).To(HaveOccurred())
	})
})
