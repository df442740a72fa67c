package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserRegistered         = "user.registered"
	EventTypePasswordResetRequested = "user.password_reset_requested"
	EventTypeRequestSubmitted       = "request.submitted"
	EventTypeRequestStatusChanged   = "request.status_changed"
	EventTypeRequestCommentAdded    = "request.comment_added"
	EventTypeFeedbackSubmitted      = "feedback.submitted"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type UserRegisteredEvent struct {
	BaseEvent
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func NewUserRegisteredEvent(userID int64, email, fullName, role string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseEvent: newBase(EventTypeUserRegistered, map[string]interface{}{
			"user_id": userID,
			"email":   email,
			"role":    role,
		}),
		UserID:   userID,
		Email:    email,
		FullName: fullName,
		Role:     role,
	}
}

type PasswordResetRequestedEvent struct {
	BaseEvent
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	ResetLink string `json:"reset_link"`
}

func NewPasswordResetRequestedEvent(userID int64, email, resetLink string) *PasswordResetRequestedEvent {
	return &PasswordResetRequestedEvent{
		BaseEvent: newBase(EventTypePasswordResetRequested, map[string]interface{}{
			"user_id": userID,
			"email":   email,
		}),
		UserID:    userID,
		Email:     email,
		ResetLink: resetLink,
	}
}

type RequestSubmittedEvent struct {
	BaseEvent
	RequestID   int64  `json:"request_id"`
	StudentID   int64  `json:"student_id"`
	RequestType string `json:"request_type"`
}

func NewRequestSubmittedEvent(requestID, studentID int64, requestType string) *RequestSubmittedEvent {
	return &RequestSubmittedEvent{
		BaseEvent: newBase(EventTypeRequestSubmitted, map[string]interface{}{
			"request_id":   requestID,
			"student_id":   studentID,
			"request_type": requestType,
		}),
		RequestID:   requestID,
		StudentID:   studentID,
		RequestType: requestType,
	}
}

type RequestStatusChangedEvent struct {
	BaseEvent
	RequestID int64  `json:"request_id"`
	StudentID int64  `json:"student_id"`
	Status    string `json:"status"`
}

func NewRequestStatusChangedEvent(requestID, studentID int64, status string) *RequestStatusChangedEvent {
	return &RequestStatusChangedEvent{
		BaseEvent: newBase(EventTypeRequestStatusChanged, map[string]interface{}{
			"request_id": requestID,
			"student_id": studentID,
			"status":     status,
		}),
		RequestID: requestID,
		StudentID: studentID,
		Status:    status,
	}
}

type RequestCommentAddedEvent struct {
	BaseEvent
	RequestID  int64   `json:"request_id"`
	AuthorID   int64   `json:"author_id"`
	Recipients []int64 `json:"recipients"`
}

func NewRequestCommentAddedEvent(requestID, authorID int64, recipients []int64) *RequestCommentAddedEvent {
	return &RequestCommentAddedEvent{
		BaseEvent: newBase(EventTypeRequestCommentAdded, map[string]interface{}{
			"request_id": requestID,
			"author_id":  authorID,
			"recipients": len(recipients),
		}),
		RequestID:  requestID,
		AuthorID:   authorID,
		Recipients: recipients,
	}
}

type FeedbackSubmittedEvent struct {
	BaseEvent
	FeedbackID int64  `json:"feedback_id"`
	Rating     int    `json:"rating"`
	Category   string `json:"category"`
}

func NewFeedbackSubmittedEvent(feedbackID int64, rating int, category string) *FeedbackSubmittedEvent {
	return &FeedbackSubmittedEvent{
		BaseEvent: newBase(EventTypeFeedbackSubmitted, map[string]interface{}{
			"feedback_id": feedbackID,
			"rating":      rating,
			"category":    category,
		}),
		FeedbackID: feedbackID,
		Rating:     rating,
		Category:   category,
	}
}
