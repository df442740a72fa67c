package notification

import (
	"time"

	notificationDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/notification"
)

type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDataModel(n *notificationDatamodel.Notification) Notification {
	return Notification{
		ID:        n.ID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

type MarkAllReadResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
