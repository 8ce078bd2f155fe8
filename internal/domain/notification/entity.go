// internal/domain/notification/entity.go
package notification

import (
	"database/sql"
	"time"
)

type NotificationType string

const (
	TypeFollow  NotificationType = "follow"
	TypeComment NotificationType = "comment"
	TypeMention NotificationType = "mention"
	TypeSystem  NotificationType = "system"
)

type Notification struct {
	ID        int64                  `json:"id" db:"id"`
	UserID    int64                  `json:"user_id" db:"user_id"`
	Type      NotificationType       `json:"type" db:"type"`
	Title     string                 `json:"title" db:"title"`
	Message   string                 `json:"message" db:"message"`
	Data      map[string]interface{} `json:"data,omitempty" db:"data"`
	IsRead    bool                   `json:"is_read" db:"is_read"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
	ReadAt    sql.NullTime           `json:"read_at,omitempty" db:"read_at"`
}

// DTOs

type CreateNotificationRequest struct {
	UserID  int64                  `json:"user_id" binding:"required"`
	Type    NotificationType       `json:"type"`
	Title   string                 `json:"title" binding:"required,max=255"`
	Message string                 `json:"message" binding:"required"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

type ListFilters struct {
	IsRead   *bool `form:"is_read"`
	Page     int   `form:"page"`
	PageSize int   `form:"page_size"`
}

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int64          `json:"total"`
	UnreadCount   int64          `json:"unread_count"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
}
