package model

import "time"

// NotificationType categorises an inbox entry.
type NotificationType string

const (
    NotifyInfo    NotificationType = "info"
    NotifySuccess NotificationType = "success"
    NotifyWarning NotificationType = "warning"
)

// Notification is an entry in a user's inbox.  Rows are written in
// the same transaction as the booking change that produced them.
type Notification struct {
    ID        uint64           `json:"id"`
    UserID    uint64           `json:"user_id"`
    Title     string           `json:"title"`
    Message   string           `json:"message"`
    Type      NotificationType `json:"type"`
    IsRead    bool             `json:"is_read"`
    CreatedAt time.Time        `json:"created_at"`
}
