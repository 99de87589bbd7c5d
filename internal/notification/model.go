package notification

import "time"

// Notification is one per-user inbox entry raised by a lifecycle
// transition. DocumentCode links back to the tracked document.
type Notification struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"user_id" gorm:"index"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	Type         string    `json:"type" gorm:"size:16"` // info|success|warning
	DocumentCode string    `json:"document_code" gorm:"size:64;index"`
	IsRead       bool      `json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
