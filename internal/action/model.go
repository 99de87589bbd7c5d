package action

import "time"

// DocumentAction is a catalog entry for the named actions attached to a
// hop, e.g. "For Signature" or "Approved". Sender actions are requestable
// on release, recipient actions reportable on receive.
type DocumentAction struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name" gorm:"uniqueIndex;size:128"`
	ForSender    bool      `json:"for_sender"`
	ForRecipient bool      `json:"for_recipient"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (DocumentAction) TableName() string {
	return "document_actions"
}
