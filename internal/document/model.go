package document

import (
	"time"
)

type Classification string

const (
	ClassificationSimple          Classification = "simple"
	ClassificationComplex         Classification = "complex"
	ClassificationHighlyTechnical Classification = "highly_technical"
)

// Document is the tracked entity. Code is the stable external identifier
// used by every mutating operation; everything under the provenance block
// is immutable after creation. FromAgencyID and ToAgencyID are populated
// only while a transit is in flight.
type Document struct {
	ID   uint64 `json:"id"`
	Code string `json:"code" gorm:"uniqueIndex;size:64"`

	Title          string         `json:"title"`
	Classification Classification `json:"classification" gorm:"size:32"`
	Type           string         `json:"type" gorm:"size:64"`
	Remarks        string         `json:"remarks"`

	// Provenance, immutable
	OriginOfficeID uint64    `json:"origin_office_id"`
	CreatedByID    uint64    `json:"created_by_id"`
	CreatedAt      time.Time `json:"date_created"`

	Status            Status  `json:"status" gorm:"size:16;index"`
	ReceivingOfficeID uint64  `json:"receiving_office_id" gorm:"index"`
	FromAgencyID      *uint64 `json:"from_agency_id,omitempty"`
	ToAgencyID        *uint64 `json:"to_agency_id,omitempty"`

	// True only when the current custodian is the office that most recently
	// accepted delivery and the document has not been re-released or
	// completed since.
	IsReceived bool `json:"is_received"`

	ReleasedByID *uint64    `json:"released_by_id,omitempty"`
	ReleasedAt   *time.Time `json:"released_at,omitempty"`
	ReceivedByID *uint64    `json:"received_by_id,omitempty"`
	ReceivedAt   *time.Time `json:"received_at,omitempty"`

	CompletedByID *uint64    `json:"completed_by_id,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	SenderActionID    *uint64 `json:"sender_action_id,omitempty"`
	RecipientActionID *uint64 `json:"recipient_action_id,omitempty"`

	DateViewed *time.Time `json:"date_viewed,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TrailEvent is one historical hop of a document between offices. A row is
// created at release time and filled in as the hop is received and the
// document later completed.
type TrailEvent struct {
	ID         uint64 `json:"id"`
	DocumentID uint64 `json:"document_id" gorm:"index"`

	FromAgencyID uint64 `json:"from_agency_id"`
	ToAgencyID   uint64 `json:"to_agency_id"`

	ReleasedByID  uint64    `json:"released_by_id"`
	ReleasedAt    time.Time `json:"released_at"`
	ReleasedNotes string    `json:"released_notes"`

	ReceivedByID  *uint64    `json:"received_by_id,omitempty"`
	ReceivedAt    *time.Time `json:"received_at,omitempty"`
	ReceivedNotes string     `json:"received_notes"`

	CompletedByID *uint64    `json:"completed_by_id,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	ActionRequestedID *uint64 `json:"action_requested_id,omitempty"`
	ActionTakenID     *uint64 `json:"action_taken_id,omitempty"`

	DeliveryMethod string    `json:"delivery_method" gorm:"size:32"`
	CreatedAt      time.Time `json:"created_at"`
}

func (TrailEvent) TableName() string {
	return "document_trails"
}
