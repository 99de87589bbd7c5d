package document

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrStaleStatus is returned when a guarded write matched no row: the
// document's status changed between the caller's read and the write. The
// store is the arbiter of truth; the service maps this to InvalidTransition.
var ErrStaleStatus = errors.New("document status no longer satisfies the operation")

type ReleaseParams struct {
	ToAgencyID uint64
	ActionID   uint64
	Remarks    string
	ActorID    uint64
	At         time.Time
}

type ReceiveParams struct {
	OfficeID      uint64
	ActionTakenID uint64
	Remarks       string
	ActorID       uint64
	At            time.Time
}

type CompleteParams struct {
	Remarks string
	ActorID uint64
	At      time.Time
}

type ListMeta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPage   int   `json:"total_page"`
}

// Repository is the store contract the lifecycle engine runs against. Every
// mutating method is transactional and conditioned on the status the
// operation requires; a write that matches no row returns ErrStaleStatus so
// the document is left exactly as it was.
type Repository interface {
	Create(ctx context.Context, doc *Document) error
	FindByCode(ctx context.Context, code string) (*Document, error)
	Release(ctx context.Context, code string, params ReleaseParams) (*Document, error)
	Receive(ctx context.Context, code string, params ReceiveParams) (*Document, error)
	Complete(ctx context.Context, code string, params CompleteParams) (*Document, error)
	Cancel(ctx context.Context, code string) (*Document, error)
	Trails(ctx context.Context, documentID uint64) ([]TrailEvent, error)
	ListForOffice(ctx context.Context, officeID uint64, page, pageSize int) ([]Document, ListMeta, error)
	ListVisible(ctx context.Context, officeID uint64) ([]Document, error)
	ListCreatedBetween(ctx context.Context, officeID uint64, from, to time.Time) ([]Document, error)
	MarkViewed(ctx context.Context, documentID uint64, at time.Time) error
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, doc *Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	doc.Status = StatusDispatch
	doc.ReceivingOfficeID = doc.OriginOfficeID
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *RepositoryImpl) FindByCode(ctx context.Context, code string) (*Document, error) {
	var doc Document
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *RepositoryImpl) Release(ctx context.Context, code string, params ReleaseParams) (*Document, error) {
	var doc *Document

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockByCode(tx, code)
		if err != nil {
			return err
		}

		res := tx.Model(&Document{}).
			Where("code = ? AND status = ?", code, StatusDispatch).
			Updates(map[string]interface{}{
				"status":           StatusIntransit,
				"is_received":      false,
				"from_agency_id":   current.ReceivingOfficeID,
				"to_agency_id":     params.ToAgencyID,
				"released_by_id":   params.ActorID,
				"released_at":      params.At,
				"sender_action_id": params.ActionID,
				"updated_at":       params.At,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		if err := tx.Create(&TrailEvent{
			DocumentID:        current.ID,
			FromAgencyID:      current.ReceivingOfficeID,
			ToAgencyID:        params.ToAgencyID,
			ReleasedByID:      params.ActorID,
			ReleasedAt:        params.At,
			ReleasedNotes:     params.Remarks,
			ActionRequestedID: &params.ActionID,
			DeliveryMethod:    "Personal",
			CreatedAt:         params.At,
		}).Error; err != nil {
			return err
		}

		doc, err = reload(tx, code)
		return err
	})

	return doc, err
}

func (r *RepositoryImpl) Receive(ctx context.Context, code string, params ReceiveParams) (*Document, error) {
	var doc *Document

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockByCode(tx, code)
		if err != nil {
			return err
		}

		res := tx.Model(&Document{}).
			Where("code = ? AND status = ? AND to_agency_id = ?", code, StatusIntransit, params.OfficeID).
			Updates(map[string]interface{}{
				"status":              StatusDispatch,
				"is_received":         true,
				"receiving_office_id": params.OfficeID,
				"from_agency_id":      nil,
				"to_agency_id":        nil,
				"received_by_id":      params.ActorID,
				"received_at":         params.At,
				"recipient_action_id": params.ActionTakenID,
				"date_viewed":         nil,
				"updated_at":          params.At,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		if err := latestTrail(tx, current.ID).
			Updates(map[string]interface{}{
				"received_by_id":  params.ActorID,
				"received_at":     params.At,
				"received_notes":  params.Remarks,
				"action_taken_id": params.ActionTakenID,
			}).Error; err != nil {
			return err
		}

		doc, err = reload(tx, code)
		return err
	})

	return doc, err
}

func (r *RepositoryImpl) Complete(ctx context.Context, code string, params CompleteParams) (*Document, error) {
	var doc *Document

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockByCode(tx, code)
		if err != nil {
			return err
		}

		res := tx.Model(&Document{}).
			Where("code = ? AND status = ?", code, StatusDispatch).
			Updates(map[string]interface{}{
				"status":          StatusCompleted,
				"is_received":     false,
				"completed_by_id": params.ActorID,
				"completed_at":    params.At,
				"remarks":         params.Remarks,
				"updated_at":      params.At,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		// A freshly created document can complete without ever having hopped.
		if err := latestTrail(tx, current.ID).
			Updates(map[string]interface{}{
				"completed_by_id": params.ActorID,
				"completed_at":    params.At,
			}).Error; err != nil {
			return err
		}

		doc, err = reload(tx, code)
		return err
	})

	return doc, err
}

func (r *RepositoryImpl) Cancel(ctx context.Context, code string) (*Document, error) {
	var doc *Document

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&Document{}).
			Where("code = ? AND status = ?", code, StatusIntransit).
			Updates(map[string]interface{}{
				"status":         StatusCanceled,
				"is_received":    false,
				"from_agency_id": nil,
				"to_agency_id":   nil,
				"updated_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		var err error
		doc, err = reload(tx, code)
		return err
	})

	return doc, err
}

func (r *RepositoryImpl) Trails(ctx context.Context, documentID uint64) ([]TrailEvent, error) {
	var events []TrailEvent
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Find(&events).Error
	return events, err
}

// ListForOffice returns every document the office can see: ones it holds,
// ones in flight to or from it, and ones it originated.
func (r *RepositoryImpl) ListForOffice(ctx context.Context, officeID uint64, page, pageSize int) ([]Document, ListMeta, error) {
	var documents []Document
	var totalRecords int64

	scope := r.db.WithContext(ctx).Model(&Document{}).
		Where("receiving_office_id = ? OR from_agency_id = ? OR to_agency_id = ? OR origin_office_id = ?",
			officeID, officeID, officeID, officeID)

	if err := scope.Count(&totalRecords).Error; err != nil {
		return documents, ListMeta{}, err
	}

	offset := (page - 1) * pageSize
	err := scope.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&documents).Error

	totalPages := int((totalRecords + int64(pageSize) - 1) / int64(pageSize))

	return documents, ListMeta{
		Total:       totalRecords,
		PerPage:     pageSize,
		TotalPage:   totalPages,
		CurrentPage: page,
	}, err
}

// ListVisible returns the office's whole visible set, newest first. Bucket
// membership depends on the viewer, so callers filtering on projection
// buckets need the full set before any page is cut.
func (r *RepositoryImpl) ListVisible(ctx context.Context, officeID uint64) ([]Document, error) {
	var documents []Document
	err := r.db.WithContext(ctx).
		Where("receiving_office_id = ? OR from_agency_id = ? OR to_agency_id = ? OR origin_office_id = ?",
			officeID, officeID, officeID, officeID).
		Order("created_at DESC").
		Find(&documents).Error
	return documents, err
}

func (r *RepositoryImpl) ListCreatedBetween(ctx context.Context, officeID uint64, from, to time.Time) ([]Document, error) {
	var documents []Document
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Where("receiving_office_id = ? OR from_agency_id = ? OR to_agency_id = ? OR origin_office_id = ?",
			officeID, officeID, officeID, officeID).
		Find(&documents).Error
	return documents, err
}

func (r *RepositoryImpl) MarkViewed(ctx context.Context, documentID uint64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&Document{}).
		Where("id = ? AND date_viewed IS NULL", documentID).
		Update("date_viewed", at).Error
}

func lockByCode(tx *gorm.DB, code string) (*Document, error) {
	var doc Document
	err := tx.Where("code = ?", code).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func latestTrail(tx *gorm.DB, documentID uint64) *gorm.DB {
	return tx.Model(&TrailEvent{}).
		Where("id = (?)", tx.Session(&gorm.Session{NewDB: true}).
			Model(&TrailEvent{}).
			Select("id").
			Where("document_id = ?", documentID).
			Order("released_at DESC").
			Limit(1))
}

func reload(tx *gorm.DB, code string) (*Document, error) {
	var doc Document
	err := tx.Where("code = ?", code).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
