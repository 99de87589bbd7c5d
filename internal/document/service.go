package document

import (
	"context"
	defError "errors"
	"fmt"
	"strings"
	"time"

	"github.com/tonzxz/ipophil-dms-sub000/internal/cache"
	"github.com/tonzxz/ipophil-dms-sub000/internal/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the authenticated caller of an operation: who they are and
// which office they act for. The office is always carried explicitly so no
// derivation ever reads ambient session state.
type Actor struct {
	UserID   uint64
	AgencyID uint64
	Name     string
}

// Notifier is told about successful lifecycle transitions. Notification
// failures never fail the operation that triggered them.
type Notifier interface {
	DocumentReleased(doc *Document, actor Actor)
	DocumentReceived(doc *Document, actor Actor)
	DocumentCompleted(doc *Document, actor Actor)
	DocumentCanceled(doc *Document, actor Actor)
}

type CreateDocumentInput struct {
	Title          string
	Classification Classification
	Type           string
	Remarks        string
}

type ReleaseInput struct {
	ToAgencyID uint64
	ActionID   uint64
	Remarks    string
}

type ReceiveInput struct {
	ActionTakenID uint64
	Remarks       string
}

type CompleteInput struct {
	Remarks string
}

// DocumentView is a document annotated with its display bucket for one
// viewer.
type DocumentView struct {
	Document
	ViewStatus string `json:"view_status"`
}

type PaginatedDocuments struct {
	Data []DocumentView `json:"data"`
	Meta ListMeta       `json:"meta"`
}

type Service interface {
	CreateDocument(ctx context.Context, input CreateDocumentInput, actor Actor) (*Document, error)
	Release(ctx context.Context, code string, input ReleaseInput, actor Actor) (*Document, error)
	Receive(ctx context.Context, code string, input ReceiveInput, actor Actor) (*Document, error)
	Complete(ctx context.Context, code string, input CompleteInput, actor Actor) (*Document, error)
	Cancel(ctx context.Context, code string, actor Actor) (*Document, error)
	GetByCode(ctx context.Context, code string, actor Actor) (*DocumentView, error)
	ListForOffice(ctx context.Context, actor Actor, filter string, page, pageSize int) (*PaginatedDocuments, error)
	Trail(ctx context.Context, code string) ([]TrailEntry, error)
}

type DefaultService struct {
	repository Repository
	cache      *cache.Cache
	names      NameResolver
	notifier   Notifier
	inflight   *inflightSet
}

func NewService(
	repository Repository,
	c *cache.Cache,
	names NameResolver,
	notifier Notifier,
) Service {
	return &DefaultService{
		repository: repository,
		cache:      c,
		names:      names,
		notifier:   notifier,
		inflight:   newInflightSet(),
	}
}

func (s *DefaultService) CreateDocument(ctx context.Context, input CreateDocumentInput, actor Actor) (*Document, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.Validation("Title is required", nil)
	}
	switch input.Classification {
	case ClassificationSimple, ClassificationComplex, ClassificationHighlyTechnical:
	default:
		return nil, errors.Validation("Unknown classification", nil)
	}

	doc := &Document{
		Code:           newTrackingCode(),
		Title:          input.Title,
		Classification: input.Classification,
		Type:           input.Type,
		Remarks:        input.Remarks,
		OriginOfficeID: actor.AgencyID,
		CreatedByID:    actor.UserID,
	}
	if err := s.repository.Create(ctx, doc); err != nil {
		return nil, storeFailure(err)
	}

	s.bumpOffices(ctx, actor.AgencyID)
	return doc, nil
}

func (s *DefaultService) Release(ctx context.Context, code string, input ReleaseInput, actor Actor) (*Document, error) {
	if input.ToAgencyID == 0 {
		return nil, errors.Validation("Destination agency is required", nil)
	}
	if input.ActionID == 0 {
		return nil, errors.Validation("Requested action is required", nil)
	}

	if !s.inflight.begin(code) {
		return nil, errInflight()
	}
	defer s.inflight.end(code)

	doc, err := s.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if _, ok := NextStatus(doc.Status, OpRelease); !ok {
		return nil, errTransition(OpRelease, doc.Status)
	}

	updated, err := s.repository.Release(ctx, code, ReleaseParams{
		ToAgencyID: input.ToAgencyID,
		ActionID:   input.ActionID,
		Remarks:    input.Remarks,
		ActorID:    actor.UserID,
		At:         time.Now().UTC(),
	})
	if err != nil {
		return nil, mapStoreError(err, OpRelease)
	}

	s.bumpOffices(ctx, actor.AgencyID, input.ToAgencyID)
	if s.notifier != nil {
		s.notifier.DocumentReleased(updated, actor)
	}
	return updated, nil
}

func (s *DefaultService) Receive(ctx context.Context, code string, input ReceiveInput, actor Actor) (*Document, error) {
	if input.ActionTakenID == 0 {
		return nil, errors.Validation("Action taken is required", nil)
	}

	if !s.inflight.begin(code) {
		return nil, errInflight()
	}
	defer s.inflight.end(code)

	doc, err := s.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if _, ok := NextStatus(doc.Status, OpReceive); !ok {
		return nil, errTransition(OpReceive, doc.Status)
	}
	// A hop addressed elsewhere is invisible to this office.
	if doc.ToAgencyID == nil || *doc.ToAgencyID != actor.AgencyID {
		return nil, errors.NotFound("Document not found", nil)
	}

	releaserOffice := uint64(0)
	if doc.FromAgencyID != nil {
		releaserOffice = *doc.FromAgencyID
	}

	updated, err := s.repository.Receive(ctx, code, ReceiveParams{
		OfficeID:      actor.AgencyID,
		ActionTakenID: input.ActionTakenID,
		Remarks:       input.Remarks,
		ActorID:       actor.UserID,
		At:            time.Now().UTC(),
	})
	if err != nil {
		return nil, mapStoreError(err, OpReceive)
	}

	s.bumpOffices(ctx, actor.AgencyID, releaserOffice)
	if s.notifier != nil {
		s.notifier.DocumentReceived(updated, actor)
	}
	return updated, nil
}

func (s *DefaultService) Complete(ctx context.Context, code string, input CompleteInput, actor Actor) (*Document, error) {
	if strings.TrimSpace(input.Remarks) == "" {
		return nil, errors.Validation("Completion remarks are required", nil)
	}

	if !s.inflight.begin(code) {
		return nil, errInflight()
	}
	defer s.inflight.end(code)

	doc, err := s.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if _, ok := NextStatus(doc.Status, OpComplete); !ok {
		return nil, errTransition(OpComplete, doc.Status)
	}

	updated, err := s.repository.Complete(ctx, code, CompleteParams{
		Remarks: input.Remarks,
		ActorID: actor.UserID,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return nil, mapStoreError(err, OpComplete)
	}

	s.bumpOffices(ctx, updated.ReceivingOfficeID, updated.OriginOfficeID)
	if s.notifier != nil {
		s.notifier.DocumentCompleted(updated, actor)
	}
	return updated, nil
}

func (s *DefaultService) Cancel(ctx context.Context, code string, actor Actor) (*Document, error) {
	if !s.inflight.begin(code) {
		return nil, errInflight()
	}
	defer s.inflight.end(code)

	doc, err := s.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if _, ok := NextStatus(doc.Status, OpCancel); !ok {
		return nil, errTransition(OpCancel, doc.Status)
	}

	fromOffice, toOffice := uint64(0), uint64(0)
	if doc.FromAgencyID != nil {
		fromOffice = *doc.FromAgencyID
	}
	if doc.ToAgencyID != nil {
		toOffice = *doc.ToAgencyID
	}

	updated, err := s.repository.Cancel(ctx, code)
	if err != nil {
		return nil, mapStoreError(err, OpCancel)
	}

	s.bumpOffices(ctx, fromOffice, toOffice)
	if s.notifier != nil {
		s.notifier.DocumentCanceled(updated, actor)
	}
	return updated, nil
}

func (s *DefaultService) GetByCode(ctx context.Context, code string, actor Actor) (*DocumentView, error) {
	doc, err := s.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	// First open by the holding office stamps the viewed date.
	if doc.DateViewed == nil && doc.ReceivingOfficeID == actor.AgencyID {
		now := time.Now().UTC()
		if err := s.repository.MarkViewed(ctx, doc.ID, now); err == nil {
			doc.DateViewed = &now
		}
	}

	return &DocumentView{
		Document:   *doc,
		ViewStatus: PrimaryViewStatus(doc, actor.AgencyID),
	}, nil
}

func (s *DefaultService) ListForOffice(ctx context.Context, actor Actor, filter string, page, pageSize int) (*PaginatedDocuments, error) {
	versionKey := fmt.Sprintf("agency:%d:docs:version", actor.AgencyID)
	v := s.cache.GetVersion(ctx, versionKey)

	cacheKey := fmt.Sprintf("docs:a:%d:v:%d:f:%s:p:%d:ps:%d", actor.AgencyID, v, filter, page, pageSize)

	var result PaginatedDocuments
	found, _ := s.cache.Get(ctx, cacheKey, &result)
	if found {
		return &result, nil
	}

	if filter == "" {
		documents, meta, err := s.repository.ListForOffice(ctx, actor.AgencyID, page, pageSize)
		if err != nil {
			return nil, storeFailure(err)
		}
		result = PaginatedDocuments{Data: projectViews(documents, actor.AgencyID), Meta: meta}
	} else {
		// A bucket is a per-viewer projection, not a column, so the filter
		// has to see the whole visible set before a page is cut. Paginating
		// first would drop matches sitting on other pages.
		documents, err := s.repository.ListVisible(ctx, actor.AgencyID)
		if err != nil {
			return nil, storeFailure(err)
		}

		matched := make([]Document, 0, len(documents))
		for i := range documents {
			if inBucket(&documents[i], actor.AgencyID, ViewStatus(filter)) {
				matched = append(matched, documents[i])
			}
		}

		total := int64(len(matched))
		start := (page - 1) * pageSize
		if start > len(matched) {
			start = len(matched)
		}
		end := start + pageSize
		if end > len(matched) {
			end = len(matched)
		}

		result = PaginatedDocuments{
			Data: projectViews(matched[start:end], actor.AgencyID),
			Meta: ListMeta{
				Total:       total,
				CurrentPage: page,
				PerPage:     pageSize,
				TotalPage:   int((total + int64(pageSize) - 1) / int64(pageSize)),
			},
		}
	}

	go s.cache.Set(context.Background(), cacheKey, result, 24*time.Hour)

	return &result, nil
}

func projectViews(documents []Document, viewerAgencyID uint64) []DocumentView {
	rows := make([]DocumentView, 0, len(documents))
	for i := range documents {
		rows = append(rows, DocumentView{
			Document:   documents[i],
			ViewStatus: PrimaryViewStatus(&documents[i], viewerAgencyID),
		})
	}
	return rows
}

func (s *DefaultService) Trail(ctx context.Context, code string) ([]TrailEntry, error) {
	doc, err := s.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	events, err := s.repository.Trails(ctx, doc.ID)
	if err != nil {
		return nil, storeFailure(err)
	}

	return BuildTrail(doc, events, s.names), nil
}

func (s *DefaultService) findByCode(ctx context.Context, code string) (*Document, error) {
	doc, err := s.repository.FindByCode(ctx, code)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Document not found", err)
		}
		return nil, storeFailure(err)
	}
	return doc, nil
}

func inBucket(doc *Document, viewerAgencyID uint64, want ViewStatus) bool {
	for _, bucket := range ProjectViewStatus(doc, viewerAgencyID) {
		if bucket == want {
			return true
		}
	}
	return false
}

// bumpOffices invalidates the cached lists of every office a transition
// touched so dependent counts stay consistent.
func (s *DefaultService) bumpOffices(ctx context.Context, officeIDs ...uint64) {
	seen := make(map[uint64]struct{}, len(officeIDs))
	for _, id := range officeIDs {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		s.cache.IncrementVersion(ctx, fmt.Sprintf("agency:%d:docs:version", id))
	}
}

func newTrackingCode() string {
	return "DOC-" + strings.ToUpper(uuid.New().String()[:8])
}

func errInflight() error {
	return errors.InvalidTransition("Another operation on this document is still in progress", nil)
}

func errTransition(op Operation, current Status) error {
	return errors.InvalidTransition(
		fmt.Sprintf("Cannot %s a document that is %s", op, current), nil)
}

// mapStoreError keeps the store's authority: a guarded write the client
// believed valid can still be rejected, and that rejection is an invalid
// transition, not a generic failure.
func mapStoreError(err error, op Operation) error {
	if defError.Is(err, ErrStaleStatus) {
		return errors.InvalidTransition(
			fmt.Sprintf("Document status changed, %s rejected", op), err)
	}
	if defError.Is(err, gorm.ErrRecordNotFound) {
		return errors.NotFound("Document not found", err)
	}
	return storeFailure(err)
}

func storeFailure(err error) error {
	return errors.RemoteFailure("Document store request failed", err)
}
