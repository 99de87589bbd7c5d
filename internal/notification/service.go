package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tonzxz/ipophil-dms-sub000/internal/document"
	"github.com/tonzxz/ipophil-dms-sub000/internal/mailer"
	"github.com/tonzxz/ipophil-dms-sub000/internal/user"
	"github.com/tonzxz/ipophil-dms-sub000/internal/worker"
)

// UserDirectory is the slice of the user service the notifier needs.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id uint64) (*user.User, error)
	ListAgencyUsers(ctx context.Context, agencyID uint64) ([]user.User, error)
}

// AgencyNames resolves agency ids for message rendering.
type AgencyNames interface {
	Name(id uint64) string
}

type Service interface {
	document.Notifier
	List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]Notification, error)
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, id uint64, userID uint64) error
	MarkAllRead(ctx context.Context, userID uint64) error
}

// DefaultService raises inbox rows and best-effort mail on every
// successful lifecycle transition. All fan-out runs on the worker pool; a
// failure is logged and never surfaces to the operation that caused it.
type DefaultService struct {
	repository Repository
	users      UserDirectory
	agencies   AgencyNames
	mail       *mailer.Mailer
	pool       *worker.Pool
}

func NewService(
	repository Repository,
	users UserDirectory,
	agencies AgencyNames,
	mail *mailer.Mailer,
	pool *worker.Pool,
) Service {
	return &DefaultService{
		repository: repository,
		users:      users,
		agencies:   agencies,
		mail:       mail,
		pool:       pool,
	}
}

func (s *DefaultService) DocumentReleased(doc *document.Document, actor document.Actor) {
	if doc.ToAgencyID == nil {
		return
	}
	toAgency := *doc.ToAgencyID
	title := "Incoming document"
	message := fmt.Sprintf("%s released document %s (%s) to %s",
		actor.Name, doc.Code, doc.Title, s.agencies.Name(toAgency))

	s.pool.Submit("notify:release:"+doc.Code, func(ctx context.Context) error {
		recipients, err := s.users.ListAgencyUsers(ctx, toAgency)
		if err != nil {
			return err
		}
		return s.fanOut(ctx, recipients, doc.Code, title, message, "info")
	})
}

func (s *DefaultService) DocumentReceived(doc *document.Document, actor document.Actor) {
	if doc.ReleasedByID == nil {
		return
	}
	releaserID := *doc.ReleasedByID
	title := "Document received"
	message := fmt.Sprintf("%s received document %s (%s) at %s",
		actor.Name, doc.Code, doc.Title, s.agencies.Name(actor.AgencyID))

	s.pool.Submit("notify:receive:"+doc.Code, func(ctx context.Context) error {
		releaser, err := s.users.GetUserByID(ctx, releaserID)
		if err != nil {
			return err
		}
		return s.fanOut(ctx, []user.User{*releaser}, doc.Code, title, message, "success")
	})
}

func (s *DefaultService) DocumentCompleted(doc *document.Document, actor document.Actor) {
	s.notifyCreator(doc, "notify:complete:"+doc.Code, "Document completed",
		fmt.Sprintf("%s marked document %s (%s) as completed", actor.Name, doc.Code, doc.Title),
		"success")
}

func (s *DefaultService) DocumentCanceled(doc *document.Document, actor document.Actor) {
	s.notifyCreator(doc, "notify:cancel:"+doc.Code, "Document canceled",
		fmt.Sprintf("%s canceled the transit of document %s (%s)", actor.Name, doc.Code, doc.Title),
		"warning")
}

func (s *DefaultService) notifyCreator(doc *document.Document, task, title, message, kind string) {
	creatorID := doc.CreatedByID
	code := doc.Code

	s.pool.Submit(task, func(ctx context.Context) error {
		creator, err := s.users.GetUserByID(ctx, creatorID)
		if err != nil {
			return err
		}
		return s.fanOut(ctx, []user.User{*creator}, code, title, message, kind)
	})
}

func (s *DefaultService) fanOut(ctx context.Context, recipients []user.User, code, title, message, kind string) error {
	now := time.Now().UTC()
	rows := make([]Notification, 0, len(recipients))
	emails := make([]string, 0, len(recipients))
	for _, rec := range recipients {
		rows = append(rows, Notification{
			UserID:       rec.ID,
			Title:        title,
			Message:      message,
			Type:         kind,
			DocumentCode: code,
			IsRead:       false,
			CreatedAt:    now,
		})
		if rec.Email != "" {
			emails = append(emails, rec.Email)
		}
	}

	if err := s.repository.CreateBatch(ctx, rows); err != nil {
		return err
	}

	if s.mail != nil && s.mail.Configured() {
		body := fmt.Sprintf("<p>%s</p><p>Tracking code: <strong>%s</strong></p>", message, code)
		if err := s.mail.Send(emails, title, body); err != nil {
			// Mail is best effort; the inbox rows already landed.
			log.Printf("notification mail failed for %s: %v", code, err)
		}
	}

	return nil
}

func (s *DefaultService) List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]Notification, error) {
	return s.repository.ListByUser(ctx, userID, unreadOnly, limit)
}

func (s *DefaultService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.repository.CountUnread(ctx, userID)
}

func (s *DefaultService) MarkRead(ctx context.Context, id uint64, userID uint64) error {
	return s.repository.MarkRead(ctx, id, userID)
}

func (s *DefaultService) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.repository.MarkAllRead(ctx, userID)
}
