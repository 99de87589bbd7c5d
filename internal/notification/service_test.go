package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tonzxz/ipophil-dms-sub000/internal/document"
	"github.com/tonzxz/ipophil-dms-sub000/internal/user"
	"github.com/tonzxz/ipophil-dms-sub000/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inboxRepo struct {
	mu      sync.Mutex
	rows    []Notification
	written chan struct{}
}

func newInboxRepo() *inboxRepo {
	return &inboxRepo{written: make(chan struct{}, 16)}
}

func (r *inboxRepo) CreateBatch(ctx context.Context, notifications []Notification) error {
	r.mu.Lock()
	r.rows = append(r.rows, notifications...)
	r.mu.Unlock()
	r.written <- struct{}{}
	return nil
}

func (r *inboxRepo) ListByUser(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Notification
	for _, row := range r.rows {
		if row.UserID == userID && (!unreadOnly || !row.IsRead) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *inboxRepo) MarkRead(ctx context.Context, id uint64, userID uint64) error  { return nil }
func (r *inboxRepo) MarkAllRead(ctx context.Context, userID uint64) error          { return nil }
func (r *inboxRepo) CountUnread(ctx context.Context, userID uint64) (int64, error) { return 0, nil }

func (r *inboxRepo) waitForWrite(t *testing.T) {
	t.Helper()
	select {
	case <-r.written:
	case <-time.After(2 * time.Second):
		t.Fatal("no notification rows written in time")
	}
}

type directory struct {
	users map[uint64]user.User
}

func (d directory) GetUserByID(ctx context.Context, id uint64) (*user.User, error) {
	u := d.users[id]
	return &u, nil
}

func (d directory) ListAgencyUsers(ctx context.Context, agencyID uint64) ([]user.User, error) {
	var out []user.User
	for _, u := range d.users {
		if u.AgencyID == agencyID {
			out = append(out, u)
		}
	}
	return out, nil
}

type staticNames struct{}

func (staticNames) Name(id uint64) string { return "Records Office" }

func agencyRef(id uint64) *uint64 { return &id }
func userRef(id uint64) *uint64   { return &id }

func newNotifyService(t *testing.T, repo Repository, users UserDirectory) (Service, *worker.Pool) {
	t.Helper()
	pool := worker.NewPool(2)
	t.Cleanup(pool.Shutdown)
	return NewService(repo, users, staticNames{}, nil, pool), pool
}

func TestDocumentReleasedNotifiesDestinationOffice(t *testing.T) {
	repo := newInboxRepo()
	dir := directory{users: map[uint64]user.User{
		20: {ID: 20, Name: "Bob", Email: "bob@example.com", AgencyID: 2},
		21: {ID: 21, Name: "Bea", Email: "bea@example.com", AgencyID: 2},
		30: {ID: 30, Name: "Carol", AgencyID: 3},
	}}
	svc, _ := newNotifyService(t, repo, dir)

	doc := &document.Document{
		Code:       "DOC-AB12CD34",
		Title:      "Memo 42",
		ToAgencyID: agencyRef(2),
	}
	svc.DocumentReleased(doc, document.Actor{UserID: 10, AgencyID: 1, Name: "Alice"})
	repo.waitForWrite(t)

	bobInbox, err := svc.List(context.Background(), 20, true, 10)
	require.NoError(t, err)
	require.Len(t, bobInbox, 1)
	assert.Equal(t, "Incoming document", bobInbox[0].Title)
	assert.Equal(t, "DOC-AB12CD34", bobInbox[0].DocumentCode)
	assert.Contains(t, bobInbox[0].Message, "Alice")

	carolInbox, err := svc.List(context.Background(), 30, true, 10)
	require.NoError(t, err)
	assert.Empty(t, carolInbox)
}

func TestDocumentReceivedNotifiesReleaser(t *testing.T) {
	repo := newInboxRepo()
	dir := directory{users: map[uint64]user.User{
		10: {ID: 10, Name: "Alice", Email: "alice@example.com", AgencyID: 1},
	}}
	svc, _ := newNotifyService(t, repo, dir)

	doc := &document.Document{
		Code:         "DOC-AB12CD34",
		Title:        "Memo 42",
		ReleasedByID: userRef(10),
	}
	svc.DocumentReceived(doc, document.Actor{UserID: 20, AgencyID: 2, Name: "Bob"})
	repo.waitForWrite(t)

	inbox, err := svc.List(context.Background(), 10, true, 10)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "Document received", inbox[0].Title)
}

func TestDocumentCompletedNotifiesCreator(t *testing.T) {
	repo := newInboxRepo()
	dir := directory{users: map[uint64]user.User{
		10: {ID: 10, Name: "Alice", AgencyID: 1},
	}}
	svc, _ := newNotifyService(t, repo, dir)

	doc := &document.Document{
		Code:        "DOC-AB12CD34",
		Title:       "Memo 42",
		CreatedByID: 10,
	}
	svc.DocumentCompleted(doc, document.Actor{UserID: 20, AgencyID: 2, Name: "Bob"})
	repo.waitForWrite(t)

	inbox, err := svc.List(context.Background(), 10, true, 10)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Contains(t, inbox[0].Message, "completed")
}

func TestDocumentReleasedWithoutDestinationIsIgnored(t *testing.T) {
	repo := newInboxRepo()
	svc, _ := newNotifyService(t, repo, directory{})

	svc.DocumentReleased(&document.Document{Code: "DOC-AB12CD34"}, document.Actor{UserID: 10})

	select {
	case <-repo.written:
		t.Fatal("no rows should be written without a destination office")
	case <-time.After(50 * time.Millisecond):
	}
}
