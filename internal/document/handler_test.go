package document

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apiError "github.com/tonzxz/ipophil-dms-sub000/internal/errors"
	"github.com/tonzxz/ipophil-dms-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateDocument(ctx context.Context, input CreateDocumentInput, actor Actor) (*Document, error) {
	args := m.Called(ctx, input, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Document), args.Error(1)
}

func (m *MockService) Release(ctx context.Context, code string, input ReleaseInput, actor Actor) (*Document, error) {
	args := m.Called(ctx, code, input, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Document), args.Error(1)
}

func (m *MockService) Receive(ctx context.Context, code string, input ReceiveInput, actor Actor) (*Document, error) {
	args := m.Called(ctx, code, input, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Document), args.Error(1)
}

func (m *MockService) Complete(ctx context.Context, code string, input CompleteInput, actor Actor) (*Document, error) {
	args := m.Called(ctx, code, input, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Document), args.Error(1)
}

func (m *MockService) Cancel(ctx context.Context, code string, actor Actor) (*Document, error) {
	args := m.Called(ctx, code, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Document), args.Error(1)
}

func (m *MockService) GetByCode(ctx context.Context, code string, actor Actor) (*DocumentView, error) {
	args := m.Called(ctx, code, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DocumentView), args.Error(1)
}

func (m *MockService) ListForOffice(ctx context.Context, actor Actor, filter string, page, pageSize int) (*PaginatedDocuments, error) {
	args := m.Called(ctx, actor, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaginatedDocuments), args.Error(1)
}

func (m *MockService) Trail(ctx context.Context, code string) ([]TrailEntry, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TrailEntry), args.Error(1)
}

func setupRouter(service Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uint64(10))
		c.Set("agency_id", uint64(1))
		c.Set("user_name", "Alice")
	})

	handler := NewHandler(service)
	router.POST("/documents", handler.Create)
	router.GET("/documents", handler.List)
	router.GET("/documents/:code", handler.Show)
	router.GET("/documents/:code/trails", handler.ShowTrail)
	router.POST("/documents/:code/release", handler.Release)
	router.POST("/documents/:code/receive", handler.Receive)
	router.POST("/documents/:code/complete", handler.Complete)
	router.POST("/documents/:code/cancel", handler.Cancel)
	return router
}

func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateDocumentHandler(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	expected := &Document{ID: 1, Code: "DOC-AB12CD34", Title: "Memo 42", Status: StatusDispatch}
	service.On("CreateDocument", mock.Anything, CreateDocumentInput{
		Title:          "Memo 42",
		Classification: ClassificationSimple,
		Type:           "memorandum",
	}, Actor{UserID: 10, AgencyID: 1, Name: "Alice"}).Return(expected, nil)

	w := performRequest(router, http.MethodPost, "/documents", gin.H{
		"title":          "Memo 42",
		"classification": "simple",
		"type":           "memorandum",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var got Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, expected.Code, got.Code)
	service.AssertExpectations(t)
}

func TestCreateDocumentHandlerRejectsBadPayload(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	w := performRequest(router, http.MethodPost, "/documents", gin.H{
		"classification": "urgent",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	service.AssertNotCalled(t, "CreateDocument")
}

func TestReleaseHandler(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	expected := &Document{ID: 1, Code: "DOC-AB12CD34", Status: StatusIntransit}
	service.On("Release", mock.Anything, "DOC-AB12CD34", ReleaseInput{
		ToAgencyID: 2,
		ActionID:   1,
		Remarks:    "for approval",
	}, mock.Anything).Return(expected, nil)

	w := performRequest(router, http.MethodPost, "/documents/DOC-AB12CD34/release", gin.H{
		"to_agency_id": 2,
		"action_id":    1,
		"remarks":      "for approval",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var got Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, StatusIntransit, got.Status)
	service.AssertExpectations(t)
}

func TestReleaseHandlerMissingDestination(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	w := performRequest(router, http.MethodPost, "/documents/DOC-AB12CD34/release", gin.H{
		"action_id": 1,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	service.AssertNotCalled(t, "Release")
}

func TestReleaseHandlerInvalidTransition(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	service.On("Release", mock.Anything, "DOC-AB12CD34", mock.Anything, mock.Anything).
		Return(nil, apiError.InvalidTransition("Cannot release a document that is completed", nil))

	w := performRequest(router, http.MethodPost, "/documents/DOC-AB12CD34/release", gin.H{
		"to_agency_id": 2,
		"action_id":    1,
	})

	assert.Equal(t, http.StatusConflict, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "Cannot release")
}

func TestReceiveHandler(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	expected := &Document{ID: 1, Code: "DOC-AB12CD34", Status: StatusDispatch, IsReceived: true}
	service.On("Receive", mock.Anything, "DOC-AB12CD34", ReceiveInput{
		ActionTakenID: 4,
		Remarks:       "on hand",
	}, mock.Anything).Return(expected, nil)

	w := performRequest(router, http.MethodPost, "/documents/DOC-AB12CD34/receive", gin.H{
		"action_id": 4,
		"remarks":   "on hand",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var got Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.IsReceived)
	service.AssertExpectations(t)
}

func TestReceiveHandlerNotAddressed(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	service.On("Receive", mock.Anything, "DOC-AB12CD34", mock.Anything, mock.Anything).
		Return(nil, apiError.NotFound("Document not found", nil))

	w := performRequest(router, http.MethodPost, "/documents/DOC-AB12CD34/receive", gin.H{
		"action_id": 4,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompleteHandlerRequiresRemarks(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	w := performRequest(router, http.MethodPost, "/documents/DOC-AB12CD34/complete", gin.H{})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	service.AssertNotCalled(t, "Complete")
}

func TestCancelHandler(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	expected := &Document{ID: 1, Code: "DOC-AB12CD34", Status: StatusCanceled}
	service.On("Cancel", mock.Anything, "DOC-AB12CD34", mock.Anything).Return(expected, nil)

	w := performRequest(router, http.MethodPost, "/documents/DOC-AB12CD34/cancel", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var got Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, StatusCanceled, got.Status)
}

func TestListHandlerPassesFilterAndPagination(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	service.On("ListForOffice", mock.Anything, mock.Anything, "incoming", 2, 25).
		Return(&PaginatedDocuments{Data: []DocumentView{}, Meta: ListMeta{CurrentPage: 2, PerPage: 25}}, nil)

	w := performRequest(router, http.MethodGet, "/documents?status=incoming&page=2&per_page=25", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestShowTrailHandler(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	entries := []TrailEntry{
		{From: "Agency 1", To: "Agency 1", IsOrigin: true, Status: TrailCompleted},
		{From: "Agency 1", To: "Agency 2", Status: TrailPending},
	}
	service.On("Trail", mock.Anything, "DOC-AB12CD34").Return(entries, nil)

	w := performRequest(router, http.MethodGet, "/documents/DOC-AB12CD34/trails", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []TrailEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.True(t, body.Data[0].IsOrigin)
}
