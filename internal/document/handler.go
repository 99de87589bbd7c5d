package document

import (
	"net/http"
	"strconv"

	"github.com/tonzxz/ipophil-dms-sub000/internal/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func actorFromContext(c *gin.Context) Actor {
	userID, _ := c.Get("user_id")
	agencyID, _ := c.Get("agency_id")
	userName, _ := c.Get("user_name")

	actor := Actor{}
	if id, ok := userID.(uint64); ok {
		actor.UserID = id
	}
	if id, ok := agencyID.(uint64); ok {
		actor.AgencyID = id
	}
	if name, ok := userName.(string); ok {
		actor.Name = name
	}
	return actor
}

func getPaginationParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	return page, pageSize
}

type CreateDocumentRequest struct {
	Title          string `json:"title" binding:"required,min=1,max=255"`
	Classification string `json:"classification" binding:"required,oneof=simple complex highly_technical"`
	Type           string `json:"type" binding:"required,max=64"`
	Remarks        string `json:"remarks"`
}

func (h *Handler) Create(c *gin.Context) {
	var form CreateDocumentRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	doc, err := h.service.CreateDocument(c.Request.Context(), CreateDocumentInput{
		Title:          form.Title,
		Classification: Classification(form.Classification),
		Type:           form.Type,
		Remarks:        form.Remarks,
	}, actorFromContext(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) List(c *gin.Context) {
	page, pageSize := getPaginationParams(c)
	filter := c.Query("status")

	result, err := h.service.ListForOffice(c.Request.Context(), actorFromContext(c), filter, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Show(c *gin.Context) {
	doc, err := h.service.GetByCode(c.Request.Context(), c.Param("code"), actorFromContext(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) ShowTrail(c *gin.Context) {
	entries, err := h.service.Trail(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

type ReleaseRequest struct {
	ToAgencyID uint64 `json:"to_agency_id" binding:"required"`
	ActionID   uint64 `json:"action_id" binding:"required"`
	Remarks    string `json:"remarks"`
}

func (h *Handler) Release(c *gin.Context) {
	var form ReleaseRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	doc, err := h.service.Release(c.Request.Context(), c.Param("code"), ReleaseInput{
		ToAgencyID: form.ToAgencyID,
		ActionID:   form.ActionID,
		Remarks:    form.Remarks,
	}, actorFromContext(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

type ReceiveRequest struct {
	ActionTakenID uint64 `json:"action_id" binding:"required"`
	Remarks       string `json:"remarks"`
}

func (h *Handler) Receive(c *gin.Context) {
	var form ReceiveRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	doc, err := h.service.Receive(c.Request.Context(), c.Param("code"), ReceiveInput{
		ActionTakenID: form.ActionTakenID,
		Remarks:       form.Remarks,
	}, actorFromContext(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

type CompleteRequest struct {
	Remarks string `json:"remarks" binding:"required,min=1"`
}

func (h *Handler) Complete(c *gin.Context) {
	var form CompleteRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	doc, err := h.service.Complete(c.Request.Context(), c.Param("code"), CompleteInput{
		Remarks: form.Remarks,
	}, actorFromContext(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Cancel(c *gin.Context) {
	doc, err := h.service.Cancel(c.Request.Context(), c.Param("code"), actorFromContext(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}
