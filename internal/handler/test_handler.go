package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sscprep/mocktest-backend/internal/response"
	"github.com/sscprep/mocktest-backend/internal/service"
	"github.com/sscprep/mocktest-backend/internal/session"
	"github.com/sscprep/mocktest-backend/internal/validator"
)

// TestHandler starts sessions over the different test-set strategies.
type TestHandler struct {
	sessionService *service.SessionService
}

// NewTestHandler creates a new TestHandler.
func NewTestHandler(sessionService *service.SessionService) *TestHandler {
	return &TestHandler{sessionService: sessionService}
}

// StartRandomRequest is the payload for starting a random-draw test.
type StartRandomRequest struct {
	Size int `json:"size" binding:"required,min=1,max=200"`
}

// StartSubjectRequest is the payload for starting a subject-wise test.
type StartSubjectRequest struct {
	Subject string `json:"subject" binding:"required,min=1,max=100"`
	Size    int    `json:"size" binding:"required,min=1,max=200"`
}

// StartRandom godoc
// POST /api/v1/tests/random
func (h *TestHandler) StartRandom(c *gin.Context) {
	var req StartRandomRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.sessionService.StartRandom(c.Request.Context(), req.Size)
	if err != nil {
		failStart(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

// StartSubject godoc
// POST /api/v1/tests/subject
// Oversized requests are capped at the category's available count.
func (h *TestHandler) StartSubject(c *gin.Context) {
	var req StartSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.sessionService.StartSubject(c.Request.Context(), req.Subject, req.Size)
	if err != nil {
		failStart(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

// StartMock godoc
// POST /api/v1/tests/mocks/:id/start
func (h *TestHandler) StartMock(c *gin.Context) {
	view, err := h.sessionService.StartMock(c.Request.Context(), c.Param("id"))
	if err != nil {
		failStart(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

// StartQuickPractice godoc
// POST /api/v1/tests/quick-practice/start
func (h *TestHandler) StartQuickPractice(c *gin.Context) {
	view, err := h.sessionService.StartQuickPractice(c.Request.Context())
	if err != nil {
		failStart(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

func failStart(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTestSetNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrUnknownTestSet)
	case errors.Is(err, session.ErrEmptyTestSet):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoQuestions)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
