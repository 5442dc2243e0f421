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

// SessionHandler exposes the active session's operations and the persisted
// result/review projections.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// AnswerRequest records an option for a question. Index is bound as a
// pointer so index 0 passes required validation.
type AnswerRequest struct {
	Index  *int   `json:"index" binding:"required,min=0"`
	Option string `json:"option" binding:"required,min=1,max=10"`
}

// IndexRequest targets a question by index (mark, navigate).
type IndexRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}

// GetState godoc
// GET /api/v1/session
func (h *SessionHandler) GetState(c *gin.Context) {
	view, err := h.sessionService.State()
	if err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Resume godoc
// POST /api/v1/session/resume
// Restores the session from its persisted snapshot. A missing or corrupt
// snapshot yields a redirect hint to the home screen, never a crash.
func (h *SessionHandler) Resume(c *gin.Context) {
	view, err := h.sessionService.Resume(c.Request.Context())
	if err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Answer godoc
// POST /api/v1/session/answer
func (h *SessionHandler) Answer(c *gin.Context) {
	var req AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.sessionService.Answer(c.Request.Context(), *req.Index, req.Option)
	if err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Mark godoc
// POST /api/v1/session/mark
func (h *SessionHandler) Mark(c *gin.Context) {
	var req IndexRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.sessionService.Mark(c.Request.Context(), *req.Index)
	if err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Navigate godoc
// POST /api/v1/session/navigate
func (h *SessionHandler) Navigate(c *gin.Context) {
	var req IndexRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.sessionService.Navigate(c.Request.Context(), *req.Index)
	if err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Submit godoc
// POST /api/v1/session/submit
// Ends the session and returns the result summary. The confirmation
// dialog is the frontend's job; this call is final.
func (h *SessionHandler) Submit(c *gin.Context) {
	summary, err := h.sessionService.Submit(c.Request.Context())
	if err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": summary})
}

// LatestResult godoc
// GET /api/v1/results/latest
func (h *SessionHandler) LatestResult(c *gin.Context) {
	snap, err := h.sessionService.LatestResult(c.Request.Context())
	if err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

// LatestReview godoc
// GET /api/v1/review/latest
func (h *SessionHandler) LatestReview(c *gin.Context) {
	record, err := h.sessionService.LatestReview(c.Request.Context())
	if err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, record)
}

// failSession maps core errors to typed API codes. Recoverable failures
// (missing/corrupt snapshots) carry a safe redirect target instead of a
// hard error page.
func failSession(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveSession):
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
	case errors.Is(err, session.ErrSnapshotMissing):
		response.Fail(c, http.StatusNotFound, response.ErrSnapshotMissing)
	case errors.Is(err, session.ErrSnapshotCorrupt):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrSnapshotCorrupt)
	case errors.Is(err, session.ErrSessionSubmitted):
		response.Fail(c, http.StatusConflict, response.ErrSessionSubmitted)
	case errors.Is(err, session.ErrInvalidOption):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidOption)
	case errors.Is(err, session.ErrIndexOutOfRange):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidIndex)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
