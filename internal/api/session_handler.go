package api

import (
	"climblog/climbing-app/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// UpdateSessionRequest edits the open session. Sending "completed": true ends it.
type UpdateSessionRequest struct {
	SessionName *string `json:"sessionName" binding:"omitempty,max=100"`
	Intensity   *int    `json:"intensity" binding:"omitempty,min=0,max=10"`
	Notes       *string `json:"notes" binding:"omitempty,max=2000"`
	Completed   *bool   `json:"completed"`
}

// GetCurrentSession godoc
// @Summary Get the open session and its climbs
// @Description Returns a null session when nothing has been logged since the last completed one.
// @Tags Sessions
// @Produce json
// @Success 200 {object} service.SessionWithClimbs
// @Security BearerAuth
// @Router /session [get]
func (h *SessionHandler) GetCurrentSession(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	current, err := h.sessionService.CurrentSession(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoOpenSession) {
			c.JSON(http.StatusOK, gin.H{"session": nil, "climbs": []service.ClimbView{}})
			return
		}
		respondError(c, err, "retrieve the current session")
		return
	}
	c.JSON(http.StatusOK, current)
}

// UpdateCurrentSession godoc
// @Summary Edit or complete the open session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session body UpdateSessionRequest true "Fields to change"
// @Success 200 {object} service.SessionView
// @Failure 404 {object} gin.H "No open session"
// @Security BearerAuth
// @Router /session [patch]
func (h *SessionHandler) UpdateCurrentSession(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	view, err := h.sessionService.UpdateCurrentSession(c.Request.Context(), userID, service.SessionUpdate{
		SessionName: req.SessionName,
		Intensity:   req.Intensity,
		Notes:       req.Notes,
		Completed:   req.Completed,
	})
	if err != nil {
		respondError(c, err, "update the session")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListSessions godoc
// @Summary List the caller's sessions, newest first
// @Tags Sessions
// @Produce json
// @Success 200 {array} service.SessionView
// @Security BearerAuth
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	sessions, err := h.sessionService.ListSessions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "list sessions")
		return
	}
	if sessions == nil {
		sessions = []service.SessionView{}
	}
	c.JSON(http.StatusOK, sessions)
}

// GetSession godoc
// @Summary Get one session with its climbs
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} service.SessionWithClimbs
// @Security BearerAuth
// @Router /sessions/{sessionId} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}
	detail, err := h.sessionService.SessionDetail(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, err, "retrieve the session")
		return
	}
	c.JSON(http.StatusOK, detail)
}
