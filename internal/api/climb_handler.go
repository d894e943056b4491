package api

import (
	"climblog/climbing-app/internal/domain"
	"climblog/climbing-app/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ClimbHandler struct {
	climbService service.ClimbService
}

func NewClimbHandler(climbService service.ClimbService) *ClimbHandler {
	return &ClimbHandler{climbService: climbService}
}

// LogClimbRequest is a new climb. Grade is in the caller's preferred notation.
type LogClimbRequest struct {
	ID       string            `json:"id" binding:"omitempty,uuid"`
	Name     string            `json:"name" binding:"max=100"`
	Type     domain.ClimbType  `json:"type" binding:"required,oneof=Boulder 'Top Rope' Lead"`
	Style    domain.ClimbStyle `json:"style" binding:"required,oneof=Slab Vertical Overhang Cave"`
	Grade    string            `json:"grade" binding:"required"`
	Attempts int               `json:"attempts" binding:"required,min=1"`
	Send     bool              `json:"send"`
}

type UpdateClimbRequest struct {
	Name     *string            `json:"name" binding:"omitempty,max=100"`
	Type     *domain.ClimbType  `json:"type" binding:"omitempty,oneof=Boulder 'Top Rope' Lead"`
	Style    *domain.ClimbStyle `json:"style" binding:"omitempty,oneof=Slab Vertical Overhang Cave"`
	Grade    *string            `json:"grade" binding:"omitempty,min=1"`
	Attempts *int               `json:"attempts" binding:"omitempty,min=1"`
	Send     *bool              `json:"send"`
}

// LogClimb godoc
// @Summary Log a climb in the open session
// @Description Opens a new session when the caller has none.
// @Tags Climbs
// @Accept json
// @Produce json
// @Param climb body LogClimbRequest true "Climb"
// @Success 201 {object} service.ClimbView
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Climb ID already used"
// @Security BearerAuth
// @Router /session/climbs [post]
func (h *ClimbHandler) LogClimb(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req LogClimbRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	climb, err := h.climbService.LogClimb(c.Request.Context(), userID, service.LogClimbInput{
		ID:       req.ID,
		Name:     req.Name,
		Type:     req.Type,
		Style:    req.Style,
		Grade:    req.Grade,
		Attempts: req.Attempts,
		Send:     req.Send,
	})
	if err != nil {
		respondError(c, err, "log the climb")
		return
	}
	c.JSON(http.StatusCreated, climb)
}

// UpdateClimb godoc
// @Summary Edit a climb in the open session
// @Tags Climbs
// @Accept json
// @Produce json
// @Param climbId path string true "Climb ID"
// @Param climb body UpdateClimbRequest true "Fields to change"
// @Success 200 {object} service.ClimbView
// @Failure 409 {object} gin.H "Session already completed"
// @Security BearerAuth
// @Router /climbs/{climbId} [patch]
func (h *ClimbHandler) UpdateClimb(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UpdateClimbRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	climb, err := h.climbService.UpdateClimb(c.Request.Context(), userID, c.Param("climbId"), service.ClimbPatch{
		Name:     req.Name,
		Type:     req.Type,
		Style:    req.Style,
		Grade:    req.Grade,
		Attempts: req.Attempts,
		Send:     req.Send,
	})
	if err != nil {
		respondError(c, err, "update the climb")
		return
	}
	c.JSON(http.StatusOK, climb)
}

// DeleteClimb godoc
// @Summary Remove a climb from the open session
// @Tags Climbs
// @Param climbId path string true "Climb ID"
// @Success 204
// @Security BearerAuth
// @Router /climbs/{climbId} [delete]
func (h *ClimbHandler) DeleteClimb(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.climbService.DeleteClimb(c.Request.Context(), userID, c.Param("climbId")); err != nil {
		respondError(c, err, "delete the climb")
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestClimbImageURL godoc
// @Summary Get a presigned URL to upload a climb photo
// @Tags Climbs
// @Accept json
// @Produce json
// @Param climbId path string true "Climb ID"
// @Param request body UploadURLRequest true "Image content type"
// @Success 200 {object} service.UploadURLResponse
// @Security BearerAuth
// @Router /climbs/{climbId}/image/upload-url [post]
func (h *ClimbHandler) RequestClimbImageURL(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	resp, err := h.climbService.RequestClimbImageURL(c.Request.Context(), userID, c.Param("climbId"), req.ContentType)
	if err != nil {
		respondError(c, err, "create upload URL")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmClimbImage godoc
// @Summary Attach an uploaded photo to a climb
// @Tags Climbs
// @Accept json
// @Produce json
// @Param climbId path string true "Climb ID"
// @Param request body ConfirmUploadRequest true "Uploaded object"
// @Success 200 {object} service.ClimbView
// @Security BearerAuth
// @Router /climbs/{climbId}/image/confirm [post]
func (h *ClimbHandler) ConfirmClimbImage(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	climb, err := h.climbService.ConfirmClimbImage(c.Request.Context(), userID, c.Param("climbId"), req.ObjectKey, req.FileName, req.ContentType, req.Size)
	if err != nil {
		respondError(c, err, "confirm upload")
		return
	}
	c.JSON(http.StatusOK, climb)
}

// GetGrades godoc
// @Summary List grades for a climb type in the caller's notation
// @Tags Climbs
// @Produce json
// @Param type query string true "Boulder, Top Rope or Lead"
// @Success 200 {object} service.GradeOptions
// @Security BearerAuth
// @Router /grades [get]
func (h *ClimbHandler) GetGrades(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	climbType := domain.ClimbType(c.Query("type"))
	opts, err := h.climbService.GradeOptions(c.Request.Context(), userID, climbType)
	if err != nil {
		respondError(c, err, "list grades")
		return
	}
	c.JSON(http.StatusOK, opts)
}
