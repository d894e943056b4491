package api

import (
	"climblog/climbing-app/internal/domain"
	"climblog/climbing-app/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest carries only the fields to change.
type UpdateProfileRequest struct {
	GradingPreference *bool    `json:"gradingPreference"`
	MeasurementSystem *bool    `json:"measurementSystem"`
	FullName          *string  `json:"fullName" binding:"omitempty,max=100"`
	Age               *int     `json:"age"`
	Height            *float64 `json:"height"`
	Weight            *float64 `json:"weight"`
	ApeIndex          *float64 `json:"apeIndex"`
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"gte=0"`
}

// GetMe godoc
// @Summary Get the caller's profile
// @Tags Profile
// @Produce json
// @Success 200 {object} service.Profile
// @Security BearerAuth
// @Router /me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "retrieve profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary Update grading preference, units and body measurements
// @Tags Profile
// @Accept json
// @Produce json
// @Param profile body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} service.Profile
// @Security BearerAuth
// @Router /me [patch]
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, domain.ProfileUpdate{
		GradingPreference: req.GradingPreference,
		MeasurementSystem: req.MeasurementSystem,
		FullName:          req.FullName,
		Age:               req.Age,
		Height:            req.Height,
		Weight:            req.Weight,
		ApeIndex:          req.ApeIndex,
	})
	if err != nil {
		respondError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DeleteMe godoc
// @Summary Delete the caller's account and everything logged under it
// @Tags Profile
// @Success 204
// @Security BearerAuth
// @Router /me [delete]
func (h *ProfileHandler) DeleteMe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.profileService.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, err, "delete account")
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestProfileImageURL godoc
// @Summary Get a presigned URL to upload a profile picture
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body UploadURLRequest true "Image content type"
// @Success 200 {object} service.UploadURLResponse
// @Security BearerAuth
// @Router /me/profile-image/upload-url [post]
func (h *ProfileHandler) RequestProfileImageURL(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	resp, err := h.profileService.RequestProfileImageURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		respondError(c, err, "create upload URL")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmProfileImage godoc
// @Summary Attach an uploaded picture to the profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body ConfirmUploadRequest true "Uploaded object"
// @Success 200 {object} service.Profile
// @Security BearerAuth
// @Router /me/profile-image/confirm [post]
func (h *ProfileHandler) ConfirmProfileImage(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	profile, err := h.profileService.ConfirmProfileImage(c.Request.Context(), userID, req.ObjectKey, req.FileName, req.ContentType, req.Size)
	if err != nil {
		respondError(c, err, "confirm upload")
		return
	}
	c.JSON(http.StatusOK, profile)
}
