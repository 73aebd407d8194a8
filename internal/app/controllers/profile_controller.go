package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/campuslink/internal/app/models/dto"
	"github.com/deniz/campuslink/internal/app/services"
	"github.com/deniz/campuslink/internal/middleware"
	"github.com/deniz/campuslink/internal/pkg/apperrors"
)

// ProfileController handles bootstrap and profile operations
type ProfileController struct {
	profileService services.ProfileService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// Bootstrap handles first-contact profile provisioning
// @Summary Bootstrap the caller's profile
// @Description Upserts the profile and role row for the authenticated session and returns the role dashboard redirect
// @Tags bootstrap
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.BootstrapResponse} "Profile bootstrapped"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /bootstrap [post]
func (c *ProfileController) Bootstrap(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	response, err := c.profileService.Bootstrap(ctx, identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetProfile handles retrieving the caller's profile with role data
// @Summary Get the caller's profile
// @Description Retrieves the authenticated caller's profile together with their role-specific row
// @Tags bootstrap
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile retrieved"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /bootstrap [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	response, err := c.profileService.GetProfile(ctx, identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
