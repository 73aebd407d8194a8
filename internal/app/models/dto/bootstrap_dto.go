package dto

import (
	"github.com/google/uuid"

	"github.com/deniz/campuslink/internal/app/models"
)

// BootstrapResponse is returned by the first-login bootstrap call
type BootstrapResponse struct {
	ProfileID   uuid.UUID   `json:"profile_id"`
	Role        models.Role `json:"role" example:"student"`
	RedirectURL string      `json:"redirect_url" example:"/dashboard/student"`
}

// ProfileResponse bundles the base profile with its role-specific row.
// RoleData is nil when the role row has not been materialized yet; callers
// treat that as an incomplete profile, not an error.
type ProfileResponse struct {
	Profile  *models.Profile `json:"profile"`
	RoleData interface{}     `json:"role_data,omitempty"`
}
