package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/deniz/campuslink/internal/app/models"
)

// SubmitAchievementRequest is the student submission payload
type SubmitAchievementRequest struct {
	CategoryID   string    `json:"categoryId" binding:"required"`
	Title        string    `json:"title" binding:"required"`
	Description  *string   `json:"description,omitempty"`
	DateAchieved time.Time `json:"dateAchieved" binding:"required"`
	SkillTags    []string  `json:"skillTags,omitempty"`
	IsPublic     *bool     `json:"isPublic,omitempty"`
}

// DecideAchievementRequest is the faculty decision payload. Credits is
// required for approvals, RejectionReason for rejections.
type DecideAchievementRequest struct {
	Status          models.AchievementStatus `json:"status" binding:"required,oneof=approved rejected"`
	Credits         *int                     `json:"credits,omitempty"`
	RejectionReason *string                  `json:"rejectionReason,omitempty"`
}

// AchievementFilter scopes an achievement listing
type AchievementFilter struct {
	Status    *models.AchievementStatus
	StudentID *uuid.UUID
}

// DecisionResponse is returned after a faculty decision
type DecisionResponse struct {
	Achievement *models.Achievement `json:"achievement"`
	Message     string              `json:"message" example:"Achievement approved"`
}
