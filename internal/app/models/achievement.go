package models

import (
	"time"

	"github.com/google/uuid"
)

// AchievementStatus defines the achievement lifecycle states. Pending is the
// only non-terminal state; a decided achievement never transitions again.
type AchievementStatus string

const (
	AchievementPending  AchievementStatus = "pending"
	AchievementApproved AchievementStatus = "approved"
	AchievementRejected AchievementStatus = "rejected"
)

// AchievementCategory defines a row of the seeded 'achievement_categories'
// table.
type AchievementCategory struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// Achievement defines the achievement model backed by the 'achievements'
// table. Credits stay zero until a faculty approval sets them; the table's
// check constraint enforces that credits > 0 implies approved status.
type Achievement struct {
	ID              uuid.UUID         `json:"id" db:"id"`
	StudentID       uuid.UUID         `json:"studentId" db:"student_id"`
	CategoryID      string            `json:"categoryId" db:"category_id"`
	Title           string            `json:"title" db:"title"`
	Description     *string           `json:"description,omitempty" db:"description"`
	DateAchieved    time.Time         `json:"dateAchieved" db:"date_achieved"`
	SkillTags       []string          `json:"skillTags" db:"skill_tags"`
	Status          AchievementStatus `json:"status" db:"status"`
	Credits         int               `json:"credits" db:"credits"`
	RejectionReason *string           `json:"rejectionReason,omitempty" db:"rejection_reason"`
	ApprovedBy      *uuid.UUID        `json:"approvedBy,omitempty" db:"approved_by"` // profile id of the deciding faculty member
	ApprovedAt      *time.Time        `json:"approvedAt,omitempty" db:"approved_at"`
	IsPublic        bool              `json:"isPublic" db:"is_public"`
	CreatedAt       time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time         `json:"updatedAt" db:"updated_at"`
	Student         *Student          `json:"student,omitempty"` // relation, no db tag
}
