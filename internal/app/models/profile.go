package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile defines the base profile model backed by the 'profiles' table.
// Its ID is the identity provider's subject, so one row exists per
// authenticated identity.
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"fullName" db:"full_name"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Student defines the student model backed by the 'students' table
type Student struct {
	ID               uuid.UUID `json:"id" db:"id"`
	ProfileID        uuid.UUID `json:"profileId" db:"profile_id"`
	RollNumber       *string   `json:"rollNumber,omitempty" db:"roll_number"`
	Department       *string   `json:"department,omitempty" db:"department"`
	YearOfStudy      *int      `json:"yearOfStudy,omitempty" db:"year_of_study"`
	TotalCredits     int       `json:"totalCredits" db:"total_credits"`
	AchievementCount int       `json:"achievementCount" db:"achievement_count"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	Profile          *Profile  `json:"profile,omitempty"` // relation, no db tag
}

// Faculty defines the faculty model backed by the 'faculty' table.
// CanApproveAchievements and MaxCreditValue together form the approval
// permission record: the flag gates approval at all, the ceiling (when set)
// caps how many credits a single approval may award.
type Faculty struct {
	ID                     uuid.UUID `json:"id" db:"id"`
	ProfileID              uuid.UUID `json:"profileId" db:"profile_id"`
	Department             *string   `json:"department,omitempty" db:"department"`
	Designation            *string   `json:"designation,omitempty" db:"designation"`
	CanApproveAchievements bool      `json:"canApproveAchievements" db:"can_approve_achievements"`
	MaxCreditValue         *int      `json:"maxCreditValue,omitempty" db:"max_credit_value"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
	Profile                *Profile  `json:"profile,omitempty"` // relation, no db tag
}

// Recruiter defines the recruiter model backed by the 'recruiters' table
type Recruiter struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ProfileID      uuid.UUID `json:"profileId" db:"profile_id"`
	CompanyName    string    `json:"companyName" db:"company_name"`
	CompanyWebsite *string   `json:"companyWebsite,omitempty" db:"company_website"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	Profile        *Profile  `json:"profile,omitempty"` // relation, no db tag
}

// Institution defines the institution model backed by the 'institutions'
// table. An institution admin owns exactly one institution record, keyed by
// owner_id.
type Institution struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"ownerId" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Code      *string   `json:"code,omitempty" db:"code"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
