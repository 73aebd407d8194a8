package dto

import (
	"time"

	"github.com/deniz/campuslink/internal/app/models"
)

// CreateEventRequest is the organizer's event creation payload
type CreateEventRequest struct {
	Title                string    `json:"title" binding:"required"`
	Description          *string   `json:"description,omitempty"`
	EventType            string    `json:"eventType" binding:"required"`
	StartDate            time.Time `json:"startDate" binding:"required"`
	EndDate              time.Time `json:"endDate" binding:"required"`
	Location             string    `json:"location" binding:"required"`
	MaxParticipants      int       `json:"maxParticipants" binding:"required,min=1"`
	Credits              int       `json:"credits" binding:"gte=0"`
	RegistrationDeadline time.Time `json:"registrationDeadline" binding:"required"`
}

// UpdateEventStatusRequest moves an event to a new status
type UpdateEventStatusRequest struct {
	Status models.EventStatus `json:"status" binding:"required,oneof=upcoming ongoing completed cancelled"`
}

// EventResponse decorates an event with derived, read-only state
type EventResponse struct {
	models.Event
	IsOverdue        bool                      `json:"isOverdue"`
	ParticipantCount int                       `json:"participantCount"`
	Participants     []models.EventParticipant `json:"participants,omitempty"`
}

// OpenEventResponse is the student-facing browse shape
type OpenEventResponse struct {
	models.Event
	IsOverdue        bool `json:"isOverdue"`
	ParticipantCount int  `json:"participantCount"`
	IsRegistered     bool `json:"isRegistered"`
}
