package models

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus defines the event lifecycle states. Transitions are
// organizer-driven and unrestricted; no state is terminal.
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// Event defines the event model backed by the 'events' table
type Event struct {
	ID                   uuid.UUID   `json:"id" db:"id"`
	OrganizerID          uuid.UUID   `json:"organizerId" db:"organizer_id"`
	Title                string      `json:"title" db:"title"`
	Description          *string     `json:"description,omitempty" db:"description"`
	EventType            string      `json:"eventType" db:"event_type"`
	StartDate            time.Time   `json:"startDate" db:"start_date"`
	EndDate              time.Time   `json:"endDate" db:"end_date"`
	Location             string      `json:"location" db:"location"`
	MaxParticipants      int         `json:"maxParticipants" db:"max_participants"`
	Credits              int         `json:"credits" db:"credits"`
	RegistrationDeadline time.Time   `json:"registrationDeadline" db:"registration_deadline"`
	Status               EventStatus `json:"status" db:"status"`
	CreatedAt            time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time   `json:"updatedAt" db:"updated_at"`
}

// IsOverdue reports whether the event's end date has passed while its status
// still says otherwise. Status changes are manual, so an event past its end
// date can legitimately sit in "upcoming"; this derived flag surfaces that
// without mutating anything.
func (e *Event) IsOverdue(now time.Time) bool {
	if e.Status == EventCompleted || e.Status == EventCancelled {
		return false
	}
	return now.After(e.EndDate)
}

// EventParticipant defines a registration row in the 'event_participants'
// table. Existence of a row implies registration; the (event_id, student_id)
// unique constraint rules out double registration.
type EventParticipant struct {
	ID           uuid.UUID `json:"id" db:"id"`
	EventID      uuid.UUID `json:"eventId" db:"event_id"`
	StudentID    uuid.UUID `json:"studentId" db:"student_id"`
	RegisteredAt time.Time `json:"registeredAt" db:"registered_at"`

	// Joined from the student's profile for organizer views.
	ProfileID uuid.UUID `json:"profileId,omitempty" db:"profile_id"`
	FullName  string    `json:"fullName,omitempty" db:"full_name"`
	Email     string    `json:"email,omitempty" db:"email"`
}
