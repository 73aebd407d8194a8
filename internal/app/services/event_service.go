package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/deniz/campuslink/internal/app/models"
	"github.com/deniz/campuslink/internal/app/models/dto"
	"github.com/deniz/campuslink/internal/pkg/apperrors"
	"github.com/deniz/campuslink/internal/pkg/auth"
)

// EventService defines the interface for the event lifecycle
type EventService interface {
	Create(ctx context.Context, identity *auth.Identity, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	UpdateStatus(ctx context.Context, identity *auth.Identity, eventID uuid.UUID, status models.EventStatus) (*dto.EventResponse, error)
	ListMine(ctx context.Context, identity *auth.Identity, status *models.EventStatus) ([]dto.EventResponse, error)
	ListOpen(ctx context.Context, identity *auth.Identity) ([]dto.OpenEventResponse, error)
	Register(ctx context.Context, identity *auth.Identity, eventID uuid.UUID) (*models.EventParticipant, error)
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	eventRepo   EventStore
	profileRepo ProfileStore
}

// NewEventService creates a new EventService
func NewEventService(eventRepo EventStore, profileRepo ProfileStore) EventService {
	return &eventServiceImpl{
		eventRepo:   eventRepo,
		profileRepo: profileRepo,
	}
}

// Create validates the event window and persists a new upcoming event owned
// by the caller. Ordering: registration deadline must not be in the past,
// the event cannot start before registration closes, and it cannot end
// before it starts.
func (s *eventServiceImpl) Create(ctx context.Context, identity *auth.Identity, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if identity.Role != models.RoleFaculty && identity.Role != models.RoleInstitutionAdmin {
		return nil, apperrors.NewForbiddenError("only faculty and institution admins can create events")
	}

	now := time.Now()
	if req.RegistrationDeadline.Before(now) {
		return nil, apperrors.NewValidationError("registration deadline cannot be in the past")
	}
	if req.StartDate.Before(req.RegistrationDeadline) {
		return nil, apperrors.NewValidationError("event cannot start before its registration deadline")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, apperrors.NewValidationError("event cannot end before it starts")
	}
	if req.MaxParticipants < 1 {
		return nil, apperrors.NewValidationError("maxParticipants must be at least 1")
	}
	if req.Credits < 0 {
		return nil, apperrors.NewValidationError("credits must be non-negative")
	}

	event := &models.Event{
		OrganizerID:          identity.ID,
		Title:                req.Title,
		Description:          req.Description,
		EventType:            req.EventType,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Location:             req.Location,
		MaxParticipants:      req.MaxParticipants,
		Credits:              req.Credits,
		RegistrationDeadline: req.RegistrationDeadline,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return s.toEventResponse(event, nil), nil
}

// UpdateStatus moves one of the caller's events to a new status. Any state is
// reachable from any other; only ownership is checked.
func (s *eventServiceImpl) UpdateStatus(ctx context.Context, identity *auth.Identity, eventID uuid.UUID, status models.EventStatus) (*dto.EventResponse, error) {
	event, err := s.eventRepo.UpdateStatus(ctx, eventID, identity.ID, status)
	if err != nil {
		return nil, err
	}

	participants, err := s.eventRepo.GetParticipants(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return s.toEventResponse(event, participants), nil
}

// ListMine returns the caller's events with their participant lists joined in
func (s *eventServiceImpl) ListMine(ctx context.Context, identity *auth.Identity, status *models.EventStatus) ([]dto.EventResponse, error) {
	events, err := s.eventRepo.ListByOrganizer(ctx, identity.ID, status)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		participants, err := s.eventRepo.GetParticipants(ctx, events[i].ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *s.toEventResponse(&events[i], participants))
	}

	return responses, nil
}

// ListOpen returns upcoming events for student browsing, annotated with the
// caller's registration state when the caller is a student.
func (s *eventServiceImpl) ListOpen(ctx context.Context, identity *auth.Identity) ([]dto.OpenEventResponse, error) {
	events, err := s.eventRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(events))
	for i := range events {
		ids = append(ids, events[i].ID)
	}

	counts, err := s.eventRepo.CountParticipants(ctx, ids)
	if err != nil {
		return nil, err
	}

	registered := map[uuid.UUID]bool{}
	if identity.Role == models.RoleStudent {
		student, err := s.profileRepo.GetStudentByProfileID(ctx, identity.ID)
		if err == nil {
			registered, err = s.eventRepo.RegisteredEventIDs(ctx, student.ID, ids)
			if err != nil {
				return nil, err
			}
		} else if !isMissingRoleRow(err) {
			return nil, err
		}
	}

	now := time.Now()
	responses := make([]dto.OpenEventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, dto.OpenEventResponse{
			Event:            events[i],
			IsOverdue:        events[i].IsOverdue(now),
			ParticipantCount: counts[events[i].ID],
			IsRegistered:     registered[events[i].ID],
		})
	}

	return responses, nil
}

// Register signs the calling student up for an event
func (s *eventServiceImpl) Register(ctx context.Context, identity *auth.Identity, eventID uuid.UUID) (*models.EventParticipant, error) {
	student, err := s.profileRepo.GetStudentByProfileID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	return s.eventRepo.Register(ctx, eventID, student.ID, time.Now())
}

func (s *eventServiceImpl) toEventResponse(event *models.Event, participants []models.EventParticipant) *dto.EventResponse {
	return &dto.EventResponse{
		Event:            *event,
		IsOverdue:        event.IsOverdue(time.Now()),
		ParticipantCount: len(participants),
		Participants:     participants,
	}
}
