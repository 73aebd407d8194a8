package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/campuslink/internal/app/models"
	"github.com/deniz/campuslink/internal/db"
	"github.com/deniz/campuslink/internal/pkg/apperrors"
	"github.com/deniz/campuslink/internal/pkg/dberrors"
	"github.com/deniz/campuslink/internal/pkg/logger"
)

var eventColumns = []string{
	"id", "organizer_id", "title", "description", "event_type", "start_date",
	"end_date", "location", "max_participants", "credits",
	"registration_deadline", "status", "created_at", "updated_at",
}

// EventRepository handles event and participation database operations
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.EventType,
		&e.StartDate, &e.EndDate, &e.Location, &e.MaxParticipants, &e.Credits,
		&e.RegistrationDeadline, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event; events always start upcoming
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	event.ID = uuid.New()
	event.Status = models.EventUpcoming

	sql, args, err := r.sb.Insert("events").
		Columns("id", "organizer_id", "title", "description", "event_type",
			"start_date", "end_date", "location", "max_participants", "credits",
			"registration_deadline", "status").
		Values(event.ID, event.OrganizerID, event.Title, event.Description,
			event.EventType, event.StartDate, event.EndDate, event.Location,
			event.MaxParticipants, event.Credits, event.RegistrationDeadline,
			event.Status).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create event SQL")
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Str("organizerID", event.OrganizerID.String()).Msg("Error executing create event query")
		return fmt.Errorf("error creating event: %w", err)
	}

	logger.Info().Str("eventID", event.ID.String()).Str("title", event.Title).Msg("Event created")
	return nil
}

// GetByID retrieves an event by id
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Str("eventID", id.String()).Msg("Error scanning event row")
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}

	return event, nil
}

// UpdateStatus moves an event to a new status. The update is scoped to the
// organizer, which is the only authorization check: matching zero rows means
// either a missing event or someone else's event.
func (r *EventRepository) UpdateStatus(ctx context.Context, eventID, organizerID uuid.UUID, status models.EventStatus) (*models.Event, error) {
	sql, args, err := r.sb.Update("events").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": eventID, "organizer_id": organizerID}).
		Suffix("RETURNING " + joinColumns(eventColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update event status query: %w", err)
	}

	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyStatusMiss(ctx, eventID)
		}
		logger.Error().Err(err).Str("eventID", eventID.String()).Msg("Error updating event status")
		return nil, fmt.Errorf("error updating event status: %w", err)
	}

	logger.Info().Str("eventID", eventID.String()).Str("status", string(status)).Msg("Event status updated")
	return event, nil
}

func (r *EventRepository) classifyStatusMiss(ctx context.Context, eventID uuid.UUID) error {
	sql, args, err := r.sb.Select("1").
		From("events").
		Where(squirrel.Eq{"id": eventID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build event exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return fmt.Errorf("error checking event existence: %w", err)
	}
	if !exists {
		return apperrors.ErrEventNotFound
	}
	return apperrors.ErrNotEventOrganizer
}

// ListByOrganizer retrieves an organizer's events, optionally filtered by
// status, newest first.
func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID, status *models.EventStatus) ([]models.Event, error) {
	builder := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"organizer_id": organizerID}).
		OrderBy("start_date DESC")

	if status != nil {
		builder = builder.Where(squirrel.Eq{"status": *status})
	}

	return r.queryEvents(ctx, builder)
}

// ListOpen retrieves upcoming events for student browsing, soonest first
func (r *EventRepository) ListOpen(ctx context.Context) ([]models.Event, error) {
	builder := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"status": models.EventUpcoming}).
		OrderBy("start_date ASC")

	return r.queryEvents(ctx, builder)
}

func (r *EventRepository) queryEvents(ctx context.Context, builder squirrel.SelectBuilder) ([]models.Event, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list events query")
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, *event)
	}

	return events, rows.Err()
}

// GetParticipants retrieves an event's registrations joined with each
// student's profile for organizer views.
func (r *EventRepository) GetParticipants(ctx context.Context, eventID uuid.UUID) ([]models.EventParticipant, error) {
	sql, args, err := r.sb.Select(
		"ep.id", "ep.event_id", "ep.student_id", "ep.registered_at",
		"p.id", "p.full_name", "p.email").
		From("event_participants ep").
		Join("students s ON s.id = ep.student_id").
		Join("profiles p ON p.id = s.profile_id").
		Where(squirrel.Eq{"ep.event_id": eventID}).
		OrderBy("ep.registered_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get participants query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("eventID", eventID.String()).Msg("Error executing get participants query")
		return nil, fmt.Errorf("error listing participants: %w", err)
	}
	defer rows.Close()

	participants := make([]models.EventParticipant, 0)
	for rows.Next() {
		var p models.EventParticipant
		err := rows.Scan(&p.ID, &p.EventID, &p.StudentID, &p.RegisteredAt,
			&p.ProfileID, &p.FullName, &p.Email)
		if err != nil {
			return nil, fmt.Errorf("error scanning participant row: %w", err)
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}

// CountParticipants returns the registration counts for a set of events
func (r *EventRepository) CountParticipants(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	sql, args, err := r.sb.Select("event_id", "COUNT(*)").
		From("event_participants").
		Where(squirrel.Eq{"event_id": eventIDs}).
		GroupBy("event_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count participants query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("error scanning participant count row: %w", err)
		}
		counts[id] = count
	}

	return counts, rows.Err()
}

// RegisteredEventIDs returns which of the given events the student is
// registered for.
func (r *EventRepository) RegisteredEventIDs(ctx context.Context, studentID uuid.UUID, eventIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	registered := make(map[uuid.UUID]bool, len(eventIDs))
	if len(eventIDs) == 0 {
		return registered, nil
	}

	sql, args, err := r.sb.Select("event_id").
		From("event_participants").
		Where(squirrel.Eq{"student_id": studentID, "event_id": eventIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build registered events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing registered events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning registered event row: %w", err)
		}
		registered[id] = true
	}

	return registered, rows.Err()
}

// Register adds a student to an event. The event row is locked for the
// duration of the transaction so the capacity check and the insert see a
// consistent count; double registration is rejected by the
// (event_id, student_id) unique constraint.
func (r *EventRepository) Register(ctx context.Context, eventID, studentID uuid.UUID, now time.Time) (*models.EventParticipant, error) {
	var participant *models.EventParticipant

	txErr := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Select(eventColumns...).
			From("events").
			Where(squirrel.Eq{"id": eventID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build event lock query: %w", err)
		}

		event, err := scanEvent(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrEventNotFound
			}
			return fmt.Errorf("error locking event row: %w", err)
		}

		if event.Status != models.EventUpcoming {
			return apperrors.ErrEventNotOpen
		}
		if now.After(event.RegistrationDeadline) {
			return apperrors.ErrRegistrationClosed
		}

		countSQL, countArgs, err := r.sb.Select("COUNT(*)").
			From("event_participants").
			Where(squirrel.Eq{"event_id": eventID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build registration count query: %w", err)
		}

		var count int
		if err := tx.QueryRow(ctx, countSQL, countArgs...).Scan(&count); err != nil {
			return fmt.Errorf("error counting registrations: %w", err)
		}
		if count >= event.MaxParticipants {
			return apperrors.ErrEventFull
		}

		p := models.EventParticipant{
			ID:        uuid.New(),
			EventID:   eventID,
			StudentID: studentID,
		}

		insertSQL, insertArgs, err := r.sb.Insert("event_participants").
			Columns("id", "event_id", "student_id").
			Values(p.ID, p.EventID, p.StudentID).
			Suffix("RETURNING registered_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build register query: %w", err)
		}

		if err := tx.QueryRow(ctx, insertSQL, insertArgs...).Scan(&p.RegisteredAt); err != nil {
			if dberrors.IsDuplicateConstraintError(err, "event_participants_event_id_student_id_key") {
				return apperrors.ErrAlreadyRegistered
			}
			return fmt.Errorf("error registering for event: %w", err)
		}

		participant = &p
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	logger.Info().Str("eventID", eventID.String()).Str("studentID", studentID.String()).Msg("Student registered for event")
	return participant, nil
}
