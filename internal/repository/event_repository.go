package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/sarcoord/rescue-backend-go/internal/models"
)

// EventRepository handles database operations for search events
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, name, status, start_time, coordinator_id, created_at`

func scanEvent(row interface{ Scan(...any) error }) (models.SearchEvent, error) {
	var e models.SearchEvent
	var start, created int64
	err := row.Scan(&e.ID, &e.Name, &e.Status, &start, &e.CoordinatorID, &created)
	e.StartTime = fromMillis(start)
	e.CreatedAt = fromMillis(created)
	return e, err
}

// List returns all events, newest first
func (r *EventRepository) List(ctx context.Context) ([]models.SearchEvent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM search_events ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []models.SearchEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListActive returns the active events for the dashboard
func (r *EventRepository) ListActive(ctx context.Context) ([]models.EventSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM search_events WHERE status = ? ORDER BY start_time DESC`, models.EventActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query active events: %w", err)
	}
	defer rows.Close()

	out := []models.EventSummary{}
	for rows.Next() {
		var s models.EventSummary
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan event summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID retrieves an event, or nil when it does not exist
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.SearchEvent, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM search_events WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &e, nil
}

// Create inserts e, assigning an id when it has none
func (r *EventRepository) Create(ctx context.Context, e *models.SearchEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO search_events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Status, toMillis(e.StartTime), e.CoordinatorID, toMillis(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// Update writes name and status. It reports whether the event exists.
func (r *EventRepository) Update(ctx context.Context, e *models.SearchEvent) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE search_events SET name = ?, status = ? WHERE id = ?`, e.Name, e.Status, e.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update event: %w", err)
	}
	return affected(res)
}

// eventChildTables are emptied before the event row itself
var eventChildTables = []string{
	models.TableMissingPersons,
	models.TableEventParticipants,
	models.TableMapMarkers,
	models.TablePolygons,
	models.TableGPSTracks,
}

// Delete removes an event and every row that belongs to it using q, which
// should be a transaction. It reports whether the event existed.
func (r *EventRepository) Delete(ctx context.Context, q DBTX, id string) (bool, error) {
	for _, table := range eventChildTables {
		if _, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE event_id = ?`, id); err != nil {
			return false, fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}

	res, err := q.ExecContext(ctx, `DELETE FROM search_events WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete event: %w", err)
	}
	return affected(res)
}
