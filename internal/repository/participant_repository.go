package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sarcoord/rescue-backend-go/internal/models"
)

// ParticipantRepository handles database operations for event participants
type ParticipantRepository struct {
	db *sql.DB
}

// NewParticipantRepository creates a new participant repository
func NewParticipantRepository(db *sql.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

const participantSelect = `SELECT p.id, p.event_id, p.user_id, p.joined_at, p.left_at, p.pause_status,
	COALESCE(u.full_name, ''), COALESCE(u.phone_number, ''), COALESCE(u.role, '')
	FROM event_participants p LEFT JOIN users u ON u.id = p.user_id`

func scanParticipant(row interface{ Scan(...any) error }) (models.Participant, error) {
	var (
		p      models.Participant
		joined int64
		left   sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.EventID, &p.UserID, &joined, &left, &p.PauseStatus,
		&p.FullName, &p.PhoneNumber, &p.Role)
	p.JoinedAt = fromMillis(joined)
	p.LeftAt = fromNullMillis(left)
	return p, err
}

// ListByEvent returns an event's participants, most recently joined first
func (r *ParticipantRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Participant, error) {
	rows, err := r.db.QueryContext(ctx, participantSelect+` WHERE p.event_id = ? ORDER BY p.joined_at DESC, p.id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	out := []models.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get returns the participation of userID in eventID, or nil
func (r *ParticipantRepository) Get(ctx context.Context, eventID, userID string) (*models.Participant, error) {
	p, err := scanParticipant(r.db.QueryRowContext(ctx, participantSelect+` WHERE p.event_id = ? AND p.user_id = ?`, eventID, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return &p, nil
}

// Join adds the user to the event. Joining again clears left_at and the
// pause flag and restarts joined_at.
func (r *ParticipantRepository) Join(ctx context.Context, eventID, userID string, at time.Time) (*models.Participant, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_participants (id, event_id, user_id, joined_at, left_at, pause_status)
		VALUES (?, ?, ?, ?, NULL, 0)
		ON CONFLICT (event_id, user_id) DO UPDATE SET
			joined_at = excluded.joined_at, left_at = NULL, pause_status = 0`,
		uuid.NewString(), eventID, userID, toMillis(at),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to join event: %w", err)
	}
	return r.Get(ctx, eventID, userID)
}

// SetState writes left_at and pause_status. It reports whether the
// participation exists.
func (r *ParticipantRepository) SetState(ctx context.Context, eventID, userID string, leftAt *time.Time, paused bool) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE event_participants SET left_at = ?, pause_status = ? WHERE event_id = ? AND user_id = ?`,
		nullMillis(leftAt), paused, eventID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update participant: %w", err)
	}
	return affected(res)
}
