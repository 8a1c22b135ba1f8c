package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/sarcoord/rescue-backend-go/internal/models"
)

// MissingPersonRepository handles database operations for missing persons
type MissingPersonRepository struct {
	db *sql.DB
}

// NewMissingPersonRepository creates a new missing person repository
func NewMissingPersonRepository(db *sql.DB) *MissingPersonRepository {
	return &MissingPersonRepository{db: db}
}

const missingPersonColumns = `id, event_id, name, age, height_cm, clothing, photo_url,
	behavior_category, prob_zones, location_lat, location_lng, created_at, updated_at`

func scanMissingPerson(row interface{ Scan(...any) error }) (models.MissingPerson, error) {
	var (
		p                models.MissingPerson
		age, height      sql.NullInt64
		zones            sql.NullString
		lat, lng         sql.NullFloat64
		created, updated int64
	)
	err := row.Scan(&p.ID, &p.EventID, &p.Name, &age, &height, &p.Clothing, &p.PhotoURL,
		&p.BehaviorCategory, &zones, &lat, &lng, &created, &updated)
	if err != nil {
		return p, err
	}

	p.Age = fromNullInt(age)
	p.HeightCm = fromNullInt(height)
	if lat.Valid && lng.Valid {
		p.Location = &models.LatLng{Lat: lat.Float64, Lng: lng.Float64}
	}
	if zones.Valid && zones.String != "" && zones.String != "null" {
		if err := json.Unmarshal([]byte(zones.String), &p.ProbZones); err != nil {
			return p, fmt.Errorf("failed to decode prob_zones of %s: %w", p.ID, err)
		}
	}
	p.CreatedAt = fromMillis(created)
	p.UpdatedAt = fromMillis(updated)
	return p, nil
}

func encodeZones(zs models.ZoneSet) (sql.NullString, error) {
	if len(zs) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(zs)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode prob_zones: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func locationArgs(l *models.LatLng) (sql.NullFloat64, sql.NullFloat64) {
	if l == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: l.Lat, Valid: true}, sql.NullFloat64{Float64: l.Lng, Valid: true}
}

// ListByEvent returns the missing persons of an event in creation order
func (r *MissingPersonRepository) ListByEvent(ctx context.Context, eventID string) ([]models.MissingPerson, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+missingPersonColumns+` FROM missing_persons WHERE event_id = ? ORDER BY created_at, id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query missing persons: %w", err)
	}
	defer rows.Close()

	persons := []models.MissingPerson{}
	for rows.Next() {
		p, err := scanMissingPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan missing person: %w", err)
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

// Locations returns the known last-seen locations of an event's missing persons
func (r *MissingPersonRepository) Locations(ctx context.Context, eventID string) ([]models.LatLng, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT location_lat, location_lng FROM missing_persons
		WHERE event_id = ? AND location_lat IS NOT NULL AND location_lng IS NOT NULL`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query missing person locations: %w", err)
	}
	defer rows.Close()

	var out []models.LatLng
	for rows.Next() {
		var l models.LatLng
		if err := rows.Scan(&l.Lat, &l.Lng); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetByID retrieves a missing person, or nil when it does not exist
func (r *MissingPersonRepository) GetByID(ctx context.Context, id string) (*models.MissingPerson, error) {
	p, err := scanMissingPerson(r.db.QueryRowContext(ctx,
		`SELECT `+missingPersonColumns+` FROM missing_persons WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get missing person: %w", err)
	}
	return &p, nil
}

// Create inserts p, assigning an id when it has none
func (r *MissingPersonRepository) Create(ctx context.Context, p *models.MissingPerson) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	zones, err := encodeZones(p.ProbZones)
	if err != nil {
		return err
	}
	lat, lng := locationArgs(p.Location)

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO missing_persons (`+missingPersonColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.EventID, p.Name, nullInt(p.Age), nullInt(p.HeightCm), p.Clothing, p.PhotoURL,
		p.BehaviorCategory, zones, lat, lng, toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create missing person: %w", err)
	}
	return nil
}

// Update writes every mutable column of p
func (r *MissingPersonRepository) Update(ctx context.Context, p *models.MissingPerson) (bool, error) {
	zones, err := encodeZones(p.ProbZones)
	if err != nil {
		return false, err
	}
	lat, lng := locationArgs(p.Location)

	res, err := r.db.ExecContext(ctx,
		`UPDATE missing_persons SET name = ?, age = ?, height_cm = ?, clothing = ?, photo_url = ?,
		behavior_category = ?, prob_zones = ?, location_lat = ?, location_lng = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, nullInt(p.Age), nullInt(p.HeightCm), p.Clothing, p.PhotoURL,
		p.BehaviorCategory, zones, lat, lng, toMillis(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update missing person: %w", err)
	}
	return affected(res)
}

// Delete removes a missing person
func (r *MissingPersonRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM missing_persons WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete missing person: %w", err)
	}
	return affected(res)
}
