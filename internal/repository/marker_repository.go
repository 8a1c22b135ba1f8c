package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/sarcoord/rescue-backend-go/internal/models"
)

// MarkerRepository handles database operations for the map layers of an
// event: map markers, polygons and gps track samples
type MarkerRepository struct {
	db *sql.DB
}

// NewMarkerRepository creates a new marker repository
func NewMarkerRepository(db *sql.DB) *MarkerRepository {
	return &MarkerRepository{db: db}
}

// CreateMarker inserts a map marker
func (r *MarkerRepository) CreateMarker(ctx context.Context, m *models.MapMarker) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO map_markers (id, event_id, user_id, latitude, longitude, label, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.EventID, m.UserID, m.Latitude, m.Longitude, m.Label, m.Description, toMillis(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create map marker: %w", err)
	}
	return nil
}

// ListMarkers returns an event's map markers in creation order
func (r *MarkerRepository) ListMarkers(ctx context.Context, eventID string) ([]models.MapMarker, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, user_id, latitude, longitude, label, description, created_at
		FROM map_markers WHERE event_id = ? ORDER BY created_at, id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query map markers: %w", err)
	}
	defer rows.Close()

	out := []models.MapMarker{}
	for rows.Next() {
		var m models.MapMarker
		var created int64
		if err := rows.Scan(&m.ID, &m.EventID, &m.UserID, &m.Latitude, &m.Longitude, &m.Label, &m.Description, &created); err != nil {
			return nil, fmt.Errorf("failed to scan map marker: %w", err)
		}
		m.CreatedAt = fromMillis(created)
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreatePolygon inserts a polygon with its coordinates text as sent
func (r *MarkerRepository) CreatePolygon(ctx context.Context, p *models.Polygon) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO polygons (id, event_id, user_id, label, coordinates, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.EventID, p.UserID, p.Label, p.Coordinates, toMillis(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create polygon: %w", err)
	}
	return nil
}

// ListPolygons returns an event's polygons in creation order
func (r *MarkerRepository) ListPolygons(ctx context.Context, eventID string) ([]models.Polygon, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, user_id, label, coordinates, created_at
		FROM polygons WHERE event_id = ? ORDER BY created_at, id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query polygons: %w", err)
	}
	defer rows.Close()

	out := []models.Polygon{}
	for rows.Next() {
		var p models.Polygon
		var created int64
		if err := rows.Scan(&p.ID, &p.EventID, &p.UserID, &p.Label, &p.Coordinates, &created); err != nil {
			return nil, fmt.Errorf("failed to scan polygon: %w", err)
		}
		p.CreatedAt = fromMillis(created)
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertSamples stores a batch of gps samples in one transaction
func (r *MarkerRepository) InsertSamples(ctx context.Context, samples []models.GeoSample) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO gps_tracks (id, event_id, user_id, latitude, longitude, accuracy, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range samples {
		s := &samples[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, s.ID, s.EventID, s.UserID,
			nullFloat(s.Latitude), nullFloat(s.Longitude), nullFloat(s.Accuracy), toMillis(s.Timestamp)); err != nil {
			return fmt.Errorf("failed to insert gps sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListSamples returns an event's gps samples ordered by time
func (r *MarkerRepository) ListSamples(ctx context.Context, eventID string) ([]models.GeoSample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, user_id, latitude, longitude, accuracy, created_at
		FROM gps_tracks WHERE event_id = ? ORDER BY created_at, id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gps tracks: %w", err)
	}
	defer rows.Close()

	out := []models.GeoSample{}
	for rows.Next() {
		var (
			s             models.GeoSample
			lat, lng, acc sql.NullFloat64
			created       int64
		)
		if err := rows.Scan(&s.ID, &s.EventID, &s.UserID, &lat, &lng, &acc, &created); err != nil {
			return nil, fmt.Errorf("failed to scan gps sample: %w", err)
		}
		s.Latitude = fromNullFloat(lat)
		s.Longitude = fromNullFloat(lng)
		s.Accuracy = fromNullFloat(acc)
		s.Kind = models.KindGPSTrack
		s.Timestamp = fromMillis(created)
		out = append(out, s)
	}
	return out, rows.Err()
}
