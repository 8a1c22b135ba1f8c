package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/sarcoord/rescue-backend-go/internal/models"
)

// HelpRepository handles database operations for help content
type HelpRepository struct {
	db *sql.DB
}

// NewHelpRepository creates a new help repository
func NewHelpRepository(db *sql.DB) *HelpRepository {
	return &HelpRepository{db: db}
}

const helpColumns = `id, text_hu, text_en, text_sk, text_ro, text_pl, created_at, updated_at`

func scanHelp(row interface{ Scan(...any) error }) (models.HelpContent, error) {
	var h models.HelpContent
	var created, updated int64
	err := row.Scan(&h.ID, &h.TextHu, &h.TextEn, &h.TextSk, &h.TextRo, &h.TextPl, &created, &updated)
	h.CreatedAt = fromMillis(created)
	h.UpdatedAt = fromMillis(updated)
	return h, err
}

// List returns all help entries, oldest first
func (r *HelpRepository) List(ctx context.Context) ([]models.HelpContent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+helpColumns+` FROM help_content ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query help content: %w", err)
	}
	defer rows.Close()

	out := []models.HelpContent{}
	for rows.Next() {
		h, err := scanHelp(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan help content: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// GetByID retrieves a help entry, or nil when it does not exist
func (r *HelpRepository) GetByID(ctx context.Context, id string) (*models.HelpContent, error) {
	h, err := scanHelp(r.db.QueryRowContext(ctx, `SELECT `+helpColumns+` FROM help_content WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get help content: %w", err)
	}
	return &h, nil
}

// Create inserts a help entry
func (r *HelpRepository) Create(ctx context.Context, h *models.HelpContent) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO help_content (`+helpColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.TextHu, h.TextEn, h.TextSk, h.TextRo, h.TextPl, toMillis(h.CreatedAt), toMillis(h.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create help content: %w", err)
	}
	return nil
}

// Update replaces the texts of a help entry
func (r *HelpRepository) Update(ctx context.Context, h *models.HelpContent) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE help_content SET text_hu = ?, text_en = ?, text_sk = ?, text_ro = ?, text_pl = ?, updated_at = ?
		WHERE id = ?`,
		h.TextHu, h.TextEn, h.TextSk, h.TextRo, h.TextPl, toMillis(h.UpdatedAt), h.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update help content: %w", err)
	}
	return affected(res)
}

// Delete removes a help entry
func (r *HelpRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM help_content WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete help content: %w", err)
	}
	return affected(res)
}
