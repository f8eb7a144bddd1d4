package repository

import (
	"context"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/jackc/pgx/v5"
)

type CreateSessionTemplateInput struct {
	SessionBlockID  int64
	SessionNumber   int
	Title           string
	Objectives      []string
	DurationMinutes int
	CoachNotes      *string
}

type SessionTemplateRepository struct {
	db DBTX
}

func NewSessionTemplateRepository(db DBTX) *SessionTemplateRepository {
	return &SessionTemplateRepository{db: db}
}

const sessionTemplateColumns = `id, session_block_id, session_number, title, objectives, duration_min, coach_notes`

func (r *SessionTemplateRepository) scanTemplate(row pgx.Row) (*models.SessionTemplate, error) {
	var template models.SessionTemplate
	err := row.Scan(
		&template.ID,
		&template.SessionBlockID,
		&template.SessionNumber,
		&template.Title,
		&template.Objectives,
		&template.DurationMinutes,
		&template.CoachNotes,
	)
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *SessionTemplateRepository) Create(
	ctx context.Context,
	input CreateSessionTemplateInput,
) (*models.SessionTemplate, error) {
	query := `
		INSERT INTO session_templates (session_block_id, session_number, title, objectives, duration_min, coach_notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + sessionTemplateColumns

	return r.scanTemplate(r.db.QueryRow(
		ctx,
		query,
		input.SessionBlockID,
		input.SessionNumber,
		input.Title,
		input.Objectives,
		input.DurationMinutes,
		input.CoachNotes,
	))
}

func (r *SessionTemplateRepository) GetByID(ctx context.Context, templateID int64) (*models.SessionTemplate, error) {
	query := `SELECT ` + sessionTemplateColumns + ` FROM session_templates WHERE id = $1`
	return r.scanTemplate(r.db.QueryRow(ctx, query, templateID))
}

// ListByBlockID returns the block's templates ordered by session number.
func (r *SessionTemplateRepository) ListByBlockID(ctx context.Context, blockID int64) ([]models.SessionTemplate, error) {
	query := `
		SELECT ` + sessionTemplateColumns + `
		FROM session_templates
		WHERE session_block_id = $1
		ORDER BY session_number ASC
	`
	rows, err := r.db.Query(ctx, query, blockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]models.SessionTemplate, 0)
	for rows.Next() {
		template, err := r.scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *template)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *SessionTemplateRepository) SetSessionNumber(ctx context.Context, templateID int64, sessionNumber int) error {
	query := `UPDATE session_templates SET session_number = $2 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, templateID, sessionNumber)
	return err
}

func (r *SessionTemplateRepository) Delete(ctx context.Context, templateID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM session_templates WHERE id = $1`, templateID)
	return err
}
