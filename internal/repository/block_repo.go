package repository

import (
	"context"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/jackc/pgx/v5"
)

type CreateSessionBlockInput struct {
	CoachID        int64
	Title          string
	Description    *string
	SkillLevelFrom string
	SkillLevelTo   string
	Price          float64
	DurationWeeks  int
	DeliveryMode   string
	CourtAddress   *string
	MeetingLink    *string
}

type SessionBlockRepository struct {
	db DBTX
}

func NewSessionBlockRepository(db DBTX) *SessionBlockRepository {
	return &SessionBlockRepository{db: db}
}

const sessionBlockColumns = `id, coach_id, title, description, total_sessions, skill_level_from, skill_level_to, price, duration_weeks, delivery_mode, court_address, meeting_link, is_active, created_at, updated_at`

func (r *SessionBlockRepository) scanBlock(row pgx.Row) (*models.SessionBlock, error) {
	var block models.SessionBlock
	err := row.Scan(
		&block.ID,
		&block.CoachID,
		&block.Title,
		&block.Description,
		&block.TotalSessions,
		&block.SkillLevelFrom,
		&block.SkillLevelTo,
		&block.Price,
		&block.DurationWeeks,
		&block.DeliveryMode,
		&block.CourtAddress,
		&block.MeetingLink,
		&block.IsActive,
		&block.CreatedAt,
		&block.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *SessionBlockRepository) Create(
	ctx context.Context,
	input CreateSessionBlockInput,
) (*models.SessionBlock, error) {
	query := `
		INSERT INTO session_blocks (coach_id, title, description, total_sessions, skill_level_from, skill_level_to, price, duration_weeks, delivery_mode, court_address, meeting_link, is_active)
		VALUES ($1, $2, $3, 0, $4, $5, $6, $7, $8, $9, $10, TRUE)
		RETURNING ` + sessionBlockColumns

	return r.scanBlock(r.db.QueryRow(
		ctx,
		query,
		input.CoachID,
		input.Title,
		input.Description,
		input.SkillLevelFrom,
		input.SkillLevelTo,
		input.Price,
		input.DurationWeeks,
		input.DeliveryMode,
		input.CourtAddress,
		input.MeetingLink,
	))
}

func (r *SessionBlockRepository) GetByID(ctx context.Context, blockID int64) (*models.SessionBlock, error) {
	query := `SELECT ` + sessionBlockColumns + ` FROM session_blocks WHERE id = $1`
	return r.scanBlock(r.db.QueryRow(ctx, query, blockID))
}

func (r *SessionBlockRepository) GetByIDForUpdate(ctx context.Context, blockID int64) (*models.SessionBlock, error) {
	query := `SELECT ` + sessionBlockColumns + ` FROM session_blocks WHERE id = $1 FOR UPDATE`
	return r.scanBlock(r.db.QueryRow(ctx, query, blockID))
}

func (r *SessionBlockRepository) ListByCoachID(ctx context.Context, coachID int64) ([]models.SessionBlock, error) {
	query := `
		SELECT ` + sessionBlockColumns + `
		FROM session_blocks
		WHERE coach_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blocks := make([]models.SessionBlock, 0)
	for rows.Next() {
		block, err := r.scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, *block)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *SessionBlockRepository) SetTotalSessions(ctx context.Context, blockID int64, total int) error {
	query := `
		UPDATE session_blocks
		SET total_sessions = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, blockID, total)
	return err
}

func (r *SessionBlockRepository) SetActive(ctx context.Context, blockID int64, active bool) (*models.SessionBlock, error) {
	query := `
		UPDATE session_blocks
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + sessionBlockColumns
	return r.scanBlock(r.db.QueryRow(ctx, query, blockID, active))
}

func (r *SessionBlockRepository) Delete(ctx context.Context, blockID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM session_blocks WHERE id = $1`, blockID)
	return err
}
