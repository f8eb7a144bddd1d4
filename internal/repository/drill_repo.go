package repository

import (
	"context"
	"strconv"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type CreateDrillInput struct {
	CoachID         int64
	Title           string
	SkillTag        string
	LevelBand       string
	DurationMinutes int
	Intensity       int
	Equipment       []string
	VideoURL        *string
	IsPublic        bool
}

type DrillListFilter struct {
	CoachID    int64
	PublicOnly bool
	SkillTag   string
	Limit      int
	Offset     int
}

type DrillRepository struct {
	db DBTX
}

func NewDrillRepository(db DBTX) *DrillRepository {
	return &DrillRepository{db: db}
}

func (r *DrillRepository) Create(ctx context.Context, input CreateDrillInput) (*models.Drill, error) {
	query := `
		INSERT INTO drills (coach_id, title, skill_tag, level_band, duration_min, intensity, equipment, video_url, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, coach_id, title, skill_tag, level_band, duration_min, intensity, equipment, video_url, is_public, created_at, updated_at
	`

	var drill models.Drill
	err := r.db.QueryRow(
		ctx,
		query,
		input.CoachID,
		input.Title,
		input.SkillTag,
		input.LevelBand,
		input.DurationMinutes,
		input.Intensity,
		input.Equipment,
		input.VideoURL,
		input.IsPublic,
	).Scan(
		&drill.ID,
		&drill.CoachID,
		&drill.Title,
		&drill.SkillTag,
		&drill.LevelBand,
		&drill.DurationMinutes,
		&drill.Intensity,
		&drill.Equipment,
		&drill.VideoURL,
		&drill.IsPublic,
		&drill.CreatedAt,
		&drill.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &drill, nil
}

func (r *DrillRepository) GetByID(ctx context.Context, drillID int64) (*models.Drill, error) {
	query := `
		SELECT id, coach_id, title, skill_tag, level_band, duration_min, intensity, equipment, video_url, is_public, created_at, updated_at
		FROM drills
		WHERE id = $1
	`
	var drill models.Drill
	err := r.db.QueryRow(ctx, query, drillID).Scan(
		&drill.ID,
		&drill.CoachID,
		&drill.Title,
		&drill.SkillTag,
		&drill.LevelBand,
		&drill.DurationMinutes,
		&drill.Intensity,
		&drill.Equipment,
		&drill.VideoURL,
		&drill.IsPublic,
		&drill.CreatedAt,
		&drill.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &drill, nil
}

// drillListWhere builds the WHERE clause and its bind list together, so a
// placeholder only exists in the text when its argument is bound.
func drillListWhere(filter DrillListFilter) (string, []any) {
	args := []any{}
	where := "is_public"
	if !filter.PublicOnly {
		args = append(args, filter.CoachID)
		where = "(coach_id = $1 OR is_public)"
	}
	if filter.SkillTag != "" {
		args = append(args, filter.SkillTag)
		where += " AND skill_tag = $" + strconv.Itoa(len(args))
	}
	return where, args
}

func (r *DrillRepository) List(ctx context.Context, filter DrillListFilter) ([]models.Drill, error) {
	where, args := drillListWhere(filter)
	args = append(args, filter.Limit, filter.Offset)

	query := `
		SELECT id, coach_id, title, skill_tag, level_band, duration_min, intensity, equipment, video_url, is_public, created_at, updated_at
		FROM drills
		WHERE ` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drills := make([]models.Drill, 0)
	for rows.Next() {
		var drill models.Drill
		if err := rows.Scan(
			&drill.ID,
			&drill.CoachID,
			&drill.Title,
			&drill.SkillTag,
			&drill.LevelBand,
			&drill.DurationMinutes,
			&drill.Intensity,
			&drill.Equipment,
			&drill.VideoURL,
			&drill.IsPublic,
			&drill.CreatedAt,
			&drill.UpdatedAt,
		); err != nil {
			return nil, err
		}
		drills = append(drills, drill)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return drills, nil
}

func (r *DrillRepository) Count(ctx context.Context, filter DrillListFilter) (int, error) {
	where, args := drillListWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM drills WHERE "+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
