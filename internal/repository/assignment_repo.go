package repository

import (
	"context"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/jackc/pgx/v5"
)

type CreateDrillAssignmentInput struct {
	SessionTemplateID int64
	DrillID           int64
	Order             int
	DurationMinutes   int
	Instructions      *string
	IsOptional        bool
}

type DrillAssignmentRepository struct {
	db DBTX
}

func NewDrillAssignmentRepository(db DBTX) *DrillAssignmentRepository {
	return &DrillAssignmentRepository{db: db}
}

// "order" is reserved in SQL, the column is named ord.
const drillAssignmentColumns = `id, session_template_id, drill_id, ord, duration_min, instructions, is_optional`

func (r *DrillAssignmentRepository) scanAssignment(row pgx.Row) (*models.DrillAssignment, error) {
	var assignment models.DrillAssignment
	err := row.Scan(
		&assignment.ID,
		&assignment.SessionTemplateID,
		&assignment.DrillID,
		&assignment.Order,
		&assignment.DurationMinutes,
		&assignment.Instructions,
		&assignment.IsOptional,
	)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *DrillAssignmentRepository) Create(
	ctx context.Context,
	input CreateDrillAssignmentInput,
) (*models.DrillAssignment, error) {
	query := `
		INSERT INTO drill_assignments (session_template_id, drill_id, ord, duration_min, instructions, is_optional)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + drillAssignmentColumns

	return r.scanAssignment(r.db.QueryRow(
		ctx,
		query,
		input.SessionTemplateID,
		input.DrillID,
		input.Order,
		input.DurationMinutes,
		input.Instructions,
		input.IsOptional,
	))
}

func (r *DrillAssignmentRepository) GetByID(ctx context.Context, assignmentID int64) (*models.DrillAssignment, error) {
	query := `SELECT ` + drillAssignmentColumns + ` FROM drill_assignments WHERE id = $1`
	return r.scanAssignment(r.db.QueryRow(ctx, query, assignmentID))
}

// ListByTemplateID returns the template's assignments in drill order.
func (r *DrillAssignmentRepository) ListByTemplateID(ctx context.Context, templateID int64) ([]models.DrillAssignment, error) {
	query := `
		SELECT ` + drillAssignmentColumns + `
		FROM drill_assignments
		WHERE session_template_id = $1
		ORDER BY ord ASC
	`
	rows, err := r.db.Query(ctx, query, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]models.DrillAssignment, 0)
	for rows.Next() {
		assignment, err := r.scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *DrillAssignmentRepository) ExistsForDrill(ctx context.Context, templateID, drillID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM drill_assignments
			WHERE session_template_id = $1 AND drill_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, templateID, drillID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *DrillAssignmentRepository) SetOrder(ctx context.Context, assignmentID int64, order int) error {
	query := `UPDATE drill_assignments SET ord = $2 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, assignmentID, order)
	return err
}

func (r *DrillAssignmentRepository) Delete(ctx context.Context, assignmentID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM drill_assignments WHERE id = $1`, assignmentID)
	return err
}
