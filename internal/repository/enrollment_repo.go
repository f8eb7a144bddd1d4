package repository

import (
	"context"
	"time"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/jackc/pgx/v5"
)

type CreateEnrollmentInput struct {
	StudentID      int64
	SessionBlockID int64
	CoachID        int64
	StartDate      time.Time
}

type EnrollmentRepository struct {
	db DBTX
}

func NewEnrollmentRepository(db DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentColumns = `id, student_id, session_block_id, coach_id, start_date, current_session, completed_sessions, progress, status, payment_status, total_paid, created_at, updated_at`

func (r *EnrollmentRepository) scanEnrollment(row pgx.Row) (*models.StudentEnrollment, error) {
	var enrollment models.StudentEnrollment
	err := row.Scan(
		&enrollment.ID,
		&enrollment.StudentID,
		&enrollment.SessionBlockID,
		&enrollment.CoachID,
		&enrollment.StartDate,
		&enrollment.CurrentSession,
		&enrollment.CompletedSessions,
		&enrollment.Progress,
		&enrollment.Status,
		&enrollment.PaymentStatus,
		&enrollment.TotalPaid,
		&enrollment.CreatedAt,
		&enrollment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) Create(
	ctx context.Context,
	input CreateEnrollmentInput,
) (*models.StudentEnrollment, error) {
	query := `
		INSERT INTO enrollments (student_id, session_block_id, coach_id, start_date, current_session, completed_sessions, progress, status, payment_status, total_paid)
		VALUES ($1, $2, $3, $4, 1, '{}', 0, 'active', 'pending', 0)
		RETURNING ` + enrollmentColumns

	return r.scanEnrollment(r.db.QueryRow(
		ctx,
		query,
		input.StudentID,
		input.SessionBlockID,
		input.CoachID,
		input.StartDate,
	))
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, enrollmentID int64) (*models.StudentEnrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`
	return r.scanEnrollment(r.db.QueryRow(ctx, query, enrollmentID))
}

func (r *EnrollmentRepository) GetByIDForUpdate(ctx context.Context, enrollmentID int64) (*models.StudentEnrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1 FOR UPDATE`
	return r.scanEnrollment(r.db.QueryRow(ctx, query, enrollmentID))
}

func (r *EnrollmentRepository) ListByStudentID(ctx context.Context, studentID int64) ([]models.StudentEnrollment, error) {
	return r.list(ctx, `
		SELECT `+enrollmentColumns+`
		FROM enrollments
		WHERE student_id = $1
		ORDER BY created_at DESC, id DESC
	`, studentID)
}

func (r *EnrollmentRepository) ListByCoachID(ctx context.Context, coachID int64) ([]models.StudentEnrollment, error) {
	return r.list(ctx, `
		SELECT `+enrollmentColumns+`
		FROM enrollments
		WHERE coach_id = $1
		ORDER BY created_at DESC, id DESC
	`, coachID)
}

func (r *EnrollmentRepository) list(
	ctx context.Context,
	query string,
	actorID int64,
) ([]models.StudentEnrollment, error) {
	rows, err := r.db.Query(ctx, query, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments := make([]models.StudentEnrollment, 0)
	for rows.Next() {
		enrollment, err := r.scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// UpdateProgress persists the completed set and every field derived from
// it in a single statement.
func (r *EnrollmentRepository) UpdateProgress(
	ctx context.Context,
	enrollmentID int64,
	completedSessions []int,
	progress float64,
	currentSession int,
	status string,
) (*models.StudentEnrollment, error) {
	query := `
		UPDATE enrollments
		SET completed_sessions = $2, progress = $3, current_session = $4, status = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + enrollmentColumns
	return r.scanEnrollment(r.db.QueryRow(ctx, query, enrollmentID, completedSessions, progress, currentSession, status))
}

func (r *EnrollmentRepository) UpdateStatus(
	ctx context.Context,
	enrollmentID int64,
	status string,
) (*models.StudentEnrollment, error) {
	query := `
		UPDATE enrollments
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + enrollmentColumns
	return r.scanEnrollment(r.db.QueryRow(ctx, query, enrollmentID, status))
}

func (r *EnrollmentRepository) UpdatePayment(
	ctx context.Context,
	enrollmentID int64,
	paymentStatus string,
	totalPaid float64,
) (*models.StudentEnrollment, error) {
	query := `
		UPDATE enrollments
		SET payment_status = $2, total_paid = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + enrollmentColumns
	return r.scanEnrollment(r.db.QueryRow(ctx, query, enrollmentID, paymentStatus, totalPaid))
}

// ExistsOpenByStudentAndBlock reports whether the student already has an
// active or paused enrollment in the block.
func (r *EnrollmentRepository) ExistsOpenByStudentAndBlock(
	ctx context.Context,
	studentID int64,
	blockID int64,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM enrollments
			WHERE student_id = $1 AND session_block_id = $2 AND status IN ('active', 'paused')
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, studentID, blockID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CountOpenByBlockID counts enrollments still tracking session numbers
// (active or paused) for a block.
func (r *EnrollmentRepository) CountOpenByBlockID(ctx context.Context, blockID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM enrollments
		WHERE session_block_id = $1 AND status IN ('active', 'paused')
	`
	var count int
	if err := r.db.QueryRow(ctx, query, blockID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *EnrollmentRepository) CountByBlockID(ctx context.Context, blockID int64) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM enrollments WHERE session_block_id = $1`, blockID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
