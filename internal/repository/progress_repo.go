package repository

import (
	"context"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/jackc/pgx/v5"
)

type UpsertSessionProgressInput struct {
	EnrollmentID      int64
	SessionNumber     int
	CompletedDrillIDs []int64
	CoachFeedback     *string
	Rating            *int
}

type SessionProgressRepository struct {
	db DBTX
}

func NewSessionProgressRepository(db DBTX) *SessionProgressRepository {
	return &SessionProgressRepository{db: db}
}

const sessionProgressColumns = `id, enrollment_id, session_number, completed_drill_ids, coach_feedback, rating, completed_at`

func (r *SessionProgressRepository) scanProgress(row pgx.Row) (*models.SessionProgress, error) {
	var progress models.SessionProgress
	err := row.Scan(
		&progress.ID,
		&progress.EnrollmentID,
		&progress.SessionNumber,
		&progress.CompletedDrillIDs,
		&progress.CoachFeedback,
		&progress.Rating,
		&progress.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Upsert records a session completion, replacing any earlier record for the
// same (enrollment, session number) pair.
func (r *SessionProgressRepository) Upsert(
	ctx context.Context,
	input UpsertSessionProgressInput,
) (*models.SessionProgress, error) {
	query := `
		INSERT INTO session_progress (enrollment_id, session_number, completed_drill_ids, coach_feedback, rating, completed_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (enrollment_id, session_number) DO UPDATE
		SET completed_drill_ids = EXCLUDED.completed_drill_ids,
		    coach_feedback = EXCLUDED.coach_feedback,
		    rating = EXCLUDED.rating,
		    completed_at = NOW()
		RETURNING ` + sessionProgressColumns

	return r.scanProgress(r.db.QueryRow(
		ctx,
		query,
		input.EnrollmentID,
		input.SessionNumber,
		input.CompletedDrillIDs,
		input.CoachFeedback,
		input.Rating,
	))
}

func (r *SessionProgressRepository) GetByEnrollmentAndNumber(
	ctx context.Context,
	enrollmentID int64,
	sessionNumber int,
) (*models.SessionProgress, error) {
	query := `
		SELECT ` + sessionProgressColumns + `
		FROM session_progress
		WHERE enrollment_id = $1 AND session_number = $2
	`
	return r.scanProgress(r.db.QueryRow(ctx, query, enrollmentID, sessionNumber))
}

func (r *SessionProgressRepository) ListByEnrollmentID(ctx context.Context, enrollmentID int64) ([]models.SessionProgress, error) {
	query := `
		SELECT ` + sessionProgressColumns + `
		FROM session_progress
		WHERE enrollment_id = $1
		ORDER BY session_number ASC
	`
	rows, err := r.db.Query(ctx, query, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.SessionProgress, 0)
	for rows.Next() {
		record, err := r.scanProgress(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *SessionProgressRepository) DeleteByEnrollmentAndNumber(
	ctx context.Context,
	enrollmentID int64,
	sessionNumber int,
) error {
	query := `DELETE FROM session_progress WHERE enrollment_id = $1 AND session_number = $2`
	_, err := r.db.Exec(ctx, query, enrollmentID, sessionNumber)
	return err
}
