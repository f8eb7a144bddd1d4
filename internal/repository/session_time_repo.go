package repository

import (
	"context"

	"github.com/courtside-app/PickleCoachBack/internal/models"
)

type SessionTimeRepository struct {
	db DBTX
}

func NewSessionTimeRepository(db DBTX) *SessionTimeRepository {
	return &SessionTimeRepository{db: db}
}

func (r *SessionTimeRepository) Upsert(
	ctx context.Context,
	override models.SessionTimeOverride,
) (*models.SessionTimeOverride, error) {
	query := `
		INSERT INTO enrollment_session_times (enrollment_id, session_number, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (enrollment_id, session_number) DO UPDATE
		SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time
		RETURNING enrollment_id, session_number, start_time, end_time
	`
	var saved models.SessionTimeOverride
	err := r.db.QueryRow(
		ctx,
		query,
		override.EnrollmentID,
		override.SessionNumber,
		override.StartTime,
		override.EndTime,
	).Scan(&saved.EnrollmentID, &saved.SessionNumber, &saved.StartTime, &saved.EndTime)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// MapByEnrollmentID returns the enrollment's overrides keyed by session
// number, the shape the schedule projector consumes.
func (r *SessionTimeRepository) MapByEnrollmentID(
	ctx context.Context,
	enrollmentID int64,
) (map[int]models.SessionTimeOverride, error) {
	query := `
		SELECT enrollment_id, session_number, start_time, end_time
		FROM enrollment_session_times
		WHERE enrollment_id = $1
	`
	rows, err := r.db.Query(ctx, query, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := make(map[int]models.SessionTimeOverride)
	for rows.Next() {
		var override models.SessionTimeOverride
		if err := rows.Scan(
			&override.EnrollmentID,
			&override.SessionNumber,
			&override.StartTime,
			&override.EndTime,
		); err != nil {
			return nil, err
		}
		overrides[override.SessionNumber] = override
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return overrides, nil
}
