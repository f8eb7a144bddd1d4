package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/courtside-app/PickleCoachBack/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidSessionNumber   = errors.New("session number out of range")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrBlockNotFound          = errors.New("session block not found")
	ErrAlreadyEnrolled        = errors.New("student already has an open enrollment in this session block")
)

type EnrollmentService struct {
	db             *pgxpool.Pool
	enrollmentRepo *repository.EnrollmentRepository
	blockRepo      *repository.SessionBlockRepository
	templateRepo   *repository.SessionTemplateRepository
	progressRepo   *repository.SessionProgressRepository
}

func NewEnrollmentService(
	db *pgxpool.Pool,
	enrollmentRepo *repository.EnrollmentRepository,
	blockRepo *repository.SessionBlockRepository,
	templateRepo *repository.SessionTemplateRepository,
	progressRepo *repository.SessionProgressRepository,
) *EnrollmentService {
	return &EnrollmentService{
		db:             db,
		enrollmentRepo: enrollmentRepo,
		blockRepo:      blockRepo,
		templateRepo:   templateRepo,
		progressRepo:   progressRepo,
	}
}

type MarkSessionCompleteInput struct {
	SessionNumber     int
	CompletedDrillIDs []int64
	CoachFeedback     *string
	Rating            *int
}

// recomputeDerived rebuilds every field derived from the completed set:
// the sorted set itself, progress, and the current-session pointer (the
// lowest session not yet completed, clamped to the block's total).
func recomputeDerived(enrollment *models.StudentEnrollment, totalSessions int) {
	sort.Ints(enrollment.CompletedSessions)

	if totalSessions <= 0 {
		enrollment.Progress = 0
		enrollment.CurrentSession = 1
		return
	}

	enrollment.Progress = float64(len(enrollment.CompletedSessions)) / float64(totalSessions)

	current := totalSessions
	for candidate := 1; candidate <= totalSessions; candidate++ {
		if !enrollment.HasCompleted(candidate) {
			current = candidate
			break
		}
	}
	enrollment.CurrentSession = current
}

// applyMarkComplete mutates the enrollment for a completed session. The
// enrollment is untouched when an error is returned.
func applyMarkComplete(enrollment *models.StudentEnrollment, totalSessions, sessionNumber int) error {
	if sessionNumber < 1 || sessionNumber > totalSessions {
		return ErrInvalidSessionNumber
	}
	if enrollment.Status == models.EnrollmentCancelled {
		return ErrInvalidStateTransition
	}

	if !enrollment.HasCompleted(sessionNumber) {
		enrollment.CompletedSessions = append(enrollment.CompletedSessions, sessionNumber)
	}
	recomputeDerived(enrollment, totalSessions)

	if len(enrollment.CompletedSessions) == totalSessions {
		enrollment.Status = models.EnrollmentCompleted
	}
	return nil
}

// applyReopen removes a session from the completed set, reverting a
// completed enrollment back to active.
func applyReopen(enrollment *models.StudentEnrollment, totalSessions, sessionNumber int) error {
	if sessionNumber < 1 || sessionNumber > totalSessions {
		return ErrInvalidSessionNumber
	}
	if enrollment.Status == models.EnrollmentCancelled {
		return ErrInvalidStateTransition
	}

	for i, completed := range enrollment.CompletedSessions {
		if completed == sessionNumber {
			enrollment.CompletedSessions = append(
				enrollment.CompletedSessions[:i],
				enrollment.CompletedSessions[i+1:]...,
			)
			break
		}
	}
	recomputeDerived(enrollment, totalSessions)

	if enrollment.Status == models.EnrollmentCompleted {
		enrollment.Status = models.EnrollmentActive
	}
	return nil
}

func buildSummary(enrollment *models.StudentEnrollment, totalSessions int) models.EnrollmentSummary {
	completed := len(enrollment.CompletedSessions)
	remaining := totalSessions - completed
	if remaining < 0 {
		remaining = 0
	}
	return models.EnrollmentSummary{
		EnrollmentID:   enrollment.ID,
		Progress:       enrollment.Progress,
		CurrentSession: enrollment.CurrentSession,
		CompletedCount: completed,
		RemainingCount: remaining,
	}
}

func (s *EnrollmentService) CreateEnrollment(
	ctx context.Context,
	studentID int64,
	blockID int64,
	startDate time.Time,
) (*models.StudentEnrollment, error) {
	if studentID <= 0 || blockID <= 0 || startDate.IsZero() {
		return nil, ErrInvalidInput
	}

	block, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}
	if !block.IsActive || studentID == block.CoachID {
		return nil, ErrInvalidInput
	}

	templates, err := s.templateRepo.ListByBlockID(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if block.TotalSessions < 1 || len(templates) != block.TotalSessions {
		return nil, ErrInvalidInput
	}

	enrolled, err := s.enrollmentRepo.ExistsOpenByStudentAndBlock(ctx, studentID, blockID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	enrollment, err := s.enrollmentRepo.Create(ctx, repository.CreateEnrollmentInput{
		StudentID:      studentID,
		SessionBlockID: blockID,
		CoachID:        block.CoachID,
		StartDate:      startDate,
	})
	if err != nil {
		// A concurrent enrollment may slip past the check; the partial
		// unique index on open (student, block) pairs catches it.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}

// MarkSessionComplete records a session as done for one enrollment. The
// progress record is upserted, so marking the same session again replaces
// the earlier record instead of duplicating it.
func (s *EnrollmentService) MarkSessionComplete(
	ctx context.Context,
	enrollmentID int64,
	input MarkSessionCompleteInput,
) (*models.StudentEnrollment, *models.SessionProgress, error) {
	if enrollmentID <= 0 {
		return nil, nil, ErrInvalidInput
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txEnrollmentRepo := repository.NewEnrollmentRepository(tx)
	txProgressRepo := repository.NewSessionProgressRepository(tx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", advisoryLockKey(lockDomainEnrollment, enrollmentID)); err != nil {
		return nil, nil, err
	}

	enrollment, err := txEnrollmentRepo.GetByIDForUpdate(ctx, enrollmentID)
	if err != nil {
		return nil, nil, err
	}
	block, err := s.blockRepo.GetByID(ctx, enrollment.SessionBlockID)
	if err != nil {
		return nil, nil, err
	}

	if err := applyMarkComplete(enrollment, block.TotalSessions, input.SessionNumber); err != nil {
		return nil, nil, err
	}

	progress, err := txProgressRepo.Upsert(ctx, repository.UpsertSessionProgressInput{
		EnrollmentID:      enrollmentID,
		SessionNumber:     input.SessionNumber,
		CompletedDrillIDs: input.CompletedDrillIDs,
		CoachFeedback:     input.CoachFeedback,
		Rating:            input.Rating,
	})
	if err != nil {
		return nil, nil, err
	}

	updated, err := txEnrollmentRepo.UpdateProgress(
		ctx,
		enrollmentID,
		enrollment.CompletedSessions,
		enrollment.Progress,
		enrollment.CurrentSession,
		enrollment.Status,
	)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return updated, progress, nil
}

// ReopenSession takes a session back out of the completed set and drops
// its progress record.
func (s *EnrollmentService) ReopenSession(
	ctx context.Context,
	enrollmentID int64,
	sessionNumber int,
) (*models.StudentEnrollment, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txEnrollmentRepo := repository.NewEnrollmentRepository(tx)
	txProgressRepo := repository.NewSessionProgressRepository(tx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", advisoryLockKey(lockDomainEnrollment, enrollmentID)); err != nil {
		return nil, err
	}

	enrollment, err := txEnrollmentRepo.GetByIDForUpdate(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	block, err := s.blockRepo.GetByID(ctx, enrollment.SessionBlockID)
	if err != nil {
		return nil, err
	}

	if err := applyReopen(enrollment, block.TotalSessions, sessionNumber); err != nil {
		return nil, err
	}

	if err := txProgressRepo.DeleteByEnrollmentAndNumber(ctx, enrollmentID, sessionNumber); err != nil {
		return nil, err
	}

	updated, err := txEnrollmentRepo.UpdateProgress(
		ctx,
		enrollmentID,
		enrollment.CompletedSessions,
		enrollment.Progress,
		enrollment.CurrentSession,
		enrollment.Status,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStatus applies the explicit part of the lifecycle: pause, resume,
// cancel. Completion is never requested directly, it happens when the
// last session is marked done.
func (s *EnrollmentService) UpdateStatus(
	ctx context.Context,
	enrollmentID int64,
	requestedStatus string,
) (*models.StudentEnrollment, error) {
	nextStatus, err := normalizeRequestedEnrollmentStatus(requestedStatus)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txEnrollmentRepo := repository.NewEnrollmentRepository(tx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", advisoryLockKey(lockDomainEnrollment, enrollmentID)); err != nil {
		return nil, err
	}

	enrollment, err := txEnrollmentRepo.GetByIDForUpdate(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if err := validateEnrollmentTransition(enrollment.Status, nextStatus); err != nil {
		return nil, err
	}

	updated, err := txEnrollmentRepo.UpdateStatus(ctx, enrollmentID, nextStatus)
	if err != nil {
		return nil, err
	}

	// Cancelling a paid enrollment refunds it.
	if nextStatus == models.EnrollmentCancelled && enrollment.PaymentStatus == models.PaymentPaid {
		updated, err = txEnrollmentRepo.UpdatePayment(ctx, enrollmentID, models.PaymentRefunded, updated.TotalPaid)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// PayForEnrollment settles the block price onto the enrollment. Paying an
// already-paid enrollment is a no-op.
func (s *EnrollmentService) PayForEnrollment(
	ctx context.Context,
	enrollmentID int64,
) (*models.StudentEnrollment, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txEnrollmentRepo := repository.NewEnrollmentRepository(tx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", advisoryLockKey(lockDomainEnrollment, enrollmentID)); err != nil {
		return nil, err
	}

	enrollment, err := txEnrollmentRepo.GetByIDForUpdate(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.PaymentStatus == models.PaymentPaid {
		return enrollment, nil
	}
	if enrollment.Status == models.EnrollmentCancelled {
		return nil, ErrInvalidStateTransition
	}

	block, err := s.blockRepo.GetByID(ctx, enrollment.SessionBlockID)
	if err != nil {
		return nil, err
	}

	updated, err := txEnrollmentRepo.UpdatePayment(ctx, enrollmentID, models.PaymentPaid, block.Price)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *EnrollmentService) GetEnrollment(ctx context.Context, enrollmentID int64) (*models.StudentEnrollment, error) {
	return s.enrollmentRepo.GetByID(ctx, enrollmentID)
}

func (s *EnrollmentService) GetEnrollmentSummary(
	ctx context.Context,
	enrollmentID int64,
) (*models.EnrollmentSummary, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	block, err := s.blockRepo.GetByID(ctx, enrollment.SessionBlockID)
	if err != nil {
		return nil, err
	}

	summary := buildSummary(enrollment, block.TotalSessions)
	return &summary, nil
}

func (s *EnrollmentService) ListSessionProgress(
	ctx context.Context,
	enrollmentID int64,
) ([]models.SessionProgress, error) {
	if _, err := s.enrollmentRepo.GetByID(ctx, enrollmentID); err != nil {
		return nil, err
	}
	return s.progressRepo.ListByEnrollmentID(ctx, enrollmentID)
}

func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID int64) ([]models.StudentEnrollment, error) {
	return s.enrollmentRepo.ListByStudentID(ctx, studentID)
}

func (s *EnrollmentService) ListByCoach(ctx context.Context, coachID int64) ([]models.StudentEnrollment, error) {
	return s.enrollmentRepo.ListByCoachID(ctx, coachID)
}

func normalizeRequestedEnrollmentStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "pause", "paused":
		return models.EnrollmentPaused, nil
	case "resume", "active":
		return models.EnrollmentActive, nil
	case "cancel", "cancelled", "canceled":
		return models.EnrollmentCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

func validateEnrollmentTransition(current, next string) error {
	if current == next {
		return ErrInvalidStateTransition
	}
	switch next {
	case models.EnrollmentPaused:
		if current != models.EnrollmentActive {
			return ErrInvalidStateTransition
		}
	case models.EnrollmentActive:
		if current != models.EnrollmentPaused {
			return ErrInvalidStateTransition
		}
	case models.EnrollmentCancelled:
		if current != models.EnrollmentActive && current != models.EnrollmentPaused {
			return ErrInvalidStateTransition
		}
	default:
		return ErrInvalidStatus
	}
	return nil
}
