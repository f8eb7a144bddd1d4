package services

import (
	"context"
	"errors"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/courtside-app/PickleCoachBack/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrDuplicateDrillAssignment = errors.New("drill already assigned to this session")
	ErrDrillNotFound            = errors.New("drill not found")
)

type drillReader interface {
	GetByID(ctx context.Context, drillID int64) (*models.Drill, error)
}

// AssignmentService is the ordered-list editor for a session template's
// drill assignments. Every mutation runs in one transaction so the 1..N
// order invariant is restored atomically.
type AssignmentService struct {
	db             *pgxpool.Pool
	templateRepo   *repository.SessionTemplateRepository
	assignmentRepo *repository.DrillAssignmentRepository
	drillRepo      drillReader
}

func NewAssignmentService(
	db *pgxpool.Pool,
	templateRepo *repository.SessionTemplateRepository,
	assignmentRepo *repository.DrillAssignmentRepository,
	drillRepo *repository.DrillRepository,
) *AssignmentService {
	return &AssignmentService{
		db:             db,
		templateRepo:   templateRepo,
		assignmentRepo: assignmentRepo,
		drillRepo:      drillRepo,
	}
}

type AddDrillAssignmentInput struct {
	DrillID         int64
	DurationMinutes int
	Instructions    *string
	IsOptional      bool
}

// AddDrillAssignment appends a drill to the end of the template's list. A
// drill can appear at most once per template.
func (s *AssignmentService) AddDrillAssignment(
	ctx context.Context,
	templateID int64,
	input AddDrillAssignmentInput,
) (*models.DrillAssignment, error) {
	if templateID <= 0 || input.DrillID <= 0 || input.DurationMinutes <= 0 {
		return nil, ErrInvalidInput
	}

	if _, err := s.drillRepo.GetByID(ctx, input.DrillID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDrillNotFound
		}
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txTemplateRepo := repository.NewSessionTemplateRepository(tx)
	txAssignmentRepo := repository.NewDrillAssignmentRepository(tx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", advisoryLockKey(lockDomainTemplate, templateID)); err != nil {
		return nil, err
	}
	if _, err := txTemplateRepo.GetByID(ctx, templateID); err != nil {
		return nil, err
	}

	exists, err := txAssignmentRepo.ExistsForDrill(ctx, templateID, input.DrillID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateDrillAssignment
	}

	current, err := txAssignmentRepo.ListByTemplateID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	assignment, err := txAssignmentRepo.Create(ctx, repository.CreateDrillAssignmentInput{
		SessionTemplateID: templateID,
		DrillID:           input.DrillID,
		Order:             len(current) + 1,
		DurationMinutes:   input.DurationMinutes,
		Instructions:      input.Instructions,
		IsOptional:        input.IsOptional,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return assignment, nil
}

// RemoveDrillAssignment deletes an assignment and closes the gap, leaving
// the remaining orders contiguous in their prior sequence.
func (s *AssignmentService) RemoveDrillAssignment(ctx context.Context, assignmentID int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txAssignmentRepo := repository.NewDrillAssignmentRepository(tx)

	assignment, err := txAssignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", advisoryLockKey(lockDomainTemplate, assignment.SessionTemplateID)); err != nil {
		return err
	}

	if err := txAssignmentRepo.Delete(ctx, assignmentID); err != nil {
		return err
	}

	remaining, err := txAssignmentRepo.ListByTemplateID(ctx, assignment.SessionTemplateID)
	if err != nil {
		return err
	}
	if err := renumberAssignments(ctx, txAssignmentRepo, remaining); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// MoveDrillAssignment reorders within the template. toIndex is clamped
// into range; moving an assignment onto itself is a no-op.
func (s *AssignmentService) MoveDrillAssignment(
	ctx context.Context,
	templateID int64,
	fromIndex int,
	toIndex int,
) ([]models.DrillAssignment, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txAssignmentRepo := repository.NewDrillAssignmentRepository(tx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", advisoryLockKey(lockDomainTemplate, templateID)); err != nil {
		return nil, err
	}

	assignments, err := txAssignmentRepo.ListByTemplateID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if fromIndex < 0 || fromIndex >= len(assignments) {
		return nil, ErrInvalidInput
	}

	reordered, changed := moveItem(assignments, fromIndex, toIndex)
	if !changed {
		return assignments, tx.Commit(ctx)
	}

	if err := renumberAssignments(ctx, txAssignmentRepo, reordered); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return reordered, nil
}

// GetSessionTemplate loads a template with its assignments in order.
func (s *AssignmentService) GetSessionTemplate(ctx context.Context, templateID int64) (*models.SessionTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	template.Drills, err = s.assignmentRepo.ListByTemplateID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return template, nil
}

func renumberAssignments(
	ctx context.Context,
	repo *repository.DrillAssignmentRepository,
	assignments []models.DrillAssignment,
) error {
	for i := range assignments {
		order := i + 1
		if assignments[i].Order == order {
			continue
		}
		if err := repo.SetOrder(ctx, assignments[i].ID, order); err != nil {
			return err
		}
		assignments[i].Order = order
	}
	return nil
}
