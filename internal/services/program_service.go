package services

import (
	"context"
	"errors"
	"strings"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/courtside-app/PickleCoachBack/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStructuralIntegrity guards session numbering that enrollments already
// reference: renumbering templates under an open enrollment would silently
// change what its completed-session numbers mean.
var ErrStructuralIntegrity = errors.New("session block has enrollments referencing its session numbers")

type ProgramService struct {
	db             *pgxpool.Pool
	blockRepo      *repository.SessionBlockRepository
	templateRepo   *repository.SessionTemplateRepository
	assignmentRepo *repository.DrillAssignmentRepository
	enrollmentRepo *repository.EnrollmentRepository
}

func NewProgramService(
	db *pgxpool.Pool,
	blockRepo *repository.SessionBlockRepository,
	templateRepo *repository.SessionTemplateRepository,
	assignmentRepo *repository.DrillAssignmentRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *ProgramService {
	return &ProgramService{
		db:             db,
		blockRepo:      blockRepo,
		templateRepo:   templateRepo,
		assignmentRepo: assignmentRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

type CreateSessionBlockInput struct {
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

type AddSessionTemplateInput struct {
	Title           string
	Objectives      []string
	DurationMinutes int
	CoachNotes      *string
}

func (s *ProgramService) CreateSessionBlock(
	ctx context.Context,
	coachID int64,
	input CreateSessionBlockInput,
) (*models.SessionBlock, error) {
	if coachID <= 0 || input.Price < 0 || input.DurationWeeks < 1 {
		return nil, ErrInvalidInput
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	switch input.DeliveryMode {
	case models.DeliveryOffline:
		if input.CourtAddress == nil || strings.TrimSpace(*input.CourtAddress) == "" {
			return nil, ErrInvalidInput
		}
	case models.DeliveryOnline:
		if input.MeetingLink == nil || strings.TrimSpace(*input.MeetingLink) == "" {
			return nil, ErrInvalidInput
		}
	default:
		return nil, ErrInvalidInput
	}

	return s.blockRepo.Create(ctx, repository.CreateSessionBlockInput{
		CoachID:        coachID,
		Title:          title,
		Description:    input.Description,
		SkillLevelFrom: strings.TrimSpace(input.SkillLevelFrom),
		SkillLevelTo:   strings.TrimSpace(input.SkillLevelTo),
		Price:          input.Price,
		DurationWeeks:  input.DurationWeeks,
		DeliveryMode:   input.DeliveryMode,
		CourtAddress:   input.CourtAddress,
		MeetingLink:    input.MeetingLink,
	})
}

// GetSessionBlock loads a block with its templates and their assignments.
func (s *ProgramService) GetSessionBlock(ctx context.Context, blockID int64) (*models.SessionBlock, error) {
	block, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		return nil, err
	}

	templates, err := s.templateRepo.ListByBlockID(ctx, blockID)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		drills, err := s.assignmentRepo.ListByTemplateID(ctx, templates[i].ID)
		if err != nil {
			return nil, err
		}
		templates[i].Drills = drills
	}

	block.Sessions = templates
	return block, nil
}

func (s *ProgramService) ListSessionBlocksByCoach(ctx context.Context, coachID int64) ([]models.SessionBlock, error) {
	return s.blockRepo.ListByCoachID(ctx, coachID)
}

func (s *ProgramService) SetSessionBlockActive(ctx context.Context, blockID int64, active bool) (*models.SessionBlock, error) {
	return s.blockRepo.SetActive(ctx, blockID, active)
}

// DeleteSessionBlock removes a block and, by cascade, its templates and
// assignments. Blocks with enrollments of any status are kept.
func (s *ProgramService) DeleteSessionBlock(ctx context.Context, blockID int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txBlockRepo := repository.NewSessionBlockRepository(tx)
	txEnrollmentRepo := repository.NewEnrollmentRepository(tx)

	if _, err := txBlockRepo.GetByIDForUpdate(ctx, blockID); err != nil {
		return err
	}

	enrolled, err := txEnrollmentRepo.CountByBlockID(ctx, blockID)
	if err != nil {
		return err
	}
	if enrolled > 0 {
		return ErrStructuralIntegrity
	}

	if err := txBlockRepo.Delete(ctx, blockID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// AddSessionTemplate appends a template with the next session number and
// keeps the block's total in step.
func (s *ProgramService) AddSessionTemplate(
	ctx context.Context,
	blockID int64,
	input AddSessionTemplateInput,
) (*models.SessionTemplate, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.DurationMinutes <= 0 {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txBlockRepo := repository.NewSessionBlockRepository(tx)
	txTemplateRepo := repository.NewSessionTemplateRepository(tx)

	block, err := txBlockRepo.GetByIDForUpdate(ctx, blockID)
	if err != nil {
		return nil, err
	}

	existing, err := txTemplateRepo.ListByBlockID(ctx, blockID)
	if err != nil {
		return nil, err
	}

	template, err := txTemplateRepo.Create(ctx, repository.CreateSessionTemplateInput{
		SessionBlockID:  block.ID,
		SessionNumber:   len(existing) + 1,
		Title:           title,
		Objectives:      input.Objectives,
		DurationMinutes: input.DurationMinutes,
		CoachNotes:      input.CoachNotes,
	})
	if err != nil {
		return nil, err
	}

	if err := txBlockRepo.SetTotalSessions(ctx, blockID, len(existing)+1); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return template, nil
}

// RemoveSessionTemplate deletes a template and renumbers the remainder to
// 1..N. Rejected while the block has active or paused enrollments.
func (s *ProgramService) RemoveSessionTemplate(ctx context.Context, templateID int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txBlockRepo := repository.NewSessionBlockRepository(tx)
	txTemplateRepo := repository.NewSessionTemplateRepository(tx)
	txEnrollmentRepo := repository.NewEnrollmentRepository(tx)

	template, err := txTemplateRepo.GetByID(ctx, templateID)
	if err != nil {
		return err
	}
	if _, err := txBlockRepo.GetByIDForUpdate(ctx, template.SessionBlockID); err != nil {
		return err
	}

	open, err := txEnrollmentRepo.CountOpenByBlockID(ctx, template.SessionBlockID)
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrStructuralIntegrity
	}

	if err := txTemplateRepo.Delete(ctx, templateID); err != nil {
		return err
	}

	remaining, err := txTemplateRepo.ListByBlockID(ctx, template.SessionBlockID)
	if err != nil {
		return err
	}
	if err := renumberTemplates(ctx, txTemplateRepo, remaining); err != nil {
		return err
	}
	if err := txBlockRepo.SetTotalSessions(ctx, template.SessionBlockID, len(remaining)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// MoveSessionTemplate reorders a template within its block, renumbering to
// 1..N. Same enrollment guard as removal.
func (s *ProgramService) MoveSessionTemplate(
	ctx context.Context,
	blockID int64,
	fromIndex int,
	toIndex int,
) ([]models.SessionTemplate, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txBlockRepo := repository.NewSessionBlockRepository(tx)
	txTemplateRepo := repository.NewSessionTemplateRepository(tx)
	txEnrollmentRepo := repository.NewEnrollmentRepository(tx)

	if _, err := txBlockRepo.GetByIDForUpdate(ctx, blockID); err != nil {
		return nil, err
	}

	open, err := txEnrollmentRepo.CountOpenByBlockID(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, ErrStructuralIntegrity
	}

	templates, err := txTemplateRepo.ListByBlockID(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if fromIndex < 0 || fromIndex >= len(templates) {
		return nil, ErrInvalidInput
	}

	reordered, changed := moveItem(templates, fromIndex, toIndex)
	if !changed {
		return templates, tx.Commit(ctx)
	}

	if err := renumberTemplates(ctx, txTemplateRepo, reordered); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return reordered, nil
}

func renumberTemplates(
	ctx context.Context,
	repo *repository.SessionTemplateRepository,
	templates []models.SessionTemplate,
) error {
	for i := range templates {
		number := i + 1
		if templates[i].SessionNumber == number {
			continue
		}
		if err := repo.SetSessionNumber(ctx, templates[i].ID, number); err != nil {
			return err
		}
		templates[i].SessionNumber = number
	}
	return nil
}
