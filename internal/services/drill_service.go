package services

import (
	"context"
	"strings"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/courtside-app/PickleCoachBack/internal/repository"
)

type drillStore interface {
	Create(ctx context.Context, input repository.CreateDrillInput) (*models.Drill, error)
	GetByID(ctx context.Context, drillID int64) (*models.Drill, error)
	List(ctx context.Context, filter repository.DrillListFilter) ([]models.Drill, error)
	Count(ctx context.Context, filter repository.DrillListFilter) (int, error)
}

// DrillService is the catalog surface. Drills are treated as immutable
// once created: there is no update, a changed drill is a new drill.
type DrillService struct {
	drillRepo drillStore
}

func NewDrillService(drillRepo *repository.DrillRepository) *DrillService {
	return &DrillService{drillRepo: drillRepo}
}

type CreateDrillInput struct {
	Title           string
	SkillTag        string
	LevelBand       string
	DurationMinutes int
	Intensity       int
	Equipment       []string
	VideoURL        *string
	IsPublic        bool
}

func (s *DrillService) CreateDrill(
	ctx context.Context,
	coachID int64,
	input CreateDrillInput,
) (*models.Drill, error) {
	if coachID <= 0 || input.DurationMinutes <= 0 {
		return nil, ErrInvalidInput
	}
	if input.Intensity < 1 || input.Intensity > 5 {
		return nil, ErrInvalidInput
	}
	title := strings.TrimSpace(input.Title)
	if title == "" || !models.ValidSkillTag(input.SkillTag) {
		return nil, ErrInvalidInput
	}

	equipment := input.Equipment
	if equipment == nil {
		equipment = []string{}
	}

	return s.drillRepo.Create(ctx, repository.CreateDrillInput{
		CoachID:         coachID,
		Title:           title,
		SkillTag:        input.SkillTag,
		LevelBand:       strings.TrimSpace(input.LevelBand),
		DurationMinutes: input.DurationMinutes,
		Intensity:       input.Intensity,
		Equipment:       equipment,
		VideoURL:        input.VideoURL,
		IsPublic:        input.IsPublic,
	})
}

func (s *DrillService) GetDrill(ctx context.Context, drillID int64) (*models.Drill, error) {
	return s.drillRepo.GetByID(ctx, drillID)
}

func (s *DrillService) ListDrills(
	ctx context.Context,
	filter repository.DrillListFilter,
) ([]models.Drill, int, error) {
	if filter.SkillTag != "" && !models.ValidSkillTag(filter.SkillTag) {
		return nil, 0, ErrInvalidInput
	}

	drills, err := s.drillRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.drillRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return drills, total, nil
}
