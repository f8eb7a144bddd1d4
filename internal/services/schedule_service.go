package services

import (
	"context"
	"time"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/courtside-app/PickleCoachBack/pkg/utils"
)

const (
	defaultSessionStart = "09:00"
	defaultSessionEnd   = "10:00"
)

// Sessions step by exactly one week from the enrollment's start date. The
// block's duration_weeks field is informational only and does not change
// the spacing.
const sessionSpacingDays = 7

type enrollmentReader interface {
	GetByID(ctx context.Context, enrollmentID int64) (*models.StudentEnrollment, error)
}

type blockReader interface {
	GetByID(ctx context.Context, blockID int64) (*models.SessionBlock, error)
}

type templateLister interface {
	ListByBlockID(ctx context.Context, blockID int64) ([]models.SessionTemplate, error)
}

type overrideStore interface {
	Upsert(ctx context.Context, override models.SessionTimeOverride) (*models.SessionTimeOverride, error)
	MapByEnrollmentID(ctx context.Context, enrollmentID int64) (map[int]models.SessionTimeOverride, error)
}

type ScheduleService struct {
	enrollmentRepo enrollmentReader
	blockRepo      blockReader
	templateRepo   templateLister
	overrideRepo   overrideStore
}

func NewScheduleService(
	enrollmentRepo enrollmentReader,
	blockRepo blockReader,
	templateRepo templateLister,
	overrideRepo overrideStore,
) *ScheduleService {
	return &ScheduleService{
		enrollmentRepo: enrollmentRepo,
		blockRepo:      blockRepo,
		templateRepo:   templateRepo,
		overrideRepo:   overrideRepo,
	}
}

// ProjectSchedule turns a block into dated sessions anchored at startDate.
// Time-of-day on startDate is ignored. Override keys outside
// 1..TotalSessions are ignored. The result always has exactly
// TotalSessions entries, one week apart, in date order.
func ProjectSchedule(
	block *models.SessionBlock,
	startDate time.Time,
	overrides map[int]models.SessionTimeOverride,
) []models.ScheduledSession {
	anchor := utils.DateOnly(startDate)
	location := block.Location()

	sessions := make([]models.ScheduledSession, 0, block.TotalSessions)
	for i := 0; i < block.TotalSessions; i++ {
		sessionNumber := i + 1

		var templateID int64
		if i < len(block.Sessions) {
			templateID = block.Sessions[i].ID
		} else if len(block.Sessions) > 0 {
			// Incompletely authored block: fall back to the first template.
			templateID = block.Sessions[0].ID
		}

		start, end := defaultSessionStart, defaultSessionEnd
		if override, ok := overrides[sessionNumber]; ok {
			start, end = override.StartTime, override.EndTime
		}

		sessions = append(sessions, models.ScheduledSession{
			SessionNumber:     sessionNumber,
			SessionTemplateID: templateID,
			Date:              anchor.AddDate(0, 0, i*sessionSpacingDays),
			StartTime:         start,
			EndTime:           end,
			Location:          location,
			DeliveryMode:      block.DeliveryMode,
			Status:            models.ScheduledUpcoming,
		})
	}
	return sessions
}

// GetScheduledSessions projects the enrollment's block onto its calendar
// and stamps each entry with the enrollment's identity and completion
// state.
func (s *ScheduleService) GetScheduledSessions(
	ctx context.Context,
	enrollmentID int64,
) ([]models.ScheduledSession, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	block, err := s.blockRepo.GetByID(ctx, enrollment.SessionBlockID)
	if err != nil {
		return nil, err
	}
	block.Sessions, err = s.templateRepo.ListByBlockID(ctx, block.ID)
	if err != nil {
		return nil, err
	}

	overrides, err := s.overrideRepo.MapByEnrollmentID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	sessions := ProjectSchedule(block, enrollment.StartDate, overrides)
	for i := range sessions {
		sessions[i].EnrollmentID = enrollment.ID
		sessions[i].StudentID = enrollment.StudentID
		if enrollment.HasCompleted(sessions[i].SessionNumber) {
			sessions[i].Status = models.ScheduledCompleted
		}
	}
	return sessions, nil
}

// SetSessionTime stores a per-enrollment start/end override for one
// session number.
func (s *ScheduleService) SetSessionTime(
	ctx context.Context,
	enrollmentID int64,
	sessionNumber int,
	startTime string,
	endTime string,
) (*models.SessionTimeOverride, error) {
	if !utils.ClockRangeValid(startTime, endTime) {
		return nil, ErrInvalidInput
	}

	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	block, err := s.blockRepo.GetByID(ctx, enrollment.SessionBlockID)
	if err != nil {
		return nil, err
	}
	if sessionNumber < 1 || sessionNumber > block.TotalSessions {
		return nil, ErrInvalidSessionNumber
	}

	return s.overrideRepo.Upsert(ctx, models.SessionTimeOverride{
		EnrollmentID:  enrollmentID,
		SessionNumber: sessionNumber,
		StartTime:     startTime,
		EndTime:       endTime,
	})
}
