package services

import (
	"errors"
	"testing"

	"github.com/courtside-app/PickleCoachBack/internal/models"
)

func newTestEnrollment(completed ...int) *models.StudentEnrollment {
	return &models.StudentEnrollment{
		ID:                1,
		StudentID:         42,
		SessionBlockID:    7,
		CompletedSessions: completed,
		Status:            models.EnrollmentActive,
	}
}

func TestApplyMarkCompleteProgress(t *testing.T) {
	enrollment := newTestEnrollment()

	for _, n := range []int{1, 2, 3} {
		if err := applyMarkComplete(enrollment, 10, n); err != nil {
			t.Fatalf("applyMarkComplete(%d): %v", n, err)
		}
	}

	if enrollment.Progress != 0.3 {
		t.Fatalf("expected progress 0.3, got %v", enrollment.Progress)
	}
	if enrollment.CurrentSession != 4 {
		t.Fatalf("expected current session 4, got %d", enrollment.CurrentSession)
	}
	if enrollment.Status != models.EnrollmentActive {
		t.Fatalf("expected active status, got %q", enrollment.Status)
	}
}

func TestApplyMarkCompleteFinishesAndReopenReverts(t *testing.T) {
	enrollment := newTestEnrollment(1, 2, 3)

	for n := 4; n <= 10; n++ {
		if err := applyMarkComplete(enrollment, 10, n); err != nil {
			t.Fatalf("applyMarkComplete(%d): %v", n, err)
		}
	}
	if enrollment.Status != models.EnrollmentCompleted {
		t.Fatalf("expected completed status, got %q", enrollment.Status)
	}
	if enrollment.Progress != 1 {
		t.Fatalf("expected progress 1, got %v", enrollment.Progress)
	}
	if enrollment.CurrentSession != 10 {
		t.Fatalf("expected current session clamped to 10, got %d", enrollment.CurrentSession)
	}

	if err := applyReopen(enrollment, 10, 7); err != nil {
		t.Fatalf("applyReopen: %v", err)
	}
	if enrollment.Status != models.EnrollmentActive {
		t.Fatalf("expected status reverted to active, got %q", enrollment.Status)
	}
	if enrollment.Progress != 0.9 {
		t.Fatalf("expected progress 0.9, got %v", enrollment.Progress)
	}
	if enrollment.CurrentSession != 7 {
		t.Fatalf("expected current session 7, got %d", enrollment.CurrentSession)
	}
}

func TestApplyMarkCompleteRejectsOutOfRange(t *testing.T) {
	enrollment := newTestEnrollment(1)

	for _, n := range []int{0, -3, 11} {
		if err := applyMarkComplete(enrollment, 10, n); !errors.Is(err, ErrInvalidSessionNumber) {
			t.Fatalf("expected ErrInvalidSessionNumber for %d, got %v", n, err)
		}
	}
	if len(enrollment.CompletedSessions) != 1 {
		t.Fatalf("expected completed set unchanged, got %v", enrollment.CompletedSessions)
	}
}

func TestApplyMarkCompleteRejectsCancelled(t *testing.T) {
	enrollment := newTestEnrollment(1)
	enrollment.Status = models.EnrollmentCancelled

	if err := applyMarkComplete(enrollment, 10, 2); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
	if err := applyReopen(enrollment, 10, 1); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition on reopen, got %v", err)
	}
}

func TestApplyMarkCompleteIsIdempotentOnSet(t *testing.T) {
	enrollment := newTestEnrollment(5)

	if err := applyMarkComplete(enrollment, 10, 5); err != nil {
		t.Fatalf("applyMarkComplete: %v", err)
	}
	if len(enrollment.CompletedSessions) != 1 {
		t.Fatalf("expected set of one session, got %v", enrollment.CompletedSessions)
	}
	if enrollment.Progress != 0.1 {
		t.Fatalf("expected progress 0.1, got %v", enrollment.Progress)
	}
}

func TestApplyMarkCompleteAllowedWhilePaused(t *testing.T) {
	enrollment := newTestEnrollment()
	enrollment.Status = models.EnrollmentPaused

	if err := applyMarkComplete(enrollment, 2, 1); err != nil {
		t.Fatalf("applyMarkComplete: %v", err)
	}
	if enrollment.Status != models.EnrollmentPaused {
		t.Fatalf("expected status to stay paused, got %q", enrollment.Status)
	}

	if err := applyMarkComplete(enrollment, 2, 2); err != nil {
		t.Fatalf("applyMarkComplete: %v", err)
	}
	if enrollment.Status != models.EnrollmentCompleted {
		t.Fatalf("expected completion from paused, got %q", enrollment.Status)
	}
}

func TestApplyReopenMissingSessionRecomputesOnly(t *testing.T) {
	enrollment := newTestEnrollment(1, 2)
	if err := applyReopen(enrollment, 10, 9); err != nil {
		t.Fatalf("applyReopen: %v", err)
	}
	if len(enrollment.CompletedSessions) != 2 {
		t.Fatalf("expected set unchanged, got %v", enrollment.CompletedSessions)
	}
	if enrollment.CurrentSession != 3 {
		t.Fatalf("expected current session 3, got %d", enrollment.CurrentSession)
	}
}

func TestProgressInvariantHoldsAcrossSequences(t *testing.T) {
	enrollment := newTestEnrollment()
	total := 8

	steps := []struct {
		reopen bool
		n      int
	}{
		{false, 3}, {false, 1}, {false, 8}, {true, 3}, {false, 2}, {false, 3}, {true, 8},
	}
	for _, step := range steps {
		var err error
		if step.reopen {
			err = applyReopen(enrollment, total, step.n)
		} else {
			err = applyMarkComplete(enrollment, total, step.n)
		}
		if err != nil {
			t.Fatalf("step %+v: %v", step, err)
		}

		if enrollment.Progress*float64(total) != float64(len(enrollment.CompletedSessions)) {
			t.Fatalf("progress invariant broken after %+v: progress=%v completed=%v",
				step, enrollment.Progress, enrollment.CompletedSessions)
		}
	}
}

func TestRecomputeDerivedSortsSet(t *testing.T) {
	enrollment := newTestEnrollment(4, 1, 3)
	recomputeDerived(enrollment, 5)

	for i := 1; i < len(enrollment.CompletedSessions); i++ {
		if enrollment.CompletedSessions[i-1] > enrollment.CompletedSessions[i] {
			t.Fatalf("expected sorted set, got %v", enrollment.CompletedSessions)
		}
	}
	if enrollment.CurrentSession != 2 {
		t.Fatalf("expected current session 2, got %d", enrollment.CurrentSession)
	}
}

func TestBuildSummary(t *testing.T) {
	enrollment := newTestEnrollment(1, 2, 3)
	recomputeDerived(enrollment, 10)

	summary := buildSummary(enrollment, 10)
	if summary.CompletedCount != 3 {
		t.Fatalf("expected 3 completed, got %d", summary.CompletedCount)
	}
	if summary.RemainingCount != 7 {
		t.Fatalf("expected 7 remaining, got %d", summary.RemainingCount)
	}
	if summary.Progress != 0.3 {
		t.Fatalf("expected progress 0.3, got %v", summary.Progress)
	}
	if summary.CurrentSession != 4 {
		t.Fatalf("expected current session 4, got %d", summary.CurrentSession)
	}
}

func TestNormalizeRequestedEnrollmentStatus(t *testing.T) {
	cases := map[string]string{
		"pause":     models.EnrollmentPaused,
		"  Paused ": models.EnrollmentPaused,
		"resume":    models.EnrollmentActive,
		"active":    models.EnrollmentActive,
		"cancel":    models.EnrollmentCancelled,
		"canceled":  models.EnrollmentCancelled,
		"CANCELLED": models.EnrollmentCancelled,
	}
	for input, expected := range cases {
		status, err := normalizeRequestedEnrollmentStatus(input)
		if err != nil {
			t.Fatalf("normalize(%q): %v", input, err)
		}
		if status != expected {
			t.Fatalf("normalize(%q): expected %q, got %q", input, expected, status)
		}
	}

	if _, err := normalizeRequestedEnrollmentStatus("completed"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for completed, got %v", err)
	}
}

func TestValidateEnrollmentTransition(t *testing.T) {
	allowed := []struct{ current, next string }{
		{models.EnrollmentActive, models.EnrollmentPaused},
		{models.EnrollmentPaused, models.EnrollmentActive},
		{models.EnrollmentActive, models.EnrollmentCancelled},
		{models.EnrollmentPaused, models.EnrollmentCancelled},
	}
	for _, tc := range allowed {
		if err := validateEnrollmentTransition(tc.current, tc.next); err != nil {
			t.Fatalf("expected %s -> %s to be allowed: %v", tc.current, tc.next, err)
		}
	}

	rejected := []struct{ current, next string }{
		{models.EnrollmentCancelled, models.EnrollmentActive},
		{models.EnrollmentCancelled, models.EnrollmentPaused},
		{models.EnrollmentCancelled, models.EnrollmentCancelled},
		{models.EnrollmentCompleted, models.EnrollmentPaused},
		{models.EnrollmentCompleted, models.EnrollmentCancelled},
		{models.EnrollmentActive, models.EnrollmentActive},
	}
	for _, tc := range rejected {
		if err := validateEnrollmentTransition(tc.current, tc.next); err == nil {
			t.Fatalf("expected %s -> %s to be rejected", tc.current, tc.next)
		}
	}
}
