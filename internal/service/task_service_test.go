package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/classboard/classboard-api/internal/dto"
	"github.com/classboard/classboard-api/internal/models"
	"github.com/classboard/classboard-api/internal/repository"
)

func newTaskFixture(t *testing.T) TaskService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Task{}, &models.Setting{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewTaskService(repository.NewTaskRepository(db), repository.NewSettingsRepository(db), validate, zerolog.Nop())
}

func TestTaskCreateNormalizesDateOnlyInput(t *testing.T) {
	svc := newTaskFixture(t)
	ctx := context.Background()

	mcq := 20.0
	created, err := svc.Create(ctx, dto.TaskCreateRequest{
		Name:      "Quiz",
		Date:      "2026-03-09",
		ClassID:   "c1",
		MaxScore:  100,
		Breakdown: dto.BreakdownRequest{Task: 50, Team: 20, Additional: 10, MCQ: &mcq},
	})
	require.NoError(t, err)
	require.Equal(t, 11, created.Date.Hour())
	require.Equal(t, 55, created.Date.Minute())
	require.True(t, created.ReadyForEvaluation())
}

func TestTaskCreateKeepsExplicitTimestamp(t *testing.T) {
	svc := newTaskFixture(t)
	ctx := context.Background()

	when := time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC)
	created, err := svc.Create(ctx, dto.TaskCreateRequest{
		Name:     "Quiz",
		Date:     when.Format(time.RFC3339),
		ClassID:  "c1",
		MaxScore: 100,
	})
	require.NoError(t, err)
	require.Equal(t, 9, created.Date.UTC().Hour())
	require.False(t, created.ReadyForEvaluation(), "no mcq breakdown configured")
}

func TestTaskCreateRejectsUnparsableDate(t *testing.T) {
	svc := newTaskFixture(t)

	_, err := svc.Create(context.Background(), dto.TaskCreateRequest{
		Name:     "Quiz",
		Date:     "soon",
		ClassID:  "c1",
		MaxScore: 100,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid task date")
}

func TestTaskUpdateClearsSubject(t *testing.T) {
	svc := newTaskFixture(t)
	ctx := context.Background()

	subject := "sub-math"
	created, err := svc.Create(ctx, dto.TaskCreateRequest{
		Name:      "Quiz",
		Date:      "2026-03-09",
		ClassID:   "c1",
		SubjectID: &subject,
		MaxScore:  100,
	})
	require.NoError(t, err)
	require.NotNil(t, created.SubjectID)

	empty := ""
	updated, err := svc.Update(ctx, created.ID, dto.TaskUpdateRequest{SubjectID: &empty})
	require.NoError(t, err)
	require.Nil(t, updated.SubjectID)
}

func TestTaskDeleteUnknown(t *testing.T) {
	svc := newTaskFixture(t)
	require.ErrorIs(t, svc.Delete(context.Background(), "missing"), ErrTaskNotFound)
}
