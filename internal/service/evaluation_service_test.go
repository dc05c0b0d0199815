package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/classboard/classboard-api/internal/dto"
	"github.com/classboard/classboard-api/internal/models"
	"github.com/classboard/classboard-api/internal/repository"
)

func newEvaluationFixture(t *testing.T) (EvaluationService, *gorm.DB, repository.SettingsRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Task{}, &models.Evaluation{}, &models.Setting{}))

	settingsRepo := repository.NewSettingsRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewEvaluationService(repository.NewEvaluationRepository(db), repository.NewTaskRepository(db), settingsRepo, validate, zerolog.Nop())

	return svc, db, settingsRepo
}

func TestEvaluationCreateRejectsUnconfiguredTask(t *testing.T) {
	svc, db, _ := newEvaluationFixture(t)
	ctx := context.Background()

	// No MCQ portion configured yet.
	require.NoError(t, db.Create(&models.Task{ID: "t1", Name: "Quiz", MaxScore: 100}).Error)

	_, err := svc.Create(ctx, dto.EvaluationCreateRequest{
		TaskID:  "t1",
		GroupID: "g1",
		Scores:  map[string]dto.StudentScoreRequest{"s1": {TotalScore: 50}},
	})
	require.ErrorIs(t, err, ErrTaskNotReady)

	var count int64
	require.NoError(t, db.Model(&models.Evaluation{}).Count(&count).Error)
	require.Zero(t, count, "rejected evaluations must not be persisted")
}

func TestEvaluationCreateClampsAndBumpsVersion(t *testing.T) {
	svc, db, settings := newEvaluationFixture(t)
	ctx := context.Background()

	before, err := settings.LastUpdated(ctx)
	require.NoError(t, err)
	require.Zero(t, before)

	mcq := 20.0
	require.NoError(t, db.Create(&models.Task{
		ID: "t1", Name: "Quiz", MaxScore: 100,
		Date:      time.Date(2026, 6, 1, 11, 55, 0, 0, time.UTC),
		Breakdown: datatypes.NewJSONType(models.ScoreBreakdown{MCQ: &mcq}),
	}).Error)

	created, err := svc.Create(ctx, dto.EvaluationCreateRequest{
		TaskID:  "t1",
		GroupID: "g1",
		Scores: map[string]dto.StudentScoreRequest{
			"s1": {TotalScore: 250},
			"s2": {TotalScore: -10},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.InDelta(t, 100.0, created.MaxPossibleScore, 1e-9)

	scores := created.Scores.Data()
	require.InDelta(t, 100.0, scores["s1"].TotalScore, 1e-9)
	require.Zero(t, scores["s2"].TotalScore)

	require.NotNil(t, created.TaskDate)
	require.Equal(t, 2026, created.TaskDate.Year())

	after, err := settings.LastUpdated(ctx)
	require.NoError(t, err)
	require.Greater(t, after, before, "every committed write must bump the version marker")
}

func TestEvaluationCreateUnknownTask(t *testing.T) {
	svc, _, _ := newEvaluationFixture(t)

	_, err := svc.Create(context.Background(), dto.EvaluationCreateRequest{
		TaskID:  "missing",
		GroupID: "g1",
		Scores:  map[string]dto.StudentScoreRequest{"s1": {TotalScore: 10}},
	})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestEvaluationUpdateRechecksReadiness(t *testing.T) {
	svc, db, _ := newEvaluationFixture(t)
	ctx := context.Background()

	mcq := 20.0
	task := models.Task{
		ID: "t1", Name: "Quiz", MaxScore: 100,
		Breakdown: datatypes.NewJSONType(models.ScoreBreakdown{MCQ: &mcq}),
	}
	require.NoError(t, db.Create(&task).Error)

	created, err := svc.Create(ctx, dto.EvaluationCreateRequest{
		TaskID:  "t1",
		GroupID: "g1",
		Scores:  map[string]dto.StudentScoreRequest{"s1": {TotalScore: 60}},
	})
	require.NoError(t, err)

	// The breakdown gets cleared afterwards; rescoring must be refused.
	task.Breakdown = datatypes.NewJSONType(models.ScoreBreakdown{})
	require.NoError(t, db.Save(&task).Error)

	_, err = svc.Update(ctx, created.ID, dto.EvaluationUpdateRequest{
		Scores: map[string]dto.StudentScoreRequest{"s1": {TotalScore: 80}},
	})
	require.ErrorIs(t, err, ErrTaskNotReady)
}

func TestEvaluationDelete(t *testing.T) {
	svc, db, _ := newEvaluationFixture(t)
	ctx := context.Background()

	mcq := 5.0
	require.NoError(t, db.Create(&models.Task{
		ID: "t1", Name: "Quiz", MaxScore: 10,
		Breakdown: datatypes.NewJSONType(models.ScoreBreakdown{MCQ: &mcq}),
	}).Error)

	created, err := svc.Create(ctx, dto.EvaluationCreateRequest{
		TaskID:  "t1",
		GroupID: "g1",
		Scores:  map[string]dto.StudentScoreRequest{"s1": {TotalScore: 8}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrEvaluationNotFound)
}
