package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/classboard/classboard-api/internal/dto"
	"github.com/classboard/classboard-api/internal/models"
	"github.com/classboard/classboard-api/internal/repository"
)

// ErrTaskNotFound indicates the requested task does not exist.
var ErrTaskNotFound = errors.New("task not found")

// TaskService exposes task (assignment) domain use cases.
type TaskService interface {
	List(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error)
	Get(ctx context.Context, id string) (models.Task, error)
	Create(ctx context.Context, payload dto.TaskCreateRequest) (models.Task, error)
	Update(ctx context.Context, id string, payload dto.TaskUpdateRequest) (models.Task, error)
	Delete(ctx context.Context, id string) error
}

type taskService struct {
	repo      repository.TaskRepository
	settings  repository.SettingsRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTaskService builds the task service.
func NewTaskService(repo repository.TaskRepository, settings repository.SettingsRepository, validate *validator.Validate, logger zerolog.Logger) TaskService {
	return &taskService{
		repo:      repo,
		settings:  settings,
		validator: validate,
		logger:    logger.With().Str("component", "task_service").Logger(),
	}
}

func (s *taskService) List(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	return s.repo.List(ctx, filter)
}

func (s *taskService) Get(ctx context.Context, id string) (models.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

func (s *taskService) Create(ctx context.Context, payload dto.TaskCreateRequest) (models.Task, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Task{}, err
	}

	date, err := parseTaskDate(payload.Date)
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		Name:             payload.Name,
		Date:             date,
		ClassID:          payload.ClassID,
		SectionID:        payload.SectionID,
		SubjectID:        payload.SubjectID,
		MaxScore:         payload.MaxScore,
		Breakdown:        datatypes.NewJSONType(breakdownFromRequest(payload.Breakdown)),
		AssignedGroupIDs: datatypes.NewJSONSlice(payload.AssignedGroupIDs),
	}
	if err := s.repo.Create(ctx, &task); err != nil {
		return models.Task{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Str("task_id", task.ID).Bool("ready", task.ReadyForEvaluation()).Msg("task created")
	return task, nil
}

func (s *taskService) Update(ctx context.Context, id string, payload dto.TaskUpdateRequest) (models.Task, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Task{}, err
	}

	task, err := s.Get(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	if payload.Name != nil {
		task.Name = *payload.Name
	}
	if payload.Date != nil {
		date, err := parseTaskDate(*payload.Date)
		if err != nil {
			return models.Task{}, err
		}
		task.Date = date
	}
	if payload.ClassID != nil {
		task.ClassID = *payload.ClassID
	}
	if payload.SectionID != nil {
		task.SectionID = *payload.SectionID
	}
	if payload.SubjectID != nil {
		if *payload.SubjectID == "" {
			task.SubjectID = nil
		} else {
			task.SubjectID = payload.SubjectID
		}
	}
	if payload.MaxScore != nil {
		task.MaxScore = *payload.MaxScore
	}
	if payload.Breakdown != nil {
		task.Breakdown = datatypes.NewJSONType(breakdownFromRequest(*payload.Breakdown))
	}
	if payload.AssignedGroupIDs != nil {
		task.AssignedGroupIDs = datatypes.NewJSONSlice(*payload.AssignedGroupIDs)
	}

	if err := s.repo.Update(ctx, &task); err != nil {
		return models.Task{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Str("task_id", id).Msg("task deleted")
	return nil
}

// parseTaskDate accepts RFC 3339 or a date-only value. Date-only inputs get
// the default time of day so same-day tasks order deterministically.
func parseTaskDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return models.NormalizeTaskDate(parsed), nil
	}
	if parsed, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return models.NormalizeTaskDate(parsed), nil
	}
	return time.Time{}, fmt.Errorf("invalid task date: %q", value)
}

func breakdownFromRequest(payload dto.BreakdownRequest) models.ScoreBreakdown {
	return models.ScoreBreakdown{
		Task:       payload.Task,
		Team:       payload.Team,
		Additional: payload.Additional,
		MCQ:        payload.MCQ,
	}
}
