package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/classboard/classboard-api/internal/dto"
	"github.com/classboard/classboard-api/internal/models"
	"github.com/classboard/classboard-api/internal/repository"
)

// ErrEvaluationNotFound indicates the requested evaluation does not exist.
var ErrEvaluationNotFound = errors.New("evaluation not found")

// ErrTaskNotReady indicates the task's MCQ score breakdown has not been
// configured. Callers surface this distinctly so the operator is prompted to
// configure the task instead of scoring against undefined maximums.
var ErrTaskNotReady = errors.New("task is not ready for evaluation: mcq breakdown missing")

// EvaluationService exposes evaluation domain use cases.
type EvaluationService interface {
	List(ctx context.Context, filter repository.EvaluationFilter) ([]models.Evaluation, error)
	Get(ctx context.Context, id string) (models.Evaluation, error)
	Create(ctx context.Context, payload dto.EvaluationCreateRequest) (models.Evaluation, error)
	Update(ctx context.Context, id string, payload dto.EvaluationUpdateRequest) (models.Evaluation, error)
	Delete(ctx context.Context, id string) error
}

type evaluationService struct {
	repo      repository.EvaluationRepository
	tasks     repository.TaskRepository
	settings  repository.SettingsRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEvaluationService builds the evaluation service.
func NewEvaluationService(repo repository.EvaluationRepository, tasks repository.TaskRepository, settings repository.SettingsRepository, validate *validator.Validate, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		repo:      repo,
		tasks:     tasks,
		settings:  settings,
		validator: validate,
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
	}
}

func (s *evaluationService) List(ctx context.Context, filter repository.EvaluationFilter) ([]models.Evaluation, error) {
	return s.repo.List(ctx, filter)
}

func (s *evaluationService) Get(ctx context.Context, id string) (models.Evaluation, error) {
	evaluation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Evaluation{}, ErrEvaluationNotFound
		}
		return models.Evaluation{}, err
	}
	return evaluation, nil
}

func (s *evaluationService) Create(ctx context.Context, payload dto.EvaluationCreateRequest) (models.Evaluation, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Evaluation{}, err
	}

	task, err := s.tasks.GetByID(ctx, payload.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Evaluation{}, ErrTaskNotFound
		}
		return models.Evaluation{}, err
	}
	if !task.ReadyForEvaluation() {
		return models.Evaluation{}, ErrTaskNotReady
	}

	maxPossible := payload.MaxPossibleScore
	if maxPossible <= 0 {
		maxPossible = task.MaxScore
	}

	evaluation := models.Evaluation{
		TaskID:           payload.TaskID,
		GroupID:          payload.GroupID,
		ClassID:          payload.ClassID,
		SectionID:        payload.SectionID,
		Scores:           datatypes.NewJSONType(scoresFromRequest(payload.Scores, maxPossible)),
		MaxPossibleScore: maxPossible,
	}

	if payload.TaskDate != "" {
		if parsed, parseErr := parseTaskDate(payload.TaskDate); parseErr == nil {
			evaluation.TaskDate = &parsed
		}
	}
	if evaluation.TaskDate == nil && !task.Date.IsZero() {
		date := task.Date
		evaluation.TaskDate = &date
	}

	if err := s.repo.Create(ctx, &evaluation); err != nil {
		return models.Evaluation{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().
		Str("evaluation_id", evaluation.ID).
		Str("task_id", evaluation.TaskID).
		Str("group_id", evaluation.GroupID).
		Int("scored_students", len(payload.Scores)).
		Msg("evaluation recorded")
	return evaluation, nil
}

func (s *evaluationService) Update(ctx context.Context, id string, payload dto.EvaluationUpdateRequest) (models.Evaluation, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Evaluation{}, err
	}

	evaluation, err := s.Get(ctx, id)
	if err != nil {
		return models.Evaluation{}, err
	}

	// Re-check readiness: the breakdown may have been cleared since the
	// evaluation was first recorded.
	task, err := s.tasks.GetByID(ctx, evaluation.TaskID)
	if err == nil && !task.ReadyForEvaluation() {
		return models.Evaluation{}, ErrTaskNotReady
	}

	if payload.MaxPossibleScore != nil && *payload.MaxPossibleScore > 0 {
		evaluation.MaxPossibleScore = *payload.MaxPossibleScore
	}
	evaluation.Scores = datatypes.NewJSONType(scoresFromRequest(payload.Scores, evaluation.MaxPossibleScore))

	if err := s.repo.Update(ctx, &evaluation); err != nil {
		return models.Evaluation{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	return evaluation, nil
}

func (s *evaluationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEvaluationNotFound
		}
		return err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Str("evaluation_id", id).Msg("evaluation deleted")
	return nil
}

// scoresFromRequest converts and clamps incoming scores. Totals are bounded
// to [0, maxPossible] at the write boundary so adversarial input can never
// leak past the store.
func scoresFromRequest(scores map[string]dto.StudentScoreRequest, maxPossible float64) map[string]models.StudentScore {
	result := make(map[string]models.StudentScore, len(scores))
	for studentID, score := range scores {
		total := score.TotalScore
		if total < 0 {
			total = 0
		}
		if maxPossible > 0 && total > maxPossible {
			total = maxPossible
		}
		result[studentID] = models.StudentScore{
			TaskScore:       score.TaskScore,
			TeamScore:       score.TeamScore,
			AdditionalScore: score.AdditionalScore,
			MCQScore:        score.MCQScore,
			TotalScore:      total,
			AdditionalCriteria: models.AdditionalCriteria{
				Topic:      score.AdditionalCriteria.Topic,
				Homework:   score.AdditionalCriteria.Homework,
				Attendance: score.AdditionalCriteria.Attendance,
			},
			Comments:         score.Comments,
			ProblemRecovered: score.ProblemRecovered,
		}
	}
	return result
}
