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

// ErrTeacherNotFound indicates the requested teacher does not exist or is
// soft-deleted.
var ErrTeacherNotFound = errors.New("teacher not found")

// TeacherService exposes teacher account and assignment use cases.
type TeacherService interface {
	List(ctx context.Context) ([]models.Teacher, error)
	Get(ctx context.Context, id string) (models.Teacher, error)
	Create(ctx context.Context, payload dto.TeacherCreateRequest) (models.Teacher, error)
	Update(ctx context.Context, id string, payload dto.TeacherUpdateRequest) (models.Teacher, error)
	Delete(ctx context.Context, id string) error
}

type teacherService struct {
	repo      repository.TeacherRepository
	settings  repository.SettingsRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTeacherService builds the teacher service.
func NewTeacherService(repo repository.TeacherRepository, settings repository.SettingsRepository, validate *validator.Validate, logger zerolog.Logger) TeacherService {
	return &teacherService{
		repo:      repo,
		settings:  settings,
		validator: validate,
		logger:    logger.With().Str("component", "teacher_service").Logger(),
	}
}

func (s *teacherService) List(ctx context.Context) ([]models.Teacher, error) {
	return s.repo.List(ctx)
}

func (s *teacherService) Get(ctx context.Context, id string) (models.Teacher, error) {
	teacher, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Teacher{}, ErrTeacherNotFound
		}
		return models.Teacher{}, err
	}
	return teacher, nil
}

func (s *teacherService) Create(ctx context.Context, payload dto.TeacherCreateRequest) (models.Teacher, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Teacher{}, err
	}

	teacher := models.Teacher{
		Name:               payload.Name,
		Email:              payload.Email,
		AssignedClassIDs:   datatypes.NewJSONSlice(payload.AssignedClassIDs),
		AssignedSectionIDs: datatypes.NewJSONSlice(payload.AssignedSectionIDs),
		AssignedSubjectIDs: datatypes.NewJSONSlice(payload.AssignedSubjectIDs),
	}
	if err := s.repo.Create(ctx, &teacher); err != nil {
		return models.Teacher{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Str("teacher_id", teacher.ID).Msg("teacher created")
	return teacher, nil
}

func (s *teacherService) Update(ctx context.Context, id string, payload dto.TeacherUpdateRequest) (models.Teacher, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Teacher{}, err
	}

	teacher, err := s.Get(ctx, id)
	if err != nil {
		return models.Teacher{}, err
	}

	if payload.Name != nil {
		teacher.Name = *payload.Name
	}
	if payload.Email != nil {
		teacher.Email = *payload.Email
	}
	if payload.AssignedClassIDs != nil {
		teacher.AssignedClassIDs = datatypes.NewJSONSlice(*payload.AssignedClassIDs)
	}
	if payload.AssignedSectionIDs != nil {
		teacher.AssignedSectionIDs = datatypes.NewJSONSlice(*payload.AssignedSectionIDs)
	}
	if payload.AssignedSubjectIDs != nil {
		teacher.AssignedSubjectIDs = datatypes.NewJSONSlice(*payload.AssignedSubjectIDs)
	}

	if err := s.repo.Update(ctx, &teacher); err != nil {
		return models.Teacher{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	return teacher, nil
}

// Delete soft-deletes the teacher; their account disappears from listings but
// historical references stay intact.
func (s *teacherService) Delete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Str("teacher_id", id).Msg("teacher soft-deleted")
	return nil
}
