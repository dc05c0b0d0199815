package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/classboard/classboard-api/internal/dto"
	"github.com/classboard/classboard-api/internal/models"
	"github.com/classboard/classboard-api/internal/repository"
)

// ErrStudentNotFound indicates the requested student does not exist.
var ErrStudentNotFound = errors.New("student not found")

// ErrInvalidDutyRole indicates an unknown duty role tag.
var ErrInvalidDutyRole = errors.New("invalid duty role")

// StudentService exposes student domain use cases.
type StudentService interface {
	List(ctx context.Context, filter repository.StudentFilter) ([]models.Student, error)
	Get(ctx context.Context, id string) (models.Student, error)
	Create(ctx context.Context, payload dto.StudentCreateRequest) (models.Student, error)
	Update(ctx context.Context, id string, payload dto.StudentUpdateRequest) (models.Student, error)
	BatchUpdate(ctx context.Context, payload dto.StudentBatchUpdateRequest) ([]models.Student, error)
	Transfer(ctx context.Context, id string, payload dto.StudentTransferRequest) (models.Student, error)
	Delete(ctx context.Context, id string) error
}

type studentService struct {
	repo      repository.StudentRepository
	settings  repository.SettingsRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService builds the student service.
func NewStudentService(repo repository.StudentRepository, settings repository.SettingsRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:      repo,
		settings:  settings,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, filter repository.StudentFilter) ([]models.Student, error) {
	return s.repo.List(ctx, filter)
}

func (s *studentService) Get(ctx context.Context, id string) (models.Student, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, err
	}
	return student, nil
}

func (s *studentService) Create(ctx context.Context, payload dto.StudentCreateRequest) (models.Student, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Student{}, err
	}
	if payload.DutyRole != nil && !models.ValidDutyRole(*payload.DutyRole) {
		return models.Student{}, ErrInvalidDutyRole
	}

	student := models.Student{
		Name:          payload.Name,
		Roll:          payload.Roll,
		ClassID:       payload.ClassID,
		SectionID:     payload.SectionID,
		AcademicGroup: payload.AcademicGroup,
		GroupID:       payload.GroupID,
		DutyRole:      payload.DutyRole,
		Gender:        models.NormalizeGender(payload.Gender),
	}
	if err := s.repo.Create(ctx, &student); err != nil {
		return models.Student{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Str("student_id", student.ID).Msg("student created")
	return student, nil
}

func (s *studentService) Update(ctx context.Context, id string, payload dto.StudentUpdateRequest) (models.Student, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Student{}, err
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return models.Student{}, err
	}
	if err := applyStudentUpdate(&student, payload); err != nil {
		return models.Student{}, err
	}
	if err := s.repo.Update(ctx, &student); err != nil {
		return models.Student{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	return student, nil
}

// BatchUpdate applies several student updates in one bulk write. The writes
// share a transaction; the version marker is bumped once afterwards.
func (s *studentService) BatchUpdate(ctx context.Context, payload dto.StudentBatchUpdateRequest) ([]models.Student, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	updated := make([]models.Student, 0, len(payload.Students))
	for _, item := range payload.Students {
		student, err := s.Get(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		if err := applyStudentUpdate(&student, item.StudentUpdateRequest); err != nil {
			return nil, err
		}
		updated = append(updated, student)
	}

	if err := s.repo.BatchSave(ctx, updated); err != nil {
		return nil, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Int("count", len(updated)).Msg("students batch updated")
	return updated, nil
}

// Transfer rewrites a student's group membership. Student.GroupID is the
// source of truth, so this is the whole transfer. Stale group member lists
// are tolerated by every consumer.
func (s *studentService) Transfer(ctx context.Context, id string, payload dto.StudentTransferRequest) (models.Student, error) {
	if payload.DutyRole != nil && !models.ValidDutyRole(*payload.DutyRole) {
		return models.Student{}, ErrInvalidDutyRole
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return models.Student{}, err
	}

	student.GroupID = payload.GroupID
	if payload.GroupID == nil {
		student.DutyRole = nil
	} else {
		student.DutyRole = payload.DutyRole
	}

	if err := s.repo.Update(ctx, &student); err != nil {
		return models.Student{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Str("student_id", id).Msg("student transferred")
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Str("student_id", id).Msg("student deleted")
	return nil
}

func applyStudentUpdate(student *models.Student, payload dto.StudentUpdateRequest) error {
	if payload.DutyRole != nil && *payload.DutyRole != "" && !models.ValidDutyRole(*payload.DutyRole) {
		return ErrInvalidDutyRole
	}

	if payload.Name != nil {
		student.Name = *payload.Name
	}
	if payload.Roll != nil {
		student.Roll = *payload.Roll
	}
	if payload.ClassID != nil {
		student.ClassID = *payload.ClassID
	}
	if payload.SectionID != nil {
		student.SectionID = *payload.SectionID
	}
	if payload.AcademicGroup != nil {
		student.AcademicGroup = *payload.AcademicGroup
	}
	if payload.GroupID != nil {
		if *payload.GroupID == "" {
			student.GroupID = nil
			student.DutyRole = nil
		} else {
			student.GroupID = payload.GroupID
		}
	}
	if payload.DutyRole != nil && *payload.DutyRole != "" {
		student.DutyRole = payload.DutyRole
	}
	if payload.Gender != nil {
		student.Gender = models.NormalizeGender(*payload.Gender)
	}
	return nil
}
