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

// ErrCatalogEntryNotFound indicates a missing class, section or subject.
var ErrCatalogEntryNotFound = errors.New("catalog entry not found")

// CatalogService manages the class/section/subject catalogs. Deleting an
// entry never cascades; consumers filter orphaned references defensively.
type CatalogService interface {
	ListClasses(ctx context.Context) ([]models.SchoolClass, error)
	CreateClass(ctx context.Context, payload dto.ClassCreateRequest) (models.SchoolClass, error)
	UpdateClass(ctx context.Context, id string, payload dto.ClassUpdateRequest) (models.SchoolClass, error)
	DeleteClass(ctx context.Context, id string) error

	ListSections(ctx context.Context) ([]models.Section, error)
	CreateSection(ctx context.Context, payload dto.SectionCreateRequest) (models.Section, error)
	UpdateSection(ctx context.Context, id string, payload dto.SectionUpdateRequest) (models.Section, error)
	DeleteSection(ctx context.Context, id string) error

	ListSubjects(ctx context.Context) ([]models.Subject, error)
	CreateSubject(ctx context.Context, payload dto.SubjectCreateRequest) (models.Subject, error)
	UpdateSubject(ctx context.Context, id string, payload dto.SubjectUpdateRequest) (models.Subject, error)
	DeleteSubject(ctx context.Context, id string) error
}

type catalogService struct {
	repo      repository.CatalogRepository
	settings  repository.SettingsRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCatalogService builds the catalog service.
func NewCatalogService(repo repository.CatalogRepository, settings repository.SettingsRepository, validate *validator.Validate, logger zerolog.Logger) CatalogService {
	return &catalogService{
		repo:      repo,
		settings:  settings,
		validator: validate,
		logger:    logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *catalogService) ListClasses(ctx context.Context) ([]models.SchoolClass, error) {
	return s.repo.ListClasses(ctx)
}

func (s *catalogService) CreateClass(ctx context.Context, payload dto.ClassCreateRequest) (models.SchoolClass, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.SchoolClass{}, err
	}

	class := models.SchoolClass{Name: payload.Name}
	if err := s.repo.CreateClass(ctx, &class); err != nil {
		return models.SchoolClass{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Str("class_id", class.ID).Msg("class created")
	return class, nil
}

func (s *catalogService) UpdateClass(ctx context.Context, id string, payload dto.ClassUpdateRequest) (models.SchoolClass, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.SchoolClass{}, err
	}

	classes, err := s.repo.ListClasses(ctx)
	if err != nil {
		return models.SchoolClass{}, err
	}
	var class *models.SchoolClass
	for i := range classes {
		if classes[i].ID == id {
			class = &classes[i]
			break
		}
	}
	if class == nil {
		return models.SchoolClass{}, ErrCatalogEntryNotFound
	}

	if payload.Name != nil {
		class.Name = *payload.Name
	}
	if err := s.repo.UpdateClass(ctx, class); err != nil {
		return models.SchoolClass{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	return *class, nil
}

func (s *catalogService) DeleteClass(ctx context.Context, id string) error {
	if err := s.repo.DeleteClass(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCatalogEntryNotFound
		}
		return err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Str("class_id", id).Msg("class deleted")
	return nil
}

func (s *catalogService) ListSections(ctx context.Context) ([]models.Section, error) {
	return s.repo.ListSections(ctx)
}

func (s *catalogService) CreateSection(ctx context.Context, payload dto.SectionCreateRequest) (models.Section, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Section{}, err
	}

	section := models.Section{Name: payload.Name, ClassID: payload.ClassID}
	if err := s.repo.CreateSection(ctx, &section); err != nil {
		return models.Section{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Str("section_id", section.ID).Msg("section created")
	return section, nil
}

func (s *catalogService) UpdateSection(ctx context.Context, id string, payload dto.SectionUpdateRequest) (models.Section, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Section{}, err
	}

	sections, err := s.repo.ListSections(ctx)
	if err != nil {
		return models.Section{}, err
	}
	var section *models.Section
	for i := range sections {
		if sections[i].ID == id {
			section = &sections[i]
			break
		}
	}
	if section == nil {
		return models.Section{}, ErrCatalogEntryNotFound
	}

	if payload.Name != nil {
		section.Name = *payload.Name
	}
	if payload.ClassID != nil {
		section.ClassID = *payload.ClassID
	}
	if err := s.repo.UpdateSection(ctx, section); err != nil {
		return models.Section{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	return *section, nil
}

func (s *catalogService) DeleteSection(ctx context.Context, id string) error {
	if err := s.repo.DeleteSection(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCatalogEntryNotFound
		}
		return err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Str("section_id", id).Msg("section deleted")
	return nil
}

func (s *catalogService) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return s.repo.ListSubjects(ctx)
}

func (s *catalogService) CreateSubject(ctx context.Context, payload dto.SubjectCreateRequest) (models.Subject, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Subject{}, err
	}

	subject := models.Subject{Name: payload.Name, ClassID: payload.ClassID, SectionID: payload.SectionID}
	if err := s.repo.CreateSubject(ctx, &subject); err != nil {
		return models.Subject{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Str("subject_id", subject.ID).Msg("subject created")
	return subject, nil
}

func (s *catalogService) UpdateSubject(ctx context.Context, id string, payload dto.SubjectUpdateRequest) (models.Subject, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Subject{}, err
	}

	subjects, err := s.repo.ListSubjects(ctx)
	if err != nil {
		return models.Subject{}, err
	}
	var subject *models.Subject
	for i := range subjects {
		if subjects[i].ID == id {
			subject = &subjects[i]
			break
		}
	}
	if subject == nil {
		return models.Subject{}, ErrCatalogEntryNotFound
	}

	if payload.Name != nil {
		subject.Name = *payload.Name
	}
	if payload.ClassID != nil {
		subject.ClassID = *payload.ClassID
	}
	if payload.SectionID != nil {
		subject.SectionID = *payload.SectionID
	}
	if err := s.repo.UpdateSubject(ctx, subject); err != nil {
		return models.Subject{}, err
	}

	bumpVersion(ctx, s.settings, s.logger)
	return *subject, nil
}

func (s *catalogService) DeleteSubject(ctx context.Context, id string) error {
	if err := s.repo.DeleteSubject(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCatalogEntryNotFound
		}
		return err
	}

	bumpVersion(ctx, s.settings, s.logger)
	s.logger.Info().Str("subject_id", id).Msg("subject deleted")
	return nil
}
