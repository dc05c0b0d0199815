package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/classboard/classboard-api/internal/models"
)

// CatalogRepository provides access to the class/section/subject catalogs.
// Deleting a catalog entry never cascades; orphaned references are tolerated
// and filtered defensively where consumed.
type CatalogRepository interface {
	ListClasses(ctx context.Context) ([]models.SchoolClass, error)
	CreateClass(ctx context.Context, class *models.SchoolClass) error
	UpdateClass(ctx context.Context, class *models.SchoolClass) error
	DeleteClass(ctx context.Context, id string) error

	ListSections(ctx context.Context) ([]models.Section, error)
	CreateSection(ctx context.Context, section *models.Section) error
	UpdateSection(ctx context.Context, section *models.Section) error
	DeleteSection(ctx context.Context, id string) error

	ListSubjects(ctx context.Context) ([]models.Subject, error)
	CreateSubject(ctx context.Context, subject *models.Subject) error
	UpdateSubject(ctx context.Context, subject *models.Subject) error
	DeleteSubject(ctx context.Context, id string) error
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository constructs a catalog repository.
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListClasses(ctx context.Context) ([]models.SchoolClass, error) {
	var classes []models.SchoolClass
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *catalogRepository) CreateClass(ctx context.Context, class *models.SchoolClass) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *catalogRepository) UpdateClass(ctx context.Context, class *models.SchoolClass) error {
	return r.db.WithContext(ctx).Save(class).Error
}

func (r *catalogRepository) DeleteClass(ctx context.Context, id string) error {
	return deleteByID(r.db.WithContext(ctx), &models.SchoolClass{}, id)
}

func (r *catalogRepository) ListSections(ctx context.Context) ([]models.Section, error) {
	var sections []models.Section
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *catalogRepository) CreateSection(ctx context.Context, section *models.Section) error {
	return r.db.WithContext(ctx).Create(section).Error
}

func (r *catalogRepository) UpdateSection(ctx context.Context, section *models.Section) error {
	return r.db.WithContext(ctx).Save(section).Error
}

func (r *catalogRepository) DeleteSection(ctx context.Context, id string) error {
	return deleteByID(r.db.WithContext(ctx), &models.Section{}, id)
}

func (r *catalogRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *catalogRepository) CreateSubject(ctx context.Context, subject *models.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *catalogRepository) UpdateSubject(ctx context.Context, subject *models.Subject) error {
	return r.db.WithContext(ctx).Save(subject).Error
}

func (r *catalogRepository) DeleteSubject(ctx context.Context, id string) error {
	return deleteByID(r.db.WithContext(ctx), &models.Subject{}, id)
}

func deleteByID(db *gorm.DB, model interface{}, id string) error {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
