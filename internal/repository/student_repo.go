package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/classboard/classboard-api/internal/models"
)

// StudentFilter allows narrowing student queries.
type StudentFilter struct {
	ClassID   *string
	SectionID *string
	GroupID   *string
}

// StudentRepository provides access to student records.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, error)
	GetByID(ctx context.Context, id string) (models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
	BatchSave(ctx context.Context, students []models.Student) error
	ClearGroup(ctx context.Context, groupID string) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.ClassID != nil {
		query = query.Where("class_id = ?", *filter.ClassID)
	}
	if filter.SectionID != nil {
		query = query.Where("section_id = ?", *filter.SectionID)
	}
	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}

	var students []models.Student
	if err := query.Order("roll ASC, name ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Student{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BatchSave persists multiple students inside one transaction, the store's
// native bulk primitive.
func (r *studentRepository) BatchSave(ctx context.Context, students []models.Student) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range students {
			if err := tx.Save(&students[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearGroup removes group membership and duty roles from every member of the
// given group, used when the group itself is deleted.
func (r *studentRepository) ClearGroup(ctx context.Context, groupID string) error {
	return r.db.WithContext(ctx).Model(&models.Student{}).
		Where("group_id = ?", groupID).
		Updates(map[string]interface{}{"group_id": nil, "duty_role": nil}).Error
}
