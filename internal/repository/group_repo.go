package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/classboard/classboard-api/internal/models"
)

// GroupFilter allows narrowing group queries.
type GroupFilter struct {
	ClassID   *string
	SectionID *string
}

// GroupRepository provides access to group records.
type GroupRepository interface {
	List(ctx context.Context, filter GroupFilter) ([]models.Group, error)
	GetByID(ctx context.Context, id string) (models.Group, error)
	Create(ctx context.Context, group *models.Group) error
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id string) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository constructs a group repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) List(ctx context.Context, filter GroupFilter) ([]models.Group, error) {
	query := r.db.WithContext(ctx).Model(&models.Group{})

	if filter.ClassID != nil {
		query = query.Where("class_id = ?", *filter.ClassID)
	}
	if filter.SectionID != nil {
		query = query.Where("section_id = ? OR section_id IS NULL", *filter.SectionID)
	}

	var groups []models.Group
	if err := query.Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		return models.Group{}, err
	}
	return group, nil
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) Update(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Group{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
