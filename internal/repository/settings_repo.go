package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/classboard/classboard-api/internal/models"
)

// Names of the cached collections. The snapshot cache keys entries by these
// and the dashboard fetches collections under them.
const (
	CollectionStudents    = "students"
	CollectionGroups      = "groups"
	CollectionTasks       = "tasks"
	CollectionEvaluations = "evaluations"
	CollectionClasses     = "classes"
	CollectionSections    = "sections"
	CollectionSubjects    = "subjects"
	CollectionTeachers    = "teachers"
)

// SettingsRepository manages the singleton settings rows: the version marker
// every client's snapshot cache compares against, and global configuration.
type SettingsRepository interface {
	LastUpdated(ctx context.Context) (int64, error)
	Touch(ctx context.Context) error
	Global(ctx context.Context) (models.Setting, error)
	MergeGlobal(ctx context.Context, values map[string]interface{}) error
}

type settingsRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSettingsRepository constructs the settings repository.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db, now: time.Now}
}

func (r *settingsRepository) LastUpdated(ctx context.Context) (int64, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).First(&setting, "key = ?", models.SettingKeyStatus).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return setting.LastUpdated, nil
}

// Touch writes the current epoch millis into the status row. Every mutating
// service calls this after committing; it is the sole cross-client
// invalidation signal.
func (r *settingsRepository) Touch(ctx context.Context) error {
	setting := models.Setting{
		Key:         models.SettingKeyStatus,
		LastUpdated: r.now().UnixMilli(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_updated", "updated_at"}),
	}).Create(&setting).Error
}

func (r *settingsRepository) Global(ctx context.Context) (models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).First(&setting, "key = ?", models.SettingKeyGlobal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Setting{Key: models.SettingKeyGlobal, Payload: datatypes.JSONMap{}}, nil
		}
		return models.Setting{}, err
	}
	if setting.Payload == nil {
		setting.Payload = datatypes.JSONMap{}
	}
	return setting, nil
}

// MergeGlobal upserts the global row, merging the supplied keys into the
// existing payload.
func (r *settingsRepository) MergeGlobal(ctx context.Context, values map[string]interface{}) error {
	current, err := r.Global(ctx)
	if err != nil {
		return err
	}

	for key, value := range values {
		if value == nil {
			delete(current.Payload, key)
			continue
		}
		current.Payload[key] = value
	}

	setting := models.Setting{
		Key:     models.SettingKeyGlobal,
		Payload: current.Payload,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&setting).Error
}
