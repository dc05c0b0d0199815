package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/classboard/classboard-api/internal/models"
)

func newSettingsRepo(t *testing.T) SettingsRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Setting{}))

	return NewSettingsRepository(db)
}

func TestLastUpdatedDefaultsToZero(t *testing.T) {
	repo := newSettingsRepo(t)

	marker, err := repo.LastUpdated(context.Background())
	require.NoError(t, err)
	require.Zero(t, marker)
}

func TestTouchAdvancesMarker(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Touch(ctx))
	first, err := repo.LastUpdated(ctx)
	require.NoError(t, err)
	require.Positive(t, first)

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, repo.Touch(ctx))
	second, err := repo.LastUpdated(ctx)
	require.NoError(t, err)
	require.Greater(t, second, first)
}

func TestMergeGlobalUpsertsAndDeletes(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.MergeGlobal(ctx, map[string]interface{}{
		models.GlobalSettingForcedTaskID: "t1",
		"theme":                          "dark",
	}))

	setting, err := repo.Global(ctx)
	require.NoError(t, err)
	require.Equal(t, "t1", setting.Payload[models.GlobalSettingForcedTaskID])
	require.Equal(t, "dark", setting.Payload["theme"])

	// Merging keeps untouched keys; nil deletes.
	require.NoError(t, repo.MergeGlobal(ctx, map[string]interface{}{
		models.GlobalSettingForcedTaskID: nil,
	}))

	setting, err = repo.Global(ctx)
	require.NoError(t, err)
	require.NotContains(t, setting.Payload, models.GlobalSettingForcedTaskID)
	require.Equal(t, "dark", setting.Payload["theme"])
}

func TestGlobalWithoutRowIsEmpty(t *testing.T) {
	repo := newSettingsRepo(t)

	setting, err := repo.Global(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.SettingKeyGlobal, setting.Key)
	require.NotNil(t, setting.Payload)
	require.Empty(t, setting.Payload)
}
