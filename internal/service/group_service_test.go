package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/classboard/classboard-api/internal/dto"
	"github.com/classboard/classboard-api/internal/models"
	"github.com/classboard/classboard-api/internal/repository"
)

func newGroupFixture(t *testing.T) (GroupService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Group{}, &models.Student{}, &models.Setting{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewGroupService(repository.NewGroupRepository(db), repository.NewStudentRepository(db), repository.NewSettingsRepository(db), validate, zerolog.Nop())
	return svc, db
}

func TestGroupDeleteReleasesMembers(t *testing.T) {
	svc, db := newGroupFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.GroupCreateRequest{Name: "Alpha", ClassID: "c1"})
	require.NoError(t, err)

	duty := models.DutyTeamLeader
	member := models.Student{ID: "s1", Name: "One", ClassID: "c1", GroupID: &created.ID, DutyRole: &duty}
	outsider := models.Student{ID: "s2", Name: "Two", ClassID: "c1"}
	require.NoError(t, db.Create(&member).Error)
	require.NoError(t, db.Create(&outsider).Error)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrGroupNotFound)

	var released models.Student
	require.NoError(t, db.First(&released, "id = ?", "s1").Error)
	require.Nil(t, released.GroupID, "members of a deleted group lose their membership")
	require.Nil(t, released.DutyRole, "duty roles are tied to the group membership")
}

func TestGroupDeleteUnknown(t *testing.T) {
	svc, _ := newGroupFixture(t)
	require.ErrorIs(t, svc.Delete(context.Background(), "missing"), ErrGroupNotFound)
}

func TestGroupUpdateClearsSection(t *testing.T) {
	svc, _ := newGroupFixture(t)
	ctx := context.Background()

	section := "sec-a"
	created, err := svc.Create(ctx, dto.GroupCreateRequest{Name: "Alpha", ClassID: "c1", SectionID: &section})
	require.NoError(t, err)
	require.NotNil(t, created.SectionID)

	empty := ""
	updated, err := svc.Update(ctx, created.ID, dto.GroupUpdateRequest{SectionID: &empty})
	require.NoError(t, err)
	require.Nil(t, updated.SectionID, "an empty section widens the group to the whole class")
}
