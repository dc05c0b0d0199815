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

func newStudentFixture(t *testing.T) (StudentService, repository.SettingsRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}, &models.Setting{}))

	settingsRepo := repository.NewSettingsRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewStudentService(repository.NewStudentRepository(db), settingsRepo, validate, zerolog.Nop()), settingsRepo
}

func TestStudentCreateNormalizesGender(t *testing.T) {
	svc, _ := newStudentFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.StudentCreateRequest{Name: "One", ClassID: "c1", Gender: "Female"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, models.GenderFemale, created.Gender)

	unknown, err := svc.Create(ctx, dto.StudentCreateRequest{Name: "Two", ClassID: "c1", Gender: "n/a"})
	require.NoError(t, err)
	require.Equal(t, models.GenderUnknown, unknown.Gender)
}

func TestStudentCreateRejectsUnknownDutyRole(t *testing.T) {
	svc, _ := newStudentFixture(t)

	bogus := "captain"
	_, err := svc.Create(context.Background(), dto.StudentCreateRequest{Name: "One", ClassID: "c1", DutyRole: &bogus})
	require.ErrorIs(t, err, ErrInvalidDutyRole)
}

func TestStudentTransfer(t *testing.T) {
	svc, _ := newStudentFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.StudentCreateRequest{Name: "One", ClassID: "c1"})
	require.NoError(t, err)

	gid := "g1"
	duty := models.DutyReporter
	moved, err := svc.Transfer(ctx, created.ID, dto.StudentTransferRequest{GroupID: &gid, DutyRole: &duty})
	require.NoError(t, err)
	require.NotNil(t, moved.GroupID)
	require.Equal(t, "g1", *moved.GroupID)
	require.NotNil(t, moved.DutyRole)
	require.Equal(t, models.DutyReporter, *moved.DutyRole)

	// Leaving every group also drops the duty role.
	released, err := svc.Transfer(ctx, created.ID, dto.StudentTransferRequest{})
	require.NoError(t, err)
	require.Nil(t, released.GroupID)
	require.Nil(t, released.DutyRole)
}

func TestStudentTransferUnknownStudent(t *testing.T) {
	svc, _ := newStudentFixture(t)

	gid := "g1"
	_, err := svc.Transfer(context.Background(), "missing", dto.StudentTransferRequest{GroupID: &gid})
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentBatchUpdateBumpsVersionOnce(t *testing.T) {
	svc, settings := newStudentFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, dto.StudentCreateRequest{Name: "One", ClassID: "c1"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, dto.StudentCreateRequest{Name: "Two", ClassID: "c1"})
	require.NoError(t, err)

	label := "Science"
	updated, err := svc.BatchUpdate(ctx, dto.StudentBatchUpdateRequest{
		Students: []dto.StudentBatchItem{
			{ID: first.ID, StudentUpdateRequest: dto.StudentUpdateRequest{AcademicGroup: &label}},
			{ID: second.ID, StudentUpdateRequest: dto.StudentUpdateRequest{AcademicGroup: &label}},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	require.Equal(t, "Science", updated[0].AcademicGroup)

	marker, err := settings.LastUpdated(ctx)
	require.NoError(t, err)
	require.Positive(t, marker)
}
