package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/classboard/classboard-api/internal/dto"
	"github.com/classboard/classboard-api/internal/models"
	"github.com/classboard/classboard-api/internal/repository"
	"github.com/classboard/classboard-api/internal/scope"
	"github.com/classboard/classboard-api/internal/snapshot"
	"github.com/classboard/classboard-api/internal/stats"
)

type dashboardFixture struct {
	db       *gorm.DB
	settings repository.SettingsRepository
	service  DashboardService
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{}, &models.Group{}, &models.Task{}, &models.Evaluation{},
		&models.SchoolClass{}, &models.Section{}, &models.Subject{},
		&models.Teacher{}, &models.Setting{},
	))

	studentRepo := repository.NewStudentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	cache := snapshot.New(redisClient, settingsRepo, time.Minute, zerolog.Nop())
	svc := NewDashboardService(cache, studentRepo, groupRepo, taskRepo, evaluationRepo, catalogRepo, teacherRepo, settingsRepo, zerolog.Nop())

	return &dashboardFixture{db: db, settings: settingsRepo, service: svc}
}

func (f *dashboardFixture) seedScores(t *testing.T, evaluationID, taskID, groupID string, totals map[string]float64, when time.Time) {
	t.Helper()

	scores := make(map[string]models.StudentScore, len(totals))
	for id, total := range totals {
		scores[id] = models.StudentScore{TotalScore: total}
	}
	eval := models.Evaluation{
		ID:       evaluationID,
		TaskID:   taskID,
		GroupID:  groupID,
		Scores:   datatypes.NewJSONType(scores),
		TaskDate: &when,
	}
	require.NoError(t, f.db.Create(&eval).Error)
}

func TestDashboardLatestScopeAggregation(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	alphaID, betaID := "g-alpha", "g-beta"
	require.NoError(t, f.db.Create(&models.Group{ID: alphaID, Name: "Alpha", ClassID: "c1"}).Error)
	require.NoError(t, f.db.Create(&models.Group{ID: betaID, Name: "Beta", ClassID: "c1"}).Error)

	for _, s := range []models.Student{
		{ID: "s1", Name: "One", ClassID: "c1", GroupID: &alphaID, AcademicGroup: "Science"},
		{ID: "s2", Name: "Two", ClassID: "c1", GroupID: &alphaID, AcademicGroup: "Science"},
		{ID: "s3", Name: "Three", ClassID: "c1", GroupID: &betaID},
	} {
		student := s
		require.NoError(t, f.db.Create(&student).Error)
	}

	early := time.Date(2026, 5, 4, 11, 55, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)
	mcq := 20.0
	require.NoError(t, f.db.Create(&models.Task{
		ID: "t-old", Name: "Old Quiz", Date: early, ClassID: "c1", MaxScore: 100,
		Breakdown: datatypes.NewJSONType(models.ScoreBreakdown{MCQ: &mcq}),
	}).Error)
	require.NoError(t, f.db.Create(&models.Task{
		ID: "t-new", Name: "New Quiz", Date: late, ClassID: "c1", MaxScore: 100,
		Breakdown: datatypes.NewJSONType(models.ScoreBreakdown{MCQ: &mcq}),
	}).Error)

	f.seedScores(t, "e-old", "t-old", alphaID, map[string]float64{"s1": 90, "s2": 90}, early)
	f.seedScores(t, "e-new-alpha", "t-new", alphaID, map[string]float64{"s1": 80, "s2": 60}, late)
	f.seedScores(t, "e-new-beta", "t-new", betaID, map[string]float64{"s3": 75}, late)

	response, err := f.service.GetDashboard(ctx, dto.DashboardQuery{ActorRole: scope.RoleAdmin})
	require.NoError(t, err)

	require.Equal(t, stats.ScopeLatest, response.Scope)
	require.Equal(t, "t-new", response.TargetTaskID)

	// Lifetime performance over every evaluation.
	require.Len(t, response.Performances, 2)
	require.Equal(t, "g-alpha", response.Performances[0].GroupID)
	require.InDelta(t, 80.0, response.Performances[0].AverageScore, 1e-9)

	// Ranking only over the target task's evaluations.
	require.Len(t, response.Leaderboard, 2)
	require.Equal(t, "g-beta", response.Leaderboard[0].GroupID)
	require.InDelta(t, 75.0, response.Leaderboard[0].Efficiency, 1e-9)
	require.Equal(t, "g-alpha", response.Leaderboard[1].GroupID)
	require.InDelta(t, 70.0, response.Leaderboard[1].Efficiency, 1e-9)

	require.Equal(t, "t-new", response.Completion.TaskID)
	require.Equal(t, 3, response.Completion.TotalEligible)
	require.Equal(t, 3, response.Completion.EvaluatedStudents)

	// 90+90+80+60+75 over five 100-point entries.
	require.InDelta(t, 79.0, response.GlobalAverage, 1e-9)

	require.Len(t, response.AcademicGroups, 1)
	require.Equal(t, "Science", response.AcademicGroups[0].Label)
}

func TestDashboardGlobalScope(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	gid := "g1"
	require.NoError(t, f.db.Create(&models.Group{ID: gid, Name: "One", ClassID: "c1"}).Error)
	require.NoError(t, f.db.Create(&models.Student{ID: "s1", Name: "One", ClassID: "c1", GroupID: &gid}).Error)
	require.NoError(t, f.db.Create(&models.Task{ID: "t1", Name: "Quiz", MaxScore: 10}).Error)
	require.NoError(t, f.db.Create(&models.Task{ID: "t2", Name: "Quiz 2", MaxScore: 10}).Error)
	f.seedScores(t, "e1", "t1", gid, map[string]float64{"s1": 8}, time.Now())

	response, err := f.service.GetDashboard(ctx, dto.DashboardQuery{Scope: stats.ScopeGlobal, ActorRole: scope.RoleAdmin})
	require.NoError(t, err)

	require.Equal(t, stats.ScopeGlobal, response.Scope)
	require.Empty(t, response.TargetTaskID)
	require.Equal(t, stats.ScopeGlobal, response.Completion.Scope)
	require.Equal(t, 2, response.Completion.TotalEligible)
	require.Equal(t, 1, response.Completion.EvaluatedStudents)
}

func TestDashboardExplicitTaskScopeDegradesWhenInvisible(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	require.NoError(t, f.db.Create(&models.Task{ID: "t1", Name: "Quiz", MaxScore: 10}).Error)

	response, err := f.service.GetDashboard(ctx, dto.DashboardQuery{Scope: "t-missing", ActorRole: scope.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, "t-missing", response.Scope)
	require.Empty(t, response.TargetTaskID)
	require.Empty(t, response.Leaderboard)
}

func TestDashboardForcedTaskPin(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	early := time.Date(2026, 5, 4, 11, 55, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)
	require.NoError(t, f.db.Create(&models.Task{ID: "t-old", Name: "Old", Date: early, MaxScore: 10}).Error)
	require.NoError(t, f.db.Create(&models.Task{ID: "t-new", Name: "New", Date: late, MaxScore: 10}).Error)

	require.NoError(t, f.settings.MergeGlobal(ctx, map[string]interface{}{
		models.GlobalSettingForcedTaskID: "t-old",
	}))

	response, err := f.service.GetDashboard(ctx, dto.DashboardQuery{ActorRole: scope.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, stats.ScopeLatest, response.Scope)
	require.Equal(t, "t-old", response.TargetTaskID)
}

func TestDashboardTeacherScoping(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	teacher := models.Teacher{
		ID:                 "teach-1",
		Name:               "Scoped",
		Email:              "scoped@example.com",
		AssignedClassIDs:   datatypes.NewJSONSlice([]string{"c1"}),
		AssignedSubjectIDs: datatypes.NewJSONSlice([]string{"sub-math"}),
	}
	require.NoError(t, f.db.Create(&teacher).Error)

	gid, otherGID := "g1", "g2"
	require.NoError(t, f.db.Create(&models.Group{ID: gid, Name: "Mine", ClassID: "c1"}).Error)
	require.NoError(t, f.db.Create(&models.Group{ID: otherGID, Name: "Other", ClassID: "c2"}).Error)
	require.NoError(t, f.db.Create(&models.Student{ID: "s1", Name: "One", ClassID: "c1", GroupID: &gid}).Error)
	require.NoError(t, f.db.Create(&models.Student{ID: "s2", Name: "Two", ClassID: "c2", GroupID: &otherGID}).Error)

	math := "sub-math"
	require.NoError(t, f.db.Create(&models.Task{ID: "t-math", Name: "Math", ClassID: "c1", SubjectID: &math, MaxScore: 10}).Error)
	// No subject: invisible to the teacher even within their class.
	require.NoError(t, f.db.Create(&models.Task{ID: "t-bare", Name: "Bare", ClassID: "c1", MaxScore: 10}).Error)

	f.seedScores(t, "e-math", "t-math", gid, map[string]float64{"s1": 8}, time.Now())
	f.seedScores(t, "e-bare", "t-bare", gid, map[string]float64{"s1": 2}, time.Now())

	response, err := f.service.GetDashboard(ctx, dto.DashboardQuery{
		ActorRole: scope.RoleTeacher,
		TeacherID: "teach-1",
	})
	require.NoError(t, err)

	require.Equal(t, "t-math", response.TargetTaskID)
	require.Len(t, response.Performances, 1)
	require.Equal(t, "g1", response.Performances[0].GroupID)
	// Evaluations of the subject-less task are excluded from the aggregates.
	require.InDelta(t, 80.0, response.Performances[0].AverageScore, 1e-9)
}

func TestDashboardSnapshotCoherency(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	require.NoError(t, f.settings.Touch(ctx))

	gid := "g1"
	require.NoError(t, f.db.Create(&models.Group{ID: gid, Name: "One", ClassID: "c1"}).Error)
	require.NoError(t, f.db.Create(&models.Student{ID: "s1", Name: "One", ClassID: "c1", GroupID: &gid}).Error)
	require.NoError(t, f.db.Create(&models.Task{ID: "t1", Name: "Quiz", MaxScore: 10}).Error)
	f.seedScores(t, "e1", "t1", gid, map[string]float64{"s1": 5}, time.Now())

	first, err := f.service.GetDashboard(ctx, dto.DashboardQuery{ActorRole: scope.RoleAdmin})
	require.NoError(t, err)
	require.InDelta(t, 50.0, first.GlobalAverage, 1e-9)

	// A write behind the cache's back without a marker bump is invisible.
	f.seedScores(t, "e2", "t1", gid, map[string]float64{"s1": 10}, time.Now())
	stale, err := f.service.GetDashboard(ctx, dto.DashboardQuery{ActorRole: scope.RoleAdmin})
	require.NoError(t, err)
	require.InDelta(t, 50.0, stale.GlobalAverage, 1e-9)

	// Bumping the marker invalidates every snapshot at once.
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, f.settings.Touch(ctx))
	fresh, err := f.service.GetDashboard(ctx, dto.DashboardQuery{ActorRole: scope.RoleAdmin})
	require.NoError(t, err)
	require.InDelta(t, 75.0, fresh.GlobalAverage, 1e-9)
}
