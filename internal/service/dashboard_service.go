package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/classboard/classboard-api/internal/dto"
	"github.com/classboard/classboard-api/internal/models"
	"github.com/classboard/classboard-api/internal/observability"
	"github.com/classboard/classboard-api/internal/repository"
	"github.com/classboard/classboard-api/internal/scope"
	"github.com/classboard/classboard-api/internal/snapshot"
	"github.com/classboard/classboard-api/internal/stats"
)

// DashboardService composes the snapshot cache, the role scoping filter and
// the aggregation engine into the final dashboard view-model. Every call is a
// pure recomputation keyed to the request's own query parameters.
type DashboardService interface {
	GetDashboard(ctx context.Context, query dto.DashboardQuery) (dto.DashboardResponse, error)
}

type dashboardService struct {
	cache       *snapshot.Cache
	students    repository.StudentRepository
	groups      repository.GroupRepository
	tasks       repository.TaskRepository
	evaluations repository.EvaluationRepository
	catalog     repository.CatalogRepository
	teachers    repository.TeacherRepository
	settings    repository.SettingsRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewDashboardService builds the dashboard orchestrator.
func NewDashboardService(
	cache *snapshot.Cache,
	students repository.StudentRepository,
	groups repository.GroupRepository,
	tasks repository.TaskRepository,
	evaluations repository.EvaluationRepository,
	catalog repository.CatalogRepository,
	teachers repository.TeacherRepository,
	settings repository.SettingsRepository,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		cache:       cache,
		students:    students,
		groups:      groups,
		tasks:       tasks,
		evaluations: evaluations,
		catalog:     catalog,
		teachers:    teachers,
		settings:    settings,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
		now:         time.Now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, query dto.DashboardQuery) (dto.DashboardResponse, error) {
	tracer := otel.Tracer("github.com/classboard/classboard-api/internal/service/dashboard")
	ctx, span := tracer.Start(ctx, "dashboard.aggregate")
	defer span.End()

	requested := query.Scope
	if requested == "" {
		requested = stats.ScopeLatest
	}
	span.SetAttributes(
		attribute.String("dashboard.scope", requested),
		attribute.String("dashboard.actor_role", query.ActorRole),
	)

	start := s.now()

	students, err := snapshot.GetOrFetch(ctx, s.cache, repository.CollectionStudents, func(ctx context.Context) ([]models.Student, error) {
		return s.students.List(ctx, repository.StudentFilter{})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch_students_failed")
		return dto.DashboardResponse{}, err
	}

	groups, err := snapshot.GetOrFetch(ctx, s.cache, repository.CollectionGroups, func(ctx context.Context) ([]models.Group, error) {
		return s.groups.List(ctx, repository.GroupFilter{})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch_groups_failed")
		return dto.DashboardResponse{}, err
	}

	tasks, err := snapshot.GetOrFetch(ctx, s.cache, repository.CollectionTasks, func(ctx context.Context) ([]models.Task, error) {
		return s.tasks.List(ctx, repository.TaskFilter{})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch_tasks_failed")
		return dto.DashboardResponse{}, err
	}

	evaluations, err := snapshot.GetOrFetch(ctx, s.cache, repository.CollectionEvaluations, func(ctx context.Context) ([]models.Evaluation, error) {
		return s.evaluations.List(ctx, repository.EvaluationFilter{})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch_evaluations_failed")
		return dto.DashboardResponse{}, err
	}

	sections, err := snapshot.GetOrFetch(ctx, s.cache, repository.CollectionSections, func(ctx context.Context) ([]models.Section, error) {
		return s.catalog.ListSections(ctx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch_sections_failed")
		return dto.DashboardResponse{}, err
	}

	teacher := s.resolveTeacher(ctx, query)
	filter := scope.NewFilter(query.ActorRole, teacher, sections)

	scopedStudents := filter.Students(students)
	scopedGroups := filter.Groups(groups)
	scopedTasks := filter.Tasks(tasks)
	scopedEvals := filter.Evaluations(evaluations)

	scopedStudents = applyStudentSelection(scopedStudents, query)
	scopedGroups = applyGroupSelection(scopedGroups, query)
	scopedTasks = applyTaskSelection(scopedTasks, query)
	scopedEvals = applyEvaluationSelection(scopedEvals, query)

	// With a restricted task set (teacher subject scoping or a subject
	// dropdown), evaluations of invisible tasks must not leak into the
	// aggregates.
	if filter.Restricted() || query.SubjectID != "" {
		scopedEvals = restrictToTasks(scopedEvals, scopedTasks)
	}

	effectiveScope, targetTask := s.resolveTarget(ctx, requested, scopedTasks)

	rankingEvals := scopedEvals
	if targetTask != nil {
		rankingEvals = restrictToTasks(scopedEvals, []models.Task{*targetTask})
	}

	performances := stats.GroupPerformances(scopedGroups, scopedStudents, scopedTasks, scopedEvals)
	leaderboard := stats.Leaderboard(scopedGroups, scopedStudents, scopedTasks, rankingEvals, stats.DefaultMinEvaluations)

	var completion stats.CompletionSummary
	switch {
	case effectiveScope == stats.ScopeGlobal:
		completion = stats.GlobalCompletion(scopedTasks, scopedGroups, scopedStudents, scopedEvals)
	case targetTask != nil:
		completion = stats.TaskCompletion(*targetTask, scopedGroups, scopedStudents, scopedEvals)
	default:
		completion = stats.CompletionSummary{Scope: effectiveScope}
	}

	response := dto.DashboardResponse{
		Scope:          effectiveScope,
		GeneratedAt:    s.now(),
		GlobalAverage:  stats.OverallAverage(tasks, evaluations),
		Performances:   performances,
		Leaderboard:    leaderboard,
		Completion:     completion,
		AcademicGroups: stats.AcademicRollup(performances, scopedStudents),
	}
	if targetTask != nil {
		response.TargetTaskID = targetTask.ID
	}

	label := metricScope(requested)
	observability.DashboardRecomputes().WithLabelValues(label).Inc()
	observability.DashboardLatency().WithLabelValues(label).Observe(s.now().Sub(start).Seconds())
	span.SetAttributes(
		attribute.Int("dashboard.groups", len(scopedGroups)),
		attribute.Int("dashboard.evaluations", len(scopedEvals)),
		attribute.Int("dashboard.ranked", len(leaderboard)),
	)

	return response, nil
}

// resolveTeacher loads the acting teacher's assignment record through the
// snapshot cache. A missing record degrades to an unrestricted view only for
// non-teacher roles; a teacher without a record sees an empty-assignment
// (fully permissive per dimension) scope.
func (s *dashboardService) resolveTeacher(ctx context.Context, query dto.DashboardQuery) *models.Teacher {
	if query.ActorRole != scope.RoleTeacher || query.TeacherID == "" {
		return nil
	}

	teachers, err := snapshot.GetOrFetch(ctx, s.cache, repository.CollectionTeachers, func(ctx context.Context) ([]models.Teacher, error) {
		return s.teachers.List(ctx)
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load teachers for scoping")
		return nil
	}

	for i := range teachers {
		if teachers[i].ID == query.TeacherID {
			return &teachers[i]
		}
	}
	return nil
}

// resolveTarget maps the requested scope onto a concrete task. The forced
// dashboard pin from global settings overrides the implicit "latest" choice
// when it points at a visible task.
func (s *dashboardService) resolveTarget(ctx context.Context, requested string, tasks []models.Task) (string, *models.Task) {
	if requested == stats.ScopeGlobal {
		return stats.ScopeGlobal, nil
	}

	if requested != stats.ScopeLatest {
		for i := range tasks {
			if tasks[i].ID == requested {
				return requested, &tasks[i]
			}
		}
		s.logger.Warn().Str("task_id", requested).Msg("requested task not visible, result degraded to empty")
		return requested, nil
	}

	if setting, err := s.settings.Global(ctx); err == nil {
		if forced, ok := setting.Payload[models.GlobalSettingForcedTaskID].(string); ok && forced != "" {
			for i := range tasks {
				if tasks[i].ID == forced {
					return stats.ScopeLatest, &tasks[i]
				}
			}
		}
	}

	return stats.ScopeLatest, stats.LatestTask(tasks)
}

func applyStudentSelection(items []models.Student, query dto.DashboardQuery) []models.Student {
	if query.ClassID == "" && query.SectionID == "" {
		return items
	}
	result := make([]models.Student, 0, len(items))
	for _, item := range items {
		if query.ClassID != "" && item.ClassID != query.ClassID {
			continue
		}
		if query.SectionID != "" && item.SectionID != query.SectionID {
			continue
		}
		result = append(result, item)
	}
	return result
}

func applyGroupSelection(items []models.Group, query dto.DashboardQuery) []models.Group {
	if query.ClassID == "" && query.SectionID == "" {
		return items
	}
	result := make([]models.Group, 0, len(items))
	for _, item := range items {
		if query.ClassID != "" && item.ClassID != query.ClassID {
			continue
		}
		// A group without a section applies to every section of its class.
		if query.SectionID != "" && item.SectionID != nil && *item.SectionID != query.SectionID {
			continue
		}
		result = append(result, item)
	}
	return result
}

func applyTaskSelection(items []models.Task, query dto.DashboardQuery) []models.Task {
	if query.ClassID == "" && query.SectionID == "" && query.SubjectID == "" {
		return items
	}
	result := make([]models.Task, 0, len(items))
	for _, item := range items {
		if query.ClassID != "" && item.ClassID != query.ClassID {
			continue
		}
		if query.SectionID != "" && item.SectionID != query.SectionID {
			continue
		}
		if query.SubjectID != "" && (item.SubjectID == nil || *item.SubjectID != query.SubjectID) {
			continue
		}
		result = append(result, item)
	}
	return result
}

func applyEvaluationSelection(items []models.Evaluation, query dto.DashboardQuery) []models.Evaluation {
	if query.ClassID == "" && query.SectionID == "" {
		return items
	}
	result := make([]models.Evaluation, 0, len(items))
	for _, item := range items {
		if query.ClassID != "" && item.ClassID != "" && item.ClassID != query.ClassID {
			continue
		}
		if query.SectionID != "" && item.SectionID != "" && item.SectionID != query.SectionID {
			continue
		}
		result = append(result, item)
	}
	return result
}

func restrictToTasks(evals []models.Evaluation, tasks []models.Task) []models.Evaluation {
	allowed := make(map[string]struct{}, len(tasks))
	for _, task := range tasks {
		allowed[task.ID] = struct{}{}
	}
	result := make([]models.Evaluation, 0, len(evals))
	for _, eval := range evals {
		if _, ok := allowed[eval.TaskID]; ok {
			result = append(result, eval)
		}
	}
	return result
}

func metricScope(requested string) string {
	switch requested {
	case stats.ScopeLatest, stats.ScopeGlobal:
		return requested
	default:
		return "task"
	}
}
