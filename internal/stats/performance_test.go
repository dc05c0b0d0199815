package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/classboard/classboard-api/internal/models"
)

func stringPointer(s string) *string {
	return &s
}

func timePointer(t time.Time) *time.Time {
	return &t
}

func scoreMap(entries map[string]float64) datatypes.JSONType[map[string]models.StudentScore] {
	scores := make(map[string]models.StudentScore, len(entries))
	for id, total := range entries {
		scores[id] = models.StudentScore{TotalScore: total}
	}
	return datatypes.NewJSONType(scores)
}

func TestGroupPerformancesWeightedAverage(t *testing.T) {
	groups := []models.Group{
		{ID: "g-alpha", Name: "Alpha", ClassID: "c1"},
		{ID: "g-beta", Name: "Beta", ClassID: "c1"},
	}
	students := []models.Student{
		{ID: "s1", GroupID: stringPointer("g-alpha")},
		{ID: "s2", GroupID: stringPointer("g-alpha")},
		{ID: "s3", GroupID: stringPointer("g-alpha")},
		{ID: "s4", GroupID: stringPointer("g-alpha")},
		{ID: "s5", GroupID: stringPointer("g-beta")},
	}
	tasks := []models.Task{
		{ID: "t1", MaxScore: 100},
		{ID: "t2", MaxScore: 50},
	}

	when := time.Date(2026, 3, 10, 11, 55, 0, 0, time.UTC)
	evals := []models.Evaluation{
		{
			ID:       "e1",
			TaskID:   "t1",
			GroupID:  "g-alpha",
			Scores:   scoreMap(map[string]float64{"s1": 80, "s2": 60}),
			TaskDate: timePointer(when),
		},
		{
			ID:       "e2",
			TaskID:   "t2",
			GroupID:  "g-alpha",
			Scores:   scoreMap(map[string]float64{"s1": 50}),
			TaskDate: timePointer(when.Add(24 * time.Hour)),
		},
	}

	performances := GroupPerformances(groups, students, tasks, evals)
	require.Len(t, performances, 2)

	alpha := performances[0]
	require.Equal(t, "g-alpha", alpha.GroupID)
	// 80 + 60 + 50 over 100 + 100 + 50, not the mean of 70% and 100%.
	require.InDelta(t, 76.0, alpha.AverageScore, 1e-9)
	require.InDelta(t, 190.0, alpha.TotalScoreSum, 1e-9)
	require.InDelta(t, 250.0, alpha.MaxScoreSum, 1e-9)
	require.Equal(t, 2, alpha.EvalCount)
	require.Equal(t, 4, alpha.MemberCount)
	require.Equal(t, 2, alpha.EvaluatedMemberCount)
	require.InDelta(t, 50.0, alpha.ParticipationRate, 1e-9)
	require.Equal(t, []string{"s1", "s2"}, alpha.EvaluatedStudentIDs)

	require.NotNil(t, alpha.Latest)
	require.Equal(t, "e2", alpha.Latest.EvaluationID)
	require.InDelta(t, 100.0, alpha.Latest.AverageScore, 1e-9)
	require.Equal(t, 1, alpha.Latest.ParticipantCount)

	beta := performances[1]
	require.Equal(t, "g-beta", beta.GroupID)
	require.Zero(t, beta.AverageScore)
	require.Equal(t, 1, beta.MemberCount)
	require.Nil(t, beta.Latest)
}

func TestGroupPerformancesResolvesGroupFromEvaluation(t *testing.T) {
	groups := []models.Group{{ID: "g-beta", Name: "Beta"}}
	// The scored student no longer exists; the evaluation's group keeps the
	// entry attributable.
	evals := []models.Evaluation{
		{ID: "e1", TaskID: "t-missing", GroupID: "g-beta", MaxPossibleScore: 40, Scores: scoreMap(map[string]float64{"gone": 30})},
	}

	performances := GroupPerformances(groups, nil, nil, evals)
	require.Len(t, performances, 1)
	require.InDelta(t, 75.0, performances[0].AverageScore, 1e-9)
	require.InDelta(t, 40.0, performances[0].MaxScoreSum, 1e-9)
}

func TestGroupPerformancesClampsScores(t *testing.T) {
	groups := []models.Group{{ID: "g1", Name: "One"}}
	students := []models.Student{{ID: "s1", GroupID: stringPointer("g1")}, {ID: "s2", GroupID: stringPointer("g1")}}
	tasks := []models.Task{{ID: "t1", MaxScore: 100}}
	evals := []models.Evaluation{
		{ID: "e1", TaskID: "t1", GroupID: "g1", Scores: scoreMap(map[string]float64{"s1": 999, "s2": -5})},
	}

	performances := GroupPerformances(groups, students, tasks, evals)
	require.Len(t, performances, 1)
	require.InDelta(t, 100.0, performances[0].TotalScoreSum, 1e-9)
	require.InDelta(t, 50.0, performances[0].AverageScore, 1e-9)
}

func TestOverallAverage(t *testing.T) {
	tasks := []models.Task{{ID: "t1", MaxScore: 100}, {ID: "t2", MaxScore: 50}}
	evals := []models.Evaluation{
		{ID: "e1", TaskID: "t1", Scores: scoreMap(map[string]float64{"s1": 80, "s2": 60})},
		{ID: "e2", TaskID: "t2", Scores: scoreMap(map[string]float64{"s1": 50})},
	}

	require.InDelta(t, 76.0, OverallAverage(tasks, evals), 1e-9)
	require.Zero(t, OverallAverage(nil, nil))
}

func TestPerStudentMaxFallbackChain(t *testing.T) {
	withMax := &models.Task{ID: "t1", MaxScore: 40}
	require.InDelta(t, 40.0, perStudentMax(withMax, models.Evaluation{MaxPossibleScore: 25}), 1e-9)
	require.InDelta(t, 25.0, perStudentMax(nil, models.Evaluation{MaxPossibleScore: 25}), 1e-9)
	require.InDelta(t, 100.0, perStudentMax(nil, models.Evaluation{}), 1e-9)
}
