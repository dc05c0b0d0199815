package stats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classboard/classboard-api/internal/models"
)

func TestAcademicRollup(t *testing.T) {
	students := []models.Student{
		{ID: "s1", AcademicGroup: "Science"},
		{ID: "s2", AcademicGroup: "Arts"},
		{ID: "s3", AcademicGroup: "Science"},
		{ID: "s4"},
	}
	performances := []GroupPerformance{
		// Mixed group feeds both labels with the same 80 average.
		{GroupID: "g1", AverageScore: 80, EvaluatedStudentIDs: []string{"s1", "s2", "s4"}},
		{GroupID: "g2", AverageScore: 60, EvaluatedStudentIDs: []string{"s3"}},
		// Zero-average groups contribute nothing.
		{GroupID: "g3", AverageScore: 0, EvaluatedStudentIDs: []string{"s1"}},
	}

	results := AcademicRollup(performances, students)
	require.Len(t, results, 2)

	require.Equal(t, "Arts", results[0].Label)
	require.InDelta(t, 80.0, results[0].AverageScore, 1e-9)
	require.Equal(t, 1, results[0].GroupCount)
	require.Equal(t, 1, results[0].StudentCount)

	require.Equal(t, "Science", results[1].Label)
	require.InDelta(t, 70.0, results[1].AverageScore, 1e-9)
	require.Equal(t, 2, results[1].GroupCount)
	require.Equal(t, 2, results[1].StudentCount)
}

func TestAcademicRollupEmptyInputs(t *testing.T) {
	require.Empty(t, AcademicRollup(nil, nil))
	require.Empty(t, AcademicRollup([]GroupPerformance{{GroupID: "g1", AverageScore: 50}}, nil))
}
