package stats

import (
	"sort"

	"github.com/classboard/classboard-api/internal/models"
)

// AcademicGroupStat aggregates group performance by the free-text academic
// group label of the evaluated members.
type AcademicGroupStat struct {
	Label        string  `json:"label"`
	AverageScore float64 `json:"average_score"`
	GroupCount   int     `json:"group_count"`
	StudentCount int     `json:"student_count"`
}

// AcademicRollup re-aggregates already-computed group performances per
// academic-group label. Every group with a positive average contributes its
// average once to each label present among its evaluated members, so a mixed
// group can feed several buckets. Each student counts once per label. Label
// averages are the arithmetic mean of contributing group averages. The result
// is sorted descending by average, ties by label for determinism.
func AcademicRollup(performances []GroupPerformance, students []models.Student) []AcademicGroupStat {
	studentsByID := studentIndex(students)

	type rollupBucket struct {
		scoreSum float64
		groups   int
		students map[string]struct{}
	}
	buckets := map[string]*rollupBucket{}

	for _, perf := range performances {
		if perf.AverageScore <= 0 {
			continue
		}

		labels := map[string]struct{}{}
		for _, studentID := range perf.EvaluatedStudentIDs {
			student := studentsByID[studentID]
			if student == nil || student.AcademicGroup == "" {
				continue
			}
			labels[student.AcademicGroup] = struct{}{}

			bucket, ok := buckets[student.AcademicGroup]
			if !ok {
				bucket = &rollupBucket{students: map[string]struct{}{}}
				buckets[student.AcademicGroup] = bucket
			}
			bucket.students[studentID] = struct{}{}
		}

		for label := range labels {
			buckets[label].scoreSum += perf.AverageScore
			buckets[label].groups++
		}
	}

	results := make([]AcademicGroupStat, 0, len(buckets))
	for label, bucket := range buckets {
		average := 0.0
		if bucket.groups > 0 {
			average = bucket.scoreSum / float64(bucket.groups)
		}
		results = append(results, AcademicGroupStat{
			Label:        label,
			AverageScore: safeNumber(average),
			GroupCount:   bucket.groups,
			StudentCount: len(bucket.students),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].AverageScore != results[j].AverageScore {
			return results[i].AverageScore > results[j].AverageScore
		}
		return results[i].Label < results[j].Label
	})

	return results
}
