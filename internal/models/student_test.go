package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeGender(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"male", GenderMale},
		{"Male", GenderMale},
		{"boy", GenderMale},
		{"m", GenderMale},
		{"female", GenderFemale},
		{"FEMALE", GenderFemale},
		{"girl", GenderFemale},
		{"f", GenderFemale},
		{"", GenderUnknown},
		{"prefer not to say", GenderUnknown},
	}

	for _, tc := range cases {
		require.Equal(t, tc.expected, NormalizeGender(tc.input), "input %q", tc.input)
	}
}

func TestValidDutyRole(t *testing.T) {
	require.True(t, ValidDutyRole(DutyTeamLeader))
	require.True(t, ValidDutyRole(DutyPeaceMaker))
	require.False(t, ValidDutyRole("captain"))
	require.False(t, ValidDutyRole(""))
}

func TestCompareRollsNaturalOrder(t *testing.T) {
	cases := []struct {
		a, b     string
		expected int
	}{
		{"2", "10", -1},
		{"10", "2", 1},
		{"A2", "A10", -1},
		{"A10", "A10", 0},
		{"B1", "A9", 1},
		{"7", "7a", -1},
	}

	for _, tc := range cases {
		require.Equal(t, tc.expected, CompareRolls(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
	}
}

func TestCurrentGroupID(t *testing.T) {
	var none Student
	require.Empty(t, none.CurrentGroupID())

	blank := "  "
	require.Empty(t, Student{GroupID: &blank}.CurrentGroupID())

	gid := "g1"
	require.Equal(t, "g1", Student{GroupID: &gid}.CurrentGroupID())
}
