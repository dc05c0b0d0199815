package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Duty roles a student can hold inside their group.
const (
	DutyTeamLeader      = "team-leader"
	DutyTimeKeeper      = "time-keeper"
	DutyReporter        = "reporter"
	DutyResourceManager = "resource-manager"
	DutyPeaceMaker      = "peace-maker"
)

// Normalized gender values produced by NormalizeGender.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderUnknown = "unknown"
)

// Student represents a learner enrolled in a class section. GroupID is the
// source of truth for current group membership; group member lists are
// informational only.
type Student struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Roll          string    `gorm:"size:32" json:"roll"`
	ClassID       string    `gorm:"size:64;index" json:"class_id"`
	SectionID     string    `gorm:"size:64;index" json:"section_id"`
	AcademicGroup string    `gorm:"size:128" json:"academic_group"`
	GroupID       *string   `gorm:"size:64;index" json:"group_id"`
	DutyRole      *string   `gorm:"size:32" json:"duty_role"`
	Gender        string    `gorm:"size:16" json:"gender"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate assigns a uuid identifier when none was provided.
func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// CurrentGroupID returns the live group membership, or empty when unassigned.
func (s Student) CurrentGroupID() string {
	if s.GroupID == nil {
		return ""
	}
	return strings.TrimSpace(*s.GroupID)
}

// ValidDutyRole reports whether the value is one of the known duty tags.
func ValidDutyRole(role string) bool {
	switch role {
	case DutyTeamLeader, DutyTimeKeeper, DutyReporter, DutyResourceManager, DutyPeaceMaker:
		return true
	}
	return false
}

// NormalizeGender maps free-text gender input onto male/female/unknown using
// keyword matching. Female keywords are checked first so that values like
// "female" never match the substring "male".
func NormalizeGender(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return GenderUnknown
	}

	for _, keyword := range []string{"female", "girl", "woman"} {
		if strings.Contains(value, keyword) {
			return GenderFemale
		}
	}
	if value == "f" {
		return GenderFemale
	}

	for _, keyword := range []string{"male", "boy", "man"} {
		if strings.Contains(value, keyword) {
			return GenderMale
		}
	}
	if value == "m" {
		return GenderMale
	}

	return GenderUnknown
}

// CompareRolls orders roll labels naturally: digit runs compare as numbers,
// everything else compares byte-wise ("2" < "10", "A2" < "A10").
func CompareRolls(a, b string) int {
	ai, bi := 0, 0
	for ai < len(a) && bi < len(b) {
		ac, bc := a[ai], b[bi]
		if isDigit(ac) && isDigit(bc) {
			aEnd := ai
			for aEnd < len(a) && isDigit(a[aEnd]) {
				aEnd++
			}
			bEnd := bi
			for bEnd < len(b) && isDigit(b[bEnd]) {
				bEnd++
			}
			aNum, _ := strconv.ParseInt(a[ai:aEnd], 10, 64)
			bNum, _ := strconv.ParseInt(b[bi:bEnd], 10, 64)
			if aNum != bNum {
				if aNum < bNum {
					return -1
				}
				return 1
			}
			ai, bi = aEnd, bEnd
			continue
		}
		if ac != bc {
			if ac < bc {
				return -1
			}
			return 1
		}
		ai++
		bi++
	}
	switch {
	case len(a)-ai < len(b)-bi:
		return -1
	case len(a)-ai > len(b)-bi:
		return 1
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
