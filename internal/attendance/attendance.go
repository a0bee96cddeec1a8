// Package attendance derives attendance statistics, safe-bunk limits and
// condonation eligibility from per-course class counts.
//
// The overall percentage is displayed rounded up while per-course percentages
// use round-half-up. Global and per-course bunk limits are computed
// independently; honouring every per-course limit does not guarantee the
// global target.
package attendance

import (
	"fmt"
	"math"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

const (
	// PassThreshold is the percentage that passes without condonation.
	PassThreshold = 75.0
	// CondonationFloor is the lowest percentage that may be condoned.
	CondonationFloor = 65.0
	// MaxBonus caps the combined condonation bonus.
	MaxBonus = 10
	// DefaultTarget is used when a profile has no target yet.
	DefaultTarget = 75.0
)

// Stats aggregates class counts over all courses.
type Stats struct {
	TotalAttended  int     `json:"total_attended"`
	TotalClasses   int     `json:"total_classes"`
	TotalRemaining int     `json:"total_remaining"`
	OverallRaw     float64 `json:"overall_raw"`
	OverallDisplay int     `json:"overall_display"`
	Missed         int     `json:"missed"`
}

// Projection is the best attainable percentage if every remaining class is attended.
type Projection struct {
	Raw     float64 `json:"raw"`
	Display int     `json:"display"`
}

// BunkInfo is the global number of remaining classes that may be skipped.
type BunkInfo struct {
	MaxBunks          int  `json:"max_bunks"`
	CanMaintainTarget bool `json:"can_maintain_target"`
}

// CourseBunk is the safe-bunk count for a single course.
type CourseBunk struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
	MaxBunks   int    `json:"max_bunks"`
}

// Condonation describes the bonus granted from previous terms.
type Condonation struct {
	Bonus     int     `json:"bonus"`
	Effective float64 `json:"effective"`
	Eligible  bool    `json:"eligible"`
	Reason    string  `json:"reason"`
}

// Report bundles every derived figure for a profile.
type Report struct {
	Stats       Stats        `json:"stats"`
	MaxPossible Projection   `json:"max_possible"`
	Global      BunkInfo     `json:"global_bunks"`
	Courses     []CourseBunk `json:"courses"`
	Condonation Condonation  `json:"condonation"`
	Target      float64      `json:"target"`
	BelowTarget bool         `json:"below_target"`
}

// Summarize totals attended (including duty leave), held and remaining classes.
func Summarize(courses []models.AttendanceCourse) Stats {
	var s Stats
	for _, c := range courses {
		s.TotalAttended += c.CombinedAttended()
		s.TotalClasses += c.TotalClasses
		s.TotalRemaining += c.Remaining
	}
	s.Missed = s.TotalClasses - s.TotalAttended
	if s.TotalClasses > 0 {
		s.OverallRaw = rawPercent(s.TotalAttended, s.TotalClasses)
		s.OverallDisplay = ceilPercent(s.TotalAttended, s.TotalClasses)
	}
	return s
}

// CoursePercentage is the half-up rounded percentage of one course, 0 when no class was held.
func CoursePercentage(c models.AttendanceCourse) int {
	if c.TotalClasses <= 0 {
		return 0
	}
	a, t := c.CombinedAttended(), c.TotalClasses
	return (200*a + t) / (2 * t)
}

// MaxPossible projects the percentage when all remaining classes are attended.
func MaxPossible(s Stats) Projection {
	if s.TotalClasses == 0 {
		return Projection{}
	}
	a := s.TotalAttended + s.TotalRemaining
	t := s.TotalClasses + s.TotalRemaining
	if t == 0 {
		return Projection{}
	}
	return Projection{Raw: rawPercent(a, t), Display: ceilPercent(a, t)}
}

// GlobalBunks returns how many remaining classes may be skipped overall while staying on target.
func GlobalBunks(s Stats, target float64) BunkInfo {
	if s.TotalClasses == 0 || s.TotalRemaining <= 0 {
		return BunkInfo{CanMaintainTarget: float64(s.OverallDisplay) >= target}
	}
	maxBunks := safeBunks(s.TotalAttended, s.TotalClasses, s.TotalRemaining, target)
	return BunkInfo{
		MaxBunks:          maxBunks,
		CanMaintainTarget: maxBunks > 0 || float64(s.OverallDisplay) >= target,
	}
}

// CourseBunks applies the bunk formula to each course on its own.
func CourseBunks(courses []models.AttendanceCourse, target float64) []CourseBunk {
	out := make([]CourseBunk, 0, len(courses))
	for _, c := range courses {
		cb := CourseBunk{ID: c.ID, Name: c.Name, Percentage: CoursePercentage(c)}
		if c.TotalClasses > 0 && c.Remaining > 0 {
			cb.MaxBunks = safeBunks(c.CombinedAttended(), c.TotalClasses, c.Remaining, target)
		}
		out = append(out, cb)
	}
	return out
}

// BonusForTerm maps a previous term percentage to its condonation bonus.
func BonusForTerm(p float64) int {
	switch {
	case p >= 90:
		return 10
	case p >= 85:
		return 8
	case p >= 80:
		return 6
	case p >= 75:
		return 4
	default:
		return 0
	}
}

// Evaluate condonation for the displayed current percentage.
//
// At or above the pass threshold no bonus is computed and the term passes.
// Below the floor nothing can be condoned. In between, previous terms add a
// bonus capped at MaxBonus.
func Evaluate(current float64, prev1, prev2 *float64) Condonation {
	if current >= PassThreshold {
		return Condonation{
			Effective: current,
			Eligible:  true,
			Reason:    "Current term aggregate meets the 75% requirement. No condonation needed.",
		}
	}
	if current < CondonationFloor {
		return Condonation{
			Effective: current,
			Reason:    "Current term aggregate < 65%. Condonation not allowed.",
		}
	}

	bonus := 0
	if prev1 != nil {
		bonus += BonusForTerm(*prev1)
	}
	if prev2 != nil {
		bonus += BonusForTerm(*prev2)
	}
	if bonus > MaxBonus {
		bonus = MaxBonus
	}

	effective := current + float64(bonus)
	reason := "No bonus available from previous terms."
	if bonus > 0 {
		reason = fmt.Sprintf("Eligible for %d%% bonus from previous terms.", bonus)
	}
	return Condonation{
		Bonus:     bonus,
		Effective: effective,
		Eligible:  effective >= PassThreshold,
		Reason:    reason,
	}
}

// Analyze computes the full report for a stored profile.
func Analyze(data models.AttendanceData) Report {
	stats := Summarize(data.Courses)
	r := Report{
		Stats:       stats,
		MaxPossible: MaxPossible(stats),
		Global:      GlobalBunks(stats, data.Target),
		Courses:     CourseBunks(data.Courses, data.Target),
		Target:      data.Target,
		BelowTarget: stats.TotalClasses > 0 && float64(stats.OverallDisplay) < data.Target,
	}
	if stats.TotalClasses == 0 {
		r.Condonation = Condonation{Reason: "No data."}
	} else {
		r.Condonation = Evaluate(float64(stats.OverallDisplay), data.PrevTerm1, data.PrevTerm2)
	}
	return r
}

// safeBunks solves (a+r-b)/(t+r) >= target/100 for the largest b in [0, r].
func safeBunks(a, t, r int, target float64) int {
	scaled := float64(100*(a+r)) - target*float64(t+r)
	b := int(math.Floor(scaled / 100))
	if b < 0 {
		return 0
	}
	if b > r {
		return r
	}
	return b
}

func rawPercent(a, t int) float64 {
	return float64(100*a) / float64(t)
}

// ceilPercent is ceil(100*a/t) for non-negative a and positive t.
func ceilPercent(a, t int) int {
	return (100*a + t - 1) / t
}
