package progress

import (
	"fmt"
	"time"
)

// Pure derivation of progress and schedule views from stage records. Nothing
// in this file mutates a record; malformed data fails loudly with
// ErrMalformedStage instead of producing a silently wrong percentage.

// SubstepStatus is the date-derived state of a single substep.
type SubstepStatus string

const (
	StatusNotStarted SubstepStatus = "NOT_STARTED"
	StatusInProgress SubstepStatus = "IN_PROGRESS"
	StatusDone       SubstepStatus = "DONE"
	StatusLate       SubstepStatus = "LATE"
)

// ScheduleStatus is the project-wide schedule assessment.
type ScheduleStatus string

const (
	ScheduleOnTrack ScheduleStatus = "ON_TRACK"
	ScheduleAhead   ScheduleStatus = "AHEAD_OF_SCHEDULE"
	ScheduleBehind  ScheduleStatus = "BEHIND_SCHEDULE"
)

// CompletionPercentage computes the stage's completion as a truncated
// percentage: 2 of 7 substeps done yields 28, not 29.
func CompletionPercentage(r *StageRecord) (int, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	completed := 0
	for _, s := range r.Substeps {
		if s.Completed {
			completed++
		}
	}
	return 100 * completed / len(r.Substeps), nil
}

// SubstepStatusAt derives the status of a single substep relative to today.
// A substep with a future planned date counts as started only once its
// realized date is set; a bare future plan is NOT_STARTED.
func SubstepStatusAt(s Substep, today time.Time) SubstepStatus {
	if s.Completed {
		return StatusDone
	}
	if s.PlannedDate == nil {
		return StatusNotStarted
	}
	if dayBefore(*s.PlannedDate, today) {
		return StatusLate
	}
	if s.RealizedDate != nil {
		return StatusInProgress
	}
	return StatusNotStarted
}

// StageStatus derives the stage's overall status as the most severe of its
// substep statuses, precedence LATE > IN_PROGRESS > NOT_STARTED. The stage is
// DONE only when every substep is DONE.
func StageStatus(r *StageRecord, today time.Time) (SubstepStatus, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	allDone := true
	sawInProgress := false
	for _, s := range r.Substeps {
		switch SubstepStatusAt(s, today) {
		case StatusLate:
			return StatusLate, nil
		case StatusInProgress:
			sawInProgress = true
			allDone = false
		case StatusNotStarted:
			allDone = false
		}
	}
	if allDone {
		return StatusDone, nil
	}
	if sawInProgress {
		return StatusInProgress, nil
	}
	return StatusNotStarted, nil
}

// Rollup is the project-wide progress view across all eight stages.
type Rollup struct {
	KegiatanID string `json:"kegiatan_id"`

	// OverallPercentage is the truncated mean of the eight stage percentages.
	OverallPercentage int `json:"overall_percentage"`

	// StagePercentages is indexed by stage-1.
	StagePercentages [NumStages]int `json:"stage_percentages"`

	// StageStatuses is indexed by stage-1.
	StageStatuses [NumStages]SubstepStatus `json:"stage_statuses"`

	EarliestStart       *time.Time `json:"earliest_start,omitempty"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`

	Schedule ScheduleStatus `json:"schedule"`

	ComputedAt time.Time `json:"computed_at"`
}

// ProjectRollup aggregates the eight stage records of one kegiatan. The input
// must contain exactly one record per stage 1..8, in any order.
func ProjectRollup(records []*StageRecord, today time.Time) (*Rollup, error) {
	if len(records) != NumStages {
		return nil, fmt.Errorf("%w: got %d stage records, want %d",
			ErrMalformedStage, len(records), NumStages)
	}

	byStage := [NumStages + 1]*StageRecord{}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if byStage[r.Stage] != nil {
			return nil, fmt.Errorf("%w: duplicate record for stage %d", ErrMalformedStage, r.Stage)
		}
		byStage[r.Stage] = r
	}

	rollup := &Rollup{
		KegiatanID: records[0].KegiatanID.String(),
		Schedule:   ScheduleOnTrack,
		ComputedAt: today,
	}

	total := 0
	anyLate := false
	for stage := 1; stage <= NumStages; stage++ {
		record := byStage[stage]

		pct, err := CompletionPercentage(record)
		if err != nil {
			return nil, err
		}
		rollup.StagePercentages[stage-1] = pct
		total += pct

		status, err := StageStatus(record, today)
		if err != nil {
			return nil, err
		}
		rollup.StageStatuses[stage-1] = status
		if status == StatusLate {
			anyLate = true
		}

		// Earliest start comes from each stage's first substep plan.
		if planned := record.Substeps[0].PlannedDate; planned != nil {
			if rollup.EarliestStart == nil || planned.Before(*rollup.EarliestStart) {
				start := *planned
				rollup.EarliestStart = &start
			}
		}
	}
	rollup.OverallPercentage = total / NumStages

	// The estimated completion is the latest realized-else-planned date among
	// the final stage's substeps.
	for _, s := range byStage[NumStages].Substeps {
		date := s.RealizedDate
		if date == nil {
			date = s.PlannedDate
		}
		if date == nil {
			continue
		}
		if rollup.EstimatedCompletion == nil || date.After(*rollup.EstimatedCompletion) {
			end := *date
			rollup.EstimatedCompletion = &end
		}
	}

	switch {
	case anyLate:
		rollup.Schedule = ScheduleBehind
	case rollup.OverallPercentage > elapsedPercentage(rollup.EarliestStart, rollup.EstimatedCompletion, today):
		rollup.Schedule = ScheduleAhead
	default:
		rollup.Schedule = ScheduleOnTrack
	}

	return rollup, nil
}

// elapsedPercentage positions today within the planned window, clamped to
// 0..100. An unknown window reads as fully elapsed so progress alone never
// reports AHEAD without dates to back it.
func elapsedPercentage(start, end *time.Time, today time.Time) int {
	if start == nil || end == nil || !end.After(*start) {
		return 100
	}
	if !today.After(*start) {
		return 0
	}
	if !today.Before(*end) {
		return 100
	}
	// Compute in float64: multiplying a nanosecond Duration by 100 overflows
	// int64 for windows past a few years.
	elapsed := today.Sub(*start)
	window := end.Sub(*start)
	return int(100 * (float64(elapsed) / float64(window)))
}

// dayBefore reports whether a falls on an earlier calendar day than b.
// Dates are compared at day granularity so a deadline is late only after the
// day has passed, regardless of time-of-day on either side.
func dayBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
