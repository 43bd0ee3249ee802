package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func newRecord(t *testing.T, stage int) *StageRecord {
	t.Helper()
	record, err := NewStageRecord(uuid.New(), stage, today.AddDate(0, -6, 0))
	require.NoError(t, err)
	return record
}

func TestSubstepCount(t *testing.T) {
	assert.Equal(t, 3, SubstepCount(1))
	assert.Equal(t, 7, SubstepCount(3))
	assert.Equal(t, 3, SubstepCount(8))
	assert.Equal(t, 0, SubstepCount(0))
	assert.Equal(t, 0, SubstepCount(9))
}

func TestCompletionPercentage_Truncates(t *testing.T) {
	tests := []struct {
		name      string
		stage     int
		completed int
		want      int
	}{
		{"none of 3", 1, 0, 0},
		{"2 of 7 truncates to 28", 3, 2, 28},
		{"3 of 7 truncates to 42", 3, 3, 42},
		{"3 of 4 is 75", 2, 3, 75},
		{"all of 7", 3, 7, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := newRecord(t, tt.stage)
			for i := 0; i < tt.completed; i++ {
				record.Substeps[i].Completed = true
			}
			pct, err := CompletionPercentage(record)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pct)
		})
	}
}

func TestCompletionPercentage_MalformedStageFails(t *testing.T) {
	record := newRecord(t, 3)
	record.Substeps = record.Substeps[:2]

	_, err := CompletionPercentage(record)
	require.ErrorIs(t, err, ErrMalformedStage)

	record = newRecord(t, 3)
	record.Stage = 12
	_, err = CompletionPercentage(record)
	require.ErrorIs(t, err, ErrMalformedStage)
}

func TestSubstepStatusAt(t *testing.T) {
	yesterday := today.AddDate(0, 0, -1)
	nextWeek := today.AddDate(0, 0, 7)

	tests := []struct {
		name    string
		substep Substep
		want    SubstepStatus
	}{
		{"completed is done", Substep{Completed: true}, StatusDone},
		{"completed beats overdue plan", Substep{Completed: true, PlannedDate: datePtr(yesterday)}, StatusDone},
		{"no dates is not started", Substep{}, StatusNotStarted},
		{"overdue plan is late", Substep{PlannedDate: datePtr(yesterday)}, StatusLate},
		{"plan due today is not late", Substep{PlannedDate: datePtr(today.Add(-9 * time.Hour))}, StatusNotStarted},
		{"future plan without work is not started", Substep{PlannedDate: datePtr(nextWeek)}, StatusNotStarted},
		{"future plan with realized date is in progress", Substep{PlannedDate: datePtr(nextWeek), RealizedDate: datePtr(yesterday)}, StatusInProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubstepStatusAt(tt.substep, today))
		})
	}
}

// Stage 3 with substeps 1-3 completed and substep 4 planned yesterday:
// the stage is LATE at 42 percent.
func TestStageStatus_LateScenario(t *testing.T) {
	record := newRecord(t, 3)
	for i := 0; i < 3; i++ {
		record.Substeps[i].Completed = true
	}
	record.Substeps[3].PlannedDate = datePtr(today.AddDate(0, 0, -1))

	assert.Equal(t, StatusLate, SubstepStatusAt(record.Substeps[3], today))

	status, err := StageStatus(record, today)
	require.NoError(t, err)
	assert.Equal(t, StatusLate, status)

	pct, err := CompletionPercentage(record)
	require.NoError(t, err)
	assert.Equal(t, 42, pct)
}

func TestStageStatus_Precedence(t *testing.T) {
	t.Run("all done", func(t *testing.T) {
		record := newRecord(t, 1)
		for i := range record.Substeps {
			record.Substeps[i].Completed = true
		}
		status, err := StageStatus(record, today)
		require.NoError(t, err)
		assert.Equal(t, StatusDone, status)
	})

	t.Run("in progress beats not started", func(t *testing.T) {
		record := newRecord(t, 1)
		record.Substeps[0].Completed = true
		record.Substeps[1].PlannedDate = datePtr(today.AddDate(0, 0, 3))
		record.Substeps[1].RealizedDate = datePtr(today)
		status, err := StageStatus(record, today)
		require.NoError(t, err)
		assert.Equal(t, StatusInProgress, status)
	})

	t.Run("untouched stage is not started", func(t *testing.T) {
		record := newRecord(t, 5)
		status, err := StageStatus(record, today)
		require.NoError(t, err)
		assert.Equal(t, StatusNotStarted, status)
	})

	t.Run("malformed stage fails", func(t *testing.T) {
		record := newRecord(t, 5)
		record.Substeps = append(record.Substeps, Substep{})
		_, err := StageStatus(record, today)
		assert.ErrorIs(t, err, ErrMalformedStage)
	})
}

func newPipelineForTest(t *testing.T) []*StageRecord {
	t.Helper()
	return NewPipeline(uuid.New(), today.AddDate(0, -6, 0))
}

func TestProjectRollup_RequiresEightStages(t *testing.T) {
	records := newPipelineForTest(t)

	_, err := ProjectRollup(records[:7], today)
	assert.ErrorIs(t, err, ErrMalformedStage)

	duplicated := append(records[:7], records[0])
	_, err = ProjectRollup(duplicated, today)
	assert.ErrorIs(t, err, ErrMalformedStage)
}

func TestProjectRollup_AveragesTruncated(t *testing.T) {
	records := newPipelineForTest(t)
	// Stage 1 fully done, stage 3 at 2/7: (100 + 28) / 8 = 16.
	for i := range records[0].Substeps {
		records[0].Substeps[i].Completed = true
	}
	records[2].Substeps[0].Completed = true
	records[2].Substeps[1].Completed = true

	rollup, err := ProjectRollup(records, today)
	require.NoError(t, err)
	assert.Equal(t, 16, rollup.OverallPercentage)
	assert.Equal(t, 100, rollup.StagePercentages[0])
	assert.Equal(t, 28, rollup.StagePercentages[2])
}

func TestProjectRollup_ScheduleAndDates(t *testing.T) {
	start := today.AddDate(0, -2, 0)
	finish := today.AddDate(0, 4, 0)

	plan := func(t *testing.T) []*StageRecord {
		t.Helper()
		records := newPipelineForTest(t)
		records[0].Substeps[0].PlannedDate = datePtr(start)
		records[3].Substeps[0].PlannedDate = datePtr(start.AddDate(0, 1, 0))
		for i := range records[7].Substeps {
			records[7].Substeps[i].PlannedDate = datePtr(finish.AddDate(0, 0, -i))
		}
		return records
	}

	t.Run("window boundaries", func(t *testing.T) {
		rollup, err := ProjectRollup(plan(t), today)
		require.NoError(t, err)
		require.NotNil(t, rollup.EarliestStart)
		assert.True(t, rollup.EarliestStart.Equal(start))
		require.NotNil(t, rollup.EstimatedCompletion)
		assert.True(t, rollup.EstimatedCompletion.Equal(finish))
	})

	t.Run("realized date extends completion estimate", func(t *testing.T) {
		records := plan(t)
		realized := finish.AddDate(0, 1, 0)
		records[7].Substeps[0].RealizedDate = datePtr(realized)
		rollup, err := ProjectRollup(records, today)
		require.NoError(t, err)
		assert.True(t, rollup.EstimatedCompletion.Equal(realized))
	})

	t.Run("any late substep means behind schedule", func(t *testing.T) {
		records := plan(t)
		records[4].Substeps[1].PlannedDate = datePtr(today.AddDate(0, 0, -10))
		rollup, err := ProjectRollup(records, today)
		require.NoError(t, err)
		assert.Equal(t, ScheduleBehind, rollup.Schedule)
	})

	t.Run("completion outpacing elapsed time is ahead", func(t *testing.T) {
		records := plan(t)
		// Two months into a six month window is 33 percent elapsed; finish
		// five full stages to pull completion past it.
		for stage := 0; stage < 5; stage++ {
			for i := range records[stage].Substeps {
				records[stage].Substeps[i].Completed = true
				records[stage].Substeps[i].RealizedDate = datePtr(today.AddDate(0, 0, -30))
			}
		}
		rollup, err := ProjectRollup(records, today)
		require.NoError(t, err)
		assert.Equal(t, ScheduleAhead, rollup.Schedule)
	})

	t.Run("multi-year window stays on track", func(t *testing.T) {
		// Four years into a ten year window is 40 percent elapsed; one
		// finished stage (12 percent) must not read as ahead.
		records := newPipelineForTest(t)
		longStart := today.AddDate(-4, 0, 0)
		records[0].Substeps[0].PlannedDate = datePtr(longStart)
		for i := range records[0].Substeps {
			records[0].Substeps[i].Completed = true
			records[0].Substeps[i].RealizedDate = datePtr(longStart.AddDate(0, 1, 0))
		}
		records[7].Substeps[0].PlannedDate = datePtr(today.AddDate(6, 0, 0))

		rollup, err := ProjectRollup(records, today)
		require.NoError(t, err)
		assert.Equal(t, 12, rollup.OverallPercentage)
		assert.Equal(t, ScheduleOnTrack, rollup.Schedule)
	})

	t.Run("no dates stays on track", func(t *testing.T) {
		rollup, err := ProjectRollup(newPipelineForTest(t), today)
		require.NoError(t, err)
		assert.Equal(t, ScheduleOnTrack, rollup.Schedule)
		assert.Nil(t, rollup.EarliestStart)
		assert.Nil(t, rollup.EstimatedCompletion)
	})
}
