package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementPeriodsDerivation(t *testing.T) {
	base := []Period{
		{Number: 1, Name: "Period 1"},
		{Number: 2, Name: "Period 2"},
		{Number: 5, Name: "Activity 1h"},
	}

	timeline := MovementPeriods(base)
	require.Len(t, timeline, 4)

	assert.Equal(t, "Before Period 1", timeline[0].Name)
	assert.Equal(t, 1, timeline[0].Number)
	assert.Equal(t, "Before Activity 1h", timeline[2].Name)
	assert.Equal(t, 5, timeline[2].Number)

	cleanup := timeline[3]
	assert.True(t, cleanup.Cleanup)
	assert.Equal(t, "Cleanup", cleanup.Name)
	assert.Equal(t, 6, cleanup.Number)
}

func TestMovementPeriodsEmptyCalendar(t *testing.T) {
	assert.Nil(t, MovementPeriods(nil))
	assert.Nil(t, MovementPeriods([]Period{}))
}

func TestSortPeriods(t *testing.T) {
	periods := []Period{{Number: 3, Name: "c"}, {Number: 1, Name: "a"}, {Number: 2, Name: "b"}}
	SortPeriods(periods)
	assert.Equal(t, []int{1, 2, 3}, []int{periods[0].Number, periods[1].Number, periods[2].Number})
}
