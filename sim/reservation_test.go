package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleSlotTable_ReservedOnlyAtExactTimeslot(t *testing.T) {
	// GIVEN a route reserved at timeslot 3
	table := NewSingleSlotTable()
	route := Route{0, 1, 2}
	table.Reserve(route, 3)

	// THEN any route through one of its links is unavailable at exactly 3
	assert.False(t, table.IsAvailable(Route{1, 2}, 3))
	assert.False(t, table.IsAvailable(Route{2, 1, 0}, 3), "links are direction independent")
	// AND available at every other timeslot
	for _, ts := range []int64{0, 1, 2, 4, 100} {
		assert.True(t, table.IsAvailable(Route{1, 2}, ts), "timeslot %d", ts)
	}
	// AND unrelated links are unaffected
	assert.True(t, table.IsAvailable(Route{2, 3}, 3))
}

func TestSingleSlotTable_ReserveOverwritesPreviousTimeslot(t *testing.T) {
	table := NewSingleSlotTable()
	table.Reserve(Route{0, 1}, 1)
	table.Reserve(Route{0, 1}, 5)

	assert.True(t, table.IsAvailable(Route{0, 1}, 1), "overwritten entry no longer blocks timeslot 1")
	assert.False(t, table.IsAvailable(Route{0, 1}, 5))
	assert.Equal(t, 1, table.Len())
}

func TestSingleSlotTable_ReleaseRemovesEntriesRegardlessOfTimeslot(t *testing.T) {
	table := NewSingleSlotTable()
	table.Reserve(Route{0, 1, 2}, 4)

	table.Release(Route{0, 1, 2}, 99)

	assert.True(t, table.IsAvailable(Route{0, 1, 2}, 4))
	assert.Equal(t, 0, table.Len())
}

func TestReservationTables_ReleaseWithoutEntries_IsNoOp(t *testing.T) {
	for _, model := range []string{"single-slot", "busy-set"} {
		t.Run(model, func(t *testing.T) {
			table := NewReservationTable(model)
			table.Reserve(Route{5, 6}, 1)

			assert.NotPanics(t, func() {
				table.Release(Route{0, 1, 2}, 1)
				table.Release(Route{0, 1, 2}, 1)
			})
			assert.Equal(t, 1, table.Len())
			assert.False(t, table.IsAvailable(Route{5, 6}, 1))
		})
	}
}

func TestBusySetTable_HoldsSeveralTimeslotsPerLink(t *testing.T) {
	table := NewBusySetTable()
	table.Reserve(Route{0, 1}, 1)
	table.Reserve(Route{0, 1}, 2)

	assert.False(t, table.IsAvailable(Route{0, 1}, 1))
	assert.False(t, table.IsAvailable(Route{0, 1}, 2))
	assert.True(t, table.IsAvailable(Route{0, 1}, 3))

	// Release only drops the given timeslot
	table.Release(Route{0, 1}, 1)
	assert.True(t, table.IsAvailable(Route{0, 1}, 1))
	assert.False(t, table.IsAvailable(Route{0, 1}, 2))
	assert.Equal(t, 1, table.Len())

	table.Release(Route{0, 1}, 2)
	assert.Equal(t, 0, table.Len())
}

func TestFindNextAvailable_SkipsBusyTimeslots(t *testing.T) {
	table := NewBusySetTable()
	table.Reserve(Route{0, 1}, 2)
	table.Reserve(Route{1, 2}, 3)

	ts, ok := FindNextAvailable(table, Route{0, 1, 2}, 2, 10)
	require.True(t, ok)
	assert.Equal(t, int64(4), ts)
}

func TestFindNextAvailable_ExhaustedWindow_ReturnsFalse(t *testing.T) {
	table := NewBusySetTable()
	for ts := int64(1); ts <= 5; ts++ {
		table.Reserve(Route{0, 1}, ts)
	}

	_, ok := FindNextAvailable(table, Route{0, 1}, 1, 5)
	assert.False(t, ok)

	ts, ok := FindNextAvailable(table, Route{0, 1}, 1, 6)
	require.True(t, ok)
	assert.Equal(t, int64(6), ts)
}

func TestFindNextAvailable_NonPositiveLookahead_ProbesStartOnly(t *testing.T) {
	table := NewSingleSlotTable()
	ts, ok := FindNextAvailable(table, Route{0, 1}, 7, 0)
	require.True(t, ok)
	assert.Equal(t, int64(7), ts)

	table.Reserve(Route{0, 1}, 7)
	_, ok = FindNextAvailable(table, Route{0, 1}, 7, 0)
	assert.False(t, ok)
}

func TestNewReservationTable_ByName(t *testing.T) {
	assert.IsType(t, &SingleSlotTable{}, NewReservationTable(""))
	assert.IsType(t, &SingleSlotTable{}, NewReservationTable("single-slot"))
	assert.IsType(t, &BusySetTable{}, NewReservationTable("busy-set"))
	assert.Panics(t, func() { NewReservationTable("per-qubit") })
}
