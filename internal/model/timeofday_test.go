package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(8, 30), tod)

	tod, err = ParseTimeOfDay("17:00:00")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(17, 0), tod)

	for _, bad := range []string{"", "25:00", "noon", "17:60"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestTimeOfDayOrdering(t *testing.T) {
	early := NewTimeOfDay(8, 0)
	late := NewTimeOfDay(17, 0)

	assert.True(t, early.Before(late))
	assert.True(t, late.After(early))
	assert.False(t, early.Before(early))
	assert.False(t, early.After(early))
}

func TestTimeOfDayJSON(t *testing.T) {
	data, err := json.Marshal(NewTimeOfDay(9, 5))
	require.NoError(t, err)
	assert.Equal(t, `"09:05"`, string(data))

	var tod TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"14:45"`), &tod))
	assert.Equal(t, NewTimeOfDay(14, 45), tod)

	assert.Error(t, json.Unmarshal([]byte(`1445`), &tod))
}

func TestTimeOfDayScan(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, tod.Scan(time.Date(2026, 1, 1, 10, 15, 0, 0, time.UTC)))
	assert.Equal(t, NewTimeOfDay(10, 15), tod)

	require.NoError(t, tod.Scan([]byte("16:20:00")))
	assert.Equal(t, NewTimeOfDay(16, 20), tod)

	require.NoError(t, tod.Scan("07:45"))
	assert.Equal(t, NewTimeOfDay(7, 45), tod)

	assert.Error(t, tod.Scan(42))
}

func TestTimeOfDayValue(t *testing.T) {
	value, err := NewTimeOfDay(9, 5).Value()
	require.NoError(t, err)
	assert.Equal(t, "09:05:00", value)
}
