package punch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func records(types ...Type) []TimeRecord {
	out := make([]TimeRecord, len(types))
	for i, t := range types {
		out[i] = TimeRecord{Type: t}
	}
	return out
}

func TestNextAction_Cycle(t *testing.T) {
	tests := []struct {
		name     string
		today    []TimeRecord
		expected Type
		ok       bool
	}{
		{
			name:     "empty day starts with check-in",
			today:    nil,
			expected: TypeCheckIn,
			ok:       true,
		},
		{
			name:     "after check-in comes break-start",
			today:    records(TypeCheckIn),
			expected: TypeBreakStart,
			ok:       true,
		},
		{
			name:     "after break-start comes break-end",
			today:    records(TypeCheckIn, TypeBreakStart),
			expected: TypeBreakEnd,
			ok:       true,
		},
		{
			name:     "after break-end comes check-out",
			today:    records(TypeCheckIn, TypeBreakStart, TypeBreakEnd),
			expected: TypeCheckOut,
			ok:       true,
		},
		{
			name:  "after check-out the day is complete",
			today: records(TypeCheckIn, TypeBreakStart, TypeBreakEnd, TypeCheckOut),
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := NextAction(tt.today)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, next)
			}
		})
	}
}

func TestNextAction_CorruptedTypeFallsBack(t *testing.T) {
	today := records(TypeCheckIn, Type("lunch???"))

	next, ok := NextAction(today)

	assert.True(t, ok)
	assert.Equal(t, TypeCheckIn, next)
}

func TestNextAction_OnlyLastRecordMatters(t *testing.T) {
	// Earlier corruption is ignored as long as the last record is sane.
	today := records(Type("garbage"), TypeBreakEnd)

	next, ok := NextAction(today)

	assert.True(t, ok)
	assert.Equal(t, TypeCheckOut, next)
}

func TestNextAction_IsPure(t *testing.T) {
	today := records(TypeCheckIn)

	first, _ := NextAction(today)
	second, _ := NextAction(today)

	assert.Equal(t, first, second)
	assert.Equal(t, TypeCheckIn, today[0].Type)
}
