package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecCronExpr(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{"monday morning", Spec{DayOfWeek: 0, Hour: 9, Minute: 0}, "0 9 * * 1"},
		{"sunday evening", Spec{DayOfWeek: 6, Hour: 18, Minute: 30}, "30 18 * * 0"},
		{"saturday", Spec{DayOfWeek: 5, Hour: 0, Minute: 5}, "5 0 * * 6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.CronExpr())
		})
	}
}

func TestSpecString(t *testing.T) {
	assert.Equal(t, "Monday at 09:00", Spec{DayOfWeek: 0, Hour: 9}.String())
	assert.Equal(t, "Sunday at 18:05", Spec{DayOfWeek: 6, Hour: 18, Minute: 5}.String())
}

func TestEffective(t *testing.T) {
	fallback := Spec{DayOfWeek: 0, Hour: 9}

	assert.Equal(t, fallback, Effective(nil, fallback))

	saved := Spec{DayOfWeek: 3, Hour: 14, Minute: 30}
	assert.Equal(t, saved, Effective(&saved, fallback), "saved schedule outlives restarts")
}

func TestRearmReplacesTrigger(t *testing.T) {
	s, err := New("UTC", func() {}, func() {})
	require.NoError(t, err)

	require.NoError(t, s.RearmDispatch(Spec{DayOfWeek: 0, Hour: 9}))
	require.NoError(t, s.RearmDispatch(Spec{DayOfWeek: 2, Hour: 10}))

	assert.Len(t, s.cron.Entries(), 1, "re-arming swaps the entry instead of stacking")
}

func TestNextDispatch(t *testing.T) {
	s, err := New("UTC", func() {}, func() {})
	require.NoError(t, err)

	_, ok := s.NextDispatch()
	assert.False(t, ok, "nothing armed yet")

	require.NoError(t, s.RearmDispatch(Spec{DayOfWeek: 0, Hour: 9}))
	s.Start()
	defer s.Stop()

	next, ok := s.NextDispatch()
	require.True(t, ok)
	assert.Equal(t, time.Monday, next.Weekday())
	assert.Equal(t, 9, next.Hour())
}

func TestNewRejectsBadTimezone(t *testing.T) {
	_, err := New("Mars/Olympus", func() {}, func() {})
	assert.Error(t, err)
}
