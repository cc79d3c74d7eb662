package etl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeGroupCode(t *testing.T) {
	require.Equal(t, "00512", NormalizeGroupCode("512", 5))
	require.Equal(t, "00512", NormalizeGroupCode("0512", 5))
	require.Equal(t, "00512", NormalizeGroupCode(" 512 ", 5))
	require.Equal(t, "123456", NormalizeGroupCode("123456", 5))
}

func TestMonthsBetween(t *testing.T) {
	cases := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", date(2024, 3, 15), date(2024, 3, 15), 0},
		{"exact month", date(2024, 3, 15), date(2024, 4, 15), 1},
		{"day not reached", date(2024, 3, 15), date(2024, 4, 14), 0},
		{"day passed", date(2024, 3, 15), date(2024, 4, 16), 1},
		{"across year", date(2023, 11, 10), date(2024, 2, 10), 3},
		{"negative", date(2024, 4, 15), date(2024, 3, 15), -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, MonthsBetween(tc.a, tc.b))
		})
	}
}

func TestProjectGroup(t *testing.T) {
	today := date(2024, 6, 15)
	reference := date(2024, 3, 15)

	proj, err := ProjectGroup(today, reference, 10, 80)
	require.NoError(t, err)
	require.Equal(t, 13, proj.AssembliesToday)
	require.Equal(t, 67, proj.RemainingAssemblies)
	require.Equal(t, today.AddDate(0, 67, 0), proj.ClosingDate)
}

func TestProjectGroupPastDeadline(t *testing.T) {
	today := date(2024, 6, 15)
	reference := date(2024, 1, 15)

	proj, err := ProjectGroup(today, reference, 79, 80)
	require.NoError(t, err)
	require.Equal(t, 84, proj.AssembliesToday)
	require.Equal(t, 0, proj.RemainingAssemblies)
	require.Equal(t, today, proj.ClosingDate)
}

func TestProjectGroupFutureReferenceDate(t *testing.T) {
	// Rows dated ahead of the wall clock must not subtract assemblies.
	today := date(2024, 6, 15)
	reference := date(2024, 8, 1)

	proj, err := ProjectGroup(today, reference, 10, 80)
	require.NoError(t, err)
	require.Equal(t, 10, proj.AssembliesToday)
}

func TestProjectGroupInvalidDeadline(t *testing.T) {
	_, err := ProjectGroup(date(2024, 6, 15), date(2024, 3, 15), 10, 0)
	require.Error(t, err)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
