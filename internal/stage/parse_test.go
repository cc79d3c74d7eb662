package stage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseBRDate(t *testing.T) {
	d := parseBRDate("15/03/2024")
	require.NotNil(t, d)
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *d)

	require.Nil(t, parseBRDate(""))
	require.Nil(t, parseBRDate("2024-03-15"))
	require.Nil(t, parseBRDate("31/02/2024"))
}

func TestParseISODate(t *testing.T) {
	d := parseISODate(" 2024-03-15 ")
	require.NotNil(t, d)
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *d)

	require.Nil(t, parseISODate("15/03/2024"))
}

func TestParseCompactDate(t *testing.T) {
	d := parseCompactDate("20240315")
	require.NotNil(t, d)
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *d)

	require.Nil(t, parseCompactDate("2024-03-15"))
}

func TestParseBRFloat(t *testing.T) {
	f := parseBRFloat("1.234,56")
	require.NotNil(t, f)
	require.Equal(t, 1234.56, *f)

	f = parseBRFloat("0,5")
	require.NotNil(t, f)
	require.Equal(t, 0.5, *f)

	require.Nil(t, parseBRFloat(""))
	require.Nil(t, parseBRFloat("abc"))
}

func TestParseBool(t *testing.T) {
	cases := map[string]bool{
		"S":   true,
		"sim": true,
		"1":   true,
		"N":   false,
		"NAO": false,
		"0":   false,
	}
	for in, want := range cases {
		b := parseBool(in)
		require.NotNil(t, b, in)
		require.Equal(t, want, *b, in)
	}
	require.Nil(t, parseBool(""))
	require.Nil(t, parseBool("TALVEZ"))
}

func TestParseIntAndStrPtr(t *testing.T) {
	i := parseInt(" 42 ")
	require.NotNil(t, i)
	require.Equal(t, 42, *i)
	require.Nil(t, parseInt("x"))

	s := strPtr("  ABC ")
	require.NotNil(t, s)
	require.Equal(t, "ABC", *s)
	require.Nil(t, strPtr("   "))
}
