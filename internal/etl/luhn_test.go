package etl

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateLuhnCheckDigit(t *testing.T) {
	cases := []struct {
		number string
		digit  int
	}{
		{"000000", 0},
		{"000001", 8},
		{"123456", 6},
	}
	for _, tc := range cases {
		t.Run(tc.number, func(t *testing.T) {
			require.Equal(t, tc.digit, GenerateLuhnCheckDigit(tc.number))
		})
	}
}

func TestGenerateLuhnCheckDigitRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		digit := GenerateLuhnCheckDigit(fmt.Sprintf("%06d", i))
		require.GreaterOrEqual(t, digit, 0)
		require.LessOrEqual(t, digit, 9)
	}
}

func TestGenerateLuhnCheckDigitDeterministic(t *testing.T) {
	first := GenerateLuhnCheckDigit("987654")
	for i := 0; i < 100; i++ {
		require.Equal(t, first, GenerateLuhnCheckDigit("987654"))
	}
}

func TestBuildQuotaCode(t *testing.T) {
	code, digit := BuildQuotaCode(1)
	require.Equal(t, "0000018", code)
	require.Equal(t, "8", digit)

	code, digit = BuildQuotaCode(123456)
	require.Equal(t, "1234566", code)
	require.Equal(t, "6", digit)
}
