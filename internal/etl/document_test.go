package etl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDocument(t *testing.T) {
	cases := []struct {
		name       string
		document   string
		personType string
		want       string
	}{
		{"cpf with mask", "123.456.789-09", "F", "12345678909"},
		{"cpf missing leading zeros", "345678909", "F", "00345678909"},
		{"cnpj with mask", "12.345.678/0001-95", "J", "12345678000195"},
		{"cnpj missing leading zeros", "345678000195", "J", "00345678000195"},
		{"legal entity inferred by length", "123456780001951", "", "123456780001951"},
		{"lowercase person type", "345678909", "f", "00345678909"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, NormalizeDocument(tc.document, tc.personType))
		})
	}
}
