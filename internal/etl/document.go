package etl

import "strings"

// NormalizeDocument strips formatting from a CPF/CNPJ and left-pads it to the
// canonical width: 11 digits for natural persons, 14 for legal entities.
// Source files routinely drop leading zeros.
func NormalizeDocument(document, personType string) string {
	digits := onlyDigits(document)

	width := 11
	if strings.EqualFold(personType, "J") {
		width = 14
	} else if len(digits) > 11 {
		width = 14
	}

	if len(digits) >= width {
		return digits
	}
	return strings.Repeat("0", width-len(digits)) + digits
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
