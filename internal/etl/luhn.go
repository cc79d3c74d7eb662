package etl

import "fmt"

// GenerateLuhnCheckDigit returns the Luhn check digit for a numeric string:
// reverse the digits, double every digit at an even index (subtracting 9 when
// the doubled value exceeds 9), sum everything, and take (10 - sum%10) % 10.
func GenerateLuhnCheckDigit(number string) int {
	sum := 0
	n := len(number)
	for i := 0; i < n; i++ {
		d := int(number[n-1-i] - '0')
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return (10 - sum%10) % 10
}

// BuildQuotaCode mints a quota code from a numeric id. The id is zero-padded
// to six digits and suffixed with its Luhn check digit. The first call uses a
// running max-id counter as a placeholder; once the real primary key is known
// the code is re-minted against it and overwritten.
func BuildQuotaCode(id int64) (code string, checkDigit string) {
	base := fmt.Sprintf("%06d", id)
	digit := GenerateLuhnCheckDigit(base)
	return fmt.Sprintf("%s%d", base, digit), fmt.Sprintf("%d", digit)
}
