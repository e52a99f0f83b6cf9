package utils

import "strings"

// DigitsOnly drops everything that is not an ASCII digit.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NationalNumber strips the dial code (given without "+") from a raw phone
// input. Payers sometimes type the code twice, so at most two copies go.
func NationalNumber(dialCode, raw string) string {
	digits := DigitsOnly(raw)
	dialCode = DigitsOnly(dialCode)
	if dialCode == "" {
		return digits
	}

	for i := 0; i < 2 && strings.HasPrefix(digits, dialCode); i++ {
		digits = digits[len(dialCode):]
	}
	return digits
}

// NormalizePhone returns dial code + national digits, the code appearing
// exactly once.
func NormalizePhone(dialCode, raw string) string {
	return DigitsOnly(dialCode) + NationalNumber(dialCode, raw)
}

// LocalPhone is the national number with a leading 0, as wallet providers
// expect in phoneNumberRight.
func LocalPhone(national string) string {
	if strings.HasPrefix(national, "0") {
		return national
	}
	return "0" + national
}
