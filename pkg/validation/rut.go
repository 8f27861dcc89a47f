package validation

import (
	"strconv"
	"strings"
)

// NormalizeRUT strips dots, dashes and spaces and upper-cases the check digit:
// "12.345.678-k" -> "12345678K".
func NormalizeRUT(rut string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(rut) {
		if (r >= '0' && r <= '9') || r == 'K' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatRUT renders a RUT as 12.345.678-5. Invalid input is returned unchanged.
func FormatRUT(rut string) string {
	n := NormalizeRUT(rut)
	if len(n) < 2 {
		return rut
	}
	body, dv := n[:len(n)-1], n[len(n)-1:]
	var parts []string
	for len(body) > 3 {
		parts = append([]string{body[len(body)-3:]}, parts...)
		body = body[:len(body)-3]
	}
	parts = append([]string{body}, parts...)
	return strings.Join(parts, ".") + "-" + dv
}

// CheckDigit computes the módulo 11 verifier for the numeric body of a RUT.
func CheckDigit(body string) (string, bool) {
	if body == "" {
		return "", false
	}
	sum, factor := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		d, err := strconv.Atoi(string(body[i]))
		if err != nil {
			return "", false
		}
		sum += d * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}
	switch r := 11 - sum%11; r {
	case 11:
		return "0", true
	case 10:
		return "K", true
	default:
		return strconv.Itoa(r), true
	}
}

func ValidRUT(rut string) bool {
	n := NormalizeRUT(rut)
	if len(n) < 2 || len(n) > 9 {
		return false
	}
	body, dv := n[:len(n)-1], n[len(n)-1:]
	if strings.Contains(body, "K") {
		return false
	}
	want, ok := CheckDigit(body)
	return ok && want == dv
}
