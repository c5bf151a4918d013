package audit

import (
	"strconv"
	"strings"
)

// ParseNumber reads a numeric choice leniently: it ignores surrounding
// currency and percent signs, thousands separators and trailing units, and
// accepts simple fractions such as "3/4".
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\u2212", "-"))
	if n, d, ok := parseFraction(s); ok {
		return float64(n) / float64(d), true
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	tok := strings.TrimSuffix(fields[0], "%")
	tok = strings.ReplaceAll(tok, ",", "")
	if rest, ok := strings.CutPrefix(tok, "-$"); ok {
		tok = "-" + rest
	}
	tok = strings.TrimPrefix(tok, "$")
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseFraction reads "a/b" with integer parts and a non-zero denominator.
func parseFraction(s string) (int, int, bool) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return 0, 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return 0, 0, false
	}
	d, err := strconv.Atoi(strings.TrimSpace(den))
	if err != nil || d == 0 {
		return 0, 0, false
	}
	return n, d, true
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// reduce returns n/d in lowest terms with a positive denominator.
func reduce(n, d int) (int, int) {
	if d < 0 {
		n, d = -n, -d
	}
	g := gcd(n, d)
	if g == 0 {
		return n, d
	}
	return n / g, d / g
}
