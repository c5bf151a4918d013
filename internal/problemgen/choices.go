package problemgen

import (
	"math"
	"strconv"
	"strings"

	"github.com/abhisek/satprep/internal/bank"
	"github.com/abhisek/satprep/internal/rng"
)

// minGap is the smallest distance allowed between a numeric distractor and
// the correct value. It sits well above the auditor's tolerance so a
// distractor can never be mistaken for the answer.
const minGap = 0.1

// formatNumber renders v rounded to two decimals with trailing zeros
// trimmed: 40 -> "40", 31.4 -> "31.4", 3.6055 -> "3.61".
func formatNumber(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func formatInt(n int) string { return strconv.Itoa(n) }

// numericDistractors picks three wrong options for correct. Candidates are
// tried in a shuffled order; if they run out, offsets of step are used.
// When positive is set, non-positive values are rejected.
func numericDistractors(r *rng.LCG, correct float64, candidates []float64, step float64, positive bool, format func(float64) string) []string {
	correctText := format(correct)
	seen := map[string]bool{correctText: true}
	out := make([]string, 0, 3)

	try := func(v float64) {
		if len(out) == 3 || math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
		if positive && v <= 0 {
			return
		}
		if math.Abs(v-correct) < minGap {
			return
		}
		s := format(v)
		if seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	pool := append([]float64(nil), candidates...)
	rng.Shuffle(r, pool)
	for _, v := range pool {
		try(v)
	}
	if step <= 0 {
		step = 1
	}
	for k := 1; len(out) < 3 && k < 100; k++ {
		try(correct + float64(k)*step)
		try(correct - float64(k)*step)
	}
	return out
}

// textDistractors picks three options from pool that differ from correct.
func textDistractors(r *rng.LCG, correct string, pool []string) []string {
	cand := make([]string, 0, len(pool))
	for _, p := range pool {
		if bank.Normalize(p) != bank.Normalize(correct) {
			cand = append(cand, p)
		}
	}
	rng.Shuffle(r, cand)
	if len(cand) > 3 {
		cand = cand[:3]
	}
	return cand
}

// assemble shuffles the draft's options with r and returns the finished
// record fields. ok is false when the draft does not have exactly four
// distinct options.
func assemble(r *rng.LCG, d draft) (choices []string, answerIndex int, ok bool) {
	if len(d.Distractors) != 3 || strings.TrimSpace(d.Correct) == "" {
		return nil, 0, false
	}
	choices = append([]string{d.Correct}, d.Distractors...)
	seen := make(map[string]bool, len(choices))
	for _, c := range choices {
		k := bank.Normalize(c)
		if k == "" || seen[k] {
			return nil, 0, false
		}
		seen[k] = true
	}

	rng.Shuffle(r, choices)
	for i, c := range choices {
		if c == d.Correct {
			return choices, i, true
		}
	}
	return nil, 0, false
}

// level maps a difficulty to a range multiplier: easy 1, medium 2, hard 3.
func level(d bank.Difficulty) int {
	switch d {
	case bank.DifficultyMedium:
		return 2
	case bank.DifficultyHard:
		return 3
	}
	return 1
}

// signed renders "+ n" or "- n" for use after a leading term.
func signed(n int) string {
	if n < 0 {
		return "- " + strconv.Itoa(-n)
	}
	return "+ " + strconv.Itoa(n)
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

// fraction renders num/den in lowest terms.
func fraction(num, den int) string {
	g := gcd(num, den)
	if g == 0 {
		g = 1
	}
	num, den = num/g, den/g
	if den < 0 {
		num, den = -num, -den
	}
	return strconv.Itoa(num) + "/" + strconv.Itoa(den)
}
