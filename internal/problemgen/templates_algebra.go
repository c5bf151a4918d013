package problemgen

import (
	"fmt"
	"math"

	"github.com/abhisek/satprep/internal/bank"
	"github.com/abhisek/satprep/internal/rng"
)

var linearEquation = template{name: "linear_equation", build: buildLinear}

func buildLinear(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	var a, x, b int
	switch d {
	case bank.DifficultyEasy:
		a, x, b = r.IntRange(2, 5), r.IntRange(1, 10), r.IntRange(1, 15)
	case bank.DifficultyMedium:
		a, x, b = r.IntRange(2, 9), r.IntRange(-10, 12), r.IntRange(-20, 20)
	default:
		a, x, b = r.IntRange(3, 15), r.IntRange(-20, 25), r.IntRange(-50, 50)
	}
	return linearDraft(r, a, x, b), true
}

// linearDraft builds "If ax + b = c, what is x?" for a known solution x.
func linearDraft(r *rng.LCG, a, x, b int) draft {
	c := a*x + b
	q := fmt.Sprintf("If %s = %d, what is x?", linearLHS(a, b), c)

	expl := fmt.Sprintf("Divide both sides by %d: x = %d.", a, x)
	if b != 0 {
		expl = fmt.Sprintf("Subtract %d from both sides: %dx = %d. Divide by %d: x = %d.", b, a, c-b, a, x)
	}

	cands := []float64{float64(x + 1), float64(x - 1), float64(x + 2), float64(x - 2), float64(-x)}
	if (c+b)%a == 0 {
		cands = append(cands, float64((c+b)/a))
	}
	return draft{
		Question:    q,
		Explanation: expl,
		Correct:     formatInt(x),
		Distractors: numericDistractors(r, float64(x), cands, 1, false, formatNumber),
		Params:      bank.Params{"a": a, "b": b, "c": c},
	}
}

func linearLHS(a, b int) string {
	if b == 0 {
		return fmt.Sprintf("%dx", a)
	}
	return fmt.Sprintf("%dx %s", a, signed(b))
}

var quadraticRoot = template{name: "quadratic_root", build: buildQuadratic}

func buildQuadratic(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	lo, hi := -6, 9
	a := 1
	switch d {
	case bank.DifficultyMedium:
		lo, hi = -10, 12
	case bank.DifficultyHard:
		lo, hi = -15, 15
		a = r.IntRange(1, 3)
	}
	r1, r2 := r.IntRange(lo, hi), r.IntRange(lo, hi)
	if r1 == r2 {
		return draft{}, false
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	b := -a * (r1 + r2)
	c := a * r1 * r2

	q := fmt.Sprintf("What is the greater solution of %s = 0?", polynomial(a, b, c))
	expl := fmt.Sprintf("Factor: %s%s%s = 0, so x = %d or x = %d. The greater solution is %d.",
		coefPrefix(a), factor(r1), factor(r2), r1, r2, r2)

	cands := []float64{float64(r1), float64(-r2), float64(-r1), float64(r2 + 1), float64(r2 - 1), float64(r1 + r2)}
	return draft{
		Question:    q,
		Explanation: expl,
		Correct:     formatInt(r2),
		Distractors: numericDistractors(r, float64(r2), cands, 1, false, formatNumber),
		Params:      bank.Params{"a": a, "b": b, "c": c},
	}, true
}

// polynomial renders ax^2 + bx + c, omitting zero terms and unit
// coefficients.
func polynomial(a, b, c int) string {
	s := coefPrefix(a) + "x^2"
	switch {
	case b == 1:
		s += " + x"
	case b == -1:
		s += " - x"
	case b != 0:
		s += " " + signed(b) + "x"
	}
	if c != 0 {
		s += " " + signed(c)
	}
	return s
}

// factor renders the linear factor with the given root: "(x - 3)", "x".
func factor(root int) string {
	if root == 0 {
		return "x"
	}
	return "(x " + signed(-root) + ")"
}

func coefPrefix(a int) string {
	if a == 1 {
		return ""
	}
	return fmt.Sprintf("%d", a)
}

var percentChange = template{name: "percent_change", build: buildPercentChange}

var percentContexts = []string{
	"The price of a concert ticket, in dollars,",
	"The number of members in a chess club",
	"A store's weekly sales, in dollars,",
	"The population of a small town",
	"The number of visitors to a museum",
	"The monthly rent of an apartment, in dollars,",
	"The number of books in a classroom library",
	"The attendance at a school play",
}

func buildPercentChange(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	var old, pct int
	switch d {
	case bank.DifficultyEasy:
		old = 20 * r.IntRange(1, 10)
		pct = rng.Choice(r, []int{10, 20, 25, 50, -10, -20, -25, -50})
	case bank.DifficultyMedium:
		old = 20 * r.IntRange(2, 20)
		pct = 5 * r.IntRange(-12, 16)
	default:
		old = 20 * r.IntRange(2, 50)
		pct = 5 * r.IntRange(-15, 30)
	}
	if pct == 0 {
		return draft{}, false
	}
	newV := old * (100 + pct) / 100
	ctx := rng.Choice(r, percentContexts)

	q := fmt.Sprintf("%s changed from %d to %d. What was the percent change?", ctx, old, newV)
	direction := "increase"
	if pct < 0 {
		direction = "decrease"
	}
	expl := fmt.Sprintf("Percent change = (new - old) / old x 100 = (%d - %d) / %d x 100 = %d%%, a %d%% %s.",
		newV, old, old, pct, int(math.Abs(float64(pct))), direction)

	asPercent := func(v float64) string { return formatNumber(v) + "%" }
	cands := []float64{
		float64(-pct),
		float64(pct + 5), float64(pct - 5), float64(pct + 10),
		float64(newV-old) / float64(newV) * 100,
		float64(newV - old),
	}
	return draft{
		Question:    q,
		Explanation: expl,
		Correct:     asPercent(float64(pct)),
		Distractors: numericDistractors(r, float64(pct), cands, 5, false, asPercent),
		Params:      bank.Params{"old": old, "new": newV},
	}, true
}
