package audit

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/satprep/internal/bank"
)

// ErrNotValidatable is returned by Derive when a record's answer cannot be
// recomputed: unknown template, missing parameters or a degenerate figure.
var ErrNotValidatable = errors.New("not validatable")

// ErrInconsistent is returned by Derive when the template parameters
// contradict the question text.
var ErrInconsistent = errors.New("parameters contradict the question")

// ExpectKind says how an expected answer is compared with a choice.
type ExpectKind int

const (
	// ExpectNumber compares numerically within the tolerance.
	ExpectNumber ExpectKind = iota
	// ExpectText compares normalized text.
	ExpectText
	// ExpectFraction compares reduced fractions, falling back to numbers.
	ExpectFraction
)

// Expected is a recomputed answer.
type Expected struct {
	Kind  ExpectKind
	Value float64
	Num   int
	Den   int
	Text  string
}

func (e Expected) String() string {
	switch e.Kind {
	case ExpectText:
		return strconv.Quote(e.Text)
	case ExpectFraction:
		return fmt.Sprintf("%d/%d", e.Num, e.Den)
	}
	return strconv.FormatFloat(e.Value, 'f', -1, 64)
}

// Matches reports whether the recorded choice agrees with e.
func (e Expected) Matches(recorded string, tol float64) bool {
	switch e.Kind {
	case ExpectText:
		return bank.Normalize(recorded) == bank.Normalize(e.Text)
	case ExpectFraction:
		if n, d, ok := parseFraction(recorded); ok {
			rn, rd := reduce(n, d)
			en, ed := reduce(e.Num, e.Den)
			return rn == en && rd == ed
		}
		v, ok := ParseNumber(recorded)
		return ok && math.Abs(v-float64(e.Num)/float64(e.Den)) <= tol
	}
	v, ok := ParseNumber(recorded)
	return ok && math.Abs(v-e.Value) <= tol
}

func number(v float64) Expected { return Expected{Kind: ExpectNumber, Value: v} }

func text(s string) Expected { return Expected{Kind: ExpectText, Text: s} }

type derivation func(q *bank.Question, p bank.Params) (Expected, error)

// derivations is keyed by template name.
var derivations = map[string]derivation{
	"linear_equation":           deriveLinear,
	"quadratic_root":            deriveQuadratic,
	"percent_change":            derivePercentChange,
	"rectangle_area":            deriveRectangle,
	"right_triangle_hypotenuse": deriveHypotenuse,
	"circle_circumference":      deriveCircumference,
	"arc_length":                deriveArcLength,
	"cylinder_volume":           deriveCylinder,
	"coordinate_distance":       deriveDistance,
	"bar_mean":                  deriveBarMean,
	"scatter_correlation":       deriveScatter,
	"correlation_r_value":       deriveRValue,
	"table_fraction":            deriveTableFraction,
	"reading_main_idea":         deriveStoredAnswer,
	"reading_vocabulary":        deriveStoredAnswer,
	"reading_evidence":          deriveStoredAnswer,
	"reading_grammar":           deriveGrammar,
	"reading_transition":        deriveTransition,
}

// Validatable reports whether the auditor knows how to recompute answers
// for the named template.
func Validatable(template string) bool {
	_, ok := derivations[template]
	return ok
}

// Derive recomputes the answer of a templated record from its parameters
// and figure alone.
func Derive(q *bank.Question) (Expected, error) {
	name := q.Template()
	d, ok := derivations[name]
	if !ok {
		return Expected{}, fmt.Errorf("unknown template %q: %w", name, ErrNotValidatable)
	}
	exp, err := d(q, q.Params())
	if err != nil {
		return Expected{}, fmt.Errorf("%s: %w", name, err)
	}
	return exp, nil
}

func missing(keys ...string) error {
	return fmt.Errorf("missing parameter %s: %w", strings.Join(keys, ", "), ErrNotValidatable)
}

func degenerate(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotValidatable)...)
}

// nums reads keys from the template parameters, then from the figure.
func nums(q *bank.Question, p bank.Params, keys ...string) ([]float64, error) {
	if v, ok := p.Nums(keys...); ok {
		return v, nil
	}
	if q.Visual != nil {
		if v, ok := q.Visual.Params.Nums(keys...); ok {
			return v, nil
		}
	}
	return nil, missing(keys...)
}

func pi(p bank.Params) float64 {
	if v, ok := p.Num("pi"); ok && v > 0 {
		return v
	}
	return 3.14
}

func deriveLinear(q *bank.Question, p bank.Params) (Expected, error) {
	v, err := nums(q, p, "a", "b", "c")
	if err != nil {
		return Expected{}, err
	}
	a, b, c := v[0], v[1], v[2]
	if a == 0 {
		return Expected{}, degenerate("coefficient a is zero")
	}
	return number((c - b) / a), nil
}

// deriveQuadratic returns the greater real root of ax^2 + bx + c = 0.
func deriveQuadratic(q *bank.Question, p bank.Params) (Expected, error) {
	v, err := nums(q, p, "a", "b", "c")
	if err != nil {
		return Expected{}, err
	}
	a, b, c := v[0], v[1], v[2]
	if a == 0 {
		return Expected{}, degenerate("coefficient a is zero")
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return Expected{}, degenerate("no real roots")
	}
	sq := math.Sqrt(disc)
	return number(max((-b+sq)/(2*a), (-b-sq)/(2*a))), nil
}

func derivePercentChange(q *bank.Question, p bank.Params) (Expected, error) {
	v, err := nums(q, p, "old", "new")
	if err != nil {
		return Expected{}, err
	}
	if v[0] == 0 {
		return Expected{}, degenerate("old value is zero")
	}
	return number((v[1] - v[0]) / v[0] * 100), nil
}

func deriveRectangle(q *bank.Question, p bank.Params) (Expected, error) {
	v, err := nums(q, p, "w", "h")
	if err != nil {
		return Expected{}, err
	}
	return number(v[0] * v[1]), nil
}

func deriveHypotenuse(q *bank.Question, p bank.Params) (Expected, error) {
	v, err := nums(q, p, "a", "b")
	if err != nil {
		return Expected{}, err
	}
	return number(math.Sqrt(v[0]*v[0] + v[1]*v[1])), nil
}

func deriveCircumference(q *bank.Question, p bank.Params) (Expected, error) {
	v, err := nums(q, p, "r")
	if err != nil {
		return Expected{}, err
	}
	return number(2 * pi(p) * v[0]), nil
}

func deriveArcLength(q *bank.Question, p bank.Params) (Expected, error) {
	v, err := nums(q, p, "r", "angle")
	if err != nil {
		return Expected{}, err
	}
	return number(v[1] / 360 * 2 * pi(p) * v[0]), nil
}

func deriveCylinder(q *bank.Question, p bank.Params) (Expected, error) {
	v, err := nums(q, p, "r", "h")
	if err != nil {
		return Expected{}, err
	}
	return number(pi(p) * v[0] * v[0] * v[1]), nil
}

func deriveDistance(q *bank.Question, p bank.Params) (Expected, error) {
	v, err := nums(q, p, "x1", "y1", "x2", "y2")
	if err != nil {
		return Expected{}, err
	}
	return number(math.Hypot(v[2]-v[0], v[3]-v[1])), nil
}

func chartData(q *bank.Question, minPoints int) ([]bank.DataPoint, error) {
	if q.Visual == nil || q.Visual.Type != bank.VisualChart {
		return nil, degenerate("no chart figure")
	}
	if len(q.Visual.Data) < minPoints {
		return nil, degenerate("chart has %d data points, need %d", len(q.Visual.Data), minPoints)
	}
	return q.Visual.Data, nil
}

func deriveBarMean(q *bank.Question, _ bank.Params) (Expected, error) {
	data, err := chartData(q, 1)
	if err != nil {
		return Expected{}, err
	}
	var sum float64
	for _, d := range data {
		sum += d.Y
	}
	return number(sum / float64(len(data))), nil
}

func deriveScatter(q *bank.Question, _ bank.Params) (Expected, error) {
	data, err := chartData(q, 2)
	if err != nil {
		return Expected{}, err
	}
	return text(ClassifyCorrelation(Pearson(data))), nil
}

// deriveRValue picks the most extreme numeric choice in the direction the
// question states.
func deriveRValue(q *bank.Question, p bank.Params) (Expected, error) {
	lower := strings.ToLower(q.Question)
	textPositive := strings.Contains(lower, "strong positive")
	textNegative := strings.Contains(lower, "strong negative")
	dir, _ := p.Str("direction")
	switch {
	case dir == "positive" && textNegative && !textPositive,
		dir == "negative" && textPositive && !textNegative:
		return Expected{}, fmt.Errorf("direction %q but the question states the opposite: %w", dir, ErrInconsistent)
	}
	positive := dir == "positive" || (dir == "" && textPositive)
	negative := dir == "negative" || (dir == "" && textNegative)
	if positive == negative {
		return Expected{}, degenerate("question does not state a strong direction")
	}

	best, found := 0.0, false
	var bestText string
	for _, c := range q.Choices {
		v, ok := ParseNumber(c)
		if !ok {
			continue
		}
		if !found || (positive && v > best) || (negative && v < best) {
			best, bestText, found = v, c, true
		}
	}
	if !found {
		return Expected{}, degenerate("no numeric choices")
	}
	return text(bestText), nil
}

var (
	// "... fraction of (the) <row> students (who) chose|prefer <column>?"
	fractionQuestion = regexp.MustCompile(`(?i)fraction of (?:the )?(.+?) students (?:who )?(?:chose|choose|prefers?|preferred|preferring) (.+?)\s*(?:\?|\.|$)`)
)

func deriveTableFraction(q *bank.Question, p bank.Params) (Expected, error) {
	v := q.Visual
	if v == nil || v.Type != bank.VisualTable || len(v.Headers) < 2 {
		return Expected{}, degenerate("no table figure")
	}
	row, okRow := p.Str("row")
	col, okCol := p.Str("column")
	if !okRow || !okCol {
		m := fractionQuestion.FindStringSubmatch(q.Question)
		if m == nil {
			return Expected{}, missing("row", "column")
		}
		row, col = m[1], m[2]
	}

	colIdx, totalIdx := -1, -1
	for i, h := range v.Headers {
		switch {
		case i == 0:
		case strings.EqualFold(h, col):
			colIdx = i
		case strings.EqualFold(h, "total"):
			totalIdx = i
		}
	}
	if colIdx < 0 {
		return Expected{}, degenerate("column %q not in table", col)
	}

	for _, cells := range v.Rows {
		if len(cells) == 0 || !strings.EqualFold(cells[0], row) {
			continue
		}
		cell, ok := cellInt(cells, colIdx)
		if !ok {
			return Expected{}, degenerate("cell %s/%s is not a count", row, col)
		}
		total := 0
		if t, ok := cellInt(cells, totalIdx); ok {
			total = t
		} else {
			for i := 1; i < len(cells); i++ {
				n, ok := cellInt(cells, i)
				if !ok {
					return Expected{}, degenerate("row %s has a non-numeric cell", row)
				}
				total += n
			}
		}
		if total <= 0 {
			return Expected{}, degenerate("row %s total is zero", row)
		}
		n, d := reduce(cell, total)
		return Expected{Kind: ExpectFraction, Num: n, Den: d}, nil
	}
	return Expected{}, degenerate("row %q not in table", row)
}

func cellInt(cells []string, i int) (int, bool) {
	if i < 0 || i >= len(cells) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(cells[i]))
	return n, err == nil
}

func deriveStoredAnswer(_ *bank.Question, p bank.Params) (Expected, error) {
	ans, ok := p.Str("answer")
	if !ok || ans == "" {
		return Expected{}, missing("answer")
	}
	return text(ans), nil
}

func deriveGrammar(_ *bank.Question, p bank.Params) (Expected, error) {
	gn, okN := p.Str("number")
	if !okN {
		return Expected{}, missing("number")
	}
	key := "singular"
	if gn == "plural" {
		key = "plural"
	} else if gn != "singular" {
		return Expected{}, degenerate("unknown grammatical number %q", gn)
	}
	verb, ok := p.Str(key)
	if !ok {
		return Expected{}, missing(key)
	}
	return text(verb), nil
}

var transitionFor = map[string]string{
	"contrast": "However,",
	"cause":    "Therefore,",
	"addition": "Moreover,",
	"example":  "For example,",
}

func deriveTransition(_ *bank.Question, p bank.Params) (Expected, error) {
	rel, ok := p.Str("relation")
	if !ok {
		return Expected{}, missing("relation")
	}
	t, ok := transitionFor[rel]
	if !ok {
		return Expected{}, degenerate("unknown relation %q", rel)
	}
	return text(t), nil
}
