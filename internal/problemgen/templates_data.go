package problemgen

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/abhisek/satprep/internal/bank"
	"github.com/abhisek/satprep/internal/rng"
)

var months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

type barContext struct {
	subject string // "the number of books read"
	who     string // "five students"
	labels  []string
	unit    string
}

var barContexts = []barContext{
	{"the number of books read", "five students", []string{"Ava", "Ben", "Cruz", "Dana", "Eli"}, "books"},
	{"the number of rainy days", "five cities", []string{"Austin", "Boston", "Denver", "Miami", "Seattle"}, "days"},
	{"the number of tickets sold", "five booths at a fair", []string{"A", "B", "C", "D", "E"}, "tickets"},
	{"the number of laps swum", "five swimmers", []string{"Kai", "Lena", "Mo", "Nia", "Omar"}, "laps"},
	{"the number of plants grown", "five garden plots", []string{"Plot 1", "Plot 2", "Plot 3", "Plot 4", "Plot 5"}, "plants"},
}

var barMean = template{name: "bar_mean", build: buildBarMean}

func buildBarMean(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	lo, hi := 1, 10
	switch d {
	case bank.DifficultyMedium:
		lo, hi = 5, 40
	case bank.DifficultyHard:
		lo, hi = 10, 99
	}
	ctx := rng.Choice(r, barContexts)
	month := rng.Choice(r, months)

	values := make([]int, len(ctx.labels))
	data := make([]bank.DataPoint, len(ctx.labels))
	sum := 0
	for i, label := range ctx.labels {
		values[i] = r.IntRange(lo, hi)
		sum += values[i]
		data[i] = bank.DataPoint{Label: label, X: float64(i), Y: float64(values[i])}
	}
	mean := float64(sum) / float64(len(values))

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	median := float64(sorted[len(sorted)/2])
	spread := float64(sorted[len(sorted)-1] - sorted[0])

	return draft{
		Question: fmt.Sprintf("The bar chart shows %s by %s in %s. What is the mean number of %s?",
			ctx.subject, ctx.who, month, ctx.unit),
		Explanation: fmt.Sprintf("Add the five values to get %d, then divide by 5: %d / 5 = %s.", sum, sum, formatNumber(mean)),
		Correct:     formatNumber(mean),
		Distractors: numericDistractors(r, mean, []float64{median, spread, float64(sum), mean + 1, mean - 2}, 1, true, formatNumber),
		Visual: &bank.Visual{
			Type:      bank.VisualChart,
			ChartType: "bar",
			Data:      data,
			Config:    map[string]any{"xLabel": "", "yLabel": ctx.unit, "title": month},
		},
		Params: bank.Params{"n": len(values)},
	}, true
}

type scatterContext struct {
	x, y, who string
}

var scatterContexts = []scatterContext{
	{"hours studied", "test score", "students"},
	{"daily temperature", "ice cream sales", "days"},
	{"age of a car", "resale value", "cars"},
	{"hours of screen time", "hours of sleep", "teenagers"},
	{"height", "shoe size", "adults"},
	{"distance from the coast", "annual rainfall", "towns"},
	{"practice hours", "free throws made", "players"},
	{"shoe size", "spelling score", "students"},
}

var classNames = []string{"6A", "6B", "7A", "7B", "8A", "8B", "9A", "9B", "10A", "10B", "11A", "11B"}

// Correlation labels.
const (
	labelNone           = "No correlation"
	labelWeakPositive   = "Weak positive correlation"
	labelStrongPositive = "Strong positive correlation"
	labelWeakNegative   = "Weak negative correlation"
	labelStrongNegative = "Strong negative correlation"
)

var correlationLabels = []string{labelNone, labelWeakPositive, labelStrongPositive, labelWeakNegative, labelStrongNegative}

// classifyCorrelation maps a Pearson coefficient to a label: |r| < 0.2 is no
// correlation, |r| >= 0.7 is strong. The auditor recomputes with its own
// copy in audit.Pearson and audit.ClassifyCorrelation.
func classifyCorrelation(r float64) string {
	switch {
	case math.Abs(r) < 0.2:
		return labelNone
	case r > 0 && r >= 0.7:
		return labelStrongPositive
	case r > 0:
		return labelWeakPositive
	case r <= -0.7:
		return labelStrongNegative
	default:
		return labelWeakNegative
	}
}

// pearson returns the correlation coefficient of the points, or 0 when
// either coordinate has no variance.
func pearson(points []bank.DataPoint) float64 {
	n := float64(len(points))
	if n < 2 {
		return 0
	}
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	mx, my := sx/n, sy/n
	var cov, vx, vy float64
	for _, p := range points {
		dx, dy := p.X-mx, p.Y-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	return cov / math.Sqrt(vx*vy)
}

// scatterPoints draws eight points along a line of the given slope with
// uniform noise of the given amplitude.
func scatterPoints(r *rng.LCG, slope float64, noise int) []bank.DataPoint {
	pts := make([]bank.DataPoint, 8)
	base := r.IntRange(20, 60)
	for i := range pts {
		x := float64(i + 1)
		y := float64(base) + slope*x + float64(r.IntRange(-noise, noise))
		pts[i] = bank.DataPoint{X: x, Y: y}
	}
	return pts
}

var scatterCorrelation = template{name: "scatter_correlation", build: buildScatter}

func buildScatter(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	ctx := rng.Choice(r, scatterContexts)
	class := rng.Choice(r, classNames)

	var pts []bank.DataPoint
	switch rng.Choice(r, []string{"strong", "weak", "none"}) {
	case "strong":
		slope := float64(r.IntRange(3, 6))
		if r.Float() < 0.5 {
			slope = -slope
		}
		pts = scatterPoints(r, slope, 2*level(d))
	case "weak":
		slope := float64(r.IntRange(1, 2))
		if r.Float() < 0.5 {
			slope = -slope
		}
		pts = scatterPoints(r, slope, 6+2*level(d))
	default:
		pts = scatterPoints(r, 0, 10)
	}
	coef := pearson(pts)
	label := classifyCorrelation(coef)

	return draft{
		Question: fmt.Sprintf("The scatter plot shows %s (x) and %s (y) for 8 %s in class %s. Which choice best describes the relationship between x and y?",
			ctx.x, ctx.y, ctx.who, class),
		Explanation: fmt.Sprintf("The correlation coefficient of the plotted points is about %s, which indicates: %s.",
			strconv.FormatFloat(coef, 'f', 2, 64), strings.ToLower(label)),
		Correct:     label,
		Distractors: textDistractors(r, label, correlationLabels),
		Visual: &bank.Visual{
			Type:      bank.VisualChart,
			ChartType: "scatter",
			Data:      pts,
			Config:    map[string]any{"xLabel": ctx.x, "yLabel": ctx.y},
		},
		Params: bank.Params{"n": len(pts)},
	}, true
}

var correlationRValue = template{name: "correlation_r_value", build: buildRValue}

func buildRValue(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	ctx := rng.Choice(r, scatterContexts)
	class := rng.Choice(r, classNames)
	positive := r.Float() < 0.5

	slope := float64(r.IntRange(3, 6))
	if !positive {
		slope = -slope
	}
	pts := scatterPoints(r, slope, level(d))
	coef := pearson(pts)
	if math.Abs(coef) < 0.7 || (coef > 0) != positive {
		return draft{}, false
	}

	direction := "negative"
	if positive {
		direction = "positive"
	}
	// The right answer is the most extreme option in the stated direction;
	// the distractors are a weak value of each sign and the sign flip.
	strong := float64(r.IntRange(80, 98)) / 100
	weak := float64(r.IntRange(5, 45)) / 100
	correct, others := strong, []float64{-strong, weak, -weak}
	if !positive {
		correct, others = -strong, []float64{strong, weak, -weak}
	}
	distractors := make([]string, len(others))
	for i, v := range others {
		distractors[i] = formatNumber(v)
	}

	return draft{
		Question: fmt.Sprintf("The scatter plot of %s (x) and %s (y) for 8 %s in class %s shows a strong %s correlation. Which value is closest to the correlation coefficient r?",
			ctx.x, ctx.y, ctx.who, class, direction),
		Explanation: fmt.Sprintf("A strong %s correlation has r close to %s, so the best choice is %s.",
			direction, map[bool]string{true: "1", false: "-1"}[positive], formatNumber(correct)),
		Correct:     formatNumber(correct),
		Distractors: distractors,
		Visual: &bank.Visual{
			Type:      bank.VisualChart,
			ChartType: "scatter",
			Data:      pts,
			Config:    map[string]any{"xLabel": ctx.x, "yLabel": ctx.y},
		},
		Params: bank.Params{"direction": direction},
	}, true
}

type tableContext struct {
	groups   [2]string
	subjects []string
	topic    string
}

var tableContexts = []tableContext{
	{[2]string{"Female", "Male"}, []string{"Math", "Science", "English"}, "favorite subject"},
	{[2]string{"Ninth-grade", "Tenth-grade"}, []string{"Soccer", "Basketball", "Tennis"}, "favorite sport"},
	{[2]string{"Morning", "Afternoon"}, []string{"Art", "Music", "Drama"}, "preferred elective"},
	{[2]string{"Junior", "Senior"}, []string{"Bus", "Car", "Bike"}, "usual way of getting to school"},
}

var schools = []string{"Lincoln High School", "Roosevelt High School", "Maple Grove Academy", "Eastside High School", "Harbor View School"}

var tableFraction = template{name: "table_fraction", build: buildTableFraction}

func buildTableFraction(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	ctx := rng.Choice(r, tableContexts)
	school := rng.Choice(r, schools)
	hi := 12 * level(d)

	headers := append([]string{"Group"}, ctx.subjects...)
	headers = append(headers, "Total")
	var rows [][]string
	counts := make([][]int, 2)
	rowTotals := make([]int, 2)
	colTotals := make([]int, len(ctx.subjects))
	grand := 0
	for g := range ctx.groups {
		row := []string{ctx.groups[g]}
		counts[g] = make([]int, len(ctx.subjects))
		for s := range ctx.subjects {
			n := r.IntRange(2, hi)
			counts[g][s] = n
			rowTotals[g] += n
			colTotals[s] += n
			row = append(row, strconv.Itoa(n))
		}
		grand += rowTotals[g]
		row = append(row, strconv.Itoa(rowTotals[g]))
		rows = append(rows, row)
	}

	g := r.IntRange(0, 1)
	s := r.IntRange(0, len(ctx.subjects)-1)
	cell, total := counts[g][s], rowTotals[g]
	correct := fraction(cell, total)

	seen := map[string]bool{correct: true}
	var distractors []string
	add := func(num, den int) {
		if len(distractors) == 3 || num <= 0 || den <= 0 || num >= den {
			return
		}
		f := fraction(num, den)
		if !seen[f] {
			seen[f] = true
			distractors = append(distractors, f)
		}
	}
	add(cell, grand)
	add(cell, colTotals[s])
	add(total-cell, total)
	for k := 1; len(distractors) < 3 && k < total; k++ {
		add(cell+k, total)
		add(cell-k, total)
	}

	group := strings.ToLower(ctx.groups[g])
	return draft{
		Question: fmt.Sprintf("A survey asked %d students at %s about their %s. According to the table, what fraction of the %s students chose %s?",
			grand, school, ctx.topic, group, ctx.subjects[s]),
		Explanation: fmt.Sprintf("%d of the %d %s students chose %s, so the fraction is %d/%d = %s.",
			cell, total, group, ctx.subjects[s], cell, total, correct),
		Correct:     correct,
		Distractors: distractors,
		Visual: &bank.Visual{
			Type:    bank.VisualTable,
			Headers: headers,
			Rows:    rows,
			Caption: fmt.Sprintf("Survey of %s by group", ctx.topic),
		},
		Params: bank.Params{"row": ctx.groups[g], "column": ctx.subjects[s]},
	}, true
}
