package audit

import (
	"math"

	"github.com/abhisek/satprep/internal/bank"
)

// Correlation labels used by scatter-plot questions.
const (
	LabelNone           = "No correlation"
	LabelWeakPositive   = "Weak positive correlation"
	LabelStrongPositive = "Strong positive correlation"
	LabelWeakNegative   = "Weak negative correlation"
	LabelStrongNegative = "Strong negative correlation"
)

// Pearson returns the sample correlation coefficient of the points, or 0
// when either coordinate is constant.
func Pearson(points []bank.DataPoint) float64 {
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

// ClassifyCorrelation labels a coefficient: |r| < 0.2 is no correlation,
// |r| >= 0.7 is strong, anything between is weak.
func ClassifyCorrelation(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs < 0.2:
		return LabelNone
	case r > 0 && abs >= 0.7:
		return LabelStrongPositive
	case r > 0:
		return LabelWeakPositive
	case abs >= 0.7:
		return LabelStrongNegative
	default:
		return LabelWeakNegative
	}
}
