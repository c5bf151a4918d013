package problemgen

import (
	"fmt"
	"math"

	"github.com/abhisek/satprep/internal/bank"
	"github.com/abhisek/satprep/internal/rng"
)

// piApprox is the value of pi quoted in question text.
const piApprox = 3.14

func svg(shape string, params bank.Params) *bank.Visual {
	return &bank.Visual{Type: bank.VisualSVG, Shape: shape, Params: params}
}

var rectangleArea = template{name: "rectangle_area", build: buildRectangle}

func buildRectangle(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	lo, hi := 2, 12
	switch d {
	case bank.DifficultyMedium:
		lo, hi = 5, 25
	case bank.DifficultyHard:
		lo, hi = 10, 60
	}
	w, h := r.IntRange(lo, hi), r.IntRange(lo, hi)
	return rectangleDraft(r, w, h), true
}

func rectangleDraft(r *rng.LCG, w, h int) draft {
	area := w * h
	cands := []float64{
		float64(2 * (w + h)),
		float64(w + h),
		float64(area + w),
		float64(area - h),
		float64(area + h),
	}
	return draft{
		Question:    fmt.Sprintf("A rectangle has a width of %d cm and a height of %d cm. What is its area, in square centimeters?", w, h),
		Explanation: fmt.Sprintf("Area = width x height = %d x %d = %d square centimeters.", w, h, area),
		Correct:     formatInt(area),
		Distractors: numericDistractors(r, float64(area), cands, float64(w), true, formatNumber),
		Visual:      svg("rectangle", bank.Params{"w": w, "h": h}),
		Params:      bank.Params{"w": w, "h": h},
	}
}

var pythagoreanTriples = [][2]int{{3, 4}, {5, 12}, {8, 15}, {7, 24}, {20, 21}, {9, 40}, {12, 35}}

var rightTriangleHypotenuse = template{name: "right_triangle_hypotenuse", build: buildHypotenuse}

func buildHypotenuse(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	var a, b int
	switch d {
	case bank.DifficultyEasy:
		t := rng.Choice(r, pythagoreanTriples[:4])
		k := r.IntRange(1, 3)
		a, b = t[0]*k, t[1]*k
	case bank.DifficultyMedium:
		t := rng.Choice(r, pythagoreanTriples)
		k := r.IntRange(1, 5)
		a, b = t[0]*k, t[1]*k
	default:
		a, b = r.IntRange(2, 20), r.IntRange(2, 20)
	}
	if r.Float() < 0.5 {
		a, b = b, a
	}
	c := math.Sqrt(float64(a*a + b*b))

	expl := fmt.Sprintf("By the Pythagorean theorem, c = sqrt(%d^2 + %d^2) = sqrt(%d) = %s.", a, b, a*a+b*b, formatNumber(c))
	cands := []float64{
		float64(a + b),
		math.Sqrt(math.Abs(float64(b*b - a*a))),
		c + 1, c - 1, c + 2,
		float64(a*a + b*b),
	}
	return draft{
		Question:    fmt.Sprintf("A right triangle has legs of length %d and %d. What is the length of the hypotenuse?", a, b),
		Explanation: expl,
		Correct:     formatNumber(c),
		Distractors: numericDistractors(r, c, cands, 1, true, formatNumber),
		Visual:      svg("right_triangle", bank.Params{"a": a, "b": b}),
		Params:      bank.Params{"a": a, "b": b},
	}, true
}

var circleCircumference = template{name: "circle_circumference", build: buildCircumference}

func buildCircumference(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	rad := r.IntRange(1, 10*level(d))
	c := 2 * piApprox * float64(rad)
	cands := []float64{
		piApprox * float64(rad),
		piApprox * float64(rad*rad),
		2 * piApprox * float64(rad+1),
		4 * piApprox * float64(rad),
	}
	return draft{
		Question:    fmt.Sprintf("A circle has a radius of %d units. Using 3.14 for pi, what is its circumference?", rad),
		Explanation: fmt.Sprintf("Circumference = 2 x pi x r = 2 x 3.14 x %d = %s units.", rad, formatNumber(c)),
		Correct:     formatNumber(c),
		Distractors: numericDistractors(r, c, cands, piApprox, true, formatNumber),
		Visual:      svg("circle", bank.Params{"r": rad}),
		Params:      bank.Params{"r": rad, "pi": piApprox},
	}, true
}

var arcLength = template{name: "arc_length", build: buildArc}

func buildArc(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	angles := []int{30, 45, 60, 90, 120, 180}
	if d != bank.DifficultyEasy {
		angles = append(angles, 36, 72, 135, 150, 210, 240, 270, 300)
	}
	angle := rng.Choice(r, angles)
	rad := r.IntRange(2, 8*level(d))
	arc := float64(angle) / 360 * 2 * piApprox * float64(rad)

	cands := []float64{
		2 * piApprox * float64(rad),
		float64(angle) / 360 * piApprox * float64(rad),
		float64(angle) / 360 * piApprox * float64(rad*rad),
		arc + 1,
		arc * 2,
	}
	return draft{
		Question: fmt.Sprintf("In a circle with radius %d, a central angle of %d degrees intercepts an arc. Using 3.14 for pi, what is the length of the arc?",
			rad, angle),
		Explanation: fmt.Sprintf("Arc length = (angle / 360) x 2 x pi x r = (%d / 360) x 2 x 3.14 x %d = %s.", angle, rad, formatNumber(arc)),
		Correct:     formatNumber(arc),
		Distractors: numericDistractors(r, arc, cands, 1, true, formatNumber),
		Visual:      svg("arc", bank.Params{"r": rad, "angle": angle}),
		Params:      bank.Params{"r": rad, "angle": angle, "pi": piApprox},
	}, true
}

var cylinderVolume = template{name: "cylinder_volume", build: buildCylinder}

func buildCylinder(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	rad := r.IntRange(1, 4*level(d))
	h := r.IntRange(2, 6*level(d))
	v := piApprox * float64(rad*rad*h)

	cands := []float64{
		2 * piApprox * float64(rad*h),
		piApprox * float64(rad*h),
		v / 3,
		piApprox * float64(rad*rad*(h+1)),
		v * 2,
	}
	return draft{
		Question: fmt.Sprintf("A cylinder has a radius of %d inches and a height of %d inches. Using 3.14 for pi, what is its volume, in cubic inches?",
			rad, h),
		Explanation: fmt.Sprintf("Volume = pi x r^2 x h = 3.14 x %d^2 x %d = %s cubic inches.", rad, h, formatNumber(v)),
		Correct:     formatNumber(v),
		Distractors: numericDistractors(r, v, cands, piApprox, true, formatNumber),
		Visual:      svg("cylinder", bank.Params{"r": rad, "h": h}),
		Params:      bank.Params{"r": rad, "h": h, "pi": piApprox},
	}, true
}

var coordinateDistance = template{name: "coordinate_distance", build: buildDistance}

func buildDistance(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	var dx, dy int
	if d == bank.DifficultyHard {
		dx, dy = r.IntRange(1, 12), r.IntRange(1, 12)
	} else {
		t := rng.Choice(r, pythagoreanTriples[:2*level(d)])
		dx, dy = t[0], t[1]
	}
	if r.Float() < 0.5 {
		dx = -dx
	}
	if r.Float() < 0.5 {
		dy = -dy
	}
	span := 5 * level(d)
	x1, y1 := r.IntRange(-span, span), r.IntRange(-span, span)
	x2, y2 := x1+dx, y1+dy
	dist := math.Hypot(float64(dx), float64(dy))

	cands := []float64{
		math.Abs(float64(dx)) + math.Abs(float64(dy)),
		float64(dx*dx + dy*dy),
		dist + 1, dist - 1, dist + 2,
	}
	return draft{
		Question:    fmt.Sprintf("What is the distance between the points (%d, %d) and (%d, %d) in the xy-plane?", x1, y1, x2, y2),
		Explanation: fmt.Sprintf("Distance = sqrt((%d)^2 + (%d)^2) = sqrt(%d) = %s.", dx, dy, dx*dx+dy*dy, formatNumber(dist)),
		Correct:     formatNumber(dist),
		Distractors: numericDistractors(r, dist, cands, 1, true, formatNumber),
		Visual:      svg("coordinate_plane", bank.Params{"x1": x1, "y1": y1, "x2": x2, "y2": y2}),
		Params:      bank.Params{"x1": x1, "y1": y1, "x2": x2, "y2": y2},
	}, true
}
