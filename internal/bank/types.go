package bank

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Section is the SAT section a question belongs to.
type Section string

const (
	SectionMath    Section = "math"
	SectionReading Section = "reading"
)

// Valid reports whether s is a known section.
func (s Section) Valid() bool {
	return s == SectionMath || s == SectionReading
}

// Difficulty is the difficulty band of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties returns the difficulty bands in display order.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ChoiceCount is the number of options every question carries.
const ChoiceCount = 4

// Question is one record of a question list. It is the unit exchanged
// between the generator, the auditor and the UI.
type Question struct {
	ID          string     `json:"id"`
	Section     Section    `json:"section"`
	Topic       string     `json:"topic"`
	Difficulty  Difficulty `json:"difficulty"`
	Question    string     `json:"question"`
	Choices     []string   `json:"choices"`
	AnswerIndex int        `json:"answerIndex"`
	Explanation string     `json:"explanation"`
	Visual      *Visual    `json:"visual,omitempty"`

	// Reading items may carry a passage, an underlined span and a
	// choice-mode hint for the UI.
	Passage    string `json:"passage,omitempty"`
	Underline  string `json:"underline,omitempty"`
	ChoiceMode string `json:"choiceMode,omitempty"`

	Meta *Meta `json:"meta,omitempty"`
}

// Template returns the generator template name, or "" for records
// without metadata.
func (q *Question) Template() string {
	if q.Meta == nil {
		return ""
	}
	return q.Meta.Template
}

// Params returns the template parameters, never nil.
func (q *Question) Params() Params {
	if q.Meta == nil || q.Meta.Params == nil {
		return Params{}
	}
	return q.Meta.Params
}

// IsManual reports whether the record was hand-authored. Manual records
// are not answer-checked.
func (q *Question) IsManual() bool {
	t := q.Template()
	return t == "" || t == TemplateManual
}

// CorrectChoice returns the text at AnswerIndex, or "" when the index is
// out of range.
func (q *Question) CorrectChoice() string {
	if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Choices) {
		return ""
	}
	return q.Choices[q.AnswerIndex]
}

// TemplateManual marks hand-authored records.
const TemplateManual = "manual"

// Meta records how a question was generated.
type Meta struct {
	Template string `json:"template,omitempty"`
	Params   Params `json:"params,omitempty"`
}

// Visual types.
const (
	VisualSVG   = "svg"
	VisualChart = "chart"
	VisualTable = "table"
)

// Visual describes the figure attached to a question. Which fields are
// populated depends on Type.
type Visual struct {
	Type string `json:"type"`

	// svg
	Shape  string `json:"shape,omitempty"`
	Params Params `json:"params,omitempty"`

	// chart
	ChartType string         `json:"chartType,omitempty"`
	Data      []DataPoint    `json:"data,omitempty"`
	Config    map[string]any `json:"config,omitempty"`

	// table
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
	Caption string     `json:"caption,omitempty"`
}

// Kind is a short descriptor such as "svg/rectangle", "chart/bar" or
// "table". It returns "none" for a nil visual.
func (v *Visual) Kind() string {
	if v == nil {
		return "none"
	}
	switch {
	case v.Shape != "":
		return v.Type + "/" + v.Shape
	case v.ChartType != "":
		return v.Type + "/" + v.ChartType
	default:
		return v.Type
	}
}

// Subtype returns the shape for svg visuals and the chart type for charts.
func (v *Visual) Subtype() string {
	if v == nil {
		return ""
	}
	if v.Shape != "" {
		return v.Shape
	}
	return v.ChartType
}

// DataPoint is one chart datum. Bar charts use Label and Y; scatter plots
// use X and Y.
type DataPoint struct {
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Params holds template or figure parameters. Values are numbers or
// strings; after a JSON round trip numbers are float64.
type Params map[string]any

// Num returns the numeric value stored under key.
func (p Params) Num(key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// Nums returns the values for all keys, or false if any is missing.
func (p Params) Nums(keys ...string) ([]float64, bool) {
	out := make([]float64, len(keys))
	for i, k := range keys {
		v, ok := p.Num(k)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// Str returns the string value stored under key.
func (p Params) Str(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}
