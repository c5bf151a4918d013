package bank

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestion(id string) Question {
	return Question{
		ID:          id,
		Section:     SectionMath,
		Topic:       TopicAlgebra,
		Difficulty:  DifficultyEasy,
		Question:    "If 3x + 7 = 22, what is x?",
		Choices:     []string{"5", "4", "6", "7"},
		AnswerIndex: 0,
		Explanation: "x = 5.",
		Meta:        &Meta{Template: "linear_equation", Params: Params{"a": 3, "b": 7, "c": 22}},
	}
}

func issueCodes(issues []Issue) []string {
	var out []string
	for _, i := range issues {
		out = append(out, i.Code)
	}
	return out
}

func TestCheckStructure(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *Question)
		codes  []string
	}{
		{"valid", func(q *Question) {}, nil},
		{"missing id", func(q *Question) { q.ID = " " }, []string{CodeMissingField}},
		{"bad section", func(q *Question) { q.Section = "science" }, []string{CodeInvalidSection}},
		{"bad difficulty", func(q *Question) { q.Difficulty = "expert" }, []string{CodeInvalidDifficulty}},
		{"three choices", func(q *Question) { q.Choices = q.Choices[:3] }, []string{CodeChoiceCount}},
		{"empty choice", func(q *Question) { q.Choices[2] = "  " }, []string{CodeChoiceInvalid}},
		{"same choice twice", func(q *Question) { q.Choices[3] = " 5" }, []string{CodeChoiceInvalid}},
		{"index out of range", func(q *Question) { q.AnswerIndex = 4 }, []string{CodeAnswerIndex}},
		{"negative index", func(q *Question) { q.AnswerIndex = -1 }, []string{CodeAnswerIndex}},
		{"no explanation", func(q *Question) { q.Explanation = "" }, []string{CodeMissingExpl}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion("a")
			tt.mutate(&q)
			assert.Equal(t, tt.codes, issueCodes(CheckStructure(&q)))
		})
	}
}

func TestMalformed_WarningsDoNotCount(t *testing.T) {
	q := validQuestion("a")
	q.Explanation = ""
	assert.False(t, Malformed(&q))
	q.AnswerIndex = 9
	assert.True(t, Malformed(&q))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "what is x?", Normalize("  What   IS\tx?\n"))
	// NFKC folds the full-width digit.
	assert.Equal(t, "x = 5", Normalize("x = ５"))
}

func TestAuditFingerprint(t *testing.T) {
	a := validQuestion("a")
	b := validQuestion("b")
	b.Question = "IF 3x + 7 = 22,   what is x?"
	assert.Equal(t, AuditFingerprint(&a), AuditFingerprint(&b), "id, case and spacing are ignored")

	c := validQuestion("c")
	c.Choices = []string{"4", "5", "6", "7"}
	assert.NotEqual(t, AuditFingerprint(&a), AuditFingerprint(&c), "choice order matters")

	d := validQuestion("d")
	d.Difficulty = DifficultyHard
	assert.NotEqual(t, AuditFingerprint(&a), AuditFingerprint(&d))

	e := validQuestion("e")
	e.Meta.Params = Params{"a": 3, "b": 7, "c": 23}
	assert.NotEqual(t, AuditFingerprint(&a), AuditFingerprint(&e))
}

func TestAuditFingerprint_StableAcrossJSON(t *testing.T) {
	a := validQuestion("a")
	data, err := json.Marshal(a)
	require.NoError(t, err)
	var b Question
	require.NoError(t, json.Unmarshal(data, &b))

	assert.Equal(t, AuditFingerprint(&a), AuditFingerprint(&b))
}

func TestLoaderFingerprint(t *testing.T) {
	a := validQuestion("a")
	b := validQuestion("b")
	b.Difficulty = DifficultyHard
	assert.Equal(t, LoaderFingerprint(&a), LoaderFingerprint(&b), "bucket is not part of the loader key")

	c := validQuestion("c")
	c.AnswerIndex = 1
	assert.NotEqual(t, LoaderFingerprint(&a), LoaderFingerprint(&c))
}

func TestQuestionAccessors(t *testing.T) {
	q := Question{}
	assert.True(t, q.IsManual())
	assert.NotNil(t, q.Params())
	assert.Equal(t, "", q.CorrectChoice())

	q.Meta = &Meta{Template: TemplateManual}
	assert.True(t, q.IsManual())

	q = validQuestion("a")
	assert.False(t, q.IsManual())
	assert.Equal(t, "5", q.CorrectChoice())
}

func TestParamsNum(t *testing.T) {
	p := Params{"f": 1.5, "i": 3, "s": " 2.5 ", "j": json.Number("4"), "word": "abc"}

	for key, want := range map[string]float64{"f": 1.5, "i": 3, "s": 2.5, "j": 4} {
		got, ok := p.Num(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	_, ok := p.Num("word")
	assert.False(t, ok)
	_, ok = p.Nums("f", "missing")
	assert.False(t, ok)
}

func TestVisualKind(t *testing.T) {
	var v *Visual
	assert.Equal(t, "none", v.Kind())
	assert.Equal(t, "svg/circle", (&Visual{Type: VisualSVG, Shape: "circle"}).Kind())
	assert.Equal(t, "chart/bar", (&Visual{Type: VisualChart, ChartType: "bar"}).Kind())
	assert.Equal(t, "table", (&Visual{Type: VisualTable}).Kind())
}

func TestAcceptsVisual(t *testing.T) {
	svg := &Visual{Type: VisualSVG, Shape: "rectangle"}
	chart := &Visual{Type: VisualChart, ChartType: "scatter"}
	table := &Visual{Type: VisualTable, Headers: []string{"Group", "A"}}

	assert.True(t, AcceptsVisual(TopicAlgebra, nil, PolicyStrict))
	assert.False(t, AcceptsVisual(TopicGeometry, nil, PolicyStrict))
	assert.True(t, AcceptsVisual(TopicGeometry, svg, PolicyStrict))
	assert.False(t, AcceptsVisual(TopicGeometry, chart, PolicyLegacy))
	assert.True(t, AcceptsVisual(TopicDataAnalysis, chart, PolicyStrict))
	assert.True(t, AcceptsVisual(TopicStatsAndProb, table, PolicyStrict))
	assert.False(t, AcceptsVisual(TopicDataAnalysis, &Visual{Type: VisualTable}, PolicyStrict))
	assert.False(t, AcceptsVisual(TopicDataAnalysis, svg, PolicyStrict))
	assert.True(t, AcceptsVisual(TopicDataAnalysis, svg, PolicyLegacy))
}

func TestCatalog(t *testing.T) {
	buckets := AllBuckets()
	require.Len(t, buckets, 30)
	assert.Equal(t, "math/Algebra/easy", buckets[0].String())
	assert.Equal(t, "reading/Rhetorical Skills/hard", buckets[29].String())
	assert.Equal(t, "data-analysis", Slug(TopicDataAnalysis))
	assert.Equal(t, "vocabulary-in-context", Slug(TopicVocabulary))
}
