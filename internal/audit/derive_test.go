package audit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/bank"
)

func templated(topic, template, question string, params bank.Params, visual *bank.Visual, choices []string) bank.Question {
	return bank.Question{
		ID:          "t-" + template,
		Section:     bank.SectionMath,
		Topic:       topic,
		Difficulty:  bank.DifficultyMedium,
		Question:    question,
		Choices:     choices,
		Explanation: "Worked solution.",
		Visual:      visual,
		Meta:        &bank.Meta{Template: template, Params: params},
	}
}

func surveyTable() *bank.Visual {
	return &bank.Visual{
		Type:    bank.VisualTable,
		Headers: []string{"Group", "Math", "Science", "Total"},
		Rows: [][]string{
			{"Female", "6", "6", "12"},
			{"Male", "4", "8", "12"},
		},
	}
}

// answerCodes keeps the issues raised by the answer check.
func answerCodes(issues []bank.Issue) []string {
	var out []string
	for _, is := range issues {
		switch is.Code {
		case bank.CodeAnswerMismatch, bank.CodeUnvalidated, bank.CodeParamConflict:
			out = append(out, is.Code)
		}
	}
	return out
}

func TestAnswerCheck_Derivations(t *testing.T) {
	tests := []struct {
		name    string
		q       bank.Question
		correct int
		wrong   int
	}{
		{
			name: "quadratic greater root",
			q: templated(bank.TopicAdvancedMath, "quadratic_root", "What is the greater solution of x^2 - 5x + 6 = 0?",
				bank.Params{"a": 1, "b": -5, "c": 6}, nil, []string{"3", "2", "-3", "5"}),
			correct: 0, wrong: 1,
		},
		{
			name: "percent change",
			q: templated(bank.TopicProblemSolving, "percent_change", "A price changed from 80 to 100. What was the percent change?",
				bank.Params{"old": 80, "new": 100}, nil, []string{"20%", "25%", "-25%", "30%"}),
			correct: 1, wrong: 0,
		},
		{
			name: "arc length",
			q: templated(bank.TopicGeometry, "arc_length", "In a circle with radius 6, a central angle of 90 degrees intercepts an arc.",
				bank.Params{"r": 6, "angle": 90, "pi": 3.14},
				&bank.Visual{Type: bank.VisualSVG, Shape: "arc", Params: bank.Params{"r": 6, "angle": 90}},
				[]string{"18.84", "4.71", "9.42", "28.26"}),
			correct: 2, wrong: 0,
		},
		{
			name: "cylinder volume",
			q: templated(bank.TopicGeometry, "cylinder_volume", "A cylinder has a radius of 2 and a height of 5.",
				bank.Params{"r": 2, "h": 5, "pi": 3.14},
				&bank.Visual{Type: bank.VisualSVG, Shape: "cylinder", Params: bank.Params{"r": 2, "h": 5}},
				[]string{"31.4", "62.8", "20.93", "125.6"}),
			correct: 1, wrong: 3,
		},
		{
			name: "table fraction from params",
			q: templated(bank.TopicDataAnalysis, "table_fraction", "According to the table, what fraction?",
				bank.Params{"row": "Female", "column": "Math"}, surveyTable(), []string{"1/3", "1/2", "2/3", "1/4"}),
			correct: 1, wrong: 0,
		},
		{
			name: "table fraction from question text, unreduced choice",
			q: templated(bank.TopicDataAnalysis, "table_fraction", "What fraction of female students prefer Math?",
				nil, surveyTable(), []string{"2/4", "1/3", "2/3", "1/4"}),
			correct: 0, wrong: 1,
		},
		{
			name: "table fraction worded with preferring",
			q: templated(bank.TopicDataAnalysis, "table_fraction", "Find the fraction of the male students preferring Science.",
				nil, surveyTable(), []string{"1/3", "2/3", "1/2", "8/24"}),
			correct: 1, wrong: 0,
		},
		{
			name: "r value under strong positive",
			q: templated(bank.TopicDataAnalysis, "correlation_r_value",
				"The scatter plot shows a strong positive correlation. Which value is closest to r?",
				nil, nil, []string{"0.35", "0.92", "-0.88", "0.05"}),
			correct: 1, wrong: 0,
		},
		{
			name: "r value under strong negative",
			q: templated(bank.TopicDataAnalysis, "correlation_r_value",
				"The scatter plot shows a strong negative correlation. Which value is closest to r?",
				bank.Params{"direction": "negative"}, nil, []string{"0.35", "0.92", "-0.88", "0.05"}),
			correct: 2, wrong: 3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			good := tc.q
			good.AnswerIndex = tc.correct
			assert.Empty(t, answerCodes(Run([]bank.Question{good}, auditOpts()).Issues))

			bad := tc.q
			bad.AnswerIndex = tc.wrong
			assert.Equal(t, []string{bank.CodeAnswerMismatch}, answerCodes(Run([]bank.Question{bad}, auditOpts()).Issues))
		})
	}
}

func TestDerive_TableFractionQuestionWording(t *testing.T) {
	for _, question := range []string{
		"What fraction of the female students chose Math?",
		"What fraction of female students prefer Math?",
		"What fraction of female students prefers Math?",
		"What fraction of female students who preferred Math?",
		"Give the fraction of female students preferring Math",
	} {
		q := templated(bank.TopicDataAnalysis, "table_fraction", question, nil, surveyTable(), []string{"1/2", "1/3", "2/3", "1/4"})
		exp, err := Derive(&q)
		require.NoError(t, err, question)
		assert.Equal(t, "1/2", exp.String(), question)
	}
}

func TestDerive_TableFractionUnknownWording(t *testing.T) {
	q := templated(bank.TopicDataAnalysis, "table_fraction", "Which share of the group likes Math?", nil, surveyTable(),
		[]string{"1/2", "1/3", "2/3", "1/4"})
	_, err := Derive(&q)
	assert.True(t, errors.Is(err, ErrNotValidatable))
}

func TestDerive_RValueDirectionConflict(t *testing.T) {
	q := templated(bank.TopicDataAnalysis, "correlation_r_value",
		"The scatter plot shows a strong negative correlation. Which value is closest to r?",
		bank.Params{"direction": "positive"}, nil, []string{"0.35", "0.92", "-0.88", "0.05"})

	_, err := Derive(&q)
	assert.True(t, errors.Is(err, ErrInconsistent))

	q.AnswerIndex = 1
	issues := Run([]bank.Question{q}, auditOpts()).Issues
	require.Equal(t, []string{bank.CodeParamConflict}, answerCodes(issues))
	for _, is := range issues {
		if is.Code == bank.CodeParamConflict {
			assert.Equal(t, bank.LevelError, is.Level)
		}
	}
}

func TestExpected_FractionMatches(t *testing.T) {
	exp := Expected{Kind: ExpectFraction, Num: 1, Den: 2}

	assert.True(t, exp.Matches("1/2", DefaultTolerance))
	assert.True(t, exp.Matches("2/4", DefaultTolerance))
	assert.True(t, exp.Matches("0.5", DefaultTolerance))
	assert.False(t, exp.Matches("1/3", DefaultTolerance))
	assert.False(t, exp.Matches("half", DefaultTolerance))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{"25%", 25, true},
		{"-12.5%", -12.5, true},
		{"$5", 5, true},
		{"-$5", -5, true},
		{"1,200", 1200, true},
		{"$1,200.50", 1200.5, true},
		{"3/4", 0.75, true},
		{"-3/4", -0.75, true},
		{"−2", -2, true},
		{"12 cm", 12, true},
		{"1/0", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseNumber(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.InDelta(t, tc.want, got, 1e-9)
			}
		})
	}
}
