package bank

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geometryQuestion(id string, v *Visual) Question {
	q := validQuestion(id)
	q.Topic = TopicGeometry
	q.Question = "A rectangle has a width of 8 cm and a height of 5 cm. What is its area?"
	q.Choices = []string{"40", "13", "26", "45"}
	q.Visual = v
	return q
}

func TestBuild_Groups(t *testing.T) {
	hard := validQuestion("alg-hard")
	hard.Difficulty = DifficultyHard
	hard.Question = "If 5x - 3 = 22, what is x?"
	reading := validQuestion("read-1")
	reading.Section = SectionReading
	reading.Topic = TopicGrammar
	reading.Question = "Which choice completes the text?"
	reading.Choices = []string{"is", "are", "being", "to be"}

	b, issues := Build([]Question{validQuestion("alg-easy"), hard, reading}, LoaderOptions{})

	assert.Empty(t, issues)
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []Section{SectionMath, SectionReading}, b.Sections())
	assert.Equal(t, []string{TopicAlgebra}, b.Topics(SectionMath))
	assert.Equal(t, []Difficulty{DifficultyEasy, DifficultyHard}, b.Difficulties(SectionMath, TopicAlgebra))
	qs := b.Questions(SectionMath, TopicAlgebra, DifficultyHard)
	require.Len(t, qs, 1)
	assert.Equal(t, "alg-hard", qs[0].ID)
}

func TestBuild_DropsMalformed(t *testing.T) {
	bad := validQuestion("bad")
	bad.Choices = []string{"1", "2"}

	b, issues := Build([]Question{bad, validQuestion("good")}, LoaderOptions{})

	assert.Equal(t, 1, b.Len())
	require.Len(t, issues, 1)
	assert.Equal(t, CodeChoiceCount, issues[0].Code)
	assert.Equal(t, "dropped", issues[0].Context["action"])
}

func TestBuild_SkipsLaterDuplicate(t *testing.T) {
	dup := validQuestion("second")
	dup.Question = "if 3x + 7 = 22, WHAT is x?"

	b, issues := Build([]Question{validQuestion("first"), dup}, LoaderOptions{})

	assert.Equal(t, 1, b.Len())
	require.Len(t, issues, 1)
	assert.Equal(t, CodeDuplicate, issues[0].Code)
	assert.Equal(t, LevelWarn, issues[0].Level)
	assert.Equal(t, "first", b.Questions(SectionMath, TopicAlgebra, DifficultyEasy)[0].ID)
}

func TestBuild_MissingVisual(t *testing.T) {
	q := geometryQuestion("g1", nil)

	b, issues := Build([]Question{q}, LoaderOptions{})
	assert.Equal(t, 1, b.Len(), "kept degraded")
	assert.Equal(t, []string{CodeVisualMissing}, issueCodes(issues))

	b, issues = Build([]Question{q}, LoaderOptions{RequireVisual: true})
	assert.Equal(t, 0, b.Len())
	require.Len(t, issues, 1)
	assert.Equal(t, "dropped", issues[0].Context["action"])
}

func TestBuild_WrongVisualKind(t *testing.T) {
	q := geometryQuestion("g1", &Visual{Type: VisualChart, ChartType: "bar"})

	_, issues := Build([]Question{q}, LoaderOptions{})
	assert.Equal(t, []string{CodeVisualKind}, issueCodes(issues))
}

func TestBank_QuestionsReturnsCopy(t *testing.T) {
	b, _ := Build([]Question{validQuestion("a")}, LoaderOptions{})

	qs := b.Questions(SectionMath, TopicAlgebra, DifficultyEasy)
	qs[0].ID = "changed"
	assert.Equal(t, "a", b.Questions(SectionMath, TopicAlgebra, DifficultyEasy)[0].ID)
}

func TestBank_NilSafe(t *testing.T) {
	var b *Bank
	assert.Equal(t, 0, b.Len())
	assert.Nil(t, b.Sections())
	data, err := b.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestBank_MarshalJSON(t *testing.T) {
	b, _ := Build([]Question{validQuestion("a")}, LoaderOptions{})

	data, err := json.Marshal(b)
	require.NoError(t, err)
	var got map[string]map[string]map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got["math"]["Algebra"]["easy"], 1)
	assert.Equal(t, "a", got["math"]["Algebra"]["easy"][0]["id"])
}
