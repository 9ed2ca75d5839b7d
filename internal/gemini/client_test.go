package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestions(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		payload := `{"questions":[
			{"skill":"go","question":"What does a nil map lookup return?","options":["the zero value","a panic","an error","nil pointer"],"answer":"the zero value"},
			{"skill":"sql","question":"Which clause filters grouped rows?","options":["WHERE","HAVING"],"answer":"HAVING"}
		]}`

		questions, err := parseQuestions(payload)
		require.NoError(t, err)
		require.Len(t, questions, 2)
		assert.Equal(t, "go", questions[0].Skill)
		assert.Equal(t, "HAVING", questions[1].Answer)
	})

	t.Run("json wrapped in markdown fences", func(t *testing.T) {
		payload := "Here you go:\n```json\n{\"questions\":[{\"skill\":\"go\",\"question\":\"Q?\",\"options\":[\"a\",\"b\"],\"answer\":\"a\"}]}\n```"
		questions, err := parseQuestions(payload)
		require.NoError(t, err)
		assert.Len(t, questions, 1)
	})

	t.Run("answer differing only by case is normalised", func(t *testing.T) {
		payload := `{"questions":[{"skill":"go","question":"Q?","options":["Goroutine","Channel"],"answer":"goroutine"}]}`
		questions, err := parseQuestions(payload)
		require.NoError(t, err)
		require.Len(t, questions, 1)
		assert.Equal(t, "Goroutine", questions[0].Answer)
	})

	t.Run("invalid questions are dropped", func(t *testing.T) {
		payload := `{"questions":[
			{"skill":"go","question":"","options":["a","b"],"answer":"a"},
			{"skill":"go","question":"Q?","options":["only one"],"answer":"only one"},
			{"skill":"go","question":"Q?","options":["a","b"],"answer":"c"},
			{"skill":"go","question":"Keeper?","options":["a","b"],"answer":"b"}
		]}`
		questions, err := parseQuestions(payload)
		require.NoError(t, err)
		require.Len(t, questions, 1)
		assert.Equal(t, "Keeper?", questions[0].Question)
	})

	t.Run("all questions invalid", func(t *testing.T) {
		payload := `{"questions":[{"skill":"go","question":"Q?","options":["a","b"],"answer":"z"}]}`
		_, err := parseQuestions(payload)
		assert.Error(t, err)
	})

	t.Run("empty question list", func(t *testing.T) {
		_, err := parseQuestions(`{"questions":[]}`)
		assert.Error(t, err)
	})

	t.Run("unparseable payload", func(t *testing.T) {
		_, err := parseQuestions("the model refused")
		assert.Error(t, err)
	})
}

func TestExtractJSONFromMarkdown(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSONFromMarkdown("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSONFromMarkdown("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSONFromMarkdown(`prefix {"a":1} suffix`))
	assert.Equal(t, "no json here", extractJSONFromMarkdown("no json here"))
}

func TestSerialiseSkills(t *testing.T) {
	assert.Equal(t, "go, sql", serialiseSkills([]string{" sql", "go", "go", " "}))
	assert.Equal(t, "", serialiseSkills(nil))
}
