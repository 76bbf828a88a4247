package classifier

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curator/internal/domain"
)

type fakeModel struct {
	text    string
	err     error
	prompts []string
}

func (m *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.text, m.err
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

const arraysJSON = `{"topic":"Array","difficulty":"Easy","summary":"Basics of array data structure","tags":["arrays","basics"],"content_type":"Video"}`

func TestParse_FencedAndBareAreIdentical(t *testing.T) {
	bare, err := Parse(arraysJSON)
	require.NoError(t, err)

	for _, fenced := range []string{
		"```json\n" + arraysJSON + "\n```",
		"```\n" + arraysJSON + "\n```",
		"  \n```json" + arraysJSON + "```\n\n",
	} {
		got, err := Parse(fenced)
		require.NoError(t, err, fenced)
		assert.Equal(t, bare, got)
	}

	assert.Equal(t, domain.Classification{
		Topic:       "Array",
		Difficulty:  "Easy",
		Summary:     "Basics of array data structure",
		Tags:        []string{"arrays", "basics"},
		ContentType: "Video",
	}, bare)
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "prose", text: "I think this is about arrays."},
		{name: "empty", text: ""},
		{name: "only fences", text: "```json\n```"},
		{name: "truncated", text: `{"topic":"Array"`},
		{name: "two objects", text: arraysJSON + arraysJSON},
		{name: "wrong tag type", text: `{"topic":"Array","tags":"arrays"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			assert.Error(t, err)
		})
	}
}

func TestParse_IgnoresExtraFields(t *testing.T) {
	got, err := Parse(`{"topic":"CSS","difficulty":"Hard","content_type":"Article","confidence":0.9}`)
	require.NoError(t, err)
	assert.Equal(t, domain.Topic("CSS"), got.Topic)
}

func TestClassify(t *testing.T) {
	model := &fakeModel{text: "```json\n" + arraysJSON + "\n```"}
	c := New(model, quietLogger())

	got, err := c.Classify(context.Background(), "Intro to Arrays", domain.KindVideo)
	require.NoError(t, err)
	assert.Equal(t, domain.Topic("Array"), got.Topic)

	require.Len(t, model.prompts, 1, "exactly one model call")
	assert.Contains(t, model.prompts[0], `"Intro to Arrays"`)
	assert.Contains(t, model.prompts[0], "Resource Type hint: video.")
}

func TestClassify_ModelError(t *testing.T) {
	sentinel := errors.New("quota exceeded")
	c := New(&fakeModel{err: sentinel}, quietLogger())

	_, err := c.Classify(context.Background(), "x", domain.KindLink)
	assert.ErrorIs(t, err, sentinel)
}

func TestClassify_NonJSON(t *testing.T) {
	c := New(&fakeModel{text: "Sorry, I can't help with that."}, quietLogger())

	_, err := c.Classify(context.Background(), "x", domain.KindArticle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse classification")
}
