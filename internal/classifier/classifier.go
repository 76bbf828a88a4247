package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"curator/internal/domain"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// Model is a generative text model invoked with a single prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Classifier asks a Model to classify a resource title.
type Classifier struct {
	model Model
	log   logrus.FieldLogger
}

func New(model Model, logger logrus.FieldLogger) *Classifier {
	return &Classifier{
		model: model,
		log:   logger.WithField("component", "classifier"),
	}
}

const promptTemplate = `
Analyze this coding resource: %q.
Resource Type hint: %s.

Return ONLY a raw JSON object (no markdown) with this schema:
{
  "topic": "String | Array | System Design | React | CSS | General",
  "difficulty": "Easy | Medium | Hard",
  "summary": "10-word summary",
  "tags": ["tag1", "tag2"],
  "content_type": "Video | Article | Documentation | Course"
}
`

// BuildPrompt renders the classification prompt for a title and kind hint.
func BuildPrompt(title string, kind domain.Kind) string {
	return fmt.Sprintf(promptTemplate, title, kind)
}

// Classify runs one synchronous model call and parses its answer. The result
// is decoded but not yet validated against the enumerations; see
// domain.Classification.Normalize.
func (c *Classifier) Classify(ctx context.Context, title string, kind domain.Kind) (domain.Classification, error) {
	log := c.log.WithFields(logrus.Fields{"title": title, "kind": kind})

	text, err := c.model.Generate(ctx, BuildPrompt(title, kind))
	if err != nil {
		log.WithError(err).Error("Model call failed")
		return domain.Classification{}, fmt.Errorf("classify: %w", err)
	}

	result, err := Parse(text)
	if err != nil {
		log.WithError(err).WithField("response", text).Warn("Unparsable model response")
		return domain.Classification{}, err
	}
	log.WithFields(logrus.Fields{"topic": result.Topic, "difficulty": result.Difficulty}).Info("Resource classified")
	return result, nil
}

// StripFences removes markdown code fence markers and surrounding whitespace.
func StripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// Parse decodes a model response into a Classification. Extra fields are
// ignored; trailing content after the object is rejected.
func Parse(text string) (domain.Classification, error) {
	clean := StripFences(text)
	if clean == "" {
		return domain.Classification{}, ErrEmptyResponse
	}

	dec := json.NewDecoder(strings.NewReader(clean))

	var result domain.Classification
	if err := dec.Decode(&result); err != nil {
		return domain.Classification{}, fmt.Errorf("parse classification: %w", err)
	}
	if dec.More() {
		return domain.Classification{}, fmt.Errorf("parse classification: unexpected data after JSON object")
	}
	return result, nil
}
