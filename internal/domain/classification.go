package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidClassification reports a classifier result that does not match
// the expected schema.
var ErrInvalidClassification = errors.New("invalid classification")

// Topic groups resources in the library. The taxonomy is open-ended.
type Topic string

const (
	TopicString        Topic = "String"
	TopicArray         Topic = "Array"
	TopicSystemDesign  Topic = "System Design"
	TopicReact         Topic = "React"
	TopicCSS           Topic = "CSS"
	TopicGeneral       Topic = "General"
	TopicUncategorized Topic = "Uncategorized"
)

// KnownTopics lists the topics the classifier is asked to choose from.
var KnownTopics = []Topic{TopicString, TopicArray, TopicSystemDesign, TopicReact, TopicCSS, TopicGeneral}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

type ContentType string

const (
	ContentVideo         ContentType = "Video"
	ContentArticle       ContentType = "Article"
	ContentDocumentation ContentType = "Documentation"
	ContentCourse        ContentType = "Course"
)

var ContentTypes = []ContentType{ContentVideo, ContentArticle, ContentDocumentation, ContentCourse}

// Classification is the structured answer produced by the classifier.
type Classification struct {
	Topic       Topic       `json:"topic"`
	Difficulty  Difficulty  `json:"difficulty"`
	Summary     string      `json:"summary"`
	Tags        []string    `json:"tags"`
	ContentType ContentType `json:"content_type"`
}

// Normalize checks presence and enum membership of the classification fields
// and returns a copy with canonical spelling.
//
// Topic, difficulty and content type are required. Difficulty and content type
// must belong to their enumerations (case-insensitive). Topics outside the
// known taxonomy pass through trimmed.
func (c Classification) Normalize() (Classification, error) {
	topic := strings.TrimSpace(string(c.Topic))
	if topic == "" {
		return Classification{}, fmt.Errorf("%w: missing topic", ErrInvalidClassification)
	}
	if known, ok := matchFold(topic, KnownTopics); ok {
		topic = string(known)
	}

	difficulty, ok := matchFold(strings.TrimSpace(string(c.Difficulty)), Difficulties)
	if !ok {
		return Classification{}, fmt.Errorf("%w: difficulty %q", ErrInvalidClassification, c.Difficulty)
	}

	contentType, ok := matchFold(strings.TrimSpace(string(c.ContentType)), ContentTypes)
	if !ok {
		return Classification{}, fmt.Errorf("%w: content_type %q", ErrInvalidClassification, c.ContentType)
	}

	tags := make([]string, 0, len(c.Tags))
	for _, tag := range c.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return Classification{
		Topic:       Topic(topic),
		Difficulty:  difficulty,
		Summary:     strings.TrimSpace(c.Summary),
		Tags:        tags,
		ContentType: contentType,
	}, nil
}

func matchFold[T ~string](v string, values []T) (T, bool) {
	for _, candidate := range values {
		if strings.EqualFold(v, string(candidate)) {
			return candidate, true
		}
	}
	var zero T
	return zero, false
}
