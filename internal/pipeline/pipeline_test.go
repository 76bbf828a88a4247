package pipeline

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curator/internal/classifier"
	"curator/internal/domain"
)

type stubResolver struct {
	meta  domain.Metadata
	calls int
}

func (r *stubResolver) Resolve(ctx context.Context, url string) domain.Metadata {
	r.calls++
	return r.meta
}

type stubModel struct{ text string }

func (m stubModel) Generate(ctx context.Context, prompt string) (string, error) {
	return m.text, nil
}

type errClassifier struct{ err error }

func (c errClassifier) Classify(ctx context.Context, title string, kind domain.Kind) (domain.Classification, error) {
	return domain.Classification{}, c.err
}

// memoryRepo records inserts in memory.
type memoryRepo struct {
	inserted  []domain.Resource
	insertErr error
}

func (m *memoryRepo) Insert(ctx context.Context, r *domain.Resource) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	r.ID = "generated-id"
	m.inserted = append(m.inserted, *r)
	return nil
}

func (m *memoryRepo) List(ctx context.Context, userID string) ([]domain.Resource, error) {
	return m.inserted, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id string) error { return nil }
func (m *memoryRepo) Close() error                                { return nil }

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestIngest_MissingURL(t *testing.T) {
	resolver := &stubResolver{}
	repo := &memoryRepo{}
	svc := New(resolver, errClassifier{}, repo, quietLogger())

	for _, url := range []string{"", "   "} {
		_, err := svc.Ingest(context.Background(), url, "user-1")
		require.ErrorIs(t, err, ErrMissingURL)
		assert.Equal(t, "URL is missing", err.Error())
	}
	assert.Zero(t, resolver.calls, "no network call before validation")
	assert.Empty(t, repo.inserted)
}

func TestIngest_VideoScenario(t *testing.T) {
	thumb := "http://img"
	resolver := &stubResolver{meta: domain.Metadata{Title: "Intro to Arrays", Thumbnail: &thumb, Kind: domain.KindVideo}}
	model := stubModel{text: `{"topic":"Array","difficulty":"Easy","summary":"Basics of array data structure","tags":["arrays","basics"],"content_type":"Video"}`}
	repo := &memoryRepo{}
	svc := New(resolver, classifier.New(model, quietLogger()), repo, quietLogger())

	got, err := svc.Ingest(context.Background(), "https://youtu.be/abc123", "user-1")
	require.NoError(t, err)

	require.Len(t, repo.inserted, 1)
	row := repo.inserted[0]
	assert.Equal(t, "generated-id", got.ID)
	assert.Equal(t, domain.StatusCompleted, row.Status)
	assert.Equal(t, "https://youtu.be/abc123", row.URL)
	assert.Equal(t, "user-1", row.UserID)
	assert.Equal(t, "Intro to Arrays", row.Title)
	require.NotNil(t, row.Thumbnail)
	assert.Equal(t, "http://img", *row.Thumbnail)
	assert.Equal(t, domain.TopicArray, row.Topic)
	assert.Equal(t, domain.DifficultyEasy, row.Difficulty)
	assert.Equal(t, "Basics of array data structure", row.Summary)
	assert.Equal(t, []string{"arrays", "basics"}, row.Tags)
	assert.Equal(t, domain.ContentVideo, row.ContentType)
}

func TestIngest_ClassifierNonJSON(t *testing.T) {
	resolver := &stubResolver{meta: domain.Metadata{Title: "x", Kind: domain.KindLink}}
	repo := &memoryRepo{}
	svc := New(resolver, classifier.New(stubModel{text: "not json at all"}, quietLogger()), repo, quietLogger())

	_, err := svc.Ingest(context.Background(), "https://example.com", "user-1")
	require.Error(t, err)
	assert.Empty(t, repo.inserted)
}

func TestIngest_ClassifierError(t *testing.T) {
	sentinel := errors.New("model unavailable")
	repo := &memoryRepo{}
	svc := New(&stubResolver{}, errClassifier{err: sentinel}, repo, quietLogger())

	_, err := svc.Ingest(context.Background(), "https://example.com", "user-1")
	assert.ErrorIs(t, err, sentinel)
	assert.Empty(t, repo.inserted)
}

func TestIngest_InvalidClassificationIsRejected(t *testing.T) {
	repo := &memoryRepo{}
	model := stubModel{text: `{"topic":"Array","difficulty":"Impossible","content_type":"Video"}`}
	svc := New(&stubResolver{}, classifier.New(model, quietLogger()), repo, quietLogger())

	_, err := svc.Ingest(context.Background(), "https://example.com", "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidClassification)
	assert.Empty(t, repo.inserted)
}

func TestIngest_PersistenceError(t *testing.T) {
	repo := &memoryRepo{insertErr: errors.New("connection reset")}
	model := stubModel{text: `{"topic":"CSS","difficulty":"Easy","content_type":"Article"}`}
	svc := New(&stubResolver{}, classifier.New(model, quietLogger()), repo, quietLogger())

	_, err := svc.Ingest(context.Background(), "https://example.com", "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
