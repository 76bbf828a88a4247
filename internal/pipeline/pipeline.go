// Package pipeline runs the resolve → classify → insert chain for one
// submitted URL.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"curator/internal/domain"
	"curator/internal/storage"
)

// ErrMissingURL is returned when ingestion is called without a URL.
var ErrMissingURL = errors.New("URL is missing")

// MetadataResolver turns a URL into display metadata. It never fails.
type MetadataResolver interface {
	Resolve(ctx context.Context, url string) domain.Metadata
}

// Classifier turns a title and kind hint into a classification.
type Classifier interface {
	Classify(ctx context.Context, title string, kind domain.Kind) (domain.Classification, error)
}

// Service is the ingestion pipeline. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	resolver   MetadataResolver
	classifier Classifier
	repo       storage.Repository
	log        logrus.FieldLogger
}

func New(resolver MetadataResolver, classifier Classifier, repo storage.Repository, logger logrus.FieldLogger) *Service {
	return &Service{
		resolver:   resolver,
		classifier: classifier,
		repo:       repo,
		log:        logger.WithField("component", "pipeline"),
	}
}

// Ingest resolves, classifies and stores url for userID. Steps run strictly
// in sequence; nothing is written unless every earlier step succeeded, and
// exactly one row is written on success.
func (s *Service) Ingest(ctx context.Context, url, userID string) (domain.Resource, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return domain.Resource{}, ErrMissingURL
	}
	log := s.log.WithFields(logrus.Fields{"url": url, "user_id": userID})

	meta := s.resolver.Resolve(ctx, url)
	log.WithFields(logrus.Fields{"title": meta.Title, "kind": meta.Kind}).Info("Metadata found")

	analysis, err := s.classifier.Classify(ctx, meta.Title, meta.Kind)
	if err != nil {
		return domain.Resource{}, err
	}

	record, err := domain.NewResource(userID, url, meta, analysis)
	if err != nil {
		log.WithError(err).Warn("Classifier output rejected")
		return domain.Resource{}, err
	}

	if err := s.repo.Insert(ctx, &record); err != nil {
		return domain.Resource{}, fmt.Errorf("save resource: %w", err)
	}

	log.WithFields(logrus.Fields{"id": record.ID, "topic": record.Topic}).Info("Resource ingested")
	return record, nil
}
