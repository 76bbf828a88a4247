package domain

import "time"

// StatusCompleted is the only status a stored resource ever carries.
const StatusCompleted = "completed"

// Kind is the resolver's guess at what a URL points to.
type Kind string

const (
	KindVideo   Kind = "video"
	KindArticle Kind = "article"
	KindLink    Kind = "link"
)

// Metadata is the best-effort display information resolved for a URL.
type Metadata struct {
	Title string `json:"title"`

	// Thumbnail is nil when no image could be resolved.
	Thumbnail *string `json:"thumbnail"`

	Kind Kind `json:"kind"`
}

// Resource represents one classified, saved link.
// Rows are written once and never updated afterwards.
type Resource struct {
	// ID is assigned by the storage layer.
	ID string `json:"id"`

	// UserID is the opaque owner reference (an anonymous session id).
	UserID string `json:"user_id"`

	// URL is the link exactly as submitted.
	URL string `json:"url"`

	Title     string  `json:"title"`
	Thumbnail *string `json:"thumbnail"`

	Topic       Topic       `json:"topic"`
	Difficulty  Difficulty  `json:"difficulty"`
	Summary     string      `json:"summary"`
	Tags        []string    `json:"tags"`
	ContentType ContentType `json:"content_type"`

	Status string `json:"status"`

	// CreatedAt is assigned at insertion.
	CreatedAt time.Time `json:"created_at"`
}

// NewResource builds the record written by the ingestion pipeline.
// The classification is validated and normalized first; an invalid one
// yields ErrInvalidClassification and no record.
func NewResource(userID, url string, meta Metadata, c Classification) (Resource, error) {
	norm, err := c.Normalize()
	if err != nil {
		return Resource{}, err
	}
	return Resource{
		UserID:      userID,
		URL:         url,
		Title:       meta.Title,
		Thumbnail:   meta.Thumbnail,
		Topic:       norm.Topic,
		Difficulty:  norm.Difficulty,
		Summary:     norm.Summary,
		Tags:        norm.Tags,
		ContentType: norm.ContentType,
		Status:      StatusCompleted,
	}, nil
}
