package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"curator/internal/domain"
)

// DefaultOEmbedEndpoint is the public noembed lookup service.
const DefaultOEmbedEndpoint = "https://noembed.com/embed"

// Resolver turns a URL into best-effort display metadata. It tries an
// oEmbed-style lookup first, then scrapes the page title, and finally falls
// back to the raw URL. It never fails.
type Resolver struct {
	endpoint string
	client   *http.Client
	fetcher  PageFetcher
	log      logrus.FieldLogger
}

// New builds a Resolver. client is used for the oEmbed lookup and fetcher
// for the raw page tier.
func New(endpoint string, client *http.Client, fetcher PageFetcher, logger logrus.FieldLogger) *Resolver {
	if endpoint == "" {
		endpoint = DefaultOEmbedEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{
		endpoint: endpoint,
		client:   client,
		fetcher:  fetcher,
		log:      logger.WithField("component", "resolver"),
	}
}

type oembedResponse struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
	Error        string `json:"error"`
}

// Resolve returns metadata for rawURL. Each tier is attempted once, in order.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) domain.Metadata {
	log := r.log.WithField("url", rawURL)

	meta, err := r.lookupOEmbed(ctx, rawURL)
	if err == nil {
		log.WithField("title", meta.Title).Info("Metadata resolved via oEmbed")
		return meta
	}
	log.WithError(err).Debug("oEmbed lookup failed, scraping page title")

	page, err := r.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		log.WithError(err).Warn("Page fetch failed, using raw URL as title")
		return domain.Metadata{Title: rawURL, Kind: domain.KindLink}
	}

	title, ok := ExtractTitle(page)
	if !ok {
		log.Debug("No <title> found, using raw URL as title")
		title = rawURL
	}
	log.WithField("title", title).Info("Metadata resolved via page title")
	return domain.Metadata{Title: title, Kind: domain.KindArticle}
}

func (r *Resolver) lookupOEmbed(ctx context.Context, rawURL string) (domain.Metadata, error) {
	endpoint, err := url.Parse(r.endpoint)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("parse oembed endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("url", rawURL)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("build oembed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("oembed request: %w", err)
	}
	defer resp.Body.Close()

	var body oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Metadata{}, fmt.Errorf("decode oembed response: %w", err)
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		if body.Error != "" {
			return domain.Metadata{}, fmt.Errorf("oembed: %s", body.Error)
		}
		return domain.Metadata{}, fmt.Errorf("oembed: empty title")
	}

	meta := domain.Metadata{Title: title, Kind: domain.KindVideo}
	if thumb := strings.TrimSpace(body.ThumbnailURL); thumb != "" {
		meta.Thumbnail = &thumb
	}
	return meta, nil
}
