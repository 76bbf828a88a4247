package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// RodFetcher renders pages in a headless browser before reading their HTML,
// for sites that build the <title> client-side.
type RodFetcher struct {
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewRodFetcher creates a fetcher that launches a browser per page.
func NewRodFetcher(logger logrus.FieldLogger, timeout time.Duration) *RodFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RodFetcher{
		log:     logger.WithField("component", "rod_fetcher"),
		timeout: timeout,
	}
}

// Fetch launches a browser, waits for the page to load and returns its HTML.
func (f *RodFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	log := f.log.WithField("url", url)

	path, exists := launcher.LookPath()
	if !exists {
		return "", errors.New("rod browser dependency not found")
	}
	l := launcher.New().Bin(path).Context(ctx)
	defer l.Cleanup()

	controlURL, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Error closing rod browser instance")
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}

	pageCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	page = page.Context(pageCtx)

	if err := page.WaitLoad(); err != nil {
		if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("page load timed out for %s: %w", url, pageCtx.Err())
		}
		return "", fmt.Errorf("failed waiting for page load: %w", err)
	}

	html, err = page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page html: %w", err)
	}
	log.Debug("Rendered page fetched")
	return html, nil
}
