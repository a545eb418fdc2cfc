// Package pagesource provides snapshot access to the tracked site's pages:
// a live Rod browser session, a one-shot HTTP fetch, or a static fixture.
package pagesource

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Source yields snapshots of one page's current DOM. Snapshots are cheap to
// take repeatedly; the readiness poll takes one per attempt.
type Source interface {
	// URL is the page's current canonical URL.
	URL() string

	// HTML returns the page's current serialized DOM.
	HTML(ctx context.Context) (string, error)
}

// Document takes a snapshot from the source and parses it.
func Document(ctx context.Context, src Source) (*goquery.Document, error) {
	raw, err := src.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("pagesource: snapshot %s: %w", src.URL(), err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("pagesource: parse %s: %w", src.URL(), err)
	}
	return doc, nil
}
