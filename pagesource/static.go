package pagesource

import (
	"context"
	"sync"
)

// Static is a Source over a fixed HTML string. Tests use it directly and may
// swap the HTML mid-poll to simulate asynchronous rendering.
type Static struct {
	mu   sync.RWMutex
	url  string
	html string
}

var _ Source = (*Static)(nil)

// NewStatic creates a Static source for the given URL and HTML.
func NewStatic(url, html string) *Static {
	return &Static{url: url, html: html}
}

// URL returns the source's fixed URL.
func (s *Static) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

// HTML returns the current HTML.
func (s *Static) HTML(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.html, nil
}

// SetHTML replaces the HTML returned by subsequent snapshots.
func (s *Static) SetHTML(html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.html = html
}
