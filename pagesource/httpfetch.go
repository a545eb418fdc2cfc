package pagesource

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	tls2 "github.com/refraction-networking/utls"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxBodySize caps how much of a profile page we read (10 MB).
const maxBodySize = 10 * 1024 * 1024

// HTTPSource fetches a page over plain HTTP with a Chrome TLS fingerprint
// (utls). The site serves the results page server-rendered to plain clients,
// so this works for the profile page when no browser session is attached.
type HTTPSource struct {
	url   string
	proxy string
}

var _ Source = (*HTTPSource)(nil)

// NewHTTPSource creates an HTTPSource for the given page URL. proxy, if
// non-empty, is an http/https proxy URL.
func NewHTTPSource(pageURL, proxy string) *HTTPSource {
	return &HTTPSource{url: pageURL, proxy: proxy}
}

// URL returns the page URL.
func (h *HTTPSource) URL() string { return h.url }

// HTML fetches the page and returns its body.
func (h *HTTPSource) HTML(ctx context.Context) (string, error) {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialTLSChrome(ctx, network, addr)
		},
	}
	if h.proxy != "" {
		if proxyURL, err := url.Parse(h.proxy); err == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	client := &http.Client{Transport: transport}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return "", fmt.Errorf("pagesource: build request: %w", err)
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("pagesource: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("pagesource: HTTP %d for %s", resp.StatusCode, h.url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("pagesource: read body: %w", err)
	}
	return string(body), nil
}

// dialTLSChrome establishes a TLS connection using a Chrome fingerprint via utls.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls2.UClient(rawConn, &tls2.Config{
		ServerName: host,
	}, tls2.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}
