package backend

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
)

// HTML cleaning expressions. Script and style blocks go first so their
// contents never leak into the extracted text.
var (
	scriptBlockRegex = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlockRegex  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlTagRegex     = regexp.MustCompile(`<[^>]+>`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
)

// URLFetcher fetches external URLs for the ingestion workflow. It carries
// no backend credentials.
type URLFetcher struct {
	httpClient *http.Client
	policy     Policy
}

// FetchOption configures a URLFetcher.
type FetchOption func(*URLFetcher)

// WithFetchHTTPClient sets a custom HTTP client.
func WithFetchHTTPClient(c *http.Client) FetchOption {
	return func(f *URLFetcher) {
		f.httpClient = c
	}
}

// NewURLFetcher creates a fetcher with the policy's fetch deadline.
// Redirects are followed (the default http.Client behavior).
func NewURLFetcher(policy Policy, opts ...FetchOption) *URLFetcher {
	f := &URLFetcher{
		httpClient: &http.Client{},
		policy:     policy.normalize(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchURL fetches the URL and returns its cleaned text content, truncated
// to MaxContentChars. HTML responses have script/style blocks and tags
// stripped and whitespace collapsed.
func (f *URLFetcher) FetchURL(ctx context.Context, rawURL string) (*FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.policy.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &BackendError{Backend: "fetch", Operation: "fetch_url", Kind: ErrValidation, Err: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &BackendError{
			Backend:   "fetch",
			Operation: "fetch_url",
			Kind:      classifyTransportError(err),
			Err:       err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &BackendError{
			Backend:    "fetch",
			Operation:  "fetch_url",
			StatusCode: resp.StatusCode,
			Kind:       classifyStatus(resp.StatusCode),
			Detail:     summarizeBody(raw),
		}
	}

	// Read a bit past the cap so truncation is detectable without
	// buffering unbounded responses.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, int64(MaxContentChars)*2))
	if err != nil {
		return nil, &BackendError{
			Backend:   "fetch",
			Operation: "fetch_url",
			Kind:      classifyTransportError(err),
			Err:       err,
		}
	}

	contentType := resp.Header.Get("Content-Type")
	text := string(raw)
	if strings.Contains(contentType, "text/html") {
		text = CleanHTML(text)
	}
	if len(text) > MaxContentChars {
		text = text[:MaxContentChars]
	}

	return &FetchResult{
		Text:      text,
		CharCount: len(text),
		Metadata: FetchMetadata{
			ContentType: contentType,
			StatusCode:  resp.StatusCode,
		},
		SourceURL: rawURL,
	}, nil
}

// CleanHTML strips script/style blocks and HTML tags from markup and
// collapses the remaining whitespace.
func CleanHTML(html string) string {
	text := scriptBlockRegex.ReplaceAllString(html, "")
	text = styleBlockRegex.ReplaceAllString(text, "")
	text = htmlTagRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
