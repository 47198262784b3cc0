package pagination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultMaxPages bounds a walk when no limit is configured.
const DefaultMaxPages = 10000

// ErrPageLimit is returned, with the items collected so far, when a walk
// reaches its page limit before the backend reports the last page.
var ErrPageLimit = errors.New("pagination: page limit reached")

// Page is one fetched response.
type Page struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Fetcher issues one GET request.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (*Page, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, uri string) (*Page, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, uri string) (*Page, error) {
	return f(ctx, uri)
}

// State is everything a strategy may consult to pick the next request.
type State struct {
	// Base is the URI of the first request before Start rewrote it.
	Base string
	// URI is the request that produced the current page.
	URI string
	// Cursor is the cursor that produced the current page, "" on the first.
	Cursor string
	// Items holds every item collected so far, the current page included.
	Items []json.RawMessage
}

// Step is a strategy's decision after a page.
type Step struct {
	Done   bool
	Next   string
	Cursor string
}

// Strategy is one pagination driver.
type Strategy interface {
	// Start returns the URI of the first request.
	Start(base string) string
	// Items extracts the collection from a page.
	Items(page *Page) ([]json.RawMessage, error)
	// Next decides whether to continue and with which request.
	Next(state State, page *Page) (Step, error)
	// Recover reports whether a fetch error ends the walk successfully.
	Recover(err error) bool
}

// Option configures a walk.
type Option func(*config)

type config struct {
	maxPages int
}

// WithMaxPages sets the page limit. Values below one select DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(c *config) { c.maxPages = n }
}

// Collect walks every page starting at base and returns the raw items in
// page order.
func Collect(ctx context.Context, f Fetcher, base string, s Strategy, opts ...Option) ([]json.RawMessage, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxPages < 1 {
		cfg.maxPages = DefaultMaxPages
	}

	state := State{Base: base}
	uri := s.Start(base)
	for pages := 0; ; pages++ {
		if pages == cfg.maxPages {
			return state.Items, fmt.Errorf("%w after %d pages", ErrPageLimit, pages)
		}

		page, err := f.Fetch(ctx, uri)
		if err != nil {
			if s.Recover(err) {
				return state.Items, nil
			}
			return nil, err
		}

		items, err := s.Items(page)
		if err != nil {
			return nil, err
		}
		state.Items = append(state.Items, items...)
		state.URI = uri

		step, err := s.Next(state, page)
		if err != nil {
			return nil, err
		}
		if step.Done {
			return state.Items, nil
		}
		uri = step.Next
		state.Cursor = step.Cursor
	}
}

// All walks every page and decodes each item into T.
func All[T any](ctx context.Context, f Fetcher, base string, s Strategy, opts ...Option) ([]T, error) {
	raw, err := Collect(ctx, f, base, s, opts...)
	if err != nil && !errors.Is(err, ErrPageLimit) {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for i, item := range raw {
		var v T
		if decodeErr := json.Unmarshal(item, &v); decodeErr != nil {
			return nil, fmt.Errorf("pagination: decoding item %d: %w", i, decodeErr)
		}
		out = append(out, v)
	}
	return out, err
}

// collection returns the array at path in body. An empty path selects the
// body itself. A missing or null collection is an empty page.
func collection(body []byte, path string) ([]json.RawMessage, error) {
	var result gjson.Result
	if path == "" {
		result = gjson.ParseBytes(body)
	} else {
		result = gjson.GetBytes(body, path)
	}
	if !result.Exists() || result.Type == gjson.Null {
		return nil, nil
	}
	if !result.IsArray() {
		if path == "" {
			return nil, fmt.Errorf("pagination: response body is not an array")
		}
		return nil, fmt.Errorf("pagination: response field %q is not an array", path)
	}
	elems := result.Array()
	items := make([]json.RawMessage, 0, len(elems))
	for _, e := range elems {
		items = append(items, json.RawMessage(e.Raw))
	}
	return items, nil
}

// withQuery appends a query pair to uri, choosing "?" or "&" by whether uri
// already carries a query.
func withQuery(uri, query string) string {
	if strings.Contains(uri, "?") {
		return uri + "&" + query
	}
	return uri + "?" + query
}

// FieldPath builds a gjson path from literal property names. Each name is
// escaped, so a property named "data.items" is not read as a nested path.
func FieldPath(names ...string) string {
	escaped := make([]string, len(names))
	for i, name := range names {
		escaped[i] = gjson.Escape(name)
	}
	return strings.Join(escaped, ".")
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
