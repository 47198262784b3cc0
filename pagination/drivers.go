package pagination

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Driver names the five strategies.
type Driver string

// Drivers known to the generator and the runtime.
const (
	DriverLinkHeader Driver = "link_header"
	DriverHasMore    Driver = "has_more"
	DriverPageToken  Driver = "page_token"
	DriverNextLink   Driver = "next_link"
	DriverPageCount  Driver = "page_count"
)

// Drivers lists every driver in a stable order.
func Drivers() []Driver {
	return []Driver{DriverLinkHeader, DriverHasMore, DriverPageToken, DriverNextLink, DriverPageCount}
}

// Valid reports whether d is a known driver.
func (d Driver) Valid() bool {
	for _, known := range Drivers() {
		if d == known {
			return true
		}
	}
	return false
}

// LinkHeader follows the rel="next" entry of the Link response header. The
// response body is the collection.
type LinkHeader struct{}

// Start implements Strategy.
func (LinkHeader) Start(base string) string { return base }

// Items implements Strategy.
func (LinkHeader) Items(page *Page) ([]json.RawMessage, error) {
	return collection(page.Body, "")
}

// Next implements Strategy.
func (LinkHeader) Next(state State, page *Page) (Step, error) {
	next := NextLinkHeader(page.Header)
	if next == "" || next == state.URI {
		return Step{Done: true}, nil
	}
	return Step{Next: next, Cursor: next}, nil
}

// Recover implements Strategy.
func (LinkHeader) Recover(error) bool { return false }

// NextLinkHeader returns the rel="next" target of the Link headers, or "".
func NextLinkHeader(h http.Header) string {
	for _, value := range h.Values("Link") {
		for _, link := range strings.Split(value, ",") {
			segments := strings.Split(link, ";")
			if len(segments) < 2 {
				continue
			}
			target := strings.TrimSpace(segments[0])
			if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
				continue
			}
			for _, param := range segments[1:] {
				key, val, ok := strings.Cut(strings.TrimSpace(param), "=")
				if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
					continue
				}
				for _, rel := range strings.Fields(strings.Trim(val, `"`)) {
					if strings.EqualFold(rel, "next") {
						return target[1 : len(target)-1]
					}
				}
			}
		}
	}
	return ""
}

// HasMore walks {data, has_more} envelopes. The cursor is the id of the
// last item collected so far.
type HasMore struct {
	// Collection is the property holding the items. Default "data".
	Collection string
	// Flag is the boolean continuation property. Default "has_more".
	Flag string
	// Param is the cursor query parameter. Default "starting_after".
	Param string
	// IDField is the item property used as cursor. Default "id".
	IDField string
}

// Start implements Strategy.
func (HasMore) Start(base string) string { return base }

// Items implements Strategy.
func (h HasMore) Items(page *Page) ([]json.RawMessage, error) {
	return collection(page.Body, or(h.Collection, "data"))
}

// Next implements Strategy.
func (h HasMore) Next(state State, page *Page) (Step, error) {
	if !gjson.GetBytes(page.Body, or(h.Flag, "has_more")).Bool() || len(state.Items) == 0 {
		return Step{Done: true}, nil
	}
	last := state.Items[len(state.Items)-1]
	id := gjson.GetBytes(last, or(h.IDField, "id")).String()
	if id == "" || id == state.Cursor {
		return Step{Done: true}, nil
	}
	return Step{
		Next:   withQuery(state.Base, or(h.Param, "starting_after")+"="+url.QueryEscape(id)),
		Cursor: id,
	}, nil
}

// Recover implements Strategy. A 404 means there is nothing after the cursor.
func (HasMore) Recover(err error) bool {
	var status interface{ StatusCode() int }
	return errors.As(err, &status) && status.StatusCode() == http.StatusNotFound
}

// PageToken walks envelopes carrying an opaque next-page token.
type PageToken struct {
	// Collection is the property holding the items. Default "items".
	Collection string
	// Token is the response property with the next token. Default "nextPageToken".
	Token string
	// Param is the token query parameter. Default "pageToken".
	Param string
}

// Start implements Strategy.
func (PageToken) Start(base string) string { return base }

// Items implements Strategy.
func (p PageToken) Items(page *Page) ([]json.RawMessage, error) {
	return collection(page.Body, or(p.Collection, "items"))
}

// Next implements Strategy. An empty token, or the token just used, ends
// the walk.
func (p PageToken) Next(state State, page *Page) (Step, error) {
	token := gjson.GetBytes(page.Body, or(p.Token, "nextPageToken")).String()
	if token == "" || token == state.Cursor {
		return Step{Done: true}, nil
	}
	return Step{
		Next:   withQuery(state.Base, or(p.Param, "pageToken")+"="+url.QueryEscape(token)),
		Cursor: token,
	}, nil
}

// Recover implements Strategy.
func (PageToken) Recover(error) bool { return false }

// NextLink walks envelopes whose page.next property is the full URL of the
// next page.
type NextLink struct {
	// Collection is the property holding the items. Default "data".
	Collection string
	// Property is the path of the next URL. Default "page.next".
	Property string
	// Host is stripped from the next URL so the fetcher sees a relative URI.
	Host string
}

// Start implements Strategy.
func (NextLink) Start(base string) string { return base }

// Items implements Strategy.
func (n NextLink) Items(page *Page) ([]json.RawMessage, error) {
	return collection(page.Body, or(n.Collection, "data"))
}

// Next implements Strategy.
func (n NextLink) Next(state State, page *Page) (Step, error) {
	next := gjson.GetBytes(page.Body, or(n.Property, "page.next")).String()
	if next == "" || next == state.Cursor {
		return Step{Done: true}, nil
	}
	uri := next
	if n.Host != "" {
		uri = strings.TrimPrefix(next, strings.TrimSuffix(n.Host, "/"))
	}
	return Step{Next: uri, Cursor: next}, nil
}

// Recover implements Strategy. Errors whose text contains "404 Not Found"
// end the walk.
func (NextLink) Recover(err error) bool {
	return strings.Contains(err.Error(), "404 Not Found")
}

// DefaultPageSize is the page size requested by PageCount.
const DefaultPageSize = 100

// PageCount walks numbered pages until the index passes the last page.
type PageCount struct {
	// Collection is the property holding the items. Default "data".
	Collection string
	// Current is the path of the current page index. Default "page.current_page".
	Current string
	// Total is the path of the page count. Default "page.total_pages".
	Total string
	// PageParam is the page index query parameter. Default "page".
	PageParam string
	// SizeParam is the page size query parameter. Default "size".
	SizeParam string
	// Size is the page size. Default DefaultPageSize.
	Size int
}

func (p PageCount) query(index int) string {
	size := p.Size
	if size < 1 {
		size = DefaultPageSize
	}
	return or(p.PageParam, "page") + "=" + strconv.Itoa(index) + "&" +
		or(p.SizeParam, "size") + "=" + strconv.Itoa(size)
}

// Start implements Strategy.
func (p PageCount) Start(base string) string {
	return withQuery(base, p.query(0))
}

// Items implements Strategy.
func (p PageCount) Items(page *Page) ([]json.RawMessage, error) {
	return collection(page.Body, or(p.Collection, "data"))
}

// Next implements Strategy. The next index is one past the larger of the
// requested index and the reported current_page.
func (p PageCount) Next(state State, page *Page) (Step, error) {
	requested, _ := strconv.Atoi(state.Cursor)
	current := int(gjson.GetBytes(page.Body, or(p.Current, "page.current_page")).Int())
	total := int(gjson.GetBytes(page.Body, or(p.Total, "page.total_pages")).Int())

	next := max(requested, current) + 1
	if next > total-1 {
		return Step{Done: true}, nil
	}
	return Step{Next: withQuery(state.Base, p.query(next)), Cursor: strconv.Itoa(next)}, nil
}

// Recover implements Strategy.
func (PageCount) Recover(error) bool { return false }

// Ensure every driver implements Strategy at compile time.
var (
	_ Strategy = LinkHeader{}
	_ Strategy = HasMore{}
	_ Strategy = PageToken{}
	_ Strategy = NextLink{}
	_ Strategy = PageCount{}
)
