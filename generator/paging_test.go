package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restgen/oaserrors"
	"github.com/erraggy/restgen/pagination"
	"github.com/erraggy/restgen/typespace"
)

const pagingSpec = `openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /linked:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  page: {$ref: '#/components/schemas/LinkPage'}
                  data: {type: array, items: {type: string}}
  /counted:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  page: {$ref: '#/components/schemas/CountPage'}
                  records: {type: array, items: {type: string}}
  /opaque:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  page: {$ref: '#/components/schemas/OpaquePage'}
                  data: {type: array, items: {type: string}}
  /has_more:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  has_more: {type: boolean}
                  data: {type: array, items: {type: string}}
  /tokens:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  next_page_token: {type: string}
                  users: {type: array, items: {type: string}}
  /camel:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  nextPageToken: {type: string}
                  items: {type: array, items: {type: string}}
  /array:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema: {type: array, items: {type: string}}
components:
  schemas:
    LinkPage:
      type: object
      properties:
        next: {type: string}
    CountPage:
      type: object
      properties:
        current_page: {type: integer}
        total_pages: {type: integer}
    OpaquePage:
      type: object
      properties:
        cursor: {type: string}
`

func driverFor(t *testing.T, vendor, path string) (pager, error) {
	t.Helper()
	doc := loadDoc(t, pagingSpec)
	profile := mustVendor(t, vendor)
	op := findOp(t, doc, "GET", path)
	c, err := classify(profile, op)
	require.NoError(t, err)
	ts := typespace.New(doc.Spec.Components.Schemas)
	in := &inferencer{profile: profile, ts: ts, spec: doc.Spec}
	shape, _, err := in.infer(op, c)
	require.NoError(t, err)
	require.NotNil(t, shape.Envelope, path)
	return selectDriver(profile, ts, shape.Envelope, c.OperationID)
}

func TestSelectDriver(t *testing.T) {
	tests := []struct {
		name   string
		vendor string
		path   string
		driver pagination.Driver
		expr   string
		cursor []string
	}{
		{
			name:   "next link",
			vendor: "generic",
			path:   "/linked",
			driver: pagination.DriverNextLink,
			expr:   `pagination.NextLink{Collection: "data", Property: "page.next", Host: s.client.BaseURL}`,
		},
		{
			name:   "page count with vendor size",
			vendor: "tripactions",
			path:   "/counted",
			driver: pagination.DriverPageCount,
			expr:   `pagination.PageCount{Collection: "records", Current: "page.current_page", Total: "page.total_pages", Size: 100}`,
			cursor: []string{"page", "size"},
		},
		{
			name:   "has more",
			vendor: "stripe",
			path:   "/has_more",
			driver: pagination.DriverHasMore,
			expr:   `pagination.HasMore{Collection: "data", Flag: "has_more"}`,
			cursor: []string{"starting_after"},
		},
		{
			name:   "vendor token parameter",
			vendor: "zoom",
			path:   "/tokens",
			driver: pagination.DriverPageToken,
			expr:   `pagination.PageToken{Collection: "users", Token: "next_page_token", Param: "next_page_token"}`,
			cursor: []string{"next_page_token"},
		},
		{
			name:   "default snake token parameter",
			vendor: "generic",
			path:   "/tokens",
			driver: pagination.DriverPageToken,
			expr:   `pagination.PageToken{Collection: "users", Token: "next_page_token", Param: "page_token"}`,
			cursor: []string{"page_token"},
		},
		{
			name:   "camel token",
			vendor: "google",
			path:   "/camel",
			driver: pagination.DriverPageToken,
			expr:   `pagination.PageToken{Collection: "items", Token: "nextPageToken", Param: "pageToken"}`,
			cursor: []string{"pageToken"},
		},
		{
			name:   "link header",
			vendor: "github",
			path:   "/array",
			driver: pagination.DriverLinkHeader,
			expr:   `pagination.LinkHeader{}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := driverFor(t, tt.vendor, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.driver, p.Driver)
			assert.Equal(t, tt.expr, p.Expr)
			assert.Equal(t, tt.cursor, p.CursorParams)
		})
	}
}

func TestSelectDriverEscapesPropertyNames(t *testing.T) {
	generic := mustVendor(t, "generic")
	tests := []struct {
		name string
		env  *Envelope
		expr string
	}{
		{
			name: "dotted collection",
			env:  &Envelope{Kind: EnvelopeHasMore, Property: "data.items", Cursor: "has_more"},
			expr: `pagination.HasMore{Collection: "data\\.items", Flag: "has_more"}`,
		},
		{
			name: "wildcard and pipe",
			env:  &Envelope{Kind: EnvelopeNextPageToken, Property: "rows*", Cursor: "next|token?"},
			expr: `pagination.PageToken{Collection: "rows\\*", Token: "next\\|token\\?", Param: "page_token"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := selectDriver(generic, nil, tt.env, "listRows")
			require.NoError(t, err)
			assert.Equal(t, tt.expr, p.Expr)
		})
	}
}

func TestSelectDriverUnsupported(t *testing.T) {
	tests := []struct {
		name     string
		vendor   string
		path     string
		property string
	}{
		{"page without known fields", "generic", "/opaque", "page"},
		{"driver not permitted", "stripe", "/tokens", "next_page_token"},
		{"has more not permitted", "tripactions", "/has_more", "has_more"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := driverFor(t, tt.vendor, tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrPagination)
			var perr *oaserrors.PaginationError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.vendor, perr.Vendor)
			assert.Equal(t, tt.property, perr.Property)
		})
	}
}
