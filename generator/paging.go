package generator

import (
	"fmt"
	"strconv"

	"github.com/erraggy/restgen/oaserrors"
	"github.com/erraggy/restgen/pagination"
	"github.com/erraggy/restgen/typespace"
)

// pager is the pagination driver chosen for one operation and the Go
// expression that constructs it in generated code.
type pager struct {
	Driver pagination.Driver
	Expr   string
	// CursorParams are query parameters the driver sets itself.
	CursorParams []string
}

// selectDriver maps an envelope to a pagination driver permitted by the
// profile. Envelopes no driver can walk are fatal.
func selectDriver(profile *VendorProfile, ts *typespace.TypeSpace, env *Envelope, operationID string) (pager, error) {
	fail := func(property string) (pager, error) {
		return pager{}, &oaserrors.PaginationError{Vendor: profile.Name, Property: property, Operation: operationID}
	}

	var p pager
	switch env.Kind {
	case EnvelopeArray:
		p = pager{Driver: pagination.DriverLinkHeader, Expr: "pagination.LinkHeader{}"}
	case EnvelopeHasMore:
		p = pager{
			Driver:       pagination.DriverHasMore,
			Expr:         fmt.Sprintf("pagination.HasMore{Collection: %q, Flag: %q}", pagination.FieldPath(env.Property), pagination.FieldPath(env.Cursor)),
			CursorParams: []string{"starting_after"},
		}
	case EnvelopeNextPageToken, EnvelopeNextPageTokenCamel:
		param := profile.PageTokenParam
		if param == "" {
			param = "page_token"
			if env.Kind == EnvelopeNextPageTokenCamel {
				param = "pageToken"
			}
		}
		p = pager{
			Driver:       pagination.DriverPageToken,
			Expr:         fmt.Sprintf("pagination.PageToken{Collection: %q, Token: %q, Param: %q}",
				pagination.FieldPath(env.Property), pagination.FieldPath(env.Cursor), param),
			CursorParams: []string{param},
		}
	case EnvelopePage:
		page, ok := ts.Type(env.PageTypeID)
		if !ok {
			return fail(env.Cursor)
		}
		_, hasNext := page.Property("next")
		_, hasCurrent := page.Property("current_page")
		_, hasTotal := page.Property("total_pages")
		switch {
		case hasNext:
			p = pager{
				Driver: pagination.DriverNextLink,
				Expr:   fmt.Sprintf("pagination.NextLink{Collection: %q, Property: %q, Host: s.client.BaseURL}",
					pagination.FieldPath(env.Property), pagination.FieldPath(env.Cursor, "next")),
			}
		case hasCurrent && hasTotal:
			size := profile.PageSize
			if size <= 0 {
				size = pagination.DefaultPageSize
			}
			p = pager{
				Driver: pagination.DriverPageCount,
				Expr: fmt.Sprintf("pagination.PageCount{Collection: %q, Current: %q, Total: %q, Size: %s}",
					pagination.FieldPath(env.Property), pagination.FieldPath(env.Cursor, "current_page"),
					pagination.FieldPath(env.Cursor, "total_pages"), strconv.Itoa(size)),
				CursorParams: []string{"page", "size"},
			}
		default:
			return fail(env.Cursor)
		}
	default:
		return fail(env.Cursor)
	}

	if !profile.Allows(p.Driver) {
		property := env.Cursor
		if property == "" {
			property = "link header"
		}
		return fail(property)
	}
	return p, nil
}
