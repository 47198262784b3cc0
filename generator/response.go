package generator

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/erraggy/restgen/loader"
	"github.com/erraggy/restgen/oaserrors"
	"github.com/erraggy/restgen/typespace"
)

const (
	scimMediaType     = "application/scim+json"
	responseRefPrefix = "#/components/responses/"
)

var textMediaTypes = map[string]bool{
	"text/plain":                 true,
	"text/html":                  true,
	"application/octocat-stream": true,
	"*/*":                        true,
}

// EnvelopeKind names a pagination envelope convention.
type EnvelopeKind string

// Recognized envelopes, in detection priority after EnvelopeArray.
const (
	// EnvelopeArray is a bare JSON array paginated through Link headers.
	EnvelopeArray EnvelopeKind = "array"
	// EnvelopePage is {page: ...Page, data: [...]}.
	EnvelopePage EnvelopeKind = "page"
	// EnvelopeHasMore is {has_more: bool, data: [...]}.
	EnvelopeHasMore EnvelopeKind = "has_more"
	// EnvelopeNextPageToken is {next_page_token: string, <collection>: [...]}.
	EnvelopeNextPageToken EnvelopeKind = "next_page_token"
	// EnvelopeNextPageTokenCamel is {nextPageToken: string, items: [...]}.
	EnvelopeNextPageTokenCamel EnvelopeKind = "nextPageToken"
)

// Envelope describes a paginated response. Every field is set together.
type Envelope struct {
	Kind EnvelopeKind
	// Property holds the collection. Empty for EnvelopeArray.
	Property string
	// Cursor is the pagination property: "page", "has_more" or a token name.
	Cursor string
	// ItemsType is the Go collection type, e.g. "[]Widget".
	ItemsType string
	// ItemType is the Go element type, e.g. "Widget".
	ItemType   string
	ItemTypeID typespace.TypeID
	// PageTypeID is the type of the page property of EnvelopePage.
	PageTypeID typespace.TypeID
}

// ResponseShape is the inferred result of an operation.
type ResponseShape struct {
	// ReturnType is the Go result type; empty means the operation returns
	// nothing but an error.
	ReturnType string
	TypeID     typespace.TypeID
	// Envelope is nil unless the response is a recognized paginated envelope.
	Envelope  *Envelope
	MediaType string
	Status    string
	// Text responses are returned as raw text.
	Text bool
}

// Unit reports whether the operation returns no value.
func (s ResponseShape) Unit() bool {
	return s.ReturnType == ""
}

type inferencer struct {
	profile       *VendorProfile
	ts            *typespace.TypeSpace
	spec          *openapi3.T
	firstDeclared bool
}

// infer returns the response shape of op. The second result is non-empty
// when the response was not recognized and the unit shape was used instead.
func (in *inferencer) infer(op *loader.Operation, c Classification) (ResponseShape, string, error) {
	status := in.pickStatus(op)
	if status == "" {
		return ResponseShape{}, "", nil
	}
	resp, err := in.resolveResponse(op.Op.Responses.Value(status))
	if err != nil {
		return ResponseShape{}, "", err
	}
	if resp == nil || len(resp.Content) == 0 {
		return ResponseShape{Status: status}, "", nil
	}

	hint := c.OperationID + "_response"
	mediaType, media := pickResponseMedia(resp.Content)
	switch {
	case isJSONMedia(mediaType):
		if media == nil || media.Schema == nil || isEmptySchema(media.Schema) {
			return ResponseShape{Status: status, MediaType: mediaType}, "", nil
		}
		id, err := in.ts.Select(hint, media.Schema)
		if err != nil {
			return ResponseShape{}, "", err
		}
		return ResponseShape{
			ReturnType: in.returnType(id),
			TypeID:     id,
			Envelope:   in.detect(id),
			MediaType:  mediaType,
			Status:     status,
		}, "", nil
	case textMediaTypes[mediaType]:
		var schema *openapi3.SchemaRef
		if media != nil {
			schema = media.Schema
		}
		id, err := in.textType(hint, schema)
		if err != nil {
			return ResponseShape{}, "", err
		}
		return ResponseShape{
			ReturnType: in.ts.Render(id),
			TypeID:     id,
			MediaType:  mediaType,
			Status:     status,
			Text:       true,
		}, "", nil
	case mediaType == scimMediaType:
		var schema *openapi3.SchemaRef
		if media != nil {
			schema = media.Schema
		}
		if schema == nil {
			schema = openapi3.NewObjectSchema().NewRef()
		}
		id, err := in.ts.Select(hint, schema)
		if err != nil {
			return ResponseShape{}, "", err
		}
		return ResponseShape{
			ReturnType: in.returnType(id),
			TypeID:     id,
			MediaType:  mediaType,
			Status:     status,
		}, "", nil
	}
	return ResponseShape{Status: status, MediaType: mediaType},
		fmt.Sprintf("response %s has unrecognized media type %q; the operation returns no value", status, mediaType), nil
}

// pickStatus chooses the first 2xx response in declaration order, or the
// first declared response in compatibility mode.
func (in *inferencer) pickStatus(op *loader.Operation) string {
	if op.Op == nil || op.Op.Responses == nil {
		return ""
	}
	keys := op.Responses()
	if len(keys) == 0 {
		return ""
	}
	if in.firstDeclared {
		return keys[0]
	}
	for _, k := range keys {
		if strings.HasPrefix(k, "2") {
			return k
		}
	}
	return ""
}

func (in *inferencer) resolveResponse(ref *openapi3.ResponseRef) (*openapi3.Response, error) {
	if ref == nil {
		return nil, nil
	}
	if ref.Value != nil {
		return ref.Value, nil
	}
	name, ok := strings.CutPrefix(ref.Ref, responseRefPrefix)
	if ok && in.spec.Components != nil {
		if target := in.spec.Components.Responses[name]; target != nil && target.Value != nil {
			return target.Value, nil
		}
	}
	if !ok {
		return nil, &oaserrors.ReferenceError{Ref: ref.Ref, Kind: "response", Message: "only local component references are supported"}
	}
	return nil, &oaserrors.ReferenceError{Ref: ref.Ref, Kind: "response", Unresolved: true}
}

func isEmptySchema(ref *openapi3.SchemaRef) bool {
	return ref.Value != nil && typespace.IsEmpty(ref.Value)
}

// pickResponseMedia prefers JSON, then text, then SCIM, then the first
// media type in sorted order.
func pickResponseMedia(content openapi3.Content) (string, *openapi3.MediaType) {
	keys := sortedKeys(content)
	for _, match := range []func(string) bool{
		isJSONMedia,
		func(mt string) bool { return textMediaTypes[mt] },
		func(mt string) bool { return mt == scimMediaType },
	} {
		for _, k := range keys {
			if mt := baseMediaType(k); match(mt) {
				return mt, content[k]
			}
		}
	}
	return baseMediaType(keys[0]), content[keys[0]]
}

// textType is []byte for binary schemas and string otherwise.
func (in *inferencer) textType(hint string, schema *openapi3.SchemaRef) (typespace.TypeID, error) {
	if schema != nil {
		id, err := in.ts.Select(hint, schema)
		if err != nil {
			return typespace.None, err
		}
		if t, ok := in.ts.Type(id); ok && (t.Kind == typespace.KindBytes || t.Kind == typespace.KindString) {
			return id, nil
		}
	}
	return in.ts.Select(hint, openapi3.NewStringSchema().NewRef())
}

func (in *inferencer) returnType(id typespace.TypeID) string {
	rendered := in.ts.Render(id)
	if t, ok := in.ts.Type(id); ok && t.Kind == typespace.KindObject {
		return "*" + rendered
	}
	return rendered
}

// detect tests id against the envelope conventions in priority order.
func (in *inferencer) detect(id typespace.TypeID) *Envelope {
	t, ok := in.ts.Type(id)
	if !ok {
		return nil
	}
	if t.Kind == typespace.KindArray {
		if !in.profile.LinkHeaderArrays {
			return nil
		}
		return in.envelope(EnvelopeArray, "", "", id)
	}
	if t.Kind != typespace.KindObject {
		return nil
	}

	if page, ok := t.Property("page"); ok {
		rendered := in.ts.Render(page.Type)
		if rendered == "Page" || strings.HasSuffix(rendered, "Page") {
			if coll := in.wrappedCollection(t, "page"); coll != "" {
				env := in.envelope(EnvelopePage, coll, "page", in.propType(t, coll))
				env.PageTypeID = page.Type
				return env
			}
		}
	}
	if _, ok := t.Property("has_more"); ok {
		if coll := in.wrappedCollection(t, "has_more"); coll != "" {
			return in.envelope(EnvelopeHasMore, coll, "has_more", in.propType(t, coll))
		}
	}
	if in.isStringProperty(t, "next_page_token") {
		if coll := in.firstCollection(t); coll != "" {
			return in.envelope(EnvelopeNextPageToken, coll, "next_page_token", in.propType(t, coll))
		}
	}
	if in.isStringProperty(t, "nextPageToken") {
		coll := ""
		if items, ok := t.Property("items"); ok && in.ts.IsCollection(items.Type) {
			coll = "items"
		} else {
			coll = in.firstCollection(t)
		}
		if coll != "" {
			return in.envelope(EnvelopeNextPageTokenCamel, coll, "nextPageToken", in.propType(t, coll))
		}
	}
	return nil
}

// wrappedCollection returns "data" when it is a collection, else the
// collection member of a two-property object.
func (in *inferencer) wrappedCollection(t *typespace.Type, cursor string) string {
	if data, ok := t.Property("data"); ok && in.ts.IsCollection(data.Type) {
		return "data"
	}
	if len(t.Properties) != 2 {
		return ""
	}
	for _, p := range t.Properties {
		if p.Name != cursor && in.ts.IsCollection(p.Type) {
			return p.Name
		}
	}
	return ""
}

func (in *inferencer) firstCollection(t *typespace.Type) string {
	for _, p := range t.Properties {
		if in.ts.IsCollection(p.Type) {
			return p.Name
		}
	}
	return ""
}

func (in *inferencer) isStringProperty(t *typespace.Type, name string) bool {
	p, ok := t.Property(name)
	if !ok {
		return false
	}
	pt, ok := in.ts.Type(p.Type)
	return ok && pt.Kind == typespace.KindString
}

func (in *inferencer) propType(t *typespace.Type, name string) typespace.TypeID {
	p, _ := t.Property(name)
	return p.Type
}

func (in *inferencer) envelope(kind EnvelopeKind, property, cursor string, collection typespace.TypeID) *Envelope {
	coll, _ := in.ts.Type(collection)
	return &Envelope{
		Kind:       kind,
		Property:   property,
		Cursor:     cursor,
		ItemsType:  in.ts.Render(collection),
		ItemType:   in.ts.Render(coll.Elem),
		ItemTypeID: coll.Elem,
	}
}
