package generator

import (
	"fmt"
	"mime"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/erraggy/restgen/internal/naming"
	"github.com/erraggy/restgen/loader"
	"github.com/erraggy/restgen/oaserrors"
	"github.com/erraggy/restgen/typespace"
)

const parameterRefPrefix = "#/components/parameters/"

// paginationParameters are dropped from all-pages signatures.
var paginationParameters = []string{
	"page", "per_page", "per", "page_size", "size", "next_page_token",
	"page_token", "max_results", "page_number", "start", "sync_token",
	"limit", "ending_before",
}

// reservedIdents are renamed with a trailing underscore.
var reservedIdents = map[string]bool{
	"ref": true, "type": true, "foo": true, "enum": true, "const": true, "use": true,
}

// localNames are identifiers used inside generated method bodies.
var localNames = map[string]bool{
	"ctx": true, "uri": true, "q": true, "msg": true, "resp": true, "err": true,
	"s": true, "v": true, "url": true, "restclient": true, "pagination": true,
	"time": true, "json": true, "fmt": true, "http": true, "io": true,
	"strings": true, "context": true,
}

// Param is one planned function parameter.
type Param struct {
	// Ident is the snake_case identifier after reserved-word renaming.
	Ident string
	// GoName is the Go parameter name.
	GoName string
	// Name is the wire name.
	Name string
	// In is "path", "query" or "header".
	In     string
	TypeID typespace.TypeID
	// Type is the Go type used in the signature.
	Type        string
	Required    bool
	Description string
}

// BodyKind selects how a request body is encoded.
type BodyKind int

// Request body encodings.
const (
	BodyJSON BodyKind = iota + 1
	BodyForm
	BodyRaw
)

// BodyParam is the planned request body parameter.
type BodyParam struct {
	Kind   BodyKind
	GoName string
	TypeID typespace.TypeID
	Type   string
	// MediaType is the declared content type.
	MediaType   string
	Required    bool
	Description string
}

// ParameterPlan is the ordered, deduplicated parameter list of one
// operation. Positional holds every parameter in signature order; Path,
// Query and Header are views of it by location.
type ParameterPlan struct {
	Positional []Param
	Path       []Param
	Query      []Param
	Header     []Param
	Body       *BodyParam
	// Dropped lists "name (reason)" for every parameter left out.
	Dropped []string
}

type planner struct {
	profile *VendorProfile
	ts      *typespace.TypeSpace
	spec    *openapi3.T
}

func newPlanner(profile *VendorProfile, ts *typespace.TypeSpace, spec *openapi3.T) *planner {
	return &planner{profile: profile, ts: ts, spec: spec}
}

// paramIdent derives the snake_case identifier of a parameter name.
func paramIdent(name string) string {
	ident := naming.Snake(name)
	switch {
	case ident == "":
		return "param"
	case ident == "i_ds":
		return "ids"
	case reservedIdents[ident]:
		return ident + "_"
	}
	return ident
}

// plan builds the parameter plan of op. For all-pages methods, pagination
// controls and the driver's cursor parameters are left out.
func (p *planner) plan(op *loader.Operation, c Classification, allPages bool, cursorParams ...string) (ParameterPlan, error) {
	merged, err := p.merge(op)
	if err != nil {
		return ParameterPlan{}, err
	}

	var plan ParameterPlan
	seen := make(map[string]bool)
	goNames := make(map[string]bool)
	var params []Param
	for _, param := range merged {
		ident := paramIdent(param.Name)
		switch {
		case p.profile.isNoise(param.Name, ident):
			plan.Dropped = append(plan.Dropped, param.Name+" (noise)")
			continue
		case param.In == openapi3.ParameterInCookie:
			plan.Dropped = append(plan.Dropped, param.Name+" (cookie)")
			continue
		case allPages && param.In == openapi3.ParameterInQuery &&
			(p.isPaginationParam(param.Name, ident) || containsFold(cursorParams, param.Name)):
			plan.Dropped = append(plan.Dropped, param.Name+" (pagination)")
			continue
		case seen[ident]:
			continue
		}
		seen[ident] = true

		id, err := p.ts.Select(c.OperationID+"_"+ident, paramSchema(param))
		if err != nil {
			return ParameterPlan{}, err
		}
		required := param.Required || param.In == openapi3.ParameterInPath
		params = append(params, Param{
			Ident:       ident,
			GoName:      uniqueGoName(goNames, ident),
			Name:        param.Name,
			In:          param.In,
			TypeID:      id,
			Type:        p.paramType(id, required),
			Required:    required,
			Description: param.Description,
		})
	}
	plan.Positional = orderParams(op.Path, params)
	for _, param := range plan.Positional {
		switch param.In {
		case openapi3.ParameterInPath:
			plan.Path = append(plan.Path, param)
		case openapi3.ParameterInQuery:
			plan.Query = append(plan.Query, param)
		case openapi3.ParameterInHeader:
			plan.Header = append(plan.Header, param)
		}
	}

	body, err := p.body(op, c, seen, goNames)
	if err != nil {
		return ParameterPlan{}, err
	}
	plan.Body = body
	return plan, nil
}

// merge combines path-item and operation parameters; an operation
// parameter replaces a path-item parameter with the same name and location.
func (p *planner) merge(op *loader.Operation) ([]*openapi3.Parameter, error) {
	var out []*openapi3.Parameter
	index := make(map[string]int)
	add := func(refs openapi3.Parameters) error {
		for _, ref := range refs {
			param, err := p.resolve(ref)
			if err != nil {
				return err
			}
			key := param.In + "." + param.Name
			if i, ok := index[key]; ok {
				out[i] = param
				continue
			}
			index[key] = len(out)
			out = append(out, param)
		}
		return nil
	}
	if op.PathItem != nil {
		if err := add(op.PathItem.Parameters); err != nil {
			return nil, err
		}
	}
	if op.Op != nil {
		if err := add(op.Op.Parameters); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *planner) resolve(ref *openapi3.ParameterRef) (*openapi3.Parameter, error) {
	if ref == nil {
		return nil, &oaserrors.ReferenceError{Kind: "parameter", Message: "empty parameter entry"}
	}
	if ref.Value != nil {
		return ref.Value, nil
	}
	name, ok := strings.CutPrefix(ref.Ref, parameterRefPrefix)
	if !ok {
		return nil, &oaserrors.ReferenceError{Ref: ref.Ref, Kind: "parameter", Message: "only local component references are supported"}
	}
	if p.spec.Components != nil {
		if target := p.spec.Components.Parameters[name]; target != nil {
			if target.Value != nil {
				return target.Value, nil
			}
			if target.Ref != "" && target.Ref != ref.Ref {
				return p.resolve(target)
			}
		}
	}
	return nil, &oaserrors.ReferenceError{Ref: ref.Ref, Kind: "parameter", Unresolved: true}
}

func (p *planner) isPaginationParam(name, ident string) bool {
	return containsFold(paginationParameters, ident) ||
		containsFold(p.profile.PaginationParameters, name) ||
		containsFold(p.profile.PaginationParameters, ident)
}

func paramSchema(param *openapi3.Parameter) *openapi3.SchemaRef {
	if param.Schema != nil {
		return param.Schema
	}
	for _, mt := range sortedKeys(param.Content) {
		if media := param.Content[mt]; media != nil && media.Schema != nil {
			return media.Schema
		}
	}
	return openapi3.NewStringSchema().NewRef()
}

// paramType renders the signature type. Timestamps are always optional;
// other optional scalars and objects become pointers.
func (p *planner) paramType(id typespace.TypeID, required bool) string {
	base := p.ts.Render(id)
	t, ok := p.ts.Type(id)
	if !ok {
		return "any"
	}
	switch t.Kind {
	case typespace.KindTime:
		return "*" + base
	case typespace.KindArray, typespace.KindMap, typespace.KindBytes, typespace.KindAny:
		return base
	}
	if required {
		return base
	}
	return "*" + base
}

func uniqueGoName(taken map[string]bool, ident string) string {
	name := naming.Camel(ident)
	if name == "" {
		name = "param"
	}
	if localNames[name] {
		name += "Param"
	}
	for base, n := name, 2; taken[name]; n++ {
		name = fmt.Sprintf("%s%d", base, n)
	}
	taken[name] = true
	return name
}

// orderParams puts path parameters first in template order, then the rest
// sorted by identifier.
func orderParams(path string, params []Param) []Param {
	var ordered, rest []Param
	used := make(map[int]bool)
	for _, seg := range strings.Split(path, "/") {
		name, ok := templateParam(seg)
		if !ok {
			continue
		}
		for i, param := range params {
			if !used[i] && param.In == openapi3.ParameterInPath && param.Name == name {
				ordered = append(ordered, param)
				used[i] = true
				break
			}
		}
	}
	for i, param := range params {
		if !used[i] {
			rest = append(rest, param)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Ident < rest[j].Ident })
	return append(ordered, rest...)
}

func (p *planner) body(op *loader.Operation, c Classification, idents, goNames map[string]bool) (*BodyParam, error) {
	if op.Op == nil || op.Op.RequestBody == nil {
		return nil, nil
	}
	rb, err := p.resolveBody(op.Op.RequestBody)
	if err != nil {
		return nil, err
	}
	if len(rb.Content) == 0 {
		return nil, nil
	}

	ident := "body"
	if idents[ident] {
		ident = "request_body"
	}
	body := &BodyParam{
		GoName:      uniqueGoName(goNames, ident),
		Required:    rb.Required,
		Description: rb.Description,
	}

	mediaType, media := pickRequestMedia(rb.Content)
	body.MediaType = mediaType
	switch {
	case isJSONMedia(mediaType):
		body.Kind = BodyJSON
		var schema *openapi3.SchemaRef
		if media != nil {
			schema = media.Schema
		}
		id, err := p.ts.Select(c.OperationID+"_request", schema)
		if err != nil {
			return nil, err
		}
		body.TypeID = id
		body.Type = p.ts.Render(id)
		if t, ok := p.ts.Type(id); ok && t.Kind == typespace.KindObject {
			body.Type = "*" + body.Type
		}
	case mediaType == "application/x-www-form-urlencoded":
		body.Kind = BodyForm
		body.Type = "url.Values"
	default:
		body.Kind = BodyRaw
		body.Type = "io.Reader"
	}
	return body, nil
}

func (p *planner) resolveBody(ref *openapi3.RequestBodyRef) (*openapi3.RequestBody, error) {
	if ref.Value != nil {
		return ref.Value, nil
	}
	name := strings.TrimPrefix(ref.Ref, "#/components/requestBodies/")
	if p.spec.Components != nil {
		if target := p.spec.Components.RequestBodies[name]; target != nil && target.Value != nil {
			return target.Value, nil
		}
	}
	return nil, &oaserrors.ReferenceError{Ref: ref.Ref, Kind: "request body", Unresolved: true}
}

// pickRequestMedia prefers JSON, then form encoding, then the first media
// type in sorted order.
func pickRequestMedia(content openapi3.Content) (string, *openapi3.MediaType) {
	keys := sortedKeys(content)
	for _, k := range keys {
		if isJSONMedia(baseMediaType(k)) {
			return baseMediaType(k), content[k]
		}
	}
	for _, k := range keys {
		if baseMediaType(k) == "application/x-www-form-urlencoded" {
			return baseMediaType(k), content[k]
		}
	}
	return baseMediaType(keys[0]), content[keys[0]]
}

// baseMediaType strips parameters such as charset.
func baseMediaType(mt string) string {
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		return parsed
	}
	return strings.ToLower(strings.TrimSpace(strings.SplitN(mt, ";", 2)[0]))
}

// isJSONMedia reports JSON media types. SCIM documents are handled apart.
func isJSONMedia(mt string) bool {
	if mt == scimMediaType {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
