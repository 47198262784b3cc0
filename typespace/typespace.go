package typespace

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/erraggy/restgen/internal/naming"
	"github.com/erraggy/restgen/oaserrors"
)

// SchemaRefPrefix is the prefix of local schema references.
const SchemaRefPrefix = "#/components/schemas/"

// TypeID is an opaque handle to a type in a TypeSpace.
type TypeID int

// None is the sentinel TypeID for "no type yet / unit".
const None TypeID = 0

// Kind classifies a type.
type Kind int

// Kinds of types known to a TypeSpace.
const (
	KindAny Kind = iota
	KindString
	KindInteger
	KindNumber
	KindBoolean
	KindTime
	KindBytes
	KindArray
	KindMap
	KindObject
	KindEnum
	KindUnion
)

var kindNames = [...]string{"any", "string", "integer", "number", "boolean", "time", "bytes", "array", "map", "object", "enum", "union"}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Named reports whether types of this kind are declared by name.
func (k Kind) Named() bool {
	return k == KindObject || k == KindEnum || k == KindUnion
}

// Property is one field of an object type.
type Property struct {
	// Name is the JSON property name.
	Name string
	// Field is the Go field name.
	Field string
	// Type is the property's type.
	Type TypeID
	// Required reports whether the schema lists the property as required.
	Required bool
	// Description is the property's schema description.
	Description string
}

// Type describes one entry of a TypeSpace.
type Type struct {
	ID TypeID
	// Name is set for named kinds only.
	Name string
	Kind Kind
	// Format narrows integers and numbers ("int32", "float").
	Format string
	// Elem is the element type of arrays and maps.
	Elem TypeID
	// Properties are sorted by JSON name.
	Properties []Property
	// Variants are the member types of a union.
	Variants []TypeID
	// Enum holds the values of a string enum.
	Enum        []string
	Description string
}

// Property returns the property with the given JSON name.
func (t *Type) Property(name string) (Property, bool) {
	for _, p := range t.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// TypeSpace is the table of types for one generation run. It is not safe
// for concurrent use.
type TypeSpace struct {
	schemas    openapi3.Schemas
	types      []*Type
	byRef      map[string]TypeID
	names      map[string]bool
	structural map[string]TypeID
	resolving  map[string]bool
}

// New creates a TypeSpace over the given component schemas. A nil map is
// allowed; references then fail to resolve.
func New(schemas openapi3.Schemas) *TypeSpace {
	return &TypeSpace{
		schemas:    schemas,
		types:      []*Type{nil},
		byRef:      make(map[string]TypeID),
		names:      make(map[string]bool),
		structural: make(map[string]TypeID),
		resolving:  make(map[string]bool),
	}
}

// Len returns the number of types, excluding the sentinel.
func (ts *TypeSpace) Len() int {
	return len(ts.types) - 1
}

// Reserve marks names as taken so that named types created later are
// suffixed instead of colliding with them.
func (ts *TypeSpace) Reserve(names ...string) {
	for _, n := range names {
		ts.names[n] = true
	}
}

// Type returns the type for id. The sentinel and unknown ids are not found.
func (ts *TypeSpace) Type(id TypeID) (*Type, bool) {
	if id <= None || int(id) >= len(ts.types) {
		return nil, false
	}
	return ts.types[id], true
}

// Select returns the type for a schema fragment, creating it if needed.
// nameHint names the type when the fragment is an inline object, enum or
// union.
func (ts *TypeSpace) Select(nameHint string, ref *openapi3.SchemaRef) (TypeID, error) {
	if ref == nil {
		return ts.intern(&Type{Kind: KindAny}), nil
	}
	if ref.Ref != "" {
		return ts.SelectRef(ref.Ref)
	}
	if ref.Value == nil {
		return ts.intern(&Type{Kind: KindAny}), nil
	}
	return ts.selectSchema(nameHint, ref.Value)
}

// SelectRef returns the type for a "#/components/schemas/Name" reference.
func (ts *TypeSpace) SelectRef(ref string) (TypeID, error) {
	if id, ok := ts.byRef[ref]; ok {
		return id, nil
	}
	name, ok := strings.CutPrefix(ref, SchemaRefPrefix)
	if !ok {
		return None, &oaserrors.ReferenceError{
			Ref:     ref,
			Kind:    "schema",
			Message: "only local component references are supported",
		}
	}
	sref := ts.schemas[name]
	if sref == nil || (sref.Value == nil && sref.Ref == "") {
		return None, &oaserrors.ReferenceError{Ref: ref, Kind: "schema", Unresolved: true}
	}
	if sref.Ref != "" && sref.Value == nil {
		id, err := ts.SelectRef(sref.Ref)
		if err == nil {
			ts.byRef[ref] = id
		}
		return id, err
	}

	schema := sref.Value
	if !isNamedSchema(schema) {
		if ts.resolving[ref] {
			// A structural schema that contains itself, e.g. an array of itself.
			return ts.intern(&Type{Kind: KindAny}), nil
		}
		ts.resolving[ref] = true
		defer delete(ts.resolving, ref)
		id, err := ts.selectSchema(name, schema)
		if err != nil {
			return None, err
		}
		ts.byRef[ref] = id
		return id, nil
	}

	// Register a placeholder first so recursive schemas terminate.
	t := ts.newNamed(name, KindObject, schema.Description)
	ts.byRef[ref] = t.ID
	if err := ts.fill(t, schema); err != nil {
		return None, err
	}
	return t.ID, nil
}

// Render returns the Go spelling of id.
func (ts *TypeSpace) Render(id TypeID) string {
	t, ok := ts.Type(id)
	if !ok {
		return ""
	}
	switch t.Kind {
	case KindString:
		return "string"
	case KindInteger:
		if t.Format == "int32" {
			return "int32"
		}
		return "int64"
	case KindNumber:
		if t.Format == "float" {
			return "float32"
		}
		return "float64"
	case KindBoolean:
		return "bool"
	case KindTime:
		return "time.Time"
	case KindBytes:
		return "[]byte"
	case KindArray:
		return "[]" + ts.renderElem(t.Elem)
	case KindMap:
		return "map[string]" + ts.renderElem(t.Elem)
	case KindObject, KindEnum, KindUnion:
		return t.Name
	default:
		return "any"
	}
}

func (ts *TypeSpace) renderElem(id TypeID) string {
	if s := ts.Render(id); s != "" {
		return s
	}
	return "any"
}

// Describe returns the schema description recorded for id.
func (ts *TypeSpace) Describe(id TypeID) string {
	if t, ok := ts.Type(id); ok {
		return t.Description
	}
	return ""
}

// NameOf returns an identifier-friendly name for id, used to name union
// accessors and overloads. Named types use their name; structural types
// are spelled from their kind, e.g. "WidgetList" for []Widget.
func (ts *TypeSpace) NameOf(id TypeID) string {
	t, ok := ts.Type(id)
	if !ok {
		return ""
	}
	switch t.Kind {
	case KindObject, KindEnum, KindUnion:
		return t.Name
	case KindArray:
		return ts.NameOf(t.Elem) + "List"
	case KindMap:
		return ts.NameOf(t.Elem) + "Map"
	default:
		return naming.Pascal(ts.Render(id))
	}
}

// IsCollection reports whether id renders as a slice.
func (ts *TypeSpace) IsCollection(id TypeID) bool {
	t, ok := ts.Type(id)
	return ok && t.Kind == KindArray
}

// IsEmpty reports whether a schema is the structurally empty "any" schema:
// no type constraints, properties, format or items.
func IsEmpty(s *openapi3.Schema) bool {
	if s == nil {
		return true
	}
	if s.Type != nil && !s.Type.Is(openapi3.TypeObject) && len(s.Type.Slice()) > 0 {
		return false
	}
	return len(s.Properties) == 0 &&
		s.Format == "" &&
		s.Items == nil &&
		len(s.OneOf) == 0 &&
		len(s.AnyOf) == 0 &&
		len(s.AllOf) == 0 &&
		len(s.Enum) == 0 &&
		(s.AdditionalProperties.Schema == nil)
}

func isNamedSchema(s *openapi3.Schema) bool {
	switch {
	case len(s.OneOf) > 0 || len(s.AnyOf) > 0:
		return true
	case len(s.Enum) > 0 && isType(s, openapi3.TypeString):
		return true
	case len(s.AllOf) > 0:
		return !(len(s.AllOf) == 1 && len(s.Properties) == 0)
	case len(s.Properties) > 0:
		return true
	}
	return false
}

func isType(s *openapi3.Schema, typ string) bool {
	return s.Type != nil && s.Type.Is(typ)
}

func (ts *TypeSpace) selectSchema(hint string, s *openapi3.Schema) (TypeID, error) {
	if isNamedSchema(s) {
		if len(s.AllOf) == 1 && len(s.Properties) == 0 {
			return ts.Select(hint, s.AllOf[0])
		}
		t := ts.newNamed(hint, KindObject, s.Description)
		if err := ts.fill(t, s); err != nil {
			return None, err
		}
		return t.ID, nil
	}
	if len(s.AllOf) == 1 {
		return ts.Select(hint, s.AllOf[0])
	}

	switch {
	case isType(s, openapi3.TypeArray):
		elem, err := ts.Select(naming.Singular(naming.Snake(hint))+"_item", s.Items)
		if err != nil {
			return None, err
		}
		return ts.intern(&Type{Kind: KindArray, Elem: elem}), nil
	case isType(s, openapi3.TypeString):
		switch s.Format {
		case "date-time":
			return ts.intern(&Type{Kind: KindTime}), nil
		case "binary", "byte":
			return ts.intern(&Type{Kind: KindBytes}), nil
		}
		return ts.intern(&Type{Kind: KindString}), nil
	case isType(s, openapi3.TypeInteger):
		return ts.intern(&Type{Kind: KindInteger, Format: narrow(s.Format, "int32")}), nil
	case isType(s, openapi3.TypeNumber):
		return ts.intern(&Type{Kind: KindNumber, Format: narrow(s.Format, "float")}), nil
	case isType(s, openapi3.TypeBoolean):
		return ts.intern(&Type{Kind: KindBoolean}), nil
	case s.AdditionalProperties.Schema != nil:
		elem, err := ts.Select(hint+"_value", s.AdditionalProperties.Schema)
		if err != nil {
			return None, err
		}
		return ts.intern(&Type{Kind: KindMap, Elem: elem}), nil
	case isType(s, openapi3.TypeObject):
		return ts.intern(&Type{Kind: KindMap, Elem: ts.intern(&Type{Kind: KindAny})}), nil
	}
	return ts.intern(&Type{Kind: KindAny}), nil
}

func narrow(format, keep string) string {
	if format == keep {
		return format
	}
	return ""
}

// fill completes a named type placeholder from its schema.
func (ts *TypeSpace) fill(t *Type, s *openapi3.Schema) error {
	switch {
	case len(s.OneOf) > 0 || len(s.AnyOf) > 0:
		t.Kind = KindUnion
		members := s.OneOf
		if len(members) == 0 {
			members = s.AnyOf
		}
		for i, m := range members {
			id, err := ts.Select(fmt.Sprintf("%s_variant%d", t.Name, i+1), m)
			if err != nil {
				return err
			}
			t.Variants = append(t.Variants, id)
		}
		return nil
	case len(s.Enum) > 0 && isType(s, openapi3.TypeString):
		t.Kind = KindEnum
		for _, v := range s.Enum {
			t.Enum = append(t.Enum, fmt.Sprint(v))
		}
		return nil
	}

	t.Kind = KindObject
	props := make(map[string]*openapi3.SchemaRef)
	required := make(map[string]bool)
	if err := ts.collectProperties(s, props, required, 0); err != nil {
		return err
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make(map[string]bool, len(names))
	for i, name := range names {
		id, err := ts.Select(t.Name+"_"+name, props[name])
		if err != nil {
			return err
		}
		field := naming.Pascal(name)
		if field == "" {
			field = "Field" + strconv.Itoa(i)
		}
		for base, n := field, 2; fields[field]; n++ {
			field = base + strconv.Itoa(n)
		}
		fields[field] = true

		t.Properties = append(t.Properties, Property{
			Name:        name,
			Field:       field,
			Type:        id,
			Required:    required[name],
			Description: propertyDescription(props[name]),
		})
	}
	return nil
}

// collectProperties merges the properties of s and its allOf members.
func (ts *TypeSpace) collectProperties(s *openapi3.Schema, props map[string]*openapi3.SchemaRef, required map[string]bool, depth int) error {
	if depth > 32 {
		return nil
	}
	for _, part := range s.AllOf {
		value := part.Value
		if value == nil && part.Ref != "" {
			name := strings.TrimPrefix(part.Ref, SchemaRefPrefix)
			resolved := ts.schemas[name]
			if resolved == nil || resolved.Value == nil {
				return &oaserrors.ReferenceError{Ref: part.Ref, Kind: "schema", Unresolved: true}
			}
			value = resolved.Value
		}
		if value == nil {
			continue
		}
		if err := ts.collectProperties(value, props, required, depth+1); err != nil {
			return err
		}
	}
	for name, p := range s.Properties {
		props[name] = p
	}
	for _, name := range s.Required {
		required[name] = true
	}
	return nil
}

func propertyDescription(ref *openapi3.SchemaRef) string {
	if ref == nil || ref.Value == nil {
		return ""
	}
	return ref.Value.Description
}

func (ts *TypeSpace) newNamed(hint string, kind Kind, description string) *Type {
	name := naming.Pascal(hint)
	if name == "" {
		name = "Anonymous"
	}
	for base, n := name, 2; ts.names[name]; n++ {
		name = base + strconv.Itoa(n)
	}
	ts.names[name] = true

	t := &Type{ID: TypeID(len(ts.types)), Name: name, Kind: kind, Description: description}
	ts.types = append(ts.types, t)
	return t
}

// intern returns the existing structural type equal to t, or adds t.
func (ts *TypeSpace) intern(t *Type) TypeID {
	key := fmt.Sprintf("%d:%s:%d", t.Kind, t.Format, t.Elem)
	if id, ok := ts.structural[key]; ok {
		return id
	}
	t.ID = TypeID(len(ts.types))
	ts.types = append(ts.types, t)
	ts.structural[key] = t.ID
	return t.ID
}
