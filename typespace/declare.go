package typespace

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/erraggy/restgen/internal/naming"
)

// Named returns every named type sorted by name.
func (ts *TypeSpace) Named() []*Type {
	var out []*Type
	for _, t := range ts.types[1:] {
		if t.Kind.Named() {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Declarations renders Go declarations for every named type. The output
// has no package clause or imports; callers wrap and format it.
func (ts *TypeSpace) Declarations() string {
	var buf bytes.Buffer
	for _, t := range ts.Named() {
		switch t.Kind {
		case KindObject:
			ts.writeStruct(&buf, t)
		case KindEnum:
			writeEnum(&buf, t)
		case KindUnion:
			ts.writeUnion(&buf, t)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

// FieldType returns the Go type of a struct field. Optional fields are
// pointers unless the type already has a usable zero value (slices, maps,
// bytes and any).
func (ts *TypeSpace) FieldType(owner TypeID, p Property) string {
	base := ts.renderElem(p.Type)
	t, ok := ts.Type(p.Type)
	if !ok {
		return base
	}
	switch t.Kind {
	case KindArray, KindMap, KindBytes, KindAny:
		return base
	}
	if !p.Required || p.Type == owner {
		return "*" + base
	}
	return base
}

func (ts *TypeSpace) writeStruct(buf *bytes.Buffer, t *Type) {
	writeDoc(buf, t)
	fmt.Fprintf(buf, "type %s struct {\n", t.Name)
	for _, p := range t.Properties {
		if p.Description != "" {
			buf.WriteString(naming.Comment(p.Description, "", "\t"))
		}
		tag := p.Name
		if !p.Required {
			tag += ",omitempty"
		}
		fmt.Fprintf(buf, "\t%s %s `json:%s`\n", p.Field, ts.FieldType(t.ID, p), strconv.Quote(tag))
	}
	buf.WriteString("}\n")
}

func writeEnum(buf *bytes.Buffer, t *Type) {
	writeDoc(buf, t)
	fmt.Fprintf(buf, "type %s string\n\n", t.Name)
	buf.WriteString("const (\n")
	seen := make(map[string]bool, len(t.Enum))
	for i, v := range t.Enum {
		name := t.Name + naming.Pascal(v)
		if name == t.Name || seen[name] {
			name = t.Name + "Value" + strconv.Itoa(i+1)
		}
		seen[name] = true
		fmt.Fprintf(buf, "\t%s %s = %s\n", name, t.Name, strconv.Quote(v))
	}
	buf.WriteString(")\n")
}

func (ts *TypeSpace) writeUnion(buf *bytes.Buffer, t *Type) {
	writeDoc(buf, t)
	if t.Description == "" {
		fmt.Fprintf(buf, "// %s holds one of several JSON shapes. Use an As method to decode it.\n", t.Name)
	}
	fmt.Fprintf(buf, "type %s struct {\n\tjson.RawMessage\n}\n", t.Name)
	for _, v := range ts.UnionAccessors(t.ID) {
		fmt.Fprintf(buf, "\n// %s decodes the value as %s.\n", v.Method, v.Type)
		fmt.Fprintf(buf, "func (u %s) %s() (%s, error) {\n", t.Name, v.Method, v.Type)
		fmt.Fprintf(buf, "\tvar v %s\n", v.Type)
		buf.WriteString("\terr := json.Unmarshal(u.RawMessage, &v)\n")
		buf.WriteString("\treturn v, err\n}\n")
	}
}

// Accessor names the decode method for one union variant.
type Accessor struct {
	// Variant is the member type.
	Variant TypeID
	// Name is the variant's identifier-friendly name.
	Name string
	// Method is the accessor method, "As" + Name.
	Method string
	// Type is the Go spelling of the variant.
	Type string
}

// UnionAccessors lists the accessors of a union in variant order. Variant
// names are made unique with numeric suffixes.
func (ts *TypeSpace) UnionAccessors(id TypeID) []Accessor {
	t, ok := ts.Type(id)
	if !ok || t.Kind != KindUnion {
		return nil
	}
	seen := make(map[string]bool, len(t.Variants))
	out := make([]Accessor, 0, len(t.Variants))
	for i, v := range t.Variants {
		name := ts.NameOf(v)
		if name == "" {
			name = "Variant" + strconv.Itoa(i+1)
		}
		for base, n := name, 2; seen[name]; n++ {
			name = base + strconv.Itoa(n)
		}
		seen[name] = true
		out = append(out, Accessor{Variant: v, Name: name, Method: "As" + name, Type: ts.renderElem(v)})
	}
	return out
}

func writeDoc(buf *bytes.Buffer, t *Type) {
	if t.Description != "" {
		buf.WriteString(naming.Comment(t.Description, t.Name, ""))
	}
}
