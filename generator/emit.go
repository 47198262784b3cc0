package generator

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/erraggy/restgen/internal/naming"
	"github.com/erraggy/restgen/loader"
	"github.com/erraggy/restgen/typespace"
)

var placeholder = regexp.MustCompile(`\{([^{}]+)\}`)

// FileOutput accumulates the generated source of one resource group.
type FileOutput struct {
	Tag string
	// Head holds the package clause, imports, the resource type and
	// per-operation server constants.
	Head bytes.Buffer
	// Body holds the method definitions.
	Body bytes.Buffer
}

// method is everything needed to emit one generated function.
type method struct {
	GoName   string
	Resource string
	Op       *loader.Operation
	Class    Classification
	Plan     ParameterPlan
	Shape    ResponseShape
	// Server names the constant holding the operation's own server URL.
	Server string
}

func (r *run) newFileOutput(tag string) *FileOutput {
	out := &FileOutput{Tag: tag}
	fmt.Fprintf(&out.Head, "// Code generated by restgen. DO NOT EDIT.\n\npackage %s\n\n", r.packageName)
	out.Head.WriteString("import (\n")
	for _, imp := range []string{"context", "io", "net/url", "time", "", restclientImport, paginationImport} {
		if imp == "" {
			out.Head.WriteString("\n")
			continue
		}
		fmt.Fprintf(&out.Head, "\t%q\n", imp)
	}
	out.Head.WriteString(")\n\n")

	resource := naming.Pascal(tag)
	fmt.Fprintf(&out.Head, "// %s groups the %s operations.\n", resource, naming.Title(tag))
	fmt.Fprintf(&out.Head, "type %s struct {\n\tclient *restclient.Client\n}\n\n", resource)
	return out
}

// serverConst declares the operation's own server URL in the head.
func (r *run) serverConst(out *FileOutput, op *loader.Operation, c Classification) string {
	servers := op.Op.Servers
	if servers == nil || len(*servers) == 0 {
		if op.PathItem == nil || len(op.PathItem.Servers) == 0 {
			return ""
		}
		s := op.PathItem.Servers
		servers = &s
	}
	name := naming.Camel(c.Tag + "_" + c.OperationID + "_server")
	fmt.Fprintf(&out.Head, "// %s is the server declared by %s %s.\n", name, op.Method, op.Path)
	fmt.Fprintf(&out.Head, "const %s = %q\n\n", name, serverURL((*servers)[0]))
	return name
}

// serverURL substitutes variable defaults and drops a trailing slash.
func serverURL(s *openapi3.Server) string {
	if s == nil {
		return ""
	}
	u := placeholder.ReplaceAllStringFunc(s.URL, func(m string) string {
		name := m[1 : len(m)-1]
		if v := s.Variables[name]; v != nil && v.Default != "" {
			return v.Default
		}
		return m
	})
	return strings.TrimSuffix(u, "/")
}

func (r *run) writeDoc(buf *bytes.Buffer, m *method, lead string) {
	op := m.Op.Op
	summary := lead
	if summary == "" {
		switch {
		case op.Summary != "":
			summary = naming.CleanDescription(op.Summary)
		case op.Description != "":
			summary = naming.CleanDescription(op.Description)
		}
	}
	if summary == "" {
		fmt.Fprintf(buf, "// %s calls %s %s.\n", m.GoName, m.Op.Method, m.Op.Path)
	} else {
		buf.WriteString(naming.Comment(summary, m.GoName, ""))
		buf.WriteString("//\n")
		fmt.Fprintf(buf, "// %s %s\n", m.Op.Method, m.Op.Path)
	}

	var lines []string
	for _, p := range m.Plan.Positional {
		if text := r.paramDoc(p.Description, p.TypeID); text != "" {
			lines = append(lines, fmt.Sprintf("//   - %s: %s", p.GoName, text))
		}
	}
	if b := m.Plan.Body; b != nil {
		if text := r.paramDoc(b.Description, b.TypeID); text != "" {
			lines = append(lines, fmt.Sprintf("//   - %s: %s", b.GoName, text))
		}
	}
	if len(lines) > 0 {
		buf.WriteString("//\n")
		buf.WriteString(strings.Join(lines, "\n"))
		buf.WriteString("\n")
	}
	if op.Deprecated {
		buf.WriteString("//\n// Deprecated: This operation is deprecated.\n")
	}
}

// paramDoc prefers the longer of the parameter's own description and the
// documentation of its type.
func (r *run) paramDoc(description string, id typespace.TypeID) string {
	typeDoc := r.ts.Describe(id)
	if len(typeDoc) > len(description) {
		description = typeDoc
	}
	return naming.CleanDescription(description)
}

func (r *run) signature(m *method, results string) string {
	params := []string{"ctx context.Context"}
	for _, p := range m.Plan.Positional {
		params = append(params, p.GoName+" "+p.Type)
	}
	if b := m.Plan.Body; b != nil {
		params = append(params, b.GoName+" "+b.Type)
	}
	return fmt.Sprintf("func (s *%s) %s(%s) %s {\n", m.Resource, m.GoName, strings.Join(params, ", "), results)
}

func (m *method) args() string {
	args := []string{"ctx"}
	for _, p := range m.Plan.Positional {
		args = append(args, p.GoName)
	}
	if b := m.Plan.Body; b != nil {
		args = append(args, b.GoName)
	}
	return strings.Join(args, ", ")
}

// uriExpr renders the request path with parameters substituted.
func (r *run) uriExpr(m *method) string {
	var parts []string
	if m.Server != "" {
		parts = append(parts, m.Server)
	}
	var literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			parts = append(parts, strconv.Quote(literal.String()))
			literal.Reset()
		}
	}
	path := m.Op.Path
	pos := 0
	for _, loc := range placeholder.FindAllStringSubmatchIndex(path, -1) {
		literal.WriteString(path[pos:loc[0]])
		name := path[loc[2]:loc[3]]
		if p, ok := findPathParam(m.Plan.Path, name); ok {
			flush()
			parts = append(parts, "restclient.PathParam("+p.GoName+")")
		} else {
			literal.WriteString(path[loc[0]:loc[1]])
		}
		pos = loc[1]
	}
	literal.WriteString(path[pos:])
	flush()
	if len(parts) == 0 {
		return `""`
	}
	return strings.Join(parts, " + ")
}

func findPathParam(params []Param, name string) (Param, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// writePrelude emits the request setup shared by every method kind. It
// reports the message expression to pass to the client and whether err is
// already declared.
func (r *run) writePrelude(buf *bytes.Buffer, m *method, fail string) (msg string, errDeclared bool) {
	if m.Class.Reentrant {
		buf.WriteString("\tctx = restclient.Reentrant(ctx)\n")
	}
	fmt.Fprintf(buf, "\turi := %s\n", r.uriExpr(m))
	if len(m.Plan.Query) > 0 {
		buf.WriteString("\tq := url.Values{}\n")
		for _, p := range m.Plan.Query {
			fmt.Fprintf(buf, "\trestclient.AddQuery(q, %q, %s)\n", p.Name, p.GoName)
		}
		buf.WriteString("\turi = restclient.EncodeQuery(uri, q)\n")
	}

	msg = "restclient.Message{}"
	if b := m.Plan.Body; b != nil {
		msg = "msg"
		switch b.Kind {
		case BodyJSON:
			if nilable(b.Type) {
				buf.WriteString("\tvar msg restclient.Message\n")
				fmt.Fprintf(buf, "\tif %s != nil {\n", b.GoName)
				fmt.Fprintf(buf, "\t\tencoded, err := restclient.JSONBody(%s)\n", b.GoName)
				fmt.Fprintf(buf, "\t\tif err != nil {\n\t\t\t%s\n\t\t}\n", fail)
				buf.WriteString("\t\tmsg = encoded\n\t}\n")
			} else {
				fmt.Fprintf(buf, "\tmsg, err := restclient.JSONBody(%s)\n", b.GoName)
				fmt.Fprintf(buf, "\tif err != nil {\n\t\t%s\n\t}\n", fail)
				errDeclared = true
			}
		case BodyForm:
			fmt.Fprintf(buf, "\tmsg := restclient.FormBody(%s)\n", b.GoName)
		case BodyRaw:
			fmt.Fprintf(buf, "\tmsg := restclient.RawBody(%s, %q)\n", b.GoName, b.MediaType)
		}
	}
	if len(m.Plan.Header) > 0 {
		if msg != "msg" {
			buf.WriteString("\tvar msg restclient.Message\n")
			msg = "msg"
		}
		for _, p := range m.Plan.Header {
			fmt.Fprintf(buf, "\tmsg.SetHeader(%q, %s)\n", p.Name, p.GoName)
		}
	}
	return msg, errDeclared
}

func callExpr(httpMethod, msg string) string {
	switch httpMethod {
	case "GET", "POST", "PUT", "PATCH", "DELETE":
		verb := strings.ToUpper(httpMethod[:1]) + strings.ToLower(httpMethod[1:])
		return fmt.Sprintf("s.client.%s(ctx, uri, %s)", verb, msg)
	}
	return fmt.Sprintf("s.client.Do(ctx, %q, uri, %s)", httpMethod, msg)
}

// emitMethod writes a method issuing exactly one request. decode is the
// final return expression; an empty decode means the method returns only
// an error.
func (r *run) emitMethod(buf *bytes.Buffer, m *method, returnType, decode, lead string) {
	r.writeDoc(buf, m, lead)
	if returnType == "" {
		buf.WriteString(r.signature(m, "error"))
		msg, errDeclared := r.writePrelude(buf, m, "return err")
		op := ":="
		if errDeclared {
			op = "="
		}
		fmt.Fprintf(buf, "\t_, err %s %s\n", op, callExpr(m.Op.Method, msg))
		buf.WriteString("\treturn err\n}\n\n")
		return
	}

	zero := r.zeroValue(returnType)
	buf.WriteString(r.signature(m, "("+returnType+", error)"))
	msg, _ := r.writePrelude(buf, m, "return "+zero+", err")
	fmt.Fprintf(buf, "\tresp, err := %s\n", callExpr(m.Op.Method, msg))
	fmt.Fprintf(buf, "\tif err != nil {\n\t\treturn %s, err\n\t}\n", zero)
	fmt.Fprintf(buf, "\treturn %s\n}\n\n", decode)
}

// emitAllPages writes the method that walks every page.
func (r *run) emitAllPages(buf *bytes.Buffer, m *method, env *Envelope, p pager, single string) {
	r.writeDoc(buf, m, "")
	fmt.Fprintf(buf, "//\n// %s returns the items of every page, following the %s pagination of %s.\n", m.GoName, p.Driver, single)
	buf.WriteString(r.signature(m, "("+env.ItemsType+", error)"))
	msg, _ := r.writePrelude(buf, m, "return nil, err")
	fetcher := "s.client"
	if msg == "msg" {
		fetcher = "s.client.Pager(msg.Header)"
	}
	fmt.Fprintf(buf, "\treturn pagination.All[%s](ctx, %s, uri, %s)\n}\n\n", env.ItemType, fetcher, p.Expr)
}

// emitOverload writes a narrowly typed accessor for one union variant.
func (r *run) emitOverload(buf *bytes.Buffer, base, m *method, acc typespace.Accessor) {
	fmt.Fprintf(buf, "// %s calls %s and decodes the result as %s.\n", m.GoName, base.GoName, acc.Type)
	zero := r.zeroValue(acc.Type)
	buf.WriteString(r.signature(m, "("+acc.Type+", error)"))
	fmt.Fprintf(buf, "\tv, err := s.%s(%s)\n", base.GoName, base.args())
	fmt.Fprintf(buf, "\tif err != nil {\n\t\treturn %s, err\n\t}\n", zero)
	fmt.Fprintf(buf, "\treturn v.%s()\n}\n\n", acc.Method)
}

// overloadName derives the suffix of a union variant method: the variant
// name with the operation and tag prefixes removed.
func overloadName(c Classification, acc typespace.Accessor, index int) string {
	suffix := naming.Snake(acc.Name)
	suffix = strings.TrimPrefix(suffix, c.OperationID+"_")
	suffix = strings.TrimPrefix(suffix, "response_")
	for _, form := range tagForms(c.Tag) {
		if trimmed := strings.TrimPrefix(suffix, strings.Join(form, "_")+"_"); trimmed != suffix {
			suffix = trimmed
			break
		}
	}
	if suffix == "" {
		suffix = "variant" + strconv.Itoa(index+1)
	}
	return c.Name + "_" + suffix
}

func nilable(t string) bool {
	return t == "any" || strings.HasPrefix(t, "*") || strings.HasPrefix(t, "[]") || strings.HasPrefix(t, "map[")
}

// zeroValue returns the zero literal of a rendered Go type.
func (r *run) zeroValue(t string) string {
	if t == "" || nilable(t) || t == "io.Reader" {
		return "nil"
	}
	switch t {
	case "string":
		return `""`
	case "bool":
		return "false"
	case "int32", "int64", "float32", "float64":
		return "0"
	case "time.Time":
		return "time.Time{}"
	}
	for _, named := range r.ts.Named() {
		if named.Name == t && named.Kind == typespace.KindEnum {
			return `""`
		}
	}
	return t + "{}"
}
