package generator

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/erraggy/restgen/internal/issues"
	"github.com/erraggy/restgen/internal/naming"
	"github.com/erraggy/restgen/loader"
	"github.com/erraggy/restgen/pagination"
	"github.com/erraggy/restgen/typespace"
)

const (
	restclientImport = "github.com/erraggy/restgen/restclient"
	paginationImport = "github.com/erraggy/restgen/pagination"
)

// reservedTypeNames are declared by the generated client file.
var reservedTypeNames = []string{"Client", "NewClient", "DefaultHost", "DefaultUserAgent"}

// run holds the state of one generation pass: the type space, the
// function-name set and the per-tag outputs.
type run struct {
	gen         *Generator
	doc         *loader.Document
	profile     *VendorProfile
	packageName string
	logger      loader.Logger

	ts         *typespace.TypeSpace
	planner    *planner
	inferencer *inferencer
	names      nameSet

	outputs map[string]*FileOutput
	tags    []string
	issues  []issues.Issue

	operations int
	functions  int
}

func newRun(g *Generator, doc *loader.Document, profile *VendorProfile, packageName string) *run {
	ts := typespace.New(nil)
	if doc.Spec.Components != nil {
		ts = typespace.New(doc.Spec.Components.Schemas)
	}
	return &run{
		gen:         g,
		doc:         doc,
		profile:     profile,
		packageName: packageName,
		logger:      g.logger().With("vendor", profile.Name),
		ts:          ts,
		planner:     newPlanner(profile, ts, doc.Spec),
		inferencer: &inferencer{
			profile:       profile,
			ts:            ts,
			spec:          doc.Spec,
			firstDeclared: g.FirstDeclaredResponse,
		},
		names:   make(nameSet),
		outputs: make(map[string]*FileOutput),
	}
}

func (r *run) execute() error {
	classes := make([]Classification, len(r.doc.Operations))
	seen := make(map[string]bool)
	for i, op := range r.doc.Operations {
		c, err := classify(r.profile, op)
		if err != nil {
			return err
		}
		classes[i] = c
		if !seen[c.Tag] {
			seen[c.Tag] = true
			r.tags = append(r.tags, c.Tag)
		}
	}

	r.ts.Reserve(reservedTypeNames...)
	for _, tag := range r.tags {
		r.ts.Reserve(naming.Pascal(tag))
	}
	if err := r.declareComponents(); err != nil {
		return err
	}

	for i, op := range r.doc.Operations {
		r.logger.Debug("generating operation", "operation", op.String(), "tag", classes[i].Tag)
		if err := r.emitOperation(op, classes[i]); err != nil {
			return err
		}
	}
	return nil
}

// declareComponents registers every component schema so that each is
// declared under its own name.
func (r *run) declareComponents() error {
	if r.doc.Spec.Components == nil {
		return nil
	}
	for _, name := range sortedKeys(r.doc.Spec.Components.Schemas) {
		if _, err := r.ts.SelectRef(typespace.SchemaRefPrefix + name); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) output(tag string) *FileOutput {
	out, ok := r.outputs[tag]
	if !ok {
		out = r.newFileOutput(tag)
		r.outputs[tag] = out
	}
	return out
}

func (r *run) emitOperation(op *loader.Operation, c Classification) error {
	out := r.output(c.Tag)
	plan, err := r.planner.plan(op, c, false)
	if err != nil {
		return err
	}
	r.recordDropped(op, c, plan.Dropped)

	shape, warning, err := r.inferencer.infer(op, c)
	if err != nil {
		return err
	}
	if warning != "" {
		r.addIssue(op, c, SeverityWarning, issues.CodeResponseShapeUnrecognized, warning)
		r.logger.Warn("response shape unrecognized", "operation", op.String(), "media_type", shape.MediaType)
	}

	base := &method{
		Resource: naming.Pascal(c.Tag),
		Op:       op,
		Class:    c,
		Plan:     plan,
		Shape:    shape,
		Server:   r.serverConst(out, op, c),
	}
	r.operations++

	if env := shape.Envelope; env != nil && op.Method == http.MethodGet {
		p, err := selectDriver(r.profile, r.ts, env, c.OperationID)
		if err != nil {
			return err
		}
		allPlan, err := r.planner.plan(op, c, true, p.CursorParams...)
		if err != nil {
			return err
		}
		allPlan.Body = nil

		singleName, allName := pageNames(c.Name)
		base.GoName = r.claim(op, c, singleName)
		decode := fmt.Sprintf("restclient.DecodeField[%s](resp, %q)", env.ItemsType, pagination.FieldPath(env.Property))
		if env.Property == "" {
			decode = fmt.Sprintf("restclient.Decode[%s](resp)", env.ItemsType)
		}
		r.emitMethod(&out.Body, base, env.ItemsType, decode, "")

		all := &method{
			GoName:   r.claim(op, c, allName),
			Resource: base.Resource,
			Op:       op,
			Class:    c,
			Plan:     allPlan,
			Shape:    shape,
			Server:   base.Server,
		}
		r.emitAllPages(&out.Body, all, env, p, base.GoName)
		r.functions += 2
		r.addIssue(op, c, SeverityInfo, "", fmt.Sprintf("paginated with the %s driver as %s and %s", p.Driver, base.GoName, all.GoName))
		return nil
	}

	base.GoName = r.claim(op, c, c.Name)
	if shape.Unit() {
		r.emitMethod(&out.Body, base, "", "", "")
	} else {
		r.emitMethod(&out.Body, base, shape.ReturnType, fmt.Sprintf("restclient.Decode[%s](resp)", shape.ReturnType), "")
	}
	r.functions++

	for i, acc := range r.ts.UnionAccessors(shape.TypeID) {
		overload := &method{
			GoName:   r.claim(op, c, overloadName(c, acc, i)),
			Resource: base.Resource,
			Op:       op,
			Class:    c,
			Plan:     plan,
			Shape:    shape,
		}
		r.emitOverload(&out.Body, base, overload, acc)
		r.functions++
	}
	return nil
}

func (r *run) claim(op *loader.Operation, c Classification, name string) string {
	goName, collided := r.names.claim(c.Tag, name)
	if collided {
		r.addIssue(op, c, SeverityInfo, issues.CodeNameCollision,
			fmt.Sprintf("function %s already exists in %s; emitted as %s", naming.Pascal(name), c.Tag, goName))
	}
	return goName
}

func (r *run) recordDropped(op *loader.Operation, c Classification, dropped []string) {
	for _, d := range dropped {
		r.addIssue(op, c, SeverityInfo, issues.CodeParameterDropped, "parameter "+d+" dropped from the signature")
	}
}

func (r *run) addIssue(op *loader.Operation, c Classification, severity Severity, code, message string) {
	r.issues = append(r.issues, issues.Issue{
		Path:     fmt.Sprintf("paths.%s.%s", op.Path, strings.ToLower(op.Method)),
		Message:  message,
		Severity: severity,
		Code:     code,
		Operation: &issues.Operation{
			Method:      op.Method,
			Path:        op.Path,
			OperationID: c.OperationID,
			Tag:         c.Tag,
		},
	})
}

// files assembles and formats every output file. Go files come first:
// client.go, types.go, then one file per tag in first-seen order.
func (r *run) files() []GeneratedFile {
	var files []GeneratedFile
	files = append(files, r.goFile("client.go", r.clientSource()))
	if src := r.typesSource(); src != nil {
		files = append(files, r.goFile("types.go", src))
	}

	taken := map[string]bool{"client.go": true, "types.go": true, "doc.go": true}
	for _, tag := range r.tags {
		out := r.outputs[tag]
		name := fileNameFor(tag, taken)
		var src bytes.Buffer
		src.Write(out.Head.Bytes())
		src.Write(out.Body.Bytes())
		files = append(files, r.goFile(name, src.Bytes()))
	}

	if r.gen.GenerateReadme {
		files = append(files, GeneratedFile{Name: "README.md", Content: []byte(r.readme(files))})
	}
	return files
}

func (r *run) goFile(name string, src []byte) GeneratedFile {
	formatted, err := formatAndFixImports(name, src)
	if err != nil {
		r.issues = append(r.issues, issues.Issue{
			Path:     name,
			Message:  fmt.Sprintf("could not format generated code: %v", err),
			Severity: SeverityWarning,
			Code:     issues.CodeFormatFailed,
		})
		r.logger.Warn("format failed", "file", name, "error", err)
		return GeneratedFile{Name: name, Content: src}
	}
	return GeneratedFile{Name: name, Content: formatted}
}

func (r *run) typesSource() []byte {
	decls := r.ts.Declarations()
	if strings.TrimSpace(decls) == "" {
		return nil
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by restgen. DO NOT EDIT.\n\npackage %s\n\n", r.packageName)
	buf.WriteString("import (\n\t\"encoding/json\"\n\t\"time\"\n)\n\n")
	buf.WriteString(decls)
	return buf.Bytes()
}

// resources summarizes the generated resource types for the README.
func (r *run) resources() []ResourceSummary {
	counts := make(map[string]int)
	for key := range r.names {
		tag, _, _ := strings.Cut(key, ".")
		counts[tag]++
	}
	out := make([]ResourceSummary, 0, len(r.tags))
	for _, tag := range r.tags {
		out = append(out, ResourceSummary{Tag: tag, TypeName: naming.Pascal(tag), Functions: counts[tag]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
