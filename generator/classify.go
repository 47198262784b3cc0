package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/erraggy/restgen/internal/naming"
	"github.com/erraggy/restgen/loader"
	"github.com/erraggy/restgen/oaserrors"
)

// verbs are leading operation-id words that may precede the tag.
var verbs = map[string]bool{
	"get": true, "list": true, "create": true, "update": true, "delete": true,
	"put": true, "post": true, "patch": true, "head": true, "options": true,
	"retrieve": true, "search": true, "set": true, "add": true, "remove": true,
	"replace": true, "cancel": true, "check": true,
}

// Classification is the identity of one operation: its snake_case id, the
// resource tag it belongs to and the base function name within that tag.
type Classification struct {
	OperationID string
	Tag         string
	// Name is the snake_case function name with the tag removed.
	Name string
	// Verb is the lower-case HTTP method.
	Verb string
	// Reentrant operations skip the client's request editors.
	Reentrant bool
}

func classify(profile *VendorProfile, op *loader.Operation) (Classification, error) {
	verb := strings.ToLower(op.Method)
	c := Classification{Verb: verb}

	if op.Op != nil && op.Op.OperationID != "" {
		c.OperationID = naming.Snake(op.Op.OperationID)
	}
	if c.OperationID == "" {
		c.OperationID = synthesizeOperationID(profile, verb, op.Path)
	}

	tag, err := resolveTag(profile, op)
	if err != nil {
		return Classification{}, err
	}
	c.Tag = tag
	c.Name = functionName(profile, c.OperationID, tag, verb)
	c.Reentrant = profile.isReentrant(c.OperationID) || extensionBool(op, profile.ReentrantExtension)
	return c, nil
}

// synthesizeOperationID joins the verb and path segments, e.g.
// GET /v1/widgets/{id}/parts -> get_widgets_by_id_parts.
func synthesizeOperationID(profile *VendorProfile, verb, path string) string {
	parts := []string{verb}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || profile.isVersionSegment(seg) {
			continue
		}
		if name, ok := templateParam(seg); ok {
			parts = append(parts, "by_"+naming.Snake(name))
			continue
		}
		if s := naming.Snake(seg); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "_")
}

func templateParam(seg string) (string, bool) {
	if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
		return seg[1 : len(seg)-1], true
	}
	return "", false
}

func resolveTag(profile *VendorProfile, op *loader.Operation) (string, error) {
	raw := ""
	if op.Op != nil && len(op.Op.Tags) > 0 {
		raw = op.Op.Tags[0]
	}
	if raw == "" {
		raw = extensionTag(op, profile.TagExtension)
	}
	if raw == "" {
		raw = pathTag(profile, op.Path)
	}
	tag := normalizeTag(profile, raw)
	if tag == "" {
		return "", &oaserrors.SpecError{
			Method:  op.Method,
			Path:    op.Path,
			Message: "no tag can be derived from tags, " + profile.TagExtension + " or the path",
		}
	}
	return tag, nil
}

// extensionTag reads a string or the first entry of a list extension.
func extensionTag(op *loader.Operation, key string) string {
	if op.Op == nil || key == "" {
		return ""
	}
	switch v := op.Op.Extensions[key].(type) {
	case string:
		return v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				return s
			}
		}
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func extensionBool(op *loader.Operation, key string) bool {
	if op.Op == nil || key == "" {
		return false
	}
	b, _ := op.Op.Extensions[key].(bool)
	return b
}

// pathTag returns the first literal path segment that is not a version prefix.
func pathTag(profile *VendorProfile, path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || profile.isVersionSegment(seg) {
			continue
		}
		if _, ok := templateParam(seg); ok {
			continue
		}
		return seg
	}
	return ""
}

func normalizeTag(profile *VendorProfile, raw string) string {
	tag := naming.Snake(raw)
	if tag == "" {
		return ""
	}
	if renamed, ok := profile.TagRenames[tag]; ok {
		return renamed
	}
	for _, prefix := range profile.TagPrefixTrim {
		if trimmed := strings.TrimPrefix(tag, naming.Snake(prefix)+"_"); trimmed != tag && trimmed != "" {
			tag = trimmed
			break
		}
	}
	tag = naming.Plural(tag)
	if renamed, ok := profile.TagRenames[tag]; ok {
		return renamed
	}
	return tag
}

// functionName removes the tag from the operation id when it leads the id
// or directly follows a leading verb.
func functionName(profile *VendorProfile, operationID, tag, verb string) string {
	tokens := strings.Split(operationID, "_")
	forms := tagForms(tag)

	name := operationID
	if n, ok := stripTokens(tokens, 0, forms); ok {
		name = n
	} else if len(tokens) > 1 && verbs[tokens[0]] {
		if n, ok := stripTokens(tokens, 1, forms); ok {
			name = n
		}
	}
	name = strings.Trim(name, "_")

	for _, from := range sortedKeys(profile.NameRewrites) {
		name = strings.ReplaceAll(name, from, profile.NameRewrites[from])
	}
	name = strings.Trim(name, "_")
	if name == "" {
		return verb
	}
	return name
}

// tagForms returns the token sequences of the plural and singular tag,
// longest first.
func tagForms(tag string) [][]string {
	forms := [][]string{strings.Split(tag, "_")}
	if singular := naming.Singular(tag); singular != tag {
		forms = append(forms, strings.Split(singular, "_"))
	}
	return forms
}

func stripTokens(tokens []string, at int, forms [][]string) (string, bool) {
	for _, form := range forms {
		if at+len(form) > len(tokens) {
			continue
		}
		match := true
		for i, f := range form {
			if tokens[at+i] != f {
				match = false
				break
			}
		}
		if match {
			rest := append(append([]string{}, tokens[:at]...), tokens[at+len(form):]...)
			return strings.Join(rest, "_"), true
		}
	}
	return "", false
}

// pageNames returns the single-page and all-pages function names of a
// paginated operation.
func pageNames(name string) (single, all string) {
	if !strings.Contains(name, "_") {
		return name + "_page", name + "_all"
	}
	padded := "_" + name + "_"
	switch {
	case strings.Contains(padded, "_get_"):
		all = strings.Replace(padded, "_get_", "_get_all_", 1)
	case strings.Contains(padded, "_list_"):
		all = strings.Replace(padded, "_list_", "_list_all_", 1)
	default:
		all = "get_all_" + name
	}
	return name, strings.Trim(all, "_")
}

// nameSet tracks emitted function names per tag for one run.
type nameSet map[string]bool

// claim reserves a unique Go method name for a snake_case name in tag.
// Collisions get the singular tag appended, then a numeric suffix.
func (s nameSet) claim(tag, name string) (string, bool) {
	goName := naming.Pascal(name)
	if !s[tag+"."+goName] {
		s[tag+"."+goName] = true
		return goName, false
	}
	base := naming.Pascal(name + "_" + naming.Singular(tag))
	goName = base
	for n := 2; s[tag+"."+goName]; n++ {
		goName = fmt.Sprintf("%s%d", base, n)
	}
	s[tag+"."+goName] = true
	return goName, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
