package naming

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// goReservedWords contains Go keywords. Predeclared identifiers such as
// "error" can be shadowed and are left alone.
var goReservedWords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// Words splits s on every non-alphanumeric rune.
func Words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Snake converts s to snake_case.
// Example: "listWidgets" -> "list_widgets"
// Example: "IDs" -> "i_ds"
// Example: "v1/3d-secure" -> "v1_3d_secure"
//
// Digits stay attached to the letters around them, so version prefixes
// survive the conversion.
func Snake(s string) string {
	words := Words(s)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if strings.ContainsFunc(w, unicode.IsDigit) {
			out = append(out, snakeDigits(w))
			continue
		}
		out = append(out, strcase.ToSnake(w))
	}
	return strings.Join(out, "_")
}

// snakeDigits splits on lower-to-upper transitions only.
func snakeDigits(w string) string {
	var b strings.Builder
	var prev rune
	for i, r := range w {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return b.String()
}

// Pascal converts s to a PascalCase Go identifier.
// Example: "three_d_secure" -> "ThreeDSecure"
// Example: "3d" -> "T3D"
func Pascal(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(strcase.ToCamel(w))
	}
	name := b.String()
	if name == "" {
		return ""
	}
	if !unicode.IsLetter(rune(name[0])) {
		name = "T" + name
	}
	return name
}

// Camel converts s to a camelCase Go identifier, escaping Go keywords.
// Example: "starting_after" -> "startingAfter"
// Example: "type" -> "type_"
func Camel(s string) string {
	pascal := Pascal(s)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	i := 0
	// Lower a leading initialism as a unit: "HTTPClient" -> "httpClient".
	for i < len(runes) && unicode.IsUpper(runes[i]) {
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
		i++
	}
	return EscapeKeyword(string(runes))
}

// EscapeKeyword appends an underscore to Go keywords.
func EscapeKeyword(name string) string {
	if goReservedWords[name] {
		return name + "_"
	}
	return name
}

// IsKeyword reports whether name is a Go keyword.
func IsKeyword(name string) bool {
	return goReservedWords[name]
}

// Plural returns the plural form of the last word of a snake_case name.
// Example: "account" -> "accounts"
// Example: "payment_intent" -> "payment_intents"
func Plural(s string) string {
	return inflectLast(s, inflection.Plural)
}

// Singular returns the singular form of the last word of a snake_case name.
// Example: "widgets" -> "widget"
func Singular(s string) string {
	return inflectLast(s, inflection.Singular)
}

func inflectLast(s string, fn func(string) string) string {
	if s == "" {
		return s
	}
	idx := strings.LastIndexByte(s, '_')
	return s[:idx+1] + fn(s[idx+1:])
}

// Title converts a snake_case name to space separated title case.
// Example: "payment_intents" -> "Payment Intents"
func Title(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}
