package naming

import "strings"

// maxDescriptionLength is the maximum length for descriptions in Go comments
// before truncation.
const maxDescriptionLength = 200

// CleanDescription prepares an OpenAPI description for a one-line Go
// comment. It removes newlines, trims whitespace and truncates long text.
func CleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxDescriptionLength {
		// Truncate at rune boundary to avoid splitting multi-byte characters
		runes := []rune(s)
		if len(runes) > maxDescriptionLength-3 {
			s = string(runes[:maxDescriptionLength-3]) + "..."
		}
	}
	return s
}

// Comment formats text as Go comment lines, prefixing the first line with
// name. Blank lines inside text are kept as bare "//" lines so paragraphs
// survive; trailing blank lines are dropped.
func Comment(text, name, indent string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var buf strings.Builder
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		buf.WriteString(indent)
		buf.WriteString("//")
		if i == 0 && name != "" {
			buf.WriteString(" ")
			buf.WriteString(name)
		}
		if line != "" {
			buf.WriteString(" ")
			buf.WriteString(strings.TrimSpace(line))
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
