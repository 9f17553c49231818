package automation

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*\}\}`)

// RenderTemplate replaces {{field.path}} with values from the event. Unknown paths render empty.
func RenderTemplate(text string, event Event) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := event.Lookup(path)
		if !ok {
			return ""
		}
		return formatValue(value)
	})
}
