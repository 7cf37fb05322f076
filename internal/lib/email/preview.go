package email

import (
	"fmt"
	"sort"
)

// PreviewData holds sample data for every template, keyed by template
// and then by template variable.
var PreviewData = map[Template]map[string]string{
	TemplatePostCreated: {
		"PostID": "1",
		"Title":  "Example Post",
		"Body":   "Just a test",
	},
}

// PreviewTemplates lists the templates that have preview data, sorted.
func PreviewTemplates() []Template {
	names := make([]Template, 0, len(PreviewData))
	for name := range PreviewData {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Preview renders a template with its sample data.
func Preview(name Template) (string, error) {
	data, ok := PreviewData[name]
	if !ok {
		return "", fmt.Errorf("no preview data for email template %q", name)
	}
	return Render(name, data)
}
