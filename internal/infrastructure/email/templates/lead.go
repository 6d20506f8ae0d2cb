package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// LeadField is one labelled line of a lead notification
type LeadField struct {
	Label string
	Value string
}

// LeadProps describes a contact or donation lead
type LeadProps struct {
	Heading string
	Fields  []LeadField
	Message string
}

var leadTemplate = template.Must(template.New("lead").Parse(`<h2 style="margin: 0 0 16px; color: #1e3a8a;">{{.Heading}}</h2>
<table role="presentation" cellpadding="4" cellspacing="0">
{{- range .Fields}}
  <tr><td style="color: #6b7280; padding-right: 12px;">{{.Label}}</td><td><strong>{{.Value}}</strong></td></tr>
{{- end}}
</table>
{{- if .Message}}
<p style="margin-top: 16px; white-space: pre-line;">{{.Message}}</p>
{{- end}}`))

// RenderLead renders the content block for a lead notification
func RenderLead(props LeadProps) (template.HTML, error) {
	var buf bytes.Buffer
	if err := leadTemplate.Execute(&buf, props); err != nil {
		return "", fmt.Errorf("render lead email: %w", err)
	}
	return template.HTML(buf.String()), nil
}
