// Package templates renders the HTML bodies of staff notification emails
package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// LayoutProps wraps a rendered content block
type LayoutProps struct {
	Preheader  string
	Content    template.HTML
	FooterText string
}

var layoutTemplate = template.Must(template.New("emailLayout").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta http-equiv="Content-Type" content="text/html; charset=UTF-8">
    <title>Orphan Care</title>
  </head>
  <body style="font-family: Helvetica, sans-serif; font-size: 16px; line-height: 1.4; background-color: #f4f5f6; margin: 0; padding: 0;">
    <span style="display: none; max-height: 0; overflow: hidden;">{{.Preheader}}</span>
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" width="100%" bgcolor="#f4f5f6">
      <tr>
        <td>&nbsp;</td>
        <td style="max-width: 600px; padding: 24px;" width="600">
          <div style="background: #ffffff; border: 1px solid #eaebed; border-radius: 16px; padding: 24px;">
            {{.Content}}
          </div>
          <p style="color: #9a9ea6; font-size: 14px; text-align: center; margin-top: 16px;">{{.FooterText}}</p>
        </td>
        <td>&nbsp;</td>
      </tr>
    </table>
  </body>
</html>`))

// RenderLayout executes the shared email frame
func RenderLayout(props LayoutProps) (string, error) {
	if props.FooterText == "" {
		props.FooterText = "Orphan Care website notification"
	}
	var buf bytes.Buffer
	if err := layoutTemplate.Execute(&buf, props); err != nil {
		return "", fmt.Errorf("render email layout: %w", err)
	}
	return buf.String(), nil
}
