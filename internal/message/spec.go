// Package message builds the campaign message: the composed spec, the
// HTML template wrapping, and the per-recipient rendering.
package message

import (
	"fmt"
	"strings"
	"text/template"
	"time"
)

// DefaultSubject is used when the operator leaves the subject empty.
const DefaultSubject = "No Subject"

// Spec is the composed campaign message, immutable once sending starts.
type Spec struct {
	Subject     string
	Body        string
	HTML        bool
	Attachments []string
}

// htmlWrapper is the fixed styled template HTML campaigns are wrapped
// in. The raw body is inserted as-is apart from newline conversion.
var htmlWrapper = template.Must(template.New("html").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            background-color: #4CAF50;
            color: white;
            padding: 20px;
            text-align: center;
            border-radius: 5px;
        }
        .content {
            background-color: #f9f9f9;
            padding: 20px;
            border: 1px solid #ddd;
            border-radius: 5px;
            margin-top: 20px;
        }
        .footer {
            margin-top: 30px;
            font-size: 12px;
            color: #777;
            text-align: center;
            border-top: 1px solid #eee;
            padding-top: 10px;
        }
    </style>
</head>
<body>
    <div class="header">
        <h2>{{.Subject}}</h2>
    </div>
    <div class="content">
        {{.Body}}
    </div>
    <div class="footer">
        <p>Sent using bulkmail</p>
        <p>{{.Timestamp}}</p>
    </div>
</body>
</html>
`))

// WrapHTML renders the spec body into the styled HTML template,
// converting newlines to <br> markup. No other transformation is done.
func WrapHTML(spec Spec, now time.Time) (string, error) {
	var b strings.Builder
	err := htmlWrapper.Execute(&b, struct {
		Subject   string
		Body      string
		Timestamp string
	}{
		Subject:   spec.Subject,
		Body:      strings.ReplaceAll(spec.Body, "\n", "<br>\n"),
		Timestamp: now.Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render HTML template: %w", err)
	}
	return b.String(), nil
}
