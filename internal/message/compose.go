package message

import (
	"os"
	"strings"

	"github.com/soniachalia9-maker/bulkmail/internal/console"
)

// bodySentinel terminates multi-line body entry.
const bodySentinel = "END"

// Compose collects a message Spec interactively: subject, body type,
// body lines until the sentinel, and attachment paths. Attachment paths
// that do not exist are rejected and excluded.
func Compose(p console.Prompter) Spec {
	spec := Spec{}

	spec.Subject = console.AskDefault(p, "Subject: ", DefaultSubject)

	p.Say("Email body type:")
	p.Say("1. Plain Text")
	p.Say("2. HTML")
	choice, _ := p.Ask("Enter choice (1-2): ")
	spec.HTML = choice == "2"

	p.Say("Enter your email content. Type '%s' on a new line when finished.", bodySentinel)
	var lines []string
	for {
		line, err := p.Ask("")
		if err != nil {
			break
		}
		if strings.EqualFold(line, bodySentinel) {
			break
		}
		lines = append(lines, line)
	}
	spec.Body = strings.Join(lines, "\n")

	if console.Confirm(p, "Add attachments?") {
		p.Say("Enter attachment filenames (one per line), type 'done' when finished:")
		for {
			path, err := p.Ask("> ")
			if err != nil || strings.EqualFold(path, "done") {
				break
			}
			if path == "" {
				continue
			}
			if _, err := os.Stat(path); err != nil {
				p.Say("✗ File not found: %s", path)
				continue
			}
			spec.Attachments = append(spec.Attachments, path)
			p.Say("✓ Added: %s", path)
		}
	}

	p.Say("")
	p.Say("Preview:")
	p.Say("  Subject: %s", spec.Subject)
	if spec.HTML {
		p.Say("  Body type: HTML")
	} else {
		p.Say("  Body type: Plain Text")
	}
	p.Say("  Body length: %d characters", len(spec.Body))
	p.Say("  Attachments: %d files", len(spec.Attachments))

	return spec
}
