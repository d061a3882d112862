package message

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/soniachalia9-maker/bulkmail/internal/console"
	"github.com/soniachalia9-maker/bulkmail/internal/recipient"
)

func TestWrapHTML(t *testing.T) {
	t.Parallel()

	spec := Spec{
		Subject: "Big News",
		Body:    "line one\nline two",
		HTML:    true,
	}

	html, err := WrapHTML(spec, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("WrapHTML: %v", err)
	}

	if !strings.Contains(html, "<h2>Big News</h2>") {
		t.Error("subject missing from header section")
	}
	if !strings.Contains(html, "line one<br>\nline two") {
		t.Error("newlines not converted to <br> markup")
	}
	if !strings.Contains(html, "2026-08-01 12:00:00") {
		t.Error("timestamp missing from footer")
	}
	for _, section := range []string{"header", "content", "footer"} {
		if !strings.Contains(html, `class="`+section+`"`) {
			t.Errorf("section %q missing from template", section)
		}
	}
}

func TestCompose_DefaultsAndSentinel(t *testing.T) {
	t.Parallel()

	script := console.NewScript(
		"",  // subject -> default
		"1", // plain text
		"Hello there",
		"second line",
		"end", // sentinel, case-insensitive
		"n",   // no attachments
	)

	spec := Compose(script)
	if spec.Subject != DefaultSubject {
		t.Errorf("Subject: got %q, want %q", spec.Subject, DefaultSubject)
	}
	if spec.HTML {
		t.Error("HTML: got true, want false")
	}
	if spec.Body != "Hello there\nsecond line" {
		t.Errorf("Body: got %q", spec.Body)
	}
	if len(spec.Attachments) != 0 {
		t.Errorf("Attachments: got %v, want none", spec.Attachments)
	}
}

func TestCompose_RejectsMissingAttachments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	real := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(real, []byte("data"), 0o600); err != nil {
		t.Fatal(err)
	}

	script := console.NewScript(
		"Subject",
		"2", // HTML
		"body",
		"END",
		"y", // add attachments
		filepath.Join(dir, "missing.pdf"),
		real,
		"done",
	)

	spec := Compose(script)
	if !spec.HTML {
		t.Error("HTML: got false, want true")
	}
	if len(spec.Attachments) != 1 || spec.Attachments[0] != real {
		t.Errorf("Attachments: got %v, want [%s]", spec.Attachments, real)
	}
	if !strings.Contains(script.Output(), "File not found") {
		t.Error("expected missing attachment to be reported")
	}
}

func TestRenderer_PersonalizesRecipients(t *testing.T) {
	t.Parallel()

	spec := Spec{Subject: "Hi", Body: "plain body", HTML: true}
	r, err := NewRenderer(spec, "Operator", "op@example.com")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	named := r.Message(recipient.Recipient{Name: "Jane Smith", Email: "jane@example.com"})
	if named.To() != "Jane Smith <jane@example.com>" {
		t.Errorf("To: got %q", named.To())
	}
	if named.From() != "Operator <op@example.com>" {
		t.Errorf("From: got %q", named.From())
	}
	if named.TextBody != "plain body" {
		t.Errorf("TextBody: got %q", named.TextBody)
	}
	if !strings.Contains(named.HtmlBody, "plain body") {
		t.Error("HtmlBody missing the wrapped body")
	}

	bare := r.Message(recipient.Recipient{Email: "bob@example.com"})
	if bare.To() != "bob@example.com" {
		t.Errorf("To without name: got %q", bare.To())
	}
}

func TestRenderer_LoadsAttachments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("attachment data"), 0o600); err != nil {
		t.Fatal(err)
	}

	spec := Spec{Subject: "Hi", Body: "body", Attachments: []string{path}}
	r, err := NewRenderer(spec, "", "op@example.com")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	msg := r.Message(recipient.Recipient{Email: "jane@example.com"})
	if len(msg.Attachments) != 1 {
		t.Fatalf("attachments: got %d, want 1", len(msg.Attachments))
	}
	att := msg.Attachments[0]
	if att.Filename != "notes.txt" {
		t.Errorf("Filename: got %q", att.Filename)
	}
	if string(att.Content) != "attachment data" {
		t.Errorf("Content: got %q", att.Content)
	}
	if !strings.HasPrefix(att.ContentType, "text/plain") {
		t.Errorf("ContentType: got %q", att.ContentType)
	}
	if msg.HtmlBody != "" {
		t.Error("plain campaign should have no HTML body")
	}
}

func TestRenderer_MissingAttachmentFails(t *testing.T) {
	t.Parallel()

	spec := Spec{Subject: "Hi", Body: "body", Attachments: []string{"/does/not/exist.bin"}}
	if _, err := NewRenderer(spec, "", "op@example.com"); err == nil {
		t.Fatal("expected error for missing attachment")
	}
}
