package smtp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/soniachalia9-maker/bulkmail/internal/email"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tr, err := New(Options{
		Server:   "smtp.example.com",
		Port:     587,
		Username: "op@example.com",
		Password: "secret",
		UseSSL:   true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tr.Name(); got != "smtp" {
		t.Errorf("Name(): got %q, want %q", got, "smtp")
	}
}

func TestBuildMsg_PlainText(t *testing.T) {
	t.Parallel()

	m, err := buildMsg(&email.Message{
		FromName: "Operator",
		FromAddr: "op@example.com",
		ToName:   "Jane Smith",
		ToAddr:   "jane@example.com",
		Subject:  "Hello",
		TextBody: "plain body",
	})
	if err != nil {
		t.Fatalf("buildMsg: %v", err)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"op@example.com",
		"Jane Smith",
		"jane@example.com",
		"Subject: Hello",
		"plain body",
		"text/plain",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("message missing %q", want)
		}
	}
	if strings.Contains(out, "text/html") {
		t.Error("plain message must not carry an HTML part")
	}
}

func TestBuildMsg_HTMLAlternativePlainFirst(t *testing.T) {
	t.Parallel()

	m, err := buildMsg(&email.Message{
		FromAddr: "op@example.com",
		ToAddr:   "jane@example.com",
		Subject:  "Hello",
		TextBody: "plain fallback",
		HtmlBody: "<p>styled body</p>",
	})
	if err != nil {
		t.Fatalf("buildMsg: %v", err)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "multipart/alternative") {
		t.Error("expected multipart/alternative message")
	}
	textIdx := strings.Index(out, "text/plain")
	htmlIdx := strings.Index(out, "text/html")
	if textIdx < 0 || htmlIdx < 0 {
		t.Fatal("missing body parts")
	}
	if textIdx > htmlIdx {
		t.Error("plain text part must come before the HTML part")
	}
}

func TestBuildMsg_Attachment(t *testing.T) {
	t.Parallel()

	m, err := buildMsg(&email.Message{
		FromAddr: "op@example.com",
		ToAddr:   "jane@example.com",
		Subject:  "Hello",
		TextBody: "see attached",
		Attachments: []email.Attachment{
			{Filename: "notes.txt", ContentType: "text/plain", Content: []byte("attachment data")},
		},
	})
	if err != nil {
		t.Fatalf("buildMsg: %v", err)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "multipart/mixed") {
		t.Error("expected multipart/mixed message")
	}
	if !strings.Contains(out, "notes.txt") {
		t.Error("attachment filename missing")
	}
}

func TestBuildMsg_InvalidRecipient(t *testing.T) {
	t.Parallel()

	_, err := buildMsg(&email.Message{
		FromAddr: "op@example.com",
		ToAddr:   "not an address",
		TextBody: "hi",
	})
	if err == nil {
		t.Fatal("expected error for invalid recipient address")
	}
}
