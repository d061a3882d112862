package message

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/soniachalia9-maker/bulkmail/internal/email"
	"github.com/soniachalia9-maker/bulkmail/internal/recipient"
)

// Renderer turns a composed Spec into per-recipient messages. The HTML
// wrapping and attachment contents are prepared once so every recipient
// gets an identical copy apart from the To header.
type Renderer struct {
	spec        Spec
	fromName    string
	fromAddr    string
	htmlBody    string
	attachments []email.Attachment
}

// NewRenderer prepares a Renderer for one campaign. It loads every
// attachment into memory and renders the HTML wrapper up front, so
// errors surface before any session is opened.
func NewRenderer(spec Spec, fromName, fromAddr string) (*Renderer, error) {
	r := &Renderer{
		spec:     spec,
		fromName: fromName,
		fromAddr: fromAddr,
	}

	if spec.HTML {
		html, err := WrapHTML(spec, time.Now())
		if err != nil {
			return nil, err
		}
		r.htmlBody = html
	}

	for _, path := range spec.Attachments {
		att, err := loadAttachment(path)
		if err != nil {
			return nil, err
		}
		r.attachments = append(r.attachments, att)
	}
	return r, nil
}

// Message renders the addressed copy for one recipient. The plain body
// is always present; HTML campaigns carry it as the first alternative.
func (r *Renderer) Message(rcpt recipient.Recipient) *email.Message {
	return &email.Message{
		FromName:    r.fromName,
		FromAddr:    r.fromAddr,
		ToName:      rcpt.Name,
		ToAddr:      rcpt.Email,
		Subject:     r.spec.Subject,
		TextBody:    r.spec.Body,
		HtmlBody:    r.htmlBody,
		Attachments: r.attachments,
	}
}

// loadAttachment reads a file and detects its MIME type by extension,
// defaulting to application/octet-stream.
func loadAttachment(path string) (email.Attachment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return email.Attachment{}, fmt.Errorf("failed to read attachment %s: %w", path, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return email.Attachment{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Content:     content,
	}, nil
}
