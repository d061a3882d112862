// Package email defines the outgoing email data model shared by the
// composer, the delivery engine, and the transport backends.
package email

import "fmt"

// Message is a fully rendered, single-recipient outgoing email.
type Message struct {
	FromName    string
	FromAddr    string
	ToName      string
	ToAddr      string
	Subject     string
	TextBody    string
	HtmlBody    string
	Attachments []Attachment
}

// Attachment represents a file attached to an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// FormatAddress renders an address header value, "Name <addr>" when a
// display name is present, the bare address otherwise.
func FormatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", name, addr)
}

// From returns the formatted From header value.
func (m *Message) From() string {
	return FormatAddress(m.FromName, m.FromAddr)
}

// To returns the formatted To header value.
func (m *Message) To() string {
	return FormatAddress(m.ToName, m.ToAddr)
}
