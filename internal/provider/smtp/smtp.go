// Package smtp implements a Transport that delivers mail over an
// authenticated SMTP session.
package smtp

import (
	"bytes"
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"

	"github.com/soniachalia9-maker/bulkmail/internal/email"
)

// Options holds the connection parameters for an SMTP session.
type Options struct {
	Server   string
	Port     int
	Username string
	Password string
	// UseSSL upgrades the connection with STARTTLS after connecting.
	UseSSL bool
}

// Transport sends messages through a single dialed SMTP session.
type Transport struct {
	client *mail.Client
}

// New creates an SMTP Transport. No connection is made until Connect.
func New(opts Options) (*Transport, error) {
	tlsPolicy := mail.NoTLS
	if opts.UseSSL {
		tlsPolicy = mail.TLSMandatory
	}

	client, err := mail.NewClient(opts.Server,
		mail.WithPort(opts.Port),
		mail.WithTLSPolicy(tlsPolicy),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(opts.Username),
		mail.WithPassword(opts.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &Transport{client: client}, nil
}

// Connect dials the server and authenticates. A failure here means the
// batch must not start.
func (t *Transport) Connect(ctx context.Context) error {
	if err := t.client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("connection/login failed: %w", err)
	}
	return nil
}

// Send delivers one message over the dialed session.
func (t *Transport) Send(_ context.Context, msg *email.Message) error {
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}
	if err := t.client.Send(m); err != nil {
		return fmt.Errorf("delivery failed: %w", err)
	}
	return nil
}

// Close terminates the SMTP session.
func (t *Transport) Close() error {
	return t.client.Close()
}

// Name returns the transport name.
func (t *Transport) Name() string {
	return "smtp"
}

// buildMsg converts the rendered message into a go-mail message. HTML
// campaigns carry the plain body first with the HTML part as the
// alternative representation.
func buildMsg(msg *email.Message) (*mail.Msg, error) {
	m := mail.NewMsg()

	if err := m.FromFormat(msg.FromName, msg.FromAddr); err != nil {
		return nil, fmt.Errorf("invalid sender address %s: %w", msg.FromAddr, err)
	}
	if err := m.AddToFormat(msg.ToName, msg.ToAddr); err != nil {
		return nil, fmt.Errorf("invalid recipient address %s: %w", msg.ToAddr, err)
	}

	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HtmlBody != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HtmlBody)
	}

	for _, att := range msg.Attachments {
		if err := m.AttachReader(att.Filename, bytes.NewReader(att.Content)); err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", att.Filename, err)
		}
	}
	return m, nil
}
