// Package ses implements a Transport that delivers mail via AWS SES v2.
package ses

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/soniachalia9-maker/bulkmail/internal/email"
)

// Options holds the configuration for creating a SES Transport.
type Options struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Transport sends messages via the AWS SES v2 API. SES is an HTTP API
// with no persistent session, so Connect only validates configuration
// and Close is a no-op.
type Transport struct {
	client SendEmailAPI
}

// SendEmailAPI is the interface for the SES v2 SendEmail operation.
// Used for testing with mock implementations.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// New creates a SES Transport with the given configuration.
func New(ctx context.Context, opts Options) (*Transport, error) {
	if opts.Region == "" {
		return nil, fmt.Errorf("SES region is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))

	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Transport{client: sesv2.NewFromConfig(awsCfg)}, nil
}

// NewWithClient creates a Transport with a custom client, used for testing.
func NewWithClient(client SendEmailAPI) *Transport {
	return &Transport{client: client}
}

// Connect validates that the transport was constructed with a client.
// There is no session to open against the SES API.
func (t *Transport) Connect(_ context.Context) error {
	if t.client == nil {
		return fmt.Errorf("SES client not configured")
	}
	return nil
}

// Send delivers one message via AWS SES v2. Messages with attachments
// are built as raw MIME; simple messages use the SES content format.
func (t *Transport) Send(ctx context.Context, msg *email.Message) error {
	var input *sesv2.SendEmailInput

	if len(msg.Attachments) > 0 {
		raw, err := buildRawMessage(msg)
		if err != nil {
			return fmt.Errorf("failed to build raw message: %w", err)
		}
		input = &sesv2.SendEmailInput{
			FromEmailAddress: aws.String(msg.From()),
			Destination: &types.Destination{
				ToAddresses: []string{msg.ToAddr},
			},
			Content: &types.EmailContent{
				Raw: &types.RawMessage{
					Data: raw,
				},
			},
		}
	} else {
		input = buildSimpleInput(msg)
	}

	if _, err := t.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("SES API request failed: %w", err)
	}
	return nil
}

// Close is a no-op; the SES API has no session to tear down.
func (t *Transport) Close() error {
	return nil
}

// Name returns the transport name.
func (t *Transport) Name() string {
	return "ses"
}

// buildSimpleInput creates a SES SendEmailInput for messages without
// attachments. When both bodies are set SES delivers them as
// alternative representations.
func buildSimpleInput(msg *email.Message) *sesv2.SendEmailInput {
	body := &types.Body{}

	if msg.TextBody != "" {
		body.Text = &types.Content{
			Data:    aws.String(msg.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if msg.HtmlBody != "" {
		body.Html = &types.Content{
			Data:    aws.String(msg.HtmlBody),
			Charset: aws.String("UTF-8"),
		}
	}

	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From()),
		Destination: &types.Destination{
			ToAddresses: []string{msg.ToAddr},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: body,
			},
		},
	}
}

// buildRawMessage constructs a raw MIME message for messages with
// attachments. Text and HTML bodies go into a nested
// multipart/alternative part, plain text first.
func buildRawMessage(msg *email.Message) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", msg.From())
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To())
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")

	mixed := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixed.Boundary())

	if err := writeBodyParts(mixed, msg); err != nil {
		return nil, err
	}

	for _, att := range msg.Attachments {
		attHeader := make(textproto.MIMEHeader)
		attHeader.Set("Content-Type", att.ContentType)
		attHeader.Set("Content-Transfer-Encoding", "base64")
		attHeader.Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%s", mime.QEncoding.Encode("UTF-8", att.Filename)))

		part, err := mixed.CreatePart(attHeader)
		if err != nil {
			return nil, fmt.Errorf("failed to create attachment part: %w", err)
		}
		part.Write([]byte(encodeBase64WithLineBreaks(att.Content)))
	}

	mixed.Close()
	return buf.Bytes(), nil
}

// writeBodyParts writes the message bodies into the mixed multipart.
// A message with both bodies gets a nested multipart/alternative.
func writeBodyParts(mixed *multipart.Writer, msg *email.Message) error {
	if msg.TextBody != "" && msg.HtmlBody != "" {
		var alt bytes.Buffer
		altWriter := multipart.NewWriter(&alt)

		if err := writeTextPart(altWriter, "text/plain", msg.TextBody); err != nil {
			return err
		}
		if err := writeTextPart(altWriter, "text/html", msg.HtmlBody); err != nil {
			return err
		}
		altWriter.Close()

		altHeader := make(textproto.MIMEHeader)
		altHeader.Set("Content-Type",
			fmt.Sprintf("multipart/alternative; boundary=%q", altWriter.Boundary()))
		part, err := mixed.CreatePart(altHeader)
		if err != nil {
			return fmt.Errorf("failed to create alternative part: %w", err)
		}
		part.Write(alt.Bytes())
		return nil
	}

	if msg.HtmlBody != "" {
		return writeTextPart(mixed, "text/html", msg.HtmlBody)
	}
	return writeTextPart(mixed, "text/plain", msg.TextBody)
}

// writeTextPart writes one text body part with a UTF-8 charset.
func writeTextPart(w *multipart.Writer, contentType, body string) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", contentType+"; charset=UTF-8")
	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create body part: %w", err)
	}
	part.Write([]byte(body))
	return nil
}

// encodeBase64WithLineBreaks encodes bytes to base64 with 76-character
// line breaks per RFC 2045.
func encodeBase64WithLineBreaks(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	var lines []string
	for i := 0; i < len(encoded); i += 76 {
		end := i + 76
		if end > len(encoded) {
			end = len(encoded)
		}
		lines = append(lines, encoded[i:end])
	}
	return strings.Join(lines, "\r\n")
}
