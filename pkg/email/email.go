// Package email sends invoice documents over SMTP.
package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
)

// ErrNotConfigured is returned by Send when no SMTP host or sender is set.
var ErrNotConfigured = errors.New("email: smtp is not configured")

// Config holds SMTP configuration
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// Attachment is a file sent with a message.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Message is one outgoing email.
type Message struct {
	To          string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends messages through a single SMTP relay.
type Mailer struct {
	config Config
	send   sendFunc
}

// NewMailer creates a new SMTP mailer
func NewMailer(config Config) *Mailer {
	return &Mailer{config: config, send: smtp.SendMail}
}

// Configured reports whether Send can reach a relay.
func (m *Mailer) Configured() bool {
	return m != nil && m.config.SMTPHost != "" && m.config.FromEmail != ""
}

// Send delivers msg. The context is only checked before dialing since
// net/smtp has no cancellation.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(msg.To, "\r\n") || strings.ContainsAny(msg.Subject, "\r\n") {
		return errors.New("email: header values must not contain line breaks")
	}

	raw, err := m.build(msg)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.config.SMTPHost, m.config.SMTPPort)
	var auth smtp.Auth
	if m.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", m.config.SMTPUsername, m.config.SMTPPassword, m.config.SMTPHost)
	}

	if err := m.send(addr, auth, m.config.FromEmail, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// build renders msg as a multipart/mixed MIME message.
func (m *Mailer) build(msg Message) ([]byte, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	html, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {`text/html; charset="UTF-8"`},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, err
	}
	if err := writeBase64(html, []byte(msg.HTMLBody)); err != nil {
		return nil, err
	}

	for _, a := range msg.Attachments {
		part, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {a.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": a.FileName})},
		})
		if err != nil {
			return nil, err
		}
		if err := writeBase64(part, a.Data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	from := m.config.FromEmail
	if m.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.config.FromName), m.config.FromEmail)
	}
	fmt.Fprintf(&out, "From: %s\r\n", from)
	fmt.Fprintf(&out, "To: %s\r\n", msg.To)
	fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	out.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", w.Boundary())
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

// writeBase64 writes data base64 encoded in 76 character lines.
func writeBase64(w interface{ Write([]byte) (int, error) }, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		if _, err := fmt.Fprintf(w, "%s\r\n", encoded[:76]); err != nil {
			return err
		}
		encoded = encoded[76:]
	}
	_, err := fmt.Fprintf(w, "%s\r\n", encoded)
	return err
}

// InvoiceNote is the data for the cover note sent with an invoice.
type InvoiceNote struct {
	StoreName     string
	CustomerName  string
	InvoiceNumber string
	Amount        string
}

// RenderInvoiceNote renders the HTML cover note for an emailed invoice.
func RenderInvoiceNote(note InvoiceNote) (string, error) {
	var buf bytes.Buffer
	if err := invoiceNoteTemplate.Execute(&buf, note); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var invoiceNoteTemplate = template.Must(template.New("invoice_note").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Invoice {{.InvoiceNumber}}</title></head>
<body style="margin: 0; padding: 24px; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; color: #1a1a2e;">
    <p>Dear {{if .CustomerName}}{{.CustomerName}}{{else}}Customer{{end}},</p>
    <p>Please find attached invoice <strong>{{.InvoiceNumber}}</strong> for <strong>{{.Amount}}</strong>.</p>
    <p>Thank you for your business.</p>
    {{if .StoreName}}<p style="color: #718096;">{{.StoreName}}</p>{{end}}
</body>
</html>
`))
