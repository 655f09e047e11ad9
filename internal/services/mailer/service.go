// Package mailer delivers finished reports by email over SMTP with the
// rendered PDF attached. Bodies and attachments are base64-encoded with
// RFC 2045 line breaks so large documents survive mail server line
// length limits.
package mailer

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
)

// Attachment represents an email attachment
type Attachment struct {
	Filename    string // Filename for the attachment
	ContentType string // MIME type (e.g., "application/pdf", "text/markdown")
	Content     []byte // Raw content bytes
}

// Service sends report delivery emails using the [email] configuration.
type Service struct {
	config common.EmailConfig
	logger arbor.ILogger
}

// NewService creates a mailer bound to the given delivery configuration.
func NewService(config common.EmailConfig, logger arbor.ILogger) *Service {
	if config.Port <= 0 {
		config.Port = 587
	}
	if config.FromName == "" {
		config.FromName = "Indago"
	}
	return &Service{
		config: config,
		logger: logger,
	}
}

// Enabled reports whether delivery is switched on and configured with
// the minimum required settings.
func (s *Service) Enabled() bool {
	return s.config.Enabled && s.config.Host != "" && s.config.From != "" && len(s.config.To) > 0
}

// SendReport emails the finished report to the configured recipients.
// The PDF is attached when it exists; otherwise the markdown artifact is
// attached in its place so the recipient always gets the document.
func (s *Service) SendReport(ctx context.Context, report *models.Report, pdfPath, markdownPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.Enabled() {
		return fmt.Errorf("email delivery is not configured")
	}

	subject := s.subject(report)
	htmlBody, textBody := reportBodies(report)
	attachments := s.loadAttachments(pdfPath, markdownPath)

	msg := buildMessage(s.config, s.config.To, subject, htmlBody, textBody, attachments)

	if err := s.send(s.config.To, msg); err != nil {
		s.logger.Error().
			Err(err).
			Str("ticker", report.Ticker).
			Str("host", s.config.Host).
			Msg("Failed to send report email")
		return fmt.Errorf("failed to send report email: %w", err)
	}

	s.logger.Info().
		Str("ticker", report.Ticker).
		Int("recipients", len(s.config.To)).
		Int("attachments", len(attachments)).
		Msg("Report email sent")

	return nil
}

// subject builds "<prefix> <Company> (<TICKER>) Investment Report - <date>".
func (s *Service) subject(report *models.Report) string {
	date := report.GeneratedAt.Format("2006-01-02")
	subject := fmt.Sprintf("%s (%s) Investment Report - %s", report.CompanyName, report.Ticker, date)
	if prefix := strings.TrimSpace(s.config.SubjectPrefix); prefix != "" {
		subject = prefix + " " + subject
	}
	return subject
}

// reportBodies renders the HTML and plain text message bodies. The
// document itself travels as an attachment, the body is a short cover
// note.
func reportBodies(report *models.Report) (string, string) {
	date := report.GeneratedAt.Format("January 2, 2006")
	sectionCount := fmt.Sprintf("%d", len(report.Sections))

	htmlBody := `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { font-family: Georgia, 'Times New Roman', serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
h2 { color: #1a1a2e; border-bottom: 2px solid #1a1a2e; padding-bottom: 8px; }
.meta { color: #666; font-size: 14px; }
.footer { margin-top: 30px; font-size: 12px; color: #999; border-top: 1px solid #ddd; padding-top: 10px; }
</style>
</head>
<body>
<h2>` + report.CompanyName + ` (` + report.Ticker + `) Investment Report</h2>
<p class="meta">Generated ` + date + ` · ` + sectionCount + ` sections</p>
<p>Your investment research report for ` + report.CompanyName + ` is attached.</p>
<p>The report covers the planned research sections with cited sources and
an executive summary. Figures and citations reflect data retrieved at
generation time.</p>
<div class="footer">Generated by Indago. This report is for research purposes and is not investment advice.</div>
</body>
</html>`

	textBody := report.CompanyName + " (" + report.Ticker + ") Investment Report\n" +
		"Generated " + date + " with " + sectionCount + " sections.\n\n" +
		"The report document is attached.\n\n" +
		"Generated by Indago. This report is for research purposes and is not investment advice.\n"

	return htmlBody, textBody
}

// loadAttachments prefers the PDF artifact and falls back to markdown
// when the PDF is missing.
func (s *Service) loadAttachments(pdfPath, markdownPath string) []Attachment {
	if pdfPath != "" {
		if data, err := os.ReadFile(pdfPath); err == nil && len(data) > 0 {
			return []Attachment{{
				Filename:    filepath.Base(pdfPath),
				ContentType: "application/pdf",
				Content:     data,
			}}
		}
	}

	if markdownPath != "" {
		if data, err := os.ReadFile(markdownPath); err == nil && len(data) > 0 {
			s.logger.Warn().
				Str("pdf", pdfPath).
				Str("markdown", markdownPath).
				Msg("PDF artifact missing, attaching markdown instead")
			return []Attachment{{
				Filename:    filepath.Base(markdownPath),
				ContentType: "text/markdown",
				Content:     data,
			}}
		}
	}

	s.logger.Warn().
		Str("pdf", pdfPath).
		Str("markdown", markdownPath).
		Msg("No report artifact found to attach")
	return nil
}

// buildMessage assembles the full RFC 5322 message. With attachments the
// message is multipart/mixed wrapping a multipart/alternative body part;
// without, it is multipart/alternative only.
func buildMessage(config common.EmailConfig, to []string, subject, htmlBody, textBody string, attachments []Attachment) string {
	altBoundary := generateBoundary()

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", config.FromName, config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	mixedBoundary := ""
	if len(attachments) > 0 {
		mixedBoundary = generateBoundary()
		msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", mixedBoundary))
		msg.WriteString("\r\n")
		msg.WriteString(fmt.Sprintf("--%s\r\n", mixedBoundary))
	}

	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", altBoundary))
	msg.WriteString("\r\n")

	// Plain text part - base64 encoded for safety with long lines
	if textBody != "" {
		msg.WriteString(fmt.Sprintf("--%s\r\n", altBoundary))
		msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(encodeBase64WithLineBreaks(textBody))
		msg.WriteString("\r\n")
	}

	// HTML part - RFC 5322 limits line length to 998 chars; base64
	// keeps large report bodies compliant
	if htmlBody != "" {
		msg.WriteString(fmt.Sprintf("--%s\r\n", altBoundary))
		msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(encodeBase64WithLineBreaks(htmlBody))
		msg.WriteString("\r\n")
	}

	msg.WriteString(fmt.Sprintf("--%s--\r\n", altBoundary))

	if len(attachments) > 0 {
		for _, att := range attachments {
			msg.WriteString(fmt.Sprintf("--%s\r\n", mixedBoundary))
			contentType := att.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			msg.WriteString(fmt.Sprintf("Content-Type: %s; name=\"%s\"\r\n", contentType, att.Filename))
			msg.WriteString("Content-Transfer-Encoding: base64\r\n")
			msg.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", att.Filename))
			msg.WriteString("\r\n")
			msg.WriteString(encodeBase64WithLineBreaks(string(att.Content)))
			msg.WriteString("\r\n")
		}
		msg.WriteString(fmt.Sprintf("--%s--\r\n", mixedBoundary))
	}

	return msg.String()
}

// send connects to the SMTP server and submits the message to every
// recipient.
func (s *Service) send(to []string, msg string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	if s.config.UseTLS {
		return s.sendWithTLS(addr, auth, s.config.From, to, msg)
	}

	return smtp.SendMail(addr, auth, s.config.From, to, []byte(msg))
}

// sendWithTLS sends over a direct TLS connection (Gmail, etc.), falling
// back to STARTTLS when the server does not accept implicit TLS.
func (s *Service) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg string) error {
	host := strings.Split(addr, ":")[0]

	conn, err := tls.Dial("tcp", addr, &tls.Config{
		ServerName: host,
	})
	if err != nil {
		return s.sendWithSTARTTLS(addr, auth, from, to, msg)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	return submit(client, auth, from, to, msg)
}

// sendWithSTARTTLS sends using a plain connection upgraded with STARTTLS.
func (s *Service) sendWithSTARTTLS(addr string, auth smtp.Auth, from string, to []string, msg string) error {
	host := strings.Split(addr, ":")[0]

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	return submit(client, auth, from, to, msg)
}

// submit runs the SMTP envelope exchange on an established client.
func submit(client *smtp.Client, auth smtp.Auth, from string, to []string, msg string) error {
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set mail from: %w", err)
	}

	for _, recipient := range to {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set mail recipient %s: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start data: %w", err)
	}

	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// generateBoundary creates a unique MIME boundary string
// Uses crypto/rand for uniqueness to avoid collisions with content
func generateBoundary() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "indago_boundary_fallback"
	}
	return fmt.Sprintf("indago_%x", b)
}

// encodeBase64WithLineBreaks encodes content as base64 with 76-char line
// breaks per RFC 2045 for MIME content.
func encodeBase64WithLineBreaks(content string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(content))

	var result strings.Builder
	const lineLen = 76

	for i := 0; i < len(encoded); i += lineLen {
		end := i + lineLen
		if end > len(encoded) {
			end = len(encoded)
		}
		result.WriteString(encoded[i:end])
		if end < len(encoded) {
			result.WriteString("\r\n")
		}
	}

	return result.String()
}
