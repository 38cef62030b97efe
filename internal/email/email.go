// Package email sends application emails with the rendered documents
// attached over SMTP.
package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var sendMail = smtp.SendMail

// Config holds the SMTP connection and addressing settings.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"-"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// Attachment is one file included with a message.
type Attachment struct {
	Filename string
	Data     []byte
}

// Message is one outgoing application email.
type Message struct {
	Subject     string
	Body        string
	Attachments []Attachment
}

// Sender delivers messages through a single SMTP account.
type Sender struct {
	cfg    Config
	logger *zap.Logger
}

func NewSender(cfg Config, logger *zap.Logger) (*Sender, error) {
	switch {
	case strings.TrimSpace(cfg.Host) == "":
		return nil, fmt.Errorf("email: smtp host is required")
	case cfg.Port <= 0:
		return nil, fmt.Errorf("email: smtp port is required")
	case strings.TrimSpace(cfg.From) == "":
		return nil, fmt.Errorf("email: from address is required")
	case strings.TrimSpace(cfg.To) == "":
		return nil, fmt.Errorf("email: to address is required")
	}

	return &Sender{cfg: cfg, logger: logger}, nil
}

// Send delivers one message. Authentication uses PLAIN over the connection
// net/smtp negotiates; the server is expected to offer STARTTLS.
func (s *Sender) Send(msg Message) error {
	payload, err := buildMessage(s.cfg.From, s.cfg.To, msg)
	if err != nil {
		return fmt.Errorf("building email: %w", err)
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := sendMail(addr, auth, s.cfg.From, []string{s.cfg.To}, payload); err != nil {
		return fmt.Errorf("sending email to %s: %w", s.cfg.To, err)
	}

	s.logger.Info("sent application email",
		zap.String("to", s.cfg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)),
	)

	return nil
}

func buildMessage(from, to string, msg Message) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", sanitizeHeader(msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n", w.Boundary())
	buf.WriteString("\r\n")

	// The header block above is written to buf directly, so the multipart
	// writer only sees the parts that follow.
	body, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := body.Write([]byte(msg.Body)); err != nil {
		return nil, err
	}

	for _, att := range msg.Attachments {
		name := filepath.Base(att.Filename)
		part, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {"application/octet-stream"},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", name)},
		})
		if err != nil {
			return nil, err
		}

		encoded := base64.StdEncoding.EncodeToString(att.Data)
		for len(encoded) > 0 {
			n := 76
			if n > len(encoded) {
				n = len(encoded)
			}
			if _, err := part.Write([]byte(encoded[:n] + "\r\n")); err != nil {
				return nil, err
			}
			encoded = encoded[n:]
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
