package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"lead-dispatcher/internal/models"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
}

type sendMailFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers plaintext mail over SMTP, upgrading with STARTTLS
// when UseTLS is set.
type SMTPSender struct {
	config   SMTPConfig
	sendMail sendMailFunc
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	s := &SMTPSender{config: cfg}
	if cfg.UseTLS {
		s.sendMail = s.sendWithTLS
	} else {
		s.sendMail = smtp.SendMail
	}
	return s
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Send(ctx context.Context, msg models.Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.Username != "" && s.config.Password != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	return s.sendMail(addr, auth, msg.From, msg.To, []byte(s.buildMessage(msg)))
}

func (s *SMTPSender) buildMessage(msg models.Message) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", encodeHeader(msg.Subject)))
	builder.WriteString(fmt.Sprintf("Message-ID: %s\r\n", s.messageID(msg)))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(strings.ReplaceAll(msg.Text, "\n", "\r\n"))

	return builder.String()
}

// encodeHeader applies RFC 2047 encoding to non-ASCII subjects (the
// emergency subject starts with an emoji).
func encodeHeader(v string) string {
	for i := 0; i < len(v); i++ {
		if v[i] >= 0x80 {
			return mime.QEncoding.Encode("UTF-8", v)
		}
	}
	return v
}

func (s *SMTPSender) messageID(msg models.Message) string {
	local := "lead"
	if len(msg.To) > 0 {
		local = sanitizeLocalPart(msg.To[0])
	}
	return fmt.Sprintf("<%d.%s@%s>", time.Now().UnixNano(), local, s.config.Host)
}

func sanitizeLocalPart(email string) string {
	parts := strings.Split(email, "@")
	local := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, parts[0])

	if len(local) > 10 {
		local = local[:10]
	}
	if local == "" {
		return "lead"
	}
	return local
}

func (s *SMTPSender) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
