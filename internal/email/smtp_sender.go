package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"
	"time"
)

const defaultAppName = "PrediSalaire"

// SMTPSender envia codigos de un solo uso via SMTP.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     mail.Address
	useTLS   bool
	now      func() time.Time
}

func NewSMTPSender(host string, port int, username, password, from, fromName string, useTLS bool) (*SMTPSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp from is required")
	}
	if port == 0 {
		port = 587
	}
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     mail.Address{Name: strings.TrimSpace(fromName), Address: strings.TrimSpace(from)},
		useTLS:   useTLS,
		now:      time.Now,
	}, nil
}

func (s *SMTPSender) SendCode(_ context.Context, toEmail string, code string, purpose Purpose, expiresAt time.Time) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("to email is required")
	}

	appName := s.from.Name
	if appName == "" {
		appName = defaultAppName
	}
	sentAt := s.now()
	subject, body, err := renderCode(appName, code, purpose, expiresAt.Sub(sentAt))
	if err != nil {
		return err
	}
	msg := codeMessage{
		from:    s.from,
		to:      toEmail,
		subject: subject,
		purpose: purpose,
		sentAt:  sentAt,
		body:    body,
	}
	if err := s.deliver(toEmail, msg.bytes()); err != nil {
		return fmt.Errorf("deliver %s code: %w", purpose, err)
	}
	return nil
}

func (s *SMTPSender) deliver(to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	if !s.useTLS {
		return smtp.SendMail(addr, auth, s.from.Address, []string{to}, msg)
	}

	// TLS implicito (puerto 465): STARTTLS no aplica.
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(s.from.Address); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write(msg); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

// codeMessage es el correo HTML de un codigo. El proposito viaja en X-PrediSalaire-Purpose.
type codeMessage struct {
	from    mail.Address
	to      string
	subject string
	purpose Purpose
	sentAt  time.Time
	body    string
}

func (m codeMessage) bytes() []byte {
	var b strings.Builder
	header := func(name, value string) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	from := m.from.Address
	if m.from.Name != "" {
		from = m.from.String()
	}
	header("From", from)
	header("To", m.to)
	header("Subject", mime.QEncoding.Encode("UTF-8", m.subject))
	if !m.sentAt.IsZero() {
		header("Date", m.sentAt.Format(time.RFC1123Z))
	}
	header("X-PrediSalaire-Purpose", string(m.purpose))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="UTF-8"`)
	b.WriteString("\r\n")
	b.WriteString(m.body)
	return []byte(b.String())
}
