package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailSender отправляет HTML письма через SMTP с implicit TLS (порт 465).
type EmailSender struct {
	host     string
	port     string
	username string
	password string
}

// NewEmailSender создаёт SMTP отправителя.
func NewEmailSender(host, port, username, password string) *EmailSender {
	return &EmailSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

// Send отправляет одно письмо всем получателям сразу.
func (e *EmailSender) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return fmt.Errorf("email: пустой список получателей")
	}

	from := e.username
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			htmlBody,
	)

	serverAddr := e.host + ":" + e.port

	tlsConfig := &tls.Config{
		ServerName: e.host,
	}

	dialer := &tls.Dialer{Config: tlsConfig}
	conn, err := dialer.DialContext(ctx, "tcp", serverAddr)
	if err != nil {
		return fmt.Errorf("email: не удалось подключиться к %s: %w", serverAddr, err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.host)
	if err != nil {
		return fmt.Errorf("email: не удалось создать SMTP клиент: %w", err)
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", e.username, e.password, e.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("email: ошибка авторизации: %w", err)
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("email: ошибка MAIL FROM: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("email: ошибка RCPT TO %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("email: ошибка DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("email: не удалось записать тело: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("email: не удалось завершить отправку: %w", err)
	}

	return nil
}
