package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"

	"storefront/internal/domain"
)

// defaultSendTimeout bounds a whole SMTP conversation, connect included.
const defaultSendTimeout = 30 * time.Second

// Message is a plain-text email.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// SMTPMailer delivers messages through the SMTP server in the email settings.
type SMTPMailer struct {
	timeout time.Duration
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{timeout: defaultSendTimeout}
}

// Send composes msg with gomail and delivers it. The connection carries a
// deadline of at most the mailer timeout and is aborted when ctx is done, so
// no goroutine outlives the call.
func (m *SMTPMailer) Send(ctx context.Context, settings *domain.EmailSettings, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}

	email := gomail.NewMessage()
	email.SetHeader("From", msg.From)
	email.SetHeader("To", msg.To...)
	email.SetHeader("Subject", msg.Subject)
	email.SetBody("text/plain", msg.Body)

	sender := gomail.SendFunc(func(from string, to []string, body io.WriterTo) error {
		return m.deliver(ctx, settings, from, to, body)
	})

	if err := gomail.Send(sender, email); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("mail: send via %s:%d: %w", settings.SMTPHost, settings.SMTPPort, err)
	}
	return nil
}

func (m *SMTPMailer) deliver(ctx context.Context, settings *domain.EmailSettings, from string, to []string, body io.WriterTo) error {
	addr := net.JoinHostPort(settings.SMTPHost, strconv.Itoa(settings.SMTPPort))

	dialer := net.Dialer{Timeout: m.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(m.timeout)); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	tlsConfig := &tls.Config{ServerName: settings.SMTPHost}

	// Port 465 is implicit TLS, like gomail's Dialer.
	implicitTLS := settings.SMTPPort == 465
	if implicitTLS {
		conn = tls.Client(conn, tlsConfig)
	}

	c, err := smtp.NewClient(conn, settings.SMTPHost)
	if err != nil {
		return err
	}
	defer c.Close()

	if !implicitTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsConfig); err != nil {
				return err
			}
		}
	}

	if settings.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", settings.Username, settings.Password, settings.SMTPHost)); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := body.WriteTo(w); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.Quit()
}
