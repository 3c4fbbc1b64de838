package notification

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message is one plain-text notification mail.
type Message struct {
	ID      string
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends through an SMTP relay with gomail.
type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		fromName: "建築会社マッチング",
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mail := gomail.NewMessage()
	mail.SetHeader("From", mail.FormatAddress(m.from, m.fromName))
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	if msg.ReplyTo != "" {
		mail.SetHeader("Reply-To", msg.ReplyTo)
	}
	if msg.ID != "" {
		mail.SetHeader("X-Notification-ID", msg.ID)
	}
	mail.SetBody("text/plain", msg.Body)
	return m.dialer.DialAndSend(mail)
}

// LogMailer only logs; it stands in when SMTP is not configured.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("notification mail (smtp disabled)",
		zap.String("notification_id", msg.ID),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
