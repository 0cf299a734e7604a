package adapters

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// LogEmail is the default email capability: it logs the message instead of
// transmitting it.
type LogEmail struct {
	logger *slog.Logger
}

// NewLogEmail creates the logging email adapter.
func NewLogEmail(log *slog.Logger) *LogEmail {
	if log == nil {
		log = slog.Default()
	}
	return &LogEmail{logger: log.With(slog.String("adapter", "email"))}
}

// Send logs the message and reports success.
func (e *LogEmail) Send(ctx context.Context, msg Message) error {
	e.logger.Info("email suppressed (no mail transport configured)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}

// SMTPEmail delivers messages over SMTP.
type SMTPEmail struct {
	client *gomail.Client
	from   string
	logger *slog.Logger
}

// NewSMTPEmail creates an SMTP email adapter.
func NewSMTPEmail(log *slog.Logger, host string, port int, username, password, from string) (*SMTPEmail, error) {
	if log == nil {
		log = slog.Default()
	}
	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPEmail{
		client: client,
		from:   from,
		logger: log.With(slog.String("adapter", "smtp_email")),
	}, nil
}

// Send delivers the message, blocking until the transport finishes. There
// is no implicit retry; retry policy belongs to the caller.
func (e *SMTPEmail) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(e.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	if err := e.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
