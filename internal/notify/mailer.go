// Package notify renders and delivers the monitor's email notifications.
package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/mbeckert/heatpump-monitor/internal/config"
	"github.com/mbeckert/heatpump-monitor/internal/errorlist"
)

// Mailer delivers notifications through the configured SMTP account. Each
// send opens one session and closes it on every exit path, including
// mid-protocol failures.
type Mailer struct {
	cfg config.SMTPConfig
	log *zap.Logger
}

// NewMailer builds a Mailer from the SMTP section of the config.
func NewMailer(cfg config.SMTPConfig, log *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// NewErrors sends the new-entries report. records must be non-empty; the
// orchestrator never calls this with an empty diff.
func (m *Mailer) NewErrors(ctx context.Context, records []errorlist.Record) error {
	html, err := RenderHTML(records)
	if err != nil {
		return err
	}
	return m.send(ctx, Subject(len(records)), RenderPlain(records), html)
}

// FetchFailure reports that the error list could not be retrieved.
func (m *Mailer) FetchFailure(ctx context.Context, cause error) error {
	html, err := RenderFailureHTML(cause)
	if err != nil {
		return err
	}
	return m.send(ctx, FetchFailureSubject(), RenderFailurePlain(cause), html)
}

// SimulateRecord is the synthetic entry --simulate pushes through the real
// delivery path.
func SimulateRecord() errorlist.Record {
	return errorlist.Record{
		Number:   "1",
		Code:     "E001",
		HeatPump: "WP1",
		Date:     "18.02.2026",
		Time:     "12:00:00",
	}
}

func (m *Mailer) send(ctx context.Context, subject, plain, html string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid from address %q: %w", m.cfg.From, err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return fmt.Errorf("invalid to address %q: %w", m.cfg.To, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, plain)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	client, err := m.client()
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail via %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}

	m.log.Debug("Mail delivered",
		zap.String("subject", subject),
		zap.String("to", m.cfg.To),
	)
	return nil
}

// sessionSettings is the delivery-relevant projection of the SMTP config:
// which TLS policy the session uses and whether it authenticates.
type sessionSettings struct {
	policy mail.TLSPolicy
	user   string
	token  string
	auth   bool
}

// settingsFor maps the config onto session settings: use_tls selects
// mandatory STARTTLS (the account runs on the submission port), and
// authentication happens only when both user and token are present.
func settingsFor(cfg config.SMTPConfig) sessionSettings {
	s := sessionSettings{policy: mail.NoTLS}
	if cfg.UseTLS {
		s.policy = mail.TLSMandatory
	}
	s.user, s.token, s.auth = cfg.Credentials()
	return s
}

func (m *Mailer) client() (*mail.Client, error) {
	s := settingsFor(m.cfg)
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(s.policy),
	}
	if s.auth {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.user),
			mail.WithPassword(s.token),
		)
	}
	return mail.NewClient(m.cfg.Host, opts...)
}
