package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/mbeckert/heatpump-monitor/internal/config"
	"github.com/mbeckert/heatpump-monitor/internal/errorlist"
)

func smtpConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:   "smtp.example.com",
		Port:   587,
		UseTLS: true,
		From:   "wp@example.com",
		To:     "operator@example.com",
	}
}

func TestSettingsFor(t *testing.T) {
	t.Run("TLSWithCredentials", func(t *testing.T) {
		cfg := smtpConfig()
		cfg.User = "wp@example.com"
		cfg.Token = "s3cret"

		s := settingsFor(cfg)
		assert.Equal(t, mail.TLSMandatory, s.policy)
		assert.True(t, s.auth)
		assert.Equal(t, "wp@example.com", s.user)
		assert.Equal(t, "s3cret", s.token)
	})

	t.Run("TLSWithoutCredentials", func(t *testing.T) {
		s := settingsFor(smtpConfig())
		assert.Equal(t, mail.TLSMandatory, s.policy)
		assert.False(t, s.auth)
	})

	t.Run("PlainWithCredentials", func(t *testing.T) {
		cfg := smtpConfig()
		cfg.UseTLS = false
		cfg.User = "wp@example.com"
		cfg.Token = "s3cret"

		s := settingsFor(cfg)
		assert.Equal(t, mail.NoTLS, s.policy)
		assert.True(t, s.auth)
	})

	t.Run("PlainWithoutCredentials", func(t *testing.T) {
		cfg := smtpConfig()
		cfg.UseTLS = false

		s := settingsFor(cfg)
		assert.Equal(t, mail.NoTLS, s.policy)
		assert.False(t, s.auth)
	})

	t.Run("PartialCredentialsSkipAuth", func(t *testing.T) {
		cfg := smtpConfig()
		cfg.User = "wp@example.com"
		cfg.Token = "   "

		assert.False(t, settingsFor(cfg).auth)
	})
}

func TestClient(t *testing.T) {
	t.Run("MandatoryStartTLS", func(t *testing.T) {
		m := NewMailer(smtpConfig(), zap.NewNop())
		c, err := m.client()
		require.NoError(t, err)
		assert.Equal(t, mail.TLSMandatory.String(), c.TLSPolicy())
		assert.Equal(t, "smtp.example.com:587", c.ServerAddr())
	})

	t.Run("TLSDisabled", func(t *testing.T) {
		cfg := smtpConfig()
		cfg.UseTLS = false
		m := NewMailer(cfg, zap.NewNop())
		c, err := m.client()
		require.NoError(t, err)
		assert.Equal(t, mail.NoTLS.String(), c.TLSPolicy())
	})
}

func TestSendRejectsInvalidAddresses(t *testing.T) {
	records := []errorlist.Record{SimulateRecord()}

	t.Run("From", func(t *testing.T) {
		cfg := smtpConfig()
		cfg.From = "not-an-address"
		m := NewMailer(cfg, zap.NewNop())

		err := m.NewErrors(context.Background(), records)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid from address")
	})

	t.Run("To", func(t *testing.T) {
		cfg := smtpConfig()
		cfg.To = "not-an-address"
		m := NewMailer(cfg, zap.NewNop())

		err := m.FetchFailure(context.Background(), assert.AnError)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid to address")
	})
}
