package mail

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swarmfeedback/internal/config"
)

func TestNew_PicksImplementation(t *testing.T) {
	assert.IsType(t, LogMailer{}, New(config.SMTPConfig{}))
	assert.IsType(t, &SMTPMailer{}, New(config.SMTPConfig{Host: "smtp.example.com", Port: 587}))
}

func TestSMTPMailer_Send(t *testing.T) {
	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	m := &SMTPMailer{
		cfg: config.SMTPConfig{Host: "smtp.example.com", Port: 2525, From: "no-reply@swarm.local"},
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotTo, gotMsg = addr, to, msg
			assert.Nil(t, a)
			return nil
		},
	}

	require.NoError(t, m.Send(context.Background(), "bob@example.com", "Reset", "link"))
	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.Equal(t, []string{"bob@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Reset\r\n")
	assert.Contains(t, string(gotMsg), "\r\n\r\nlink")
}

func TestSMTPMailer_WrapsRelayError(t *testing.T) {
	m := &SMTPMailer{
		cfg: config.SMTPConfig{Host: "smtp.example.com", Port: 25},
		send: func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("relay refused")
		},
	}
	err := m.Send(context.Background(), "bob@example.com", "s", "b")
	assert.ErrorContains(t, err, "relay refused")
}
