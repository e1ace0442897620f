package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FallsBackToLogMailer(t *testing.T) {
	m := New(SMTPConfig{})
	_, ok := m.(LogMailer)
	assert.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), "a@b.c", "hi", "body"))
}

func TestSMTPMailer_Send(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	m := New(SMTPConfig{Host: "smtp.example.com", Port: "587", User: "placements@college.edu", Password: "pw"}).(*smtpMailer)
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := m.Send(context.Background(), "student@college.edu", "Interview\r\nBcc: x", "See you")
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "placements@college.edu", gotFrom)
	assert.Equal(t, []string{"student@college.edu"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Interview  Bcc: x\r\n")
	assert.True(t, strings.HasSuffix(string(gotMsg), "See you\r\n"))
}

func TestSMTPMailer_WrapsTransportError(t *testing.T) {
	m := New(SMTPConfig{Host: "smtp.example.com", Port: "25"}).(*smtpMailer)
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := m.Send(context.Background(), "x@y.z", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x@y.z")
}
