package email

import (
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewSenderValidation(t *testing.T) {
	t.Parallel()

	_, err := NewSender(Config{Host: "smtp.example.com", Port: 587, From: "a@example.com"}, zap.NewNop())
	require.Error(t, err)

	_, err = NewSender(Config{Host: "smtp.example.com", Port: 587, From: "a@example.com", To: "b@example.com"}, zap.NewNop())
	require.NoError(t, err)
}

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	payload, err := buildMessage("me@example.com", "hr@acme.com", Message{
		Subject: "Application:\nInternal Communications Manager",
		Body:    "Dear team,\n\nPlease find my documents attached.",
		Attachments: []Attachment{
			{Filename: "/tmp/out/resume_acme_corp.txt", Data: []byte("resume body")},
		},
	})
	require.NoError(t, err)

	text := string(payload)
	require.Contains(t, text, "From: me@example.com\r\n")
	require.Contains(t, text, "To: hr@acme.com\r\n")
	require.Contains(t, text, "Subject: Application: Internal Communications Manager\r\n")
	require.Contains(t, text, "Content-Type: multipart/mixed; boundary=")
	require.Contains(t, text, "Please find my documents attached.")
	require.Contains(t, text, `attachment; filename="resume_acme_corp.txt"`)
	require.Contains(t, text, "cmVzdW1lIGJvZHk=")
}

func TestSendUsesConfiguredAccount(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotPayload []byte

	sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotPayload = addr, from, to, msg
		return nil
	}
	defer func() { sendMail = smtp.SendMail }()

	s, err := NewSender(Config{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "me@example.com",
		Password: "hunter2",
		From:     "me@example.com",
		To:       "hr@acme.com",
	}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Send(Message{Subject: "Hello", Body: "World"}))
	require.Equal(t, "smtp.example.com:587", gotAddr)
	require.Equal(t, "me@example.com", gotFrom)
	require.Equal(t, []string{"hr@acme.com"}, gotTo)
	require.True(t, strings.Contains(string(gotPayload), "Subject: Hello"))
}
