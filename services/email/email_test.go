package emailsvc

import (
	"io"
	"log"
	"net/mail"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/planner"
	logsvc "github.com/trezcool/pensum/services/logger"
	testutil "github.com/trezcool/pensum/tests"
)

func setup(t *testing.T) (*core.Config, core.Logger) {
	t.Helper()
	conf := testutil.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	core.ParseEmailTemplates(conf, logger)
	return conf, logger
}

func reminderMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: "Ada", Address: "ada@example.com"}},
		Subject:      "1 things coming up",
		TemplateName: "study_reminder",
		TemplateData: planner.ReminderData{
			Name:       "Ada",
			WithinDays: 7,
			Items: []planner.UpcomingItem{{
				Subject:  "Math",
				Title:    "Exam",
				Kind:     "exam",
				Date:     core.NewDate(2026, time.March, 12),
				DaysLeft: 2,
			}},
		},
	}
}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	conf, logger := setup(t)
	svc := NewConsoleServiceMock(conf, logger)

	svc.SendMessages(
		reminderMessage(),
		&core.EmailMessage{Subject: "no recipients", BodyStr: "hello"},
		&core.EmailMessage{To: []mail.Address{{Address: "bob@example.com"}}, Subject: "plain", BodyStr: "hello"},
		&core.EmailMessage{To: []mail.Address{{Address: "bob@example.com"}}, TemplateName: "missing"},
	)

	sent := svc.SentMessages()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0].TextContent, "Hi Ada,")
	assert.Contains(t, sent[0].TextContent, "2026-03-12 (in 2 days) Math: Exam")
	assert.Contains(t, sent[0].HTMLContent, "<strong>2026-03-12</strong>")
	assert.Contains(t, sent[0].TextContent, conf.FrontendBaseURL)
	assert.Equal(t, "hello", sent[1].TextContent)
	assert.Empty(t, sent[1].HTMLContent)

	svc.Reset()
	assert.Empty(t, svc.SentMessages())
}

func TestConsoleService_format(t *testing.T) {
	conf, logger := setup(t)
	svc := NewConsoleServiceMock(conf, logger)

	msg := reminderMessage()
	require.NoError(t, msg.Render())
	body, err := svc.format(*msg)
	require.NoError(t, err)
	assert.Contains(t, body, "Subject: [pensum] 1 things coming up\r\n")
	assert.Contains(t, body, `To: "Ada" <ada@example.com>`)
	assert.Contains(t, body, "Content-Type: text/html")
}

func TestSendgridService_prepare(t *testing.T) {
	conf, logger := setup(t)
	svc := NewSendgridService(conf, logger)

	msg := reminderMessage()
	msg.Cc = []mail.Address{{Address: "cc@example.com"}}
	require.NoError(t, msg.Render())

	m := svc.prepare(*msg)
	assert.Equal(t, conf.DefaultFromAddr, m.From.Address)
	require.Len(t, m.Personalizations, 1)
	p := m.Personalizations[0]
	assert.Equal(t, "[pensum] 1 things coming up", p.Subject)
	require.Len(t, p.To, 1)
	assert.Equal(t, "ada@example.com", p.To[0].Address)
	require.Len(t, p.CC, 1)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "text/html", m.Content[1].Type)
}
