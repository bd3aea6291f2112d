package utility

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"learnhub/internal/utility/log"
)

type EmailMessage struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

type EmailService interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// NewEmailService returns a SendGrid backed service, or one that only logs
// messages when no API key is configured.
func NewEmailService(apiKey, appName, from string) EmailService {
	if apiKey == "" {
		return ConsoleMailer{}
	}
	return &SendgridMailer{
		key:        apiKey,
		from:       sgmail.NewEmail(appName, from),
		subjPrefix: "[" + appName + "] ",
	}
}

type SendgridMailer struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
}

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

func (s *SendgridMailer) Send(_ context.Context, msg EmailMessage) error {
	if len(msg.To) == 0 {
		return nil
	}
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail("", to))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return errors.Wrap(err, "sendgrid")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

type ConsoleMailer struct{}

func (ConsoleMailer) Send(ctx context.Context, msg EmailMessage) error {
	log.CtxInfo(ctx, "mail to=%s subject=%q\n%s", strings.Join(msg.To, ","), msg.Subject, msg.Text)
	return nil
}

// RecordingMailer keeps every message it is asked to send.
type RecordingMailer struct {
	mu   sync.Mutex
	Sent []EmailMessage
}

func (r *RecordingMailer) Send(_ context.Context, msg EmailMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, msg)
	return nil
}

func (r *RecordingMailer) Messages() []EmailMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EmailMessage(nil), r.Sent...)
}
