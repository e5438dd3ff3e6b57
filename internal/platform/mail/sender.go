package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	platformhttp "taskmanager/internal/platform/http"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
	sendTimeout      = 10 * time.Second
)

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Doer sends a prepared REST request. *rest.Client satisfies it.
type Doer interface {
	SendWithContext(ctx context.Context, req rest.Request) (*rest.Response, error)
}

// SendGridSender posts messages to the SendGrid v3 API.
type SendGridSender struct {
	apiKey string
	host   string
	from   *sgmail.Email
	client Doer
}

var _ Sender = (*SendGridSender)(nil)

// NewSendGridSender creates a sender that uses a dedicated HTTP client with timeouts.
func NewSendGridSender(apiKey, fromAddress, fromName string) *SendGridSender {
	return &SendGridSender{
		apiKey: apiKey,
		host:   sendGridHost,
		from:   sgmail.NewEmail(fromName, fromAddress),
		client: &rest.Client{HTTPClient: platformhttp.NewHTTPClient(sendTimeout)},
	}
}

// Send delivers msg. Any non-2xx response is an error.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	body := sgmail.NewSingleEmail(s.from, msg.Subject, sgmail.NewEmail(msg.ToName, msg.To), msg.Body, "")

	req := sendgrid.GetRequest(s.apiKey, sendGridEndpoint, s.host)
	req.Method = rest.Post
	req.Body = sgmail.GetRequestBody(body)

	resp, err := s.client.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them.
type LogSender struct{}

var _ Sender = LogSender{}

func (LogSender) Send(_ context.Context, msg Message) error {
	slog.Info("mail (not sent)", "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}
