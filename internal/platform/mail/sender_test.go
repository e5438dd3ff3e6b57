package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDoer struct {
	SendWithContextFunc func(ctx context.Context, req rest.Request) (*rest.Response, error)
	last                rest.Request
}

func (m *mockDoer) SendWithContext(ctx context.Context, req rest.Request) (*rest.Response, error) {
	m.last = req
	return m.SendWithContextFunc(ctx, req)
}

func TestMessages(t *testing.T) {
	w := WelcomeMessage("ann@example.com", "Ann")
	assert.Equal(t, "ann@example.com", w.To)
	assert.Equal(t, "Thanks for joining in!", w.Subject)
	assert.Equal(t, "Welcome to the app, Ann. Let me know how you get along with the app.", w.Body)

	c := CancelationMessage("ann@example.com", "Ann")
	assert.Equal(t, "Sorry to see you go!", c.Subject)
	assert.Equal(t, "Goodbye, Ann. I hope to see you back sometime soon.", c.Body)
}

func TestSendGridSender_Send(t *testing.T) {
	tests := []struct {
		name    string
		resp    *rest.Response
		err     error
		wantErr bool
	}{
		{name: "accepted", resp: &rest.Response{StatusCode: http.StatusAccepted}},
		{name: "rejected", resp: &rest.Response{StatusCode: http.StatusUnauthorized, Body: `{"errors":[]}`}, wantErr: true},
		{name: "transport error", err: errors.New("dial tcp: timeout"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := &mockDoer{SendWithContextFunc: func(ctx context.Context, req rest.Request) (*rest.Response, error) {
				return tt.resp, tt.err
			}}
			s := NewSendGridSender("sg-key", "noreply@example.com", "Task Manager")
			s.client = doer

			err := s.Send(context.Background(), WelcomeMessage("ann@example.com", "Ann"))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, rest.Post, doer.last.Method)
			assert.Equal(t, sendGridHost+sendGridEndpoint, doer.last.BaseURL)
			assert.Equal(t, "Bearer sg-key", doer.last.Headers["Authorization"])

			var body struct {
				From    struct{ Email string } `json:"from"`
				Subject string                 `json:"subject"`
			}
			require.NoError(t, json.Unmarshal(doer.last.Body, &body))
			assert.Equal(t, "noreply@example.com", body.From.Email)
			assert.Equal(t, "Thanks for joining in!", body.Subject)
		})
	}
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, LogSender{}.Send(context.Background(), CancelationMessage("a@b.c", "A")))
}
