// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridSendPath = "/v3/mail/send"
	sendGridTimeout  = 10 * time.Second
)

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	apiKey string
	from   string
	host   string
}

// NewSendGridSender creates a sender for the public SendGrid API.
func NewSendGridSender(apiKey, from string) *SendGridSender {
	return &SendGridSender{apiKey: apiKey, from: from, host: sendGridHost}
}

// WithHost points the sender at another API host.
func (s *SendGridSender) WithHost(host string) *SendGridSender {
	clone := *s
	clone.host = strings.TrimRight(host, "/")
	return &clone
}

// Send implements [Sender].
func (s *SendGridSender) Send(ctx context.Context, message Message) error {
	ctx, cancel := context.WithTimeout(ctx, sendGridTimeout)
	defer cancel()

	body := sgmail.NewV3MailInit(
		sgmail.NewEmail("", s.from),
		message.Subject,
		sgmail.NewEmail(message.Name, message.To),
		sgmail.NewContent("text/plain", message.Text),
	)

	// A request per message; the SDK client stores the body on itself
	request := sendgrid.GetRequest(s.apiKey, sendGridSendPath, s.host)
	request.Method = http.MethodPost
	request.Body = sgmail.GetRequestBody(body)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("mail: sendgrid request failed: %w", err)
	}
	if response.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("mail: sendgrid returned %d: %s", response.StatusCode, strings.TrimSpace(response.Body))
	}

	return nil
}
