package sendgrid

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
	"github.com/sendgrid/rest"
	sendgridsdk "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	backendName = "sendgrid"
	subject     = "Driver alert"
)

// mailSender is the slice of the SendGrid client the notifier uses.
type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Client implements domain.Notifier by emailing each alert.
type Client struct {
	sender mailSender
	from   *mail.Email
	to     *mail.Email
	logger *slog.Logger
}

// NewClient creates a SendGrid email notifier for a fixed sender and recipient.
func NewClient(apiKey, from, to string, logger *slog.Logger) *Client {
	return &Client{
		sender: sendgridsdk.NewSendClient(apiKey),
		from:   mail.NewEmail("Road Accident Dashboard", from),
		to:     mail.NewEmail(to, to),
		logger: logger,
	}
}

// Send emails body as a plain-text message.
func (c *Client) Send(ctx context.Context, body string) error {
	message := mail.NewSingleEmail(c.from, subject, c.to, body, "")

	resp, err := c.sender.SendWithContext(ctx, message)
	if err != nil {
		return &domain.TransportError{Backend: backendName, Err: err}
	}
	if resp.StatusCode >= 300 {
		return &domain.TransportError{
			Backend: backendName,
			Err:     fmt.Errorf("sendgrid API error: status %d: %s", resp.StatusCode, resp.Body),
		}
	}

	c.logger.Debug("alert email sent", "to", c.to.Address, "status", resp.StatusCode)
	return nil
}

func (c *Client) Name() string { return backendName }
