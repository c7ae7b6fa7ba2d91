package twilio

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
	twiliosdk "github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const backendName = "twilio"

// messageCreator is the slice of the Twilio REST API the client uses.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Client implements domain.Notifier by sending SMS through Twilio.
type Client struct {
	api    messageCreator
	from   string
	to     string
	logger *slog.Logger
}

// NewClient creates a Twilio SMS client for a fixed sender and recipient.
func NewClient(accountSID, authToken, from, to string, timeout time.Duration, logger *slog.Logger) *Client {
	rest := twiliosdk.NewRestClientWithParams(twiliosdk.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	rest.SetTimeout(timeout)
	return &Client{
		api:    rest.Api,
		from:   from,
		to:     to,
		logger: logger,
	}
}

// Send delivers body as one SMS. The Twilio SDK call does not take a
// context, so cancellation is only honoured before the request starts.
func (c *Client) Send(ctx context.Context, body string) error {
	if err := ctx.Err(); err != nil {
		return &domain.TransportError{Backend: backendName, Err: err}
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(c.to)
	params.SetFrom(c.from)
	params.SetBody(body)

	resp, err := c.api.CreateMessage(params)
	if err != nil {
		return &domain.TransportError{Backend: backendName, Err: err}
	}
	if resp == nil {
		return &domain.TransportError{Backend: backendName, Err: errors.New("empty response")}
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	c.logger.Debug("sms sent", "sid", sid, "to", c.to)
	return nil
}

func (c *Client) Name() string { return backendName }
