package services

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSMS sends text messages from a fixed Twilio number.
type TwilioSMS struct {
	api  messageCreator
	from string
}

func NewTwilioSMS(accountSID, authToken, from string) *TwilioSMS {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSMS{api: client.Api, from: from}
}

// SendSMS returns the message SID. The Twilio SDK does not take a context, so
// ctx is only checked before the call.
func (t *TwilioSMS) SendSMS(ctx context.Context, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio send to %s: %w", to, err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
