package model

import "context"

// EmailMessage is an outbound email.
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// SMSMessage is an outbound text message.
type SMSMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Messenger delivers email and SMS. Implementations must be safe for concurrent use.
type Messenger interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
	SendSMS(ctx context.Context, msg SMSMessage) error
}
