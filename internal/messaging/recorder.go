package messaging

import (
	"context"
	"sync"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

var _ model.Messenger = (*Recorder)(nil)

// Recorder keeps every message in memory. Tests use it to read the delivered
// link or PIN; Err makes every send fail.
type Recorder struct {
	mu     sync.Mutex
	emails []model.EmailMessage
	sms    []model.SMSMessage
	Err    error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SendEmail(_ context.Context, msg model.EmailMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.emails = append(r.emails, msg)
	return nil
}

func (r *Recorder) SendSMS(_ context.Context, msg model.SMSMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sms = append(r.sms, msg)
	return nil
}

// Emails returns a copy of the recorded emails.
func (r *Recorder) Emails() []model.EmailMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.EmailMessage(nil), r.emails...)
}

// SMS returns a copy of the recorded text messages.
func (r *Recorder) SMS() []model.SMSMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.SMSMessage(nil), r.sms...)
}

// LastEmail returns the most recent email.
func (r *Recorder) LastEmail() (model.EmailMessage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.emails) == 0 {
		return model.EmailMessage{}, false
	}
	return r.emails[len(r.emails)-1], true
}

// LastSMS returns the most recent text message.
func (r *Recorder) LastSMS() (model.SMSMessage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sms) == 0 {
		return model.SMSMessage{}, false
	}
	return r.sms[len(r.sms)-1], true
}
