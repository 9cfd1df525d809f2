// Package notify delivers outbound user messages (welcome and order mail).
package notify

import (
	"context"

	applog "pawmart/internal/log"
)

// Message kinds. Each kind has a template of the same name.
const (
	KindWelcome     = "welcome"
	KindOrderPlaced = "order_confirmation"
	KindOrderStatus = "order_status"
)

type Message struct {
	Kind    string `json:"kind"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	SentAt  string `json:"sentAt"`
}

// Sender hands a rendered message to a delivery channel.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// LogSender writes messages to the application log instead of delivering them.
type LogSender struct{}

func NewLogSender() *LogSender { return &LogSender{} }

func (LogSender) Send(_ context.Context, m Message) error {
	applog.Info(nil, "mail.send", map[string]any{
		"kind":    m.Kind,
		"to":      m.To,
		"subject": m.Subject,
		"bytes":   len(m.HTML),
	})
	return nil
}
