// Package notifier sends workflow emails. Delivery is always best-effort:
// callers log failures and never roll back a committed state transition
// because a message could not be sent.
package notifier

import (
	"context"
	"log/slog"
	"sync"
)

// Notifier delivers a single message to a single recipient.
// Implementations must be safe for concurrent use.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Log writes notifications to the structured log instead of delivering them.
// Used in development and when no SMTP host is configured.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a log-only notifier.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (n *Log) Send(ctx context.Context, to, subject, body string) error {
	n.logger.InfoContext(ctx, "notification",
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}

// Message is a recorded notification, used by tests.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Recorder captures notifications in memory for assertions in tests.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	err      error
}

// NewRecorder creates an in-memory notification recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Fail makes every subsequent Send return err. Pass nil to recover.
func (r *Recorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) Send(_ context.Context, to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, Message{To: to, Subject: subject, Body: body})
	return nil
}

// Messages returns a copy of everything sent so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}
