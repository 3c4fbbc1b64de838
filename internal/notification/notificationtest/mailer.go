// Package notificationtest provides a Mailer double for handler and service tests.
package notificationtest

import (
	"context"
	"sync"

	"github.com/taka-shaka/matching-site-sub001/internal/notification"
)

// RecordingMailer keeps sent messages in memory and can be told to fail.
type RecordingMailer struct {
	mu   sync.Mutex
	sent []notification.Message
	err  error
}

func (m *RecordingMailer) Send(_ context.Context, msg notification.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// FailWith makes subsequent sends return err (nil restores delivery).
func (m *RecordingMailer) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *RecordingMailer) Sent() []notification.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notification.Message(nil), m.sent...)
}
