package notification

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/metrics"
)

// Failure statuses.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
)

// FailureLog is a FailureStore that also supports manual resend from the admin console.
type FailureLog interface {
	FailureStore
	ListFailures(ctx context.Context, status string, limit int) ([]FailedNotification, error)
	FindFailure(ctx context.Context, id string) (*FailedNotification, error)
	// MarkAttempt records a resend. A nil sendErr marks the entry as sent.
	MarkAttempt(ctx context.Context, id string, sendErr error, at time.Time) error
}

// Resend delivers a stored failure synchronously and updates its attempt counters.
func Resend(ctx context.Context, mailer Mailer, log FailureLog, id string) (*FailedNotification, error) {
	if mailer == nil || log == nil {
		return nil, domain.Upstream("通知の再送は利用できません", nil)
	}
	failure, err := log.FindFailure(ctx, id)
	if err != nil {
		return nil, err
	}
	if failure.Status == StatusSent {
		return nil, domain.Conflict("この通知は送信済みです")
	}

	sendErr := mailer.Send(ctx, failure.Message())
	metrics.RecordNotification(failure.Kind, sendErr)
	if err := log.MarkAttempt(ctx, id, sendErr, time.Now().UTC()); err != nil {
		return nil, err
	}
	if sendErr != nil {
		return nil, domain.Upstream("通知メールの再送に失敗しました", sendErr)
	}
	return log.FindFailure(ctx, id)
}

// MemoryFailureLog keeps failures in process. Used when MongoDB is not configured.
type MemoryFailureLog struct {
	mu      sync.Mutex
	entries map[string]FailedNotification
}

func NewMemoryFailureLog() *MemoryFailureLog {
	return &MemoryFailureLog{entries: map[string]FailedNotification{}}
}

func (l *MemoryFailureLog) RecordFailure(_ context.Context, failure FailedNotification) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if failure.Status == "" {
		failure.Status = StatusPending
	}
	l.entries[failure.ID] = failure
	return nil
}

func (l *MemoryFailureLog) ListFailures(_ context.Context, status string, limit int) ([]FailedNotification, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]FailedNotification, 0, len(l.entries))
	for _, f := range l.entries {
		if status != "" && f.Status != status {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (l *MemoryFailureLog) FindFailure(_ context.Context, id string) (*FailedNotification, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f, ok := l.entries[id]
	if !ok {
		return nil, domain.NotFound("通知が見つかりません")
	}
	return &f, nil
}

func (l *MemoryFailureLog) MarkAttempt(_ context.Context, id string, sendErr error, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	f, ok := l.entries[id]
	if !ok {
		return domain.NotFound("通知が見つかりません")
	}
	f.Attempts++
	f.LastTriedAt = at
	if sendErr != nil {
		f.Error = sendErr.Error()
	} else {
		f.Status = StatusSent
		f.Error = ""
	}
	l.entries[id] = f
	return nil
}
