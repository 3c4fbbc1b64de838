package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/notification"
	"github.com/taka-shaka/matching-site-sub001/internal/notification/notificationtest"
)

func TestResend(t *testing.T) {
	ctx := context.Background()
	log := notification.NewMemoryFailureLog()
	require.NoError(t, log.RecordFailure(ctx, notification.FailedNotification{
		ID: "n-1", Kind: notification.KindInquiryReplied, Recipient: "c@example.jp", Subject: "件名", Body: "本文",
		Attempts: 1, CreatedAt: time.Now(),
	}))

	mailer := &notificationtest.RecordingMailer{}
	mailer.FailWith(errors.New("still down"))
	_, err := notification.Resend(ctx, mailer, log, "n-1")
	assert.ErrorIs(t, err, domain.ErrUpstream)

	f, err := log.FindFailure(ctx, "n-1")
	require.NoError(t, err)
	assert.Equal(t, 2, f.Attempts)
	assert.Equal(t, notification.StatusPending, f.Status)
	assert.Equal(t, "still down", f.Error)

	mailer.FailWith(nil)
	f, err = notification.Resend(ctx, mailer, log, "n-1")
	require.NoError(t, err)
	assert.Equal(t, notification.StatusSent, f.Status)
	assert.Equal(t, 3, f.Attempts)
	require.Len(t, mailer.Sent(), 1)
	assert.Equal(t, "c@example.jp", mailer.Sent()[0].To)

	_, err = notification.Resend(ctx, mailer, log, "n-1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = notification.Resend(ctx, mailer, log, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryFailureLog_ListFiltersByStatus(t *testing.T) {
	ctx := context.Background()
	log := notification.NewMemoryFailureLog()
	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, log.RecordFailure(ctx, notification.FailedNotification{ID: "a", CreatedAt: base}))
	require.NoError(t, log.RecordFailure(ctx, notification.FailedNotification{ID: "b", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, log.MarkAttempt(ctx, "a", nil, base.Add(2*time.Hour)))

	pending, err := log.ListFailures(ctx, notification.StatusPending, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].ID)

	all, err := log.ListFailures(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
}
