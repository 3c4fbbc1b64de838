package notification_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/notification"
	"github.com/taka-shaka/matching-site-sub001/internal/notification/notificationtest"
)

type mockFailureStore struct {
	mock.Mock
	mu sync.Mutex
}

func (m *mockFailureStore) RecordFailure(ctx context.Context, failure notification.FailedNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	args := m.Called(ctx, failure)
	return args.Error(0)
}

func TestNotifier_InquiryReceived(t *testing.T) {
	mailer := &notificationtest.RecordingMailer{}
	n := notification.NewNotifier(notification.Config{Mailer: mailer, SiteBaseURL: "https://example.jp/"})

	n.InquiryReceived(
		domain.Inquiry{ID: 12, InquirerName: "田中", InquirerEmail: "tanaka@example.jp", Message: "見積もりをお願いします"},
		domain.Company{Name: "山田工務店", Email: "info@yamada.example"},
	)
	require.NoError(t, n.Wait(context.Background()))

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "info@yamada.example", sent[0].To)
	assert.Equal(t, "tanaka@example.jp", sent[0].ReplyTo)
	assert.NotEmpty(t, sent[0].ID)
	assert.Contains(t, sent[0].Body, "見積もりをお願いします")
	assert.Contains(t, sent[0].Body, "https://example.jp/member/inquiries/12")
}

func TestNotifier_FailureIsPersisted(t *testing.T) {
	mailer := &notificationtest.RecordingMailer{}
	mailer.FailWith(errors.New("smtp unavailable"))
	failures := &mockFailureStore{}
	failures.On("RecordFailure", mock.Anything, mock.MatchedBy(func(f notification.FailedNotification) bool {
		return f.Kind == notification.KindInquiryReplied &&
			f.Reference == "inquiry:3" &&
			f.Recipient == "c@example.jp" &&
			f.Error == "smtp unavailable"
	})).Return(nil).Once()

	n := notification.NewNotifier(notification.Config{Mailer: mailer, Failures: failures})
	n.InquiryReplied(
		domain.Inquiry{ID: 3, InquirerName: "顧客", InquirerEmail: "c@example.jp"},
		domain.InquiryResponse{Message: "ご連絡ありがとうございます"},
	)
	require.NoError(t, n.Wait(context.Background()))

	failures.AssertExpectations(t)
	assert.Empty(t, mailer.Sent())
}

func TestNotifier_SkipsWithoutRecipient(t *testing.T) {
	mailer := &notificationtest.RecordingMailer{}
	n := notification.NewNotifier(notification.Config{Mailer: mailer})

	n.GeneralInquiryReceived(domain.GeneralInquiry{ID: 1, Subject: "質問"})
	n.InquiryReceived(domain.Inquiry{ID: 2}, domain.Company{Name: "メール未登録"})
	require.NoError(t, n.Wait(context.Background()))
	assert.Empty(t, mailer.Sent())

	var nilNotifier *notification.Notifier
	assert.NotPanics(t, func() { nilNotifier.InquiryReceived(domain.Inquiry{}, domain.Company{}) })
}
