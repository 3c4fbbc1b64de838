// Package notification sends best-effort mails about inquiries. Delivery runs
// detached from the request; failures are logged and kept for manual resend.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taka-shaka/matching-site-sub001/internal/background"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/metrics"
	"go.uber.org/zap"
)

// Notification kinds.
const (
	KindInquiryReceived        = "inquiry_received"
	KindInquiryReplied         = "inquiry_replied"
	KindGeneralInquiryReceived = "general_inquiry_received"
	KindGeneralInquiryReplied  = "general_inquiry_replied"
)

// FailedNotification is a mail that could not be delivered.
type FailedNotification struct {
	ID          string
	Kind        string
	Reference   string
	Recipient   string
	ReplyTo     string
	Subject     string
	Body        string
	Error       string
	Attempts    int
	Status      string
	CreatedAt   time.Time
	LastTriedAt time.Time
}

// Message rebuilds the mail for another delivery attempt.
func (f FailedNotification) Message() Message {
	return Message{ID: f.ID, To: f.Recipient, ReplyTo: f.ReplyTo, Subject: f.Subject, Body: f.Body}
}

// FailureStore persists undelivered mails.
type FailureStore interface {
	RecordFailure(ctx context.Context, failure FailedNotification) error
}

// Config defines dependencies required by Notifier.
type Config struct {
	Logger      *zap.Logger
	Mailer      Mailer
	Failures    FailureStore
	Runner      *background.Runner
	SiteBaseURL string
	AdminEmail  string
}

// Notifier turns domain events into mails. A nil *Notifier sends nothing.
type Notifier struct {
	logger      *zap.Logger
	mailer      Mailer
	failures    FailureStore
	runner      *background.Runner
	siteBaseURL string
	adminEmail  string
}

func NewNotifier(cfg Config) *Notifier {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	runner := cfg.Runner
	if runner == nil {
		runner = background.NewRunner(logger, 0)
	}
	return &Notifier{
		logger:      logger,
		mailer:      cfg.Mailer,
		failures:    cfg.Failures,
		runner:      runner,
		siteBaseURL: strings.TrimRight(cfg.SiteBaseURL, "/"),
		adminEmail:  cfg.AdminEmail,
	}
}

// InquiryReceived tells the company about a new inquiry.
func (n *Notifier) InquiryReceived(inquiry domain.Inquiry, company domain.Company) {
	if n == nil {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s 御中\n\n新しいお問い合わせが届きました。\n\n", company.Name)
	fmt.Fprintf(&b, "お名前: %s\n", inquiry.InquirerName)
	fmt.Fprintf(&b, "メールアドレス: %s\n", inquiry.InquirerEmail)
	if inquiry.InquirerPhone != "" {
		fmt.Fprintf(&b, "電話番号: %s\n", inquiry.InquirerPhone)
	}
	fmt.Fprintf(&b, "\n%s\n", inquiry.Message)
	n.appendLink(&b, "管理画面で確認", fmt.Sprintf("/member/inquiries/%d", inquiry.ID))

	n.dispatch(KindInquiryReceived, reference("inquiry", inquiry.ID), Message{
		To:      company.Email,
		ReplyTo: inquiry.InquirerEmail,
		Subject: "【お問い合わせ】" + inquiry.InquirerName + " 様より",
		Body:    b.String(),
	})
}

// InquiryReplied tells the inquirer that the company answered.
func (n *Notifier) InquiryReplied(inquiry domain.Inquiry, response domain.InquiryResponse) {
	if n == nil {
		return
	}
	companyName := "施工会社"
	if inquiry.Company != nil {
		companyName = inquiry.Company.Name
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s 様\n\n%s からお問い合わせへの返信が届きました。\n\n%s\n", inquiry.InquirerName, companyName, response.Message)
	if inquiry.CustomerID != nil {
		n.appendLink(&b, "マイページで確認", fmt.Sprintf("/my/inquiries/%d", inquiry.ID))
	}

	n.dispatch(KindInquiryReplied, reference("inquiry", inquiry.ID), Message{
		To:      inquiry.InquirerEmail,
		Subject: "【" + companyName + "】お問い合わせへの返信",
		Body:    b.String(),
	})
}

// GeneralInquiryReceived forwards a site contact message to the operators.
func (n *Notifier) GeneralInquiryReceived(inquiry domain.GeneralInquiry) {
	if n == nil || n.adminEmail == "" {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "サイトへのお問い合わせが届きました。\n\n件名: %s\nお名前: %s\nメールアドレス: %s\n\n%s\n",
		inquiry.Subject, inquiry.Name, inquiry.Email, inquiry.Message)
	n.appendLink(&b, "管理画面で確認", fmt.Sprintf("/admin/general-inquiries/%d", inquiry.ID))

	n.dispatch(KindGeneralInquiryReceived, reference("general_inquiry", inquiry.ID), Message{
		To:      n.adminEmail,
		ReplyTo: inquiry.Email,
		Subject: "【サイトお問い合わせ】" + inquiry.Subject,
		Body:    b.String(),
	})
}

// GeneralInquiryReplied sends the operators' answer to the sender.
func (n *Notifier) GeneralInquiryReplied(inquiry domain.GeneralInquiry, response domain.GeneralInquiryResponse) {
	if n == nil {
		return
	}
	body := fmt.Sprintf("%s 様\n\nお問い合わせいただきありがとうございます。\n\n%s\n", inquiry.Name, response.Message)
	n.dispatch(KindGeneralInquiryReplied, reference("general_inquiry", inquiry.ID), Message{
		To:      inquiry.Email,
		Subject: "Re: " + inquiry.Subject,
		Body:    body,
	})
}

// Wait blocks until pending deliveries finished.
func (n *Notifier) Wait(ctx context.Context) error {
	if n == nil {
		return nil
	}
	return n.runner.Wait(ctx)
}

func (n *Notifier) appendLink(b *strings.Builder, label, path string) {
	if n.siteBaseURL == "" {
		return
	}
	fmt.Fprintf(b, "\n%s: %s%s\n", label, n.siteBaseURL, path)
}

func (n *Notifier) dispatch(kind, ref string, msg Message) {
	if n.mailer == nil || strings.TrimSpace(msg.To) == "" {
		return
	}
	msg.ID = uuid.NewString()

	n.runner.Go("notify:"+kind, func(ctx context.Context) error {
		err := n.mailer.Send(ctx, msg)
		metrics.RecordNotification(kind, err)
		if err == nil {
			return nil
		}
		n.logger.Warn("通知メールの送信に失敗",
			zap.String("kind", kind),
			zap.String("reference", ref),
			zap.String("notification_id", msg.ID),
			zap.Error(err),
		)
		n.persistFailure(ctx, kind, ref, msg, err)
		return err
	})
}

func (n *Notifier) persistFailure(ctx context.Context, kind, ref string, msg Message, sendErr error) {
	if n.failures == nil {
		return
	}
	now := time.Now().UTC()
	failure := FailedNotification{
		ID:          msg.ID,
		Kind:        kind,
		Reference:   ref,
		Recipient:   msg.To,
		ReplyTo:     msg.ReplyTo,
		Subject:     msg.Subject,
		Body:        msg.Body,
		Error:       sendErr.Error(),
		Attempts:    1,
		Status:      StatusPending,
		CreatedAt:   now,
		LastTriedAt: now,
	}
	if err := n.failures.RecordFailure(ctx, failure); err != nil {
		n.logger.Error("failed_notifications への保存に失敗", zap.String("notification_id", msg.ID), zap.Error(err))
	}
}

func reference(kind string, id uint) string {
	return fmt.Sprintf("%s:%d", kind, id)
}
