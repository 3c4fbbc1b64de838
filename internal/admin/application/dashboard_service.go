package application

import (
	"context"

	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/notification"
)

// DashboardDeps are the repositories the dashboard counts over.
type DashboardDeps struct {
	Companies        domain.CompanyRepository
	Members          domain.MemberRepository
	Customers        domain.CustomerRepository
	Cases            domain.CaseRepository
	Inquiries        domain.InquiryRepository
	GeneralInquiries domain.GeneralInquiryRepository
	ActivityLogs     domain.ActivityLogRepository
	Failures         notification.FailureLog
	Mailer           notification.Mailer
	Audit            *audit.Recorder
}

// dashboardService implements DashboardService.
type dashboardService struct {
	deps DashboardDeps
}

func NewDashboardService(deps DashboardDeps) DashboardService {
	return &dashboardService{deps: deps}
}

// countOnly asks a repository for its total without loading rows.
var countOnly = domain.Paging{Page: 1, Limit: 1}

func (s *dashboardService) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	var err error
	published := true

	if _, stats.Companies, err = s.deps.Companies.Find(ctx, domain.CompanyFilter{}, countOnly); err != nil {
		return Stats{}, err
	}
	if _, stats.PublishedCompanies, err = s.deps.Companies.Find(ctx, domain.CompanyFilter{IsPublished: &published}, countOnly); err != nil {
		return Stats{}, err
	}
	if _, stats.Members, err = s.deps.Members.Find(ctx, domain.MemberFilter{}, countOnly); err != nil {
		return Stats{}, err
	}
	if _, stats.Customers, err = s.deps.Customers.Find(ctx, domain.CustomerFilter{}, countOnly); err != nil {
		return Stats{}, err
	}
	if _, stats.PublishedCases, err = s.deps.Cases.Find(ctx, domain.CaseFilter{Status: domain.CaseStatusPublished}, countOnly); err != nil {
		return Stats{}, err
	}
	if _, stats.NewInquiries, err = s.deps.Inquiries.Find(ctx, domain.InquiryFilter{Status: domain.InquiryStatusNew}, countOnly); err != nil {
		return Stats{}, err
	}
	if _, stats.NewGeneralInquiries, err = s.deps.GeneralInquiries.Find(ctx, domain.GeneralInquiryFilter{Status: domain.InquiryStatusNew}, countOnly); err != nil {
		return Stats{}, err
	}
	if s.deps.Failures != nil {
		pending, err := s.deps.Failures.ListFailures(ctx, notification.StatusPending, 0)
		if err != nil {
			return Stats{}, err
		}
		stats.PendingNotifications = int64(len(pending))
	}
	return stats, nil
}

func (s *dashboardService) ActivityLogs(ctx context.Context, paging domain.Paging) ([]domain.ActivityLog, domain.Pagination, error) {
	logs, total, err := s.deps.ActivityLogs.Find(ctx, paging)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return logs, pageOf(total, paging), nil
}

func (s *dashboardService) FailedNotifications(ctx context.Context, status string, limit int) ([]notification.FailedNotification, error) {
	switch status {
	case "", notification.StatusPending, notification.StatusSent:
	default:
		return nil, domain.Validation("不正な通知ステータスです: " + status)
	}
	if s.deps.Failures == nil {
		return []notification.FailedNotification{}, nil
	}
	if limit < 1 || limit > domain.MaxPageLimit {
		limit = domain.MaxPageLimit
	}
	return s.deps.Failures.ListFailures(ctx, status, limit)
}

func (s *dashboardService) ResendNotification(ctx context.Context, adminID uint, id string) (*notification.FailedNotification, error) {
	failure, err := notification.Resend(ctx, s.deps.Mailer, s.deps.Failures, id)
	if err != nil {
		return nil, err
	}
	s.deps.Audit.ByAdmin(ctx, adminID, domain.ActionNotificationResent, "通知メール(%s, %s)を再送しました", failure.Kind, failure.Reference)
	return failure, nil
}
