package application

import (
	"context"
	"errors"

	"github.com/taka-shaka/matching-site-sub001/internal/background"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

var errCaseNotFound = domain.NotFound("施工事例が見つかりません")

// caseQueryService implements CaseQueryService.
type caseQueryService struct {
	cases  domain.CaseRepository
	runner *background.Runner
}

func NewCaseQueryService(cases domain.CaseRepository, runner *background.Runner) CaseQueryService {
	return &caseQueryService{cases: cases, runner: runner}
}

// List only ever returns PUBLISHED cases of published companies, whatever
// status the caller asked for.
func (s *caseQueryService) List(ctx context.Context, filter domain.CaseFilter, paging domain.Paging) ([]domain.ConstructionCase, domain.Pagination, error) {
	filter.Status = domain.CaseStatusPublished
	filter.PublishedCompaniesOnly = true
	cases, total, err := s.cases.Find(ctx, filter, paging)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return cases, domain.NewPagination(total, paging), nil
}

// Detail hides drafts behind 404 and counts the view in the background.
func (s *caseQueryService) Detail(ctx context.Context, id uint) (*domain.ConstructionCase, error) {
	c, err := s.cases.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errCaseNotFound
	}
	if err != nil {
		return nil, err
	}
	if !c.IsPublished() || c.Company == nil || !c.Company.IsPublished {
		return nil, errCaseNotFound
	}

	if s.runner != nil {
		s.runner.Go("case_view_count", func(ctx context.Context) error {
			return s.cases.IncrementViewCount(ctx, id)
		})
	}
	return c, nil
}
