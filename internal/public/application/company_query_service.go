package application

import (
	"context"
	"errors"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

var errCompanyNotFound = domain.NotFound("会社が見つかりません")

// companyQueryService implements CompanyQueryService.
type companyQueryService struct {
	companies domain.CompanyRepository
	cases     domain.CaseRepository
}

func NewCompanyQueryService(companies domain.CompanyRepository, cases domain.CaseRepository) CompanyQueryService {
	return &companyQueryService{companies: companies, cases: cases}
}

func (s *companyQueryService) List(ctx context.Context, filter domain.CompanyFilter, paging domain.Paging) ([]domain.Company, domain.Pagination, error) {
	published := true
	filter.IsPublished = &published
	companies, total, err := s.companies.Find(ctx, filter, paging)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return companies, domain.NewPagination(total, paging), nil
}

func (s *companyQueryService) Detail(ctx context.Context, id uint) (*CompanyDetail, error) {
	company, err := s.companies.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errCompanyNotFound
	}
	if err != nil {
		return nil, err
	}
	if !company.IsPublished {
		return nil, errCompanyNotFound
	}
	cases, _, err := s.cases.Find(ctx, domain.CaseFilter{
		CompanyID: &company.ID,
		Status:    domain.CaseStatusPublished,
	}, domain.Paging{Page: 1, Limit: domain.MaxPageLimit})
	if err != nil {
		return nil, err
	}
	return &CompanyDetail{Company: *company, Cases: cases}, nil
}

// tagQueryService implements TagQueryService.
type tagQueryService struct {
	tags domain.TagRepository
}

func NewTagQueryService(tags domain.TagRepository) TagQueryService {
	return &tagQueryService{tags: tags}
}

// Grouped returns every category in UI order, empty ones included.
func (s *tagQueryService) Grouped(ctx context.Context) ([]TagGroup, error) {
	tags, err := s.tags.List(ctx, "")
	if err != nil {
		return nil, err
	}
	domain.SortTags(tags)
	groups := make([]TagGroup, 0, len(domain.TagCategories))
	for _, category := range domain.TagCategories {
		group := TagGroup{Category: category, Tags: []domain.Tag{}}
		for _, tag := range tags {
			if tag.Category == category {
				group.Tags = append(group.Tags, tag)
			}
		}
		groups = append(groups, group)
	}
	return groups, nil
}
