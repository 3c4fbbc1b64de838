package memory

import (
	"context"
	"slices"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

type CompanyRepository struct{ s *Store }

func (r *CompanyRepository) Find(_ context.Context, filter domain.CompanyFilter, paging domain.Paging) ([]domain.Company, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	matched := make([]domain.Company, 0)
	for _, id := range sortedDesc(r.s.companies) {
		company := r.s.companies[id]
		if filter.IsPublished != nil && company.IsPublished != *filter.IsPublished {
			continue
		}
		if filter.Prefecture != "" && string(company.Prefecture) != filter.Prefecture {
			continue
		}
		if !containsFold(filter.Search, company.Name, company.Description, company.City) {
			continue
		}
		if !intersects(r.s.companyTags[id], filter.TagIDs) {
			continue
		}
		matched = append(matched, r.s.hydrateCompany(company))
	}
	return paginate(matched, paging), int64(len(matched)), nil
}

func (r *CompanyRepository) FindByID(_ context.Context, id uint) (*domain.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	company := r.s.companyRef(id)
	if company == nil {
		return nil, domain.NotFound("会社が見つかりません")
	}
	return company, nil
}

func (r *CompanyRepository) ExistsByEmail(_ context.Context, email string, excludeID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, company := range r.s.companies {
		if id != excludeID && company.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *CompanyRepository) Create(_ context.Context, company *domain.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.companies {
		if existing.Email == company.Email {
			return domain.Conflict("このメールアドレスは既に登録されています")
		}
	}
	now := r.s.now()
	company.ID = r.s.nextID("company")
	company.CreatedAt = now
	company.UpdatedAt = now
	stored := *company
	stored.Tags = nil
	r.s.companies[company.ID] = stored
	r.s.companyTags[company.ID] = tagIDs(company.Tags)
	company.Tags = r.s.tagsFor(r.s.companyTags[company.ID])
	return nil
}

func (r *CompanyRepository) Update(_ context.Context, company *domain.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.companies[company.ID]
	if !ok {
		return domain.NotFound("会社が見つかりません")
	}
	for id, other := range r.s.companies {
		if id != company.ID && other.Email == company.Email {
			return domain.Conflict("このメールアドレスは既に登録されています")
		}
	}
	company.CreatedAt = existing.CreatedAt
	company.UpdatedAt = r.s.now()
	stored := *company
	stored.Tags = nil
	r.s.companies[company.ID] = stored
	return nil
}

func (r *CompanyRepository) ReplaceTags(_ context.Context, companyID uint, ids []uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[companyID]; !ok {
		return domain.NotFound("会社が見つかりません")
	}
	r.s.companyTags[companyID] = slices.Clone(domain.UniqueIDs(ids))
	return nil
}

// Delete cascades to members, cases, inquiries and tag links.
func (r *CompanyRepository) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[id]; !ok {
		return domain.NotFound("会社が見つかりません")
	}
	for memberID, member := range r.s.members {
		if member.CompanyID == id {
			r.s.deleteMember(memberID)
		}
	}
	for caseID, c := range r.s.cases {
		if c.CompanyID == id {
			r.s.deleteCase(caseID)
		}
	}
	for inquiryID, inquiry := range r.s.inquiries {
		if inquiry.CompanyID == id {
			delete(r.s.inquiries, inquiryID)
			delete(r.s.responses, inquiryID)
		}
	}
	delete(r.s.companyTags, id)
	delete(r.s.companies, id)
	return nil
}

func tagIDs(tags []domain.Tag) []uint {
	ids := make([]uint, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return domain.UniqueIDs(ids)
}
