package memory

import (
	"context"
	"slices"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

type CaseRepository struct{ s *Store }

func (r *CaseRepository) Find(_ context.Context, filter domain.CaseFilter, paging domain.Paging) ([]domain.ConstructionCase, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	matched := make([]domain.ConstructionCase, 0)
	for _, id := range sortedDesc(r.s.cases) {
		c := r.s.cases[id]
		if filter.CompanyID != nil && c.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Prefecture != "" && string(c.Prefecture) != filter.Prefecture {
			continue
		}
		if filter.MinBudget != nil && (c.Budget == nil || *c.Budget < *filter.MinBudget) {
			continue
		}
		if filter.MaxBudget != nil && (c.Budget == nil || *c.Budget > *filter.MaxBudget) {
			continue
		}
		if !containsFold(filter.Search, c.Title, c.Description, c.City) {
			continue
		}
		if !intersects(r.s.caseTags[id], filter.TagIDs) {
			continue
		}
		if filter.PublishedCompaniesOnly {
			if company, ok := r.s.companies[c.CompanyID]; !ok || !company.IsPublished {
				continue
			}
		}
		matched = append(matched, r.s.hydrateCase(c))
	}
	return paginate(matched, paging), int64(len(matched)), nil
}

func (r *CaseRepository) FindByID(_ context.Context, id uint) (*domain.ConstructionCase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cases[id]
	if !ok {
		return nil, domain.NotFound("施工事例が見つかりません")
	}
	hydrated := r.s.hydrateCase(c)
	return &hydrated, nil
}

func (r *CaseRepository) Create(_ context.Context, c *domain.ConstructionCase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[c.CompanyID]; !ok {
		return domain.NotFound("会社が見つかりません")
	}
	now := r.s.now()
	c.ID = r.s.nextID("case")
	c.CreatedAt = now
	c.UpdatedAt = now
	r.s.storeCase(c)
	return nil
}

func (r *CaseRepository) Update(_ context.Context, c *domain.ConstructionCase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.cases[c.ID]
	if !ok {
		return domain.NotFound("施工事例が見つかりません")
	}
	c.CreatedAt = existing.CreatedAt
	c.ViewCount = existing.ViewCount
	c.UpdatedAt = r.s.now()
	r.s.storeCase(c)
	return nil
}

func (r *CaseRepository) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.cases[id]; !ok {
		return domain.NotFound("施工事例が見つかりません")
	}
	r.s.deleteCase(id)
	return nil
}

func (r *CaseRepository) IncrementViewCount(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cases[id]
	if !ok {
		return domain.NotFound("施工事例が見つかりません")
	}
	c.ViewCount++
	r.s.cases[id] = c
	return nil
}

// storeCase writes the row plus its full tag and image sets, then hydrates c.
func (s *Store) storeCase(c *domain.ConstructionCase) {
	images := make([]domain.CaseImage, 0, len(c.Images))
	for i, image := range c.Images {
		image.ID = s.nextID("case_image")
		image.CaseID = c.ID
		if image.DisplayOrder == 0 {
			image.DisplayOrder = i + 1
		}
		images = append(images, image)
	}
	slices.SortStableFunc(images, func(a, b domain.CaseImage) int { return a.DisplayOrder - b.DisplayOrder })

	stored := *c
	stored.Tags = nil
	stored.Images = nil
	stored.Company = nil
	s.cases[c.ID] = stored
	s.caseTags[c.ID] = tagIDs(c.Tags)
	s.caseImages[c.ID] = images

	*c = s.hydrateCase(stored)
}

func (s *Store) hydrateCase(c domain.ConstructionCase) domain.ConstructionCase {
	c.Company = s.companyRef(c.CompanyID)
	c.Tags = s.tagsFor(s.caseTags[c.ID])
	c.Images = slices.Clone(s.caseImages[c.ID])
	return c
}

func (s *Store) deleteCase(id uint) {
	delete(s.cases, id)
	delete(s.caseTags, id)
	delete(s.caseImages, id)
}
