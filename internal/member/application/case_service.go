package application

import (
	"context"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

// caseService implements CaseService.
type caseService struct {
	cases domain.CaseRepository
	tags  domain.TagRepository
	audit *audit.Recorder
	now   func() time.Time
}

func NewCaseService(cases domain.CaseRepository, tags domain.TagRepository, recorder *audit.Recorder) CaseService {
	return &caseService{cases: cases, tags: tags, audit: recorder, now: time.Now}
}

func (s *caseService) List(ctx context.Context, member *domain.Member, filter domain.CaseFilter, paging domain.Paging) ([]domain.ConstructionCase, domain.Pagination, error) {
	companyID := member.CompanyID
	filter.CompanyID = &companyID
	filter.PublishedCompaniesOnly = false
	cases, total, err := s.cases.Find(ctx, filter, paging)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return cases, domain.NewPagination(total, paging), nil
}

func (s *caseService) Detail(ctx context.Context, member *domain.Member, id uint) (*domain.ConstructionCase, error) {
	return s.load(ctx, member, id)
}

func (s *caseService) Create(ctx context.Context, member *domain.Member, cmd CaseCommand) (*domain.ConstructionCase, error) {
	if cmd.Patch.Title == nil {
		return nil, domain.Validation("タイトルは必須です")
	}
	c := &domain.ConstructionCase{
		CompanyID: member.CompanyID,
		AuthorID:  member.ID,
		Status:    domain.CaseStatusDraft,
	}
	if err := s.apply(ctx, c, cmd); err != nil {
		return nil, err
	}
	if err := s.cases.Create(ctx, c); err != nil {
		return nil, err
	}
	s.audit.ByMember(ctx, member.ID, domain.ActionCaseCreated, "施工事例「%s」(ID:%d)を作成しました", c.Title, c.ID)
	if c.IsPublished() {
		s.audit.ByMember(ctx, member.ID, domain.ActionCasePublished, "施工事例「%s」(ID:%d)を公開しました", c.Title, c.ID)
	}
	return s.cases.FindByID(ctx, c.ID)
}

func (s *caseService) Update(ctx context.Context, member *domain.Member, id uint, cmd CaseCommand) (*domain.ConstructionCase, error) {
	c, err := s.load(ctx, member, id)
	if err != nil {
		return nil, err
	}
	wasPublished := c.IsPublished()
	if err := s.apply(ctx, c, cmd); err != nil {
		return nil, err
	}
	if err := s.cases.Update(ctx, c); err != nil {
		return nil, err
	}
	s.audit.ByMember(ctx, member.ID, domain.ActionCaseUpdated, "施工事例「%s」(ID:%d)を更新しました", c.Title, c.ID)
	if !wasPublished && c.IsPublished() {
		s.audit.ByMember(ctx, member.ID, domain.ActionCasePublished, "施工事例「%s」(ID:%d)を公開しました", c.Title, c.ID)
	}
	return s.cases.FindByID(ctx, id)
}

func (s *caseService) Delete(ctx context.Context, member *domain.Member, id uint) error {
	c, err := s.load(ctx, member, id)
	if err != nil {
		return err
	}
	if err := s.cases.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.ByMember(ctx, member.ID, domain.ActionCaseDeleted, "施工事例「%s」(ID:%d)を削除しました", c.Title, c.ID)
	return nil
}

func (s *caseService) apply(ctx context.Context, c *domain.ConstructionCase, cmd CaseCommand) error {
	if err := c.ApplyPatch(cmd.Patch, s.now().UTC()); err != nil {
		return err
	}
	if cmd.TagIDs != nil {
		tags, err := domain.ResolveTags(ctx, s.tags, cmd.TagIDs)
		if err != nil {
			return err
		}
		c.Tags = tags
	}
	if cmd.ImageURLs != nil {
		images, err := domain.BuildCaseImages(cmd.ImageURLs)
		if err != nil {
			return err
		}
		c.Images = images
	}
	return nil
}

// load returns 404 for missing cases and 403 for other companies' cases.
func (s *caseService) load(ctx context.Context, member *domain.Member, id uint) (*domain.ConstructionCase, error) {
	c, err := s.cases.FindByID(ctx, id)
	if c, err = findOrNil(c, err); err != nil {
		return nil, err
	}
	if err := auth.Authorize(auth.MemberActor(member), auth.CaseResource(c)); err != nil {
		return nil, err
	}
	return c, nil
}
