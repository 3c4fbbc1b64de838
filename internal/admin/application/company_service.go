package application

import (
	"context"

	"github.com/taka-shaka/matching-site-sub001/internal/account"
	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

// companyService implements CompanyService.
type companyService struct {
	companies   domain.CompanyRepository
	members     domain.MemberRepository
	tags        domain.TagRepository
	provisioner *account.Provisioner
	audit       *audit.Recorder
}

func NewCompanyService(
	companies domain.CompanyRepository,
	members domain.MemberRepository,
	tags domain.TagRepository,
	provisioner *account.Provisioner,
	recorder *audit.Recorder,
) CompanyService {
	return &companyService{
		companies:   companies,
		members:     members,
		tags:        tags,
		provisioner: provisioner,
		audit:       recorder,
	}
}

func (s *companyService) List(ctx context.Context, filter domain.CompanyFilter, paging domain.Paging) ([]domain.Company, domain.Pagination, error) {
	companies, total, err := s.companies.Find(ctx, filter, paging)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return companies, pageOf(total, paging), nil
}

func (s *companyService) Detail(ctx context.Context, id uint) (*domain.Company, error) {
	return s.companies.FindByID(ctx, id)
}

func (s *companyService) Create(ctx context.Context, adminID uint, cmd CompanyCommand) (*domain.Company, error) {
	if cmd.Profile.Name == nil {
		return nil, domain.Validation("会社名は必須です")
	}
	if cmd.Profile.Email == nil {
		return nil, domain.Validation("メールアドレスを入力してください")
	}
	company := &domain.Company{IsPublished: cmd.IsPublished}
	if err := company.ApplyProfile(cmd.Profile); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, company.Email, 0); err != nil {
		return nil, err
	}
	tags, err := domain.ResolveTags(ctx, s.tags, cmd.TagIDs)
	if err != nil {
		return nil, err
	}
	company.Tags = tags

	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}
	s.audit.ByAdmin(ctx, adminID, domain.ActionCompanyCreated, "会社「%s」(ID:%d)を作成しました", company.Name, company.ID)
	return s.companies.FindByID(ctx, company.ID)
}

func (s *companyService) Update(ctx context.Context, adminID, id uint, cmd CompanyPatch) (*domain.Company, error) {
	company, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousEmail := company.Email
	if err := company.ApplyProfile(cmd.Profile); err != nil {
		return nil, err
	}
	if company.Email != previousEmail {
		if err := s.ensureEmailFree(ctx, company.Email, id); err != nil {
			return nil, err
		}
	}
	if cmd.IsPublished != nil {
		company.IsPublished = *cmd.IsPublished
	}
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	s.audit.ByAdmin(ctx, adminID, domain.ActionCompanyUpdated, "会社「%s」(ID:%d)を更新しました", company.Name, company.ID)
	return s.companies.FindByID(ctx, id)
}

// Delete removes the company with its members, cases and inquiries. The
// members' identity users are removed afterwards.
func (s *companyService) Delete(ctx context.Context, adminID, id uint) error {
	company, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return err
	}
	authIDs, err := s.memberAuthIDs(ctx, id)
	if err != nil {
		return err
	}
	if err := s.companies.Delete(ctx, id); err != nil {
		return err
	}
	for _, authID := range authIDs {
		s.provisioner.DeleteIdentity(ctx, authID)
	}
	s.audit.ByAdmin(ctx, adminID, domain.ActionCompanyDeleted, "会社「%s」(ID:%d)を削除しました", company.Name, company.ID)
	return nil
}

func (s *companyService) ReplaceTags(ctx context.Context, adminID, id uint, tagIDs []uint) (*domain.Company, error) {
	company, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tags, err := domain.ResolveTags(ctx, s.tags, tagIDs)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	if err := s.companies.ReplaceTags(ctx, id, ids); err != nil {
		return nil, err
	}
	s.audit.ByAdmin(ctx, adminID, domain.ActionCompanyUpdated, "会社「%s」(ID:%d)のタグを%d件に更新しました", company.Name, company.ID, len(ids))
	return s.companies.FindByID(ctx, id)
}

func (s *companyService) ensureEmailFree(ctx context.Context, email string, excludeID uint) error {
	taken, err := s.companies.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.Conflict("このメールアドレスは既に登録されています")
	}
	return nil
}

func (s *companyService) memberAuthIDs(ctx context.Context, companyID uint) ([]string, error) {
	var authIDs []string
	paging := domain.Paging{Page: 1, Limit: domain.MaxPageLimit}
	for {
		members, total, err := s.members.Find(ctx, domain.MemberFilter{CompanyID: &companyID}, paging)
		if err != nil {
			return nil, err
		}
		for _, member := range members {
			authIDs = append(authIDs, member.AuthID)
		}
		if len(members) == 0 || int64(paging.Page*paging.Limit) >= total {
			return authIDs, nil
		}
		paging.Page++
	}
}
