package application

import (
	"context"

	"github.com/taka-shaka/matching-site-sub001/internal/account"
	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

var errCompanyAdminOnly = domain.Forbidden("この操作は会社管理者のみ実行できます")

// companyService implements CompanyService.
type companyService struct {
	companies domain.CompanyRepository
	tags      domain.TagRepository
	audit     *audit.Recorder
}

func NewCompanyService(companies domain.CompanyRepository, tags domain.TagRepository, recorder *audit.Recorder) CompanyService {
	return &companyService{companies: companies, tags: tags, audit: recorder}
}

func (s *companyService) Profile(ctx context.Context, member *domain.Member) (*domain.Company, error) {
	return s.load(ctx, member)
}

func (s *companyService) UpdateProfile(ctx context.Context, member *domain.Member, patch domain.CompanyProfilePatch) (*domain.Company, error) {
	if !auth.CanMutateCompanyProfile(member) {
		return nil, errCompanyAdminOnly
	}
	company, err := s.load(ctx, member)
	if err != nil {
		return nil, err
	}
	previousEmail := company.Email
	if err := company.ApplyProfile(patch); err != nil {
		return nil, err
	}
	if company.Email != previousEmail {
		taken, err := s.companies.ExistsByEmail(ctx, company.Email, company.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Conflict("このメールアドレスは既に登録されています")
		}
	}
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	s.audit.ByMember(ctx, member.ID, domain.ActionCompanyUpdated, "会社情報「%s」を更新しました", company.Name)
	return s.companies.FindByID(ctx, company.ID)
}

func (s *companyService) ReplaceTags(ctx context.Context, member *domain.Member, tagIDs []uint) (*domain.Company, error) {
	if !auth.CanMutateCompanyProfile(member) {
		return nil, errCompanyAdminOnly
	}
	company, err := s.load(ctx, member)
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
	if err := s.companies.ReplaceTags(ctx, company.ID, ids); err != nil {
		return nil, err
	}
	s.audit.ByMember(ctx, member.ID, domain.ActionCompanyUpdated, "会社「%s」のタグを%d件に更新しました", company.Name, len(ids))
	return s.companies.FindByID(ctx, company.ID)
}

func (s *companyService) load(ctx context.Context, member *domain.Member) (*domain.Company, error) {
	company, err := s.companies.FindByID(ctx, member.CompanyID)
	if company, err = findOrNil(company, err); err != nil {
		return nil, err
	}
	if err := auth.Authorize(auth.MemberActor(member), auth.CompanyResource(company)); err != nil {
		return nil, err
	}
	return company, nil
}

// staffService implements StaffService.
type staffService struct {
	members     domain.MemberRepository
	provisioner *account.Provisioner
	audit       *audit.Recorder
}

func NewStaffService(members domain.MemberRepository, provisioner *account.Provisioner, recorder *audit.Recorder) StaffService {
	return &staffService{members: members, provisioner: provisioner, audit: recorder}
}

func (s *staffService) List(ctx context.Context, member *domain.Member, paging domain.Paging) ([]domain.Member, domain.Pagination, error) {
	companyID := member.CompanyID
	members, total, err := s.members.Find(ctx, domain.MemberFilter{CompanyID: &companyID}, paging)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return members, domain.NewPagination(total, paging), nil
}

// Create provisions a colleague in the caller's company regardless of the
// CompanyID in the input.
func (s *staffService) Create(ctx context.Context, member *domain.Member, in account.MemberInput) (*domain.Member, error) {
	if !auth.CanMutateCompanyProfile(member) {
		return nil, errCompanyAdminOnly
	}
	in.CompanyID = member.CompanyID
	created, err := s.provisioner.CreateMember(ctx, in)
	if err != nil {
		return nil, err
	}
	s.audit.ByMember(ctx, member.ID, domain.ActionMemberCreated, "メンバー「%s」(ID:%d)を追加しました", created.Name, created.ID)
	return s.members.FindByID(ctx, created.ID)
}
