package application

import (
	"context"
	"strings"

	"github.com/taka-shaka/matching-site-sub001/internal/account"
	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

// memberService implements MemberService.
type memberService struct {
	members     domain.MemberRepository
	provisioner *account.Provisioner
	audit       *audit.Recorder
}

func NewMemberService(members domain.MemberRepository, provisioner *account.Provisioner, recorder *audit.Recorder) MemberService {
	return &memberService{members: members, provisioner: provisioner, audit: recorder}
}

func (s *memberService) List(ctx context.Context, filter domain.MemberFilter, paging domain.Paging) ([]domain.Member, domain.Pagination, error) {
	members, total, err := s.members.Find(ctx, filter, paging)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return members, pageOf(total, paging), nil
}

func (s *memberService) Detail(ctx context.Context, id uint) (*domain.Member, error) {
	return s.members.FindByID(ctx, id)
}

func (s *memberService) Create(ctx context.Context, adminID uint, in account.MemberInput) (*domain.Member, error) {
	member, err := s.provisioner.CreateMember(ctx, in)
	if err != nil {
		return nil, err
	}
	s.audit.ByAdmin(ctx, adminID, domain.ActionMemberCreated, "メンバー「%s」(ID:%d)を会社ID:%dに追加しました", member.Name, member.ID, member.CompanyID)
	return s.members.FindByID(ctx, member.ID)
}

func (s *memberService) Update(ctx context.Context, adminID, id uint, cmd MemberPatch) (*domain.Member, error) {
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return nil, domain.Validation("名前は必須です")
		}
		member.Name = name
	}
	if cmd.Role != nil {
		role, err := domain.ParseMemberRole(*cmd.Role)
		if err != nil {
			return nil, err
		}
		member.Role = role
	}
	if cmd.IsActive != nil {
		member.IsActive = *cmd.IsActive
	}
	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}
	s.audit.ByAdmin(ctx, adminID, domain.ActionMemberUpdated, "メンバー「%s」(ID:%d)を更新しました", member.Name, member.ID)
	return s.members.FindByID(ctx, id)
}

func (s *memberService) Delete(ctx context.Context, adminID, id uint) error {
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.members.Delete(ctx, id); err != nil {
		return err
	}
	s.provisioner.DeleteIdentity(ctx, member.AuthID)
	s.audit.ByAdmin(ctx, adminID, domain.ActionMemberDeleted, "メンバー「%s」(ID:%d)を削除しました", member.Name, member.ID)
	return nil
}
