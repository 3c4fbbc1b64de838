package auth

import (
	"context"
	"errors"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

// RecordLoader fetches the application row behind an identity.
type RecordLoader struct {
	admins    domain.AdminRepository
	members   domain.MemberRepository
	customers domain.CustomerRepository
}

func NewRecordLoader(admins domain.AdminRepository, members domain.MemberRepository, customers domain.CustomerRepository) *RecordLoader {
	return &RecordLoader{admins: admins, members: members, customers: customers}
}

// LoadAdmin returns ErrRecordMissing when no active admin row exists.
func (l *RecordLoader) LoadAdmin(ctx context.Context, authID string) (*domain.Admin, error) {
	admin, err := l.admins.FindByAuthID(ctx, authID)
	if err != nil {
		return nil, missingOr(err)
	}
	if !admin.IsActive {
		return nil, ErrRecordMissing
	}
	return admin, nil
}

// LoadMember returns the member together with its company.
func (l *RecordLoader) LoadMember(ctx context.Context, authID string) (*domain.Member, error) {
	member, err := l.members.FindByAuthID(ctx, authID)
	if err != nil {
		return nil, missingOr(err)
	}
	if !member.IsActive {
		return nil, ErrRecordMissing
	}
	return member, nil
}

func (l *RecordLoader) LoadCustomer(ctx context.Context, authID string) (*domain.Customer, error) {
	customer, err := l.customers.FindByAuthID(ctx, authID)
	if err != nil {
		return nil, missingOr(err)
	}
	if !customer.IsActive {
		return nil, ErrRecordMissing
	}
	return customer, nil
}

func missingOr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ErrRecordMissing
	}
	return err
}
