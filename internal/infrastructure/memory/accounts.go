package memory

import (
	"context"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

type AdminRepository struct{ s *Store }

func (r *AdminRepository) FindByAuthID(_ context.Context, authID string) (*domain.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, admin := range r.s.admins {
		if admin.AuthID == authID {
			found := admin
			return &found, nil
		}
	}
	return nil, domain.NotFound("管理者が見つかりません")
}

func (r *AdminRepository) FindByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, admin := range r.s.admins {
		if admin.Email == email {
			found := admin
			return &found, nil
		}
	}
	return nil, domain.NotFound("管理者が見つかりません")
}

func (r *AdminRepository) Create(_ context.Context, admin *domain.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.admins {
		if existing.Email == admin.Email || existing.AuthID == admin.AuthID {
			return domain.Conflict("このメールアドレスは既に登録されています")
		}
	}
	admin.ID = r.s.nextID("admin")
	admin.CreatedAt = r.s.now()
	r.s.admins[admin.ID] = *admin
	return nil
}

func (r *AdminRepository) TouchLastLogin(_ context.Context, id uint, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	admin, ok := r.s.admins[id]
	if !ok {
		return domain.NotFound("管理者が見つかりません")
	}
	admin.LastLoginAt = &at
	r.s.admins[id] = admin
	return nil
}

type MemberRepository struct{ s *Store }

func (r *MemberRepository) Find(_ context.Context, filter domain.MemberFilter, paging domain.Paging) ([]domain.Member, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	matched := make([]domain.Member, 0)
	for _, id := range sortedDesc(r.s.members) {
		member := r.s.members[id]
		if filter.CompanyID != nil && member.CompanyID != *filter.CompanyID {
			continue
		}
		if !containsFold(filter.Search, member.Name, member.Email) {
			continue
		}
		member.Company = r.s.companyRef(member.CompanyID)
		matched = append(matched, member)
	}
	return paginate(matched, paging), int64(len(matched)), nil
}

func (r *MemberRepository) FindByID(_ context.Context, id uint) (*domain.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	member, ok := r.s.members[id]
	if !ok {
		return nil, domain.NotFound("メンバーが見つかりません")
	}
	member.Company = r.s.companyRef(member.CompanyID)
	return &member, nil
}

func (r *MemberRepository) FindByAuthID(_ context.Context, authID string) (*domain.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, member := range r.s.members {
		if member.AuthID == authID {
			member.Company = r.s.companyRef(member.CompanyID)
			return &member, nil
		}
	}
	return nil, domain.NotFound("メンバーが見つかりません")
}

func (r *MemberRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, member := range r.s.members {
		if member.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemberRepository) Create(_ context.Context, member *domain.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[member.CompanyID]; !ok {
		return domain.NotFound("会社が見つかりません")
	}
	for _, existing := range r.s.members {
		if existing.Email == member.Email || existing.AuthID == member.AuthID {
			return domain.Conflict("このメールアドレスは既に登録されています")
		}
	}
	member.ID = r.s.nextID("member")
	member.CreatedAt = r.s.now()
	stored := *member
	stored.Company = nil
	r.s.members[member.ID] = stored
	return nil
}

func (r *MemberRepository) Update(_ context.Context, member *domain.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.members[member.ID]
	if !ok {
		return domain.NotFound("メンバーが見つかりません")
	}
	existing.Name = member.Name
	existing.Role = member.Role
	existing.IsActive = member.IsActive
	r.s.members[member.ID] = existing
	return nil
}

func (r *MemberRepository) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[id]; !ok {
		return domain.NotFound("メンバーが見つかりません")
	}
	r.s.deleteMember(id)
	return nil
}

// deleteMember mirrors the foreign keys: authored cases cascade, reply
// authorship is cleared.
func (s *Store) deleteMember(id uint) {
	delete(s.members, id)
	for caseID, c := range s.cases {
		if c.AuthorID == id {
			s.deleteCase(caseID)
		}
	}
	for inquiryID, list := range s.responses {
		for i := range list {
			if list[i].MemberID != nil && *list[i].MemberID == id {
				list[i].MemberID = nil
			}
		}
		s.responses[inquiryID] = list
	}
}

type CustomerRepository struct{ s *Store }

func (r *CustomerRepository) Find(_ context.Context, filter domain.CustomerFilter, paging domain.Paging) ([]domain.Customer, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	matched := make([]domain.Customer, 0)
	for _, id := range sortedDesc(r.s.customers) {
		customer := r.s.customers[id]
		if filter.IsActive != nil && customer.IsActive != *filter.IsActive {
			continue
		}
		if !containsFold(filter.Search, customer.LastName, customer.FirstName, customer.Email) {
			continue
		}
		matched = append(matched, customer)
	}
	return paginate(matched, paging), int64(len(matched)), nil
}

func (r *CustomerRepository) FindByID(_ context.Context, id uint) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	customer, ok := r.s.customers[id]
	if !ok {
		return nil, domain.NotFound("顧客が見つかりません")
	}
	return &customer, nil
}

func (r *CustomerRepository) FindByAuthID(_ context.Context, authID string) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, customer := range r.s.customers {
		if customer.AuthID == authID {
			return &customer, nil
		}
	}
	return nil, domain.NotFound("顧客が見つかりません")
}

func (r *CustomerRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, customer := range r.s.customers {
		if customer.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *CustomerRepository) Create(_ context.Context, customer *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.customers {
		if existing.Email == customer.Email || existing.AuthID == customer.AuthID {
			return domain.Conflict("このメールアドレスは既に登録されています")
		}
	}
	customer.ID = r.s.nextID("customer")
	customer.CreatedAt = r.s.now()
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r *CustomerRepository) Update(_ context.Context, customer *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.customers[customer.ID]
	if !ok {
		return domain.NotFound("顧客が見つかりません")
	}
	existing.LastName = customer.LastName
	existing.FirstName = customer.FirstName
	existing.PhoneNumber = customer.PhoneNumber
	existing.IsActive = customer.IsActive
	r.s.customers[customer.ID] = existing
	return nil
}

// Delete removes the customer together with their inquiries and the replies on them.
func (r *CustomerRepository) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[id]; !ok {
		return domain.NotFound("顧客が見つかりません")
	}
	delete(r.s.customers, id)
	for inquiryID, inquiry := range r.s.inquiries {
		if inquiry.CustomerID != nil && *inquiry.CustomerID == id {
			delete(r.s.inquiries, inquiryID)
			delete(r.s.responses, inquiryID)
		}
	}
	return nil
}

func (r *CustomerRepository) TouchLastLogin(_ context.Context, id uint, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	customer, ok := r.s.customers[id]
	if !ok {
		return domain.NotFound("顧客が見つかりません")
	}
	customer.LastLoginAt = &at
	r.s.customers[id] = customer
	return nil
}
