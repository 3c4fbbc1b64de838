package postgres

import "gorm.io/gorm"

// Store bundles the repositories sharing one connection pool.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Admins() *AdminRepository                    { return NewAdminRepository(s.db) }
func (s *Store) Members() *MemberRepository                  { return NewMemberRepository(s.db) }
func (s *Store) Companies() *CompanyRepository               { return NewCompanyRepository(s.db) }
func (s *Store) Customers() *CustomerRepository              { return NewCustomerRepository(s.db) }
func (s *Store) Cases() *CaseRepository                      { return NewCaseRepository(s.db) }
func (s *Store) Inquiries() *InquiryRepository               { return NewInquiryRepository(s.db) }
func (s *Store) GeneralInquiries() *GeneralInquiryRepository { return NewGeneralInquiryRepository(s.db) }
func (s *Store) Tags() *TagRepository                        { return NewTagRepository(s.db) }
func (s *Store) ActivityLogs() *ActivityLogRepository        { return NewActivityLogRepository(s.db) }
