// Package memory keeps every repository in process memory. It backs the test
// suites and `STORE_DRIVER=memory` local runs; rows vanish with the process.
package memory

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

// Store is one shared dataset; the repositories it hands out see the same rows
// and serialise on a single mutex, which stands in for database transactions.
type Store struct {
	mu  sync.Mutex
	now func() time.Time
	seq map[string]uint

	admins           map[uint]domain.Admin
	members          map[uint]domain.Member
	companies        map[uint]domain.Company
	companyTags      map[uint][]uint
	customers        map[uint]domain.Customer
	cases            map[uint]domain.ConstructionCase
	caseTags         map[uint][]uint
	caseImages       map[uint][]domain.CaseImage
	inquiries        map[uint]domain.Inquiry
	responses        map[uint][]domain.InquiryResponse
	generalInquiries map[uint]domain.GeneralInquiry
	generalResponses map[uint][]domain.GeneralInquiryResponse
	tags             map[uint]domain.Tag
	logs             []domain.ActivityLog
}

// Option tweaks a Store at construction.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		now:              time.Now,
		seq:              make(map[string]uint),
		admins:           make(map[uint]domain.Admin),
		members:          make(map[uint]domain.Member),
		companies:        make(map[uint]domain.Company),
		companyTags:      make(map[uint][]uint),
		customers:        make(map[uint]domain.Customer),
		cases:            make(map[uint]domain.ConstructionCase),
		caseTags:         make(map[uint][]uint),
		caseImages:       make(map[uint][]domain.CaseImage),
		inquiries:        make(map[uint]domain.Inquiry),
		responses:        make(map[uint][]domain.InquiryResponse),
		generalInquiries: make(map[uint]domain.GeneralInquiry),
		generalResponses: make(map[uint][]domain.GeneralInquiryResponse),
		tags:             make(map[uint]domain.Tag),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Admins() *AdminRepository                    { return &AdminRepository{s} }
func (s *Store) Members() *MemberRepository                  { return &MemberRepository{s} }
func (s *Store) Companies() *CompanyRepository               { return &CompanyRepository{s} }
func (s *Store) Customers() *CustomerRepository              { return &CustomerRepository{s} }
func (s *Store) Cases() *CaseRepository                      { return &CaseRepository{s} }
func (s *Store) Inquiries() *InquiryRepository               { return &InquiryRepository{s} }
func (s *Store) GeneralInquiries() *GeneralInquiryRepository { return &GeneralInquiryRepository{s} }
func (s *Store) Tags() *TagRepository                        { return &TagRepository{s} }
func (s *Store) ActivityLogs() *ActivityLogRepository        { return &ActivityLogRepository{s} }

func (s *Store) nextID(kind string) uint {
	s.seq[kind]++
	return s.seq[kind]
}

// sortedDesc returns map values newest first (ids grow with insertion).
func sortedDesc[T any](rows map[uint]T) []uint {
	ids := make([]uint, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	slices.Reverse(ids)
	return ids
}

func paginate[T any](items []T, paging domain.Paging) []T {
	p := paging.Normalize()
	start := p.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := min(start+p.Limit, len(items))
	return items[start:end]
}

func containsFold(needle string, haystacks ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func intersects(have, want []uint) bool {
	if len(want) == 0 {
		return true
	}
	for _, id := range want {
		if slices.Contains(have, id) {
			return true
		}
	}
	return false
}

// tagsFor resolves tag ids in catalogue order.
func (s *Store) tagsFor(ids []uint) []domain.Tag {
	result := make([]domain.Tag, 0, len(ids))
	for _, id := range ids {
		if tag, ok := s.tags[id]; ok {
			result = append(result, tag)
		}
	}
	domain.SortTags(result)
	return result
}

func (s *Store) hydrateCompany(company domain.Company) domain.Company {
	company.Tags = s.tagsFor(s.companyTags[company.ID])
	return company
}

func (s *Store) companyRef(id uint) *domain.Company {
	company, ok := s.companies[id]
	if !ok {
		return nil
	}
	hydrated := s.hydrateCompany(company)
	return &hydrated
}
