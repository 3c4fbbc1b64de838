package application

import (
	"context"

	"github.com/taka-shaka/matching-site-sub001/internal/account"
	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

// customerService implements CustomerService.
type customerService struct {
	customers   domain.CustomerRepository
	provisioner *account.Provisioner
	audit       *audit.Recorder
}

func NewCustomerService(customers domain.CustomerRepository, provisioner *account.Provisioner, recorder *audit.Recorder) CustomerService {
	return &customerService{customers: customers, provisioner: provisioner, audit: recorder}
}

func (s *customerService) List(ctx context.Context, filter domain.CustomerFilter, paging domain.Paging) ([]domain.Customer, domain.Pagination, error) {
	customers, total, err := s.customers.Find(ctx, filter, paging)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return customers, pageOf(total, paging), nil
}

func (s *customerService) Detail(ctx context.Context, id uint) (*domain.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// SetActive suspends or restores a customer. Suspended customers fail every
// customer-scoped request until restored.
func (s *customerService) SetActive(ctx context.Context, adminID, id uint, active bool) (*domain.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.IsActive = active
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	state := "停止"
	if active {
		state = "有効化"
	}
	s.audit.ByAdmin(ctx, adminID, domain.ActionCustomerUpdated, "顧客(ID:%d)を%sしました", customer.ID, state)
	return customer, nil
}

// Delete keeps the customer's inquiries; they lose the customer link only.
func (s *customerService) Delete(ctx context.Context, adminID, id uint) error {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}
	s.provisioner.DeleteIdentity(ctx, customer.AuthID)
	s.audit.ByAdmin(ctx, adminID, domain.ActionCustomerDeleted, "顧客「%s」(ID:%d)を削除しました", customer.FullName(), customer.ID)
	return nil
}
