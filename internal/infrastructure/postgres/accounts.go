package postgres

import (
	"context"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) FindByAuthID(ctx context.Context, authID string) (*domain.Admin, error) {
	var m adminModel
	if err := r.db.WithContext(ctx).Where("auth_id = ?", authID).First(&m).Error; err != nil {
		return nil, translate(err, "管理者が見つかりません")
	}
	admin := toAdminEntity(m)
	return &admin, nil
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var m adminModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, translate(err, "管理者が見つかりません")
	}
	admin := toAdminEntity(m)
	return &admin, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	m := adminModel{
		AuthID:   admin.AuthID,
		Email:    admin.Email,
		Name:     admin.Name,
		Role:     string(admin.Role),
		IsActive: admin.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, "管理者が見つかりません")
	}
	admin.ID = m.ID
	admin.CreatedAt = m.CreatedAt
	return nil
}

func (r *AdminRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&adminModel{}).Where("id = ?", id).Update("last_login_at", at)
	if res.Error != nil {
		return translate(res.Error, "管理者が見つかりません")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("管理者が見つかりません")
	}
	return nil
}

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Find(ctx context.Context, filter domain.MemberFilter, paging domain.Paging) ([]domain.Member, int64, error) {
	q := r.db.WithContext(ctx).Model(&memberModel{})
	if filter.CompanyID != nil {
		q = q.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		q = q.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	var rows []memberModel
	if err := page(q, paging).Preload("Company").Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	members := make([]domain.Member, 0, len(rows))
	for _, m := range rows {
		members = append(members, toMemberEntity(m))
	}
	return members, total, nil
}

func (r *MemberRepository) FindByID(ctx context.Context, id uint) (*domain.Member, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByAuthID preloads the company and its tags for the auth layer.
func (r *MemberRepository) FindByAuthID(ctx context.Context, authID string) (*domain.Member, error) {
	return r.first(ctx, "auth_id = ?", authID)
}

func (r *MemberRepository) first(ctx context.Context, query string, arg interface{}) (*domain.Member, error) {
	var m memberModel
	err := r.db.WithContext(ctx).Preload("Company.Tags").Where(query, arg).First(&m).Error
	if err != nil {
		return nil, translate(err, "メンバーが見つかりません")
	}
	member := toMemberEntity(m)
	return &member, nil
}

func (r *MemberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&memberModel{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, translate(err, "")
	}
	return n > 0, nil
}

func (r *MemberRepository) Create(ctx context.Context, member *domain.Member) error {
	m := memberModel{
		AuthID:    member.AuthID,
		Email:     member.Email,
		Name:      member.Name,
		Role:      string(member.Role),
		CompanyID: member.CompanyID,
		IsActive:  member.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, "会社が見つかりません")
	}
	member.ID = m.ID
	member.CreatedAt = m.CreatedAt
	return nil
}

func (r *MemberRepository) Update(ctx context.Context, member *domain.Member) error {
	res := r.db.WithContext(ctx).Model(&memberModel{}).Where("id = ?", member.ID).Updates(map[string]interface{}{
		"name":      member.Name,
		"role":      string(member.Role),
		"is_active": member.IsActive,
	})
	if res.Error != nil {
		return translate(res.Error, "メンバーが見つかりません")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("メンバーが見つかりません")
	}
	return nil
}

// Delete relies on the foreign keys: authored cases cascade, reply authorship is cleared.
func (r *MemberRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&memberModel{}, id)
	if res.Error != nil {
		return translate(res.Error, "メンバーが見つかりません")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("メンバーが見つかりません")
	}
	return nil
}

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Find(ctx context.Context, filter domain.CustomerFilter, paging domain.Paging) ([]domain.Customer, int64, error) {
	q := r.db.WithContext(ctx).Model(&customerModel{})
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		q = q.Where("last_name ILIKE ? OR first_name ILIKE ? OR email ILIKE ?", like, like, like)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	var rows []customerModel
	if err := page(q, paging).Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	customers := make([]domain.Customer, 0, len(rows))
	for _, m := range rows {
		customers = append(customers, toCustomerEntity(m))
	}
	return customers, total, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CustomerRepository) FindByAuthID(ctx context.Context, authID string) (*domain.Customer, error) {
	return r.first(ctx, "auth_id = ?", authID)
}

func (r *CustomerRepository) first(ctx context.Context, query string, arg interface{}) (*domain.Customer, error) {
	var m customerModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		return nil, translate(err, "顧客が見つかりません")
	}
	customer := toCustomerEntity(m)
	return &customer, nil
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&customerModel{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, translate(err, "")
	}
	return n > 0, nil
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	m := customerModel{
		AuthID:      customer.AuthID,
		Email:       customer.Email,
		LastName:    customer.LastName,
		FirstName:   customer.FirstName,
		PhoneNumber: customer.PhoneNumber,
		IsActive:    customer.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, "顧客が見つかりません")
	}
	customer.ID = m.ID
	customer.CreatedAt = m.CreatedAt
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	res := r.db.WithContext(ctx).Model(&customerModel{}).Where("id = ?", customer.ID).Updates(map[string]interface{}{
		"last_name":    customer.LastName,
		"first_name":   customer.FirstName,
		"phone_number": customer.PhoneNumber,
		"is_active":    customer.IsActive,
	})
	if res.Error != nil {
		return translate(res.Error, "顧客が見つかりません")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("顧客が見つかりません")
	}
	return nil
}

// Delete keeps the customer's inquiries; the foreign key clears their link.
func (r *CustomerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&customerModel{}, id)
	if res.Error != nil {
		return translate(res.Error, "顧客が見つかりません")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("顧客が見つかりません")
	}
	return nil
}

func (r *CustomerRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&customerModel{}).Where("id = ?", id).Update("last_login_at", at)
	if res.Error != nil {
		return translate(res.Error, "顧客が見つかりません")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("顧客が見つかりません")
	}
	return nil
}
