package postgres

import (
	"context"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) Find(ctx context.Context, filter domain.InquiryFilter, paging domain.Paging) ([]domain.Inquiry, int64, error) {
	q := r.db.WithContext(ctx).Model(&inquiryModel{})
	if filter.CompanyID != nil {
		q = q.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	var rows []inquiryModel
	if err := page(q, paging).Preload("Company").Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	inquiries := make([]domain.Inquiry, 0, len(rows))
	for _, m := range rows {
		inquiries = append(inquiries, toInquiryEntity(m))
	}
	return inquiries, total, nil
}

func (r *InquiryRepository) FindByID(ctx context.Context, id uint) (*domain.Inquiry, error) {
	return loadInquiry(r.db.WithContext(ctx), id)
}

func (r *InquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	if inquiry.Status == "" {
		inquiry.Status = domain.InquiryStatusNew
	}
	m := inquiryModel{
		CompanyID:     inquiry.CompanyID,
		CustomerID:    inquiry.CustomerID,
		InquirerName:  inquiry.InquirerName,
		InquirerEmail: inquiry.InquirerEmail,
		InquirerPhone: inquiry.InquirerPhone,
		Message:       inquiry.Message,
		Status:        string(inquiry.Status),
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return translate(err, "会社が見つかりません")
	}
	inquiry.ID = m.ID
	inquiry.CreatedAt = m.CreatedAt
	inquiry.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *InquiryRepository) Update(ctx context.Context, inquiry *domain.Inquiry) error {
	now := r.db.NowFunc()
	res := r.db.WithContext(ctx).Model(&inquiryModel{}).Where("id = ?", inquiry.ID).Updates(map[string]interface{}{
		"status":         string(inquiry.Status),
		"internal_notes": inquiry.InternalNotes,
		"updated_at":     now,
	})
	if res.Error != nil {
		return translate(res.Error, "お問い合わせが見つかりません")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("お問い合わせが見つかりません")
	}
	inquiry.UpdatedAt = now
	return nil
}

// AddResponse locks the inquiry row, applies transition and stores the response
// in one transaction. A transition error rolls back without writing anything.
func (r *InquiryRepository) AddResponse(ctx context.Context, inquiryID uint, response *domain.InquiryResponse, transition domain.StatusTransition, stampResponded bool) (*domain.Inquiry, error) {
	var result *domain.Inquiry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current inquiryModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, inquiryID).Error; err != nil {
			return err
		}
		next, err := transition(domain.InquiryStatus(current.Status))
		if err != nil {
			return err
		}

		row := inquiryResponseModel{
			InquiryID: inquiryID,
			Sender:    string(response.Sender),
			MemberID:  response.MemberID,
			Message:   response.Message,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status":     string(next),
			"updated_at": row.CreatedAt,
		}
		if stampResponded && current.RespondedAt == nil {
			updates["responded_at"] = row.CreatedAt
		}
		if err := tx.Model(&inquiryModel{}).Where("id = ?", inquiryID).Updates(updates).Error; err != nil {
			return err
		}

		*response = toInquiryResponseEntity(row)
		result, err = loadInquiry(tx, inquiryID)
		return err
	})
	if err != nil {
		return nil, translate(err, "お問い合わせが見つかりません")
	}
	return result, nil
}

func (r *InquiryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&inquiryModel{}, id)
	if res.Error != nil {
		return translate(res.Error, "お問い合わせが見つかりません")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("お問い合わせが見つかりません")
	}
	return nil
}

func loadInquiry(db *gorm.DB, id uint) (*domain.Inquiry, error) {
	var m inquiryModel
	err := db.
		Preload("Company").
		Preload("Responses", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC").Order("id ASC") }).
		First(&m, id).Error
	if err != nil {
		return nil, translate(err, "お問い合わせが見つかりません")
	}
	inquiry := toInquiryEntity(m)
	return &inquiry, nil
}

type GeneralInquiryRepository struct {
	db *gorm.DB
}

func NewGeneralInquiryRepository(db *gorm.DB) *GeneralInquiryRepository {
	return &GeneralInquiryRepository{db: db}
}

func (r *GeneralInquiryRepository) Find(ctx context.Context, filter domain.GeneralInquiryFilter, paging domain.Paging) ([]domain.GeneralInquiry, int64, error) {
	q := r.db.WithContext(ctx).Model(&generalInquiryModel{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	var rows []generalInquiryModel
	if err := page(q, paging).Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	inquiries := make([]domain.GeneralInquiry, 0, len(rows))
	for _, m := range rows {
		inquiries = append(inquiries, toGeneralInquiryEntity(m))
	}
	return inquiries, total, nil
}

func (r *GeneralInquiryRepository) FindByID(ctx context.Context, id uint) (*domain.GeneralInquiry, error) {
	return loadGeneralInquiry(r.db.WithContext(ctx), id)
}

func (r *GeneralInquiryRepository) Create(ctx context.Context, inquiry *domain.GeneralInquiry) error {
	if inquiry.Status == "" {
		inquiry.Status = domain.InquiryStatusNew
	}
	m := generalInquiryModel{
		Name:    inquiry.Name,
		Email:   inquiry.Email,
		Phone:   inquiry.Phone,
		Subject: inquiry.Subject,
		Message: inquiry.Message,
		Status:  string(inquiry.Status),
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return translate(err, "")
	}
	inquiry.ID = m.ID
	inquiry.CreatedAt = m.CreatedAt
	inquiry.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *GeneralInquiryRepository) Update(ctx context.Context, inquiry *domain.GeneralInquiry) error {
	now := r.db.NowFunc()
	res := r.db.WithContext(ctx).Model(&generalInquiryModel{}).Where("id = ?", inquiry.ID).Updates(map[string]interface{}{
		"status":         string(inquiry.Status),
		"internal_notes": inquiry.InternalNotes,
		"updated_at":     now,
	})
	if res.Error != nil {
		return translate(res.Error, "お問い合わせが見つかりません")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("お問い合わせが見つかりません")
	}
	inquiry.UpdatedAt = now
	return nil
}

func (r *GeneralInquiryRepository) AddResponse(ctx context.Context, inquiryID uint, response *domain.GeneralInquiryResponse, transition domain.StatusTransition) (*domain.GeneralInquiry, error) {
	var result *domain.GeneralInquiry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current generalInquiryModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, inquiryID).Error; err != nil {
			return err
		}
		next, err := transition(domain.InquiryStatus(current.Status))
		if err != nil {
			return err
		}

		row := generalInquiryResponseModel{
			GeneralInquiryID: inquiryID,
			Sender:           string(response.Sender),
			AdminID:          response.AdminID,
			Message:          response.Message,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status":     string(next),
			"updated_at": row.CreatedAt,
		}
		if current.RespondedAt == nil {
			updates["responded_at"] = row.CreatedAt
		}
		if err := tx.Model(&generalInquiryModel{}).Where("id = ?", inquiryID).Updates(updates).Error; err != nil {
			return err
		}

		response.ID = row.ID
		response.GeneralInquiryID = inquiryID
		response.CreatedAt = row.CreatedAt
		result, err = loadGeneralInquiry(tx, inquiryID)
		return err
	})
	if err != nil {
		return nil, translate(err, "お問い合わせが見つかりません")
	}
	return result, nil
}

func loadGeneralInquiry(db *gorm.DB, id uint) (*domain.GeneralInquiry, error) {
	var m generalInquiryModel
	err := db.
		Preload("Responses", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC").Order("id ASC") }).
		First(&m, id).Error
	if err != nil {
		return nil, translate(err, "お問い合わせが見つかりません")
	}
	inquiry := toGeneralInquiryEntity(m)
	return &inquiry, nil
}
