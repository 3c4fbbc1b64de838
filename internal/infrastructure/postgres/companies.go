package postgres

import (
	"context"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Find(ctx context.Context, filter domain.CompanyFilter, paging domain.Paging) ([]domain.Company, int64, error) {
	q := r.db.WithContext(ctx).Model(&companyModel{})
	if filter.IsPublished != nil {
		q = q.Where("is_published = ?", *filter.IsPublished)
	}
	if filter.Prefecture != "" {
		q = q.Where("prefecture = ?", filter.Prefecture)
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		q = q.Where("name ILIKE ? OR description ILIKE ? OR city ILIKE ?", like, like, like)
	}
	if ids := domain.UniqueIDs(filter.TagIDs); len(ids) > 0 {
		q = q.Where("id IN (?)", r.db.Model(&companyTagModel{}).Select("company_id").Where("tag_id IN ?", ids))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	var rows []companyModel
	if err := page(q, paging).Preload("Tags").Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	companies := make([]domain.Company, 0, len(rows))
	for _, m := range rows {
		companies = append(companies, toCompanyEntity(m))
	}
	return companies, total, nil
}

func (r *CompanyRepository) FindByID(ctx context.Context, id uint) (*domain.Company, error) {
	var m companyModel
	if err := r.db.WithContext(ctx).Preload("Tags").First(&m, id).Error; err != nil {
		return nil, translate(err, "会社が見つかりません")
	}
	company := toCompanyEntity(m)
	return &company, nil
}

func (r *CompanyRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&companyModel{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, translate(err, "")
	}
	return n > 0, nil
}

func (r *CompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	m := toCompanyModel(company)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
			return err
		}
		if err := replaceCompanyTags(tx, m.ID, tagIDsOf(company.Tags)); err != nil {
			return err
		}
		return tx.Preload("Tags").First(&m, m.ID).Error
	})
	if err != nil {
		return translate(err, "会社が見つかりません")
	}
	*company = toCompanyEntity(m)
	return nil
}

// Update writes the profile columns only; tags go through ReplaceTags.
func (r *CompanyRepository) Update(ctx context.Context, company *domain.Company) error {
	m := toCompanyModel(company)
	m.UpdatedAt = r.db.NowFunc()
	res := r.db.WithContext(ctx).Model(&companyModel{ID: company.ID}).
		Select("name", "description", "address", "prefecture", "city", "phone_number", "email", "website_url", "logo_url", "is_published", "updated_at").
		Updates(&m)
	if res.Error != nil {
		return translate(res.Error, "会社が見つかりません")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("会社が見つかりません")
	}
	company.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *CompanyRepository) ReplaceTags(ctx context.Context, companyID uint, tagIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m companyModel
		if err := tx.Select("id").First(&m, companyID).Error; err != nil {
			return err
		}
		return replaceCompanyTags(tx, companyID, tagIDs)
	})
	return translate(err, "会社が見つかりません")
}

func replaceCompanyTags(tx *gorm.DB, companyID uint, tagIDs []uint) error {
	if err := tx.Where("company_id = ?", companyID).Delete(&companyTagModel{}).Error; err != nil {
		return err
	}
	ids := domain.UniqueIDs(tagIDs)
	if len(ids) == 0 {
		return nil
	}
	links := make([]companyTagModel, 0, len(ids))
	for _, id := range ids {
		links = append(links, companyTagModel{CompanyID: companyID, TagID: id})
	}
	return tx.Create(&links).Error
}

// Delete cascades through the foreign keys to members, cases, inquiries and tag links.
func (r *CompanyRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&companyModel{}, id)
	if res.Error != nil {
		return translate(res.Error, "会社が見つかりません")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("会社が見つかりません")
	}
	return nil
}
