package postgres

import (
	"context"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) Find(ctx context.Context, filter domain.CaseFilter, paging domain.Paging) ([]domain.ConstructionCase, int64, error) {
	q := r.db.WithContext(ctx).Model(&caseModel{})
	if filter.CompanyID != nil {
		q = q.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Prefecture != "" {
		q = q.Where("prefecture = ?", filter.Prefecture)
	}
	if filter.MinBudget != nil {
		q = q.Where("budget >= ?", *filter.MinBudget)
	}
	if filter.MaxBudget != nil {
		q = q.Where("budget <= ?", *filter.MaxBudget)
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		q = q.Where("title ILIKE ? OR description ILIKE ? OR city ILIKE ?", like, like, like)
	}
	if ids := domain.UniqueIDs(filter.TagIDs); len(ids) > 0 {
		q = q.Where("id IN (?)", r.db.Model(&caseTagModel{}).Select("case_id").Where("tag_id IN ?", ids))
	}
	if filter.PublishedCompaniesOnly {
		q = q.Where("company_id IN (?)", r.db.Model(&companyModel{}).Select("id").Where("is_published = ?", true))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	var rows []caseModel
	if err := preloadCase(page(q, paging)).Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	cases := make([]domain.ConstructionCase, 0, len(rows))
	for _, m := range rows {
		cases = append(cases, toCaseEntity(m))
	}
	return cases, total, nil
}

func (r *CaseRepository) FindByID(ctx context.Context, id uint) (*domain.ConstructionCase, error) {
	var m caseModel
	if err := preloadCase(r.db.WithContext(ctx)).First(&m, id).Error; err != nil {
		return nil, translate(err, "施工事例が見つかりません")
	}
	c := toCaseEntity(m)
	return &c, nil
}

func (r *CaseRepository) Create(ctx context.Context, c *domain.ConstructionCase) error {
	m := toCaseModel(c)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
			return err
		}
		return writeCaseAssociations(tx, m.ID, c)
	})
	if err != nil {
		return translate(err, "会社が見つかりません")
	}
	return r.reload(ctx, m.ID, c)
}

// Update replaces the case's columns, tags and images. ViewCount is never
// overwritten here.
func (r *CaseRepository) Update(ctx context.Context, c *domain.ConstructionCase) error {
	m := toCaseModel(c)
	m.UpdatedAt = r.db.NowFunc()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&caseModel{ID: c.ID}).
			Select("title", "description", "prefecture", "city", "building_area", "budget", "completion_year", "main_image_url", "status", "published_at", "updated_at").
			Updates(&m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return writeCaseAssociations(tx, c.ID, c)
	})
	if err != nil {
		return translate(err, "施工事例が見つかりません")
	}
	return r.reload(ctx, c.ID, c)
}

func (r *CaseRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&caseModel{}, id)
	if res.Error != nil {
		return translate(res.Error, "施工事例が見つかりません")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("施工事例が見つかりません")
	}
	return nil
}

func (r *CaseRepository) IncrementViewCount(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&caseModel{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		return translate(res.Error, "施工事例が見つかりません")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("施工事例が見つかりません")
	}
	return nil
}

func (r *CaseRepository) reload(ctx context.Context, id uint, c *domain.ConstructionCase) error {
	loaded, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	*c = *loaded
	return nil
}

// writeCaseAssociations replaces the tag links and the ordered image list.
func writeCaseAssociations(tx *gorm.DB, caseID uint, c *domain.ConstructionCase) error {
	if err := tx.Where("case_id = ?", caseID).Delete(&caseTagModel{}).Error; err != nil {
		return err
	}
	if ids := domain.UniqueIDs(tagIDsOf(c.Tags)); len(ids) > 0 {
		links := make([]caseTagModel, 0, len(ids))
		for _, id := range ids {
			links = append(links, caseTagModel{CaseID: caseID, TagID: id})
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("case_id = ?", caseID).Delete(&caseImageModel{}).Error; err != nil {
		return err
	}
	if len(c.Images) == 0 {
		return nil
	}
	images := make([]caseImageModel, 0, len(c.Images))
	for i, img := range c.Images {
		order := img.DisplayOrder
		if order == 0 {
			order = i + 1
		}
		images = append(images, caseImageModel{CaseID: caseID, ImageURL: img.ImageURL, DisplayOrder: order})
	}
	return tx.Create(&images).Error
}

func preloadCase(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Company").
		Preload("Tags").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC").Order("id ASC") })
}
