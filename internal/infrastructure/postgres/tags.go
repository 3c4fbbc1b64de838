package postgres

import (
	"context"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository keeps display orders contiguous per category. Mutations lock
// the affected categories with SELECT ... FOR UPDATE before shifting.
type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List(ctx context.Context, category domain.TagCategory) ([]domain.Tag, error) {
	q := r.db.WithContext(ctx).Model(&tagModel{})
	if category != "" {
		q = q.Where("category = ?", string(category))
	}
	var rows []tagModel
	if err := q.Order("display_order ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translate(err, "")
	}
	return toTagEntities(rows), nil
}

func (r *TagRepository) FindByID(ctx context.Context, id uint) (*domain.Tag, error) {
	var m tagModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err, "タグが見つかりません")
	}
	tag := toTagEntity(m)
	return &tag, nil
}

func (r *TagRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Tag, error) {
	ids = domain.UniqueIDs(ids)
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	var rows []tagModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translate(err, "")
	}
	return toTagEntities(rows), nil
}

func (r *TagRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&tagModel{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, translate(err, "")
	}
	return n > 0, nil
}

func (r *TagRepository) CountInCategory(ctx context.Context, category domain.TagCategory) (int, error) {
	n, err := countCategory(r.db.WithContext(ctx), category)
	return n, translate(err, "")
}

func (r *TagRepository) CountUsage(ctx context.Context, id uint) (int64, error) {
	n, err := tagUsage(r.db.WithContext(ctx), id)
	return n, translate(err, "")
}

func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	var created tagModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders, err := lockCategory(tx, tag.Category)
		if err != nil {
			return err
		}
		created = tagModel{
			Name:         tag.Name,
			Category:     string(tag.Category),
			DisplayOrder: domain.NextDisplayOrder(maxOf(orders)),
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return translateTagErr(err)
	}
	*tag = toTagEntity(created)
	return nil
}

func (r *TagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	var updated tagModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&updated, tag.ID).Error; err != nil {
			return err
		}
		updated.Name = tag.Name

		if string(tag.Category) != updated.Category {
			oldCategory := domain.TagCategory(updated.Category)
			oldOrders, err := lockCategory(tx, oldCategory)
			if err != nil {
				return err
			}
			newOrders, err := lockCategory(tx, tag.Category)
			if err != nil {
				return err
			}
			shift := domain.PlanRemoval(updated.DisplayOrder, len(oldOrders))
			if err := applyShift(tx, oldCategory, updated.ID, shift); err != nil {
				return err
			}
			updated.Category = string(tag.Category)
			updated.DisplayOrder = domain.NextDisplayOrder(maxOf(newOrders))
		}
		return tx.Model(&updated).Select("name", "category", "display_order", "updated_at").Updates(&updated).Error
	})
	if err != nil {
		return translateTagErr(err)
	}
	*tag = toTagEntity(updated)
	return nil
}

// Reorder moves the tag to newOrder and shifts the neighbours in between by one.
func (r *TagRepository) Reorder(ctx context.Context, id uint, newOrder int) (*domain.Tag, error) {
	var moved tagModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&moved, id).Error; err != nil {
			return err
		}
		category := domain.TagCategory(moved.Category)
		orders, err := lockCategory(tx, category)
		if err != nil {
			return err
		}
		// re-read under the lock; a concurrent reorder may have moved it
		if err := tx.First(&moved, id).Error; err != nil {
			return err
		}

		shift, move, err := domain.PlanReorder(moved.DisplayOrder, newOrder, len(orders))
		if err != nil || !move {
			return err
		}
		if err := applyShift(tx, category, id, shift); err != nil {
			return err
		}
		moved.DisplayOrder = newOrder
		return tx.Model(&moved).Select("display_order", "updated_at").Updates(&moved).Error
	})
	if err != nil {
		return nil, translate(err, "タグが見つかりません")
	}
	tag := toTagEntity(moved)
	return &tag, nil
}

func (r *TagRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag tagModel
		if err := tx.First(&tag, id).Error; err != nil {
			return err
		}
		category := domain.TagCategory(tag.Category)
		orders, err := lockCategory(tx, category)
		if err != nil {
			return err
		}
		used, err := tagUsage(tx, id)
		if err != nil {
			return err
		}
		if used > 0 {
			return domain.ErrTagInUse
		}
		if err := tx.Delete(&tagModel{}, id).Error; err != nil {
			return err
		}
		return applyShift(tx, category, id, domain.PlanRemoval(tag.DisplayOrder, len(orders)))
	})
	return translate(err, "タグが見つかりません")
}

// lockCategory locks every tag row of the category and returns their orders.
func lockCategory(tx *gorm.DB, category domain.TagCategory) ([]int, error) {
	var orders []int
	err := tx.Model(&tagModel{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("category = ?", string(category)).
		Order("display_order ASC").
		Pluck("display_order", &orders).Error
	return orders, err
}

func applyShift(tx *gorm.DB, category domain.TagCategory, skipID uint, shift domain.OrderShift) error {
	if shift.From > shift.To {
		return nil
	}
	return tx.Model(&tagModel{}).
		Where("category = ? AND id <> ? AND display_order BETWEEN ? AND ?", string(category), skipID, shift.From, shift.To).
		UpdateColumn("display_order", gorm.Expr("display_order + ?", shift.Delta)).Error
}

func countCategory(db *gorm.DB, category domain.TagCategory) (int, error) {
	var n int64
	err := db.Model(&tagModel{}).Where("category = ?", string(category)).Count(&n).Error
	return int(n), err
}

func tagUsage(db *gorm.DB, id uint) (int64, error) {
	var companies, cases int64
	if err := db.Model(&companyTagModel{}).Where("tag_id = ?", id).Count(&companies).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&caseTagModel{}).Where("tag_id = ?", id).Count(&cases).Error; err != nil {
		return 0, err
	}
	return companies + cases, nil
}

func maxOf(orders []int) int {
	highest := 0
	for _, o := range orders {
		highest = max(highest, o)
	}
	return highest
}

func translateTagErr(err error) error {
	if err != nil && isDuplicate(err) {
		return domain.Conflict("同じ名前のタグが既に存在します")
	}
	return translate(err, "タグが見つかりません")
}
