package memory

import (
	"context"
	"slices"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

type TagRepository struct{ s *Store }

func (r *TagRepository) List(_ context.Context, category domain.TagCategory) ([]domain.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]domain.Tag, 0, len(r.s.tags))
	for _, tag := range r.s.tags {
		if category != "" && tag.Category != category {
			continue
		}
		result = append(result, tag)
	}
	domain.SortTags(result)
	return result, nil
}

func (r *TagRepository) FindByID(_ context.Context, id uint) (*domain.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tag, ok := r.s.tags[id]
	if !ok {
		return nil, domain.NotFound("タグが見つかりません")
	}
	return &tag, nil
}

func (r *TagRepository) FindByIDs(_ context.Context, ids []uint) ([]domain.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.tagsFor(domain.UniqueIDs(ids)), nil
}

func (r *TagRepository) ExistsByName(_ context.Context, name string, excludeID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.tagNameTaken(name, excludeID), nil
}

func (r *TagRepository) CountInCategory(_ context.Context, category domain.TagCategory) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.categorySize(category), nil
}

func (r *TagRepository) CountUsage(_ context.Context, id uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.tagUsage(id), nil
}

func (r *TagRepository) Create(_ context.Context, tag *domain.Tag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.tagNameTaken(tag.Name, 0) {
		return domain.Conflict("同じ名前のタグが既に存在します")
	}
	now := r.s.now()
	tag.ID = r.s.nextID("tag")
	tag.DisplayOrder = domain.NextDisplayOrder(r.s.maxOrder(tag.Category))
	tag.CreatedAt = now
	tag.UpdatedAt = now
	r.s.tags[tag.ID] = *tag
	return nil
}

func (r *TagRepository) Update(_ context.Context, tag *domain.Tag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.tags[tag.ID]
	if !ok {
		return domain.NotFound("タグが見つかりません")
	}
	if r.s.tagNameTaken(tag.Name, tag.ID) {
		return domain.Conflict("同じ名前のタグが既に存在します")
	}

	if tag.Category != existing.Category {
		r.s.shiftOrders(existing.Category, tag.ID, domain.PlanRemoval(existing.DisplayOrder, r.s.categorySize(existing.Category)))
		existing.DisplayOrder = domain.NextDisplayOrder(r.s.maxOrder(tag.Category))
		existing.Category = tag.Category
	}
	existing.Name = tag.Name
	existing.UpdatedAt = r.s.now()
	r.s.tags[tag.ID] = existing
	*tag = existing
	return nil
}

func (r *TagRepository) Reorder(_ context.Context, id uint, newOrder int) (*domain.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tag, ok := r.s.tags[id]
	if !ok {
		return nil, domain.NotFound("タグが見つかりません")
	}
	shift, move, err := domain.PlanReorder(tag.DisplayOrder, newOrder, r.s.categorySize(tag.Category))
	if err != nil {
		return nil, err
	}
	if !move {
		return &tag, nil
	}
	r.s.shiftOrders(tag.Category, id, shift)
	tag.DisplayOrder = newOrder
	tag.UpdatedAt = r.s.now()
	r.s.tags[id] = tag
	return &tag, nil
}

func (r *TagRepository) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tag, ok := r.s.tags[id]
	if !ok {
		return domain.NotFound("タグが見つかりません")
	}
	if r.s.tagUsage(id) > 0 {
		return domain.ErrTagInUse
	}
	shift := domain.PlanRemoval(tag.DisplayOrder, r.s.categorySize(tag.Category))
	delete(r.s.tags, id)
	r.s.shiftOrders(tag.Category, id, shift)
	return nil
}

func (s *Store) tagNameTaken(name string, excludeID uint) bool {
	for id, tag := range s.tags {
		if id != excludeID && tag.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) categorySize(category domain.TagCategory) int {
	n := 0
	for _, tag := range s.tags {
		if tag.Category == category {
			n++
		}
	}
	return n
}

func (s *Store) maxOrder(category domain.TagCategory) int {
	highest := 0
	for _, tag := range s.tags {
		if tag.Category == category && tag.DisplayOrder > highest {
			highest = tag.DisplayOrder
		}
	}
	return highest
}

func (s *Store) shiftOrders(category domain.TagCategory, skipID uint, shift domain.OrderShift) {
	for id, tag := range s.tags {
		if id == skipID || tag.Category != category || !shift.Applies(tag.DisplayOrder) {
			continue
		}
		tag.DisplayOrder += shift.Delta
		s.tags[id] = tag
	}
}

func (s *Store) tagUsage(id uint) int64 {
	var n int64
	for _, ids := range s.companyTags {
		if slices.Contains(ids, id) {
			n++
		}
	}
	for _, ids := range s.caseTags {
		if slices.Contains(ids, id) {
			n++
		}
	}
	return n
}
