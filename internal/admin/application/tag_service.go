package application

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/metrics"
)

const maxTagNameLength = 50

// tagService implements TagService.
type tagService struct {
	tags  domain.TagRepository
	audit *audit.Recorder
}

func NewTagService(tags domain.TagRepository, recorder *audit.Recorder) TagService {
	return &tagService{tags: tags, audit: recorder}
}

// List returns every tag when category is empty.
func (s *tagService) List(ctx context.Context, category domain.TagCategory) ([]domain.Tag, error) {
	return s.tags.List(ctx, category)
}

func (s *tagService) Create(ctx context.Context, adminID uint, name string, category domain.TagCategory) (*domain.Tag, error) {
	name, err := normalizeTagName(name)
	if err != nil {
		return nil, err
	}
	if _, err := domain.ParseTagCategory(string(category)); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	tag := &domain.Tag{Name: name, Category: category}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	s.audit.ByAdmin(ctx, adminID, domain.ActionTagCreated, "タグ「%s」(%s, 表示順%d)を作成しました", tag.Name, tag.Category, tag.DisplayOrder)
	return tag, nil
}

func (s *tagService) Update(ctx context.Context, adminID, id uint, cmd TagPatch) (*domain.Tag, error) {
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		name, err := normalizeTagName(*cmd.Name)
		if err != nil {
			return nil, err
		}
		if err := s.ensureNameFree(ctx, name, id); err != nil {
			return nil, err
		}
		tag.Name = name
	}
	if cmd.Category != nil {
		category, err := domain.ParseTagCategory(*cmd.Category)
		if err != nil {
			return nil, err
		}
		tag.Category = category
	}
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, err
	}
	s.audit.ByAdmin(ctx, adminID, domain.ActionTagUpdated, "タグ「%s」(ID:%d)を更新しました", tag.Name, tag.ID)
	return s.tags.FindByID(ctx, id)
}

// Reorder moves the tag to displayOrder and shifts its neighbours so the
// category stays numbered 1..N.
func (s *tagService) Reorder(ctx context.Context, adminID, id uint, displayOrder int) (*domain.Tag, error) {
	before, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.tags.CountInCategory(ctx, before.Category)
	if err != nil {
		return nil, err
	}
	// 範囲外と現在位置への移動はロックを取る前に返す
	_, move, err := domain.PlanReorder(before.DisplayOrder, displayOrder, count)
	if err != nil {
		return nil, err
	}
	if !move {
		return before, nil
	}
	tag, err := s.tags.Reorder(ctx, id, displayOrder)
	if err != nil {
		return nil, err
	}
	if tag.DisplayOrder != before.DisplayOrder {
		metrics.TagReordersTotal.Inc()
		s.audit.ByAdmin(ctx, adminID, domain.ActionTagReordered, "タグ「%s」の表示順を%dから%dに変更しました", tag.Name, before.DisplayOrder, tag.DisplayOrder)
	}
	return tag, nil
}

func (s *tagService) Delete(ctx context.Context, adminID, id uint) error {
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return err
	}
	used, err := s.tags.CountUsage(ctx, id)
	if err != nil {
		return err
	}
	if used > 0 {
		return domain.ErrTagInUse
	}
	if err := s.tags.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.ByAdmin(ctx, adminID, domain.ActionTagDeleted, "タグ「%s」(ID:%d)を削除しました", tag.Name, tag.ID)
	return nil
}

func (s *tagService) ensureNameFree(ctx context.Context, name string, excludeID uint) error {
	taken, err := s.tags.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.Conflict("同じ名前のタグが既に存在します")
	}
	return nil
}

func normalizeTagName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Validation("タグ名は必須です")
	}
	if utf8.RuneCountInString(name) > maxTagNameLength {
		return "", domain.Validation("タグ名は50文字以内で入力してください")
	}
	return name, nil
}
