package domain

import "context"

// ResolveTags loads the tags behind ids, rejecting unknown ids. Duplicates and
// zero ids are dropped first.
func ResolveTags(ctx context.Context, repo TagRepository, ids []uint) ([]Tag, error) {
	ids = UniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, Validation("存在しないタグが含まれています")
	}
	SortTags(tags)
	return tags, nil
}
