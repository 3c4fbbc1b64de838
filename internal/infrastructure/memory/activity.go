package memory

import (
	"context"
	"slices"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

type ActivityLogRepository struct{ s *Store }

func (r *ActivityLogRepository) Append(_ context.Context, entry *domain.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = r.s.nextID("activity_log")
	entry.CreatedAt = r.s.now()
	r.s.logs = append(r.s.logs, *entry)
	return nil
}

// Find lists entries newest first.
func (r *ActivityLogRepository) Find(_ context.Context, paging domain.Paging) ([]domain.ActivityLog, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entries := slices.Clone(r.s.logs)
	slices.Reverse(entries)
	return paginate(entries, paging), int64(len(entries)), nil
}
