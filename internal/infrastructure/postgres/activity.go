package postgres

import (
	"context"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"gorm.io/gorm"
)

type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Append(ctx context.Context, entry *domain.ActivityLog) error {
	m := activityLogModel{
		Action:   entry.Action,
		AdminID:  entry.AdminID,
		MemberID: entry.MemberID,
		Details:  entry.Details,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, "")
	}
	entry.ID = m.ID
	entry.CreatedAt = m.CreatedAt
	return nil
}

func (r *ActivityLogRepository) Find(ctx context.Context, paging domain.Paging) ([]domain.ActivityLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&activityLogModel{}).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	var rows []activityLogModel
	if err := page(q, paging).Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	logs := make([]domain.ActivityLog, 0, len(rows))
	for _, m := range rows {
		logs = append(logs, domain.ActivityLog{
			ID:        m.ID,
			Action:    m.Action,
			AdminID:   m.AdminID,
			MemberID:  m.MemberID,
			Details:   m.Details,
			CreatedAt: m.CreatedAt,
		})
	}
	return logs, total, nil
}
