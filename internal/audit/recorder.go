// Package audit appends activity log entries for admin and member mutations.
package audit

import (
	"context"
	"fmt"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"go.uber.org/zap"
)

// Recorder writes entries best-effort: a failed append is logged and never
// fails the mutation that triggered it. A nil *Recorder records nothing.
type Recorder struct {
	repo   domain.ActivityLogRepository
	logger *zap.Logger
}

func NewRecorder(repo domain.ActivityLogRepository, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, logger: logger}
}

// ByAdmin records an action performed by a platform admin.
func (r *Recorder) ByAdmin(ctx context.Context, adminID uint, action, format string, args ...any) {
	if r == nil {
		return
	}
	id := adminID
	r.append(ctx, &domain.ActivityLog{Action: action, AdminID: &id, Details: fmt.Sprintf(format, args...)})
}

// ByMember records an action performed by company staff.
func (r *Recorder) ByMember(ctx context.Context, memberID uint, action, format string, args ...any) {
	if r == nil {
		return
	}
	id := memberID
	r.append(ctx, &domain.ActivityLog{Action: action, MemberID: &id, Details: fmt.Sprintf(format, args...)})
}

func (r *Recorder) append(ctx context.Context, entry *domain.ActivityLog) {
	if err := r.repo.Append(context.WithoutCancel(ctx), entry); err != nil {
		r.logger.Warn("activity log append failed",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}
