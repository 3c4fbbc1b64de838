package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/infrastructure/memory"
)

func TestRecorder(t *testing.T) {
	store := memory.NewStore()
	rec := NewRecorder(store.ActivityLogs(), nil)
	ctx := context.Background()

	rec.ByAdmin(ctx, 1, domain.ActionTagReordered, "tag=%d order=%d", 4, 2)
	rec.ByMember(ctx, 7, domain.ActionCasePublished, "case=%d", 9)

	logs, total, err := store.ActivityLogs().Find(ctx, domain.Paging{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	assert.Equal(t, domain.ActionCasePublished, logs[0].Action)
	require.NotNil(t, logs[0].MemberID)
	assert.EqualValues(t, 7, *logs[0].MemberID)
	assert.Equal(t, "tag=4 order=2", logs[1].Details)
	require.NotNil(t, logs[1].AdminID)

	var nilRecorder *Recorder
	assert.NotPanics(t, func() { nilRecorder.ByAdmin(ctx, 1, "X", "") })
}
