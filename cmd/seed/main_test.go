package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	adminapp "github.com/taka-shaka/matching-site-sub001/internal/admin/application"
	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/infrastructure/memory"
	"go.uber.org/zap"
)

func TestSeedTags_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := adminapp.NewTagService(store.Tags(), audit.NewRecorder(store.ActivityLogs(), nil))

	require.NoError(t, seedTags(ctx, store.Tags(), service, 1, zap.NewNop()))
	require.NoError(t, seedTags(ctx, store.Tags(), service, 1, zap.NewNop()))

	for _, category := range domain.TagCategories {
		tags, err := store.Tags().List(ctx, category)
		require.NoError(t, err)
		require.Len(t, tags, len(defaultTags[category]), string(category))
		for i, tag := range tags {
			assert.Equal(t, i+1, tag.DisplayOrder)
			assert.Equal(t, defaultTags[category][i], tag.Name)
		}
	}
}
