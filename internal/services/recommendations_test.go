package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpryor812/shopify-aloha/internal/models"
)

func newTestRecommendationService(t *testing.T) (*RecommendationService, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "recs.db")
	svc, err := NewRecommendationService(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc, dbPath
}

func TestRecommendationsSaveAndRead(t *testing.T) {
	svc, _ := newTestRecommendationService(t)
	ctx := context.Background()

	recs := []models.CustomRecommendation{
		{ID: "201", Title: "Wool Socks", Reason: "Pairs well"},
		{ID: "202", Title: "Insoles", Reason: "Extra comfort"},
	}
	require.NoError(t, svc.Save(ctx, "101", recs))

	got := svc.ForProduct("101")
	require.Len(t, got, 2)
	assert.Equal(t, "Wool Socks", got[0].Title)
	assert.Equal(t, "Insoles", got[1].Title)

	all := svc.All()
	require.Len(t, all, 1)
	assert.Len(t, all["101"], 2)
}

func TestRecommendationsReplaceWholesale(t *testing.T) {
	svc, _ := newTestRecommendationService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, "101", []models.CustomRecommendation{
		{ID: "201", Title: "Old Pick", Reason: "was good"},
	}))
	require.NoError(t, svc.Save(ctx, "101", []models.CustomRecommendation{
		{ID: "301", Title: "New Pick", Reason: "is better"},
	}))

	got := svc.ForProduct("101")
	require.Len(t, got, 1)
	assert.Equal(t, "New Pick", got[0].Title)
}

func TestRecommendationsEmptySaveDeletes(t *testing.T) {
	svc, _ := newTestRecommendationService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, "101", []models.CustomRecommendation{
		{ID: "201", Title: "Pick", Reason: "reason"},
	}))
	require.NoError(t, svc.Save(ctx, "101", nil))

	assert.Nil(t, svc.ForProduct("101"))
	assert.Empty(t, svc.All())
}

func TestRecommendationsSurviveRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "recs.db")

	first, err := NewRecommendationService(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.Save(context.Background(), "101", []models.CustomRecommendation{
		{ID: "201", Title: "Persistent Pick", Reason: "survives restarts"},
	}))
	require.NoError(t, first.Close())

	second, err := NewRecommendationService(dbPath)
	require.NoError(t, err)
	defer second.Close()

	got := second.ForProduct("101")
	require.Len(t, got, 1)
	assert.Equal(t, "Persistent Pick", got[0].Title)
}

func TestRecommendationsUnknownProduct(t *testing.T) {
	svc, _ := newTestRecommendationService(t)
	assert.Nil(t, svc.ForProduct("nope"))
}
