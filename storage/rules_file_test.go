package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"asset-grader/models"
	"asset-grader/services"
	"asset-grader/utils"
)

func sampleRules(t *testing.T) *models.RulesFile {
	t.Helper()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var corpus []*models.Listing
	for _, id := range []string{"a", "b", "c", "d"} {
		corpus = append(corpus, &models.Listing{
			ID:          id,
			Category:    "Tools/Editor",
			Title:       "Editor Tool " + id,
			Tags:        []string{"editor", "tool"},
			ImageCount:  3,
			Rating:      4.5,
			ReviewCount: 10,
			Price:       15,
			UpdatedAt:   "2025-05-01",
		})
	}
	corpus = append(corpus, &models.Listing{ID: "z", Category: "Audio"})

	p := services.NewPipeline(services.DefaultPipelineConfig(), utils.NewTestLogger(t), nil)
	file, err := p.Run(context.Background(), corpus, now)
	require.NoError(t, err)
	return file
}

func TestRulesFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewRulesFileStore(filepath.Join(t.TempDir(), "rules", "rules.json"))
	file := sampleRules(t)

	require.NoError(t, store.Save(ctx, file))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, file, got)
	require.Contains(t, got.Categories, "Tools/Editor")
	require.Equal(t, []string{"Audio"}, got.Metadata.FallbackCategories)
}

func TestRulesFileReplaceLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewRulesFileStore(filepath.Join(dir, "rules.json"))

	first := sampleRules(t)
	second := sampleRules(t)
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, second.RunID, got.RunID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRulesFileMissing(t *testing.T) {
	store := NewRulesFileStore(filepath.Join(t.TempDir(), "rules.json"))
	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ErrNoRules)
}

func TestRulesFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"categories":{}}`), 0644))

	_, err := NewRulesFileStore(path).Load(context.Background())
	require.Error(t, err)
}
