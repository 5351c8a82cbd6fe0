package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"asset-grader/config"
	"asset-grader/models"
	"asset-grader/services"
	"asset-grader/storage"
	"asset-grader/utils"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func writeCorpusCSV(t *testing.T, rows int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("id,category,title,short_description,tags,price,images,videos,rating,reviews,updated_at\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "track-%d,Audio/Music,Ambient Forest Loops %d,Calm looping forest ambience for games.,\"audio|music|ambient\",$%d.99,%d,1,4.%d,%d,2025-05-%02dT00:00:00Z\n",
			i, i, 5+i, 3+i%3, 5+i%5, 10*(i+1), 1+i)
	}
	// duplicate id is dropped by the cleaner
	b.WriteString("track-0,Audio/Music,Duplicate,,,,,,,,\n")

	path := filepath.Join(t.TempDir(), "corpus.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func testJob(t *testing.T, csvPath string) *buildJob {
	t.Helper()
	c := &config.Config{
		RulesPath:     filepath.Join(t.TempDir(), "rules.json"),
		CorpusCSVPath: csvPath,
		Tuning:        config.DefaultTuning(),
	}
	job := newBuildJob(c, utils.NewTestLogger(t), nil)
	job.skipDB = true
	job.now = func() time.Time { return fixedNow }
	return job
}

func TestBuildJobFromCSV(t *testing.T) {
	job := testJob(t, writeCorpusCSV(t, 8))

	corpus, err := job.loadCorpus(context.Background())
	require.NoError(t, err)
	require.Len(t, corpus, 8)

	require.NoError(t, job.RunOnce(context.Background()))

	file, err := storage.NewRulesFileStore(job.rulesPath).Load(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, file.RunID)
	require.Equal(t, 8, file.Metadata.CorpusSize)
	require.Len(t, file.Categories, 1)
	for _, rules := range file.Categories {
		require.Equal(t, 8, rules.SampleSize)
	}
}

func TestBuildJobNeedsASource(t *testing.T) {
	job := testJob(t, "")
	_, err := job.loadCorpus(context.Background())
	require.Error(t, err)
}

func TestGradeAllKeepsOrder(t *testing.T) {
	job := testJob(t, writeCorpusCSV(t, 8))
	require.NoError(t, job.RunOnce(context.Background()))
	file, err := storage.NewRulesFileStore(job.rulesPath).Load(context.Background())
	require.NoError(t, err)

	metrics := services.NewMetrics()
	candidates := []*models.Listing{
		{ID: "good", Category: "Audio/Music", Title: "Ambient Forest Loops Deluxe", Tags: []string{"audio", "music", "ambient"}, ImageCount: 5, VideoCount: 1, Rating: 4.6, ReviewCount: 60, UpdatedAt: "2025-05-20T00:00:00Z"},
		{ID: "bare", Category: "Audio/Music"},
		{ID: "elsewhere", Category: "Tools/Utilities", Title: "Handy Tool"},
	}
	results, err := gradeAll(context.Background(), candidates, file, fixedNow, 2, metrics)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.Equal(t, "good", results[0].ListingID)
	require.Equal(t, "bare", results[1].ListingID)
	require.Greater(t, results[0].Score, results[1].Score)
	require.False(t, results[0].UsedFallback)
	require.True(t, results[2].UsedFallback)

	total := 0
	for _, n := range metrics.GradeCounts() {
		total += n
	}
	require.Equal(t, 3, total)
}

func TestGradeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := gradeAll(ctx, []*models.Listing{{ID: "x"}}, nil, fixedNow, 1, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadListingJSON(t *testing.T) {
	dir := t.TempDir()

	single := filepath.Join(dir, "one.json")
	require.NoError(t, os.WriteFile(single, []byte(`{"id":"a","title":"Knight","image_count":3}`), 0644))
	got, err := readListingJSON(single)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 3, got[0].ImageCount)

	many := filepath.Join(dir, "many.json")
	require.NoError(t, os.WriteFile(many, []byte("\n [{\"id\":\"a\"},{\"id\":\"b\"}]"), 0644))
	got, err = readListingJSON(many)
	require.NoError(t, err)
	require.Len(t, got, 2)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = readListingJSON(bad)
	require.Error(t, err)
}

func TestParseNow(t *testing.T) {
	got, err := parseNow("2025-06-01T12:00:00Z")
	require.NoError(t, err)
	require.True(t, got.Equal(fixedNow))

	_, err = parseNow("yesterday")
	require.Error(t, err)
}
