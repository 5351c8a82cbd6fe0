package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"asset-grader/models"
)

func TestApplyTuningEmptyKeepsBase(t *testing.T) {
	base := DefaultTuning()
	got, err := ApplyTuning(base, nil)
	require.NoError(t, err)
	require.Equal(t, base, got)
}

func TestApplyTuningExplicitZeros(t *testing.T) {
	base := DefaultTuning()
	base.Selection.Percent = 10

	got, err := ApplyTuning(base, []byte(`
selection:
  percent: 0
rules:
  weight_nudge: 0
  feature_share: 0.8
`))
	require.NoError(t, err)
	require.Zero(t, got.Selection.Percent)
	require.Equal(t, models.DefaultExemplarCount, got.Selection.Count)
	require.Zero(t, got.Rules.WeightNudge)
	require.Equal(t, 0.8, got.Rules.FeatureShare)
	require.Equal(t, 0.9, got.Rules.MinimumSlack)
}

func TestLoadTuningFileAppliesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
selection:
  percent: 10
quality:
  review: 3
rules:
  min_sample_size: 5
  weights:
    media: 30
  grade_bands:
    a: 92
  sub_weights:
    media:
      images: 0.5
      video: 0.5
`), 0644))

	got, err := LoadTuningFile(path, DefaultTuning())
	require.NoError(t, err)

	require.Equal(t, 10.0, got.Selection.Percent)
	require.Equal(t, models.DefaultExemplarCount, got.Selection.Count)
	require.Equal(t, 3.0, got.Quality.Review)
	require.Equal(t, 1.0, got.Quality.Freshness)
	require.Equal(t, 5, got.Rules.MinSampleSize)
	require.Equal(t, 30.0, got.Rules.Weights.Media)
	require.Equal(t, 35.0, got.Rules.Weights.Content)
	require.Equal(t, 92.0, got.Rules.GradeBands.A)
	require.Equal(t, 80.0, got.Rules.GradeBands.B)
	require.Equal(t, models.MediaWeights{Images: 0.5, Video: 0.5}, got.Rules.SubWeights.Media)
	require.Equal(t, models.DefaultSubWeights().Content, got.Rules.SubWeights.Content)
	require.Equal(t, 4, got.Concurrency)
}

func TestLoadTuningFileErrors(t *testing.T) {
	_, err := LoadTuningFile(filepath.Join(t.TempDir(), "missing.yaml"), DefaultTuning())
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selection: [1, 2"), 0644))
	_, err = LoadTuningFile(path, DefaultTuning())
	require.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EXEMPLAR_COUNT", "7")
	t.Setenv("MIN_SAMPLE_SIZE", "4")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("TUNING_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Tuning.Selection.Count)
	require.Equal(t, 4, cfg.Tuning.Rules.MinSampleSize)
	require.Contains(t, cfg.DSN(), "host=db.internal")
}

func TestLoadBadTuningFile(t *testing.T) {
	t.Setenv("TUNING_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)
}
