package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"asset-grader/models"
)

func TestReadRawCSV(t *testing.T) {
	in := "\ufeffID,Title,Category,Tags,Price,Images,Extra,Description\n" +
		"1,Knight Pack,3D/Characters,\"knight, fantasy\",$24.99,6,ignored,\"- one\n- two\"\n" +
		"2,Short Row\n"

	got, err := ReadRawCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, &models.RawListing{
		ID:              "1",
		Title:           "Knight Pack",
		Category:        "3D/Characters",
		Tags:            "knight, fantasy",
		RawPrice:        "$24.99",
		Images:          "6",
		LongDescription: "- one\n- two",
	}, got[0])
	require.Equal(t, "Short Row", got[1].Title)
	require.Empty(t, got[1].Category)
}

func TestReadRawCSVEmpty(t *testing.T) {
	got, err := ReadRawCSV(strings.NewReader(""))
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestCSVReaderMissingFile(t *testing.T) {
	_, err := NewCSVReader(filepath.Join(t.TempDir(), "nope.csv")).ReadRaw()
	require.Error(t, err)
}

func TestCSVWriterGrades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "grades.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)

	err = w.WriteGrades([]*models.GradeResult{
		{
			ListingID:  "42",
			Category:   "3D/Characters",
			Score:      87.456,
			Letter:     "B",
			Confidence: "medium",
			Reasons:    []string{"No demo video", "Only 2 tags; top listings use about 8"},
			Breakdown: models.Breakdown{
				Content: models.DimensionScore{Score: 30},
			},
		},
		nil,
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, gradeHeader, rows[0])
	require.Equal(t, []string{
		"42", "3D/Characters", "87.46", "B", "30.00", "0.00", "0.00", "0.00",
		"medium", "false", "No demo video; Only 2 tags; top listings use about 8",
	}, rows[1])
}
