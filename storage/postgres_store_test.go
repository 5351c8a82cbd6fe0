package storage

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"asset-grader/models"
	"asset-grader/utils"
)

func TestUpsertQuery(t *testing.T) {
	batch := []*models.Listing{{ID: "a"}, {ID: "b", Tags: []string{"x"}}}
	query, args := upsertQuery(batch)

	require.Len(t, args, 2*len(listingColumns))
	require.Contains(t, query, "$34")
	require.NotContains(t, query, "$35")
	require.Contains(t, query, "ON CONFLICT (id) DO UPDATE SET url = EXCLUDED.url")
	require.False(t, strings.Contains(query, "id = EXCLUDED.id,"))
}

// Requires POSTGRES_TEST_DSN pointing at a disposable database.
func TestPostgresStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := NewPostgresStore(ctx, dsn, &utils.RetryConfig{MaxAttempts: 2, BaseDelay: 100 * time.Millisecond})
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Clear(ctx))

	in := []*models.Listing{
		{ID: "b", Title: "Second", Tags: []string{"tool", "editor"}, Price: 9.99, Rating: 4.5, ReviewCount: 3},
		{ID: "a", Title: "First", HasAnimatedPreview: true},
	}
	require.NoError(t, store.Write(ctx, in))

	in[0].Title = "Second v2"
	require.NoError(t, store.Write(ctx, in[:1]))

	got, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].ID)
	require.Empty(t, got[0].Tags)
	require.True(t, got[0].HasAnimatedPreview)
	require.Equal(t, "Second v2", got[1].Title)
	require.Equal(t, []string{"tool", "editor"}, got[1].Tags)
	require.InDelta(t, 9.99, got[1].Price, 1e-9)
}
