package services

import (
	"fmt"
	"time"

	"asset-grader/models"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const knightDescription = `Production-ready knight characters for fantasy games.
- Rigged humanoid skeleton
- Four interchangeable armour sets
- PBR textures up to 4K
Buy now and start building your next RPG today.`

// knight returns a fully filled-in listing of the "3D/Characters" category.
func knight(id string) *models.Listing {
	return &models.Listing{
		ID:                 id,
		URL:                "https://assets.example.com/packages/3d/characters/" + id,
		Category:           "3D/Characters",
		Title:              "Fantasy Knight Characters Pack",
		ShortDescription:   "Six modular knights with armour variants, ready for any fantasy project.",
		LongDescription:    knightDescription,
		Tags:               []string{"3d", "characters", "fantasy", "knight"},
		Price:              25,
		ImageCount:         6,
		VideoCount:         1,
		HasAnimatedPreview: true,
		Rating:             4.8,
		ReviewCount:        120,
		FavoriteCount:      300,
		UpdatedAt:          testNow.AddDate(0, 0, -10).Format(time.RFC3339),
		DocumentationURL:   "https://docs.example.com/knights",
		ReleaseNotes:       "1.2: added shield variants",
	}
}

func knights(n int) []*models.Listing {
	out := make([]*models.Listing, n)
	for i := range out {
		out[i] = knight(fmt.Sprintf("knight-%d", i))
	}
	return out
}

// sparse returns a listing with only an ID, a title and a category.
func sparse(id, category string, reviews int) *models.Listing {
	return &models.Listing{
		ID:          id,
		Category:    category,
		Title:       "Item " + id,
		Rating:      4,
		ReviewCount: reviews,
	}
}
