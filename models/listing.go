package models

// RawListing holds an unprocessed corpus record as it arrives in an import file.
// Every field is kept as text; the cleaner is responsible for parsing.
type RawListing struct {
	ID               string
	URL              string
	Category         string
	Title            string
	ShortDescription string
	LongDescription  string
	Tags             string
	RawPrice         string
	Images           string
	Videos           string
	AnimatedPreview  string
	Rating           string
	Reviews          string
	Favorites        string
	UpdatedAt        string
	DocumentationURL string
	ReleaseNotes     string
}

// Listing is one normalised marketplace item. Grading code only reads it.
type Listing struct {
	ID                 string   `json:"id"`
	URL                string   `json:"url,omitempty"`
	Category           string   `json:"category,omitempty"`
	Title              string   `json:"title"`
	ShortDescription   string   `json:"short_description,omitempty"`
	LongDescription    string   `json:"long_description,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	Price              float64  `json:"price"`
	ImageCount         int      `json:"image_count"`
	VideoCount         int      `json:"video_count"`
	HasAnimatedPreview bool     `json:"has_animated_preview,omitempty"`
	Rating             float64  `json:"rating"`
	ReviewCount        int      `json:"review_count"`
	FavoriteCount      int      `json:"favorite_count"`
	// UpdatedAt is the last-update timestamp exactly as delivered upstream.
	UpdatedAt        string `json:"updated_at,omitempty"`
	DocumentationURL string `json:"documentation_url,omitempty"`
	ReleaseNotes     string `json:"release_notes,omitempty"`
}

// ScoredListing pairs a listing with its quality score and its position in the
// corpus it came from. Position breaks score ties.
type ScoredListing struct {
	Listing  *Listing
	Score    float64
	Position int
}

// ExemplarSet maps a category path to its exemplars, best first.
type ExemplarSet map[string][]ScoredListing
