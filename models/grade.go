package models

// ItemScore is the result of one rubric check inside a dimension.
type ItemScore struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Max    float64 `json:"max"`
	Detail string  `json:"detail,omitempty"`
}

// DimensionScore is one of the four grading dimensions.
type DimensionScore struct {
	Score float64     `json:"score"`
	Max   float64     `json:"max"`
	Items []ItemScore `json:"items"`
}

// Breakdown holds the four dimension scores.
type Breakdown struct {
	Content     DimensionScore `json:"content"`
	Media       DimensionScore `json:"media"`
	Trust       DimensionScore `json:"trust"`
	Findability DimensionScore `json:"findability"`
}

// GradeResult is the grader's verdict for one candidate listing.
type GradeResult struct {
	ListingID    string    `json:"listing_id,omitempty"`
	Category     string    `json:"category"`
	Score        float64   `json:"score"`
	Letter       string    `json:"letter"`
	Breakdown    Breakdown `json:"breakdown"`
	Reasons      []string  `json:"reasons"`
	Confidence   string    `json:"confidence"`
	UsedFallback bool      `json:"used_fallback"`
}
