package models

// Sort modes recognized by the search endpoint.
const (
	SortPublishedAtDesc = "publishedAt_desc"
	SortPublishedAtAsc  = "publishedAt_asc"
	SortConfidenceDesc  = "confidence_desc"
)

// DefaultLimit caps result sets when the caller does not ask for one.
const DefaultLimit = 100

// MaxLimit is the hard ceiling on requested result sizes.
const MaxLimit = 1000

// SearchFilters is one search request from the presentation layer.
// All fields are optional; empty strings are normalized to absent
// before the filters reach the compiler.
type SearchFilters struct {
	Character  string `json:"character,omitempty" query:"character"`
	Character2 string `json:"character2,omitempty" query:"character2"`
	VideoTitle string `json:"videoTitle,omitempty" query:"videoTitle"`
	// DateFrom and DateTo are civil dates (YYYY-MM-DD) interpreted in JST.
	DateFrom string `json:"dateFrom,omitempty" query:"dateFrom" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `json:"dateTo,omitempty" query:"dateTo" validate:"omitempty,datetime=2006-01-02"`
	SortBy   string `json:"sortBy,omitempty" query:"sortBy" validate:"omitempty,oneof=publishedAt_desc publishedAt_asc confidence_desc"`
	Limit    int    `json:"limit,omitempty" query:"limit" validate:"omitempty,min=1,max=1000"`
}
