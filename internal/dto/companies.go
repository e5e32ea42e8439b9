package dto

import "github.com/octobees/leads-generator/collector/internal/entity"

// ListFilter contains query parameters for company listing endpoints.
type ListFilter struct {
	Q             string
	Neighborhoods []string
	Streets       []string
	MinRating     *float64
	MaxRating     *float64
	SizeTier      string
	WithLocation  bool
	Sort          string
	Page          int
	PerPage       int
}

// Facets lists the distinct filter values present in the dataset.
type Facets struct {
	Neighborhoods []string `json:"neighborhoods"`
	Streets       []string `json:"streets"`
}

// Summary aggregates the dataset for overview displays.
type Summary struct {
	Total          int            `json:"total"`
	BySizeTier     map[string]int `json:"bySizeTier"`
	ByNeighborhood map[string]int `json:"byNeighborhood"`
	MeanRating     float64        `json:"meanRating"`
	WithLocation   int            `json:"withLocation"`
}

// CompanyPage is one page of a filtered listing with the paging actually applied.
type CompanyPage struct {
	Items   []entity.CompanyRecord
	Page    int
	PerPage int
	Total   int
}
