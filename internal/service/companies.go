package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/octobees/leads-generator/collector/internal/dto"
	"github.com/octobees/leads-generator/collector/internal/entity"
	"github.com/octobees/leads-generator/collector/internal/repository"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
	minRating      = 0.0
	maxRating      = 5.0
)

// ValidationError reports an unusable filter value.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}

// CompaniesService exposes read operations over the collected dataset.
type CompaniesService struct {
	repo repository.CompaniesRepository
}

// NewCompaniesService creates a new instance of CompaniesService.
func NewCompaniesService(repo repository.CompaniesRepository) *CompaniesService {
	return &CompaniesService{repo: repo}
}

// ListCompanies returns one page of matching companies.
func (s *CompaniesService) ListCompanies(ctx context.Context, filter dto.ListFilter) (dto.CompanyPage, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = defaultPerPage
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}
	if err := validateFilter(filter); err != nil {
		return dto.CompanyPage{}, err
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.CompanyPage{}, err
	}
	return dto.CompanyPage{Items: items, Page: filter.Page, PerPage: filter.PerPage, Total: total}, nil
}

// Facets returns the sorted distinct neighborhoods and streets, without "N/A".
func (s *CompaniesService) Facets(ctx context.Context) (dto.Facets, error) {
	records, err := s.repo.All(ctx)
	if err != nil {
		return dto.Facets{}, err
	}
	neighborhoods := make(map[string]struct{})
	streets := make(map[string]struct{})
	for _, rec := range records {
		addFacet(neighborhoods, rec.Neighborhood)
		addFacet(streets, rec.Street)
	}
	return dto.Facets{
		Neighborhoods: sortedKeys(neighborhoods),
		Streets:       sortedKeys(streets),
	}, nil
}

// Summary aggregates the whole dataset.
func (s *CompaniesService) Summary(ctx context.Context) (dto.Summary, error) {
	records, err := s.repo.All(ctx)
	if err != nil {
		return dto.Summary{}, err
	}

	summary := dto.Summary{
		Total: len(records),
		BySizeTier: map[string]int{
			string(entity.SizeSmall):  0,
			string(entity.SizeMedium): 0,
			string(entity.SizeLarge):  0,
		},
		ByNeighborhood: make(map[string]int),
	}
	var ratingSum float64
	for _, rec := range records {
		summary.BySizeTier[string(rec.SizeTier)]++
		summary.ByNeighborhood[rec.Neighborhood]++
		ratingSum += rec.Rating
		if rec.Location.Valid {
			summary.WithLocation++
		}
	}
	if len(records) > 0 {
		summary.MeanRating = ratingSum / float64(len(records))
	}
	return summary, nil
}

func validateFilter(filter dto.ListFilter) error {
	if filter.MinRating != nil && (*filter.MinRating < minRating || *filter.MinRating > maxRating) {
		return ValidationError{Message: fmt.Sprintf("min_rating must be between %.0f and %.0f", minRating, maxRating)}
	}
	if filter.MaxRating != nil && (*filter.MaxRating < minRating || *filter.MaxRating > maxRating) {
		return ValidationError{Message: fmt.Sprintf("max_rating must be between %.0f and %.0f", minRating, maxRating)}
	}
	if filter.MinRating != nil && filter.MaxRating != nil && *filter.MinRating > *filter.MaxRating {
		return ValidationError{Message: "min_rating must not exceed max_rating"}
	}
	if filter.SizeTier != "" && !validTierName(filter.SizeTier) {
		return ValidationError{Message: "size_tier must be one of Small, Medium, Large"}
	}
	switch strings.ToLower(filter.Sort) {
	case "", "rating", "reviews", "name":
	default:
		return ValidationError{Message: "sort must be one of rating, reviews, name"}
	}
	return nil
}

func validTierName(name string) bool {
	for _, tier := range []entity.SizeTier{entity.SizeSmall, entity.SizeMedium, entity.SizeLarge} {
		if strings.EqualFold(name, string(tier)) {
			return true
		}
	}
	return false
}

func addFacet(set map[string]struct{}, value string) {
	value = strings.TrimSpace(value)
	if value == "" || value == entity.NotAvailable {
		return
	}
	set[value] = struct{}{}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
