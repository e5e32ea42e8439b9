package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-generator/collector/internal/dto"
	"github.com/octobees/leads-generator/collector/internal/service"
)

// CompaniesHandler exposes the collected dataset.
type CompaniesHandler struct {
	service *service.CompaniesService
}

// NewCompaniesHandler creates a new handler instance.
func NewCompaniesHandler(service *service.CompaniesService) *CompaniesHandler {
	return &CompaniesHandler{service: service}
}

// List handles GET /companies requests.
func (h *CompaniesHandler) List(c echo.Context) error {
	filter := dto.ListFilter{
		Q:             strings.TrimSpace(c.QueryParam("q")),
		Neighborhoods: multiParam(c, "neighborhood"),
		Streets:       multiParam(c, "street"),
		SizeTier:      strings.TrimSpace(c.QueryParam("size_tier")),
		Sort:          strings.TrimSpace(c.QueryParam("sort")),
		Page:          parseIntDefault(c.QueryParam("page"), 1),
		PerPage:       parseIntDefault(c.QueryParam("per_page"), 20),
	}

	var err error
	if filter.MinRating, err = optionalFloat(c.QueryParam("min_rating")); err != nil {
		return Error(c, http.StatusBadRequest, "invalid min_rating")
	}
	if filter.MaxRating, err = optionalFloat(c.QueryParam("max_rating")); err != nil {
		return Error(c, http.StatusBadRequest, "invalid max_rating")
	}
	if raw := strings.TrimSpace(c.QueryParam("with_location")); raw != "" {
		if filter.WithLocation, err = strconv.ParseBool(raw); err != nil {
			return Error(c, http.StatusBadRequest, "invalid with_location")
		}
	}

	page, err := h.service.ListCompanies(c.Request().Context(), filter)
	if err != nil {
		var vErr service.ValidationError
		if errors.As(err, &vErr) {
			return Error(c, http.StatusBadRequest, vErr.Message)
		}
		return Error(c, http.StatusInternalServerError, "failed to list companies")
	}

	return Paginated(c, "companies retrieved", page.Items, PageMeta{Page: page.Page, PerPage: page.PerPage, Total: page.Total})
}

// Facets handles GET /companies/facets requests.
func (h *CompaniesHandler) Facets(c echo.Context) error {
	facets, err := h.service.Facets(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load facets")
	}
	return Success(c, http.StatusOK, "facets retrieved", facets)
}

// Summary handles GET /companies/summary requests.
func (h *CompaniesHandler) Summary(c echo.Context) error {
	summary, err := h.service.Summary(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to summarise companies")
	}
	return Success(c, http.StatusOK, "summary retrieved", summary)
}

// multiParam accepts both repeated parameters and comma separated values.
func multiParam(c echo.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryParams()[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func optionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
