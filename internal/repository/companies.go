package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/octobees/leads-generator/collector/internal/dto"
	"github.com/octobees/leads-generator/collector/internal/entity"
)

// CompaniesRepository describes read and replace operations on the collected dataset.
type CompaniesRepository interface {
	List(ctx context.Context, filter dto.ListFilter) ([]entity.CompanyRecord, int, error)
	All(ctx context.Context) ([]entity.CompanyRecord, error)
	Replace(ctx context.Context, records []entity.CompanyRecord) error
}

// FileCompaniesRepository serves the dataset file from memory.
type FileCompaniesRepository struct {
	path string

	mu      sync.RWMutex
	records []entity.CompanyRecord
}

// NewFileCompaniesRepository returns an empty repository bound to path. Call
// Load to read the existing file.
func NewFileCompaniesRepository(path string) *FileCompaniesRepository {
	return &FileCompaniesRepository{path: path, records: []entity.CompanyRecord{}}
}

// Path returns the dataset file location.
func (r *FileCompaniesRepository) Path() string {
	return r.path
}

// Load reads the dataset file. A missing file leaves the repository empty.
func (r *FileCompaniesRepository) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records, err := ReadDataset(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			records = []entity.CompanyRecord{}
		} else {
			return err
		}
	}

	r.mu.Lock()
	r.records = records
	r.mu.Unlock()
	return nil
}

// All returns a copy of every record in dataset order.
func (r *FileCompaniesRepository) All(ctx context.Context) ([]entity.CompanyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.CompanyRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

// List filters, sorts and pages the dataset. The int result is the number of
// matches before paging.
func (r *FileCompaniesRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.CompanyRecord, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	matches := make([]entity.CompanyRecord, 0, len(r.records))
	for _, rec := range r.records {
		if matchesFilter(rec, filter) {
			matches = append(matches, rec)
		}
	}
	r.mu.RUnlock()

	if err := sortRecords(matches, filter.Sort); err != nil {
		return nil, 0, err
	}

	total := len(matches)
	if filter.PerPage <= 0 {
		return matches, total, nil
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * filter.PerPage
	if start >= total {
		return []entity.CompanyRecord{}, total, nil
	}
	end := start + filter.PerPage
	if end > total {
		end = total
	}
	return matches[start:end], total, nil
}

// Replace writes records to the dataset file and then serves them.
func (r *FileCompaniesRepository) Replace(ctx context.Context, records []entity.CompanyRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []entity.CompanyRecord{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := WriteDataset(r.path, records); err != nil {
		return err
	}
	r.records = append([]entity.CompanyRecord(nil), records...)
	return nil
}

func matchesFilter(rec entity.CompanyRecord, filter dto.ListFilter) bool {
	if len(filter.Neighborhoods) > 0 && !containsFold(filter.Neighborhoods, rec.Neighborhood) {
		return false
	}
	if len(filter.Streets) > 0 && !containsFold(filter.Streets, rec.Street) {
		return false
	}
	if filter.MinRating != nil && rec.Rating < *filter.MinRating {
		return false
	}
	if filter.MaxRating != nil && rec.Rating > *filter.MaxRating {
		return false
	}
	if filter.SizeTier != "" && !strings.EqualFold(filter.SizeTier, string(rec.SizeTier)) {
		return false
	}
	if filter.WithLocation && !rec.Location.Valid {
		return false
	}
	if q := strings.TrimSpace(filter.Q); q != "" {
		if !strings.Contains(strings.ToLower(rec.Name), strings.ToLower(q)) {
			return false
		}
	}
	return true
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}

func sortRecords(records []entity.CompanyRecord, key string) error {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "":
		return nil
	case "rating":
		sort.SliceStable(records, func(i, j int) bool { return records[i].Rating > records[j].Rating })
	case "reviews":
		sort.SliceStable(records, func(i, j int) bool { return records[i].RatingsCount > records[j].RatingsCount })
	case "name":
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].Name) < strings.ToLower(records[j].Name)
		})
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSort, key)
	}
	return nil
}

// ErrInvalidSort is returned for an unknown sort key.
var ErrInvalidSort = errors.New("invalid sort key")

var _ CompaniesRepository = (*FileCompaniesRepository)(nil)
