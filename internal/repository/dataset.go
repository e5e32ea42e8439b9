package repository

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/octobees/leads-generator/collector/internal/entity"
)

const datasetIndent = "    "

// EncodeDataset writes records as an indented JSON array. Non-ASCII text and
// HTML-significant characters are written verbatim. A nil slice encodes as [].
func EncodeDataset(w io.Writer, records []entity.CompanyRecord) error {
	if records == nil {
		records = []entity.CompanyRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", datasetIndent)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}

// WriteDataset replaces the file at path with records. The file is written to
// a temporary sibling first and renamed into place.
func WriteDataset(path string, records []entity.CompanyRecord) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if err := EncodeDataset(tmp, records); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("sync temp dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp dataset: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp dataset: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}

// ReadDataset loads records from path. A missing file is reported as an
// error wrapping fs.ErrNotExist.
func ReadDataset(path string) ([]entity.CompanyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var records []entity.CompanyRecord
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	if records == nil {
		records = []entity.CompanyRecord{}
	}
	return records, nil
}
