// Package catalog reads the seed catalog files: parts, distributors and the
// listings that connect them. Files are CSV with a header row; list-valued
// columns (synonyms, regions) hold a JSON array string.
package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fleetparts/partsearch/pkg/validator"
)

// PartRow is one part record from the catalog file.
type PartRow struct {
	MPN         string   `validate:"required"`
	Brand       string   `validate:"-"`
	Title       string   `validate:"required"`
	Category    string   `validate:"required"`
	Description string   `validate:"-"`
	Synonyms    []string `validate:"-"`
}

// DistributorRow is one distributor record from the catalog file.
type DistributorRow struct {
	Name    string   `validate:"required"`
	Website string   `validate:"omitempty,url"`
	Phone   string   `validate:"-"`
	Email   string   `validate:"omitempty,email"`
	Regions []string `validate:"-"`
}

// ListingRow links a distributor to a part it carries.
type ListingRow struct {
	DistributorName string `validate:"required"`
	MPN             string `validate:"required"`
	SKU             string `validate:"-"`
}

// ReadParts parses a parts catalog CSV. Expected columns:
// mpn, brand, title, category, description, synonyms.
func ReadParts(r io.Reader) ([]PartRow, error) {
	records, err := readRecords(r, 6, "parts")
	if err != nil {
		return nil, err
	}

	rows := make([]PartRow, 0, len(records))
	for i, rec := range records {
		row := PartRow{
			MPN:         strings.TrimSpace(rec[0]),
			Brand:       strings.TrimSpace(rec[1]),
			Title:       strings.TrimSpace(rec[2]),
			Category:    strings.TrimSpace(rec[3]),
			Description: strings.TrimSpace(rec[4]),
			Synonyms:    parseStringList(rec[5]),
		}
		if err := validator.Validate(row); err != nil {
			return nil, fmt.Errorf("parts row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ReadDistributors parses a distributors catalog CSV. Expected columns:
// name, website, phone, email, regions.
func ReadDistributors(r io.Reader) ([]DistributorRow, error) {
	records, err := readRecords(r, 5, "distributors")
	if err != nil {
		return nil, err
	}

	rows := make([]DistributorRow, 0, len(records))
	for i, rec := range records {
		row := DistributorRow{
			Name:    strings.TrimSpace(rec[0]),
			Website: strings.TrimSpace(rec[1]),
			Phone:   strings.TrimSpace(rec[2]),
			Email:   strings.TrimSpace(rec[3]),
			Regions: parseStringList(rec[4]),
		}
		if err := validator.Validate(row); err != nil {
			return nil, fmt.Errorf("distributors row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ReadListings parses a listings catalog CSV. Expected columns:
// distributor_name, mpn, sku.
func ReadListings(r io.Reader) ([]ListingRow, error) {
	records, err := readRecords(r, 3, "listings")
	if err != nil {
		return nil, err
	}

	rows := make([]ListingRow, 0, len(records))
	for i, rec := range records {
		row := ListingRow{
			DistributorName: strings.TrimSpace(rec[0]),
			MPN:             strings.TrimSpace(rec[1]),
			SKU:             strings.TrimSpace(rec[2]),
		}
		if err := validator.Validate(row); err != nil {
			return nil, fmt.Errorf("listings row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// readRecords reads the CSV body after the header row, requiring at least
// minFields columns per record.
func readRecords(r io.Reader, minFields int, kind string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	all, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s csv: %w", kind, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("read %s csv: missing header row", kind)
	}

	records := all[1:]
	for i, rec := range records {
		if len(rec) < minFields {
			return nil, fmt.Errorf("read %s csv: row %d has %d columns, want %d", kind, i+2, len(rec), minFields)
		}
	}

	return records, nil
}

// parseStringList decodes a JSON array column. Malformed or empty values
// degrade to an empty list rather than failing the whole file.
func parseStringList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	if out == nil {
		return []string{}
	}
	return out
}
