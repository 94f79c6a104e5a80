// Package batch reads generation sheets: CSV files with one country per row
// and per-variant prompt columns. Category and Subcategory cells carry
// forward until the next non-blank value, matching how the sheets are
// authored with merged cells.
package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"easel/internal/prompt"
	"easel/internal/stem"
)

// VariantPrompt is one renderable prompt taken from a sheet row.
type VariantPrompt struct {
	Column  string
	Variant string
	Text    string
}

// Row is one country line of the sheet with its effective category context.
type Row struct {
	Line             int
	Country          string
	CountryToken     string
	Category         string
	CategoryToken    string
	Subcategory      string
	SubcategoryToken string
	Prompts          []VariantPrompt
}

// StemName builds the canonical output stem for one variant of this row.
// Empty tokens are omitted so the name decodes back to the same attributes.
func (r Row) StemName(modelTag, variant string) string {
	parts := []string{modelTag, r.CountryToken, r.CategoryToken}
	if r.SubcategoryToken != "" {
		parts = append(parts, r.SubcategoryToken)
	}
	parts = append(parts, variant)
	return strings.Join(parts, "_")
}

// blank prompt cells mean "no prompt for this variant", including the dash
// placeholders sheet authors leave in merged ranges.
var blankSentinels = map[string]struct{}{
	"":  {},
	"-": {},
	"—": {},
}

func isBlankPrompt(v string) bool {
	_, ok := blankSentinels[strings.TrimSpace(v)]
	return ok
}

// ReadFile reads a sheet from disk.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sheet: %w", err)
	}
	defer f.Close()
	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", path, err)
	}
	return rows, nil
}

// Read parses a sheet. Rows without a country are context-only: they may
// update the carried Category and Subcategory but produce no work.
func Read(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	headers := make([]string, 0, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		index[name] = i
		headers = append(headers, name)
	}

	cell := func(record []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var (
		rows        []Row
		category    string
		subcategory string
		line        = 1
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		if v := cell(record, "Category"); v != "" {
			category = v
		}
		if v := cell(record, "Subcategory"); v != "" {
			subcategory = v
		}

		country := cell(record, "Country")
		if country == "" {
			continue
		}

		row := Row{
			Line:             line,
			Country:          country,
			CountryToken:     stem.Token(country),
			Category:         category,
			CategoryToken:    stem.Token(category),
			Subcategory:      subcategory,
			SubcategoryToken: stem.Token(subcategory),
		}
		for _, column := range prompt.PromptColumns(category, headers) {
			text := cell(record, column)
			if isBlankPrompt(text) {
				continue
			}
			row.Prompts = append(row.Prompts, VariantPrompt{
				Column:  column,
				Variant: prompt.ColumnVariant(column),
				Text:    text,
			})
		}
		rows = append(rows, row)
	}
	return rows, nil
}
