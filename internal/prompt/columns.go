package prompt

import "strings"

// Column policy for tabular batch input. Wildlife rows carry National/Common
// variants; everything else carries Traditional/Modern.
var (
	defaultColumns  = []string{"Traditional Prompt", "Modern Prompt", "General Prompt"}
	wildlifeColumns = []string{"National Prompt", "Common Prompt", "General Prompt"}
)

// PromptColumns returns the instruction-variant columns to read for a
// category, restricted to headers actually present in the sheet.
func PromptColumns(category string, headers []string) []string {
	columns := defaultColumns
	if strings.EqualFold(strings.TrimSpace(category), "wildlife") {
		columns = wildlifeColumns
	}
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if _, ok := present[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// ColumnVariant maps a prompt column name to the variant token embedded in
// output filenames.
func ColumnVariant(column string) string {
	base := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(column, " Prompt", "")))
	if base == "generic" {
		return "general"
	}
	return base
}
