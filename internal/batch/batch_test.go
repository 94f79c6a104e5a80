package batch

import (
	"strings"
	"testing"
)

const sampleSheet = `Country,Category,Subcategory,Traditional Prompt,Modern Prompt,General Prompt,National Prompt,Common Prompt
South Korea,Food,Staple,A bowl of rice,A convenience store meal,A typical meal,,
India,,,A thali platter,-,—,,
,Wildlife,,,,,,
Kenya,,,,,A savanna scene,A lion portrait,An antelope herd
No Country,People,,A wedding scene,,,,
`

func TestRead(t *testing.T) {
	rows, err := Read(strings.NewReader(sampleSheet))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}

	first := rows[0]
	if first.CountryToken != "south_korea" || first.CategoryToken != "food" || first.SubcategoryToken != "staple" {
		t.Fatalf("first row tokens = %+v", first)
	}
	if len(first.Prompts) != 3 {
		t.Fatalf("first row prompts = %+v", first.Prompts)
	}
	if first.Prompts[0].Variant != "traditional" || first.Prompts[0].Text != "A bowl of rice" {
		t.Fatalf("first prompt = %+v", first.Prompts[0])
	}

	// Category and subcategory carry forward; dash cells are blank.
	second := rows[1]
	if second.CategoryToken != "food" || second.SubcategoryToken != "staple" {
		t.Fatalf("carry-forward failed: %+v", second)
	}
	if len(second.Prompts) != 1 || second.Prompts[0].Variant != "traditional" {
		t.Fatalf("blank sentinels not skipped: %+v", second.Prompts)
	}

	// Wildlife rows read the National/Common/General columns.
	third := rows[2]
	if third.CategoryToken != "wildlife" {
		t.Fatalf("third row category = %+v", third)
	}
	variants := make([]string, 0, len(third.Prompts))
	for _, p := range third.Prompts {
		variants = append(variants, p.Variant)
	}
	if strings.Join(variants, ",") != "national,common,general" {
		t.Fatalf("wildlife variants = %v", variants)
	}

	if rows[3].CountryToken != "nocountry" {
		t.Fatalf("no-country collapse failed: %q", rows[3].CountryToken)
	}
}

func TestStemName(t *testing.T) {
	row := Row{CountryToken: "korea", CategoryToken: "food", SubcategoryToken: "staple"}
	if got := row.StemName("flux", "modern"); got != "flux_korea_food_staple_modern" {
		t.Fatalf("StemName = %q", got)
	}
	bare := Row{CountryToken: "korea", CategoryToken: "people"}
	if got := bare.StemName("flux", "bride"); got != "flux_korea_people_bride" {
		t.Fatalf("StemName without subcategory = %q", got)
	}
}

func TestReadRejectsMissingHeader(t *testing.T) {
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty sheet")
	}
}
