package prompt

import (
	"reflect"
	"testing"

	"easel/internal/stem"
)

func TestBuildInstruction(t *testing.T) {
	cases := []struct {
		name  string
		attrs stem.Attributes
		want  string
	}{
		{
			name: "general variant uses subcategory as head",
			attrs: stem.Attributes{
				Country:     "india",
				Category:    "architecture",
				Subcategory: "landmark",
				Variant:     "general",
			},
			want: "Change the image to represent landmark in India.",
		},
		{
			name: "people without subcategory keeps bare variant",
			attrs: stem.Attributes{
				Country:  "korea",
				Category: "people",
				Variant:  "bride",
			},
			want: "Change the image to represent bride in Korea.",
		},
		{
			name: "wildlife appends animal and united_states takes the article",
			attrs: stem.Attributes{
				Country:  "united_states",
				Category: "wildlife",
				Variant:  "national",
			},
			want: "Change the image to represent national animal in the United States.",
		},
		{
			name: "landscape without subcategory appends landscape",
			attrs: stem.Attributes{
				Country:  "kenya",
				Category: "landscape",
				Variant:  "mountain",
			},
			want: "Change the image to represent mountain landscape in Kenya.",
		},
		{
			name: "variant plus subcategory",
			attrs: stem.Attributes{
				Country:     "china",
				Category:    "food",
				Subcategory: "staple",
				Variant:     "traditional",
			},
			want: "Change the image to represent traditional staple food in China.",
		},
		{
			name: "variant plus category when no subcategory",
			attrs: stem.Attributes{
				Country:  "nigeria",
				Category: "clothing",
				Variant:  "modern",
			},
			want: "Change the image to represent modern clothing in Nigeria.",
		},
		{
			name: "general with no subcategory falls back to category",
			attrs: stem.Attributes{
				Country:  "india",
				Category: "festival",
				Variant:  "general",
			},
			want: "Change the image to represent festival in India.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildInstruction(tc.attrs)
			if got != tc.want {
				t.Fatalf("BuildInstruction() = %q, want %q", got, tc.want)
			}
			if again := BuildInstruction(tc.attrs); again != got {
				t.Fatalf("BuildInstruction not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestNormalizePhrase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"modern food modern staple", "modern modern staple food"},
		{"food staple", "staple food"},
		{"life daily", "daily life"},
		{"groom and bride", "bride and groom"},
		{"groom bride", "bride and groom"},
		{"bride groom", "bride and groom"},
		{"and groom bride", "bride and groom"},
		{"plain  spaced   text", "plain spaced text"},
		{"unchanged phrase", "unchanged phrase"},
	}
	for _, tc := range cases {
		if got := NormalizePhrase(tc.in); got != tc.want {
			t.Errorf("NormalizePhrase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCountryPhrase(t *testing.T) {
	cases := []struct {
		token string
		want  string
	}{
		{"united_states", "the United States"},
		{"korea", "Korea"},
		{"south_africa", "South Africa"},
	}
	for _, tc := range cases {
		if got := CountryPhrase(tc.token); got != tc.want {
			t.Errorf("CountryPhrase(%q) = %q, want %q", tc.token, got, tc.want)
		}
	}
}

func TestChainInstructions(t *testing.T) {
	got := ChainInstructions("Korea", "Korean")
	want := []string{
		"Change the background to depict the capital of Korea.",
		"Add a sign in the top-right corner that displays the name of Korea's capital in Korea's official language.",
		"Hold a representative Korean food in hand.",
		"Put on modern Korean clothing.",
		"Add traditional Korean accessories.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ChainInstructions() = %#v, want %#v", got, want)
	}
}

func TestDemonym(t *testing.T) {
	if d, ok := Demonym("united_states"); !ok || d != "American" {
		t.Fatalf("Demonym(united_states) = %q, %v", d, ok)
	}
	if _, ok := Demonym("atlantis"); ok {
		t.Fatal("Demonym(atlantis) unexpectedly resolved")
	}
}

func TestPromptColumns(t *testing.T) {
	headers := []string{"Country", "Category", "Subcategory", "Traditional Prompt", "Modern Prompt", "General Prompt", "National Prompt", "Common Prompt"}

	if got := PromptColumns("food", headers); !reflect.DeepEqual(got, []string{"Traditional Prompt", "Modern Prompt", "General Prompt"}) {
		t.Fatalf("default columns = %#v", got)
	}
	if got := PromptColumns("Wildlife", headers); !reflect.DeepEqual(got, []string{"National Prompt", "Common Prompt", "General Prompt"}) {
		t.Fatalf("wildlife columns = %#v", got)
	}

	partial := []string{"Country", "Category", "General Prompt"}
	if got := PromptColumns("food", partial); !reflect.DeepEqual(got, []string{"General Prompt"}) {
		t.Fatalf("partial columns = %#v", got)
	}
}

func TestColumnVariant(t *testing.T) {
	cases := map[string]string{
		"Traditional Prompt": "traditional",
		"Modern Prompt":      "modern",
		"General Prompt":     "general",
		"National Prompt":    "national",
		"Common Prompt":      "common",
	}
	for column, want := range cases {
		if got := ColumnVariant(column); got != want {
			t.Errorf("ColumnVariant(%q) = %q, want %q", column, got, want)
		}
	}
}
