package prompt

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"easel/internal/stem"
)

// countryArticles maps country tokens that read wrong without a definite
// article to their full rendered phrase.
var countryArticles = map[string]string{
	"united_states": "the United States",
}

var titleCaser = cases.Title(language.Und)

// CountryPhrase renders a country token for use in a sentence:
// "united_states" becomes "the United States", everything else is the
// title-cased space-joined form.
func CountryPhrase(token string) string {
	if phrase, ok := countryArticles[token]; ok {
		return phrase
	}
	return titleCaser.String(strings.ReplaceAll(token, "_", " "))
}

// BuildInstruction deterministically synthesizes the single-shot edit
// instruction for an attribute record. Rules are evaluated in order, first
// match wins; all tokens are normalized before composition.
func BuildInstruction(attrs stem.Attributes) string {
	category := stem.Nice(attrs.Category)
	variant := stem.Nice(attrs.Variant)
	subcategory := ""
	if attrs.Subcategory != "" {
		subcategory = stem.Nice(attrs.Subcategory)
	}

	var head string
	switch {
	case category == "wildlife":
		head = variant + " animal"
	case category == "people" && subcategory == "":
		head = variant
	case category == "landscape" && subcategory == "":
		head = variant + " landscape"
	case variant == "general":
		if subcategory != "" {
			head = subcategory
		} else {
			head = category
		}
	case subcategory != "":
		head = variant + " " + subcategory
	default:
		head = variant + " " + category
	}

	head = NormalizePhrase(head)
	return fmt.Sprintf("Change the image to represent %s in %s.", head, CountryPhrase(attrs.Country))
}
