package stem

import (
	"regexp"
	"strings"

	"easel/internal/services"
)

// MatchKind reports how the country prefix of a stem was resolved.
type MatchKind int

const (
	// MatchExact means the country token matched the configured allow-set.
	MatchExact MatchKind = iota
	// MatchFallback means no allow-listed prefix matched and the first token
	// was taken as the country. Callers filter fallback countries downstream
	// rather than treating them as parse failures.
	MatchFallback
)

func (k MatchKind) String() string {
	if k == MatchExact {
		return "exact"
	}
	return "fallback"
}

// Attributes are the semantic fields decoded from a filename stem.
type Attributes struct {
	ModelTag     string
	Country      string
	Category     string
	Subcategory  string // empty when the category admits none
	Variant      string
	CountryMatch MatchKind
}

// Options configure stem decoding for one pipeline profile.
type Options struct {
	// ModelTag is the required leading token, e.g. "flux" or "hidream".
	ModelTag string
	// AllowCountries lists underscore-joined country tokens eligible for
	// exact prefix matching ("korea", "united_states").
	AllowCountries []string
	// NoSubcategory lists categories whose tail is entirely the variant.
	NoSubcategory []string
}

// Country prefixes longer than this never occur in practice; bounding the
// scan keeps ambiguous stems from swallowing the category tokens.
const maxCountryTokens = 4

// Decode parses a filename stem of the form
// {tag}_{country}_{category}[_{subcategory}]_{variant} into Attributes.
// The country may span multiple underscore-joined tokens when it matches the
// allow-set; the longest match wins. Malformed stems (missing tag, fewer than
// three tokens after the tag, fewer than two after the country) fail with a
// services.ErrMalformedStem error.
func Decode(s string, opts Options) (Attributes, error) {
	tag := strings.TrimSpace(opts.ModelTag)
	if tag == "" {
		return Attributes{}, services.Wrap(services.ErrConfiguration, "", "decode stem", "model tag not configured", nil)
	}
	if !strings.HasPrefix(s, tag+"_") {
		return Attributes{}, services.Wrap(services.ErrMalformedStem, "", "decode stem", "stem "+s+" does not start with tag "+tag, nil)
	}
	parts := strings.Split(s, "_")[1:]
	if len(parts) < 3 {
		return Attributes{}, services.Wrap(services.ErrMalformedStem, "", "decode stem", "not enough tokens in "+s, nil)
	}

	country, consumed, kind := matchCountryPrefix(parts, opts.AllowCountries)
	remain := parts[consumed:]
	if len(remain) < 2 {
		return Attributes{}, services.Wrap(services.ErrMalformedStem, "", "decode stem", "not enough tokens after country in "+s, nil)
	}

	category := remain[0]
	tail := remain[1:]

	attrs := Attributes{
		ModelTag:     tag,
		Country:      country,
		Category:     category,
		CountryMatch: kind,
	}
	switch {
	case containsNormalized(opts.NoSubcategory, category):
		attrs.Variant = strings.Join(tail, "_")
	case len(tail) == 1:
		attrs.Variant = tail[0]
	default:
		attrs.Variant = tail[len(tail)-1]
		attrs.Subcategory = strings.Join(tail[:len(tail)-1], "_")
	}
	return attrs, nil
}

// matchCountryPrefix scans prefixes longest-first against the allow-set,
// leaving at least two tokens for category and variant. With no match the
// first token becomes a fallback country.
func matchCountryPrefix(parts []string, allow []string) (string, int, MatchKind) {
	allowSet := make(map[string]struct{}, len(allow))
	for _, c := range allow {
		allowSet[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	maxN := len(parts) - 2
	if maxN > maxCountryTokens {
		maxN = maxCountryTokens
	}
	if maxN < 1 {
		maxN = 1
	}
	for n := maxN; n >= 1; n-- {
		candidate := strings.Join(parts[:n], "_")
		if _, ok := allowSet[candidate]; ok {
			return candidate, n, MatchExact
		}
	}
	return parts[0], 1, MatchFallback
}

func containsNormalized(set []string, value string) bool {
	want := Nice(value)
	for _, entry := range set {
		if Nice(entry) == want {
			return true
		}
	}
	return false
}

// Nice lowercases a token and turns underscores into spaces, the shared
// normalization applied before any prompt composition or set membership test.
func Nice(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", " "))
}

var tokenStrip = regexp.MustCompile(`[^a-z0-9_]+`)

var tokenSpaces = regexp.MustCompile(`\s+`)

// Token collapses a free-form spreadsheet value into a filename-safe
// underscore token. Placeholder spellings of "no country" all normalize to
// the single token "nocountry".
func Token(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	t = tokenSpaces.ReplaceAllString(t, "_")
	t = tokenStrip.ReplaceAllString(t, "")
	switch t {
	case "no_country", "no__country", "no", "none":
		return "nocountry"
	}
	return t
}
