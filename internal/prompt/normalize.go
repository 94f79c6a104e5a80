package prompt

import (
	"regexp"
	"strings"
)

// rewrite is an ordered phrase rule applied after head composition. The
// filename grammar puts the category first ("food modern staple"), which
// reads backwards in English; these fix the known compounds and normalize
// every permutation of the bride/groom pair into one canonical order.
type rewrite struct {
	pattern *regexp.Regexp
	repl    string
}

var rewrites = []rewrite{
	{regexp.MustCompile(`\bfood modern staple\b`), "modern staple food"},
	{regexp.MustCompile(`\bfood staple\b`), "staple food"},
	{regexp.MustCompile(`\blife daily\b`), "daily life"},
	{regexp.MustCompile(`\band\s+groom\s+bride\b`), "bride and groom"},
	{regexp.MustCompile(`\bgroom\s+and\s+bride\b`), "bride and groom"},
	{regexp.MustCompile(`\bgroom\s+bride\b`), "bride and groom"},
	{regexp.MustCompile(`\bbride\s+groom\b`), "bride and groom"},
}

var multiSpace = regexp.MustCompile(`\s{2,}`)

// NormalizePhrase applies the fixed rewrite rules in order and collapses
// repeated whitespace.
func NormalizePhrase(text string) string {
	t := text
	for _, r := range rewrites {
		t = r.pattern.ReplaceAllString(t, r.repl)
	}
	t = multiSpace.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}
