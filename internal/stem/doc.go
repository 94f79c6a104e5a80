// Package stem decodes structured filename stems into semantic attributes.
//
// Stems follow {tag}_{country}_{category}[_{subcategory}]_{variant}, where the
// country may span several underscore-joined tokens. Country resolution is a
// ranked match: the longest allow-listed prefix wins, and when nothing matches
// the first token is kept as a fallback country with a distinct MatchKind so
// callers can filter instead of failing.
package stem
