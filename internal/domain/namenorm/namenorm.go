// Package namenorm canonicalizes free-text player and owner names so that
// fuzzy matching across heterogeneous sources is deterministic.
package namenorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// generational suffixes stripped from the end of player names.
var suffixes = map[string]struct{}{
	"jr":  {},
	"sr":  {},
	"ii":  {},
	"iii": {},
	"iv":  {},
}

// placeholderPattern matches source-generated stand-in names such as
// "Sleeper Player 4034" or "Player 4034" after normalization. These carry a
// numeric id, not a real name, and must never be used for name matching.
var placeholderPattern = regexp.MustCompile(`^(?:(?:sleeper|espn|gsis) )?player \d+$`)

// diacriticStripper decomposes to NFD, removes combining marks, and
// recomposes, turning e.g. "Peña" into "Pena".
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a raw name: lower-case, diacritics stripped,
// punctuation removed (hyphens kept), whitespace collapsed, and trailing
// generational suffixes dropped. Total and idempotent; never panics.
func Normalize(raw string) string {
	s := Fold(raw)

	// Strip trailing generational suffixes, repeatedly: "Smith Jr. III"
	// reduces to "smith".
	tokens := strings.Fields(s)
	for len(tokens) > 1 {
		last := tokens[len(tokens)-1]
		if _, ok := suffixes[last]; !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// Fold applies the shared label rules without suffix stripping: lower-case,
// diacritics stripped, punctuation removed except hyphens, whitespace
// collapsed. Owner and team labels use this directly.
func Fold(raw string) string {
	s := strings.ToLower(raw)

	if folded, _, err := transform.String(diacriticStripper, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// Everything else (periods, apostrophes, commas) is dropped.
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// IsPlaceholder reports whether raw is a source-generated placeholder name
// of the form "<Source> Player <digits>". Placeholders are not usable for
// name-based matching; callers must fall back to id lookup or leave the
// player unresolved.
func IsPlaceholder(raw string) bool {
	return placeholderPattern.MatchString(Fold(raw))
}
