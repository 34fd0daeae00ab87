// Package textnorm normalizes and tokenizes dish names for keyword matching.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// stopwords are common German function words and filler abbreviations that
// carry no signal for matching dish names against keyword lists.
var stopwords = map[string]struct{}{
	"mit":   {},
	"und":   {},
	"in":    {},
	"vom":   {},
	"von":   {},
	"nach":  {},
	"art":   {},
	"im":    {},
	"an":    {},
	"der":   {},
	"die":   {},
	"das":   {},
	"auf":   {},
	"für":   {},
	"zu":    {},
	"oder":  {},
	"sowie": {},
	"inkl":  {},
	"ca":    {},
	"tk":    {},
	"bio":   {},
}

// IsStopword reports whether a token is on the fixed stopword list.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// Normalize lowercases, trims, NFKC-normalizes and collapses internal
// whitespace runs to a single space.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// tokenRune reports whether r belongs inside a token. The alphabet is
// deliberately narrow: after Normalize the text is lowercase, so only
// lowercase letters, digits and German umlauts/eszett remain relevant.
func tokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == 'ä' || r == 'ö' || r == 'ü' || r == 'ß':
		return true
	}
	return false
}

// Tokenize splits text into normalized tokens and drops stopwords.
//
// Example: "Kartoffeln mit Gemüse" -> ["kartoffeln", "gemüse"].
func Tokenize(s string) []string {
	s = Normalize(s)

	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		tok := current.String()
		current.Reset()
		if IsStopword(tok) {
			return
		}
		tokens = append(tokens, tok)
	}

	for _, r := range s {
		if tokenRune(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// TokenMatchesKeyword is the permissive match predicate between one token and
// one keyword: equal, token has the keyword as prefix, or the keyword occurs
// anywhere inside the token. This is intentionally not linguistic stemming;
// "kartoffeln" matches "kartoffel" and "gemüselasagne" matches "gemüse".
func TokenMatchesKeyword(token, keyword string) bool {
	if token == "" || keyword == "" {
		return false
	}
	if token == keyword {
		return true
	}
	if strings.HasPrefix(token, keyword) {
		return true
	}
	return strings.Contains(token, keyword)
}
