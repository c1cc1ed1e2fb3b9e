package grading

import "strings"

// stopwords are dropped from tokenized text before keyword comparison.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "to": {}, "of": {}, "in": {},
	"on": {}, "for": {}, "is": {}, "are": {}, "was": {}, "were": {}, "with": {}, "as": {},
	"by": {}, "at": {}, "from": {}, "that": {}, "this": {}, "it": {},
}

// IsStopword reports whether word is ignored during keyword comparison.
func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}

// TokenSet is an unordered set of significant lowercase words.
type TokenSet map[string]struct{}

// Has reports whether the token is present.
func (s TokenSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Intersect counts the tokens present in both sets.
func (s TokenSet) Intersect(other TokenSet) int {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	count := 0
	for token := range small {
		if large.Has(token) {
			count++
		}
	}
	return count
}

// Tokenize lower-cases text and splits it into runs of ASCII letters and digits,
// discarding stopwords. Anything else separates words.
func Tokenize(text string) TokenSet {
	lowered := lowerText(text)
	tokens := TokenSet{}

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		word := lowered[start:end]
		start = -1
		if !IsStopword(word) {
			tokens[word] = struct{}{}
		}
	}

	for i := 0; i < len(lowered); i++ {
		if isWordByte(lowered[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(lowered))

	return tokens
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// dottedCapitalI expands U+0130 to its full lowercase mapping, "i" followed by U+0307.
// strings.ToLower applies the simple mapping and would yield a bare "i".
var dottedCapitalI = strings.NewReplacer("\u0130", "i\u0307")

// lowerText lower-cases text for answer comparison.
func lowerText(text string) string {
	return strings.ToLower(dottedCapitalI.Replace(text))
}
