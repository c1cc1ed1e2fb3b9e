package grading

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenizeLowercasesAndDropsStopwords(t *testing.T) {
	tokens := Tokenize("Spacetime is bent by gravity and mass")

	require.Equal(t, TokenSet{"spacetime": {}, "bent": {}, "gravity": {}, "mass": {}}, tokens)
}

func TestTokenizeTreatsPunctuationAsSeparator(t *testing.T) {
	tokens := Tokenize("E=mc2, (light-speed) isn't; 42!")

	require.Equal(t, TokenSet{"e": {}, "mc2": {}, "light": {}, "speed": {}, "isn": {}, "t": {}, "42": {}}, tokens)
}

func TestTokenizeCollapsesDuplicates(t *testing.T) {
	tokens := Tokenize("Gravity GRAVITY gravity")

	require.Len(t, tokens, 1)
	require.True(t, tokens.Has("gravity"))
}

func TestTokenizeEmptyAndStopwordOnlyInput(t *testing.T) {
	require.Empty(t, Tokenize(""))
	require.Empty(t, Tokenize("   \n\t"))
	require.Empty(t, Tokenize("The and of it, THIS!"))
}

func TestTokenizeIgnoresNonASCIILetters(t *testing.T) {
	tokens := Tokenize("café naïve")

	require.Equal(t, TokenSet{"caf": {}, "na": {}, "ve": {}}, tokens)
}

func TestTokenizeKeepsCombiningDotOfCapitalI(t *testing.T) {
	require.Equal(t, TokenSet{"i": {}, "stanbul": {}}, Tokenize("İstanbul"))
	require.Equal(t, TokenSet{"istanbul": {}}, Tokenize("ISTANBUL istanbul"))
}

func TestTokenSetIntersect(t *testing.T) {
	expected := Tokenize("gravity bends spacetime")
	answer := Tokenize("Spacetime is bent by gravity and mass")

	require.Equal(t, 2, expected.Intersect(answer))
	require.Equal(t, 2, answer.Intersect(expected))
	require.Equal(t, 0, expected.Intersect(TokenSet{}))
}
