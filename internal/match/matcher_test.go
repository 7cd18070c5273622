package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatcherClampsBadThreshold(t *testing.T) {
	assert.Equal(t, DefaultThreshold, NewMatcher(0).Threshold)
	assert.Equal(t, DefaultThreshold, NewMatcher(-0.2).Threshold)
	assert.Equal(t, DefaultThreshold, NewMatcher(1.5).Threshold)
	assert.Equal(t, 0.7, NewMatcher(0.7).Threshold)
}

func TestMatchExactAndCaseInsensitive(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	assert.True(t, m.Match("John Kamau Mwangi", "John Kamau Mwangi"))
	assert.True(t, m.Match("JOHN KAMAU MWANGI", "john kamau mwangi"))
}

func TestMatchIgnoresPunctuationAndDigits(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	assert.True(t, m.Match("John Kamau Mwangi (ID 1234)", "John Kamau Mwangi"))
	assert.True(t, m.Match("Mary W. Njeri", "Mary W Njeri"))
}

func TestMatchToleratesSmallOCRNoise(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	// One character off in a long name still clears 0.85.
	assert.True(t, m.Match("John Kamau Mwangi", "John Kamav Mwangi"))
}

func TestMatchRejectsExtendedName(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	// The extra surname pushes similarity below the threshold.
	assert.False(t, m.Match("Peter Otieno", "Peter Otieno Junior"))
}

func TestMatchEmptyNamesNeverMatch(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	assert.False(t, m.Match("", ""))
	assert.False(t, m.Match("John Kamau", ""))
	assert.False(t, m.Match("  12345  ", "John Kamau"))
}

func TestMatchIsSymmetric(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	pairs := [][2]string{
		{"John Kamau Mwangi", "John Kamav Mwangi"},
		{"Peter Otieno", "Peter Otieno Junior"},
		{"Grace Wanjiru", "Wanjiru Grace"},
	}
	for _, p := range pairs {
		assert.Equal(t, m.Match(p[0], p[1]), m.Match(p[1], p[0]), "pair %v", p)
	}
}

func TestSimilarityBounds(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	s := m.Similarity("Peter Otieno", "Peter Otieno Junior")
	require.Greater(t, s, 0.0)
	require.Less(t, s, DefaultThreshold)

	assert.Equal(t, 1.0, m.Similarity("Jane Doe", "jane doe"))
	assert.Equal(t, 0.0, m.Similarity("", ""))
}

func TestLowerThresholdAcceptsLooserPairs(t *testing.T) {
	loose := NewMatcher(0.6)
	assert.True(t, loose.Match("Peter Otieno", "Peter Otieno Junior"))
}

func TestDiceCoefficient(t *testing.T) {
	assert.Equal(t, 1.0, diceCoefficient("night", "night"))
	assert.Equal(t, 0.25, diceCoefficient("night", "nacht"))
	assert.Equal(t, 0.0, diceCoefficient("a", "ab"))
}
