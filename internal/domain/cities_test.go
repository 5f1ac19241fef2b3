package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCity_CaseInsensitive(t *testing.T) {
	c, ok := LookupCity("London")
	require.True(t, ok)
	assert.Equal(t, "london", c.Name)
	assert.Equal(t, UnitCelsius, c.Unit)
}

func TestLookupCity_Unknown(t *testing.T) {
	_, ok := LookupCity("gotham")
	assert.False(t, ok)
}

func TestExtractCity_FromTitle(t *testing.T) {
	c, ok := ExtractCity("Highest temperature in NYC on March 15?")
	require.True(t, ok)
	assert.Equal(t, "nyc", c.Name)
}

func TestExtractCity_LongestNameWins(t *testing.T) {
	// "rio de janeiro" contiene "rio"; debe ganar el nombre largo
	c, ok := ExtractCity("Highest temperature in Rio de Janeiro on March 15?")
	require.True(t, ok)
	assert.Equal(t, "rio de janeiro", c.Name)
}

func TestExtractCity_MultiWord(t *testing.T) {
	c, ok := ExtractCity("Highest temperature in Los Angeles on July 4?")
	require.True(t, ok)
	assert.Equal(t, "los angeles", c.Name)
	assert.Equal(t, UnitFahrenheit, c.Unit)
}

func TestExtractCity_NotFound(t *testing.T) {
	_, ok := ExtractCity("Will it rain tomorrow?")
	assert.False(t, ok)
}

func TestExtractCity_PatternFallback(t *testing.T) {
	// la ciudad aparece con texto alrededor que el contains directo no ve
	c, ok := ExtractCity("weather in downtown chicago area on June 1?")
	require.True(t, ok)
	assert.Equal(t, "chicago", c.Name)
}
