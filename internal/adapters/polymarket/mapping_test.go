package polymarket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString_StringOrNumber(t *testing.T) {
	var f flexString
	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &f))
	assert.Equal(t, flexString("abc"), f)

	require.NoError(t, json.Unmarshal([]byte(`12345`), &f))
	assert.Equal(t, flexString("12345"), f)
}

func TestFlexArray_Direct(t *testing.T) {
	var f flexArray
	require.NoError(t, json.Unmarshal([]byte(`["0.12", "0.88"]`), &f))
	assert.Equal(t, flexArray{"0.12", "0.88"}, f)
}

func TestFlexArray_StringEncoded(t *testing.T) {
	// Gamma codifica el array dentro de un string
	var f flexArray
	require.NoError(t, json.Unmarshal([]byte(`"[\"0.12\", \"0.88\"]"`), &f))
	assert.Equal(t, flexArray{"0.12", "0.88"}, f)
}

func TestFlexArray_EmptyAndMalformed(t *testing.T) {
	var f flexArray
	require.NoError(t, json.Unmarshal([]byte(`""`), &f))
	assert.Empty(t, f)

	require.NoError(t, json.Unmarshal([]byte(`"not json"`), &f))
	assert.Empty(t, f)
}

func TestEventsEnvelope_DirectArray(t *testing.T) {
	var env eventsEnvelope
	require.NoError(t, json.Unmarshal([]byte(`[{"id": "1", "title": "A"}]`), &env))
	require.Len(t, env, 1)
	assert.Equal(t, "A", env[0].Title)
}

func TestEventsEnvelope_Wrapped(t *testing.T) {
	var env eventsEnvelope
	require.NoError(t, json.Unmarshal([]byte(`{"data": [{"id": "1"}, {"id": "2"}]}`), &env))
	assert.Len(t, env, 2)

	env = nil
	require.NoError(t, json.Unmarshal([]byte(`{"events": [{"id": "3"}]}`), &env))
	require.Len(t, env, 1)
	assert.Equal(t, flexString("3"), env[0].ID)
}

// --- mapping ---

func TestMapEvent(t *testing.T) {
	raw := []byte(`{
		"id": 101,
		"title": "Highest temperature in NYC on March 15?",
		"slug": "highest-temperature-nyc-march-15",
		"closed": false,
		"volume": "15230.5",
		"markets": [
			{
				"id": "501",
				"groupItemTitle": "75-76",
				"question": "Will the highest temperature in NYC on March 15 be 75-76°F?",
				"outcomePrices": "[\"0.22\", \"0.78\"]",
				"clobTokenIds": "[\"tok-yes\", \"tok-no\"]",
				"active": true,
				"closed": false
			}
		]
	}`)

	var ev gammaEvent
	require.NoError(t, json.Unmarshal(raw, &ev))

	out := mapEvent(ev)
	assert.Equal(t, "101", out.ID)
	assert.Equal(t, "Highest temperature in NYC on March 15?", out.Title)
	assert.InDelta(t, 15230.5, out.Volume, 0.001)
	assert.True(t, out.Active, "active ausente asume true")
	assert.False(t, out.Closed)

	require.Len(t, out.Markets, 1)
	m := out.Markets[0]
	assert.Equal(t, "501", m.ID)
	assert.Equal(t, "75-76", m.Label)
	assert.InDelta(t, 0.22, m.YesPrice, 1e-9)
	assert.Equal(t, "tok-yes", m.TokenID)
	assert.True(t, m.AcceptingOrders, "acceptingOrders ausente asume true")
}

func TestMapMarket_QuestionFallback(t *testing.T) {
	m := mapMarket(gammaMarket{ID: "1", Question: "82 or higher"})
	assert.Equal(t, "82 or higher", m.Label)
}

func TestMapMarket_MissingPrices(t *testing.T) {
	m := mapMarket(gammaMarket{ID: "1", GroupItemTitle: "75"})
	assert.Equal(t, 0.0, m.YesPrice)
	assert.Equal(t, "", m.TokenID)
}

func TestIsWeatherEvent(t *testing.T) {
	assert.True(t, isWeatherEvent(gammaEvent{Title: "Highest temperature in NYC on March 15?"}))
	assert.True(t, isWeatherEvent(gammaEvent{Slug: "london-temperature-march-20"}))
	assert.True(t, isWeatherEvent(gammaEvent{Title: "Chicago weather: 40°F or higher on Friday?"}))
	assert.False(t, isWeatherEvent(gammaEvent{Title: "Will it be sunny weather tomorrow?"}))
	assert.False(t, isWeatherEvent(gammaEvent{Title: "Who wins the election?"}))
}
