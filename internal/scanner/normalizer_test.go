package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flxry/weather-bot/internal/domain"
)

var scanNow = time.Date(2026, time.March, 13, 15, 0, 0, 0, time.UTC)

func rawWeatherEvent() domain.RawEvent {
	return domain.RawEvent{
		ID:     "101",
		Title:  "Highest temperature in Chicago on March 15?",
		Slug:   "highest-temperature-chicago-march-15",
		Active: true,
		Markets: []domain.RawOutcome{
			{ID: "b3", Label: "77 or higher", YesPrice: 0.10, Active: true},
			{ID: "b1", Label: "74 or lower", YesPrice: 0.15, Active: true},
			{ID: "b2", Label: "75-76", YesPrice: 0.70, Active: true},
		},
	}
}

func TestNormalize_Basic(t *testing.T) {
	m, ok := Normalize(rawWeatherEvent(), scanNow)
	require.True(t, ok)

	assert.Equal(t, "chicago", m.City)
	assert.True(t, m.HasCity)
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), m.TargetDate)
	assert.Equal(t, domain.UnitFahrenheit, m.Unit)
	assert.False(t, m.Resolved)
	assert.True(t, m.Analyzable())

	// buckets ordenados por temperatura: LTE primero, GTE al final
	require.Len(t, m.Buckets, 3)
	assert.Equal(t, "b1", m.Buckets[0].ID)
	assert.Equal(t, "b2", m.Buckets[1].ID)
	assert.Equal(t, "b3", m.Buckets[2].ID)
}

func TestNormalize_YearDefaultsToCurrent(t *testing.T) {
	ev := rawWeatherEvent()
	ev.Title = "Highest temperature in Chicago on December 1?"
	m, ok := Normalize(ev, scanNow)
	require.True(t, ok)
	assert.Equal(t, 2026, m.TargetDate.Year())
}

func TestNormalize_ExplicitYear(t *testing.T) {
	ev := rawWeatherEvent()
	ev.Title = "Highest temperature in Chicago on March 15, 2027?"
	m, ok := Normalize(ev, scanNow)
	require.True(t, ok)
	assert.Equal(t, 2027, m.TargetDate.Year())
}

func TestNormalize_ISODate(t *testing.T) {
	ev := rawWeatherEvent()
	ev.Title = "Chicago temperature 2026-03-20"
	m, ok := Normalize(ev, scanNow)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC), m.TargetDate)
}

func TestNormalize_NoParseableBuckets(t *testing.T) {
	ev := rawWeatherEvent()
	ev.Markets = []domain.RawOutcome{{ID: "x", Label: "Yes"}}
	_, ok := Normalize(ev, scanNow)
	assert.False(t, ok)
}

func TestNormalize_DropsUnparseableBucket(t *testing.T) {
	ev := rawWeatherEvent()
	ev.Markets = append(ev.Markets, domain.RawOutcome{ID: "bad", Label: "Something else"})
	m, ok := Normalize(ev, scanNow)
	require.True(t, ok)
	assert.Len(t, m.Buckets, 3, "el bucket irreconocible se excluye en silencio")
}

func TestNormalize_UnknownCityNotAnalyzable(t *testing.T) {
	ev := rawWeatherEvent()
	ev.Title = "Highest temperature in Springfield on March 15?"
	m, ok := Normalize(ev, scanNow)
	require.True(t, ok)
	assert.False(t, m.HasCity)
	assert.False(t, m.Analyzable())
}

func TestNormalize_UnitFromLabelOverridesCity(t *testing.T) {
	ev := rawWeatherEvent()
	ev.Title = "Highest temperature in London on March 15?"
	// labels en °F aunque London por defecto es celsius
	ev.Markets = []domain.RawOutcome{
		{ID: "b1", Label: "40°F or higher", YesPrice: 0.5, Active: true},
	}
	m, ok := Normalize(ev, scanNow)
	require.True(t, ok)
	assert.Equal(t, domain.UnitFahrenheit, m.Unit)
}

func TestNormalize_CityDefaultUnit(t *testing.T) {
	ev := rawWeatherEvent()
	ev.Title = "Highest temperature in London on March 15?"
	m, ok := Normalize(ev, scanNow)
	require.True(t, ok)
	assert.Equal(t, domain.UnitCelsius, m.Unit)
}

// --- resolución ---

func TestNormalize_ResolvedBySettledBucket(t *testing.T) {
	ev := rawWeatherEvent()
	ev.Markets[0].YesPrice = 0.99
	m, ok := Normalize(ev, scanNow)
	require.True(t, ok)
	assert.True(t, m.HasSettledBucket)
	assert.True(t, m.Resolved)
}

func TestNormalize_ResolvedByPastDate(t *testing.T) {
	ev := rawWeatherEvent()
	ev.Title = "Highest temperature in Chicago on March 10?"
	m, ok := Normalize(ev, scanNow)
	require.True(t, ok)
	assert.True(t, m.Resolved)
}

func TestNormalize_ResolvedByAllClosed(t *testing.T) {
	ev := rawWeatherEvent()
	for i := range ev.Markets {
		ev.Markets[i].Closed = true
	}
	m, ok := Normalize(ev, scanNow)
	require.True(t, ok)
	assert.True(t, m.Resolved)
}

func TestNormalize_ResolvedByEventClosed(t *testing.T) {
	ev := rawWeatherEvent()
	ev.Closed = true
	m, ok := Normalize(ev, scanNow)
	require.True(t, ok)
	assert.True(t, m.Resolved)
}

func TestNormalize_TodayNotResolved(t *testing.T) {
	ev := rawWeatherEvent()
	ev.Title = "Highest temperature in Chicago on March 13?"
	m, ok := Normalize(ev, scanNow)
	require.True(t, ok)
	assert.False(t, m.Resolved, "la fecha de hoy sigue operable")
}
