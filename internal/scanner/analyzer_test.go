package scanner_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flxry/weather-bot/internal/domain"
	"github.com/Flxry/weather-bot/internal/scanner"
)

func analyzableMarket() domain.Market {
	m, ok := scanner.Normalize(futureEvent("ev1", "Chicago"), time.Now().UTC())
	if !ok {
		panic("fixture must normalize")
	}
	return m
}

func TestAnalyze_AnnotatesProbabilitiesAndSignals(t *testing.T) {
	forecast := &fakeForecast{ens: tightEnsemble()}
	a := scanner.NewAnalyzer(forecast)

	res, err := a.Analyze(context.Background(), analyzableMarket(), domain.DefaultSettings())
	require.NoError(t, err)

	// los buckets del mercado devuelto llevan ModelProb anotada
	var sum float64
	for _, b := range res.Market.Buckets {
		sum += b.ModelProb
	}
	assert.InDelta(t, 1.0, sum, 0.01, "los buckets son exhaustivos")

	require.NotEmpty(t, res.Signals)
	for _, sig := range res.Signals {
		assert.NotEmpty(t, sig.Confidence, "toda señal sale graduada")
	}
}

func TestAnalyze_ForecastError(t *testing.T) {
	forecast := &fakeForecast{err: assert.AnError}
	a := scanner.NewAnalyzer(forecast)

	_, err := a.Analyze(context.Background(), analyzableMarket(), domain.DefaultSettings())
	assert.Error(t, err)
}

func TestAnalyze_EmptyEnsembleError(t *testing.T) {
	forecast := &fakeForecast{} // sin miembros
	a := scanner.NewAnalyzer(forecast)

	_, err := a.Analyze(context.Background(), analyzableMarket(), domain.DefaultSettings())
	assert.Error(t, err)
}
