package scanner

import (
	"context"
	"fmt"

	"github.com/Flxry/weather-bot/internal/domain"
	"github.com/Flxry/weather-bot/internal/ports"
)

// Analyzer ejecuta el pipeline analítico de un mercado: ensemble →
// probabilidades → edges → confianza.
type Analyzer struct {
	forecast ports.ForecastProvider
}

// NewAnalyzer crea un Analyzer con el proveedor de forecast inyectado.
func NewAnalyzer(forecast ports.ForecastProvider) *Analyzer {
	return &Analyzer{forecast: forecast}
}

// MarketAnalysis es el resultado de analizar un mercado en un ciclo.
type MarketAnalysis struct {
	// Market con los buckets ya anotados con ModelProb, listo para los
	// exit checks del ledger.
	Market   domain.Market
	Ensemble domain.Ensemble
	Signals  []domain.Signal
}

// Analyze obtiene el ensemble del mercado y deriva sus señales. Error solo
// ante fallo de forecast o ensemble sin miembros; el caller salta el mercado
// y sigue con el resto.
func (a *Analyzer) Analyze(ctx context.Context, m domain.Market, settings domain.Settings) (MarketAnalysis, error) {
	ens, err := a.forecast.FetchEnsemble(ctx, m.Location.Lat, m.Location.Lon, m.TargetDate, m.Unit)
	if err != nil {
		return MarketAnalysis{}, fmt.Errorf("analyzer.Analyze: fetch ensemble for %s %s: %w", m.City, m.DateString(), err)
	}
	if ens.MemberCount() == 0 {
		return MarketAnalysis{}, fmt.Errorf("analyzer.Analyze: no ensemble members for %s %s", m.City, m.DateString())
	}

	withProbs := domain.ComputeBucketProbabilities(ens, m.Buckets, settings.SpreadInflation, settings.BiasCorrection)
	m.Buckets = withProbs

	signals := domain.DetectEdges(withProbs, settings.MinEdge, settings.MaxEntryPrice)
	for i, sig := range signals {
		signals[i] = domain.AssessConfidence(sig, ens, settings.MinEdge, settings.ModelAgreementThreshold)
	}

	return MarketAnalysis{Market: m, Ensemble: ens, Signals: signals}, nil
}
