package ports

import (
	"context"
	"time"

	"github.com/Flxry/weather-bot/internal/domain"
)

// ForecastProvider obtiene ensembles de forecast para una localización y fecha.
type ForecastProvider interface {
	// FetchEnsemble pide los miembros de ambos modelos para la temperatura
	// máxima diaria en targetDate. El fallo de un modelo no invalida el
	// otro; un Ensemble sin miembros es válido como valor de retorno y el
	// caller decide saltarse el mercado.
	FetchEnsemble(ctx context.Context, lat, lon float64, targetDate time.Time, unit domain.TempUnit) (domain.Ensemble, error)
}
