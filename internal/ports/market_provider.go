package ports

import (
	"context"

	"github.com/Flxry/weather-bot/internal/domain"
)

// MarketProvider descubre los eventos de mercados de temperatura activos.
type MarketProvider interface {
	// FetchWeatherEvents devuelve los eventos crudos que parecen mercados
	// de clima, deduplicados por id. Combina búsquedas por tag/texto y
	// paginación amplia con filtro client-side; un query fallido no tumba
	// el resto.
	FetchWeatherEvents(ctx context.Context) ([]domain.RawEvent, error)
}
