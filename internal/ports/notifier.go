package ports

import (
	"context"

	"github.com/Flxry/weather-bot/internal/domain"
)

// Notifier presenta el resultado de un ciclo al usuario.
type Notifier interface {
	// Notify muestra los mercados escaneados, las señales rankeadas y el
	// estado del portfolio. Solo lee; nunca muta el estado.
	Notify(ctx context.Context, markets []domain.Market, signals []domain.Signal, pf domain.Portfolio) error
}
