package ports

import (
	"context"

	"github.com/Flxry/weather-bot/internal/domain"
)

// PortfolioStorage persiste el estado del paper trading como unidad completa.
type PortfolioStorage interface {
	// LoadPortfolio carga el estado persistido. found=false si nunca se
	// guardó nada (primer arranque).
	LoadPortfolio(ctx context.Context) (pf domain.Portfolio, found bool, err error)

	// SavePortfolio reescribe el estado completo de forma atómica.
	SavePortfolio(ctx context.Context, pf domain.Portfolio) error

	// SaveCycle registra el resumen de un ciclo de scan.
	SaveCycle(ctx context.Context, c domain.CycleSummary) error

	// Close cierra la conexión limpiamente.
	Close() error
}
