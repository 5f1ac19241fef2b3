package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Flxry/weather-bot/internal/domain"
	"github.com/Flxry/weather-bot/internal/ledger"
	"github.com/Flxry/weather-bot/internal/ports"
)

// Config contiene la configuración del loop de escaneo.
type Config struct {
	ScanInterval time.Duration
	// MaxMarkets limita cuántos mercados se analizan por ciclo para
	// respetar los límites del API de forecast.
	MaxMarkets int
	// MarketDelay es la pausa deliberada entre mercados — throttle, no retry.
	MarketDelay time.Duration
	Once        bool
}

// DefaultConfig devuelve una configuración sensata para producción.
func DefaultConfig() Config {
	return Config{
		ScanInterval: 5 * time.Minute,
		MaxMarkets:   15,
		MarketDelay:  300 * time.Millisecond,
	}
}

// Scanner es el orquestador del ciclo: descubre mercados, los analiza y
// alimenta el ledger.
type Scanner struct {
	cfg      Config
	markets  ports.MarketProvider
	analyzer *Analyzer
	ledger   *ledger.Ledger
	storage  ports.PortfolioStorage
	notifier ports.Notifier
}

// New crea un Scanner con todas las dependencias inyectadas.
func New(
	cfg Config,
	markets ports.MarketProvider,
	forecast ports.ForecastProvider,
	lg *ledger.Ledger,
	storage ports.PortfolioStorage,
	notifier ports.Notifier,
) *Scanner {
	if cfg.MaxMarkets <= 0 {
		cfg.MaxMarkets = 15
	}
	return &Scanner{
		cfg:      cfg,
		markets:  markets,
		analyzer: NewAnalyzer(forecast),
		ledger:   lg,
		storage:  storage,
		notifier: notifier,
	}
}

// Run ejecuta el loop de escaneo hasta que el contexto se cancele. Con
// cfg.Once activo ejecuta exactamente un ciclo.
func (s *Scanner) Run(ctx context.Context) error {
	slog.Info("scanner starting",
		"interval", s.cfg.ScanInterval,
		"max_markets", s.cfg.MaxMarkets,
		"once", s.cfg.Once,
	)

	if err := s.runCycle(ctx); err != nil {
		slog.Error("scan cycle failed", "err", err)
		if s.cfg.Once {
			return err
		}
	}
	if s.cfg.Once {
		return nil
	}

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scanner stopped")
			return nil
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				// Fallo top-level del ciclo, distinto de los fallos
				// por-mercado que se absorben dentro de cycle().
				slog.Error("scan cycle failed", "err", err)
			}
		}
	}
}

// CycleResult es lo producido por un ciclo completo.
type CycleResult struct {
	Markets      []domain.Market
	Signals      []domain.Signal
	TradesOpened int
	TradesClosed int
}

// runCycle ejecuta un ciclo, notifica y persiste el resumen.
func (s *Scanner) runCycle(ctx context.Context) error {
	start := time.Now()
	cycleID := uuid.NewString()
	log := slog.With("cycle_id", cycleID)

	res, err := s.cycle(ctx, log)
	if err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, res.Markets, res.Signals, s.ledger.Portfolio()); err != nil {
			log.Warn("notifier error", "err", err)
		}
	}

	active := 0
	for _, m := range res.Markets {
		if !m.Resolved {
			active++
		}
	}
	if s.storage != nil {
		summary := domain.CycleSummary{
			ID:            cycleID,
			ScannedAt:     start.UTC(),
			Markets:       len(res.Markets),
			ActiveMarkets: active,
			Signals:       len(res.Signals),
			TradesOpened:  res.TradesOpened,
			TradesClosed:  res.TradesClosed,
			Duration:      time.Since(start),
		}
		if err := s.storage.SaveCycle(ctx, summary); err != nil {
			log.Warn("cycle history error", "err", err)
		}
	}

	log.Info("scan cycle complete",
		"markets", len(res.Markets),
		"active", active,
		"signals", len(res.Signals),
		"opened", res.TradesOpened,
		"closed", res.TradesClosed,
		"bankroll", s.ledger.Bankroll(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// RunOnce ejecuta exactamente un ciclo y devuelve su resultado.
func (s *Scanner) RunOnce(ctx context.Context) (CycleResult, error) {
	return s.cycle(ctx, slog.Default())
}

// cycle hace discover → normalize → analyze → trade/exits. Es idempotente:
// con datos upstream sin cambios produce los mismos Markets, señales y
// decisiones de salida.
func (s *Scanner) cycle(ctx context.Context, log *slog.Logger) (CycleResult, error) {
	var res CycleResult

	events, err := s.markets.FetchWeatherEvents(ctx)
	if err != nil {
		return res, fmt.Errorf("scanner.cycle: fetch events: %w", err)
	}

	now := time.Now().UTC()
	settings := s.ledger.Settings()

	for _, ev := range events {
		if m, ok := Normalize(ev, now); ok {
			res.Markets = append(res.Markets, m)
		}
	}
	log.Info("markets normalized", "events", len(events), "markets", len(res.Markets))

	analyzed := 0
	for i, m := range res.Markets {
		if !m.Analyzable() {
			continue
		}
		if analyzed >= s.cfg.MaxMarkets {
			break
		}
		analyzed++

		analysis, err := s.analyzer.Analyze(ctx, m, settings)
		if err != nil {
			// Un mercado fallido nunca aborta el ciclo de los demás.
			log.Warn("market analysis skipped", "city", m.City, "date", m.DateString(), "err", err)
			continue
		}

		// El mercado con probabilidades anotadas sustituye al normalizado.
		res.Markets[i] = analysis.Market
		res.Signals = append(res.Signals, analysis.Signals...)

		if settings.AutoTrade {
			for _, sig := range analysis.Signals {
				if sig.Confidence == domain.ConfidenceLow {
					continue
				}
				if _, ok := s.ledger.Open(ctx, sig, analysis.Market, now); ok {
					res.TradesOpened++
				}
			}
		}

		// Exit checks contra los buckets recién normalizados; los trades
		// de mercados fuera de este ciclo quedan intactos.
		res.TradesClosed += len(s.ledger.CheckExits(ctx, analysis.Market, now))

		s.throttle(ctx)
	}

	sortSignals(res.Signals)
	return res, nil
}

// sortSignals ordena las señales de todos los mercados por fuerza de edge,
// de mayor a menor, para que el notificador muestre primero las mejores.
func sortSignals(signals []domain.Signal) {
	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].EdgeStrength > signals[j].EdgeStrength
	})
}

// throttle impone la pausa entre mercados respetando la cancelación.
func (s *Scanner) throttle(ctx context.Context) {
	if s.cfg.MarketDelay <= 0 {
		return
	}
	select {
	case <-time.After(s.cfg.MarketDelay):
	case <-ctx.Done():
	}
}
