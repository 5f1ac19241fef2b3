// Package ledger owns the paper trade lifecycle: opening positions under
// portfolio constraints, monitoring exits, and bankroll accounting. It is the
// single writer of the persisted portfolio state.
package ledger

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Flxry/weather-bot/internal/domain"
	"github.com/Flxry/weather-bot/internal/ports"
)

const (
	// minTradeCost is the floor applied to every stake, in currency units.
	minTradeCost = 0.50

	// takeProfitPrice and the 50% stop-loss multiple are fixed exit
	// thresholds. The takeProfitCents / stopLossPct settings exist in the
	// recognized configuration but the exit logic has always used these
	// constants; changing that would change strategy behavior.
	takeProfitPrice    = 0.85
	stopLossEntryRatio = 0.5
)

// Ledger is the paper trading state machine. All mutations run under a
// single-writer lock and persist the whole portfolio before returning; a
// persistence failure is logged and the in-memory state carries the cycle.
type Ledger struct {
	mu    sync.Mutex
	store ports.PortfolioStorage
	pf    domain.Portfolio
}

// New loads the persisted portfolio, or initializes a fresh one when none
// exists. The settings argument (usually from config) overrides the persisted
// settings so the config file stays authoritative across restarts.
func New(ctx context.Context, store ports.PortfolioStorage, settings domain.Settings) (*Ledger, error) {
	pf, found, err := store.LoadPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		pf = domain.NewPortfolio()
	}
	pf.Settings = settings

	return &Ledger{store: store, pf: pf}, nil
}

// Open creates a trade for the given signal if the portfolio constraints
// allow it. ok=false is a business-rule rejection (bankroll, position limit,
// duplicate bucket, oversized cost), distinguishable from "no signal"; it is
// never an error.
func (l *Ledger) Open(ctx context.Context, sig domain.Signal, m domain.Market, now time.Time) (domain.Trade, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bankroll := l.pf.Bankroll()
	if bankroll <= 0 {
		slog.Warn("trade rejected: no bankroll", "bucket", sig.Label)
		return domain.Trade{}, false
	}

	open := l.pf.OpenTrades()
	if len(open) >= l.pf.Settings.MaxPositions {
		slog.Warn("trade rejected: max positions reached",
			"bucket", sig.Label, "open", len(open), "max", l.pf.Settings.MaxPositions)
		return domain.Trade{}, false
	}
	for _, t := range open {
		if t.BucketID == sig.ID {
			slog.Debug("trade rejected: position already open on bucket", "bucket", sig.Label)
			return domain.Trade{}, false
		}
	}

	price := sig.EffectivePrice
	modelProb := sig.EffectiveModelProb

	cost := domain.KellySize(modelProb, price, bankroll, l.pf.Settings.KellyFraction)
	maxCost := bankroll * l.pf.Settings.MaxPositionPct / 100
	cost = math.Min(cost, maxCost)
	cost = math.Max(cost, minTradeCost)
	if cost > bankroll {
		slog.Warn("trade rejected: cost exceeds bankroll",
			"bucket", sig.Label, "cost", cost, "bankroll", bankroll)
		return domain.Trade{}, false
	}

	// Shares are rounded down to two decimals and the cost recomputed from
	// the rounded count, so cost always matches shares*price exactly.
	shares := math.Floor(cost/price*100) / 100
	actualCost := math.Round(shares*price*100) / 100

	trade := domain.Trade{
		ID:                 l.pf.NextTradeID,
		OpenedAt:           now,
		EventTitle:         m.Title,
		City:               m.City,
		TargetDate:         m.TargetDate,
		BucketID:           sig.ID,
		BucketLabel:        sig.Label,
		Side:               sig.Side,
		EntryPrice:         price,
		Shares:             shares,
		Cost:               actualCost,
		ModelProbAtEntry:   modelProb,
		MarketPriceAtEntry: sig.YesPrice,
		EdgeAtEntry:        sig.Edge,
		ConfidenceAtEntry:  sig.Confidence,
		Status:             domain.TradeOpen,
	}

	l.pf.Trades = append(l.pf.Trades, trade)
	l.pf.NextTradeID++
	l.persist(ctx)

	slog.Info("paper trade opened",
		"id", trade.ID,
		"side", trade.Side,
		"bucket", trade.BucketLabel,
		"entry", trade.EntryPrice,
		"cost", trade.Cost,
		"confidence", trade.ConfidenceAtEntry,
	)
	return trade, true
}

// CheckExits re-evaluates every open trade belonging to the given market
// against resolution, take-profit, and stop-loss rules. Trades on markets not
// part of the current cycle are left untouched. Returns the trades closed in
// this call. Re-running on already-closed trades is a no-op.
func (l *Ledger) CheckExits(ctx context.Context, m domain.Market, now time.Time) []domain.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()

	var closed []domain.Trade
	changed := false

	for i := range l.pf.Trades {
		t := &l.pf.Trades[i]
		if t.Status != domain.TradeOpen || !t.Matches(m) {
			continue
		}
		if exit, ok := checkExit(*t, m, now); ok {
			*t = exit
			closed = append(closed, exit)
			changed = true
			slog.Info("paper trade closed",
				"id", exit.ID,
				"bucket", exit.BucketLabel,
				"reason", exit.ExitReason,
				"exit_price", exit.ExitPrice,
				"pnl", exit.PnL,
			)
		}
	}

	if changed {
		l.persist(ctx)
	}
	return closed
}

// checkExit applies the exit rules to a single open trade. Resolution is
// checked before price triggers: a resolved market settles at 1.0 or 0.0
// regardless of the last quoted price.
func checkExit(t domain.Trade, m domain.Market, now time.Time) (domain.Trade, bool) {
	if m.Resolved {
		settled, hasSettled := m.SettledBucket()
		wonYes := hasSettled && settled.ID == t.BucketID && t.Side == domain.SideYes
		wonNo := hasSettled && settled.ID != t.BucketID && t.Side == domain.SideNo

		if wonYes || wonNo {
			return closeTrade(t, 1.0, domain.ExitResolvedWin, t.Shares*1.0-t.Cost, now), true
		}
		return closeTrade(t, 0.0, domain.ExitResolvedLoss, -t.Cost, now), true
	}

	bucket, ok := m.BucketByID(t.BucketID)
	if !ok {
		// Bucket missing from this cycle's data: stale, not closed.
		return t, false
	}
	current := t.EffectivePrice(bucket.YesPrice)

	if current >= takeProfitPrice {
		pnl := math.Round((t.Shares*current-t.Cost)*100) / 100
		return closeTrade(t, current, domain.ExitTakeProfit, pnl, now), true
	}

	if current <= t.EntryPrice*stopLossEntryRatio {
		pnl := math.Round((t.Shares*current-t.Cost)*100) / 100
		return closeTrade(t, current, domain.ExitStopLoss, pnl, now), true
	}

	return t, false
}

func closeTrade(t domain.Trade, price float64, reason domain.ExitReason, pnl float64, now time.Time) domain.Trade {
	t.Status = domain.TradeClosed
	t.ExitPrice = price
	t.ExitReason = reason
	t.ExitAt = &now
	t.PnL = pnl
	return t
}

// Bankroll returns the currently available bankroll.
func (l *Ledger) Bankroll() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pf.Bankroll()
}

// Stats returns aggregate trade statistics.
func (l *Ledger) Stats() domain.TradeStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pf.Stats()
}

// Settings returns the active trading settings.
func (l *Ledger) Settings() domain.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pf.Settings
}

// Portfolio returns a copy of the full portfolio state for read-only views.
func (l *Ledger) Portfolio() domain.Portfolio {
	l.mu.Lock()
	defer l.mu.Unlock()
	pf := l.pf
	pf.Trades = append([]domain.Trade(nil), l.pf.Trades...)
	return pf
}

// UpdateSettings replaces the trading settings and persists the portfolio.
func (l *Ledger) UpdateSettings(ctx context.Context, s domain.Settings) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pf.Settings = s
	l.persist(ctx)
}

// Reset clears the whole trade history and restores default settings. This is
// an explicit user action, never done automatically.
func (l *Ledger) Reset(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pf = domain.NewPortfolio()
	l.persist(ctx)
	slog.Info("portfolio reset to defaults")
}

// persist writes the whole portfolio back. Must be called with the lock held.
func (l *Ledger) persist(ctx context.Context) {
	if l.store == nil {
		return
	}
	if err := l.store.SavePortfolio(ctx, l.pf); err != nil {
		slog.Error("portfolio persist failed, continuing with in-memory state", "err", err)
	}
}
