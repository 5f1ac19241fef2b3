package domain

import (
	"math"
	"time"
)

// TradeStatus is the lifecycle state of a paper trade. OPEN → CLOSED,
// terminal, no reopen.
type TradeStatus string

const (
	TradeOpen   TradeStatus = "OPEN"
	TradeClosed TradeStatus = "CLOSED"
)

// ExitReason records why a trade was closed.
type ExitReason string

const (
	ExitResolvedWin  ExitReason = "RESOLVED_WIN"
	ExitResolvedLoss ExitReason = "RESOLVED_LOSS"
	ExitTakeProfit   ExitReason = "TAKE_PROFIT"
	ExitStopLoss     ExitReason = "STOP_LOSS"
)

// Trade is a simulated position. Created only by the ledger's open operation,
// mutated only by its exit checks, never deleted — history is append-only.
type Trade struct {
	ID         int64
	OpenedAt   time.Time
	EventTitle string
	City       string
	TargetDate time.Time

	BucketID    string
	BucketLabel string
	Side        Side

	EntryPrice float64
	Shares     float64
	Cost       float64

	ModelProbAtEntry   float64
	MarketPriceAtEntry float64 // raw YES price at entry, both sides
	EdgeAtEntry        float64
	ConfidenceAtEntry  Confidence

	Status     TradeStatus
	ExitPrice  float64
	ExitReason ExitReason
	ExitAt     *time.Time
	PnL        float64
}

// EffectivePrice returns the cost per share of the trade's side given the
// bucket's current YES price.
func (t Trade) EffectivePrice(yesPrice float64) float64 {
	if t.Side == SideYes {
		return yesPrice
	}
	return 1 - yesPrice
}

// Matches reports whether the trade belongs to the given market.
func (t Trade) Matches(m Market) bool {
	return t.City == m.City && !t.TargetDate.IsZero() &&
		t.TargetDate.Equal(m.TargetDate)
}

// Portfolio is the unit of persistence: full trade history, trading settings
// and the next trade id. Loaded once at startup, rewritten after every
// mutation.
type Portfolio struct {
	Trades      []Trade
	Settings    Settings
	NextTradeID int64
}

// NewPortfolio returns the initial state used when no persisted state exists.
func NewPortfolio() Portfolio {
	return Portfolio{Settings: DefaultSettings(), NextTradeID: 1}
}

// OpenTrades returns the currently open positions.
func (p Portfolio) OpenTrades() []Trade {
	var open []Trade
	for _, t := range p.Trades {
		if t.Status == TradeOpen {
			open = append(open, t)
		}
	}
	return open
}

// Bankroll recomputes the available bankroll from the full trade history:
// starting bankroll plus realized pnl minus open cost. Recomputing instead of
// tracking incrementally lets the number self-heal after persistence
// corruption.
func (p Portfolio) Bankroll() float64 {
	bankroll := p.Settings.Bankroll
	for _, t := range p.Trades {
		switch t.Status {
		case TradeOpen:
			bankroll -= t.Cost
		case TradeClosed:
			bankroll += t.PnL
		}
	}
	return roundCents(bankroll)
}

// TradeStats summarizes ledger performance for the read-only views.
type TradeStats struct {
	ClosedTrades  int
	Wins          int
	Losses        int
	WinRate       float64 // percent; NaN-free, 0 with no closed trades
	TotalPnL      float64
	OpenPositions int
	OpenCost      float64
	AvgWin        float64
	AvgLoss       float64
}

// Stats computes win/loss statistics over the trade history.
func (p Portfolio) Stats() TradeStats {
	var s TradeStats
	var winSum, lossSum float64
	for _, t := range p.Trades {
		switch t.Status {
		case TradeOpen:
			s.OpenPositions++
			s.OpenCost += t.Cost
		case TradeClosed:
			s.ClosedTrades++
			s.TotalPnL += t.PnL
			if t.PnL > 0 {
				s.Wins++
				winSum += t.PnL
			} else {
				s.Losses++
				lossSum += t.PnL
			}
		}
	}
	if s.ClosedTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.ClosedTrades) * 100
	}
	if s.Wins > 0 {
		s.AvgWin = roundCents(winSum / float64(s.Wins))
	}
	if s.Losses > 0 {
		s.AvgLoss = roundCents(lossSum / float64(s.Losses))
	}
	s.TotalPnL = roundCents(s.TotalPnL)
	s.OpenCost = roundCents(s.OpenCost)
	return s
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
