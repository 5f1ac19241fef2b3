package notify_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flxry/weather-bot/internal/adapters/notify"
	"github.com/Flxry/weather-bot/internal/domain"
)

var marchDate = time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

func makeSignal(bucketID string, strength float64, conf domain.Confidence) domain.Signal {
	return domain.Signal{
		Bucket: domain.Bucket{
			ID:       bucketID,
			Label:    "75-76",
			Active:   true,
			YesPrice: 0.20,
		},
		Side:               domain.SideYes,
		Edge:               strength / 100,
		RelEdge:            strength / 0.20,
		EffectivePrice:     0.20,
		EffectiveModelProb: 0.20 + strength/100,
		EdgeStrength:       strength,
		Confidence:         conf,
		ModelsAgree:        true,
	}
}

func makeMarket(bucketIDs ...string) domain.Market {
	m := domain.Market{
		City:       "chicago",
		Title:      "Highest temperature in Chicago on March 15?",
		TargetDate: marchDate,
	}
	for _, id := range bucketIDs {
		m.Buckets = append(m.Buckets, domain.Bucket{ID: id, Label: "75-76", Active: true, YesPrice: 0.20})
	}
	return m
}

func TestConsole_NoSignals(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	err := n.Notify(context.Background(), []domain.Market{makeMarket("b1")}, nil, domain.NewPortfolio())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no edges found")
}

func TestConsole_CompactMode(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	signals := []domain.Signal{
		makeSignal("b1", 25, domain.ConfidenceHigh),
		makeSignal("b2", 10, domain.ConfidenceMed),
	}
	err := n.Notify(context.Background(), []domain.Market{makeMarket("b1", "b2")}, signals, domain.NewPortfolio())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "H:1 M:1 L:0")
	assert.Contains(t, out, "chicago")
	assert.Contains(t, out, "YES")
	assert.Contains(t, out, "bank $100.00")
}

func TestConsole_TableMode(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	pf := domain.NewPortfolio()
	pf.Trades = []domain.Trade{
		{
			ID: 1, Status: domain.TradeOpen, City: "chicago", TargetDate: marchDate,
			BucketLabel: "75-76", Side: domain.SideYes, EntryPrice: 0.20,
			Shares: 10, Cost: 2, OpenedAt: marchDate,
		},
		{
			ID: 2, Status: domain.TradeClosed, City: "miami", TargetDate: marchDate,
			BucketLabel: "82+", Side: domain.SideNo, EntryPrice: 0.60,
			ExitPrice: 0.90, ExitReason: domain.ExitTakeProfit, PnL: 3.5,
		},
	}

	signals := []domain.Signal{makeSignal("b1", 25, domain.ConfidenceHigh)}
	err := n.Notify(context.Background(), []domain.Market{makeMarket("b1")}, signals, pf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "75-76")
	assert.Contains(t, out, "PORTFOLIO")
	assert.Contains(t, out, "chicago")
	// estadísticas de trades cerrados
	assert.Contains(t, out, "W/L: 1/0")
	// la leyenda describe la regla real: MED = acuerdo de modelos O edge fuerte
	assert.Contains(t, out, "[M] una de las dos")
}

func TestConsole_PrintHistory(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	pf := domain.NewPortfolio()
	pf.Trades = []domain.Trade{
		{
			ID: 1, Status: domain.TradeClosed, City: "chicago", TargetDate: marchDate,
			BucketLabel: "75-76", Side: domain.SideYes, EntryPrice: 0.20,
			ExitPrice: 0.10, ExitReason: domain.ExitStopLoss, PnL: -1.0,
		},
	}

	n.PrintHistory(pf)
	out := buf.String()
	assert.Contains(t, out, "TRADE HISTORY")
	assert.Contains(t, out, "STOP_LOSS")
	assert.Contains(t, out, "chicago")
}

func TestConsole_PrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	n.PrintHistory(domain.NewPortfolio())
	assert.Contains(t, buf.String(), "No closed trades yet")
}
