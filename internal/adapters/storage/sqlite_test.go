package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flxry/weather-bot/internal/adapters/storage"
	"github.com/Flxry/weather-bot/internal/domain"
)

func makeTrade(id int64, status domain.TradeStatus) domain.Trade {
	opened := time.Date(2026, time.March, 14, 18, 30, 0, 0, time.UTC)
	t := domain.Trade{
		ID:                 id,
		OpenedAt:           opened,
		EventTitle:         "Highest temperature in Chicago on March 15?",
		City:               "chicago",
		TargetDate:         time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		BucketID:           "tok-123",
		BucketLabel:        "75-76",
		Side:               domain.SideYes,
		EntryPrice:         0.22,
		Shares:             10.5,
		Cost:               2.31,
		ModelProbAtEntry:   0.34,
		MarketPriceAtEntry: 0.22,
		EdgeAtEntry:        0.12,
		ConfidenceAtEntry:  domain.ConfidenceHigh,
		Status:             status,
	}
	if status == domain.TradeClosed {
		exitAt := opened.Add(6 * time.Hour)
		t.ExitPrice = 0.90
		t.ExitReason = domain.ExitTakeProfit
		t.ExitAt = &exitAt
		t.PnL = 7.14
	}
	return t
}

func TestSQLiteStorage_FirstLoadNotFound(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, found, err := db.LoadPortfolio(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteStorage_SaveAndLoadRoundTrip(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	pf := domain.NewPortfolio()
	pf.Settings.MinEdge = 7
	pf.Settings.AutoTrade = true
	pf.NextTradeID = 3
	pf.Trades = []domain.Trade{
		makeTrade(1, domain.TradeClosed),
		makeTrade(2, domain.TradeOpen),
	}

	require.NoError(t, db.SavePortfolio(context.Background(), pf))

	loaded, found, err := db.LoadPortfolio(context.Background())
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, int64(3), loaded.NextTradeID)
	assert.Equal(t, 7.0, loaded.Settings.MinEdge)
	assert.True(t, loaded.Settings.AutoTrade)
	require.Len(t, loaded.Trades, 2)

	closed := loaded.Trades[0]
	assert.Equal(t, int64(1), closed.ID)
	assert.Equal(t, "chicago", closed.City)
	assert.Equal(t, "tok-123", closed.BucketID)
	assert.Equal(t, domain.SideYes, closed.Side)
	assert.Equal(t, domain.TradeClosed, closed.Status)
	assert.Equal(t, domain.ExitTakeProfit, closed.ExitReason)
	assert.Equal(t, 7.14, closed.PnL)
	require.NotNil(t, closed.ExitAt)
	assert.True(t, closed.TargetDate.Equal(pf.Trades[0].TargetDate))

	open := loaded.Trades[1]
	assert.Equal(t, domain.TradeOpen, open.Status)
	assert.Nil(t, open.ExitAt)
	assert.Equal(t, domain.ConfidenceHigh, open.ConfidenceAtEntry)
}

func TestSQLiteStorage_SaveRewritesWholeState(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	pf := domain.NewPortfolio()
	pf.Trades = []domain.Trade{
		makeTrade(1, domain.TradeOpen),
		makeTrade(2, domain.TradeOpen),
	}
	require.NoError(t, db.SavePortfolio(context.Background(), pf))

	// un save posterior con menos trades deja exactamente ese estado
	pf.Trades = pf.Trades[:1]
	require.NoError(t, db.SavePortfolio(context.Background(), pf))

	loaded, found, err := db.LoadPortfolio(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, loaded.Trades, 1)
}

func TestSQLiteStorage_SaveCycle(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	c := domain.CycleSummary{
		ID:            "cycle-1",
		ScannedAt:     time.Now().UTC(),
		Markets:       12,
		ActiveMarkets: 9,
		Signals:       3,
		TradesOpened:  1,
		TradesClosed:  2,
		Duration:      4 * time.Second,
	}
	require.NoError(t, db.SaveCycle(context.Background(), c))
}
