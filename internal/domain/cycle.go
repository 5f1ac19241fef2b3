package domain

import "time"

// CycleSummary es el resumen ligero de un ciclo de scan, persistido como
// histórico de operación.
type CycleSummary struct {
	ID            string // UUID del ciclo, presente también en los logs
	ScannedAt     time.Time
	Markets       int
	ActiveMarkets int
	Signals       int
	TradesOpened  int
	TradesClosed  int
	Duration      time.Duration
}
