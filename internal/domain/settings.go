package domain

// Settings son los parámetros de trading. Viajan con el Portfolio (se
// persisten como unidad) y son reseteables en bloque a los defaults.
type Settings struct {
	Bankroll                float64 `json:"bankroll"`
	MinEdge                 float64 `json:"minEdge"`          // puntos porcentuales
	SpreadInflation         float64 `json:"spreadInflation"`  // multiplicador sobre la std del ensemble
	BiasCorrection          float64 `json:"biasCorrection"`   // ajuste aditivo de la media, para calibración
	MaxPositions            int     `json:"maxPositions"`
	MaxPositionPct          float64 `json:"maxPositionPct"`   // % del bankroll por posición
	AutoTrade               bool    `json:"autoTrade"`
	ScanIntervalSeconds     int     `json:"scanInterval"`
	TakeProfitCents         int     `json:"takeProfitCents"`
	StopLossPct             float64 `json:"stopLossPct"`
	ModelAgreementThreshold float64 `json:"modelAgreementThreshold"` // grados
	MaxEntryPrice           float64 `json:"maxEntryPrice"`           // centavos
	KellyFraction           float64 `json:"kellyFraction"`
}

// DefaultSettings devuelve los valores por defecto de la estrategia.
func DefaultSettings() Settings {
	return Settings{
		Bankroll:                100,
		MinEdge:                 5,
		SpreadInflation:         1.3,
		BiasCorrection:          0,
		MaxPositions:            5,
		MaxPositionPct:          10,
		AutoTrade:               false,
		ScanIntervalSeconds:     300,
		TakeProfitCents:         85,
		StopLossPct:             50,
		ModelAgreementThreshold: 3,
		MaxEntryPrice:           25,
		KellyFraction:           0.25,
	}
}
