package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Flxry/weather-bot/internal/domain"
)

// Config es la configuración completa del scanner.
type Config struct {
	Scanner ScannerConfig `yaml:"scanner"`
	Trading TradingConfig `yaml:"trading"`
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ScannerConfig controla el comportamiento del loop de escaneo.
type ScannerConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	MaxMarkets      int `yaml:"max_markets"`
	MarketDelayMs   int `yaml:"market_delay_ms"`
}

// TradingConfig contiene los parámetros de la estrategia. Cualquier campo
// en cero toma el default de domain.DefaultSettings.
type TradingConfig struct {
	Bankroll                float64 `yaml:"bankroll"`
	MinEdge                 float64 `yaml:"min_edge"`
	SpreadInflation         float64 `yaml:"spread_inflation"`
	BiasCorrection          float64 `yaml:"bias_correction"`
	MaxPositions            int     `yaml:"max_positions"`
	MaxPositionPct          float64 `yaml:"max_position_pct"`
	AutoTrade               bool    `yaml:"auto_trade"`
	TakeProfitCents         int     `yaml:"take_profit_cents"`
	StopLossPct             float64 `yaml:"stop_loss_pct"`
	ModelAgreementThreshold float64 `yaml:"model_agreement_threshold"`
	MaxEntryPrice           float64 `yaml:"max_entry_price"`
	KellyFraction           float64 `yaml:"kelly_fraction"`
}

// APIConfig contiene los base URLs de las APIs externas.
type APIConfig struct {
	GammaBase     string `yaml:"gamma_base"`
	OpenMeteoBase string `yaml:"open_meteo_base"`
}

// StorageConfig controla dónde se persiste el estado.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del entorno sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// ScanInterval devuelve el intervalo de escaneo como time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Scanner.IntervalSeconds) * time.Second
}

// MarketDelay devuelve la pausa entre mercados como time.Duration.
func (c *Config) MarketDelay() time.Duration {
	return time.Duration(c.Scanner.MarketDelayMs) * time.Millisecond
}

// Settings convierte la sección de trading en los Settings del dominio.
// Los campos sin valor en el YAML ya traen defaults de setDefaults.
func (c *Config) Settings() domain.Settings {
	return domain.Settings{
		Bankroll:                c.Trading.Bankroll,
		MinEdge:                 c.Trading.MinEdge,
		SpreadInflation:         c.Trading.SpreadInflation,
		BiasCorrection:          c.Trading.BiasCorrection,
		MaxPositions:            c.Trading.MaxPositions,
		MaxPositionPct:          c.Trading.MaxPositionPct,
		AutoTrade:               c.Trading.AutoTrade,
		ScanIntervalSeconds:     c.Scanner.IntervalSeconds,
		TakeProfitCents:         c.Trading.TakeProfitCents,
		StopLossPct:             c.Trading.StopLossPct,
		ModelAgreementThreshold: c.Trading.ModelAgreementThreshold,
		MaxEntryPrice:           c.Trading.MaxEntryPrice,
		KellyFraction:           c.Trading.KellyFraction,
	}
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("AUTO_TRADE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Trading.AutoTrade = b
		}
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
// Los defaults de trading son los de domain.DefaultSettings.
func setDefaults(cfg *Config) {
	def := domain.DefaultSettings()

	if cfg.Scanner.IntervalSeconds <= 0 {
		cfg.Scanner.IntervalSeconds = def.ScanIntervalSeconds
	}
	if cfg.Scanner.MaxMarkets <= 0 {
		cfg.Scanner.MaxMarkets = 15
	}
	if cfg.Scanner.MarketDelayMs <= 0 {
		cfg.Scanner.MarketDelayMs = 300
	}

	if cfg.Trading.Bankroll <= 0 {
		cfg.Trading.Bankroll = def.Bankroll
	}
	if cfg.Trading.MinEdge <= 0 {
		cfg.Trading.MinEdge = def.MinEdge
	}
	if cfg.Trading.SpreadInflation <= 0 {
		cfg.Trading.SpreadInflation = def.SpreadInflation
	}
	if cfg.Trading.MaxPositions <= 0 {
		cfg.Trading.MaxPositions = def.MaxPositions
	}
	if cfg.Trading.MaxPositionPct <= 0 {
		cfg.Trading.MaxPositionPct = def.MaxPositionPct
	}
	if cfg.Trading.TakeProfitCents <= 0 {
		cfg.Trading.TakeProfitCents = def.TakeProfitCents
	}
	if cfg.Trading.StopLossPct <= 0 {
		cfg.Trading.StopLossPct = def.StopLossPct
	}
	if cfg.Trading.ModelAgreementThreshold <= 0 {
		cfg.Trading.ModelAgreementThreshold = def.ModelAgreementThreshold
	}
	if cfg.Trading.MaxEntryPrice <= 0 {
		cfg.Trading.MaxEntryPrice = def.MaxEntryPrice
	}
	if cfg.Trading.KellyFraction <= 0 {
		cfg.Trading.KellyFraction = def.KellyFraction
	}

	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "weatherbot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
