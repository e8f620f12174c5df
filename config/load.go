package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"auto-trader-go/infrastructure/logger"
)

// AppConfig holds the main runtime configuration.
// Trading constants are fixed at startup and never reloaded;
// only the logging level may change at runtime (see Watcher).
type AppConfig struct {
	Env        string           `yaml:"env"`
	Instrument InstrumentConfig `yaml:"instrument"`
	Strategy   StrategyConfig   `yaml:"strategy"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Logging    logger.Config    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Journal    JournalConfig    `yaml:"journal"`
}

// InstrumentConfig 交易品种常量（来自交易所规格）。
type InstrumentConfig struct {
	Symbol        string `yaml:"symbol"`
	TickSize      int64  `yaml:"tickSize"`      // 分
	MinPrice      int64  `yaml:"minPrice"`      // 分
	MaxPrice      int64  `yaml:"maxPrice"`      // 分
	LotSize       int64  `yaml:"lotSize"`       // 手
	PositionLimit int64  `yaml:"positionLimit"` // 净仓位上限
}

// StrategyConfig names the policy axes of the quoting strategy.
type StrategyConfig struct {
	Lifespan      string `yaml:"lifespan"`      // fill_and_kill | good_for_day
	Sizing        string `yaml:"sizing"`        // fixed_lot | depth_aware
	QuoteCap      int64  `yaml:"quoteCap"`      // depth_aware 的单笔上限
	LadderDepth   int    `yaml:"ladderDepth"`   // spread 取第 k 档
	TrendAdjust   bool   `yaml:"trendAdjust"`   // 是否叠加趋势项
	OnLimitBreach string `yaml:"onLimitBreach"` // cancel | clamp
}

type GatewayConfig struct {
	Endpoint string `yaml:"endpoint"`
	Name     string `yaml:"name"`
	Secret   string `yaml:"secret"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // 留空则不启动
}

type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	cfg := AppConfig{Logging: logger.DefaultConfig()}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides sensitive fields from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("AT_GATEWAY_NAME"); v != "" {
		cfg.Gateway.Name = v
	}
	if v := os.Getenv("AT_GATEWAY_SECRET"); v != "" {
		cfg.Gateway.Secret = v
	}
	return cfg, Validate(cfg)
}

// Validate ensures required fields are present and consistent.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	ins := cfg.Instrument
	if ins.Symbol == "" {
		return errors.New("instrument.symbol is required")
	}
	if ins.TickSize <= 0 {
		return fmt.Errorf("instrument.tickSize must be > 0, got %d", ins.TickSize)
	}
	if ins.MinPrice <= 0 || ins.MaxPrice <= ins.MinPrice {
		return fmt.Errorf("instrument price range [%d, %d] is invalid", ins.MinPrice, ins.MaxPrice)
	}
	if ins.LotSize <= 0 {
		return fmt.Errorf("instrument.lotSize must be > 0, got %d", ins.LotSize)
	}
	if ins.PositionLimit <= 0 {
		return fmt.Errorf("instrument.positionLimit must be > 0, got %d", ins.PositionLimit)
	}
	st := cfg.Strategy
	switch st.Lifespan {
	case "fill_and_kill", "good_for_day":
	default:
		return fmt.Errorf("strategy.lifespan %q is not one of fill_and_kill, good_for_day", st.Lifespan)
	}
	switch st.Sizing {
	case "fixed_lot":
	case "depth_aware":
		if st.QuoteCap <= 0 {
			return errors.New("strategy.quoteCap must be > 0 for depth_aware sizing")
		}
	default:
		return fmt.Errorf("strategy.sizing %q is not one of fixed_lot, depth_aware", st.Sizing)
	}
	if st.LadderDepth < 0 {
		return fmt.Errorf("strategy.ladderDepth must be >= 0, got %d", st.LadderDepth)
	}
	switch st.OnLimitBreach {
	case "cancel", "clamp":
	default:
		return fmt.Errorf("strategy.onLimitBreach %q is not one of cancel, clamp", st.OnLimitBreach)
	}
	if cfg.Gateway.Endpoint == "" {
		return errors.New("gateway.endpoint is required")
	}
	if cfg.Gateway.Name == "" || cfg.Gateway.Secret == "" {
		return errors.New("gateway.name/secret is required (or env overrides)")
	}
	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		return errors.New("journal.path is required when journal is enabled")
	}
	return nil
}
