/*
config.go - Process configuration for the advisor

PURPOSE:
  Collects everything the binary needs at startup from three layers:
    1. an optional .env file (loaded into the process environment)
    2. ADVISOR_* environment variables
    3. an optional TOML rules file tuning the advice thresholds

  Missing .env or rules files are not errors; defaults apply.

USAGE:
  cfg, err := config.Load()
  if err != nil {
      log.Fatal(err)
  }
  adviceCfg := cfg.Rules.AdviceConfig()

SEE ALSO:
  - advice/config.go: the thresholds the rules file overrides
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/warp/finance-advisor/advice"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ADVISOR"

// Env is the environment-driven part of the configuration.
type Env struct {
	Port           int      `default:"8080"`
	DBPath         string   `envconfig:"DB_PATH" default:"finance_tracker.db"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string   `envconfig:"LOG_FORMAT" default:"text"`
	CORSOrigins    []string `envconfig:"CORS_ORIGINS" default:"*"`
	RulesFile      string   `envconfig:"RULES_FILE"`
	DigestSchedule string   `envconfig:"DIGEST_SCHEDULE"`
}

// Rules mirrors advice.Config in a TOML-friendly shape.
type Rules struct {
	Windows    WindowRules    `toml:"windows"`
	Thresholds ThresholdRules `toml:"thresholds"`
}

type WindowRules struct {
	SummaryDays   int `toml:"summary_days"`
	FrequencyDays int `toml:"frequency_days"`
}

type ThresholdRules struct {
	FrequencyCount       int     `toml:"frequency_count"`
	NearBudgetPercent    float64 `toml:"near_budget_percent"`
	OverBudgetPercent    float64 `toml:"over_budget_percent"`
	ConcentrationRatio   float64 `toml:"concentration_ratio"`
	SavingsGoalRate      float64 `toml:"savings_goal_rate"`
	SavingsExcellentRate float64 `toml:"savings_excellent_rate"`
	EmergencyFundMonths  float64 `toml:"emergency_fund_months"`
}

// Config is the fully resolved configuration.
type Config struct {
	Env
	Rules Rules
}

// DefaultRules returns the rules matching advice.DefaultConfig.
func DefaultRules() Rules {
	d := advice.DefaultConfig()
	return Rules{
		Windows: WindowRules{
			SummaryDays:   d.WindowDays,
			FrequencyDays: d.FrequencyWindowDays,
		},
		Thresholds: ThresholdRules{
			FrequencyCount:       d.FrequencyThreshold,
			NearBudgetPercent:    d.NearBudgetPercent.InexactFloat64(),
			OverBudgetPercent:    d.OverBudgetPercent.InexactFloat64(),
			ConcentrationRatio:   d.ConcentrationRatio.InexactFloat64(),
			SavingsGoalRate:      d.SavingsGoalRate.InexactFloat64(),
			SavingsExcellentRate: d.SavingsExcellentRate.InexactFloat64(),
			EmergencyFundMonths:  d.EmergencyFundMonths.InexactFloat64(),
		},
	}
}

// AdviceConfig converts the rules into the engine's config.
func (r Rules) AdviceConfig() advice.Config {
	return advice.Config{
		WindowDays:           r.Windows.SummaryDays,
		FrequencyWindowDays:  r.Windows.FrequencyDays,
		FrequencyThreshold:   r.Thresholds.FrequencyCount,
		NearBudgetPercent:    decimal.NewFromFloat(r.Thresholds.NearBudgetPercent),
		OverBudgetPercent:    decimal.NewFromFloat(r.Thresholds.OverBudgetPercent),
		ConcentrationRatio:   decimal.NewFromFloat(r.Thresholds.ConcentrationRatio),
		SavingsGoalRate:      decimal.NewFromFloat(r.Thresholds.SavingsGoalRate),
		SavingsExcellentRate: decimal.NewFromFloat(r.Thresholds.SavingsExcellentRate),
		EmergencyFundMonths:  decimal.NewFromFloat(r.Thresholds.EmergencyFundMonths),
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads .env, the environment and the rules file, then validates.
func Load() (Config, error) {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg.Env); err != nil {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}

	rules, err := LoadRules(cfg.RulesFile)
	if err != nil {
		return cfg, err
	}
	cfg.Rules = rules

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadRules decodes path over DefaultRules. Keys absent from the file keep
// their defaults. An empty path or a missing file returns the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rules, nil
		}
		return rules, fmt.Errorf("reading rules file: %w", err)
	}
	if err := toml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	return rules, nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate reports every problem at once rather than stopping at the first.
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db path is empty"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format %q (want text or json)", c.LogFormat))
	}
	if c.Rules.Thresholds.FrequencyCount < 0 {
		errs = append(errs, fmt.Errorf("frequency_count must not be negative, got %d", c.Rules.Thresholds.FrequencyCount))
	}
	if err := c.Rules.AdviceConfig().Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// NewLogger builds the process logger from the level and format settings.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
