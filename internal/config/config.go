package config

import (
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/danielSanchezQ/catalyst-toolbox/internal/fetcher"
	"github.com/danielSanchezQ/catalyst-toolbox/internal/rewards"
)

// Config holds the full application configuration.
type Config struct {
	Rewards RewardsConfig `yaml:"rewards" mapstructure:"rewards"`
	Input   InputConfig   `yaml:"input" mapstructure:"input"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// RewardsConfig configures the community advisor reward round.
type RewardsConfig struct {
	TotalFunds     string `yaml:"total_funds" mapstructure:"total_funds"`
	ProposalRatio  uint8  `yaml:"proposal_ratio" mapstructure:"proposal_ratio"`
	BonusRatio     uint8  `yaml:"bonus_ratio" mapstructure:"bonus_ratio"`
	ExcellentSlots uint64 `yaml:"excellent_slots" mapstructure:"excellent_slots"`
	GoodSlots      uint64 `yaml:"good_slots" mapstructure:"good_slots"`
	FilledSlots    uint64 `yaml:"filled_slots" mapstructure:"filled_slots"`
	Seed           uint64 `yaml:"seed" mapstructure:"seed"` // 0 = draw one per run
	Workers        int    `yaml:"workers" mapstructure:"workers"`
}

// InputConfig describes the review and approval exports.
type InputConfig struct {
	Sheets         []string `yaml:"sheets" mapstructure:"sheets"`
	ApprovedColumn string   `yaml:"approved_column" mapstructure:"approved_column"`
	CSVDelimiter   string   `yaml:"csv_delimiter" mapstructure:"csv_delimiter"`
	CSVComment     string   `yaml:"csv_comment" mapstructure:"csv_comment"` // empty = no comments
}

// OutputConfig configures the rewards report.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CATALYST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	slots := rewards.DefaultProposalRewardSlots()
	v.SetDefault("rewards.total_funds", "0")
	v.SetDefault("rewards.proposal_ratio", 80)
	v.SetDefault("rewards.bonus_ratio", 20)
	v.SetDefault("rewards.excellent_slots", slots.ExcellentSlots)
	v.SetDefault("rewards.good_slots", slots.GoodSlots)
	v.SetDefault("rewards.filled_slots", slots.FilledSlots)
	v.SetDefault("rewards.seed", 0)
	v.SetDefault("rewards.workers", 4)
	v.SetDefault("input.sheets", []string{"Valid Assessments"})
	v.SetDefault("input.approved_column", "proposal_id")
	v.SetDefault("input.csv_delimiter", ",")
	v.SetDefault("input.csv_comment", "")
	v.SetDefault("output.format", "csv")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. Every problem is reported,
// not just the first.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "rewards":
		total, err := decimal.NewFromString(c.Rewards.TotalFunds)
		switch {
		case c.Rewards.TotalFunds == "" || c.Rewards.TotalFunds == "0":
			problems = append(problems, "rewards.total_funds is required")
		case err != nil:
			problems = append(problems, "rewards.total_funds must be a decimal number")
		case !total.IsPositive():
			problems = append(problems, "rewards.total_funds must be positive")
		}
		if c.Rewards.ProposalRatio > 100 || c.Rewards.BonusRatio > 100 ||
			int(c.Rewards.ProposalRatio)+int(c.Rewards.BonusRatio) > 100 {
			problems = append(problems, "rewards.proposal_ratio and rewards.bonus_ratio must add up to at most 100")
		}
		if c.Rewards.FilledSlots == 0 {
			problems = append(problems, "rewards.filled_slots must be greater than zero")
		}
		if c.Rewards.Workers < 1 {
			problems = append(problems, "rewards.workers must be at least 1")
		}
		if len(c.Input.Sheets) == 0 {
			problems = append(problems, "input.sheets needs at least one sheet name")
		}
		if utf8.RuneCountInString(c.Input.CSVDelimiter) != 1 || strings.ContainsAny(c.Input.CSVDelimiter, "\"\r\n") {
			problems = append(problems, "input.csv_delimiter must be a single character other than a quote or newline")
		}
		if utf8.RuneCountInString(c.Input.CSVComment) > 1 || c.Input.CSVComment == c.Input.CSVDelimiter {
			problems = append(problems, "input.csv_comment must be empty or a single character different from the delimiter")
		}
		if c.Output.Format != "csv" && c.Output.Format != "table" {
			problems = append(problems, "output.format must be csv or table")
		}
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// FundSetting converts the rewards section for the engine. Call Validate first.
func (c *Config) FundSetting() (rewards.FundSetting, error) {
	total, err := rewards.ParseFunds(c.Rewards.TotalFunds)
	if err != nil {
		return rewards.FundSetting{}, eris.Wrap(err, "config: rewards.total_funds")
	}
	return rewards.FundSetting{
		Total:         total,
		ProposalRatio: c.Rewards.ProposalRatio,
		BonusRatio:    c.Rewards.BonusRatio,
	}, nil
}

// RewardSlots converts the rewards section's slot settings.
func (c *Config) RewardSlots() rewards.ProposalRewardSlots {
	return rewards.ProposalRewardSlots{
		ExcellentSlots: c.Rewards.ExcellentSlots,
		GoodSlots:      c.Rewards.GoodSlots,
		FilledSlots:    c.Rewards.FilledSlots,
	}
}

// CSVOptions returns the reader options for CSV exports. Call Validate first.
func (c *Config) CSVOptions() fetcher.CSVOptions {
	opts := fetcher.CSVOptions{TrimSpace: true}
	if r, _ := utf8.DecodeRuneInString(c.Input.CSVDelimiter); r != utf8.RuneError {
		opts.Delimiter = r
	}
	if r, _ := utf8.DecodeRuneInString(c.Input.CSVComment); r != utf8.RuneError {
		opts.Comment = r
	}
	return opts
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
