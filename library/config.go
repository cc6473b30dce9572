package library

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config carries the process-level knobs. Values come from library.yaml in
// the working directory, environment variables prefixed LIBRARY_, or the
// defaults below.
type Config struct {
	DatabasePath   string
	LoanPeriodDays int
	LogLevel       string
}

// LoadConfig reads configuration; a missing config file is not an error.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("library")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("database.path", "library.db")
	v.SetDefault("loan.period_days", defaultLoanPeriodDays)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("LIBRARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		DatabasePath:   v.GetString("database.path"),
		LoanPeriodDays: v.GetInt("loan.period_days"),
		LogLevel:       v.GetString("log.level"),
	}
	if cfg.LoanPeriodDays <= 0 {
		return Config{}, fmt.Errorf("config: loan.period_days must be positive, got %d", cfg.LoanPeriodDays)
	}
	return cfg, nil
}
