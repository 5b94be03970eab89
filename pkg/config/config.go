// Package config provides configuration management for splitwise2ynab.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Markpayne01/splitwise2ynab/pkg/ynab"
)

// DefaultLookbackDays is the trailing window, in days, within which
// records are eligible for processing.
const DefaultLookbackDays = 7

// DefaultMaxExpenses caps how many Splitwise expenses one run fetches.
const DefaultMaxExpenses = 1000

// Config represents the application configuration. It is constructed
// once at process start and passed to each component.
type Config struct {
	Splitwise SplitwiseConfig
	YNAB      YNABConfig
	Sync      SyncConfig
}

// SplitwiseConfig represents Splitwise API configuration.
type SplitwiseConfig struct {
	APIKey            string
	APIURL            string
	DefaultPersonName string
	PayeeRulesPath    string
}

// YNABConfig represents YNAB API configuration.
type YNABConfig struct {
	AccessToken string
	BudgetID    string
	AccountID   string
	APIURL      string
}

// SyncConfig represents sync behavior configuration.
type SyncConfig struct {
	TriggerFlag  ynab.FlagColor // flag color that marks a transaction for reverse sync
	SyncedFlag   ynab.FlagColor // flag set after a successful reverse sync; none clears
	LookbackDays int
	MaxExpenses  int
	DryRun       bool
}

// Load loads configuration from environment variables.
// It automatically loads a .env file from the current directory if
// available. You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	triggerFlag, err := ynab.ParseFlagColor(getEnvOrDefault("YNAB_SPLITWISE_FLAG_COLOR", "yellow"))
	if err != nil {
		return nil, fmt.Errorf("invalid YNAB_SPLITWISE_FLAG_COLOR: %w", err)
	}
	if triggerFlag == ynab.FlagNone {
		return nil, fmt.Errorf("YNAB_SPLITWISE_FLAG_COLOR must name a flag color")
	}

	syncedFlag, err := ynab.ParseFlagColor(os.Getenv("YNAB_SPLITWISE_SYNCED_FLAG_COLOR"))
	if err != nil {
		return nil, fmt.Errorf("invalid YNAB_SPLITWISE_SYNCED_FLAG_COLOR: %w", err)
	}

	config := &Config{
		Splitwise: SplitwiseConfig{
			APIKey:            os.Getenv("SPLITWISE_API_KEY"),
			APIURL:            os.Getenv("SPLITWISE_API_URL"),
			DefaultPersonName: os.Getenv("SPLITWISE_DEFAULT_PERSON_NAME"),
			PayeeRulesPath:    os.Getenv("SPLITWISE_PAYEE_RULES"),
		},
		YNAB: YNABConfig{
			AccessToken: os.Getenv("YNAB_ACCESS_TOKEN"),
			BudgetID:    os.Getenv("YNAB_BUDGET_ID"),
			AccountID:   os.Getenv("YNAB_ACCOUNT_ID"),
			APIURL:      os.Getenv("YNAB_API_URL"),
		},
		Sync: SyncConfig{
			TriggerFlag:  triggerFlag,
			SyncedFlag:   syncedFlag,
			LookbackDays: intEnvOrDefault("YNAB_SPLITWISE_LOOKBACK_DAYS", DefaultLookbackDays),
			MaxExpenses:  intEnvOrDefault("SPLITWISE_MAX_EXPENSES", DefaultMaxExpenses),
			DryRun:       boolEnv("YNAB_SPLITWISE_DRY_RUN"),
		},
	}

	if config.Sync.LookbackDays < 0 {
		return nil, fmt.Errorf("YNAB_SPLITWISE_LOOKBACK_DAYS must be >= 0")
	}

	return config, nil
}

// Validate checks that all required variables are set and reports every
// missing one at once.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"SPLITWISE_API_KEY", c.Splitwise.APIKey},
		{"YNAB_ACCESS_TOKEN", c.YNAB.AccessToken},
		{"YNAB_BUDGET_ID", c.YNAB.BudgetID},
		{"YNAB_ACCOUNT_ID", c.YNAB.AccountID},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s\nPlease check your .env file or environment variables", strings.Join(missing, ", "))
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a
// default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// intEnvOrDefault parses an int from an environment variable. An
// unparseable value falls back to the default with a warning.
func intEnvOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Invalid integer environment variable, using default",
			"name", key, "value", value, "default", defaultValue)
		return defaultValue
	}

	return parsed
}

// boolEnv parses a boolean environment variable. "1", "true" and "yes"
// (any case) are true; everything else is false.
func boolEnv(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes":
		return true
	}
	return false
}
