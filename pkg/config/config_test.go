package config

import (
	"strings"
	"testing"

	"github.com/Markpayne01/splitwise2ynab/pkg/ynab"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SPLITWISE_API_KEY", "sw-key")
	t.Setenv("YNAB_ACCESS_TOKEN", "ynab-token")
	t.Setenv("YNAB_BUDGET_ID", "budget-1")
	t.Setenv("YNAB_ACCOUNT_ID", "account-1")
}

func clearOptionalEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"YNAB_SPLITWISE_FLAG_COLOR",
		"YNAB_SPLITWISE_SYNCED_FLAG_COLOR",
		"YNAB_SPLITWISE_LOOKBACK_DAYS",
		"SPLITWISE_MAX_EXPENSES",
		"YNAB_SPLITWISE_DRY_RUN",
		"SPLITWISE_DEFAULT_PERSON_NAME",
		"SPLITWISE_PAYEE_RULES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	clearOptionalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sync.TriggerFlag != ynab.FlagYellow {
		t.Errorf("TriggerFlag = %q, want yellow", cfg.Sync.TriggerFlag)
	}
	if cfg.Sync.SyncedFlag != ynab.FlagNone {
		t.Errorf("SyncedFlag = %q, want none", cfg.Sync.SyncedFlag)
	}
	if cfg.Sync.LookbackDays != DefaultLookbackDays {
		t.Errorf("LookbackDays = %d, want %d", cfg.Sync.LookbackDays, DefaultLookbackDays)
	}
	if cfg.Sync.MaxExpenses != DefaultMaxExpenses {
		t.Errorf("MaxExpenses = %d, want %d", cfg.Sync.MaxExpenses, DefaultMaxExpenses)
	}
	if cfg.Sync.DryRun {
		t.Error("DryRun = true, want false")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	clearOptionalEnv(t)
	t.Setenv("YNAB_SPLITWISE_FLAG_COLOR", "Blue")
	t.Setenv("YNAB_SPLITWISE_SYNCED_FLAG_COLOR", "green")
	t.Setenv("YNAB_SPLITWISE_LOOKBACK_DAYS", "14")
	t.Setenv("SPLITWISE_MAX_EXPENSES", "250")
	t.Setenv("YNAB_SPLITWISE_DRY_RUN", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sync.TriggerFlag != ynab.FlagBlue {
		t.Errorf("TriggerFlag = %q, want blue", cfg.Sync.TriggerFlag)
	}
	if cfg.Sync.SyncedFlag != ynab.FlagGreen {
		t.Errorf("SyncedFlag = %q, want green", cfg.Sync.SyncedFlag)
	}
	if cfg.Sync.LookbackDays != 14 {
		t.Errorf("LookbackDays = %d, want 14", cfg.Sync.LookbackDays)
	}
	if cfg.Sync.MaxExpenses != 250 {
		t.Errorf("MaxExpenses = %d, want 250", cfg.Sync.MaxExpenses)
	}
	if !cfg.Sync.DryRun {
		t.Error("DryRun = false, want true")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown trigger flag", "YNAB_SPLITWISE_FLAG_COLOR", "magenta"},
		{"none trigger flag", "YNAB_SPLITWISE_FLAG_COLOR", "none"},
		{"unknown synced flag", "YNAB_SPLITWISE_SYNCED_FLAG_COLOR", "magenta"},
		{"negative lookback", "YNAB_SPLITWISE_LOOKBACK_DAYS", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			clearOptionalEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q succeeded, want error", tt.key, tt.value)
			}
		})
	}
}

func TestLoadBadIntFallsBack(t *testing.T) {
	setRequiredEnv(t)
	clearOptionalEnv(t)
	t.Setenv("YNAB_SPLITWISE_LOOKBACK_DAYS", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sync.LookbackDays != DefaultLookbackDays {
		t.Errorf("LookbackDays = %d, want default %d", cfg.Sync.LookbackDays, DefaultLookbackDays)
	}
}

func TestValidateReportsAllMissing(t *testing.T) {
	setRequiredEnv(t)
	clearOptionalEnv(t)
	t.Setenv("YNAB_ACCESS_TOKEN", "")
	t.Setenv("YNAB_ACCOUNT_ID", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	err = cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, want := range []string{"YNAB_ACCESS_TOKEN", "YNAB_ACCOUNT_ID"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q does not mention %s", err, want)
		}
	}
	if strings.Contains(err.Error(), "SPLITWISE_API_KEY") {
		t.Errorf("Validate() error %q mentions a variable that is set", err)
	}
}

func TestValidateComplete(t *testing.T) {
	setRequiredEnv(t)
	clearOptionalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load("testdata/does-not-exist.env"); err == nil {
		t.Error("Load() with missing env file succeeded, want error")
	}
}
