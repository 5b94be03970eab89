package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Markpayne01/splitwise2ynab/pkg/config"
	"github.com/Markpayne01/splitwise2ynab/pkg/convert"
	"github.com/Markpayne01/splitwise2ynab/pkg/flagsync"
	"github.com/Markpayne01/splitwise2ynab/pkg/importer"
	"github.com/Markpayne01/splitwise2ynab/pkg/match"
	"github.com/Markpayne01/splitwise2ynab/pkg/splitwise"
	"github.com/Markpayne01/splitwise2ynab/pkg/ynab"
)

var (
	syncDryRun bool
	syncDays   int
	syncLimit  int
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run the bidirectional Splitwise/YNAB sync",
	Long: `Run one bidirectional sync pass.

This command:
1. Creates Splitwise expenses from flagged YNAB outflow transactions
   and clears (or recolors) their flag
2. Imports recent Splitwise expenses into the YNAB account, skipping
   expenses that already have a matching transaction

Example:
  splitwise2ynab sync
  splitwise2ynab sync --dry-run --days 14`,
	Run: runSync,
}

func init() {
	// Flags override the corresponding environment variables.
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "compute intended actions without creating or updating anything")
	syncCmd.Flags().IntVar(&syncDays, "days", 0, "lookback window in days (default from YNAB_SPLITWISE_LOOKBACK_DAYS)")
	syncCmd.Flags().IntVar(&syncLimit, "limit", 0, "max Splitwise expenses to fetch (default from SPLITWISE_MAX_EXPENSES)")
}

func runSync(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")
	exitOnError(cfg.Validate(), "invalid configuration")

	if cmd.Flags().Changed("dry-run") {
		cfg.Sync.DryRun = syncDryRun
	}
	if cmd.Flags().Changed("days") {
		exitOnError(validateDays(syncDays), "invalid flags")
		cfg.Sync.LookbackDays = syncDays
	}
	if cmd.Flags().Changed("limit") {
		cfg.Sync.MaxExpenses = syncLimit
	}

	slog.Info("Starting sync",
		"lookback_days", cfg.Sync.LookbackDays,
		"trigger_flag", cfg.Sync.TriggerFlag,
		"dry_run", cfg.Sync.DryRun)

	splitwiseClient, ynabClient := buildClients(cfg)
	converter := buildConverter(cfg)

	// Reverse sync first, then import, matching the original job order.
	reverse := flagsync.NewRunner(splitwiseClient, ynabClient, flagsync.Options{
		TriggerFlag:       cfg.Sync.TriggerFlag,
		SyncedFlag:        cfg.Sync.SyncedFlag,
		LookbackDays:      cfg.Sync.LookbackDays,
		DefaultPersonName: cfg.Splitwise.DefaultPersonName,
		DryRun:            cfg.Sync.DryRun,
	})

	reverseSummary, err := reverse.Run()
	if err != nil {
		exitOnAuthError(err)
		// A whole-phase failure here must not block the import pass.
		slog.Error("YNAB->Splitwise sync failed", "error", err)
	}

	imp := importer.NewRunner(splitwiseClient, ynabClient, converter, match.New(), importer.Options{
		AccountID:    cfg.YNAB.AccountID,
		LookbackDays: cfg.Sync.LookbackDays,
		MaxExpenses:  cfg.Sync.MaxExpenses,
		DryRun:       cfg.Sync.DryRun,
	})

	importSummary, err := imp.Run()
	if err != nil {
		exitOnAuthError(err)
		slog.Error("Splitwise->YNAB import failed", "error", err)
	}

	fmt.Println("\n=== Sync Summary ===")
	if reverseSummary != nil {
		fmt.Printf("Flagged transactions selected: %d\n", reverseSummary.Selected)
		fmt.Printf("Splitwise expenses created:    %d\n", reverseSummary.Created)
		if cfg.Sync.DryRun {
			fmt.Printf("Would create (dry run):        %d\n", reverseSummary.WouldCreate)
		}
		if reverseSummary.Failed > 0 {
			fmt.Printf("Reverse sync failures:         %d\n", reverseSummary.Failed)
		}
	}
	if importSummary != nil {
		fmt.Printf("Splitwise expenses fetched:    %d\n", importSummary.Fetched)
		fmt.Printf("Already imported:              %d\n", importSummary.Matched)
		fmt.Printf("YNAB transactions created:     %d\n", importSummary.Created)
		if cfg.Sync.DryRun {
			fmt.Printf("Would import (dry run):        %d\n", importSummary.WouldCreate)
		}
		if importSummary.Failed > 0 {
			fmt.Printf("Import failures:               %d\n", importSummary.Failed)
		}
	}
	fmt.Println()

	slog.Info("Sync completed")
}

// buildClients constructs the two API clients from configuration.
func buildClients(cfg *config.Config) (*splitwise.Client, *ynab.Client) {
	splitwiseClient := splitwise.NewClient(splitwise.ClientConfig{
		APIURL: cfg.Splitwise.APIURL,
		APIKey: cfg.Splitwise.APIKey,
	})

	ynabClient := ynab.NewClient(ynab.ClientConfig{
		APIURL:      cfg.YNAB.APIURL,
		AccessToken: cfg.YNAB.AccessToken,
		BudgetID:    cfg.YNAB.BudgetID,
	})

	return splitwiseClient, ynabClient
}

// buildConverter constructs the record mapper, loading the optional
// payee-rules file when configured.
func buildConverter(cfg *config.Config) *convert.Converter {
	var rules *convert.Rules
	if cfg.Splitwise.PayeeRulesPath != "" {
		loaded, err := convert.LoadRules(cfg.Splitwise.PayeeRulesPath)
		exitOnError(err, "failed to load payee rules")
		rules = loaded
	}
	return convert.NewConverter(rules, cfg.YNAB.AccountID)
}

// validateDays rejects a negative lookback given on the command line,
// the same bound config.Load enforces on the environment variable.
func validateDays(days int) error {
	if days < 0 {
		return fmt.Errorf("--days must be >= 0, got %d", days)
	}
	return nil
}

// exitOnAuthError exits non-zero when either service rejected the
// configured credentials.
func exitOnAuthError(err error) {
	if errors.Is(err, splitwise.ErrUnauthorized) || errors.Is(err, ynab.ErrUnauthorized) {
		exitOnError(err, "authentication failed")
	}
}
