package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Markpayne01/splitwise2ynab/pkg/audit"
	"github.com/Markpayne01/splitwise2ynab/pkg/config"
	"github.com/Markpayne01/splitwise2ynab/pkg/match"
)

var (
	auditDays      int
	auditMaxSource int
	auditAccountID string
	auditShow      int
	auditList      bool
)

// auditCmd represents the audit command.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Report Splitwise expenses missing or divergent in YNAB",
	Long: `Compare Splitwise expenses against the YNAB account they are
imported into, without modifying either system.

The report lists expenses with no corresponding YNAB transaction and
matched pairs whose amount, date or memo diverge.

Example:
  splitwise2ynab audit --days 30
  splitwise2ynab audit --days 90 --show 50 --list-transactions`,
	Run: runAudit,
}

func init() {
	auditCmd.Flags().IntVar(&auditDays, "days", 30, "look back this many days")
	auditCmd.Flags().IntVar(&auditMaxSource, "max-splitwise", 1000, "max Splitwise expenses to fetch within the window")
	auditCmd.Flags().StringVar(&auditAccountID, "account-id", "", "YNAB account id to audit (default: YNAB_ACCOUNT_ID)")
	auditCmd.Flags().IntVar(&auditShow, "show", 20, "how many rows to print per section")
	auditCmd.Flags().BoolVar(&auditList, "list-transactions", false, "also print normalized Splitwise and YNAB transaction lists")
}

func runAudit(cmd *cobra.Command, args []string) {
	exitOnError(validateDays(auditDays), "invalid flags")

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if auditAccountID != "" {
		cfg.YNAB.AccountID = auditAccountID
	}
	exitOnError(cfg.Validate(), "invalid configuration")
	accountID := cfg.YNAB.AccountID

	splitwiseClient, ynabClient := buildClients(cfg)
	converter := buildConverter(cfg)

	since := time.Now().UTC().AddDate(0, 0, -auditDays).Format("2006-01-02")
	fmt.Printf("Auditing since %s UTC\n", since)
	fmt.Printf("YNAB account: %s\n", accountID)

	user, err := splitwiseClient.GetCurrentUser()
	exitOnError(err, "failed to resolve current splitwise user")

	expenses, err := splitwiseClient.FetchAllExpenses(since, auditMaxSource)
	exitOnError(err, "failed to fetch splitwise expenses")

	window, err := ynabClient.ListAccountTransactions(accountID, since)
	exitOnError(err, "failed to fetch ynab account transactions")

	report := audit.Compare(expenses, window, user.ID, converter, match.New())
	report.Write(os.Stdout, auditShow)

	if auditList {
		audit.WriteExpenseList(os.Stdout, expenses, user.ID, converter, auditShow)
		audit.WriteTransactionList(os.Stdout, window, auditShow)
	}
}
