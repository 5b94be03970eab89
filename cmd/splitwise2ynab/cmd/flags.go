package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Markpayne01/splitwise2ynab/pkg/config"
	"github.com/Markpayne01/splitwise2ynab/pkg/ynab"
)

var (
	flagsDays         int
	flagsOnBudgetOnly bool
	flagsShowSamples  int
)

// flagsCmd represents the flags command. It helps pick an unused flag
// color to use as the reverse-sync trigger.
var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List YNAB flag color usage",
	Long: `List how each YNAB flag color is used across the budget, to
help identify an unused color for the reverse-sync trigger.

Example:
  splitwise2ynab flags
  splitwise2ynab flags --days 90 --on-budget-only`,
	Run: runFlags,
}

func init() {
	flagsCmd.Flags().IntVar(&flagsDays, "days", -1, "only include transactions from the last N days (default: all history)")
	flagsCmd.Flags().BoolVar(&flagsOnBudgetOnly, "on-budget-only", false, "only include on-budget accounts")
	flagsCmd.Flags().IntVar(&flagsShowSamples, "show-samples", 3, "sample transactions to show per used flag")
}

type flaggedRow struct {
	date    string
	flag    ynab.FlagColor
	amount  int64
	payee   string
	account string
	txnID   string
}

func runFlags(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	// Only the YNAB side is needed for this report.
	if cfg.YNAB.AccessToken == "" || cfg.YNAB.BudgetID == "" {
		exitOnError(fmt.Errorf("missing required environment variables: YNAB_ACCESS_TOKEN, YNAB_BUDGET_ID"), "invalid configuration")
	}

	_, ynabClient := buildClients(cfg)

	accounts, err := ynabClient.ListAccounts()
	exitOnError(err, "failed to fetch ynab accounts")

	accountName := make(map[string]string, len(accounts))
	allowed := make(map[string]bool, len(accounts))
	for _, account := range accounts {
		accountName[account.ID] = account.Name
		if !flagsOnBudgetOnly || account.OnBudget {
			allowed[account.ID] = true
		}
	}

	scope := "all accounts (on-budget + off-budget, open + closed)"
	if flagsOnBudgetOnly {
		scope = "on-budget accounts (open + closed)"
	}

	sinceDate := ""
	if flagsDays >= 0 {
		sinceDate = time.Now().UTC().AddDate(0, 0, -flagsDays).Format("2006-01-02")
	}

	txns, err := ynabClient.ListTransactions(sinceDate)
	exitOnError(err, "failed to fetch ynab transactions")

	counts := make(map[ynab.FlagColor]int)
	samples := make(map[ynab.FlagColor][]flaggedRow)
	var flagged []flaggedRow
	considered := 0
	unflagged := 0

	for _, txn := range txns {
		if txn.Deleted || !allowed[txn.AccountID] {
			continue
		}
		considered++

		if txn.FlagColor == ynab.FlagNone {
			unflagged++
			continue
		}

		row := flaggedRow{
			date:    txn.Date,
			flag:    txn.FlagColor,
			amount:  txn.Amount,
			payee:   txn.PayeeName,
			account: accountName[txn.AccountID],
			txnID:   txn.ID,
		}

		counts[txn.FlagColor]++
		flagged = append(flagged, row)
		if len(samples[txn.FlagColor]) < flagsShowSamples {
			samples[txn.FlagColor] = append(samples[txn.FlagColor], row)
		}
	}

	fmt.Printf("Scope: %s\n", scope)
	if sinceDate != "" {
		fmt.Printf("Since: %s\n", sinceDate)
	} else {
		fmt.Println("Since: all history")
	}
	fmt.Printf("Transactions considered: %d\n", considered)
	fmt.Printf("Unflagged transactions: %d\n", unflagged)

	printSection("Flagged transactions")
	if len(flagged) == 0 {
		fmt.Println("No flagged transactions found in this scope.")
	} else {
		sort.Slice(flagged, func(i, j int) bool {
			if flagged[i].date != flagged[j].date {
				return flagged[i].date > flagged[j].date
			}
			return flagged[i].txnID > flagged[j].txnID
		})
		for _, row := range flagged {
			fmt.Printf("- %s %s amount=%d payee=%q account=%q id=%s\n",
				row.date, row.flag, row.amount, row.payee, row.account, row.txnID)
		}
	}

	printSection("Flag usage counts")
	if len(counts) == 0 {
		fmt.Println("No flagged transactions found in this scope.")
	} else {
		for _, color := range sortedColors(counts) {
			fmt.Printf("- %s: %d\n", color, counts[color])
		}
	}

	var used, unused []ynab.FlagColor
	for _, color := range ynab.KnownFlagColors {
		if counts[color] > 0 {
			used = append(used, color)
		} else {
			unused = append(unused, color)
		}
	}

	printSection("Known colors in use")
	printColorList(used)

	printSection("Known colors unused")
	printColorList(unused)

	if unknown := unknownColors(counts); len(unknown) > 0 {
		printSection("Unexpected flag values")
		for _, color := range unknown {
			fmt.Printf("- %s: %d\n", color, counts[color])
		}
	}

	if flagsShowSamples > 0 && len(counts) > 0 {
		printSection("Sample transactions by flag")
		for _, color := range sortedColors(counts) {
			fmt.Printf("%s:\n", color)
			for _, row := range samples[color] {
				fmt.Printf("- %s amount=%d payee=%q account=%q id=%s\n",
					row.date, row.amount, row.payee, row.account, row.txnID)
			}
		}
	}
}

func printSection(title string) {
	fmt.Printf("\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func printColorList(colors []ynab.FlagColor) {
	if len(colors) == 0 {
		fmt.Println("- none")
		return
	}
	for _, color := range colors {
		fmt.Printf("- %s\n", color)
	}
}

// sortedColors orders colors by descending count, then name.
func sortedColors(counts map[ynab.FlagColor]int) []ynab.FlagColor {
	colors := make([]ynab.FlagColor, 0, len(counts))
	for color := range counts {
		colors = append(colors, color)
	}
	sort.Slice(colors, func(i, j int) bool {
		if counts[colors[i]] != counts[colors[j]] {
			return counts[colors[i]] > counts[colors[j]]
		}
		return colors[i] < colors[j]
	})
	return colors
}

// unknownColors returns used colors outside the documented set.
func unknownColors(counts map[ynab.FlagColor]int) []ynab.FlagColor {
	known := make(map[ynab.FlagColor]bool, len(ynab.KnownFlagColors))
	for _, color := range ynab.KnownFlagColors {
		known[color] = true
	}

	var unknown []ynab.FlagColor
	for color := range counts {
		if !known[color] {
			unknown = append(unknown, color)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return unknown
}
