// Package convert maps records between the Splitwise and YNAB schemas.
package convert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Markpayne01/splitwise2ynab/pkg/splitwise"
	"github.com/Markpayne01/splitwise2ynab/pkg/ynab"
)

// ErrNotParticipant is returned when the configured user has no share
// in the expense being mapped.
var ErrNotParticipant = errors.New("configured user is not a participant in the expense")

var two = decimal.NewFromInt(2)

// Converter converts Splitwise expenses to YNAB transaction drafts and
// YNAB transactions to Splitwise expense requests.
type Converter struct {
	rules     *Rules // optional payee overrides, may be nil
	accountID string
}

// NewConverter creates a new Converter targeting the given YNAB account.
func NewConverter(rules *Rules, accountID string) *Converter {
	return &Converter{
		rules:     rules,
		accountID: accountID,
	}
}

// ExpenseToTransaction maps one expense to a YNAB transaction draft for
// the given user. The draft's amount is the user's signed net balance in
// milliunits: money owed by the user becomes an outflow (negative).
func (c *Converter) ExpenseToTransaction(expense splitwise.Expense, userID int64) (ynab.SaveTransaction, error) {
	var share *splitwise.ExpenseUser
	for i := range expense.Users {
		if expense.Users[i].User.ID == userID {
			share = &expense.Users[i]
			break
		}
	}
	if share == nil {
		return ynab.SaveTransaction{}, fmt.Errorf("expense %d: %w", expense.ID, ErrNotParticipant)
	}

	netBalance, err := decimal.NewFromString(share.NetBalance)
	if err != nil {
		return ynab.SaveTransaction{}, fmt.Errorf("expense %d: invalid net balance %q: %w", expense.ID, share.NetBalance, err)
	}

	payee := buildPayee(expense, userID)
	memo := buildMemo(expense)
	categoryID := ""

	if rule := c.rules.Match(expense.Description); rule != nil {
		if rule.Payee != "" {
			payee = rule.Payee
		}
		categoryID = rule.CategoryID
	}

	return ynab.SaveTransaction{
		AccountID:  c.accountID,
		Date:       expenseDate(expense),
		Amount:     ToMilliunits(netBalance),
		PayeeName:  payee,
		Memo:       memo,
		Cleared:    "cleared",
		Approved:   false,
		CategoryID: categoryID,
		ImportID:   strconv.FormatInt(expense.ID, 10),
	}, nil
}

// TransactionToExpense builds a Splitwise create-expense request that
// splits the transaction's absolute amount 50:50 between the user and
// the friend. The user is recorded as having paid the full cost. The
// friend's share rounds half up, the user's share takes the remainder,
// so the shares always sum exactly to the cost.
func TransactionToExpense(txn ynab.Transaction, userID, friendID int64) splitwise.ExpenseCreate {
	cost := MilliunitsToAmount(txn.Amount).Abs()
	friendOwed := cost.Div(two).Round(2)
	userOwed := cost.Sub(friendOwed)

	description := txn.PayeeName
	if description == "" {
		description = txn.Memo
	}
	if description == "" {
		description = fmt.Sprintf("YNAB transaction %s", txn.Date)
	}

	return splitwise.ExpenseCreate{
		Cost:           cost.StringFixed(2),
		Description:    description,
		Details:        fmt.Sprintf("Created by splitwise2ynab from YNAB transaction %s", txn.ID),
		Date:           fmt.Sprintf("%sT00:00:00Z", txn.Date),
		GroupID:        0,
		User0ID:        userID,
		User0PaidShare: cost.StringFixed(2),
		User0OwedShare: userOwed.StringFixed(2),
		User1ID:        friendID,
		User1PaidShare: "0.00",
		User1OwedShare: friendOwed.StringFixed(2),
	}
}

// ToMilliunits converts a currency amount to YNAB milliunits,
// rounding half away from zero.
func ToMilliunits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
}

// MilliunitsToAmount converts YNAB milliunits back to a currency
// amount rounded to cents.
func MilliunitsToAmount(milliunits int64) decimal.Decimal {
	return decimal.NewFromInt(milliunits).Div(decimal.NewFromInt(1000)).Round(2)
}

// buildPayee names the counterparty: the single other participant, a
// generic label when there are several, or the service itself.
func buildPayee(expense splitwise.Expense, userID int64) string {
	var others []string
	for _, participant := range expense.Users {
		if participant.User.ID == userID {
			continue
		}
		name := participant.User.FullName()
		if name == "" {
			name = strconv.FormatInt(participant.User.ID, 10)
		}
		others = append(others, name)
	}

	switch len(others) {
	case 0:
		return "Splitwise"
	case 1:
		return fmt.Sprintf("%s (Splitwise)", others[0])
	default:
		return "Multiple people (Splitwise)"
	}
}

// buildMemo keeps the expense description as the human label, plus who
// actually paid. Payers include the configured user.
func buildMemo(expense splitwise.Expense) string {
	var payers []string
	for _, participant := range expense.Users {
		paid, err := decimal.NewFromString(participant.PaidShare)
		if err != nil || !paid.IsPositive() {
			continue
		}
		name := participant.User.FullName()
		if name == "" {
			name = strconv.FormatInt(participant.User.ID, 10)
		}
		payers = append(payers, name)
	}

	paidBy := "unknown"
	if len(payers) > 0 {
		paidBy = strings.Join(payers, ", ")
	}

	return fmt.Sprintf("Splitwise: %s | paid by %s", expense.Description, paidBy)
}

// expenseDate extracts the YYYY-MM-DD part of the expense timestamp.
func expenseDate(expense splitwise.Expense) string {
	if len(expense.Date) >= 10 {
		return expense.Date[:10]
	}
	return expense.Date
}
