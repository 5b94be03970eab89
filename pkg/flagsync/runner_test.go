package flagsync

import (
	"fmt"
	"testing"
	"time"

	"github.com/Markpayne01/splitwise2ynab/pkg/splitwise"
	"github.com/Markpayne01/splitwise2ynab/pkg/ynab"
)

type fakeSource struct {
	user       splitwise.User
	friends    []splitwise.User
	created    []splitwise.ExpenseCreate
	failCreate map[string]bool // keyed by expense description
	nextID     int64
}

func (f *fakeSource) GetCurrentUser() (*splitwise.User, error) {
	return &f.user, nil
}

func (f *fakeSource) GetFriends() ([]splitwise.User, error) {
	return f.friends, nil
}

func (f *fakeSource) CreateExpense(req splitwise.ExpenseCreate) (int64, error) {
	if f.failCreate[req.Description] {
		return 0, fmt.Errorf("create failed")
	}
	f.created = append(f.created, req)
	f.nextID++
	return f.nextID, nil
}

type fakeDest struct {
	accounts    []ynab.Account
	txns        []ynab.Transaction
	flagUpdates map[string]ynab.FlagColor
}

func (f *fakeDest) ListAccounts() ([]ynab.Account, error) {
	return f.accounts, nil
}

func (f *fakeDest) ListTransactions(sinceDate string) ([]ynab.Transaction, error) {
	return f.txns, nil
}

func (f *fakeDest) UpdateTransactionFlag(transactionID string, color ynab.FlagColor) error {
	if f.flagUpdates == nil {
		f.flagUpdates = make(map[string]ynab.FlagColor)
	}
	f.flagUpdates[transactionID] = color
	return nil
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
}

func newTestRunner(source *fakeSource, dest *fakeDest, opts Options) *Runner {
	r := NewRunner(source, dest, opts)
	r.now = fixedNow
	return r
}

func testFixtures() (*fakeSource, *fakeDest) {
	source := &fakeSource{
		user:    splitwise.User{ID: 1, FirstName: "Mark"},
		friends: []splitwise.User{{ID: 2, FirstName: "Alex"}},
	}
	dest := &fakeDest{
		accounts: []ynab.Account{{ID: "acct", OnBudget: true}},
		txns: []ynab.Transaction{
			{ID: "txn-1", Date: "2024-05-10", Amount: -30000, FlagColor: ynab.FlagYellow, AccountID: "acct", PayeeName: "Corner Shop"},
		},
	}
	return source, dest
}

func defaultOptions() Options {
	return Options{
		TriggerFlag:       ynab.FlagYellow,
		LookbackDays:      7,
		DefaultPersonName: "Alex",
	}
}

func TestRunCreatesExpenseAndClearsFlag(t *testing.T) {
	source, dest := testFixtures()

	summary, err := newTestRunner(source, dest, defaultOptions()).Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Selected != 1 || summary.Created != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}

	if len(source.created) != 1 {
		t.Fatalf("created %d expenses, expected 1", len(source.created))
	}
	req := source.created[0]
	if req.Cost != "30.00" || req.User0OwedShare != "15.00" || req.User1OwedShare != "15.00" {
		t.Errorf("split = cost %s user %s friend %s", req.Cost, req.User0OwedShare, req.User1OwedShare)
	}
	if req.User0ID != 1 || req.User1ID != 2 {
		t.Errorf("participants = %d, %d", req.User0ID, req.User1ID)
	}

	// No synced color configured, so the flag is cleared.
	if color, ok := dest.flagUpdates["txn-1"]; !ok || color != ynab.FlagNone {
		t.Errorf("flag update = %q, %v; expected cleared flag", color, ok)
	}
}

func TestRunSetsSyncedFlagColor(t *testing.T) {
	source, dest := testFixtures()
	opts := defaultOptions()
	opts.SyncedFlag = ynab.FlagGreen

	if _, err := newTestRunner(source, dest, opts).Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if color := dest.flagUpdates["txn-1"]; color != ynab.FlagGreen {
		t.Errorf("flag update = %q, expected green", color)
	}
}

func TestRunDryRunIssuesNoMutations(t *testing.T) {
	source, dest := testFixtures()
	opts := defaultOptions()
	opts.DryRun = true

	summary, err := newTestRunner(source, dest, opts).Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// Selection and construction run; create and flag update do not.
	if summary.Selected != 1 || summary.WouldCreate != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Created != 0 || len(source.created) != 0 {
		t.Error("dry run created an expense")
	}
	if len(dest.flagUpdates) != 0 {
		t.Error("dry run updated a flag")
	}
}

func TestRunFailureIsIsolated(t *testing.T) {
	source, dest := testFixtures()
	dest.txns = []ynab.Transaction{
		{ID: "txn-1", Date: "2024-05-10", Amount: -30000, FlagColor: ynab.FlagYellow, AccountID: "acct", PayeeName: "Failing Shop"},
		{ID: "txn-2", Date: "2024-05-09", Amount: -10000, FlagColor: ynab.FlagYellow, AccountID: "acct", PayeeName: "Working Shop"},
	}
	source.failCreate = map[string]bool{"Failing Shop": true}

	summary, err := newTestRunner(source, dest, defaultOptions()).Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Selected != 2 || summary.Created != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}

	// The failed transaction keeps its flag for a retry on a future run.
	if _, ok := dest.flagUpdates["txn-1"]; ok {
		t.Error("failed transaction's flag was changed")
	}
	if color, ok := dest.flagUpdates["txn-2"]; !ok || color != ynab.FlagNone {
		t.Error("successful transaction's flag was not cleared")
	}
}

func TestRunSkipsWithoutPersonName(t *testing.T) {
	source, dest := testFixtures()
	opts := defaultOptions()
	opts.DefaultPersonName = ""

	summary, err := newTestRunner(source, dest, opts).Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Selected != 0 || len(source.created) != 0 {
		t.Errorf("reverse sync ran without a counterparty: %+v", summary)
	}
}

func TestRunSkipsUnknownFriend(t *testing.T) {
	source, dest := testFixtures()
	opts := defaultOptions()
	opts.DefaultPersonName = "Nobody"

	summary, err := newTestRunner(source, dest, opts).Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Selected != 0 || len(source.created) != 0 {
		t.Errorf("reverse sync ran with an unknown counterparty: %+v", summary)
	}
}

func TestRunAmbiguousFriendIsError(t *testing.T) {
	source, dest := testFixtures()
	source.friends = []splitwise.User{
		{ID: 2, FirstName: "Alex", LastName: "Smith"},
		{ID: 3, FirstName: "Alex", LastName: "Jones"},
	}

	if _, err := newTestRunner(source, dest, defaultOptions()).Run(); err == nil {
		t.Error("expected an error for an ambiguous counterparty name")
	}
	if len(source.created) != 0 {
		t.Error("expenses were created despite the ambiguity")
	}
}
