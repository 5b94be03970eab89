// Package match decides whether a mapped Splitwise expense already has
// a corresponding YNAB transaction. No stored identifier links the two
// systems, so matching is recomputed from record fields on every run.
package match

import (
	"sort"
	"strings"
	"time"

	"github.com/Markpayne01/splitwise2ynab/pkg/ynab"
)

// DefaultDateToleranceDays is the date window for the fallback match.
// The ±1 day / memo substring rule is a heuristic starting default, not
// a guaranteed-correct dedup policy.
const DefaultDateToleranceDays = 1

const dateLayout = "2006-01-02"

// Result is the outcome of matching one draft against the destination
// window.
type Result struct {
	Matched     bool
	Exact       bool              // amount+date equality, as opposed to the fallback heuristic
	Transaction *ynab.Transaction // the matched destination record, nil if unmatched
}

// Engine matches transaction drafts against existing destination
// transactions.
type Engine struct {
	toleranceDays int
}

// New creates an Engine with the default date tolerance.
func New() *Engine {
	return &Engine{toleranceDays: DefaultDateToleranceDays}
}

// NewWithTolerance creates an Engine with a custom fallback date
// tolerance in days.
func NewWithTolerance(days int) *Engine {
	return &Engine{toleranceDays: days}
}

// Match looks for an existing destination transaction corresponding to
// the draft. Pass one requires exact (amount, date) equality; pass two
// accepts a date within the tolerance whose memo contains the source
// description. The first match wins, with candidates considered in
// creation order (earliest first). Deleted records are never candidates.
func (e *Engine) Match(draft ynab.SaveTransaction, sourceDescription string, window []ynab.Transaction) Result {
	candidates := make([]ynab.Transaction, 0, len(window))
	for _, txn := range window {
		if txn.Deleted {
			continue
		}
		candidates = append(candidates, txn)
	}

	// The YNAB API does not expose a created-at timestamp on
	// transactions; (date, id) ascending is the deterministic stand-in
	// for creation order.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Date != candidates[j].Date {
			return candidates[i].Date < candidates[j].Date
		}
		return candidates[i].ID < candidates[j].ID
	})

	for i := range candidates {
		if candidates[i].Amount == draft.Amount && candidates[i].Date == draft.Date {
			return Result{Matched: true, Exact: true, Transaction: &candidates[i]}
		}
	}

	description := strings.ToLower(strings.TrimSpace(sourceDescription))
	if description == "" {
		return Result{}
	}

	draftDate, err := time.Parse(dateLayout, draft.Date)
	if err != nil {
		return Result{}
	}

	for i := range candidates {
		candidateDate, err := time.Parse(dateLayout, candidates[i].Date)
		if err != nil {
			continue
		}
		if !withinTolerance(draftDate, candidateDate, e.toleranceDays) {
			continue
		}
		if strings.Contains(strings.ToLower(candidates[i].Memo), description) {
			return Result{Matched: true, Transaction: &candidates[i]}
		}
	}

	return Result{}
}

func withinTolerance(a, b time.Time, days int) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(days)*24*time.Hour
}
