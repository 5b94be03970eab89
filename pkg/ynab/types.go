// Package ynab provides a YNAB v1 API client and types.
package ynab

// Account represents a budget account.
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	OnBudget bool   `json:"on_budget"`
	Closed   bool   `json:"closed"`
	Deleted  bool   `json:"deleted"`
}

// Transaction represents a transaction in the YNAB API. Amount is in
// milliunits: outflows negative, inflows positive.
type Transaction struct {
	ID                  string    `json:"id,omitempty"`
	Date                string    `json:"date"` // YYYY-MM-DD
	Amount              int64     `json:"amount"`
	Memo                string    `json:"memo,omitempty"`
	Cleared             string    `json:"cleared,omitempty"`
	Approved            bool      `json:"approved"`
	FlagColor           FlagColor `json:"flag_color,omitempty"`
	AccountID           string    `json:"account_id"`
	PayeeID             string    `json:"payee_id,omitempty"`
	PayeeName           string    `json:"payee_name,omitempty"`
	CategoryID          string    `json:"category_id,omitempty"`
	TransferAccountID   string    `json:"transfer_account_id,omitempty"`
	ParentTransactionID string    `json:"parent_transaction_id,omitempty"`
	ImportID            string    `json:"import_id,omitempty"`
	Deleted             bool      `json:"deleted,omitempty"`
}

// Outflow reports whether the transaction moves money out of the account.
func (t Transaction) Outflow() bool {
	return t.Amount < 0
}

// Subtransaction reports whether the transaction is a split line rather
// than a top-level transaction.
func (t Transaction) Subtransaction() bool {
	return t.ParentTransactionID != ""
}

// Transfer reports whether the transaction is an account transfer.
func (t Transaction) Transfer() bool {
	return t.TransferAccountID != ""
}

// AccountsResponse represents the response from the accounts endpoint.
type AccountsResponse struct {
	Data struct {
		Accounts []Account `json:"accounts"`
	} `json:"data"`
}

// TransactionsResponse represents the response from the transactions
// endpoints.
type TransactionsResponse struct {
	Data struct {
		Transactions []Transaction `json:"transactions"`
	} `json:"data"`
}

// SaveTransactionRequest wraps a single transaction for create/update
// requests.
type SaveTransactionRequest struct {
	Transaction SaveTransaction `json:"transaction"`
}

// SaveTransaction is the writable subset of a transaction. FlagColor is
// always emitted so that clearing a flag serializes as null.
type SaveTransaction struct {
	AccountID  string    `json:"account_id,omitempty"`
	Date       string    `json:"date,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	PayeeName  string    `json:"payee_name,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
	Memo       string    `json:"memo,omitempty"`
	Cleared    string    `json:"cleared,omitempty"`
	Approved   bool      `json:"approved"`
	FlagColor  FlagColor `json:"flag_color"`
	ImportID   string    `json:"import_id,omitempty"`
}

// FlagUpdateRequest carries a flag transition and nothing else, so a
// flag change never rewrites other fields of the transaction.
type FlagUpdateRequest struct {
	Transaction FlagUpdate `json:"transaction"`
}

// FlagUpdate is the flag-only writable view of a transaction.
type FlagUpdate struct {
	FlagColor FlagColor `json:"flag_color"`
}

// SaveTransactionResponse represents the response to a create/update.
type SaveTransactionResponse struct {
	Data struct {
		Transaction        Transaction `json:"transaction"`
		DuplicateImportIDs []string    `json:"duplicate_import_ids,omitempty"`
	} `json:"data"`
}

// ErrorResponse represents an error payload from the YNAB API.
type ErrorResponse struct {
	Error struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Detail string `json:"detail"`
	} `json:"error"`
}
