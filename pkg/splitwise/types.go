// Package splitwise provides a Splitwise API client and types.
package splitwise

// User represents a Splitwise user identity.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

// FullName returns the user's display name, falling back to the id.
func (u User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	return name
}

// ExpenseUser represents one participant's share of an expense.
// Share fields are decimal strings in the expense currency.
type ExpenseUser struct {
	User       User   `json:"user"`
	UserID     int64  `json:"user_id"`
	PaidShare  string `json:"paid_share"`
	OwedShare  string `json:"owed_share"`
	NetBalance string `json:"net_balance"`
}

// Expense represents an expense in the Splitwise API.
type Expense struct {
	ID           int64         `json:"id"`
	GroupID      *int64        `json:"group_id,omitempty"`
	Description  string        `json:"description"`
	Details      *string       `json:"details,omitempty"`
	Cost         string        `json:"cost"` // decimal string, e.g. "40.00"
	CurrencyCode string        `json:"currency_code"`
	Date         string        `json:"date"` // RFC3339, date part is authoritative
	CreatedAt    string        `json:"created_at,omitempty"`
	UpdatedAt    string        `json:"updated_at,omitempty"`
	DeletedAt    *string       `json:"deleted_at,omitempty"`
	Users        []ExpenseUser `json:"users"`
}

// Deleted reports whether the expense has been deleted in Splitwise.
// Splitwise marks deleted expenses with a non-null deleted_at timestamp.
func (e Expense) Deleted() bool {
	return e.DeletedAt != nil && *e.DeletedAt != ""
}

// ExpenseCreate is a create_expense request splitting a cost between
// exactly two participants. Splitwise expects the participant fields
// in flattened users__N__* form.
type ExpenseCreate struct {
	Cost           string `json:"cost"`
	Description    string `json:"description"`
	Details        string `json:"details,omitempty"`
	Date           string `json:"date"`
	GroupID        int64  `json:"group_id"`
	CurrencyCode   string `json:"currency_code,omitempty"`
	User0ID        int64  `json:"users__0__user_id"`
	User0PaidShare string `json:"users__0__paid_share"`
	User0OwedShare string `json:"users__0__owed_share"`
	User1ID        int64  `json:"users__1__user_id"`
	User1PaidShare string `json:"users__1__paid_share"`
	User1OwedShare string `json:"users__1__owed_share"`
}

// CurrentUserResponse represents the response from /get_current_user.
type CurrentUserResponse struct {
	User User `json:"user"`
}

// FriendsResponse represents the response from /get_friends.
type FriendsResponse struct {
	Friends []User `json:"friends"`
}

// ExpensesResponse represents the response from /get_expenses and
// /create_expense.
type ExpensesResponse struct {
	Expenses []Expense           `json:"expenses"`
	Errors   map[string][]string `json:"errors,omitempty"`
}
