package ynab

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultAPIURL is the production YNAB API base URL.
const DefaultAPIURL = "https://api.ynab.com/v1"

// ErrUnauthorized indicates rejected credentials.
var ErrUnauthorized = errors.New("ynab: unauthorized")

// APIError represents an error response from the YNAB API.
type APIError struct {
	StatusCode int
	Name       string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("ynab API error (status %d): %s", e.StatusCode, e.Name)
	}
	return fmt.Sprintf("ynab API error (status %d): %s - %s", e.StatusCode, e.Name, e.Detail)
}

// Unwrap lets callers detect authentication failures with errors.Is.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// ClientConfig represents the configuration for the YNAB API client.
type ClientConfig struct {
	APIURL      string
	AccessToken string
	BudgetID    string
	Timeout     time.Duration // Default: 30 seconds
}

// Client is a YNAB v1 API client scoped to a single budget.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	budgetID    string
}

// NewClient creates a new YNAB API client.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	baseURL := config.APIURL
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: config.AccessToken,
		budgetID:    config.BudgetID,
	}
}

// ListAccounts lists the budget's accounts.
func (c *Client) ListAccounts() ([]Account, error) {
	var resp AccountsResponse
	if err := c.get(fmt.Sprintf("/budgets/%s/accounts", c.budgetID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return resp.Data.Accounts, nil
}

// ListTransactions lists the budget's transactions. sinceDate (YYYY-MM-DD)
// is optional; empty fetches all history.
func (c *Client) ListTransactions(sinceDate string) ([]Transaction, error) {
	params := url.Values{}
	if sinceDate != "" {
		params.Set("since_date", sinceDate)
	}

	var resp TransactionsResponse
	if err := c.get(fmt.Sprintf("/budgets/%s/transactions", c.budgetID), params, &resp); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return resp.Data.Transactions, nil
}

// ListAccountTransactions lists one account's transactions since a date.
func (c *Client) ListAccountTransactions(accountID, sinceDate string) ([]Transaction, error) {
	params := url.Values{}
	if sinceDate != "" {
		params.Set("since_date", sinceDate)
	}

	path := fmt.Sprintf("/budgets/%s/accounts/%s/transactions", c.budgetID, accountID)
	var resp TransactionsResponse
	if err := c.get(path, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to list account transactions: %w", err)
	}
	return resp.Data.Transactions, nil
}

// CreateTransaction creates a single transaction and returns it.
func (c *Client) CreateTransaction(txn SaveTransaction) (*Transaction, error) {
	var resp SaveTransactionResponse
	path := fmt.Sprintf("/budgets/%s/transactions", c.budgetID)
	if err := c.send("POST", path, SaveTransactionRequest{Transaction: txn}, &resp); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return &resp.Data.Transaction, nil
}

// UpdateTransactionFlag sets or clears a transaction's flag color.
func (c *Client) UpdateTransactionFlag(transactionID string, color FlagColor) error {
	path := fmt.Sprintf("/budgets/%s/transactions/%s", c.budgetID, transactionID)
	req := FlagUpdateRequest{Transaction: FlagUpdate{FlagColor: color}}
	if err := c.send("PATCH", path, req, nil); err != nil {
		return fmt.Errorf("failed to update flag on transaction %s: %w", transactionID, err)
	}
	return nil
}

func (c *Client) get(path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) send(method, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.parseError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))
	req.Header.Set("Content-Type", "application/json")
}

// parseError parses an error response from the YNAB API.
func (c *Client) parseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Name: "failed to read error response"}
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Name == "" {
		return &APIError{StatusCode: resp.StatusCode, Name: string(body)}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Name:       errResp.Error.Name,
		Detail:     errResp.Error.Detail,
	}
}
