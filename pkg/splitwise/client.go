package splitwise

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

// DefaultAPIURL is the production Splitwise API base URL.
const DefaultAPIURL = "https://secure.splitwise.com/api/v3.0"

// ErrUnauthorized indicates rejected credentials.
var ErrUnauthorized = errors.New("splitwise: unauthorized")

// APIError represents an error response from the Splitwise API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("splitwise API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("splitwise API error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap lets callers detect authentication failures with errors.Is.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// ClientConfig represents the configuration for the Splitwise API client.
type ClientConfig struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration // Default: 30 seconds
}

// Client is a Splitwise API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a new Splitwise API client.
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
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  config.APIKey,
	}
}

// GetCurrentUser returns the authenticated Splitwise user.
func (c *Client) GetCurrentUser() (*User, error) {
	var resp CurrentUserResponse
	if err := c.get("/get_current_user", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}
	return &resp.User, nil
}

// GetFriends returns the authenticated user's friends.
func (c *Client) GetFriends() ([]User, error) {
	var resp FriendsResponse
	if err := c.get("/get_friends", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch friends: %w", err)
	}
	return resp.Friends, nil
}

// ListExpenses lists expenses updated after the given date (YYYY-MM-DD)
// with limit/offset pagination parameters.
func (c *Client) ListExpenses(updatedAfter string, limit, offset int) ([]Expense, error) {
	params := url.Values{}
	params.Set("updated_after", updatedAfter)
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("offset", fmt.Sprintf("%d", offset))

	var resp ExpensesResponse
	if err := c.get("/get_expenses", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return resp.Expenses, nil
}

// FetchAllExpenses fetches expenses updated after the given date with
// pagination, up to maxRecords.
func (c *Client) FetchAllExpenses(updatedAfter string, maxRecords int) ([]Expense, error) {
	var all []Expense
	offset := 0
	limit := 100

	for len(all) < maxRecords {
		pageLimit := limit
		if remaining := maxRecords - len(all); remaining < pageLimit {
			pageLimit = remaining
		}

		page, err := c.ListExpenses(updatedAfter, pageLimit, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch expenses (offset=%d): %w", offset, err)
		}

		if len(page) == 0 {
			break
		}

		all = append(all, page...)

		if len(page) < pageLimit {
			break
		}

		offset += len(page)
	}

	return all, nil
}

// CreateExpense creates an expense and returns the created expense id.
func (c *Client) CreateExpense(req ExpenseCreate) (int64, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("failed to encode expense: %w", err)
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+"/create_expense", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("failed to make request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return 0, c.parseError(httpResp)
	}

	var resp ExpensesResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	// Splitwise reports create failures in the errors object with status 200.
	if len(resp.Errors) > 0 {
		return 0, &APIError{StatusCode: httpResp.StatusCode, Message: flattenErrors(resp.Errors)}
	}
	if len(resp.Expenses) == 0 {
		return 0, &APIError{StatusCode: httpResp.StatusCode, Message: "create_expense returned no expense object"}
	}

	return resp.Expenses[0].ID, nil
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

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")
}

// parseError parses an error response from the Splitwise API.
func (c *Client) parseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "failed to read error response"}
	}

	var errResp struct {
		Error  string              `json:"error"`
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	if errResp.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}
	if len(errResp.Errors) > 0 {
		return &APIError{StatusCode: resp.StatusCode, Message: flattenErrors(errResp.Errors)}
	}

	return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
}

func flattenErrors(errs map[string][]string) string {
	var parts []string
	for field, messages := range errs {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(messages, "; ")))
	}
	return strings.Join(parts, ", ")
}
