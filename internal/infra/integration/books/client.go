// Package books is the client for the accounting platform: OAuth2
// authorization-code flow plus the expense listing the ad-spend refresh
// feeds on. Tokens live in the record store, not in process memory, so
// every invocation can pick up the current credential.
package books

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldline/lead-relay/internal/entity"
	"github.com/fieldline/lead-relay/internal/usecase"
)

const (
	serviceName = "books"

	// TokenService is the key of the credential row in the record store.
	TokenService = "books"
)

type Client struct {
	clientID     string
	clientSecret string
	redirectURL  string
	baseURL      string
	authURL      string
	tokenURL     string

	tokens entity.TokenRepositoryInterface
	http   *http.Client

	// Guards the read-refresh-write cycle on the shared token row so
	// overlapping invocations cannot interleave refreshes.
	refreshMu sync.Mutex
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	BaseURL      string
	AuthURL      string
	TokenURL     string
}

func NewClient(cfg Config, tokens entity.TokenRepositoryInterface) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, usecase.NewConfigError("BOOKS_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		return nil, usecase.NewConfigError("BOOKS_CLIENT_SECRET")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.books.example.com/v3"
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = "https://auth.books.example.com/connect/authorize"
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = "https://auth.books.example.com/connect/token"
	}
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURL:  cfg.RedirectURL,
		baseURL:      cfg.BaseURL,
		authURL:      cfg.AuthURL,
		tokenURL:     cfg.TokenURL,
		tokens:       tokens,
		http:         &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// AuthorizeURL builds the consent-screen redirect for the OAuth
// authorization-code flow.
func (c *Client) AuthorizeURL(state string) string {
	query := url.Values{}
	query.Set("client_id", c.clientID)
	query.Set("response_type", "code")
	query.Set("scope", "com.books.accounting")
	query.Set("redirect_uri", c.redirectURL)
	query.Set("state", state)
	return c.authURL + "?" + query.Encode()
}

// ExchangeCode trades the callback code for tokens and persists them.
func (c *Client) ExchangeCode(ctx context.Context, code, realmID string) error {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURL)

	tokens, err := c.postToken(ctx, form)
	if err != nil {
		return err
	}

	return c.saveToken(ctx, tokens, realmID)
}

// Refresh rewrites the stored token using its refresh token. Guarded by
// a mutex: concurrent refreshes collapse to one consistent write.
func (c *Client) Refresh(ctx context.Context) (*entity.OAuthToken, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	stored, err := c.tokens.Get(ctx, TokenService)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.RefreshToken == "" {
		return nil, usecase.NewConfigError("books OAuth connection (no stored token)")
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", stored.RefreshToken)

	tokens, err := c.postToken(ctx, form)
	if err != nil {
		return nil, err
	}

	if err := c.saveToken(ctx, tokens, stored.RealmID); err != nil {
		return nil, err
	}
	return c.tokens.Get(ctx, TokenService)
}

// ListExpenses returns the categorized expense lines in [from, to]. An
// expired access token is refreshed once and the call retried.
func (c *Client) ListExpenses(ctx context.Context, from, to time.Time) ([]entity.Expense, error) {
	token, err := c.tokens.Get(ctx, TokenService)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, usecase.NewConfigError("books OAuth connection (no stored token)")
	}

	if token.Expired(time.Now()) {
		if token, err = c.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	expenses, status, err := c.fetchExpenses(ctx, token, from, to)
	if status == http.StatusUnauthorized {
		if token, err = c.Refresh(ctx); err != nil {
			return nil, err
		}
		expenses, _, err = c.fetchExpenses(ctx, token, from, to)
	}
	return expenses, err
}

func (c *Client) fetchExpenses(ctx context.Context, token *entity.OAuthToken, from, to time.Time) ([]entity.Expense, int, error) {
	query := url.Values{}
	query.Set("start_date", from.Format("2006-01-02"))
	query.Set("end_date", to.Format("2006-01-02"))
	if token.RealmID != "" {
		query.Set("realm_id", token.RealmID)
	}
	endpoint := c.baseURL + "/expenses?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, usecase.NewUpstreamError(serviceName, "list expenses", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, resp.StatusCode, usecase.NewUpstreamError(serviceName, "access token rejected", nil)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, resp.StatusCode, usecase.NewUpstreamError(serviceName,
			fmt.Sprintf("list expenses returned %d: %s", resp.StatusCode, string(body)), nil)
	}

	var response listExpensesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, resp.StatusCode, usecase.NewUpstreamError(serviceName, "decode expenses", err)
	}

	expenses := make([]entity.Expense, 0, len(response.Expenses))
	for _, line := range response.Expenses {
		expenses = append(expenses, entity.Expense{
			Amount:   decimal.NewFromFloat(line.Amount),
			Category: line.Category,
		})
	}
	return expenses, resp.StatusCode, nil
}

func (c *Client) postToken(ctx context.Context, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, usecase.NewUpstreamError(serviceName, "token request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, usecase.NewUpstreamError(serviceName,
			fmt.Sprintf("token endpoint returned %d: %s", resp.StatusCode, string(body)), nil)
	}

	var tokens tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, usecase.NewUpstreamError(serviceName, "decode token response", err)
	}
	return &tokens, nil
}

func (c *Client) saveToken(ctx context.Context, tokens *tokenResponse, realmID string) error {
	return c.tokens.Save(ctx, &entity.OAuthToken{
		Service:      TokenService,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		RealmID:      realmID,
		ExpiresAt:    time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second),
	})
}
