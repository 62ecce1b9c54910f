package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second

	// Tokens are discarded this long before their advertised expiry,
	// to avoid using one that dies mid-request.
	DefaultMargin = 60 * time.Second
)

// Credentials for the client-credentials exchange.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Scope        string
}

// Token is a bearer credential with its local expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenCache acquires and caches a bearer token for the mobile API.
// The cached path makes no network call; expiry (with safety margin)
// forces a fresh exchange. Safe for concurrent use: the mutex keeps at
// most one exchange in flight.
type TokenCache struct {
	URL         string
	Credentials Credentials
	Timeout     time.Duration
	Margin      time.Duration
	HTTPClient  *http.Client
	TimeNow     func() time.Time
	Logger      *slog.Logger

	mutex sync.Mutex
	token Token
}

func NewTokenCache(url string, creds Credentials) *TokenCache {
	return &TokenCache{
		URL:         url,
		Credentials: creds,
		Timeout:     DefaultTimeout,
		Margin:      DefaultMargin,
		TimeNow:     time.Now,
	}
}

type exchangeRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
	Scope        string `json:"scope"`
}

type exchangeResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Token returns a valid bearer token string, performing the
// client-credentials exchange only when the cached token is missing or
// expired.
func (tc *TokenCache) Token(ctx context.Context) (string, error) {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	now := tc.TimeNow()
	if tc.token.Value != "" && now.Before(tc.token.ExpiresAt) {
		return tc.token.Value, nil
	}

	token, err := tc.exchange(ctx, now)
	if err != nil {
		// Nothing is cached on failure, so the next call retries.
		tc.token = Token{}
		return "", err
	}

	tc.token = token
	if tc.Logger != nil {
		tc.Logger.Debug("acquired token", "expires_at", token.ExpiresAt)
	}
	return token.Value, nil
}

// Invalidate discards the cached token, forcing re-acquisition on the
// next call. Used when the far end rejects a token we thought valid.
func (tc *TokenCache) Invalidate() {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()
	tc.token = Token{}
}

func (tc *TokenCache) exchange(ctx context.Context, now time.Time) (Token, error) {
	body, err := json.Marshal(exchangeRequest{
		ClientID:     tc.Credentials.ClientID,
		ClientSecret: tc.Credentials.ClientSecret,
		GrantType:    "client_credentials",
		Scope:        tc.Credentials.Scope,
	})
	if err != nil {
		return Token{}, fmt.Errorf("encoding exchange request: %w", err)
	}

	timeout := tc.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", tc.URL, bytes.NewReader(body))
	if err != nil {
		return Token{}, fmt.Errorf("creating exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := tc.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("auth exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Token{}, fmt.Errorf("auth exchange: status %d", resp.StatusCode)
	}

	var parsed exchangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Token{}, fmt.Errorf("decoding exchange response: %w", err)
	}
	if parsed.AccessToken == "" {
		return Token{}, fmt.Errorf("auth exchange: empty access_token")
	}

	margin := tc.Margin
	if margin == 0 {
		margin = DefaultMargin
	}

	return Token{
		Value:     parsed.AccessToken,
		ExpiresAt: now.Add(time.Duration(parsed.ExpiresIn)*time.Second - margin),
	}, nil
}
