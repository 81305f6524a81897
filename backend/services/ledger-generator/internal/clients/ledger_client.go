package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"lremanager/backend/services/ledger-generator/internal/models"
)

const (
	requestIDHeader = "X-Request-ID"
	authHeader      = "Authorization"
)

// TokenSource yields a bearer token for outgoing requests. An empty token sends no header.
type TokenSource interface {
	Token() (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() (string, error)

// Token implements TokenSource.
func (f TokenFunc) Token() (string, error) { return f() }

// LedgerClient submits transactions to the ledger API.
type LedgerClient struct {
	base   *BaseClient
	tokens TokenSource
	newID  func() string
}

// NewLedgerClient returns client instance. tokens may be nil.
func NewLedgerClient(baseURL string, httpClient HTTPDoer, tokens TokenSource) *LedgerClient {
	return &LedgerClient{
		base:   NewBaseClient(baseURL, httpClient),
		tokens: tokens,
		newID:  func() string { return uuid.NewString() },
	}
}

// EntryPath returns the ledger path for a program, relative to the base URL.
func EntryPath(programID int64) string {
	return fmt.Sprintf("/programs/%d/ledger", programID)
}

// CreateEntry posts tx to the program ledger and returns the raw status and body.
// A non-nil error means no HTTP response was obtained.
func (c *LedgerClient) CreateEntry(ctx context.Context, programID int64, tx models.Transaction) (int, []byte, error) {
	body, err := json.Marshal(tx)
	if err != nil {
		return 0, nil, fmt.Errorf("ledger client: encode transaction: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set(requestIDHeader, c.newID())
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return 0, nil, fmt.Errorf("ledger client: token: %w", err)
		}
		if token != "" {
			header.Set(authHeader, "Bearer "+token)
		}
	}

	status, respBody, err := c.base.PostJSON(ctx, EntryPath(programID), body, header)
	if err != nil {
		return status, respBody, fmt.Errorf("ledger client: %w", err)
	}
	return status, respBody, nil
}
