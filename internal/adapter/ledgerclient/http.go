// Package ledgerclient provides the coordinator's implementations of the
// ledger boundary: an HTTP client for a remote account ledger and an
// in-process adapter for single-deployment setups.
package ledgerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ledger-core/config"
	"ledger-core/internal/core/domain"
	"ledger-core/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultTimeout = 5 * time.Second

// HTTPGateway implements ports.LedgerGateway against a remote account
// ledger's REST API. Calls carry a bounded timeout; a timeout or transport
// error surfaces as a plain error, which callers treat as a remote fault.
type HTTPGateway struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPGateway creates a gateway for the ledger at cfg.BaseURL.
func NewHTTPGateway(cfg config.LedgerConfig) *HTTPGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPGateway{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
	}
}

// GetAccount reads the current account snapshot.
func (g *HTTPGateway) GetAccount(ctx context.Context, id uuid.UUID) (*ports.AccountSnapshot, error) {
	url := fmt.Sprintf("%s/api/v1/accounts/%s", g.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building ledger request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ledger: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, mapLedgerError(resp)
	}

	var envelope struct {
		Data ports.AccountSnapshot `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding ledger response: %w", err)
	}
	return &envelope.Data, nil
}

// UpdateBalance applies a credit or debit on the remote ledger.
func (g *HTTPGateway) UpdateBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal, op domain.BalanceOperation) error {
	payload, err := json.Marshal(map[string]any{
		"amount":    amount,
		"operation": op,
	})
	if err != nil {
		return fmt.Errorf("marshaling balance update: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/accounts/%s/balance", g.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building ledger request: %w", err)
	}
	g.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling ledger: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return mapLedgerError(resp)
	}
	return nil
}

func (g *HTTPGateway) setHeaders(req *http.Request) {
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
}

// mapLedgerError translates a non-200 ledger response into sentinel errors
// where the error code identifies a known account fault.
func mapLedgerError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var envelope struct {
		ErrorCode string `json:"error_code"`
		Message   string `json:"message"`
	}
	_ = json.Unmarshal(body, &envelope)

	switch envelope.ErrorCode {
	case "ACC_001":
		return ports.ErrLedgerAccountNotFound
	case "ACC_002":
		return ports.ErrLedgerAccountNotActive
	case "ACC_003":
		return ports.ErrLedgerInsufficientFunds
	}
	if resp.StatusCode == http.StatusNotFound {
		return ports.ErrLedgerAccountNotFound
	}
	return fmt.Errorf("ledger returned status %d: %s", resp.StatusCode, envelope.Message)
}
