package telos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/telos-kitchen/account-service/internal/config"
)

// Client talks to a Telos chain API node and a wallet daemon. The chain
// node answers reads and accepts packed transactions; the wallet holds
// the creator key and signs on our behalf, so the private key never
// enters this process.
type Client struct {
	apiURL    string
	walletURL string

	creator    string
	creatorKey string // public key selecting the signing key in the wallet
	ramBytes   int32
	netStake   string
	cpuStake   string

	http *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiURL:     strings.TrimRight(cfg.TelosAPIURL, "/"),
		walletURL:  strings.TrimRight(cfg.TelosWalletAPIURL, "/"),
		creator:    cfg.TelosCreatorAccount,
		creatorKey: cfg.TelosCreatorKey,
		ramBytes:   cfg.TelosRAMBytes,
		netStake:   cfg.TelosNetStake,
		cpuStake:   cfg.TelosCPUStake,
		http:       &http.Client{Timeout: 15 * time.Second},
	}
}

// AccountExists probes /v1/chain/get_account. The chain answers an
// "unknown key" assertion for names that don't exist; any other failure
// is a real fault.
func (c *Client) AccountExists(ctx context.Context, name string) (bool, error) {
	body, status, err := c.postRaw(ctx, c.apiURL+"/v1/chain/get_account", map[string]string{
		"account_name": name,
	})
	if err != nil {
		return false, err
	}
	if status == http.StatusOK {
		return true, nil
	}
	if bytes.Contains(body, []byte("unknown key")) {
		return false, nil
	}
	return false, fmt.Errorf("get_account %s: status %d: %s", name, status, chainErrorMessage(body))
}

// post sends a JSON request and decodes a JSON response, treating any
// non-2xx status as an error carrying the chain's error message.
func (c *Client) post(ctx context.Context, url string, in, out interface{}) error {
	body, status, err := c.postRaw(ctx, url, in)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%s: status %d: %s", url, status, chainErrorMessage(body))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) postRaw(ctx context.Context, url string, in interface{}) ([]byte, int, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: read response: %w", url, err)
	}
	return body, resp.StatusCode, nil
}

// chainErrorMessage extracts the most specific message from an eosio
// error payload, falling back to the raw body.
func chainErrorMessage(body []byte) string {
	var ce struct {
		Error struct {
			What    string `json:"what"`
			Details []struct {
				Message string `json:"message"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &ce); err == nil {
		if len(ce.Error.Details) > 0 && ce.Error.Details[0].Message != "" {
			return ce.Error.Details[0].Message
		}
		if ce.Error.What != "" {
			return ce.Error.What
		}
	}
	return string(body)
}
