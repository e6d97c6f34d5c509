// Package verify consumes the external identity-verification provider:
// a challenge keyed by an app-defined action at a required assurance
// level, reduced here to a boolean outcome.
package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"kilroy/internal/config"
	"kilroy/internal/metrics"
)

// Proof is the challenge response forwarded from the client.
type Proof struct {
	Proof         string `json:"proof"`
	MerkleRoot    string `json:"merkle_root"`
	NullifierHash string `json:"nullifier_hash"`
	Level         string `json:"verification_level"`
}

type Verifier interface {
	Verify(ctx context.Context, proof Proof) (bool, error)
}

// New returns the HTTP client when a provider app id is configured and
// the development bypass otherwise. The bypass is an intentional escape
// hatch for running outside the provider's host environment, not a bug.
func New(cfg config.Verify) Verifier {
	if cfg.AppID == "" {
		return Bypass{}
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Bypass treats every caller as verified.
type Bypass struct{}

func (Bypass) Verify(context.Context, Proof) (bool, error) {
	metrics.Verifications.WithLabelValues("bypass").Inc()
	return true, nil
}

// Client checks proofs against the provider's verify endpoint.
type Client struct {
	cfg    config.Verify
	client *http.Client
}

func (c *Client) Verify(ctx context.Context, proof Proof) (bool, error) {
	payload := map[string]string{
		"action":             c.cfg.Action,
		"proof":              proof.Proof,
		"merkle_root":        proof.MerkleRoot,
		"nullifier_hash":     proof.NullifierHash,
		"verification_level": c.cfg.Level,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}

	url := fmt.Sprintf("%s/api/v2/verify/%s", c.cfg.BaseURL, c.cfg.AppID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.Verifications.WithLabelValues("error").Inc()
		return false, fmt.Errorf("verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		metrics.Verifications.WithLabelValues("success").Inc()
		return true, nil
	}
	metrics.Verifications.WithLabelValues("rejected").Inc()
	return false, nil
}

var _ Verifier = (*Client)(nil)
