package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/whisprhq/whispr-cli/internal/domain"
	"github.com/whisprhq/whispr-cli/internal/ports"
)

const (
	defaultConfirmWindow = 30 * time.Second
	confirmPollInterval  = 2 * time.Second
)

// Client talks to one Solana RPC endpoint. The same endpoint also serves the
// DAS asset queries used for premium pass lookups.
type Client struct {
	rpc      *rpc.Client
	endpoint string
	http     *http.Client

	// ConfirmWindow bounds Confirm; zero means the default window.
	ConfirmWindow time.Duration
}

var _ ports.LedgerClient = (*Client)(nil)

func NewClient(endpoint string) *Client {
	return &Client{
		rpc:      rpc.New(endpoint),
		endpoint: endpoint,
		http:     http.DefaultClient,
	}
}

func (c *Client) LatestAnchor(ctx context.Context) (domain.Anchor, error) {
	result, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return domain.Anchor{}, fmt.Errorf("get latest blockhash: %w", err)
	}

	return domain.Anchor{
		Blockhash:            result.Value.Blockhash.String(),
		LastValidBlockHeight: result.Value.LastValidBlockHeight,
	}, nil
}

func (c *Client) Balance(ctx context.Context, address string) (uint64, error) {
	key, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return 0, fmt.Errorf("parse address: %w", err)
	}

	result, err := c.rpc.GetBalance(ctx, key, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return result.Value, nil
}

func (c *Client) Broadcast(ctx context.Context, tx *solana.Transaction) (string, error) {
	signature, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}

	return signature.String(), nil
}

// Confirm polls signature statuses until the transaction reaches confirmed
// commitment. The anchor's block height bound is enforced server-side; the
// local window exists so a dropped transaction does not hang the caller.
func (c *Client) Confirm(ctx context.Context, signature string, _ domain.Anchor) error {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return fmt.Errorf("parse signature: %w", err)
	}

	window := c.ConfirmWindow
	if window == 0 {
		window = defaultConfirmWindow
	}

	ctx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	for {
		result, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		if err == nil && len(result.Value) > 0 && result.Value[0] != nil {
			status := result.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction failed on chain: %v", status.Err)
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("confirmation window elapsed: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

type dasRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      int              `json:"id"`
	Method  string           `json:"method"`
	Params  dasRequestParams `json:"params"`
}

type dasRequestParams struct {
	OwnerAddress string `json:"ownerAddress"`
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
}

type dasResponse struct {
	Result *dasResult    `json:"result"`
	Error  *jsonRPCError `json:"error"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type dasResult struct {
	Items []dasAsset `json:"items"`
}

type dasAsset struct {
	ID       string `json:"id"`
	Grouping []struct {
		GroupKey   string `json:"group_key"`
		GroupValue string `json:"group_value"`
	} `json:"grouping"`
}

// AssetsByOwner queries the DAS getAssetsByOwner extension. Not every RPC
// provider serves it; callers treat failure as "no assets known".
func (c *Client) AssetsByOwner(ctx context.Context, address string) ([]ports.OwnedAsset, error) {
	payload, err := json.Marshal(dasRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getAssetsByOwner",
		Params:  dasRequestParams{OwnerAddress: address, Page: 1, Limit: 1000},
	})
	if err != nil {
		return nil, fmt.Errorf("encode asset query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build asset query: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query assets: unexpected status %d", resp.StatusCode)
	}

	var decoded dasResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode asset response: %w", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("query assets: %s (code %d)", decoded.Error.Message, decoded.Error.Code)
	}
	if decoded.Result == nil {
		return nil, errors.New("query assets: empty result")
	}

	assets := make([]ports.OwnedAsset, 0, len(decoded.Result.Items))
	for _, item := range decoded.Result.Items {
		asset := ports.OwnedAsset{ID: item.ID}
		for _, group := range item.Grouping {
			if group.GroupKey == "collection" {
				asset.CollectionID = group.GroupValue
				break
			}
		}
		assets = append(assets, asset)
	}

	return assets, nil
}
