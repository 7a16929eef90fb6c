package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"tokengate/internal/domain/gate"
	sharedConfig "tokengate/internal/shared/config"
	"tokengate/internal/shared/logger"
)

const (
	// HTTP request timeout per RPC call
	heliusRequestTimeout = 30 * time.Second
	// Maximum response body size (4MB; an asset page can be large)
	maxHeliusResponseSize = 4 << 20
	// Assets fetched per getAssetsByOwner page
	assetPageLimit = 1000
)

// base58 alphabet, 32 to 44 characters
var solanaAddressRegex = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// IsValidAddress reports whether s looks like a Solana address
func IsValidAddress(s string) bool {
	return solanaAddressRegex.MatchString(s)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Error  *rpcError       `json:"error"`
	Result json.RawMessage `json:"result"`
}

type assetGrouping struct {
	GroupKey   string `json:"group_key"`
	GroupValue string `json:"group_value"`
}

type assetTokenInfo struct {
	Balance  float64 `json:"balance"`
	Decimals int     `json:"decimals"`
}

type asset struct {
	ID        string          `json:"id"`
	TokenInfo *assetTokenInfo `json:"token_info"`
	Grouping  []assetGrouping `json:"grouping"`
}

type assetsByOwnerResult struct {
	Items []asset `json:"items"`
}

type tokenAccountsResult struct {
	Value []struct {
		Account struct {
			Data struct {
				Parsed struct {
					Info struct {
						TokenAmount struct {
							UIAmount float64 `json:"uiAmount"`
						} `json:"tokenAmount"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"account"`
	} `json:"value"`
}

// HeliusOracle resolves token balances through the Helius asset index.
// Every outbound RPC call goes through a shared min-interval limiter,
// so one oracle instance must be shared by all callers.
type HeliusOracle struct {
	rpcURL     string
	apiKey     string
	httpClient *http.Client
	limiter    *minIntervalLimiter
	logger     logger.Interface
}

// NewHeliusOracle creates a new HeliusOracle
func NewHeliusOracle(cfg *sharedConfig.HeliusConfig, logger logger.Interface) *HeliusOracle {
	return &HeliusOracle{
		rpcURL: cfg.RPCURL,
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: heliusRequestTimeout,
		},
		limiter: newMinIntervalLimiter(time.Duration(cfg.RateLimitMS) * time.Millisecond),
		logger:  logger,
	}
}

// GetTokenBalance resolves the balance walletAddress holds of
// mintAddress. Compressed and regular NFTs matching the mint (directly
// or via collection grouping) count as 1; fungible holdings use the
// asset index balance, falling back to summing token accounts when the
// index has no entry for the mint.
func (o *HeliusOracle) GetTokenBalance(ctx context.Context, walletAddress, mintAddress string) (float64, error) {
	if !IsValidAddress(walletAddress) {
		return 0, fmt.Errorf("%w: %s", gate.ErrInvalidWalletAddress, walletAddress)
	}
	if !IsValidAddress(mintAddress) {
		return 0, fmt.Errorf("%w: %s", gate.ErrInvalidMintAddress, mintAddress)
	}

	assets, err := o.getAssetsByOwner(ctx, walletAddress)
	if err != nil {
		return 0, err
	}

	for _, a := range assets {
		if a.ID == mintAddress {
			if a.TokenInfo != nil {
				return a.TokenInfo.Balance, nil
			}
			return 1, nil
		}
		for _, g := range a.Grouping {
			if g.GroupKey == "collection" && g.GroupValue == mintAddress {
				return 1, nil
			}
		}
	}

	// Fungible tokens beyond the first asset page are not guaranteed to
	// show up in getAssetsByOwner; ask the token account index directly.
	return o.getFungibleTokenBalance(ctx, walletAddress, mintAddress)
}

func (o *HeliusOracle) getAssetsByOwner(ctx context.Context, walletAddress string) ([]asset, error) {
	params := map[string]any{
		"ownerAddress": walletAddress,
		"page":         1,
		"limit":        assetPageLimit,
	}

	var result assetsByOwnerResult
	if err := o.call(ctx, "getAssetsByOwner", params, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (o *HeliusOracle) getFungibleTokenBalance(ctx context.Context, walletAddress, mintAddress string) (float64, error) {
	params := []any{
		walletAddress,
		map[string]string{"mint": mintAddress},
		map[string]string{"encoding": "jsonParsed"},
	}

	var result tokenAccountsResult
	if err := o.call(ctx, "getTokenAccountsByOwner", params, &result); err != nil {
		return 0, err
	}

	total := 0.0
	for _, account := range result.Value {
		total += account.Account.Data.Parsed.Info.TokenAmount.UIAmount
	}
	return total, nil
}

// call performs one rate-limited JSON-RPC request
func (o *HeliusOracle) call(ctx context.Context, method string, params any, result any) error {
	if err := o.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "tokengate",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/?api-key=%s", o.rpcURL, o.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rpc request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc request failed with status %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxHeliusResponseSize)).Decode(&rpcResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("helius api error: %s", rpcResp.Error.Message)
	}

	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}
