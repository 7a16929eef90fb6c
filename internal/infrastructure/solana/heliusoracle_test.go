package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokengate/internal/domain/gate"
	sharedConfig "tokengate/internal/shared/config"
	"tokengate/internal/shared/logger"
)

const (
	testWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	testMint   = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

func newTestOracle(t *testing.T, handler http.HandlerFunc) (*HeliusOracle, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	oracle := NewHeliusOracle(&sharedConfig.HeliusConfig{
		RPCURL:      server.URL,
		APIKey:      "test-key",
		RateLimitMS: 0,
	}, logger.NewLogger())
	return oracle, server
}

func decodeRPCRequest(t *testing.T, r *http.Request) rpcRequest {
	t.Helper()
	var req rpcRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func writeRPCResult(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()
	raw, err := json.Marshal(result)
	require.NoError(t, err)
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      "tokengate",
		"result":  json.RawMessage(raw),
	}))
}

func TestGetTokenBalance_FungibleAssetInIndex(t *testing.T) {
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRPCRequest(t, r)
		assert.Equal(t, "getAssetsByOwner", req.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("api-key"))

		writeRPCResult(t, w, assetsByOwnerResult{Items: []asset{
			{ID: "SomeOtherMint1111111111111111111111111111111"},
			{ID: testMint, TokenInfo: &assetTokenInfo{Balance: 1500, Decimals: 0}},
		}})
	})

	balance, err := oracle.GetTokenBalance(context.Background(), testWallet, testMint)

	require.NoError(t, err)
	assert.Equal(t, float64(1500), balance)
}

func TestGetTokenBalance_NFTAssetCountsAsOne(t *testing.T) {
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		writeRPCResult(t, w, assetsByOwnerResult{Items: []asset{
			{ID: testMint},
		}})
	})

	balance, err := oracle.GetTokenBalance(context.Background(), testWallet, testMint)

	require.NoError(t, err)
	assert.Equal(t, float64(1), balance)
}

func TestGetTokenBalance_CollectionGroupingCountsAsOne(t *testing.T) {
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		writeRPCResult(t, w, assetsByOwnerResult{Items: []asset{
			{
				ID: "SomeNFT111111111111111111111111111111111111",
				Grouping: []assetGrouping{
					{GroupKey: "collection", GroupValue: testMint},
				},
			},
		}})
	})

	balance, err := oracle.GetTokenBalance(context.Background(), testWallet, testMint)

	require.NoError(t, err)
	assert.Equal(t, float64(1), balance)
}

func TestGetTokenBalance_FallsBackToTokenAccounts(t *testing.T) {
	var calls int32
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRPCRequest(t, r)
		switch atomic.AddInt32(&calls, 1) {
		case 1:
			assert.Equal(t, "getAssetsByOwner", req.Method)
			writeRPCResult(t, w, assetsByOwnerResult{})
		case 2:
			assert.Equal(t, "getTokenAccountsByOwner", req.Method)
			require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"id":      "tokengate",
				"result": map[string]any{
					"value": []map[string]any{
						{"account": map[string]any{"data": map[string]any{"parsed": map[string]any{"info": map[string]any{"tokenAmount": map[string]any{"uiAmount": 120.5}}}}}},
						{"account": map[string]any{"data": map[string]any{"parsed": map[string]any{"info": map[string]any{"tokenAmount": map[string]any{"uiAmount": 30.0}}}}}},
					},
				},
			}))
		}
	})

	balance, err := oracle.GetTokenBalance(context.Background(), testWallet, testMint)

	require.NoError(t, err)
	assert.Equal(t, 150.5, balance)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetTokenBalance_RPCErrorPropagates(t *testing.T) {
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      "tokengate",
			"error":   map[string]any{"code": -32600, "message": "rate limit exceeded"},
		}))
	})

	balance, err := oracle.GetTokenBalance(context.Background(), testWallet, testMint)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
	assert.Zero(t, balance)
}

func TestGetTokenBalance_HTTPErrorPropagates(t *testing.T) {
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := oracle.GetTokenBalance(context.Background(), testWallet, testMint)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestGetTokenBalance_InvalidAddresses(t *testing.T) {
	called := false
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := oracle.GetTokenBalance(context.Background(), "not-base58!", testMint)
	assert.ErrorIs(t, err, gate.ErrInvalidWalletAddress)

	_, err = oracle.GetTokenBalance(context.Background(), testWallet, "short")
	assert.ErrorIs(t, err, gate.ErrInvalidMintAddress)

	assert.False(t, called)
}

func TestGetTokenBalance_RequestsAreSpaced(t *testing.T) {
	var timestamps []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timestamps = append(timestamps, time.Now())
		writeRPCResult(t, w, assetsByOwnerResult{Items: []asset{
			{ID: testMint, TokenInfo: &assetTokenInfo{Balance: 10}},
		}})
	}))
	defer server.Close()

	oracle := NewHeliusOracle(&sharedConfig.HeliusConfig{
		RPCURL:      server.URL,
		APIKey:      "test-key",
		RateLimitMS: 60,
	}, logger.NewLogger())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := oracle.GetTokenBalance(ctx, testWallet, testMint)
		require.NoError(t, err)
	}

	require.Len(t, timestamps, 3)
	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		assert.GreaterOrEqual(t, gap, 50*time.Millisecond, fmt.Sprintf("gap %d too small: %v", i, gap))
	}
}

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		valid   bool
	}{
		{"valid wallet", testWallet, true},
		{"valid mint", testMint, true},
		{"too short", "abc", false},
		{"empty", "", false},
		{"contains zero", "0xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", false},
		{"contains letter O", "OxKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", false},
		{"contains symbol", "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosg!sU", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, IsValidAddress(tc.address))
		})
	}
}
