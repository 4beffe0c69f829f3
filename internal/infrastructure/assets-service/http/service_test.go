package http_assets_test

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/utxoforge/coinsource/internal/core/domain"
	"github.com/utxoforge/coinsource/internal/core/ports"
	http_assets "github.com/utxoforge/coinsource/internal/infrastructure/assets-service/http"
)

var (
	ctx  = context.Background()
	txid = "5df6e0e2761359d30a8275058e299fcc0381534545f55cf43e41983f5d4c9456"
)

func TestNewService(t *testing.T) {
	t.Parallel()

	_, err := http_assets.NewService(http_assets.ServiceArgs{})
	require.EqualError(t, err, "missing base url")

	_, err = http_assets.NewService(http_assets.ServiceArgs{
		BaseURL: "http://localhost:3000",
	})
	require.EqualError(t, err, "missing either token or app credentials")

	svc, err := http_assets.NewService(http_assets.ServiceArgs{
		BaseURL: "http://localhost:3000",
		Token:   "token",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestGetTransaction(t *testing.T) {
	t.Parallel()

	t.Run("valid_transaction", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "Bearer token", r.Header.Get("Authorization"))
				require.Equal(t, "/bitcoin/v1/transaction/"+txid, r.URL.Path)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"txid": txid,
					"vout": []map[string]interface{}{
						{"scriptpubkey": "0014" + hex.EncodeToString(make([]byte, 20)), "value": 5000},
					},
					"status": map[string]interface{}{
						"confirmed":    true,
						"block_height": 100,
					},
				})
			},
		))
		defer server.Close()

		svc := newTestService(t, server.URL)
		tx, err := svc.GetTransaction(ctx, txid)
		require.NoError(t, err)
		require.Equal(t, txid, tx.TxID)
		require.True(t, tx.IsConfirmed())
		require.Equal(t, int64(100), tx.Status.BlockHeight)
		require.Len(t, tx.Outputs, 1)
		require.Equal(t, uint64(5000), tx.Outputs[0].Value)
	})

	t.Run("unconfirmed_transaction_sentinel_height", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"txid": txid,
					"vout": []map[string]interface{}{
						{"scriptpubkey": "6a04deadbeef", "value": 0},
					},
					"status": map[string]interface{}{"confirmed": false},
				})
			},
		))
		defer server.Close()

		svc := newTestService(t, server.URL)
		tx, err := svc.GetTransaction(ctx, txid)
		require.NoError(t, err)
		require.False(t, tx.IsConfirmed())
		require.Equal(t, domain.UnconfirmedBlockHeight, tx.Status.BlockHeight)
	})

	t.Run("missing_transaction", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "no transaction with the given txid", http.StatusNotFound)
			},
		))
		defer server.Close()

		svc := newTestService(t, server.URL)
		tx, err := svc.GetTransaction(ctx, txid)
		require.ErrorIs(t, err, ports.ErrNotFound)
		require.Nil(t, tx)
	})

	t.Run("invalid_txid", func(t *testing.T) {
		svc := newTestService(t, "http://localhost:3000")
		_, err := svc.GetTransaction(ctx, "not a txid")
		require.Error(t, err)
	})

	t.Run("malformed_response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"vout": []map[string]interface{}{},
				})
			},
		))
		defer server.Close()

		svc := newTestService(t, server.URL)
		_, err := svc.GetTransaction(ctx, txid)
		respErr := &http_assets.ResponseError{}
		require.ErrorAs(t, err, &respErr)
	})

	t.Run("server_failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		))
		defer server.Close()

		svc := newTestService(t, server.URL)
		_, err := svc.GetTransaction(ctx, txid)
		respErr := &http_assets.ResponseError{}
		require.ErrorAs(t, err, &respErr)
		require.Equal(t, http.StatusInternalServerError, respErr.StatusCode)
	})
}

func TestListUtxos(t *testing.T) {
	t.Parallel()

	address := "bcrt1qw508d6qejxtdg4y5r3zarvary0c5xw7kygt080"

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/bitcoin/v1/address/"+address+"/unspent", r.URL.Path)
			require.Equal(t, "1000", r.URL.Query().Get("min_satoshi"))
			require.Equal(t, "true", r.URL.Query().Get("only_confirmed"))
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{
					"txid":         txid,
					"vout":         1,
					"value":        5000,
					"scriptpubkey": "0014" + hex.EncodeToString(make([]byte, 20)),
					"status": map[string]interface{}{
						"confirmed":    true,
						"block_height": 100,
					},
				},
			})
		},
	))
	defer server.Close()

	svc := newTestService(t, server.URL)
	records, err := svc.ListUtxos(ctx, address, ports.ListUtxosRequest{
		MinSatoshi:    1000,
		OnlyConfirmed: true,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, txid, records[0].TxID)
	require.Equal(t, uint32(1), records[0].VOut)
	require.Equal(t, uint64(5000), records[0].Value)
	require.Equal(t, int64(100), records[0].Status.BlockHeight)
}

func TestGetAssetBindings(t *testing.T) {
	t.Parallel()

	t.Run("bound_output", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, fmt.Sprintf("/assets/v1/bindings/%s/1", txid), r.URL.Path)
				json.NewEncoder(w).Encode([]map[string]interface{}{
					{"asset_id": "asset", "cell_id": "cell"},
				})
			},
		))
		defer server.Close()

		svc := newTestService(t, server.URL)
		bindings, err := svc.GetAssetBindings(ctx, txid, 1)
		require.NoError(t, err)
		require.Len(t, bindings, 1)
		require.Equal(t, "asset", bindings[0].AssetID)
	})

	t.Run("unbound_output", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode([]map[string]interface{}{})
			},
		))
		defer server.Close()

		svc := newTestService(t, server.URL)
		bindings, err := svc.GetAssetBindings(ctx, txid, 1)
		require.NoError(t, err)
		require.Empty(t, bindings)
	})
}

func TestGetPaymasterInfo(t *testing.T) {
	t.Parallel()

	t.Run("configured", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"address": "bcrt1qw508d6qejxtdg4y5r3zarvary0c5xw7kygt080",
					"fee":     7000,
				})
			},
		))
		defer server.Close()

		svc := newTestService(t, server.URL)
		info, err := svc.GetPaymasterInfo(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(7000), info.Fee)
	})

	t.Run("not_configured", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "no paymaster configured", http.StatusNotFound)
			},
		))
		defer server.Close()

		svc := newTestService(t, server.URL)
		info, err := svc.GetPaymasterInfo(ctx)
		require.ErrorIs(t, err, ports.ErrNotFound)
		require.Nil(t, info)
	})
}

func TestTokenGeneration(t *testing.T) {
	t.Parallel()

	tokenCalls := 0
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/token/generate" {
				tokenCalls++
				creds := struct {
					AppID     string `json:"app_id"`
					AppSecret string `json:"app_secret"`
				}{}
				json.NewDecoder(r.Body).Decode(&creds)
				require.Equal(t, "app", creds.AppID)
				require.Equal(t, "secret", creds.AppSecret)
				json.NewEncoder(w).Encode(map[string]interface{}{"token": "generated"})
				return
			}
			require.Equal(t, "Bearer generated", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode([]map[string]interface{}{})
		},
	))
	defer server.Close()

	svc, err := http_assets.NewService(http_assets.ServiceArgs{
		BaseURL:   server.URL,
		AppID:     "app",
		AppSecret: "secret",
	})
	require.NoError(t, err)

	// The token is generated on the first call only.
	for i := 0; i < 2; i++ {
		_, err = svc.GetAssetBindings(ctx, txid, 0)
		require.NoError(t, err)
	}
	require.Equal(t, 1, tokenCalls)
}

func newTestService(t *testing.T, baseURL string) ports.AssetsService {
	svc, err := http_assets.NewService(http_assets.ServiceArgs{
		BaseURL: baseURL,
		Token:   "token",
	})
	require.NoError(t, err)
	return svc
}
