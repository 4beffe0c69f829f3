package http_assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	log "github.com/sirupsen/logrus"

	"github.com/utxoforge/coinsource/internal/core/domain"
	"github.com/utxoforge/coinsource/internal/core/ports"
)

const defaultTimeout = 30 * time.Second

// ServiceArgs holds the args to connect to the remote assets service.
// Either a ready-to-use bearer token or an app id/secret pair must be
// provided. With the latter, a token is generated lazily on the first
// authenticated call.
type ServiceArgs struct {
	BaseURL   string
	Token     string
	AppID     string
	AppSecret string
	Timeout   time.Duration
}

func (a ServiceArgs) validate() error {
	if a.BaseURL == "" {
		return fmt.Errorf("missing base url")
	}
	if _, err := url.Parse(a.BaseURL); err != nil {
		return fmt.Errorf("invalid base url: %s", err)
	}
	if a.Token == "" && (a.AppID == "" || a.AppSecret == "") {
		return fmt.Errorf("missing either token or app credentials")
	}
	return nil
}

type service struct {
	baseURL string
	creds   tokenRequest
	client  *http.Client

	tokenLock sync.Mutex
	token     string

	log func(format string, a ...interface{})
}

// NewService returns an implementation of ports.AssetsService consuming an
// esplora-style remote indexer with bearer-token authentication.
func NewService(args ServiceArgs) (ports.AssetsService, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	timeout := args.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("assets service: %s", format)
		log.Debugf(format, a...)
	}
	return &service{
		baseURL: args.BaseURL,
		creds:   tokenRequest{AppID: args.AppID, AppSecret: args.AppSecret},
		client:  &http.Client{Timeout: timeout},
		token:   args.Token,
		log:     logFn,
	}, nil
}

func (s *service) GetTransaction(
	ctx context.Context, txid string,
) (*domain.Transaction, error) {
	if _, err := chainhash.NewHashFromStr(txid); err != nil {
		return nil, fmt.Errorf("invalid txid: %s", err)
	}

	var resp tx
	path := fmt.Sprintf("/bitcoin/v1/transaction/%s", txid)
	if err := s.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if err := resp.validate(); err != nil {
		return nil, &ResponseError{Message: err.Error()}
	}
	transaction, err := resp.toDomain()
	if err != nil {
		return nil, &ResponseError{Message: err.Error()}
	}
	return transaction, nil
}

func (s *service) ListUtxos(
	ctx context.Context, address string, req ports.ListUtxosRequest,
) ([]ports.UtxoRecord, error) {
	if address == "" {
		return nil, fmt.Errorf("missing address")
	}

	query := url.Values{}
	if req.MinSatoshi > 0 {
		query.Set("min_satoshi", strconv.FormatUint(req.MinSatoshi, 10))
	}
	query.Set("only_confirmed", strconv.FormatBool(req.OnlyConfirmed))
	query.Set("no_cache", strconv.FormatBool(req.NoCache))

	var resp []utxo
	path := fmt.Sprintf("/bitcoin/v1/address/%s/unspent?%s", address, query.Encode())
	if err := s.get(ctx, path, &resp); err != nil {
		return nil, err
	}

	records := make([]ports.UtxoRecord, 0, len(resp))
	for _, u := range resp {
		if err := u.validate(); err != nil {
			return nil, &ResponseError{Message: err.Error()}
		}
		record, err := u.toPort()
		if err != nil {
			return nil, &ResponseError{Message: err.Error()}
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *service) GetAssetBindings(
	ctx context.Context, txid string, vout uint32,
) ([]ports.AssetBinding, error) {
	if _, err := chainhash.NewHashFromStr(txid); err != nil {
		return nil, fmt.Errorf("invalid txid: %s", err)
	}

	var resp []assetBinding
	path := fmt.Sprintf("/assets/v1/bindings/%s/%d", txid, vout)
	if err := s.get(ctx, path, &resp); err != nil {
		return nil, err
	}

	bindings := make([]ports.AssetBinding, 0, len(resp))
	for _, b := range resp {
		bindings = append(bindings, b.toPort())
	}
	return bindings, nil
}

func (s *service) GetPaymasterInfo(
	ctx context.Context,
) (*ports.PaymasterInfo, error) {
	var resp paymasterInfo
	if err := s.get(ctx, "/assets/v1/paymaster/info", &resp); err != nil {
		return nil, err
	}
	if err := resp.validate(); err != nil {
		return nil, &ResponseError{Message: err.Error()}
	}
	return &ports.PaymasterInfo{Address: resp.Address, Fee: resp.Fee}, nil
}

func (s *service) get(ctx context.Context, path string, dest interface{}) error {
	token, err := s.getToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, s.baseURL+path, nil,
	)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return ports.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("invalid response body: %s", err),
		}
	}
	return nil
}

// getToken returns the bearer token, generating one from the app
// credentials on the very first authenticated call if none was provided.
func (s *service) getToken(ctx context.Context) (string, error) {
	s.tokenLock.Lock()
	defer s.tokenLock.Unlock()

	if s.token != "" {
		return s.token, nil
	}

	buf, _ := json.Marshal(s.creds)
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.baseURL+"/token/generate", bytes.NewReader(buf),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}
	token := tokenResponse{}
	if err := json.Unmarshal(body, &token); err != nil {
		return "", &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("invalid response body: %s", err),
		}
	}
	if token.Token == "" {
		return "", &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    "missing token in response",
		}
	}

	s.token = token.Token
	s.log("generated auth token for app %s", s.creds.AppID)
	return s.token, nil
}
