package http_assets

import (
	"encoding/hex"
	"fmt"

	"github.com/utxoforge/coinsource/internal/core/domain"
	"github.com/utxoforge/coinsource/internal/core/ports"
)

// ResponseError is any failure surfaced by the remote assets service:
// non-2xx status, authorization failure or undecodable/malformed payload.
// It is opaque to the datasource and propagated verbatim to its callers.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf(
		"assets service responded with error: %s (code %d)",
		e.Message, e.StatusCode,
	)
}

type txStatus struct {
	Confirmed   bool  `json:"confirmed"`
	BlockHeight int64 `json:"block_height"`
}

func (s txStatus) toDomain() domain.TxStatus {
	status := domain.TxStatus{Confirmed: s.Confirmed}
	if s.Confirmed {
		status.BlockHeight = s.BlockHeight
	} else {
		status.BlockHeight = domain.UnconfirmedBlockHeight
	}
	return status
}

type txOut struct {
	Script string `json:"scriptpubkey"`
	Value  uint64 `json:"value"`
}

type tx struct {
	Txid    string   `json:"txid"`
	Outputs []txOut  `json:"vout"`
	Status  txStatus `json:"status"`
}

func (t tx) validate() error {
	if t.Txid == "" {
		return fmt.Errorf("missing txid")
	}
	if len(t.Outputs) == 0 {
		return fmt.Errorf("missing outputs")
	}
	for i, out := range t.Outputs {
		if out.Script == "" {
			return fmt.Errorf("missing scriptpubkey for output %d", i)
		}
	}
	return nil
}

func (t tx) toDomain() (*domain.Transaction, error) {
	outs := make([]domain.TxOut, 0, len(t.Outputs))
	for i, out := range t.Outputs {
		script, err := hex.DecodeString(out.Script)
		if err != nil {
			return nil, fmt.Errorf("invalid scriptpubkey for output %d: %s", i, err)
		}
		outs = append(outs, domain.TxOut{Value: out.Value, Script: script})
	}
	return &domain.Transaction{
		TxID:    t.Txid,
		Status:  t.Status.toDomain(),
		Outputs: outs,
	}, nil
}

type utxo struct {
	Txid   string   `json:"txid"`
	Vout   uint32   `json:"vout"`
	Value  uint64   `json:"value"`
	Script string   `json:"scriptpubkey"`
	Status txStatus `json:"status"`
}

func (u utxo) validate() error {
	if u.Txid == "" {
		return fmt.Errorf("missing txid")
	}
	if u.Script == "" {
		return fmt.Errorf("missing scriptpubkey")
	}
	return nil
}

func (u utxo) toPort() (ports.UtxoRecord, error) {
	script, err := hex.DecodeString(u.Script)
	if err != nil {
		return ports.UtxoRecord{}, fmt.Errorf("invalid scriptpubkey: %s", err)
	}
	return ports.UtxoRecord{
		TxID:   u.Txid,
		VOut:   u.Vout,
		Value:  u.Value,
		Script: script,
		Status: u.Status.toDomain(),
	}, nil
}

type assetBinding struct {
	AssetID string `json:"asset_id"`
	CellID  string `json:"cell_id"`
}

func (b assetBinding) toPort() ports.AssetBinding {
	return ports.AssetBinding{AssetID: b.AssetID, CellID: b.CellID}
}

type paymasterInfo struct {
	Address string `json:"address"`
	Fee     uint64 `json:"fee"`
}

func (p paymasterInfo) validate() error {
	if p.Address == "" {
		return fmt.Errorf("missing address")
	}
	return nil
}

type tokenRequest struct {
	AppID     string `json:"app_id"`
	AppSecret string `json:"app_secret"`
}

type tokenResponse struct {
	Token string `json:"token"`
}
