package application_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/mock"

	"github.com/utxoforge/coinsource/internal/core/domain"
	"github.com/utxoforge/coinsource/internal/core/ports"
)

var regtest = &chaincfg.RegressionNetParams

// ports.AssetsService
type mockAssetsService struct {
	mock.Mock
}

func newMockedAssetsService() *mockAssetsService {
	return &mockAssetsService{}
}

func (m *mockAssetsService) GetTransaction(
	ctx context.Context, txid string,
) (*domain.Transaction, error) {
	args := m.Called(ctx, txid)

	var res *domain.Transaction
	if a := args.Get(0); a != nil {
		res = a.(*domain.Transaction)
	}
	return res, args.Error(1)
}

func (m *mockAssetsService) ListUtxos(
	ctx context.Context, address string, req ports.ListUtxosRequest,
) ([]ports.UtxoRecord, error) {
	args := m.Called(ctx, address, req)

	var res []ports.UtxoRecord
	if a := args.Get(0); a != nil {
		res = a.([]ports.UtxoRecord)
	}
	return res, args.Error(1)
}

func (m *mockAssetsService) GetAssetBindings(
	ctx context.Context, txid string, vout uint32,
) ([]ports.AssetBinding, error) {
	args := m.Called(ctx, txid, vout)

	var res []ports.AssetBinding
	if a := args.Get(0); a != nil {
		res = a.([]ports.AssetBinding)
	}
	return res, args.Error(1)
}

func (m *mockAssetsService) GetPaymasterInfo(
	ctx context.Context,
) (*ports.PaymasterInfo, error) {
	args := m.Called(ctx)

	var res *ports.PaymasterInfo
	if a := args.Get(0); a != nil {
		res = a.(*ports.PaymasterInfo)
	}
	return res, args.Error(1)
}

func randomTxid() string {
	return randomHex(32)
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	rand.Read(b)
	return b
}

func confirmedAt(height int64) domain.TxStatus {
	return domain.TxStatus{Confirmed: true, BlockHeight: height}
}

// p2wpkhScript returns a v0 witness pubkey hash script for the given
// 20-byte hash.
func p2wpkhScript(pkHash []byte) []byte {
	return append([]byte{0x00, 0x14}, pkHash...)
}

// dataCarrierScript returns an OP_RETURN script carrying the given data.
func dataCarrierScript(data []byte) []byte {
	return append([]byte{0x6a, byte(len(data))}, data...)
}

func p2wpkhAddress(pkHash []byte) string {
	addr, _ := btcutil.NewAddressWitnessPubKeyHash(pkHash, regtest)
	return addr.EncodeAddress()
}
