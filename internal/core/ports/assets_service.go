package ports

import (
	"context"
	"fmt"

	"github.com/utxoforge/coinsource/internal/core/domain"
)

// ErrNotFound is returned by any AssetsService operation whenever the
// requested resource does not exist on the remote side. Callers decide
// whether the absence is an expected outcome or a failure.
var ErrNotFound = fmt.Errorf("not found")

// ListUtxosRequest holds the optional modifiers of a ListUtxos call.
type ListUtxosRequest struct {
	// MinSatoshi filters out utxos with a value below the threshold.
	MinSatoshi uint64
	// OnlyConfirmed filters out utxos of mempool transactions.
	OnlyConfirmed bool
	// NoCache instructs the remote service to skip its own cache layer.
	NoCache bool
}

// UtxoRecord is the shape of an unspent output as listed by the remote
// service. The owning address type is deliberately not part of it, it is
// derived locally from the address string instead.
type UtxoRecord struct {
	TxID   string
	VOut   uint32
	Value  uint64
	Script []byte
	Status domain.TxStatus
}

// AssetBinding is an association recorded off-chain that marks an output
// as backing a non-native asset. An output with at least one binding is
// unsuitable for plain value transfer.
type AssetBinding struct {
	AssetID string
	CellID  string
}

// PaymasterInfo holds the metadata of the designated fee-paying
// counterparty, if any is configured on the remote service.
type PaymasterInfo struct {
	Address string
	Fee     uint64
}

// AssetsService is the abstraction for the remote indexing/assets service,
// the source of truth for chain state. Implementations are shared,
// read-only dependencies: the datasource never mutates them.
//
// Any operation returns ErrNotFound for an absent resource; every other
// failure is remote-specific and must be propagated verbatim.
type AssetsService interface {
	// GetTransaction returns the transaction identified by its txid.
	GetTransaction(ctx context.Context, txid string) (*domain.Transaction, error)
	// ListUtxos returns the unspent set of the given address.
	ListUtxos(
		ctx context.Context, address string, req ListUtxosRequest,
	) ([]UtxoRecord, error)
	// GetAssetBindings returns the off-chain asset bindings of the given
	// output. An empty list means the output is unbound.
	GetAssetBindings(
		ctx context.Context, txid string, vout uint32,
	) ([]AssetBinding, error)
	// GetPaymasterInfo returns the fee-payer metadata, or ErrNotFound if
	// no paymaster is configured.
	GetPaymasterInfo(ctx context.Context) (*PaymasterInfo, error)
}
