package application

import (
	"fmt"
	"strings"

	"github.com/utxoforge/coinsource/internal/core/domain"
)

// ListOptions holds the optional modifiers of a GetUtxos call.
type ListOptions struct {
	// MinSatoshi filters out utxos with a value below the threshold.
	MinSatoshi uint64
	// OnlyConfirmed filters out utxos of mempool transactions.
	OnlyConfirmed bool
	// NoCache instructs the remote service to skip its own cache layer.
	NoCache bool
}

// CollectRequest holds the required and optional args of a CollectSatoshi
// call.
type CollectRequest struct {
	Address      string
	TargetAmount uint64

	// MinUtxoValue excludes candidates below the threshold.
	MinUtxoValue uint64
	// AllowInsufficient makes the selection return a partial (possibly
	// empty) result instead of failing when the candidate set cannot
	// cover the target amount.
	AllowInsufficient bool
	// OnlyNonAssetBound excludes candidates carrying at least one
	// off-chain asset binding.
	OnlyNonAssetBound bool
	// OnlyConfirmed excludes candidates of mempool transactions.
	OnlyConfirmed bool
	// NoCache instructs the remote service to skip its own cache layer.
	NoCache bool
	// Excluded is the list of outpoints that must never be selected.
	Excluded []domain.OutputKey
	// CacheKey makes the candidate list be fetched remotely at most once
	// per key for the lifetime of the datasource. An empty key disables
	// the memoization and always fetches fresh.
	CacheKey string
}

func (r CollectRequest) validate() error {
	if r.Address == "" {
		return fmt.Errorf("missing address")
	}
	return nil
}

// CollectResult is the outcome of a coin selection.
type CollectResult struct {
	Utxos       []*domain.Utxo
	TotalAmount uint64
	// Surplus is TotalAmount - TargetAmount. It can be negative only when
	// insufficiency was explicitly allowed.
	Surplus int64
}

// PaymasterOutput holds the info about the fee-paying counterparty whose
// output is optionally appended to a transaction.
type PaymasterOutput struct {
	Address     string
	AddressType domain.AddressType
	Fee         uint64
}

type Utxos []*domain.Utxo

func (u Utxos) Keys() []domain.OutputKey {
	keys := make([]domain.OutputKey, 0, len(u))
	for _, utxo := range u {
		keys = append(keys, utxo.Key())
	}
	return keys
}

type OutputKeys []domain.OutputKey

func (k OutputKeys) String() string {
	str := make([]string, 0, len(k))
	for _, key := range k {
		str = append(str, key.String())
	}
	return strings.Join(str, ", ")
}
