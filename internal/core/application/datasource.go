package application

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	log "github.com/sirupsen/logrus"

	"github.com/utxoforge/coinsource/internal/core/domain"
	"github.com/utxoforge/coinsource/internal/core/ports"
	memocache "github.com/utxoforge/coinsource/internal/infrastructure/memo-cache/inmemory"
)

// DataSource mediates between transaction-building logic and the remote
// assets service. It exposes single-output lookup, utxo-list retrieval and
// target-driven coin selection, deduplicating the expensive remote calls
// through memoization caches it exclusively owns.
//
// The selection is intentionally greedy and order-driven rather than
// optimal: downstream consumers need reproducible input sets across
// retries, so determinism wins over minimizing the output count.
type DataSource struct {
	assetsSvc ports.AssetsService
	net       *chaincfg.Params

	utxoCache    ports.MemoCache[[]*domain.Utxo]
	bindingCache ports.MemoCache[[]ports.AssetBinding]

	log func(format string, a ...interface{})
}

func NewDataSource(
	assetsSvc ports.AssetsService, net *chaincfg.Params,
) *DataSource {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("datasource: %s", format)
		log.Debugf(format, a...)
	}
	return &DataSource{
		assetsSvc:    assetsSvc,
		net:          net,
		utxoCache:    memocache.NewMemoCache[[]*domain.Utxo](),
		bindingCache: memocache.NewMemoCache[[]ports.AssetBinding](),
		log:          logFn,
	}
}

// GetOutput returns the output identified by the given outpoint, whether
// spendable or not, or nil if the transaction or the output index does not
// exist. It fails with domain.ErrUnconfirmedOutput if confirmation is
// required and the transaction is still in the mempool.
func (ds *DataSource) GetOutput(
	ctx context.Context, txid string, vout uint32, requireConfirmed bool,
) (*domain.Output, error) {
	tx, err := ds.assetsSvc.GetTransaction(ctx, txid)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if vout >= uint32(len(tx.Outputs)) {
		return nil, nil
	}
	if requireConfirmed && !tx.IsConfirmed() {
		return nil, domain.ErrUnconfirmedOutput
	}

	out := tx.Outputs[vout]
	return &domain.Output{
		OutputKey: domain.OutputKey{TxID: txid, VOut: vout},
		Value:     out.Value,
		Script:    out.Script,
	}, nil
}

// GetUtxo is like GetOutput but fails with domain.ErrUnspendableOutput if
// the resolved output is a data-carrier one. It never returns a utxo whose
// underlying script is a data-carrier script.
func (ds *DataSource) GetUtxo(
	ctx context.Context, txid string, vout uint32, requireConfirmed bool,
) (*domain.Utxo, error) {
	out, err := ds.GetOutput(ctx, txid, vout, requireConfirmed)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	if out.IsDataCarrier() {
		return nil, domain.ErrUnspendableOutput
	}

	_, addrs, _, err := txscript.ExtractPkScriptAddrs(out.Script, ds.net)
	if err != nil || len(addrs) == 0 {
		return nil, domain.ErrUnspendableOutput
	}
	addr := addrs[0].EncodeAddress()
	return &domain.Utxo{
		Output:      *out,
		Address:     addr,
		AddressType: domain.AddressTypeForAddress(addr, ds.net),
	}, nil
}

// IsTransactionConfirmed returns whether the given transaction is included
// in the blockchain. Remote failures, absence included, are propagated
// unchanged.
func (ds *DataSource) IsTransactionConfirmed(
	ctx context.Context, txid string,
) (bool, error) {
	tx, err := ds.assetsSvc.GetTransaction(ctx, txid)
	if err != nil {
		return false, err
	}
	return tx.IsConfirmed(), nil
}

// GetUtxos returns the unspent set of the given address, sorted ascending
// by (confirmation block height, vout). Identical remote input always
// yields identical ordering. Unconfirmed transactions sort with the
// sentinel height, ie. before all confirmed ones.
func (ds *DataSource) GetUtxos(
	ctx context.Context, address string, opts ListOptions,
) ([]*domain.Utxo, error) {
	records, err := ds.assetsSvc.ListUtxos(ctx, address, ports.ListUtxosRequest{
		MinSatoshi:    opts.MinSatoshi,
		OnlyConfirmed: opts.OnlyConfirmed,
		NoCache:       opts.NoCache,
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		hi, hj := records[i].Status.Height(), records[j].Status.Height()
		if hi != hj {
			return hi < hj
		}
		return records[i].VOut < records[j].VOut
	})

	addrType := domain.AddressTypeForAddress(address, ds.net)
	utxos := make([]*domain.Utxo, 0, len(records))
	for _, record := range records {
		utxos = append(utxos, &domain.Utxo{
			Output: domain.Output{
				OutputKey: domain.OutputKey{TxID: record.TxID, VOut: record.VOut},
				Value:     record.Value,
				Script:    record.Script,
			},
			Address:     address,
			AddressType: addrType,
		})
	}
	return utxos, nil
}

// CollectSatoshi greedily accumulates utxos of the given address, in
// sorted order, until the target amount is met or the candidate set is
// exhausted. Outpoints in the exclusion list are never selected and, when
// requested, neither are outputs carrying off-chain asset bindings.
func (ds *DataSource) CollectSatoshi(
	ctx context.Context, req CollectRequest,
) (*CollectResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	utxos, err := ds.utxoCache.GetOrCompute(
		req.CacheKey, func() ([]*domain.Utxo, error) {
			return ds.GetUtxos(ctx, req.Address, ListOptions{
				MinSatoshi:    req.MinUtxoValue,
				OnlyConfirmed: req.OnlyConfirmed,
				NoCache:       req.NoCache,
			})
		},
	)
	if err != nil {
		return nil, err
	}

	excluded := make(map[domain.OutputKey]struct{}, len(req.Excluded))
	for _, key := range req.Excluded {
		excluded[key] = struct{}{}
	}

	selected := make([]*domain.Utxo, 0, len(utxos))
	totalAmount := uint64(0)
	for _, utxo := range utxos {
		if totalAmount >= req.TargetAmount {
			break
		}
		if _, ok := excluded[utxo.Key()]; ok {
			continue
		}
		if req.OnlyNonAssetBound {
			bound, err := ds.isAssetBound(ctx, utxo.Key())
			if err != nil {
				return nil, err
			}
			if bound {
				continue
			}
		}
		selected = append(selected, utxo)
		totalAmount += utxo.Value
	}

	if totalAmount < req.TargetAmount && !req.AllowInsufficient {
		return nil, &domain.InsufficientFundsError{
			Requested: req.TargetAmount,
			Achieved:  totalAmount,
		}
	}

	ds.log(
		"collected %d utxo(s) for address %s (%s)",
		len(selected), req.Address, OutputKeys(Utxos(selected).Keys()),
	)
	return &CollectResult{
		Utxos:       selected,
		TotalAmount: totalAmount,
		Surplus:     int64(totalAmount) - int64(req.TargetAmount),
	}, nil
}

// GetPaymasterOutput returns the info about the configured fee-paying
// counterparty, or nil if the remote service has none configured. Any
// other remote failure is propagated unchanged.
func (ds *DataSource) GetPaymasterOutput(
	ctx context.Context,
) (*PaymasterOutput, error) {
	info, err := ds.assetsSvc.GetPaymasterInfo(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &PaymasterOutput{
		Address:     info.Address,
		AddressType: domain.AddressTypeForAddress(info.Address, ds.net),
		Fee:         info.Fee,
	}, nil
}

// isAssetBound resolves whether the given output backs an off-chain asset.
// The lookup is memoized because the same output may be evaluated across
// multiple selection calls within one session.
func (ds *DataSource) isAssetBound(
	ctx context.Context, key domain.OutputKey,
) (bool, error) {
	bindings, err := ds.bindingCache.GetOrCompute(
		key.String(), func() ([]ports.AssetBinding, error) {
			return ds.assetsSvc.GetAssetBindings(ctx, key.TxID, key.VOut)
		},
	)
	if err != nil {
		return false, err
	}
	return len(bindings) > 0, nil
}
