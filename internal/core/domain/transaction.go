package domain

// UnconfirmedBlockHeight is the sentinel height attached to outputs of
// transactions not yet included in a block. It sorts before any confirmed
// height, so unconfirmed outputs are preferred by the greedy selector.
const UnconfirmedBlockHeight int64 = -1

// TxStatus holds the confirmation info of a transaction. The status
// belongs to the transaction, not to an individual output.
type TxStatus struct {
	Confirmed   bool
	BlockHeight int64
}

// Height returns the block height usable as sorting key, ie. the sentinel
// UnconfirmedBlockHeight for unconfirmed transactions.
func (s TxStatus) Height() int64 {
	if !s.Confirmed {
		return UnconfirmedBlockHeight
	}
	return s.BlockHeight
}

// TxOut is the raw shape of a transaction output as translated from remote
// transaction data, before any classification.
type TxOut struct {
	Value  uint64
	Script []byte
}

// Transaction is the data structure representing a transaction fetched
// from the remote service, reduced to what classification needs.
type Transaction struct {
	TxID    string
	Status  TxStatus
	Outputs []TxOut
}

// IsConfirmed returns whether the tx is included in the blockchain.
func (t *Transaction) IsConfirmed() bool {
	return t.Status.Confirmed
}
