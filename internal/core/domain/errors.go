package domain

import "fmt"

var (
	// ErrUnspendableOutput is returned when a utxo is requested for an
	// output whose script is a data-carrier one.
	ErrUnspendableOutput = fmt.Errorf("output is not spendable")
	// ErrUnconfirmedOutput is returned when confirmation is required but
	// the transaction owning the output is still in the mempool.
	ErrUnconfirmedOutput = fmt.Errorf("output is not confirmed yet")
)

// InsufficientFundsError is returned by the coin selection when the
// candidate set cannot cover the target amount and insufficiency was not
// explicitly allowed.
type InsufficientFundsError struct {
	Requested uint64
	Achieved  uint64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf(
		"not found enough utxos to cover target amount %d, only %d collected",
		e.Requested, e.Achieved,
	)
}
