package domain

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

const (
	AddressTypeUnknown AddressType = iota
	AddressTypeP2PKH
	AddressTypeP2SH
	AddressTypeP2WPKH
	AddressTypeP2WSH
	AddressTypeP2TR
)

// AddressType is the script template of the address owning an output.
type AddressType int

func (t AddressType) String() string {
	switch t {
	case AddressTypeP2PKH:
		return "p2pkh"
	case AddressTypeP2SH:
		return "p2sh"
	case AddressTypeP2WPKH:
		return "p2wpkh"
	case AddressTypeP2WSH:
		return "p2wsh"
	case AddressTypeP2TR:
		return "p2tr"
	default:
		return "unknown"
	}
}

// AddressTypeForAddress derives the address type from the encoded address
// string. The remote payload is never trusted for this.
func AddressTypeForAddress(addr string, net *chaincfg.Params) AddressType {
	decoded, err := btcutil.DecodeAddress(addr, net)
	if err != nil {
		return AddressTypeUnknown
	}
	switch decoded.(type) {
	case *btcutil.AddressPubKeyHash:
		return AddressTypeP2PKH
	case *btcutil.AddressScriptHash:
		return AddressTypeP2SH
	case *btcutil.AddressWitnessPubKeyHash:
		return AddressTypeP2WPKH
	case *btcutil.AddressWitnessScriptHash:
		return AddressTypeP2WSH
	case *btcutil.AddressTaproot:
		return AddressTypeP2TR
	default:
		return AddressTypeUnknown
	}
}

// OutputKey represents the key of an output, composed by its txid and vout.
type OutputKey struct {
	TxID string
	VOut uint32
}

func (k OutputKey) String() string {
	return fmt.Sprintf("%s:%d", k.TxID, k.VOut)
}

// Output is the data structure representing any transaction output,
// spendable or not. It is immutable once constructed and is produced only
// by translating remote transaction data.
type Output struct {
	OutputKey
	Value  uint64
	Script []byte
}

// Key returns the OutputKey of the current output.
func (o *Output) Key() OutputKey {
	return o.OutputKey
}

// IsDataCarrier returns whether the output script is a null-data
// (OP_RETURN) script, ie. it encodes arbitrary data instead of a spending
// condition.
func (o *Output) IsDataCarrier() bool {
	return txscript.GetScriptClass(o.Script) == txscript.NullDataTy
}

// Utxo is an Output refined with the info about its owning address.
// A Utxo's script is never a data-carrier script, that case is represented
// as a plain Output instead.
type Utxo struct {
	Output
	Address     string
	AddressType AddressType
}
