package pip

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// headerShape mirrors the canonical block header's RLP field layout. pip
// cannot import the chain package, which owns the real Header type (chain
// imports pip, not the reverse), so a received header blob is re-validated
// against this local shape instead of chain.EncodedHeader — the same
// per-item structural re-decode the reference client performs before
// accepting a headers response.
type headerShape struct {
	ParentHash  Hash
	UncleHash   Hash
	Coinbase    Address
	StateRoot   Hash
	TxRoot      Hash
	ReceiptRoot Hash
	Bloom       [256]byte
	Difficulty  *uint256.Int
	Number      uint64
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	Extra       []byte
	MixDigest   Hash
	Nonce       uint64
}

// validateHeaderShape reports whether raw decodes as a well-formed header.
func validateHeaderShape(raw []byte) error {
	var h headerShape
	return rlp.DecodeBytes(raw, &h)
}

// transactionShape mirrors the canonical transaction's RLP field layout.
type transactionShape struct {
	Nonce    uint64
	GasPrice *uint256.Int
	Gas      uint64
	To       *Address `rlp:"nil"`
	Value    *uint256.Int
	Data     []byte
	V        *uint256.Int
	R        *uint256.Int
	S        *uint256.Int
}

// bodyShape mirrors the canonical block body's [transactions, uncles] list
// pair.
type bodyShape struct {
	Transactions []transactionShape
	Uncles       []headerShape
}

// validateBodyShape reports whether raw decodes as a well-formed body.
func validateBodyShape(raw []byte) error {
	var b bodyShape
	return rlp.DecodeBytes(raw, &b)
}
