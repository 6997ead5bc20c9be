// Package chain holds the block/transaction/receipt shapes the protocol
// proves statements about. Headers and bodies are kept as validated raw RLP
// blobs (mirroring go-ethereum's own lazy "encoded" header/body pattern)
// rather than eagerly decoded structs, since a provider or client mostly
// needs to re-serialize them unchanged.
package chain

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"pipnet/pkg/pip"
)

// Header is the canonical block header shape the protocol proves against.
type Header struct {
	ParentHash  pip.Hash
	UncleHash   pip.Hash
	Coinbase    pip.Address
	StateRoot   pip.Hash
	TxRoot      pip.Hash
	ReceiptRoot pip.Hash
	Bloom       [256]byte
	Difficulty  *uint256.Int
	Number      uint64
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	Extra       []byte
	MixDigest   pip.Hash
	Nonce       uint64
}

// EncodedHeader wraps a header's raw RLP bytes, validated at construction
// time to decode into a well-formed Header. It re-encodes as exactly the raw
// bytes it was built from.
type EncodedHeader struct {
	raw []byte
}

// NewEncodedHeader validates raw as a well-formed header and wraps it.
func NewEncodedHeader(raw []byte) (EncodedHeader, error) {
	var h Header
	if err := rlp.DecodeBytes(raw, &h); err != nil {
		return EncodedHeader{}, fmt.Errorf("chain: invalid header encoding: %w", err)
	}
	return EncodedHeader{raw: raw}, nil
}

// Decode parses the wrapped bytes into a Header.
func (e EncodedHeader) Decode() (Header, error) {
	var h Header
	err := rlp.DecodeBytes(e.raw, &h)
	return h, err
}

// Hash returns the Keccak-256 hash of the header's raw encoding.
func (e EncodedHeader) Hash() pip.Hash { return pip.Hash(crypto.Keccak256Hash(e.raw)) }

// Raw returns the wrapped bytes.
func (e EncodedHeader) Raw() []byte { return e.raw }

// EncodeRLP writes the header's raw bytes unchanged.
func (e EncodedHeader) EncodeRLP(w io.Writer) error {
	_, err := w.Write(e.raw)
	return err
}

// DecodeRLP captures the next element's raw bytes, validating that they
// decode into a well-formed Header.
func (e *EncodedHeader) DecodeRLP(s *rlp.Stream) error {
	raw, err := s.Raw()
	if err != nil {
		return err
	}
	h, err := NewEncodedHeader(raw)
	if err != nil {
		return err
	}
	*e = h
	return nil
}

// Transaction is the classic 9-field transaction shape. Typed (EIP-2718)
// transaction envelopes are out of scope; this protocol only needs enough
// structure to validate that a body's transaction list is well-formed.
type Transaction struct {
	Nonce    uint64
	GasPrice *uint256.Int
	Gas      uint64
	To       *pip.Address `rlp:"nil"`
	Value    *uint256.Int
	Data     []byte
	V        *uint256.Int
	R        *uint256.Int
	S        *uint256.Int
}

// Body is a block's transaction list and uncle headers.
type Body struct {
	Transactions []Transaction
	Uncles       []Header
}

// EncodedBody wraps a block body's raw RLP bytes, validated at construction
// time to decode into a well-formed transaction list and uncle header list.
type EncodedBody struct {
	raw []byte
}

// NewEncodedBody validates raw as a [transactions, uncles] list pair and
// wraps it.
func NewEncodedBody(raw []byte) (EncodedBody, error) {
	var b Body
	if err := rlp.DecodeBytes(raw, &b); err != nil {
		return EncodedBody{}, fmt.Errorf("chain: invalid body encoding: %w", err)
	}
	return EncodedBody{raw: raw}, nil
}

// Decode parses the wrapped bytes into a Body.
func (e EncodedBody) Decode() (Body, error) {
	var b Body
	err := rlp.DecodeBytes(e.raw, &b)
	return b, err
}

// Raw returns the wrapped bytes.
func (e EncodedBody) Raw() []byte { return e.raw }

// EncodeRLP writes the body's raw bytes unchanged.
func (e EncodedBody) EncodeRLP(w io.Writer) error {
	_, err := w.Write(e.raw)
	return err
}

// DecodeRLP captures the next element's raw bytes, validating that they
// decode into a well-formed Body.
func (e *EncodedBody) DecodeRLP(s *rlp.Stream) error {
	raw, err := s.Raw()
	if err != nil {
		return err
	}
	b, err := NewEncodedBody(raw)
	if err != nil {
		return err
	}
	*e = b
	return nil
}

