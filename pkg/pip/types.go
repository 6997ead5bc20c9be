// Package pip implements the Parity-style light protocol request/response
// pipeline: the typed request catalogue, the field algebra used for
// back-references, the per-batch output registry, the batch builder, and
// the response validator.
package pip

import "encoding/hex"

// Hash is a 32-byte identifier for blocks, transactions, code, accounts,
// storage keys, and state roots.
type Hash [32]byte

// Hex renders the hash as a "0x"-prefixed lowercase string.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// Short renders the first and last two bytes, e.g. "0xdead..beef".
func (h Hash) Short() string {
	full := hex.EncodeToString(h[:])
	return "0x" + full[:4] + ".." + full[len(full)-4:]
}

// Address is a 20-byte account identifier.
type Address [20]byte

// Hex renders the address as a "0x"-prefixed lowercase string.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

// Number is a block number, transaction index, or similar unsigned count.
type Number = uint64

// Bytes is a variable-length byte string.
type Bytes = []byte
