// Package wire implements the length-prefixed, recursively nested byte
// string / list encoding used on the wire between a light client and a
// full-node provider. It is a thin, typed front-end over go-ethereum's rlp
// package rather than a hand-rolled codec: rlp already implements the exact
// node shapes (byte string, list-of-nodes), big-endian minimal-width
// integers, and the truncation / oversize-length / non-minimal leading-zero
// failure modes this protocol relies on.
package wire

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

// ErrMalformed is returned for any decoding failure: truncated input, an
// oversize length prefix, or a non-minimal integer encoding.
var ErrMalformed = errors.New("wire: malformed encoding")

// Encode produces the canonical byte representation of val.
func Encode(val interface{}) ([]byte, error) {
	b, err := rlp.EncodeToBytes(val)
	if err != nil {
		return nil, fmt.Errorf("wire: encode: %w", err)
	}
	return b, nil
}

// Decode parses data into val, which must be a pointer. Any failure is
// wrapped in ErrMalformed so callers can classify it uniformly.
func Decode(data []byte, val interface{}) error {
	if err := rlp.DecodeBytes(data, val); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
