package wire

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// HashOrNumber carries a block identifier as either a 32-byte hash or an
// integer height. Decoding tries the hash form first and falls back to the
// integer form, matching the source protocol's observable probing order.
type HashOrNumber struct {
	Hash   [32]byte
	Number uint64
	IsHash bool
}

// FromHash builds a HashOrNumber carrying a hash.
func FromHash(h [32]byte) HashOrNumber {
	return HashOrNumber{Hash: h, IsHash: true}
}

// FromNumber builds a HashOrNumber carrying an integer height.
func FromNumber(n uint64) HashOrNumber {
	return HashOrNumber{Number: n}
}

// EncodeRLP writes the hash form if present, otherwise the integer form.
func (h HashOrNumber) EncodeRLP(w io.Writer) error {
	if h.IsHash {
		return rlp.Encode(w, h.Hash)
	}
	return rlp.Encode(w, h.Number)
}

// DecodeRLP probes the 32-byte form first and falls back to the integer
// form on failure. It reads the raw bytes of the next element and re-decodes
// them rather than mutating the stream speculatively, so a failed probe
// never corrupts the stream position.
func (h *HashOrNumber) DecodeRLP(s *rlp.Stream) error {
	raw, err := s.Raw()
	if err != nil {
		return err
	}
	var hash [32]byte
	if err := rlp.DecodeBytes(raw, &hash); err == nil {
		h.Hash = hash
		h.IsHash = true
		h.Number = 0
		return nil
	}
	var num uint64
	if err := rlp.DecodeBytes(raw, &num); err != nil {
		return err
	}
	h.Number = num
	h.IsHash = false
	h.Hash = [32]byte{}
	return nil
}
