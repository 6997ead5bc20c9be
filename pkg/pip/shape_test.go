package pip

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"pipnet/pkg/wire"
)

// TestHeadersResponseRejectsMalformedItem checks that a HeadersResponse
// whose outer list decodes fine but whose item is not a well-formed header
// is rejected at decode time, not handed to the caller unexamined.
func TestHeadersResponseRejectsMalformedItem(t *testing.T) {
	notAHeader, err := rlp.EncodeToBytes([]uint64{1, 2, 3})
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	data, err := wire.Encode(HeadersResponse{Headers: []rlp.RawValue{notAHeader}})
	if err != nil {
		t.Fatalf("encode response: %v", err)
	}
	var decoded HeadersResponse
	if err := wire.Decode(data, &decoded); err == nil {
		t.Fatal("expected decode to reject a malformed header item")
	}
}

// TestBodyResponseRejectsMalformedBlob checks that a BodyResponse whose raw
// bytes don't decode as a [transactions, uncles] pair is rejected at decode
// time rather than passed through unvalidated.
func TestBodyResponseRejectsMalformedBlob(t *testing.T) {
	notABody, err := rlp.EncodeToBytes("not a body")
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	data, err := wire.Encode(BodyResponse{Body: notABody})
	if err != nil {
		t.Fatalf("encode response: %v", err)
	}
	var decoded BodyResponse
	if err := wire.Decode(data, &decoded); err == nil {
		t.Fatal("expected decode to reject a malformed body blob")
	}
}

// TestHeadersResponseAcceptsWellFormedItem is the positive counterpart:
// a genuinely well-formed header blob still round-trips.
func TestHeadersResponseAcceptsWellFormedItem(t *testing.T) {
	raw, err := rlp.EncodeToBytes(headerShape{Number: 9, Difficulty: uint256.NewInt(0)})
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	data, err := wire.Encode(HeadersResponse{Headers: []rlp.RawValue{raw}})
	if err != nil {
		t.Fatalf("encode response: %v", err)
	}
	var decoded HeadersResponse
	if err := wire.Decode(data, &decoded); err != nil {
		t.Fatalf("expected a well-formed header to decode, got %v", err)
	}
	if len(decoded.Headers) != 1 {
		t.Fatalf("expected 1 header, got %d", len(decoded.Headers))
	}
}
