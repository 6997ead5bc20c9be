package pip

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"pipnet/pkg/wire"
)

// TestEnvelopeRoundTripAllKinds checks that every one of the ten request
// kinds survives a RequestEnvelope encode/decode with its Kind tag intact.
func TestEnvelopeRoundTripAllKinds(t *testing.T) {
	requests := []Request{
		&HeadersRequest{Start: Scalar(wire.FromNumber(1)), Max: 5},
		&HeaderProofRequest{Num: Scalar(uint64(1))},
		&TransactionIndexRequest{Hash: Scalar(Hash{0x01})},
		&ReceiptsRequest{Hash: Scalar(Hash{0x01})},
		&BodyRequest{Hash: Scalar(Hash{0x01})},
		&AccountRequest{BlockHash: Scalar(Hash{0x01}), AddressHash: Scalar(Hash{0x02})},
		&StorageRequest{BlockHash: Scalar(Hash{0x01}), AddressHash: Scalar(Hash{0x02}), KeyHash: Scalar(Hash{0x03})},
		&CodeRequest{BlockHash: Scalar(Hash{0x01}), CodeHash: Scalar(Hash{0x02})},
		&ExecutionRequest{BlockHash: Scalar(Hash{0x01}), Gas: uint256.NewInt(1), GasPrice: uint256.NewInt(1), Value: uint256.NewInt(0)},
		&SignalRequest{BlockHash: Scalar(Hash{0x01})},
	}

	for _, req := range requests {
		data, err := wire.Encode(RequestEnvelope{Req: req})
		if err != nil {
			t.Fatalf("%s: encode: %v", req.Kind(), err)
		}
		var decoded RequestEnvelope
		if err := wire.Decode(data, &decoded); err != nil {
			t.Fatalf("%s: decode: %v", req.Kind(), err)
		}
		if decoded.Req.Kind() != req.Kind() {
			t.Fatalf("expected kind %s, got %s", req.Kind(), decoded.Req.Kind())
		}
	}
}

// TestResponseEnvelopeRoundTripAllKinds mirrors the request case for every
// response kind.
func TestResponseEnvelopeRoundTripAllKinds(t *testing.T) {
	emptyBody, err := rlp.EncodeToBytes(bodyShape{})
	if err != nil {
		t.Fatalf("encode empty body fixture: %v", err)
	}
	responses := []Response{
		&HeadersResponse{},
		&HeaderProofResponse{Hash: Hash{0x01}, TD: uint256.NewInt(1)},
		&TransactionIndexResponse{Num: 1, Hash: Hash{0x01}, Index: 0},
		&ReceiptsResponse{},
		&BodyResponse{Body: emptyBody},
		&AccountResponse{Nonce: uint256.NewInt(1), Balance: uint256.NewInt(1), CodeHash: Hash{0x01}, StorageRoot: Hash{0x02}},
		&StorageResponse{Value: Hash{0x01}},
		&CodeResponse{Code: []byte{0x60}},
		&ExecutionResponse{},
		&SignalResponse{Signal: []byte("s")},
	}

	for _, resp := range responses {
		data, err := wire.Encode(ResponseEnvelope{Resp: resp})
		if err != nil {
			t.Fatalf("%s: encode: %v", resp.Kind(), err)
		}
		var decoded ResponseEnvelope
		if err := wire.Decode(data, &decoded); err != nil {
			t.Fatalf("%s: decode: %v", resp.Kind(), err)
		}
		if decoded.Resp.Kind() != resp.Kind() {
			t.Fatalf("expected kind %s, got %s", resp.Kind(), decoded.Resp.Kind())
		}
	}
}

func TestValidateKindMismatch(t *testing.T) {
	req := &CodeRequest{BlockHash: Scalar(Hash{0x01}), CodeHash: Scalar(Hash{0x02})}
	resp := &SignalResponse{Signal: []byte("x")}
	if err := Validate(req, resp); err != ErrWrongKind {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
}

func TestValidateMatchingKind(t *testing.T) {
	req := &CodeRequest{BlockHash: Scalar(Hash{0x01}), CodeHash: Scalar(Hash{0x02})}
	resp := &CodeResponse{Code: []byte{0x01}}
	if err := Validate(req, resp); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
