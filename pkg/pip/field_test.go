package pip

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
)

func TestFieldScalarRoundTrip(t *testing.T) {
	f := Scalar(uint64(42))
	if !f.IsScalar() {
		t.Fatal("expected scalar field")
	}
	v, err := f.IntoScalar()
	if err != nil {
		t.Fatalf("IntoScalar: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}

	data, err := rlp.EncodeToBytes(f)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded Field[uint64]
	if err := rlp.DecodeBytes(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.IsScalar() {
		t.Fatal("expected decoded scalar")
	}
	got, err := decoded.IntoScalar()
	if err != nil || got != 42 {
		t.Fatalf("expected 42, got %d, err %v", got, err)
	}
}

func TestFieldBackReferenceRoundTrip(t *testing.T) {
	f := BackReference[uint64](3, 1)
	if f.IsScalar() {
		t.Fatal("expected back-reference field")
	}
	ref, ok := f.Ref()
	if !ok || ref.ReqIdx != 3 || ref.OutIdx != 1 {
		t.Fatalf("unexpected ref: %+v ok=%v", ref, ok)
	}

	data, err := rlp.EncodeToBytes(f)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded Field[uint64]
	if err := rlp.DecodeBytes(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.IsScalar() {
		t.Fatal("expected decoded back-reference")
	}
	gotRef, ok := decoded.Ref()
	if !ok || gotRef != ref {
		t.Fatalf("expected %+v, got %+v ok=%v", ref, gotRef, ok)
	}
}

func TestFieldIntoScalarOnBackReferenceFails(t *testing.T) {
	f := BackReference[uint64](0, 0)
	if _, err := f.IntoScalar(); err != ErrNoSuchOutput {
		t.Fatalf("expected ErrNoSuchOutput, got %v", err)
	}
}

func TestFieldAdjustReq(t *testing.T) {
	f := BackReference[uint64](2, 0)
	f.AdjustReq(func(reqIdx uint64) uint64 { return reqIdx + 10 })
	ref, ok := f.Ref()
	if !ok || ref.ReqIdx != 12 {
		t.Fatalf("expected shifted ref idx 12, got %+v", ref)
	}

	scalar := Scalar(uint64(5))
	scalar.AdjustReq(func(reqIdx uint64) uint64 { return reqIdx + 10 })
	v, err := scalar.IntoScalar()
	if err != nil || v != 5 {
		t.Fatalf("AdjustReq must not touch a scalar field, got %d err %v", v, err)
	}
}

func TestMapField(t *testing.T) {
	f := Scalar(uint64(4))
	mapped := MapField(f, func(v uint64) string { return "n" })
	v, err := mapped.IntoScalar()
	if err != nil || v != "n" {
		t.Fatalf("expected mapped scalar, got %q err %v", v, err)
	}

	ref := BackReference[uint64](1, 2)
	mappedRef := MapField(ref, func(v uint64) string { return "n" })
	if mappedRef.IsScalar() {
		t.Fatal("expected MapField to leave a back-reference unresolved")
	}
}
