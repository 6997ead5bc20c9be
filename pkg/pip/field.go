package pip

import (
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// ErrNoSuchOutput signals a back-reference to an output that either does
// not exist yet or exists with the wrong OutputKind.
var ErrNoSuchOutput = errors.New("pip: no such output")

// BackRef names an output slot produced by an earlier request in the same
// batch: the index of the producing request, and the slot position within
// that request's declared outputs.
type BackRef struct {
	ReqIdx uint64
	OutIdx uint64
}

// Field is any request input that may either be supplied directly (Scalar)
// or resolved later from a prior response in the same batch
// (BackReference). It is encoded on the wire as a two-element list: a
// discriminant (0 = scalar, 1 = back-reference) and the payload.
type Field[T any] struct {
	scalar   T
	ref      BackRef
	isScalar bool
}

// Scalar builds a Field holding a concrete value.
func Scalar[T any](v T) Field[T] { return Field[T]{scalar: v, isScalar: true} }

// BackReference builds a Field naming a prior request's output slot.
func BackReference[T any](reqIdx, outIdx uint64) Field[T] {
	return Field[T]{ref: BackRef{ReqIdx: reqIdx, OutIdx: outIdx}}
}

// IsScalar reports whether the field already holds a concrete value.
func (f Field[T]) IsScalar() bool { return f.isScalar }

// Ref returns the back-reference coordinates and true, or the zero value
// and false if the field is already a scalar.
func (f Field[T]) Ref() (BackRef, bool) {
	if f.isScalar {
		return BackRef{}, false
	}
	return f.ref, true
}

// AsScalarRef reveals the inner value without consuming the field.
func (f Field[T]) AsScalarRef() (*T, bool) {
	if !f.isScalar {
		return nil, false
	}
	v := f.scalar
	return &v, true
}

// MapField lifts fn over a Scalar field, leaving a BackReference untouched.
func MapField[T, U any](f Field[T], fn func(T) U) Field[U] {
	if f.isScalar {
		return Scalar(fn(f.scalar))
	}
	return Field[U]{ref: f.ref}
}

// IntoScalar consumes the field and returns its value, or ErrNoSuchOutput
// if it is still a back-reference.
func (f Field[T]) IntoScalar() (T, error) {
	if f.isScalar {
		return f.scalar, nil
	}
	var zero T
	return zero, ErrNoSuchOutput
}

// AdjustReq rewrites the request-index component of a back-reference by
// mapping. It is a no-op on a Scalar field. Used when batches are merged
// or sliced.
func (f *Field[T]) AdjustReq(mapping func(uint64) uint64) {
	if !f.isScalar {
		f.ref.ReqIdx = mapping(f.ref.ReqIdx)
	}
}

// EncodeRLP writes the two-element [discriminant, payload] wire shape.
func (f Field[T]) EncodeRLP(w io.Writer) error {
	if f.isScalar {
		return rlp.Encode(w, []interface{}{uint8(0), f.scalar})
	}
	return rlp.Encode(w, []interface{}{uint8(1), []interface{}{f.ref.ReqIdx, f.ref.OutIdx}})
}

// DecodeRLP reads the two-element [discriminant, payload] wire shape.
func (f *Field[T]) DecodeRLP(s *rlp.Stream) error {
	if _, err := s.List(); err != nil {
		return err
	}
	var tag uint8
	if err := s.Decode(&tag); err != nil {
		return err
	}
	switch tag {
	case 0:
		var v T
		if err := s.Decode(&v); err != nil {
			return err
		}
		*f = Scalar(v)
	case 1:
		if _, err := s.List(); err != nil {
			return err
		}
		var reqIdx, outIdx uint64
		if err := s.Decode(&reqIdx); err != nil {
			return err
		}
		if err := s.Decode(&outIdx); err != nil {
			return err
		}
		if err := s.ListEnd(); err != nil {
			return err
		}
		*f = BackReference[T](reqIdx, outIdx)
	default:
		return fmt.Errorf("pip: unknown field discriminant %d", tag)
	}
	return s.ListEnd()
}
