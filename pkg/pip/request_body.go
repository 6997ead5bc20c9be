package pip

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// BodyRequest asks for the full transaction and uncle-header list of the
// block identified by Hash.
type BodyRequest struct {
	Hash Field[Hash]
}

func (r *BodyRequest) Kind() Kind { return KindBody }

func (r *BodyRequest) CheckOutputs(check CheckFunc) error {
	ref, ok := r.Hash.Ref()
	if !ok {
		return nil
	}
	return check(ref.ReqIdx, ref.OutIdx, OutputKindHash)
}

func (r *BodyRequest) NoteOutputs(NoteFunc) {}

func (r *BodyRequest) Fill(oracle OracleFunc) {
	ref, ok := r.Hash.Ref()
	if !ok {
		return
	}
	out, err := oracle(ref.ReqIdx, ref.OutIdx)
	if err != nil {
		return
	}
	if h, ok := out.Hash(); ok {
		r.Hash = Scalar(h)
	}
}

func (r *BodyRequest) Complete() (CompleteRequest, error) {
	hash, err := r.Hash.IntoScalar()
	if err != nil {
		return nil, err
	}
	return &CompleteBodyRequest{Hash: hash}, nil
}

func (r *BodyRequest) AdjustRefs(mapping MapFunc) { r.Hash.AdjustReq(mapping) }

// CompleteBodyRequest is a BodyRequest with Hash resolved.
type CompleteBodyRequest struct {
	Hash Hash
}

func (r *CompleteBodyRequest) Kind() Kind { return KindBody }

// BodyResponse carries a block body as a raw, validated RLP blob: a
// [transactions, uncles] list pair. It declares no reusable outputs.
// DecodeRLP re-validates the blob against the canonical body shape before
// accepting it; only re-serialization and deeper domain decoding are left to
// the chain package.
type BodyResponse struct {
	Body Bytes
}

func (r *BodyResponse) Kind() Kind { return KindBody }

func (r *BodyResponse) FillOutputs(func(idx uint64, out Output)) {}

// EncodeRLP writes the body's raw bytes directly, with no outer wrapping.
func (r BodyResponse) EncodeRLP(w io.Writer) error {
	_, err := w.Write(r.Body)
	return err
}

// DecodeRLP captures the next element's raw bytes, re-validating that they
// decode as a well-formed [transactions, uncles] body before accepting them.
func (r *BodyResponse) DecodeRLP(s *rlp.Stream) error {
	raw, err := s.Raw()
	if err != nil {
		return err
	}
	if err := validateBodyShape(raw); err != nil {
		return fmt.Errorf("pip: body in response: %w", err)
	}
	r.Body = raw
	return nil
}
