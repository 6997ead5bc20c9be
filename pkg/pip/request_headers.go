package pip

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"pipnet/pkg/wire"
)

// HeadersRequest asks for a run of consecutive headers starting at Start,
// skipping Skip between each, returning at most Max, optionally walking
// backwards from Start when Reverse is set.
type HeadersRequest struct {
	Start   Field[wire.HashOrNumber]
	Skip    uint64
	Max     uint64
	Reverse bool
}

func (r *HeadersRequest) Kind() Kind { return KindHeaders }

// CheckOutputs checks start, when it is a back-reference, against either
// the Hash or the Number output kind: the source block may be identified
// either way. It declares no outputs of its own.
func (r *HeadersRequest) CheckOutputs(check CheckFunc) error {
	ref, ok := r.Start.Ref()
	if !ok {
		return nil
	}
	if err := check(ref.ReqIdx, ref.OutIdx, OutputKindHash); err != nil {
		return check(ref.ReqIdx, ref.OutIdx, OutputKindNumber)
	}
	return nil
}

func (r *HeadersRequest) NoteOutputs(NoteFunc) {}

func (r *HeadersRequest) Fill(oracle OracleFunc) {
	ref, ok := r.Start.Ref()
	if !ok {
		return
	}
	out, err := oracle(ref.ReqIdx, ref.OutIdx)
	if err != nil {
		return
	}
	if h, ok := out.Hash(); ok {
		r.Start = Scalar(wire.FromHash(h))
		return
	}
	if n, ok := out.Number(); ok {
		r.Start = Scalar(wire.FromNumber(n))
	}
}

func (r *HeadersRequest) Complete() (CompleteRequest, error) {
	start, err := r.Start.IntoScalar()
	if err != nil {
		return nil, err
	}
	return &CompleteHeadersRequest{Start: start, Skip: r.Skip, Max: r.Max, Reverse: r.Reverse}, nil
}

func (r *HeadersRequest) AdjustRefs(mapping MapFunc) { r.Start.AdjustReq(mapping) }

// CompleteHeadersRequest is a HeadersRequest with every input resolved.
type CompleteHeadersRequest struct {
	Start   wire.HashOrNumber
	Skip    uint64
	Max     uint64
	Reverse bool
}

func (r *CompleteHeadersRequest) Kind() Kind { return KindHeaders }

// HeadersResponse carries the requested headers in the order they were
// walked from Start, each still in its raw RLP encoding. It declares no reusable outputs.
type HeadersResponse struct {
	Headers []rlp.RawValue
}

func (r *HeadersResponse) Kind() Kind { return KindHeaders }

func (r *HeadersResponse) FillOutputs(func(idx uint64, out Output)) {}

// EncodeRLP writes the header list directly, with no outer wrapping: the
// wire shape is the list of headers itself, not a single-field struct
// containing it.
func (r HeadersResponse) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, r.Headers)
}

// DecodeRLP reads a bare list of raw header encodings, re-validating each
// item decodes as a well-formed header: a response whose body decodes but
// whose items are semantically malformed is rejected the same as truncated
// or oversize input.
func (r *HeadersResponse) DecodeRLP(s *rlp.Stream) error {
	var raw []rlp.RawValue
	if err := s.Decode(&raw); err != nil {
		return err
	}
	for i, item := range raw {
		if err := validateHeaderShape(item); err != nil {
			return fmt.Errorf("pip: header %d in response: %w", i, err)
		}
	}
	r.Headers = raw
	return nil
}
