package pip

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// ReceiptsRequest asks for the full receipt list of the block identified by
// Hash.
type ReceiptsRequest struct {
	Hash Field[Hash]
}

func (r *ReceiptsRequest) Kind() Kind { return KindReceipts }

func (r *ReceiptsRequest) CheckOutputs(check CheckFunc) error {
	ref, ok := r.Hash.Ref()
	if !ok {
		return nil
	}
	return check(ref.ReqIdx, ref.OutIdx, OutputKindHash)
}

func (r *ReceiptsRequest) NoteOutputs(NoteFunc) {}

func (r *ReceiptsRequest) Fill(oracle OracleFunc) {
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

func (r *ReceiptsRequest) Complete() (CompleteRequest, error) {
	hash, err := r.Hash.IntoScalar()
	if err != nil {
		return nil, err
	}
	return &CompleteReceiptsRequest{Hash: hash}, nil
}

func (r *ReceiptsRequest) AdjustRefs(mapping MapFunc) { r.Hash.AdjustReq(mapping) }

// CompleteReceiptsRequest is a ReceiptsRequest with Hash resolved.
type CompleteReceiptsRequest struct {
	Hash Hash
}

func (r *CompleteReceiptsRequest) Kind() Kind { return KindReceipts }

// ReceiptsResponse carries a block's full receipt list. It declares no
// reusable outputs.
type ReceiptsResponse struct {
	Receipts []Receipt
}

func (r *ReceiptsResponse) Kind() Kind { return KindReceipts }

func (r *ReceiptsResponse) FillOutputs(func(idx uint64, out Output)) {}

// EncodeRLP writes the receipt list directly, with no outer wrapping.
func (r ReceiptsResponse) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, r.Receipts)
}

// DecodeRLP reads a bare list of receipts.
func (r *ReceiptsResponse) DecodeRLP(s *rlp.Stream) error {
	return s.Decode(&r.Receipts)
}
