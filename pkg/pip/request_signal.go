package pip

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// SignalRequest asks for the epoch transition signal data attached to the
// block identified by BlockHash.
type SignalRequest struct {
	BlockHash Field[Hash]
}

func (r *SignalRequest) Kind() Kind { return KindSignal }

func (r *SignalRequest) CheckOutputs(check CheckFunc) error {
	ref, ok := r.BlockHash.Ref()
	if !ok {
		return nil
	}
	return check(ref.ReqIdx, ref.OutIdx, OutputKindHash)
}

func (r *SignalRequest) NoteOutputs(NoteFunc) {}

func (r *SignalRequest) Fill(oracle OracleFunc) {
	ref, ok := r.BlockHash.Ref()
	if !ok {
		return
	}
	out, err := oracle(ref.ReqIdx, ref.OutIdx)
	if err != nil {
		return
	}
	if h, ok := out.Hash(); ok {
		r.BlockHash = Scalar(h)
	}
}

func (r *SignalRequest) Complete() (CompleteRequest, error) {
	blockHash, err := r.BlockHash.IntoScalar()
	if err != nil {
		return nil, err
	}
	return &CompleteSignalRequest{BlockHash: blockHash}, nil
}

func (r *SignalRequest) AdjustRefs(mapping MapFunc) { r.BlockHash.AdjustReq(mapping) }

// CompleteSignalRequest is a SignalRequest with BlockHash resolved.
type CompleteSignalRequest struct {
	BlockHash Hash
}

func (r *CompleteSignalRequest) Kind() Kind { return KindSignal }

// SignalResponse carries the raw epoch signal bytes attached to a block. It
// declares no reusable outputs.
type SignalResponse struct {
	Signal Bytes
}

func (r *SignalResponse) Kind() Kind { return KindSignal }

func (r *SignalResponse) FillOutputs(func(idx uint64, out Output)) {}

// EncodeRLP writes the signal bytes directly as a single RLP byte string.
func (r SignalResponse) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, r.Signal)
}

// DecodeRLP reads a bare RLP byte string.
func (r *SignalResponse) DecodeRLP(s *rlp.Stream) error {
	return s.Decode(&r.Signal)
}
