package pip

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// ExecutionRequest asks for a proof sufficient to re-execute a transaction
// against the state rooted by the block identified by BlockHash, without
// trusting the provider's execution result.
type ExecutionRequest struct {
	BlockHash Field[Hash]
	From      Address
	Action    Action
	Gas       *uint256.Int
	GasPrice  *uint256.Int
	Value     *uint256.Int
	Data      Bytes
}

func (r *ExecutionRequest) Kind() Kind { return KindExecution }

func (r *ExecutionRequest) CheckOutputs(check CheckFunc) error {
	ref, ok := r.BlockHash.Ref()
	if !ok {
		return nil
	}
	return check(ref.ReqIdx, ref.OutIdx, OutputKindHash)
}

func (r *ExecutionRequest) NoteOutputs(NoteFunc) {}

func (r *ExecutionRequest) Fill(oracle OracleFunc) {
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

func (r *ExecutionRequest) Complete() (CompleteRequest, error) {
	blockHash, err := r.BlockHash.IntoScalar()
	if err != nil {
		return nil, err
	}
	return &CompleteExecutionRequest{
		BlockHash: blockHash,
		From:      r.From,
		Action:    r.Action,
		Gas:       r.Gas,
		GasPrice:  r.GasPrice,
		Value:     r.Value,
		Data:      r.Data,
	}, nil
}

func (r *ExecutionRequest) AdjustRefs(mapping MapFunc) { r.BlockHash.AdjustReq(mapping) }

// CompleteExecutionRequest is an ExecutionRequest with BlockHash resolved.
type CompleteExecutionRequest struct {
	BlockHash Hash
	From      Address
	Action    Action
	Gas       *uint256.Int
	GasPrice  *uint256.Int
	Value     *uint256.Int
	Data      Bytes
}

func (r *CompleteExecutionRequest) Kind() Kind { return KindExecution }

// ExecutionResponse carries the state items (trie nodes, code) needed to
// re-prove the transaction's execution. It declares no reusable outputs.
type ExecutionResponse struct {
	Items []Bytes
}

func (r *ExecutionResponse) Kind() Kind { return KindExecution }

func (r *ExecutionResponse) FillOutputs(func(idx uint64, out Output)) {}

// EncodeRLP writes the item list directly, with no outer wrapping.
func (r ExecutionResponse) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, r.Items)
}

// DecodeRLP reads a bare list of byte strings.
func (r *ExecutionResponse) DecodeRLP(s *rlp.Stream) error {
	return s.Decode(&r.Items)
}
