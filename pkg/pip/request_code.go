package pip

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// CodeRequest asks for the contract code identified by CodeHash, in the
// state trie rooted by the block identified by BlockHash.
type CodeRequest struct {
	BlockHash Field[Hash]
	CodeHash  Field[Hash]
}

func (r *CodeRequest) Kind() Kind { return KindCode }

func (r *CodeRequest) CheckOutputs(check CheckFunc) error {
	if ref, ok := r.BlockHash.Ref(); ok {
		if err := check(ref.ReqIdx, ref.OutIdx, OutputKindHash); err != nil {
			return err
		}
	}
	if ref, ok := r.CodeHash.Ref(); ok {
		if err := check(ref.ReqIdx, ref.OutIdx, OutputKindHash); err != nil {
			return err
		}
	}
	return nil
}

func (r *CodeRequest) NoteOutputs(NoteFunc) {}

func (r *CodeRequest) Fill(oracle OracleFunc) {
	if ref, ok := r.BlockHash.Ref(); ok {
		if out, err := oracle(ref.ReqIdx, ref.OutIdx); err == nil {
			if h, ok := out.Hash(); ok {
				r.BlockHash = Scalar(h)
			}
		}
	}
	if ref, ok := r.CodeHash.Ref(); ok {
		if out, err := oracle(ref.ReqIdx, ref.OutIdx); err == nil {
			if h, ok := out.Hash(); ok {
				r.CodeHash = Scalar(h)
			}
		}
	}
}

func (r *CodeRequest) Complete() (CompleteRequest, error) {
	blockHash, err := r.BlockHash.IntoScalar()
	if err != nil {
		return nil, err
	}
	codeHash, err := r.CodeHash.IntoScalar()
	if err != nil {
		return nil, err
	}
	return &CompleteCodeRequest{BlockHash: blockHash, CodeHash: codeHash}, nil
}

func (r *CodeRequest) AdjustRefs(mapping MapFunc) {
	r.BlockHash.AdjustReq(mapping)
	r.CodeHash.AdjustReq(mapping)
}

// CompleteCodeRequest is a CodeRequest with both hashes resolved.
type CompleteCodeRequest struct {
	BlockHash Hash
	CodeHash  Hash
}

func (r *CompleteCodeRequest) Kind() Kind { return KindCode }

// CodeResponse carries raw contract code. It declares no reusable outputs.
type CodeResponse struct {
	Code Bytes
}

func (r *CodeResponse) Kind() Kind { return KindCode }

func (r *CodeResponse) FillOutputs(func(idx uint64, out Output)) {}

// EncodeRLP writes the code bytes directly as a single RLP byte string,
// with no outer list wrapping.
func (r CodeResponse) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, r.Code)
}

// DecodeRLP reads a bare RLP byte string.
func (r *CodeResponse) DecodeRLP(s *rlp.Stream) error {
	return s.Decode(&r.Code)
}
