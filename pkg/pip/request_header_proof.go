package pip

import "github.com/holiman/uint256"

// HeaderProofRequest asks for a CHT inclusion proof of the header and total
// difficulty at block number Num.
type HeaderProofRequest struct {
	Num Field[uint64]
}

func (r *HeaderProofRequest) Kind() Kind { return KindHeaderProof }

func (r *HeaderProofRequest) CheckOutputs(check CheckFunc) error {
	ref, ok := r.Num.Ref()
	if !ok {
		return nil
	}
	return check(ref.ReqIdx, ref.OutIdx, OutputKindNumber)
}

// NoteOutputs declares output slot 0 as the proved header's hash.
func (r *HeaderProofRequest) NoteOutputs(note NoteFunc) { note(0, OutputKindHash) }

func (r *HeaderProofRequest) Fill(oracle OracleFunc) {
	ref, ok := r.Num.Ref()
	if !ok {
		return
	}
	out, err := oracle(ref.ReqIdx, ref.OutIdx)
	if err != nil {
		return
	}
	if n, ok := out.Number(); ok {
		r.Num = Scalar(n)
	}
}

func (r *HeaderProofRequest) Complete() (CompleteRequest, error) {
	num, err := r.Num.IntoScalar()
	if err != nil {
		return nil, err
	}
	return &CompleteHeaderProofRequest{Num: num}, nil
}

func (r *HeaderProofRequest) AdjustRefs(mapping MapFunc) { r.Num.AdjustReq(mapping) }

// CompleteHeaderProofRequest is a HeaderProofRequest with Num resolved.
type CompleteHeaderProofRequest struct {
	Num uint64
}

func (r *CompleteHeaderProofRequest) Kind() Kind { return KindHeaderProof }

// HeaderProofResponse carries a CHT inclusion proof for the header and total
// difficulty at the requested number. It declares output slot 0 as the
// proved header's hash.
type HeaderProofResponse struct {
	Proof []Bytes
	Hash  Hash
	TD    *uint256.Int
}

func (r *HeaderProofResponse) Kind() Kind { return KindHeaderProof }

func (r *HeaderProofResponse) FillOutputs(note func(idx uint64, out Output)) {
	note(0, HashOutput(r.Hash))
}
