package pip

import "github.com/holiman/uint256"

// AccountRequest asks for a Merkle proof of the account at AddressHash in
// the state trie rooted by the block identified by BlockHash.
type AccountRequest struct {
	BlockHash   Field[Hash]
	AddressHash Field[Hash]
}

func (r *AccountRequest) Kind() Kind { return KindAccount }

func (r *AccountRequest) CheckOutputs(check CheckFunc) error {
	if ref, ok := r.BlockHash.Ref(); ok {
		if err := check(ref.ReqIdx, ref.OutIdx, OutputKindHash); err != nil {
			return err
		}
	}
	if ref, ok := r.AddressHash.Ref(); ok {
		if err := check(ref.ReqIdx, ref.OutIdx, OutputKindHash); err != nil {
			return err
		}
	}
	return nil
}

// NoteOutputs declares slot 0 as the account's code hash and slot 1 as its
// storage trie root.
func (r *AccountRequest) NoteOutputs(note NoteFunc) {
	note(0, OutputKindHash)
	note(1, OutputKindHash)
}

func (r *AccountRequest) Fill(oracle OracleFunc) {
	if ref, ok := r.BlockHash.Ref(); ok {
		if out, err := oracle(ref.ReqIdx, ref.OutIdx); err == nil {
			if h, ok := out.Hash(); ok {
				r.BlockHash = Scalar(h)
			}
		}
	}
	if ref, ok := r.AddressHash.Ref(); ok {
		if out, err := oracle(ref.ReqIdx, ref.OutIdx); err == nil {
			if h, ok := out.Hash(); ok {
				r.AddressHash = Scalar(h)
			}
		}
	}
}

func (r *AccountRequest) Complete() (CompleteRequest, error) {
	blockHash, err := r.BlockHash.IntoScalar()
	if err != nil {
		return nil, err
	}
	addressHash, err := r.AddressHash.IntoScalar()
	if err != nil {
		return nil, err
	}
	return &CompleteAccountRequest{BlockHash: blockHash, AddressHash: addressHash}, nil
}

func (r *AccountRequest) AdjustRefs(mapping MapFunc) {
	r.BlockHash.AdjustReq(mapping)
	r.AddressHash.AdjustReq(mapping)
}

// CompleteAccountRequest is an AccountRequest with both hashes resolved.
type CompleteAccountRequest struct {
	BlockHash   Hash
	AddressHash Hash
}

func (r *CompleteAccountRequest) Kind() Kind { return KindAccount }

// AccountResponse carries an account's Merkle inclusion/exclusion proof and
// its state. It declares output slot 0 as the account's code hash and slot
// 1 as its storage trie root.
type AccountResponse struct {
	Proof       []Bytes
	Nonce       *uint256.Int
	Balance     *uint256.Int
	CodeHash    Hash
	StorageRoot Hash
}

func (r *AccountResponse) Kind() Kind { return KindAccount }

func (r *AccountResponse) FillOutputs(note func(idx uint64, out Output)) {
	note(0, HashOutput(r.CodeHash))
	note(1, HashOutput(r.StorageRoot))
}
