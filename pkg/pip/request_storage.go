package pip

// StorageRequest asks for a Merkle proof of the storage value at KeyHash
// within the account at AddressHash, in the state trie rooted by the block
// identified by BlockHash.
type StorageRequest struct {
	BlockHash   Field[Hash]
	AddressHash Field[Hash]
	KeyHash     Field[Hash]
}

func (r *StorageRequest) Kind() Kind { return KindStorage }

func (r *StorageRequest) CheckOutputs(check CheckFunc) error {
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
	if ref, ok := r.KeyHash.Ref(); ok {
		if err := check(ref.ReqIdx, ref.OutIdx, OutputKindHash); err != nil {
			return err
		}
	}
	return nil
}

// NoteOutputs declares slot 0 as the storage value.
func (r *StorageRequest) NoteOutputs(note NoteFunc) { note(0, OutputKindHash) }

func (r *StorageRequest) Fill(oracle OracleFunc) {
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
	if ref, ok := r.KeyHash.Ref(); ok {
		if out, err := oracle(ref.ReqIdx, ref.OutIdx); err == nil {
			if h, ok := out.Hash(); ok {
				r.KeyHash = Scalar(h)
			}
		}
	}
}

func (r *StorageRequest) Complete() (CompleteRequest, error) {
	blockHash, err := r.BlockHash.IntoScalar()
	if err != nil {
		return nil, err
	}
	addressHash, err := r.AddressHash.IntoScalar()
	if err != nil {
		return nil, err
	}
	keyHash, err := r.KeyHash.IntoScalar()
	if err != nil {
		return nil, err
	}
	return &CompleteStorageRequest{BlockHash: blockHash, AddressHash: addressHash, KeyHash: keyHash}, nil
}

func (r *StorageRequest) AdjustRefs(mapping MapFunc) {
	r.BlockHash.AdjustReq(mapping)
	r.AddressHash.AdjustReq(mapping)
	r.KeyHash.AdjustReq(mapping)
}

// CompleteStorageRequest is a StorageRequest with every hash resolved.
type CompleteStorageRequest struct {
	BlockHash   Hash
	AddressHash Hash
	KeyHash     Hash
}

func (r *CompleteStorageRequest) Kind() Kind { return KindStorage }

// StorageResponse carries a storage slot's Merkle inclusion/exclusion proof
// and value. It declares output slot 0 as the value.
type StorageResponse struct {
	Proof []Bytes
	Value Hash
}

func (r *StorageResponse) Kind() Kind { return KindStorage }

func (r *StorageResponse) FillOutputs(note func(idx uint64, out Output)) {
	note(0, HashOutput(r.Value))
}
