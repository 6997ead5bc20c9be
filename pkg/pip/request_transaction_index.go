package pip

// TransactionIndexRequest asks for the block number, block hash, and
// in-block index of the transaction identified by Hash.
type TransactionIndexRequest struct {
	Hash Field[Hash]
}

func (r *TransactionIndexRequest) Kind() Kind { return KindTransactionIndex }

func (r *TransactionIndexRequest) CheckOutputs(check CheckFunc) error {
	ref, ok := r.Hash.Ref()
	if !ok {
		return nil
	}
	return check(ref.ReqIdx, ref.OutIdx, OutputKindHash)
}

// NoteOutputs declares slot 0 as the containing block's number and slot 1
// as its hash.
func (r *TransactionIndexRequest) NoteOutputs(note NoteFunc) {
	note(0, OutputKindNumber)
	note(1, OutputKindHash)
}

func (r *TransactionIndexRequest) Fill(oracle OracleFunc) {
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

func (r *TransactionIndexRequest) Complete() (CompleteRequest, error) {
	hash, err := r.Hash.IntoScalar()
	if err != nil {
		return nil, err
	}
	return &CompleteTransactionIndexRequest{Hash: hash}, nil
}

func (r *TransactionIndexRequest) AdjustRefs(mapping MapFunc) { r.Hash.AdjustReq(mapping) }

// CompleteTransactionIndexRequest is a TransactionIndexRequest with Hash
// resolved.
type CompleteTransactionIndexRequest struct {
	Hash Hash
}

func (r *CompleteTransactionIndexRequest) Kind() Kind { return KindTransactionIndex }

// TransactionIndexResponse locates a transaction within a block: its
// containing block's number and hash, and its index within that block. It
// declares output slot 0 as the block number and slot 1 as the block hash.
type TransactionIndexResponse struct {
	Num   uint64
	Hash  Hash
	Index uint64
}

func (r *TransactionIndexResponse) Kind() Kind { return KindTransactionIndex }

func (r *TransactionIndexResponse) FillOutputs(note func(idx uint64, out Output)) {
	note(0, NumberOutput(r.Num))
	note(1, HashOutput(r.Hash))
}
