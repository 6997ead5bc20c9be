package pip

import "fmt"

// ChainOracle answers a single complete request of each kind, delegating to
// whatever backs the pipeline: a full node's state and chain databases, or
// an in-memory fixture in tests. The pipeline itself proves nothing; it only
// routes complete requests to the oracle and records the outputs the
// returned responses declare.
type ChainOracle interface {
	Headers(req *CompleteHeadersRequest) (*HeadersResponse, error)
	HeaderProof(req *CompleteHeaderProofRequest) (*HeaderProofResponse, error)
	TransactionIndex(req *CompleteTransactionIndexRequest) (*TransactionIndexResponse, error)
	Receipts(req *CompleteReceiptsRequest) (*ReceiptsResponse, error)
	Body(req *CompleteBodyRequest) (*BodyResponse, error)
	Account(req *CompleteAccountRequest) (*AccountResponse, error)
	Storage(req *CompleteStorageRequest) (*StorageResponse, error)
	Code(req *CompleteCodeRequest) (*CodeResponse, error)
	Execution(req *CompleteExecutionRequest) (*ExecutionResponse, error)
	Signal(req *CompleteSignalRequest) (*SignalResponse, error)
}

// Pair couples a request, with every back-reference resolved, to its
// validated response.
type Pair struct {
	Request  CompleteRequest
	Response Response
}

// Batch is an ordered sequence of requests forming one pipelined exchange.
// A back-reference may only name a strictly earlier request in the same
// batch; Append statically enforces this, and the declared OutputKind of
// the target slot, before any request is ever answered.
type Batch struct {
	requests []Request
	declared []map[uint64]OutputKind
}

// NewBuilder returns an empty batch builder.
func NewBuilder() *Batch { return &Batch{} }

// Len reports the number of requests appended so far.
func (b *Batch) Len() int { return len(b.requests) }

// Requests returns the batch's requests in append order.
func (b *Batch) Requests() []Request { return b.requests }

// Append statically validates req's back-references against every
// already-declared output in the batch, then records req's own declared
// outputs for later requests to reference. A back-reference to a request at
// or beyond req's own position, or to a declared output of the wrong kind,
// fails with ErrNoSuchOutput.
func (b *Batch) Append(req Request) error {
	idx := uint64(len(b.requests))
	check := func(reqIdx, outIdx uint64, expect OutputKind) error {
		if reqIdx >= idx {
			return ErrNoSuchOutput
		}
		kind, ok := b.declared[reqIdx][outIdx]
		if !ok || kind != expect {
			return ErrNoSuchOutput
		}
		return nil
	}
	if err := req.CheckOutputs(check); err != nil {
		return fmt.Errorf("pip: batch append request %d: %w", idx, err)
	}

	kinds := make(map[uint64]OutputKind)
	req.NoteOutputs(func(outIdx uint64, kind OutputKind) {
		kinds[outIdx] = kind
	})

	b.requests = append(b.requests, req)
	b.declared = append(b.declared, kinds)
	return nil
}

// Answer fills every back-reference from the responses already produced
// earlier in the batch, completes each request in turn, and dispatches it
// to oracle. It fails on the first request that cannot be completed or
// answered.
func (b *Batch) Answer(oracle ChainOracle) ([]Response, error) {
	store := NewStore()
	responses := make([]Response, len(b.requests))
	for i, req := range b.requests {
		req.Fill(store.Oracle())
		complete, err := req.Complete()
		if err != nil {
			return nil, fmt.Errorf("pip: answer request %d: %w", i, err)
		}
		resp, err := dispatch(oracle, complete)
		if err != nil {
			return nil, fmt.Errorf("pip: answer request %d: %w", i, err)
		}
		idx := uint64(i)
		resp.FillOutputs(func(outIdx uint64, out Output) {
			store.Set(idx, outIdx, out)
		})
		responses[i] = resp
	}
	return responses, nil
}

// Ingest validates a provider's responses against this batch's requests, in
// order, filling the output store as it goes so later requests' back-
// references resolve against earlier responses in the same exchange.
func (b *Batch) Ingest(responses []Response) ([]Pair, error) {
	if len(responses) != len(b.requests) {
		return nil, fmt.Errorf("pip: expected %d responses, got %d", len(b.requests), len(responses))
	}
	store := NewStore()
	pairs := make([]Pair, len(b.requests))
	for i, req := range b.requests {
		req.Fill(store.Oracle())
		resp := responses[i]
		if err := Validate(req, resp); err != nil {
			return nil, fmt.Errorf("pip: ingest request %d: %w", i, err)
		}
		complete, err := req.Complete()
		if err != nil {
			return nil, fmt.Errorf("pip: ingest request %d: %w", i, err)
		}
		idx := uint64(i)
		resp.FillOutputs(func(outIdx uint64, out Output) {
			store.Set(idx, outIdx, out)
		})
		pairs[i] = Pair{Request: complete, Response: resp}
	}
	return pairs, nil
}

// AdjustRefs rewrites every request's back-reference request indices by
// adding offset. Used when this batch will be appended after another of
// known length.
func (b *Batch) AdjustRefs(offset uint64) {
	for _, req := range b.requests {
		req.AdjustRefs(func(reqIdx uint64) uint64 { return reqIdx + offset })
	}
}

// Concat merges a and b into one batch, shifting every back-reference in
// b's requests by the length of a so they continue to resolve correctly
// against the merged sequence.
func Concat(a, b *Batch) (*Batch, error) {
	merged := NewBuilder()
	for _, req := range a.requests {
		if err := merged.Append(req); err != nil {
			return nil, err
		}
	}
	offset := uint64(len(a.requests))
	for _, req := range b.requests {
		req.AdjustRefs(func(reqIdx uint64) uint64 { return reqIdx + offset })
		if err := merged.Append(req); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

func dispatch(oracle ChainOracle, complete CompleteRequest) (Response, error) {
	switch c := complete.(type) {
	case *CompleteHeadersRequest:
		return oracle.Headers(c)
	case *CompleteHeaderProofRequest:
		return oracle.HeaderProof(c)
	case *CompleteTransactionIndexRequest:
		return oracle.TransactionIndex(c)
	case *CompleteReceiptsRequest:
		return oracle.Receipts(c)
	case *CompleteBodyRequest:
		return oracle.Body(c)
	case *CompleteAccountRequest:
		return oracle.Account(c)
	case *CompleteStorageRequest:
		return oracle.Storage(c)
	case *CompleteCodeRequest:
		return oracle.Code(c)
	case *CompleteExecutionRequest:
		return oracle.Execution(c)
	case *CompleteSignalRequest:
		return oracle.Signal(c)
	default:
		return nil, fmt.Errorf("pip: unhandled complete request type %T", complete)
	}
}
