package pip

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"pipnet/pkg/wire"
)

// fakeOracle answers every request kind from fixed in-memory fixtures. It
// exists only to exercise Batch.Answer/Ingest without a real chain store.
type fakeOracle struct {
	headerHash  Hash
	headerNum   uint64
	td          *uint256.Int
	txHash      Hash
	blockNum    uint64
	blockHash   Hash
	txIndex     uint64
	receipts    []Receipt
	body        Bytes
	codeHash    Hash
	storageRoot Hash
	code        Bytes
	execErr     error
}

func (f *fakeOracle) Headers(req *CompleteHeadersRequest) (*HeadersResponse, error) {
	return &HeadersResponse{Headers: nil}, nil
}

func (f *fakeOracle) HeaderProof(req *CompleteHeaderProofRequest) (*HeaderProofResponse, error) {
	if req.Num != f.headerNum {
		return nil, errors.New("fakeOracle: unknown header number")
	}
	return &HeaderProofResponse{Proof: nil, Hash: f.headerHash, TD: f.td}, nil
}

func (f *fakeOracle) TransactionIndex(req *CompleteTransactionIndexRequest) (*TransactionIndexResponse, error) {
	if req.Hash != f.txHash {
		return nil, errors.New("fakeOracle: unknown transaction")
	}
	return &TransactionIndexResponse{Num: f.blockNum, Hash: f.blockHash, Index: f.txIndex}, nil
}

func (f *fakeOracle) Receipts(req *CompleteReceiptsRequest) (*ReceiptsResponse, error) {
	if req.Hash != f.blockHash {
		return nil, errors.New("fakeOracle: unknown block")
	}
	return &ReceiptsResponse{Receipts: f.receipts}, nil
}

func (f *fakeOracle) Body(req *CompleteBodyRequest) (*BodyResponse, error) {
	if req.Hash != f.headerHash && req.Hash != f.blockHash {
		return nil, errors.New("fakeOracle: unknown body")
	}
	return &BodyResponse{Body: f.body}, nil
}

func (f *fakeOracle) Account(req *CompleteAccountRequest) (*AccountResponse, error) {
	return &AccountResponse{
		Nonce:       uint256.NewInt(1),
		Balance:     uint256.NewInt(100),
		CodeHash:    f.codeHash,
		StorageRoot: f.storageRoot,
	}, nil
}

func (f *fakeOracle) Storage(req *CompleteStorageRequest) (*StorageResponse, error) {
	return &StorageResponse{Value: Hash{0xAB}}, nil
}

func (f *fakeOracle) Code(req *CompleteCodeRequest) (*CodeResponse, error) {
	return &CodeResponse{Code: f.code}, nil
}

func (f *fakeOracle) Execution(req *CompleteExecutionRequest) (*ExecutionResponse, error) {
	if f.execErr != nil {
		return nil, f.execErr
	}
	return &ExecutionResponse{Items: []Bytes{[]byte("proof-item")}}, nil
}

func (f *fakeOracle) Signal(req *CompleteSignalRequest) (*SignalResponse, error) {
	return &SignalResponse{Signal: []byte("signal")}, nil
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		headerHash: Hash{0x01},
		headerNum:  100,
		td:         uint256.NewInt(9999),
		txHash:     Hash{0x02},
		blockNum:   100,
		blockHash:  Hash{0x01},
		txIndex:    3,
		receipts:   []Receipt{{CumulativeGasUsed: 21000}},
		body:       []byte{0xc0},
		codeHash:   Hash{0x03},
		code:       []byte{0x60, 0x60},
	}
}

// TestHeaderProofThenBody covers HeaderProof -> Body chained by a
// back-reference to the proved header's hash.
func TestHeaderProofThenBody(t *testing.T) {
	oracle := newFakeOracle()
	batch := NewBuilder()

	if err := batch.Append(&HeaderProofRequest{Num: Scalar(oracle.headerNum)}); err != nil {
		t.Fatalf("append HeaderProof: %v", err)
	}
	if err := batch.Append(&BodyRequest{Hash: BackReference[Hash](0, 0)}); err != nil {
		t.Fatalf("append Body: %v", err)
	}

	responses, err := batch.Answer(oracle)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	body, ok := responses[1].(*BodyResponse)
	if !ok {
		t.Fatalf("expected BodyResponse, got %T", responses[1])
	}
	if string(body.Body) != string(oracle.body) {
		t.Fatalf("unexpected body: %x", body.Body)
	}
}

// TestHeadersWithScalarStart covers a Headers request with no
// back-references at all.
func TestHeadersWithScalarStart(t *testing.T) {
	oracle := newFakeOracle()
	batch := NewBuilder()
	req := &HeadersRequest{Start: Scalar(wire.FromNumber(1)), Max: 10}
	if err := batch.Append(req); err != nil {
		t.Fatalf("append: %v", err)
	}
	responses, err := batch.Answer(oracle)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if _, ok := responses[0].(*HeadersResponse); !ok {
		t.Fatalf("expected HeadersResponse, got %T", responses[0])
	}
}

// TestTransactionIndexThenReceipts covers TransactionIndex -> Receipts
// chained through the block-hash output.
func TestTransactionIndexThenReceipts(t *testing.T) {
	oracle := newFakeOracle()
	batch := NewBuilder()
	if err := batch.Append(&TransactionIndexRequest{Hash: Scalar(oracle.txHash)}); err != nil {
		t.Fatalf("append TransactionIndex: %v", err)
	}
	if err := batch.Append(&ReceiptsRequest{Hash: BackReference[Hash](0, 1)}); err != nil {
		t.Fatalf("append Receipts: %v", err)
	}
	responses, err := batch.Answer(oracle)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	receipts, ok := responses[1].(*ReceiptsResponse)
	if !ok {
		t.Fatalf("expected ReceiptsResponse, got %T", responses[1])
	}
	if len(receipts.Receipts) != 1 {
		t.Fatalf("expected 1 receipt, got %d", len(receipts.Receipts))
	}
}

// TestBadBackReferenceRejected covers a back-reference naming a request at
// or beyond its own position, and one naming the wrong declared OutputKind.
func TestBadBackReferenceRejected(t *testing.T) {
	batch := NewBuilder()
	if err := batch.Append(&ReceiptsRequest{Hash: BackReference[Hash](0, 0)}); err == nil {
		t.Fatal("expected self-reference to be rejected")
	}

	batch2 := NewBuilder()
	if err := batch2.Append(&HeaderProofRequest{Num: Scalar(uint64(1))}); err != nil {
		t.Fatalf("append HeaderProof: %v", err)
	}
	// Slot 0 of a HeaderProofRequest is declared Hash, not Number.
	if err := batch2.Append(&HeaderProofRequest{Num: BackReference[uint64](0, 0)}); err == nil {
		t.Fatal("expected wrong-output-kind back-reference to be rejected")
	}
}

// TestKindMismatchRejected covers Validate's kind check during Ingest.
func TestKindMismatchRejected(t *testing.T) {
	batch := NewBuilder()
	if err := batch.Append(&CodeRequest{
		BlockHash: Scalar(Hash{0x01}),
		CodeHash:  Scalar(Hash{0x03}),
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	_, err := batch.Ingest([]Response{&SignalResponse{Signal: []byte("wrong kind")}})
	if !errors.Is(err, ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
}

// TestExecutionScalarOnly covers an Execution request with no
// back-references, round-tripped through Answer then Ingest.
func TestExecutionScalarOnly(t *testing.T) {
	oracle := newFakeOracle()
	batch := NewBuilder()
	req := &ExecutionRequest{
		BlockHash: Scalar(oracle.headerHash),
		From:      Address{0xAA},
		Action:    CallAction(Address{0xBB}),
		Gas:       uint256.NewInt(21000),
		GasPrice:  uint256.NewInt(1),
		Value:     uint256.NewInt(0),
	}
	if err := batch.Append(req); err != nil {
		t.Fatalf("append: %v", err)
	}
	responses, err := batch.Answer(oracle)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}

	ingestBatch := NewBuilder()
	if err := ingestBatch.Append(&ExecutionRequest{
		BlockHash: Scalar(oracle.headerHash),
		From:      Address{0xAA},
		Action:    CallAction(Address{0xBB}),
		Gas:       uint256.NewInt(21000),
		GasPrice:  uint256.NewInt(1),
		Value:     uint256.NewInt(0),
	}); err != nil {
		t.Fatalf("append ingest: %v", err)
	}
	pairs, err := ingestBatch.Ingest(responses)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	exec, ok := pairs[0].Response.(*ExecutionResponse)
	if !ok || len(exec.Items) != 1 {
		t.Fatalf("unexpected execution response: %+v ok=%v", pairs[0].Response, ok)
	}
}

func TestConcatShiftsBackReferences(t *testing.T) {
	oracle := newFakeOracle()

	a := NewBuilder()
	if err := a.Append(&HeaderProofRequest{Num: Scalar(oracle.headerNum)}); err != nil {
		t.Fatalf("append a: %v", err)
	}

	// b's back-reference names b's own request 0; after Concat it must name
	// that same request at its merged position, 1.
	b := NewBuilder()
	if err := b.Append(&HeaderProofRequest{Num: Scalar(oracle.headerNum)}); err != nil {
		t.Fatalf("append b: %v", err)
	}
	if err := b.Append(&BodyRequest{Hash: BackReference[Hash](0, 0)}); err != nil {
		t.Fatalf("append b: %v", err)
	}

	merged, err := Concat(a, b)
	if err != nil {
		t.Fatalf("concat: %v", err)
	}
	if merged.Len() != 3 {
		t.Fatalf("expected 3 requests, got %d", merged.Len())
	}
	ref, ok := merged.Requests()[2].(*BodyRequest).Hash.Ref()
	if !ok || ref.ReqIdx != 1 {
		t.Fatalf("expected shifted ref to request 1, got %+v ok=%v", ref, ok)
	}

	responses, err := merged.Answer(oracle)
	if err != nil {
		t.Fatalf("answer merged: %v", err)
	}
	if len(responses) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(responses))
	}
}
