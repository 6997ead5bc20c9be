package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"pipnet/pkg/peer"
	"pipnet/pkg/pip"
	"pipnet/pkg/wire"
)

// fakeTransport connects two in-process sessions through buffered
// channels, standing in for peer.LibP2PTransport in tests.
type fakeTransport struct {
	mu   sync.Mutex
	subs map[string]chan peer.InboundMsg
	peer *fakeTransport
	self string
}

func newFakePair() (*fakeTransport, *fakeTransport) {
	a := &fakeTransport{subs: make(map[string]chan peer.InboundMsg), self: "client"}
	b := &fakeTransport{subs: make(map[string]chan peer.InboundMsg), self: "provider"}
	a.peer = b
	b.peer = a
	return a, b
}

func (f *fakeTransport) Peers() []string       { return []string{f.peer.self} }
func (f *fakeTransport) Sample(n int) []string { return f.Peers() }

func (f *fakeTransport) SendAsync(peerID, proto string, code byte, payload []byte) error {
	f.peer.mu.Lock()
	ch, ok := f.peer.subs[proto]
	f.peer.mu.Unlock()
	if !ok {
		return nil
	}
	msg := append([]byte{code}, payload...)
	ch <- peer.InboundMsg{PeerID: f.self, Payload: msg, Topic: proto, Ts: time.Now().UnixMilli()}
	return nil
}

func (f *fakeTransport) Subscribe(proto string) <-chan peer.InboundMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.subs[proto]; ok {
		return ch
	}
	ch := make(chan peer.InboundMsg, 8)
	f.subs[proto] = ch
	return ch
}

func (f *fakeTransport) Unsubscribe(proto string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.subs[proto]; ok {
		close(ch)
		delete(f.subs, proto)
	}
}

func (f *fakeTransport) Disconnect(peerID string) error { return nil }
func (f *fakeTransport) Close() error                   { return nil }

// fakeOracle answers every Headers request with a fixed, empty response.
type fakeOracle struct{}

func (fakeOracle) Headers(req *pip.CompleteHeadersRequest) (*pip.HeadersResponse, error) {
	return &pip.HeadersResponse{}, nil
}
func (fakeOracle) HeaderProof(req *pip.CompleteHeaderProofRequest) (*pip.HeaderProofResponse, error) {
	return nil, nil
}
func (fakeOracle) TransactionIndex(req *pip.CompleteTransactionIndexRequest) (*pip.TransactionIndexResponse, error) {
	return nil, nil
}
func (fakeOracle) Receipts(req *pip.CompleteReceiptsRequest) (*pip.ReceiptsResponse, error) {
	return nil, nil
}
func (fakeOracle) Body(req *pip.CompleteBodyRequest) (*pip.BodyResponse, error) { return nil, nil }
func (fakeOracle) Account(req *pip.CompleteAccountRequest) (*pip.AccountResponse, error) {
	return nil, nil
}
func (fakeOracle) Storage(req *pip.CompleteStorageRequest) (*pip.StorageResponse, error) {
	return nil, nil
}
func (fakeOracle) Code(req *pip.CompleteCodeRequest) (*pip.CodeResponse, error) { return nil, nil }
func (fakeOracle) Execution(req *pip.CompleteExecutionRequest) (*pip.ExecutionResponse, error) {
	return nil, nil
}
func (fakeOracle) Signal(req *pip.CompleteSignalRequest) (*pip.SignalResponse, error) {
	return nil, nil
}

func TestQueryAgainstProvider(t *testing.T) {
	clientTransport, providerTransport := newFakePair()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	providerRep, err := peer.NewReputationTable(8)
	if err != nil {
		t.Fatalf("reputation table: %v", err)
	}
	clientRep, err := peer.NewReputationTable(8)
	if err != nil {
		t.Fatalf("reputation table: %v", err)
	}

	cfg := Config{CreditMax: 1000, CreditRefillRate: 100, CostPerRequest: 10}
	provider := New(logger, cfg, providerTransport, fakeOracle{}, providerRep)
	provider.Start()
	defer provider.Stop()

	client := New(logger, cfg, clientTransport, nil, clientRep)

	batch := pip.NewBuilder()
	if err := batch.Append(&pip.HeadersRequest{Start: pip.Scalar(wire.FromNumber(1)), Max: 1}); err != nil {
		t.Fatalf("append: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	pairs, err := client.Query(ctx, "provider", batch)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if _, ok := pairs[0].Response.(*pip.HeadersResponse); !ok {
		t.Fatalf("expected HeadersResponse, got %T", pairs[0].Response)
	}
}
