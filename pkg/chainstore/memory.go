// Package chainstore is a minimal in-memory implementation of
// oracle.ChainOracle. Persistence, state tries, and transaction execution
// are out of scope; this store exists to give cmd/pipnode something to
// serve and query against, and for tests that need a working collaborator
// rather than a hand-written fixture.
package chainstore

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	lru "github.com/hashicorp/golang-lru/v2"

	"pipnet/pkg/chain"
	"pipnet/pkg/oracle"
	"pipnet/pkg/pip"
)

// accountKey and storageKey flatten the two-hash and three-hash lookup keys
// state queries use into map keys.
type accountKey struct{ block, address pip.Hash }
type storageKey struct{ block, address, slot pip.Hash }

// Store holds headers, bodies, receipts, and a flat account/storage table.
// Headers are additionally kept in an LRU keyed by hash, mirroring the
// teacher's disk-cache pattern but bounded in memory rather than on disk
// since nothing here is persisted across runs.
type Store struct {
	mu sync.RWMutex

	byNumber map[uint64]chain.EncodedHeader
	byHash   *lru.Cache[pip.Hash, chain.EncodedHeader]
	bodies   map[pip.Hash]chain.EncodedBody
	receipts map[pip.Hash][]pip.Receipt
	txIndex  map[pip.Hash]txLocation
	accounts map[accountKey]accountState
	storage  map[storageKey]pip.Hash
	code     map[pip.Hash]pip.Bytes
	signals  map[pip.Hash]pip.Bytes
	totalDif map[uint64]*uint256.Int
}

type txLocation struct {
	num   uint64
	block pip.Hash
	index uint64
}

type accountState struct {
	nonce, balance        *uint256.Int
	codeHash, storageRoot pip.Hash
}

// New returns an empty store. headerCacheSize bounds the in-memory
// header-by-hash index.
func New(headerCacheSize int) (*Store, error) {
	if headerCacheSize <= 0 {
		headerCacheSize = 4096
	}
	cache, err := lru.New[pip.Hash, chain.EncodedHeader](headerCacheSize)
	if err != nil {
		return nil, fmt.Errorf("chainstore: new header cache: %w", err)
	}
	return &Store{
		byNumber: make(map[uint64]chain.EncodedHeader),
		byHash:   cache,
		bodies:   make(map[pip.Hash]chain.EncodedBody),
		receipts: make(map[pip.Hash][]pip.Receipt),
		txIndex:  make(map[pip.Hash]txLocation),
		accounts: make(map[accountKey]accountState),
		storage:  make(map[storageKey]pip.Hash),
		code:     make(map[pip.Hash]pip.Bytes),
		signals:  make(map[pip.Hash]pip.Bytes),
		totalDif: make(map[uint64]*uint256.Int),
	}, nil
}

// PutHeader indexes a header by both its number and its hash, and records
// a total difficulty for its number.
func (s *Store) PutHeader(h chain.EncodedHeader, td *uint256.Int) error {
	decoded, err := h.Decode()
	if err != nil {
		return fmt.Errorf("chainstore: put header: %w", err)
	}
	hash := h.Hash()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byNumber[decoded.Number] = h
	s.byHash.Add(hash, h)
	s.totalDif[decoded.Number] = td
	return nil
}

// PutBody indexes a block body under its block hash.
func (s *Store) PutBody(blockHash pip.Hash, b chain.EncodedBody) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[blockHash] = b
}

// PutReceipts indexes a block's receipts under its block hash.
func (s *Store) PutReceipts(blockHash pip.Hash, r []pip.Receipt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts[blockHash] = r
}

// PutTransaction records where a transaction hash can be found.
func (s *Store) PutTransaction(txHash pip.Hash, num uint64, block pip.Hash, index uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txIndex[txHash] = txLocation{num: num, block: block, index: index}
}

// PutAccount records an account's state as of a given block and address
// hash pair.
func (s *Store) PutAccount(blockHash, addressHash pip.Hash, nonce, balance *uint256.Int, codeHash, storageRoot pip.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[accountKey{blockHash, addressHash}] = accountState{nonce, balance, codeHash, storageRoot}
}

// PutStorage records a storage slot's value as of a given block, address,
// and key hash triple.
func (s *Store) PutStorage(blockHash, addressHash, keyHash pip.Hash, value pip.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage[storageKey{blockHash, addressHash, keyHash}] = value
}

// PutCode records contract bytecode under its hash.
func (s *Store) PutCode(codeHash pip.Hash, code pip.Bytes) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code[codeHash] = code
}

// PutSignal records an out-of-band signal payload for a block.
func (s *Store) PutSignal(blockHash pip.Hash, signal pip.Bytes) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals[blockHash] = signal
}

func (s *Store) HeaderByNumber(num uint64) (chain.EncodedHeader, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.byNumber[num]
	return h, ok
}

func (s *Store) HeaderByHash(hash pip.Hash) (chain.EncodedHeader, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byHash.Get(hash)
}

func (s *Store) HeaderProof(num uint64) ([]pip.Bytes, pip.Hash, *uint256.Int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.byNumber[num]
	if !ok {
		return nil, pip.Hash{}, nil, false
	}
	td, ok := s.totalDif[num]
	if !ok {
		return nil, pip.Hash{}, nil, false
	}
	return nil, h.Hash(), td, true
}

func (s *Store) TransactionIndex(hash pip.Hash) (uint64, pip.Hash, uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.txIndex[hash]
	return loc.num, loc.block, loc.index, ok
}

func (s *Store) Receipts(blockHash pip.Hash) ([]pip.Receipt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.receipts[blockHash]
	return r, ok
}

func (s *Store) Body(blockHash pip.Hash) (chain.EncodedBody, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bodies[blockHash]
	return b, ok
}

func (s *Store) Account(blockHash, addressHash pip.Hash) ([]pip.Bytes, *uint256.Int, *uint256.Int, pip.Hash, pip.Hash, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountKey{blockHash, addressHash}]
	if !ok {
		return nil, nil, nil, pip.Hash{}, pip.Hash{}, false
	}
	return nil, a.nonce, a.balance, a.codeHash, a.storageRoot, true
}

func (s *Store) Storage(blockHash, addressHash, keyHash pip.Hash) ([]pip.Bytes, pip.Hash, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.storage[storageKey{blockHash, addressHash, keyHash}]
	return nil, v, ok
}

func (s *Store) Code(blockHash, codeHash pip.Hash) (pip.Bytes, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.code[codeHash]
	return c, ok
}

// Execution is not backed by a real EVM here: it reports that no
// execution environment is wired. oracle.Adapter passes that error up
// through pip.Batch.Answer, and the session then sends no reply for the
// batch.
func (s *Store) Execution(req *pip.CompleteExecutionRequest) ([]pip.Bytes, error) {
	return nil, fmt.Errorf("chainstore: no execution environment configured")
}

func (s *Store) Signal(blockHash pip.Hash) (pip.Bytes, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sig, ok := s.signals[blockHash]
	return sig, ok
}

var _ oracle.ChainOracle = (*Store)(nil)
