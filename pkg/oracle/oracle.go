// Package oracle adapts a chain-domain data source into the pip.ChainOracle
// collaborator the batch pipeline dispatches complete requests to. The
// ChainOracle interface here speaks in chain-domain terms (headers, bodies,
// state proofs); the Adapter translates those into the wire-shaped
// Response values pip.Batch.Answer expects.
package oracle

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"pipnet/pkg/chain"
	"pipnet/pkg/pip"
	"pipnet/pkg/wire"
)

// ChainOracle is the narrow, chain-domain collaborator a session delegates
// answering to. It knows how to look up headers, bodies, receipts, and
// state proofs; it knows nothing of the wire protocol's envelopes.
type ChainOracle interface {
	HeaderByNumber(num uint64) (chain.EncodedHeader, bool)
	HeaderByHash(hash pip.Hash) (chain.EncodedHeader, bool)
	HeaderProof(num uint64) (proof []pip.Bytes, hash pip.Hash, td *uint256.Int, ok bool)
	TransactionIndex(hash pip.Hash) (num uint64, blockHash pip.Hash, index uint64, ok bool)
	Receipts(blockHash pip.Hash) ([]pip.Receipt, bool)
	Body(blockHash pip.Hash) (chain.EncodedBody, bool)
	Account(blockHash, addressHash pip.Hash) (proof []pip.Bytes, nonce, balance *uint256.Int, codeHash, storageRoot pip.Hash, ok bool)
	Storage(blockHash, addressHash, keyHash pip.Hash) (proof []pip.Bytes, value pip.Hash, ok bool)
	Code(blockHash, codeHash pip.Hash) (code pip.Bytes, ok bool)
	Execution(req *pip.CompleteExecutionRequest) (items []pip.Bytes, err error)
	Signal(blockHash pip.Hash) (signal pip.Bytes, ok bool)
}

// ErrNotFound is returned when the chain-domain collaborator has no data
// for the requested key.
var ErrNotFound = fmt.Errorf("oracle: not found")

// Adapter implements pip.ChainOracle over a ChainOracle.
type Adapter struct {
	Chain ChainOracle
}

func (a *Adapter) Headers(req *pip.CompleteHeadersRequest) (*pip.HeadersResponse, error) {
	headers := make([]rlp.RawValue, 0, req.Max)
	cur := req.Start
	for i := uint64(0); i < req.Max; i++ {
		var (
			h  chain.EncodedHeader
			ok bool
		)
		if cur.IsHash {
			h, ok = a.Chain.HeaderByHash(pip.Hash(cur.Hash))
		} else {
			h, ok = a.Chain.HeaderByNumber(cur.Number)
		}
		if !ok {
			break
		}
		headers = append(headers, rlp.RawValue(h.Raw()))

		decoded, err := h.Decode()
		if err != nil {
			return nil, fmt.Errorf("oracle: decode header: %w", err)
		}
		if req.Reverse {
			if decoded.Number < req.Skip+1 {
				break
			}
			cur = wire.FromNumber(decoded.Number - req.Skip - 1)
		} else {
			cur = wire.FromNumber(decoded.Number + req.Skip + 1)
		}
	}
	return &pip.HeadersResponse{Headers: headers}, nil
}

func (a *Adapter) HeaderProof(req *pip.CompleteHeaderProofRequest) (*pip.HeaderProofResponse, error) {
	proof, hash, td, ok := a.Chain.HeaderProof(req.Num)
	if !ok {
		return nil, ErrNotFound
	}
	return &pip.HeaderProofResponse{Proof: proof, Hash: hash, TD: td}, nil
}

func (a *Adapter) TransactionIndex(req *pip.CompleteTransactionIndexRequest) (*pip.TransactionIndexResponse, error) {
	num, blockHash, index, ok := a.Chain.TransactionIndex(req.Hash)
	if !ok {
		return nil, ErrNotFound
	}
	return &pip.TransactionIndexResponse{Num: num, Hash: blockHash, Index: index}, nil
}

func (a *Adapter) Receipts(req *pip.CompleteReceiptsRequest) (*pip.ReceiptsResponse, error) {
	receipts, ok := a.Chain.Receipts(req.Hash)
	if !ok {
		return nil, ErrNotFound
	}
	return &pip.ReceiptsResponse{Receipts: receipts}, nil
}

func (a *Adapter) Body(req *pip.CompleteBodyRequest) (*pip.BodyResponse, error) {
	body, ok := a.Chain.Body(req.Hash)
	if !ok {
		return nil, ErrNotFound
	}
	return &pip.BodyResponse{Body: body.Raw()}, nil
}

func (a *Adapter) Account(req *pip.CompleteAccountRequest) (*pip.AccountResponse, error) {
	proof, nonce, balance, codeHash, storageRoot, ok := a.Chain.Account(req.BlockHash, req.AddressHash)
	if !ok {
		return nil, ErrNotFound
	}
	return &pip.AccountResponse{
		Proof:       proof,
		Nonce:       nonce,
		Balance:     balance,
		CodeHash:    codeHash,
		StorageRoot: storageRoot,
	}, nil
}

func (a *Adapter) Storage(req *pip.CompleteStorageRequest) (*pip.StorageResponse, error) {
	proof, value, ok := a.Chain.Storage(req.BlockHash, req.AddressHash, req.KeyHash)
	if !ok {
		return nil, ErrNotFound
	}
	return &pip.StorageResponse{Proof: proof, Value: value}, nil
}

func (a *Adapter) Code(req *pip.CompleteCodeRequest) (*pip.CodeResponse, error) {
	code, ok := a.Chain.Code(req.BlockHash, req.CodeHash)
	if !ok {
		return nil, ErrNotFound
	}
	return &pip.CodeResponse{Code: code}, nil
}

func (a *Adapter) Execution(req *pip.CompleteExecutionRequest) (*pip.ExecutionResponse, error) {
	items, err := a.Chain.Execution(req)
	if err != nil {
		return nil, err
	}
	return &pip.ExecutionResponse{Items: items}, nil
}

func (a *Adapter) Signal(req *pip.CompleteSignalRequest) (*pip.SignalResponse, error) {
	signal, ok := a.Chain.Signal(req.BlockHash)
	if !ok {
		return nil, ErrNotFound
	}
	return &pip.SignalResponse{Signal: signal}, nil
}

var _ pip.ChainOracle = (*Adapter)(nil)
