package pip

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// RequestEnvelope is the wire shape for a single request whose concrete
// type is not known until its Kind tag is read: a two-element list of
// [kind, body].
type RequestEnvelope struct {
	Req Request
}

// EncodeRLP writes the [kind, body] wire shape.
func (e RequestEnvelope) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []interface{}{uint8(e.Req.Kind()), e.Req})
}

// DecodeRLP reads the [kind, body] wire shape, constructing the concrete
// request type named by the tag before decoding its body.
func (e *RequestEnvelope) DecodeRLP(s *rlp.Stream) error {
	if _, err := s.List(); err != nil {
		return err
	}
	var tag uint8
	if err := s.Decode(&tag); err != nil {
		return err
	}
	req, err := newRequest(Kind(tag))
	if err != nil {
		return err
	}
	if err := s.Decode(req); err != nil {
		return err
	}
	if err := s.ListEnd(); err != nil {
		return err
	}
	e.Req = req
	return nil
}

func newRequest(k Kind) (Request, error) {
	switch k {
	case KindHeaders:
		return &HeadersRequest{}, nil
	case KindHeaderProof:
		return &HeaderProofRequest{}, nil
	case KindTransactionIndex:
		return &TransactionIndexRequest{}, nil
	case KindReceipts:
		return &ReceiptsRequest{}, nil
	case KindBody:
		return &BodyRequest{}, nil
	case KindAccount:
		return &AccountRequest{}, nil
	case KindStorage:
		return &StorageRequest{}, nil
	case KindCode:
		return &CodeRequest{}, nil
	case KindExecution:
		return &ExecutionRequest{}, nil
	case KindSignal:
		return &SignalRequest{}, nil
	default:
		return nil, fmt.Errorf("pip: unknown request kind %d", k)
	}
}

// ResponseEnvelope is the wire shape for a single response whose concrete
// type is not known until its Kind tag is read: a two-element list of
// [kind, body].
type ResponseEnvelope struct {
	Resp Response
}

// EncodeRLP writes the [kind, body] wire shape.
func (e ResponseEnvelope) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []interface{}{uint8(e.Resp.Kind()), e.Resp})
}

// DecodeRLP reads the [kind, body] wire shape, constructing the concrete
// response type named by the tag before decoding its body.
func (e *ResponseEnvelope) DecodeRLP(s *rlp.Stream) error {
	if _, err := s.List(); err != nil {
		return err
	}
	var tag uint8
	if err := s.Decode(&tag); err != nil {
		return err
	}
	resp, err := newResponse(Kind(tag))
	if err != nil {
		return err
	}
	if err := s.Decode(resp); err != nil {
		return err
	}
	if err := s.ListEnd(); err != nil {
		return err
	}
	e.Resp = resp
	return nil
}

func newResponse(k Kind) (Response, error) {
	switch k {
	case KindHeaders:
		return &HeadersResponse{}, nil
	case KindHeaderProof:
		return &HeaderProofResponse{}, nil
	case KindTransactionIndex:
		return &TransactionIndexResponse{}, nil
	case KindReceipts:
		return &ReceiptsResponse{}, nil
	case KindBody:
		return &BodyResponse{}, nil
	case KindAccount:
		return &AccountResponse{}, nil
	case KindStorage:
		return &StorageResponse{}, nil
	case KindCode:
		return &CodeResponse{}, nil
	case KindExecution:
		return &ExecutionResponse{}, nil
	case KindSignal:
		return &SignalResponse{}, nil
	default:
		return nil, fmt.Errorf("pip: unknown response kind %d", k)
	}
}
