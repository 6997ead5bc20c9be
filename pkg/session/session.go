// Package session wires the peer transport, the chain oracle, and per-peer
// credit and reputation bookkeeping into a running request/response loop,
// the role replication.Replicator plays for block gossip adapted here to
// the batch request pipeline.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	logrus "github.com/sirupsen/logrus"

	"pipnet/pkg/credit"
	"pipnet/pkg/peer"
	"pipnet/pkg/pip"
	"pipnet/pkg/punishment"
	"pipnet/pkg/wire"
)

const protocolID = "pip/1"

const (
	msgRequest byte = iota + 1
	msgResponse
)

// Config tunes a session's per-peer credit rationing.
type Config struct {
	CreditMax        int64
	CreditRefillRate int64
	CostPerRequest   int64
}

// Session answers inbound batches as a provider and can issue its own
// batches as a client. A single Session is meant to run as either a
// provider (via Start) or a client (via Query calls) at a time: both
// consume the same protocol topic's subscription channel, and running them
// concurrently would race for inbound messages.
type Session struct {
	logger *logrus.Logger
	cfg    Config
	pm     peer.Transport
	oracle pip.ChainOracle
	rep    *peer.ReputationTable

	mu      sync.Mutex
	credits map[string]*credit.Counter

	closing chan struct{}
	wg      sync.WaitGroup
}

// New wires a session together.
func New(logger *logrus.Logger, cfg Config, pm peer.Transport, oracle pip.ChainOracle, rep *peer.ReputationTable) *Session {
	return &Session{
		logger:  logger,
		cfg:     cfg,
		pm:      pm,
		oracle:  oracle,
		rep:     rep,
		credits: make(map[string]*credit.Counter),
		closing: make(chan struct{}),
	}
}

// Start launches the provider loop: it answers inbound request batches
// until Stop is called.
func (s *Session) Start() {
	sub := s.pm.Subscribe(protocolID)
	s.wg.Add(1)
	go s.readLoop(sub)
}

// Stop terminates the provider loop and waits for it to exit.
func (s *Session) Stop() {
	close(s.closing)
	s.pm.Unsubscribe(protocolID)
	s.wg.Wait()
}

func (s *Session) readLoop(sub <-chan peer.InboundMsg) {
	defer s.wg.Done()
	for {
		select {
		case <-s.closing:
			return
		case m, ok := <-sub:
			if !ok {
				return
			}
			go s.handleMsg(m)
		}
	}
}

func (s *Session) handleMsg(m peer.InboundMsg) {
	if len(m.Payload) == 0 || s.rep.Disabled(m.PeerID) {
		return
	}
	code, payload := m.Payload[0], m.Payload[1:]
	switch code {
	case msgRequest:
		s.handleRequest(m.PeerID, payload)
	case msgResponse:
		s.logger.WithField("peer", m.PeerID).Warn("session: unsolicited response")
		s.punish(m.PeerID, punishment.ErrUnsolicitedResponse)
	default:
		s.logger.WithFields(logrus.Fields{"peer": m.PeerID, "code": code}).Warn("session: unrecognized packet")
		s.punish(m.PeerID, punishment.ErrUnrecognizedPacket)
	}
}

func (s *Session) handleRequest(peerID string, payload []byte) {
	var envs []pip.RequestEnvelope
	if err := wire.Decode(payload, &envs); err != nil {
		s.logger.WithError(err).WithField("peer", peerID).Warn("session: malformed request batch")
		s.punish(peerID, punishment.ErrMalformedWire)
		return
	}

	cost := s.cfg.CostPerRequest * int64(len(envs))
	if !s.creditFor(peerID).TryCharge(cost) {
		s.logger.WithField("peer", peerID).Warn("session: peer out of credit")
		s.punish(peerID, punishment.ErrNoCredits)
		return
	}

	batch := pip.NewBuilder()
	for _, e := range envs {
		if err := batch.Append(e.Req); err != nil {
			s.logger.WithError(err).WithField("peer", peerID).Warn("session: bad back-reference in request batch")
			s.punish(peerID, punishment.ErrBadBackReference)
			return
		}
	}

	responses, err := batch.Answer(s.oracle)
	if err != nil {
		s.logger.WithError(err).WithField("peer", peerID).Warn("session: failed to answer batch")
		if errors.Is(err, pip.ErrNoSuchOutput) {
			s.punish(peerID, punishment.ErrBadBackReference)
		}
		return
	}

	respEnvs := make([]pip.ResponseEnvelope, len(responses))
	for i, r := range responses {
		respEnvs[i] = pip.ResponseEnvelope{Resp: r}
	}
	data, err := wire.Encode(respEnvs)
	if err != nil {
		s.logger.WithError(err).Error("session: encode response batch")
		return
	}
	if err := s.pm.SendAsync(peerID, protocolID, msgResponse, data); err != nil {
		s.logger.WithError(err).WithField("peer", peerID).Warn("session: send response failed")
	}
}

// Query sends batch to peerID as a single request message and blocks until
// a matching response batch arrives or ctx is done.
func (s *Session) Query(ctx context.Context, peerID string, batch *pip.Batch) ([]pip.Pair, error) {
	envs := make([]pip.RequestEnvelope, batch.Len())
	for i, req := range batch.Requests() {
		envs[i] = pip.RequestEnvelope{Req: req}
	}
	data, err := wire.Encode(envs)
	if err != nil {
		return nil, fmt.Errorf("session: encode request batch: %w", err)
	}

	sub := s.pm.Subscribe(protocolID)
	defer s.pm.Unsubscribe(protocolID)

	if err := s.pm.SendAsync(peerID, protocolID, msgRequest, data); err != nil {
		return nil, fmt.Errorf("session: send request batch: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case m, ok := <-sub:
			if !ok {
				return nil, fmt.Errorf("session: subscription closed awaiting response from %s", peerID)
			}
			if m.PeerID != peerID || len(m.Payload) == 0 || m.Payload[0] != msgResponse {
				continue
			}
			var respEnvs []pip.ResponseEnvelope
			if err := wire.Decode(m.Payload[1:], &respEnvs); err != nil {
				continue
			}
			responses := make([]pip.Response, len(respEnvs))
			for i, e := range respEnvs {
				responses[i] = e.Resp
			}
			pairs, err := batch.Ingest(responses)
			if errors.Is(err, pip.ErrWrongKind) {
				s.punish(peerID, punishment.ErrUnsolicitedResponse)
			}
			return pairs, err
		}
	}
}

func (s *Session) creditFor(peerID string) *credit.Counter {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.credits[peerID]
	if !ok {
		c = credit.NewCounter(s.cfg.CreditMax, s.cfg.CreditRefillRate)
		s.credits[peerID] = c
	}
	return c
}

func (s *Session) punish(peerID string, e punishment.Error) {
	p := punishment.Classify(e)
	s.rep.Report(peerID, p)
	if p == punishment.Disable {
		if err := s.pm.Disconnect(peerID); err != nil {
			s.logger.WithError(err).WithField("peer", peerID).Debug("session: disconnect after disable failed")
		}
	}
}
