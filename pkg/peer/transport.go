// Package peer provides the transport a session uses to reach other nodes
// — directed sends and topic broadcast over libp2p — and the reputation
// bookkeeping that turns punishment.Classify verdicts into lasting
// disconnect/disable decisions per peer.
package peer

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/libp2p/go-libp2p"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	"github.com/sirupsen/logrus"
)

// InboundMsg is a single message delivered on a subscribed topic.
type InboundMsg struct {
	PeerID  string
	Payload []byte
	Topic   string
	Ts      int64
}

// Transport is the peer-facing surface a session needs: discovery,
// directed sends, and topic-based broadcast. LibP2PTransport is the
// production implementation; tests substitute a fake.
type Transport interface {
	Peers() []string
	Sample(n int) []string
	SendAsync(peerID, proto string, code byte, payload []byte) error
	Subscribe(proto string) <-chan InboundMsg
	Unsubscribe(proto string)
	Disconnect(peerID string) error
	Close() error
}

// LibP2PTransport is a Transport backed by a libp2p host and a gossipsub
// router.
type LibP2PTransport struct {
	ctx    context.Context
	host   host.Host
	pubsub *pubsub.PubSub

	mu    sync.RWMutex
	peers map[string]struct{}
	subs  map[string]*pubsub.Subscription
	out   map[string]chan InboundMsg
}

// NewLibP2PTransport starts a libp2p host listening on listenAddr (a
// multiaddr string) and joins the gossipsub router over it.
func NewLibP2PTransport(ctx context.Context, listenAddr string) (*LibP2PTransport, error) {
	h, err := libp2p.New(libp2p.ListenAddrStrings(listenAddr))
	if err != nil {
		return nil, fmt.Errorf("peer: start host: %w", err)
	}
	ps, err := pubsub.NewGossipSub(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("peer: start gossipsub: %w", err)
	}
	return &LibP2PTransport{
		ctx:    ctx,
		host:   h,
		pubsub: ps,
		peers:  make(map[string]struct{}),
		subs:   make(map[string]*pubsub.Subscription),
		out:    make(map[string]chan InboundMsg),
	}, nil
}

// Connect dials a peer at the given multiaddr and records it.
func (t *LibP2PTransport) Connect(addr string) error {
	pi, err := peer.AddrInfoFromString(addr)
	if err != nil {
		return fmt.Errorf("peer: invalid address: %w", err)
	}
	if err := t.host.Connect(t.ctx, *pi); err != nil {
		return err
	}
	t.mu.Lock()
	t.peers[pi.ID.String()] = struct{}{}
	t.mu.Unlock()
	return nil
}

// Disconnect closes the connection to id and forgets it.
func (t *LibP2PTransport) Disconnect(id string) error {
	pid, err := peer.Decode(id)
	if err != nil {
		return err
	}
	if err := t.host.Network().ClosePeer(pid); err != nil {
		return err
	}
	t.mu.Lock()
	delete(t.peers, id)
	t.mu.Unlock()
	return nil
}

// Peers lists known peer IDs.
func (t *LibP2PTransport) Peers() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.peers))
	for id := range t.peers {
		ids = append(ids, id)
	}
	return ids
}

// Sample returns up to n peer IDs chosen uniformly at random without
// replacement.
func (t *LibP2PTransport) Sample(n int) []string {
	ids := t.Peers()
	if n > len(ids) {
		n = len(ids)
	}
	for i := len(ids) - 1; i > 0; i-- {
		r, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			break
		}
		j := int(r.Int64())
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids[:n]
}

// SendAsync opens a stream to peerID and writes a single message: a
// protocol-specific code byte followed by payload.
func (t *LibP2PTransport) SendAsync(peerID, proto string, code byte, payload []byte) error {
	pid, err := peer.Decode(peerID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(t.ctx, 5*time.Second)
	defer cancel()
	s, err := t.host.NewStream(ctx, pid, protocol.ID(proto))
	if err != nil {
		return err
	}
	defer s.Close()
	msg := append([]byte{code}, payload...)
	_, err = s.Write(msg)
	return err
}

// Subscribe joins proto's gossipsub topic and returns a channel of inbound
// messages. Calling Subscribe again for the same proto returns the same
// channel.
func (t *LibP2PTransport) Subscribe(proto string) <-chan InboundMsg {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ch, ok := t.out[proto]; ok {
		return ch
	}
	topic, err := t.pubsub.Join(proto)
	if err != nil {
		logrus.WithError(err).WithField("topic", proto).Warn("peer: join topic failed")
		ch := make(chan InboundMsg)
		close(ch)
		return ch
	}
	sub, err := topic.Subscribe()
	if err != nil {
		logrus.WithError(err).WithField("topic", proto).Warn("peer: subscribe failed")
		ch := make(chan InboundMsg)
		close(ch)
		return ch
	}
	out := make(chan InboundMsg)
	t.subs[proto] = sub
	t.out[proto] = out
	go func() {
		for {
			msg, err := sub.Next(t.ctx)
			if err != nil {
				close(out)
				return
			}
			out <- InboundMsg{
				PeerID:  msg.GetFrom().String(),
				Payload: msg.Data,
				Topic:   proto,
				Ts:      time.Now().UnixMilli(),
			}
		}
	}()
	return out
}

// Unsubscribe cancels a subscription created via Subscribe.
func (t *LibP2PTransport) Unsubscribe(proto string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sub, ok := t.subs[proto]; ok {
		sub.Cancel()
		delete(t.subs, proto)
	}
	if ch, ok := t.out[proto]; ok {
		close(ch)
		delete(t.out, proto)
	}
}

// Close shuts down the underlying host.
func (t *LibP2PTransport) Close() error { return t.host.Close() }

var _ Transport = (*LibP2PTransport)(nil)
