package peer

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"pipnet/pkg/punishment"
)

// ReputationTable tracks the harshest punishment reported for each peer. It
// is an LRU cache rather than an unbounded map because a provider serving
// strangers has no bound on how many distinct peer IDs it will ever see;
// a Disable verdict is additionally latched outside the LRU so eviction
// pressure can never un-disable a peer.
type ReputationTable struct {
	mu       sync.Mutex
	cache    *lru.Cache[string, punishment.Punishment]
	disabled map[string]struct{}
}

// NewReputationTable returns an empty table bounded to capacity entries.
func NewReputationTable(capacity int) (*ReputationTable, error) {
	cache, err := lru.New[string, punishment.Punishment](capacity)
	if err != nil {
		return nil, err
	}
	return &ReputationTable{cache: cache, disabled: make(map[string]struct{})}, nil
}

// Report records p against peerID, keeping the harsher of any two
// punishments ever reported for that peer.
func (t *ReputationTable) Report(peerID string, p punishment.Punishment) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if prior, ok := t.cache.Get(peerID); ok && prior > p {
		p = prior
	}
	t.cache.Add(peerID, p)
	if p == punishment.Disable {
		t.disabled[peerID] = struct{}{}
	}
}

// Punishment returns the harshest punishment on record for peerID.
func (t *ReputationTable) Punishment(peerID string) punishment.Punishment {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.disabled[peerID]; ok {
		return punishment.Disable
	}
	p, _ := t.cache.Get(peerID)
	return p
}

// Disabled reports whether peerID has ever earned a Disable punishment.
func (t *ReputationTable) Disabled(peerID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.disabled[peerID]
	return ok
}
