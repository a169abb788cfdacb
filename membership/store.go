package membership

import (
	"sync"

	"golang.org/x/exp/slices"

	"github.com/maxpoletaev/clientcast/internal/collections"
)

// Observer is notified about changes of the flatfile. The callbacks are invoked
// synchronously while the store is locked, so they must not call back into the store.
type Observer interface {
	PeerAdded(id NodeID)
	PeerRemoved(id NodeID)
}

// Store holds the flatfile (the set of known peers) together with the registry
// of nodes known to be clients. All operations are idempotent and safe for
// concurrent use.
type Store struct {
	mut       sync.RWMutex
	peers     collections.Set[NodeID]
	clients   collections.Set[NodeID]
	observers []Observer
}

func NewStore(peers ...NodeID) *Store {
	return &Store{
		peers:   collections.New(peers...),
		clients: collections.New[NodeID](),
	}
}

// Observe registers an observer. It is immediately notified about every peer
// that is already in the flatfile.
func (s *Store) Observe(o Observer) {
	s.mut.Lock()
	defer s.mut.Unlock()

	s.observers = append(s.observers, o)

	for _, id := range sorted(s.peers) {
		o.PeerAdded(id)
	}
}

// AddPeer adds the node to the flatfile and reports whether it was added.
func (s *Store) AddPeer(id NodeID) bool {
	s.mut.Lock()
	defer s.mut.Unlock()

	if !s.peers.Add(id) {
		return false
	}

	for _, o := range s.observers {
		o.PeerAdded(id)
	}

	return true
}

// RemovePeer removes the node from the flatfile and reports whether it was there.
func (s *Store) RemovePeer(id NodeID) bool {
	s.mut.Lock()
	defer s.mut.Unlock()

	if !s.peers.Remove(id) {
		return false
	}

	for _, o := range s.observers {
		o.PeerRemoved(id)
	}

	return true
}

func (s *Store) AddClient(id NodeID) bool {
	s.mut.Lock()
	defer s.mut.Unlock()

	return s.clients.Add(id)
}

func (s *Store) RemoveClient(id NodeID) bool {
	s.mut.Lock()
	defer s.mut.Unlock()

	return s.clients.Remove(id)
}

func (s *Store) HasPeer(id NodeID) bool {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return s.peers.Has(id)
}

func (s *Store) IsClient(id NodeID) bool {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return s.clients.Has(id)
}

// Peers returns the flatfile sorted by address.
func (s *Store) Peers() []NodeID {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return sorted(s.peers)
}

// Clients returns the known clients sorted by address.
func (s *Store) Clients() []NodeID {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return sorted(s.clients)
}

func sorted(set collections.Set[NodeID]) []NodeID {
	ids := set.Values()
	slices.Sort(ids)

	return ids
}
