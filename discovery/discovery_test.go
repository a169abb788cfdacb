package discovery

import (
	"sync"
	"testing"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/hashicorp/memberlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpoletaev/clientcast/membership"
)

type registrarMock struct {
	mut   sync.Mutex
	peers map[membership.NodeID]bool
}

func newRegistrarMock() *registrarMock {
	return &registrarMock{peers: make(map[membership.NodeID]bool)}
}

func (r *registrarMock) Register(id membership.NodeID) (bool, error) {
	r.mut.Lock()
	defer r.mut.Unlock()

	if r.peers[id] {
		return false, nil
	}

	r.peers[id] = true

	return true, nil
}

func (r *registrarMock) Unregister(id membership.NodeID) bool {
	r.mut.Lock()
	defer r.mut.Unlock()

	if !r.peers[id] {
		return false
	}

	delete(r.peers, id)

	return true
}

func (r *registrarMock) Has(id membership.NodeID) bool {
	r.mut.Lock()
	defer r.mut.Unlock()

	return r.peers[id]
}

func TestEventDelegate(t *testing.T) {
	registrar := newRegistrarMock()
	delegate := &eventDelegate{registrar: registrar, logger: kitlog.NewNopLogger()}

	node := &memberlist.Node{Name: "node1", Meta: []byte("127.0.0.1:4001")}

	delegate.NotifyJoin(node)
	assert.True(t, registrar.Has("127.0.0.1:4001"))

	delegate.NotifyUpdate(node)
	assert.True(t, registrar.Has("127.0.0.1:4001"))

	delegate.NotifyLeave(node)
	assert.False(t, registrar.Has("127.0.0.1:4001"))
}

func TestEventDelegate_NoMeta(t *testing.T) {
	registrar := newRegistrarMock()
	delegate := &eventDelegate{registrar: registrar, logger: kitlog.NewNopLogger()}

	delegate.NotifyJoin(&memberlist.Node{Name: "node1"})
	delegate.NotifyJoin(&memberlist.Node{Name: "node2", Meta: []byte("garbage")})

	assert.Empty(t, registrar.peers)
}

func TestMetaDelegate_NodeMeta(t *testing.T) {
	delegate := &metaDelegate{meta: []byte("127.0.0.1:4001")}

	assert.Equal(t, []byte("127.0.0.1:4001"), delegate.NodeMeta(512))
	assert.Equal(t, []byte("127.0"), delegate.NodeMeta(5))
}

func TestDiscovery_Join(t *testing.T) {
	registrarA := newRegistrarMock()
	a, err := Start(Config{
		Name:       "a",
		BindAddr:   "127.0.0.1:47946",
		GossipAddr: "127.0.0.1:54801",
		Registrar:  registrarA,
	})
	require.NoError(t, err)

	defer a.Leave(time.Second)

	registrarB := newRegistrarMock()
	b, err := Start(Config{
		Name:       "b",
		BindAddr:   "127.0.0.1:47947",
		GossipAddr: "127.0.0.1:54802",
		Seeds:      []string{a.LocalAddr()},
		Registrar:  registrarB,
	})
	require.NoError(t, err)

	defer b.Leave(time.Second)

	require.Eventually(t, func() bool {
		return registrarA.Has("127.0.0.1:54802") && registrarB.Has("127.0.0.1:54801")
	}, 5*time.Second, 50*time.Millisecond)

	assert.ElementsMatch(t, []membership.NodeID{"127.0.0.1:54801", "127.0.0.1:54802"}, b.Members())
}
