package discovery

import (
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hashicorp/memberlist"
)

// metaDelegate advertises the gossip address of the local node. Memberlist is
// used for discovery only, so no user messages or state are exchanged.
type metaDelegate struct {
	meta []byte
}

func (d *metaDelegate) NodeMeta(limit int) []byte {
	if len(d.meta) > limit {
		return d.meta[:limit]
	}

	return d.meta
}

func (d *metaDelegate) NotifyMsg([]byte) {}

func (d *metaDelegate) GetBroadcasts(overhead, limit int) [][]byte { return nil }

func (d *metaDelegate) LocalState(join bool) []byte { return nil }

func (d *metaDelegate) MergeRemoteState(buf []byte, join bool) {}

// eventDelegate registers gossip peers as memberlist nodes come and go.
type eventDelegate struct {
	registrar Registrar
	logger    kitlog.Logger
}

func (d *eventDelegate) NotifyJoin(node *memberlist.Node) {
	id, ok := gossipAddr(node)
	if !ok {
		level.Warn(d.logger).Log("msg", "discovered node without gossip address", "node", node.Name)
		return
	}

	added, err := d.registrar.Register(id)
	if err != nil {
		level.Warn(d.logger).Log("msg", "failed to register discovered node", "node", node.Name, "err", err)
		return
	}

	if added {
		level.Info(d.logger).Log("msg", "node discovered", "node", node.Name, "gossip_addr", id)
	}
}

func (d *eventDelegate) NotifyLeave(node *memberlist.Node) {
	id, ok := gossipAddr(node)
	if !ok {
		return
	}

	if d.registrar.Unregister(id) {
		level.Info(d.logger).Log("msg", "node left", "node", node.Name, "gossip_addr", id)
	}
}

func (d *eventDelegate) NotifyUpdate(node *memberlist.Node) {
	d.NotifyJoin(node)
}

var (
	_ memberlist.Delegate      = &metaDelegate{}
	_ memberlist.EventDelegate = &eventDelegate{}
)
