package heartbeat

import (
	"time"

	"golang.org/x/exp/slices"

	"github.com/maxpoletaev/clientcast/internal/generic"
	"github.com/maxpoletaev/clientcast/membership"
)

// Table keeps the last received heartbeat of every node. It is safe for concurrent use.
type Table struct {
	snapshots generic.SyncMap[membership.NodeID, Snapshot]
	now       func() time.Time
}

func NewTable() *Table {
	return &Table{now: time.Now}
}

// Update records the heartbeat of the node and reports whether the node
// has not been seen before. Zero Seen time is replaced with the current time.
func (t *Table) Update(id membership.NodeID, snap Snapshot) bool {
	if snap.Seen.IsZero() {
		snap.Seen = t.now()
	}

	_, loaded := t.snapshots.Swap(id, snap)

	return !loaded
}

func (t *Table) Get(id membership.NodeID) (Snapshot, bool) {
	return t.snapshots.Load(id)
}

func (t *Table) Forget(id membership.NodeID) {
	t.snapshots.Delete(id)
}

// ExpiredClients returns clients that have not been heard from for longer than
// the given timeout, sorted by address.
func (t *Table) ExpiredClients(timeout time.Duration) []membership.NodeID {
	var (
		expired  []membership.NodeID
		deadline = t.now().Add(-timeout)
	)

	t.snapshots.Range(func(id membership.NodeID, snap Snapshot) bool {
		if snap.Client && snap.Seen.Before(deadline) {
			expired = append(expired, id)
		}

		return true
	})

	slices.Sort(expired)

	return expired
}
