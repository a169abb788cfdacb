package discovery

import (
	"fmt"
	"net/netip"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hashicorp/memberlist"

	"github.com/maxpoletaev/clientcast/membership"
)

// Registrar receives the gossip addresses of discovered nodes.
type Registrar interface {
	Register(id membership.NodeID) (bool, error)
	Unregister(id membership.NodeID) bool
}

type Config struct {
	// Name must be unique across the cluster. Defaults to GossipAddr.
	Name string

	// BindAddr is the ip:port memberlist listens on (both TCP and UDP).
	BindAddr string

	// GossipAddr is the address of the local gossiper advertised to other
	// nodes in the memberlist node metadata.
	GossipAddr membership.NodeID

	// Seeds are memberlist addresses of existing members to join.
	Seeds []string

	Registrar Registrar
	Logger    kitlog.Logger
}

// Discovery keeps the gossip peer set in sync with the memberlist view of the
// cluster. It replaces the flatfile when the membership is not static.
type Discovery struct {
	list   *memberlist.Memberlist
	logger kitlog.Logger
}

func Start(conf Config) (*Discovery, error) {
	bindAddr, err := netip.ParseAddrPort(conf.BindAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse discovery bind address: %w", err)
	}

	logger := conf.Logger
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}

	name := conf.Name
	if name == "" {
		name = conf.GossipAddr.String()
	}

	mlConf := memberlist.DefaultLANConfig()
	mlConf.Name = name
	mlConf.BindAddr = bindAddr.Addr().String()
	mlConf.BindPort = int(bindAddr.Port())
	mlConf.AdvertisePort = mlConf.BindPort
	mlConf.Delegate = &metaDelegate{meta: []byte(conf.GossipAddr)}
	mlConf.Events = &eventDelegate{registrar: conf.Registrar, logger: logger}
	mlConf.LogOutput = kitlog.NewStdlibAdapter(level.Debug(kitlog.With(logger, "component", "memberlist")))

	list, err := memberlist.Create(mlConf)
	if err != nil {
		return nil, fmt.Errorf("failed to create memberlist: %w", err)
	}

	d := &Discovery{
		list:   list,
		logger: logger,
	}

	if len(conf.Seeds) > 0 {
		n, err := list.Join(conf.Seeds)
		if err != nil {
			list.Shutdown() //nolint:errcheck
			return nil, fmt.Errorf("failed to join cluster: %w", err)
		}

		level.Info(logger).Log("msg", "joined cluster via discovery", "contacted", n)
	}

	return d, nil
}

// LocalAddr returns the address memberlist is listening on.
func (d *Discovery) LocalAddr() string {
	return d.list.LocalNode().Address()
}

// Members returns the gossip addresses of all live members, the local node included.
func (d *Discovery) Members() []membership.NodeID {
	nodes := d.list.Members()
	ids := make([]membership.NodeID, 0, len(nodes))

	for _, node := range nodes {
		if id, ok := gossipAddr(node); ok {
			ids = append(ids, id)
		}
	}

	return ids
}

// Leave announces the departure of the local node and stops memberlist.
func (d *Discovery) Leave(timeout time.Duration) error {
	if err := d.list.Leave(timeout); err != nil {
		level.Warn(d.logger).Log("msg", "failed to leave cluster gracefully", "err", err)
	}

	return d.list.Shutdown()
}

func gossipAddr(node *memberlist.Node) (membership.NodeID, bool) {
	if len(node.Meta) == 0 {
		return "", false
	}

	id, err := membership.ParseNodeID(string(node.Meta))
	if err != nil {
		return "", false
	}

	return id, true
}
