package membership

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

// DefaultPort is assumed for flatfile entries that do not specify a port.
const DefaultPort = 54321

var ErrInvalidNodeID = errors.New("invalid node address")

// NodeID identifies a cluster member by its advertised address in ip:port
// form. Two nodes are the same node if and only if their IDs are equal.
type NodeID string

func (id NodeID) String() string {
	return string(id)
}

// AddrPort returns the network address the node is reachable at.
func (id NodeID) AddrPort() (netip.AddrPort, error) {
	addr, err := netip.ParseAddrPort(string(id))
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("%w: %s", ErrInvalidNodeID, id)
	}

	return addr, nil
}

// ParseNodeID converts an address into its canonical NodeID. The port may be
// omitted, in which case DefaultPort is used.
func ParseNodeID(s string) (NodeID, error) {
	s = strings.TrimSpace(s)

	if addr, err := netip.ParseAddrPort(s); err == nil {
		return NodeID(addr.String()), nil
	}

	ip, err := netip.ParseAddr(strings.Trim(s, "[]"))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidNodeID, s)
	}

	return NodeID(netip.AddrPortFrom(ip, DefaultPort).String()), nil
}
