package main

import (
	"errors"
	"strings"
)

var opts struct {
	Node struct {
		Addr     string `long:"addr" env:"ADDR" required:"true" description:"ip:port advertised to other nodes"`
		BindAddr string `long:"bind-addr" env:"BIND_ADDR" description:"address to bind gossip listener (defaults to --node.addr)"`
		Client   bool   `long:"client" env:"CLIENT" description:"run as a client node"`
		Watchdog bool   `long:"watchdog" env:"WATCHDOG" description:"stop the whole cluster when this client leaves"`
	} `group:"node" namespace:"node" env-namespace:"NODE"`

	Cluster struct {
		Name              string `long:"name" env:"NAME" default:"clientcast" description:"cluster name, nodes with other names are ignored"`
		Flatfile          string `long:"flatfile" env:"FLATFILE" description:"path to the flatfile, dynamic discovery is used if empty"`
		HeartbeatInterval int    `long:"heartbeat-interval" env:"HEARTBEAT_INTERVAL" default:"1000" description:"heartbeat interval (ms)"`
		ClientTimeout     int    `long:"client-timeout" env:"CLIENT_TIMEOUT" default:"10000" description:"time after a silent client is disconnected (ms)"`
		GossipFactor      int    `long:"gossip-factor" env:"GOSSIP_FACTOR" default:"0" description:"number of peers a message is sent to, 0 means all"`
	} `group:"cluster" namespace:"cluster" env-namespace:"CLUSTER"`

	Discovery struct {
		BindAddr  string `long:"bind-addr" env:"BIND_ADDR" default:"0.0.0.0:7946" description:"address to bind memberlist"`
		JoinAddrs string `long:"join-addrs" env:"JOIN_ADDRS" description:"comma-separated list of memberlist addresses to join"`
	} `group:"discovery" namespace:"discovery" env-namespace:"DISCOVERY"`

	Metrics struct {
		BindAddr string `long:"bind-addr" env:"BIND_ADDR" description:"address to serve prometheus metrics on, disabled if empty"`
	} `group:"metrics" namespace:"metrics" env-namespace:"METRICS"`

	Verbose bool `long:"verbose" description:"verbose mode" env:"VERBOSE"`
}

func validateOpts() error {
	if opts.Node.Watchdog && !opts.Node.Client {
		return errors.New("only a client node can be a watchdog")
	}

	if opts.Cluster.HeartbeatInterval <= 0 {
		return errors.New("heartbeat interval must be positive")
	}

	if opts.Cluster.ClientTimeout <= opts.Cluster.HeartbeatInterval {
		return errors.New("client timeout must be longer than the heartbeat interval")
	}

	return nil
}

func parseAddrs(addrs string) []string {
	sl := strings.Split(addrs, ",")
	res := make([]string, 0, len(sl))

	for _, addr := range sl {
		trimmed := strings.TrimSpace(addr)
		if trimmed != "" {
			res = append(res, trimmed)
		}
	}

	return res
}
