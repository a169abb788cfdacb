// Package proto defines the gossip envelope. It is encoded in protobuf wire
// format and is compatible with the following definition:
//
//	message GossipMessage {
//	  string from = 1;
//	  uint32 run_id = 2;
//	  uint64 seq_number = 3;
//	  uint32 ttl = 4;
//	  bool direct = 5;
//	  uint32 cloud_hash = 6;
//	  bool watchdog = 7;
//	  bool client = 8;
//	  repeated string seen_by = 9;
//	  bytes payload = 10;
//	}
package proto

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldFrom      protowire.Number = 1
	fieldRunID     protowire.Number = 2
	fieldSeqNumber protowire.Number = 3
	fieldTTL       protowire.Number = 4
	fieldDirect    protowire.Number = 5
	fieldCloudHash protowire.Number = 6
	fieldWatchdog  protowire.Number = 7
	fieldClient    protowire.Number = 8
	fieldSeenBy    protowire.Number = 9
	fieldPayload   protowire.Number = 10
)

var ErrMalformed = errors.New("malformed gossip message")

// GossipMessage is a single datagram exchanged between peers. The heartbeat of
// the originating node travels with every message, relayed copies included.
type GossipMessage struct {
	From      string
	RunID     uint32
	SeqNumber uint64
	TTL       uint32
	Direct    bool
	CloudHash uint32
	Watchdog  bool
	Client    bool
	SeenBy    []string
	Payload   []byte
}

func (m *GossipMessage) Reset() {
	*m = GossipMessage{}
}

// Marshal appends the encoded message to b.
func (m *GossipMessage) Marshal(b []byte) []byte {
	b = appendString(b, fieldFrom, m.From)
	b = appendVarint(b, fieldRunID, uint64(m.RunID))
	b = appendVarint(b, fieldSeqNumber, m.SeqNumber)
	b = appendVarint(b, fieldTTL, uint64(m.TTL))
	b = appendVarint(b, fieldDirect, protowire.EncodeBool(m.Direct))
	b = appendVarint(b, fieldCloudHash, uint64(m.CloudHash))
	b = appendVarint(b, fieldWatchdog, protowire.EncodeBool(m.Watchdog))
	b = appendVarint(b, fieldClient, protowire.EncodeBool(m.Client))

	for _, peer := range m.SeenBy {
		b = protowire.AppendTag(b, fieldSeenBy, protowire.BytesType)
		b = protowire.AppendString(b, peer)
	}

	if len(m.Payload) > 0 {
		b = protowire.AppendTag(b, fieldPayload, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Payload)
	}

	return b
}

// Unmarshal decodes the message from b. The payload is copied, so b may be reused.
func (m *GossipMessage) Unmarshal(b []byte) error {
	m.Reset()

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}

		b = b[n:]

		if typ == protowire.VarintType {
			var v uint64
			if v, n = protowire.ConsumeVarint(b); n >= 0 {
				m.setVarint(num, v)
			}
		} else if typ == protowire.BytesType && (num == fieldFrom || num == fieldSeenBy || num == fieldPayload) {
			var v []byte
			if v, n = protowire.ConsumeBytes(b); n >= 0 {
				m.setBytes(num, v)
			}
		} else {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}

		if n < 0 {
			return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
		}

		b = b[n:]
	}

	return nil
}

func (m *GossipMessage) setVarint(num protowire.Number, v uint64) {
	switch num {
	case fieldRunID:
		m.RunID = uint32(v)
	case fieldSeqNumber:
		m.SeqNumber = v
	case fieldTTL:
		m.TTL = uint32(v)
	case fieldDirect:
		m.Direct = protowire.DecodeBool(v)
	case fieldCloudHash:
		m.CloudHash = uint32(v)
	case fieldWatchdog:
		m.Watchdog = protowire.DecodeBool(v)
	case fieldClient:
		m.Client = protowire.DecodeBool(v)
	}
}

func (m *GossipMessage) setBytes(num protowire.Number, v []byte) {
	switch num {
	case fieldFrom:
		m.From = string(v)
	case fieldSeenBy:
		m.SeenBy = append(m.SeenBy, string(v))
	case fieldPayload:
		m.Payload = append([]byte(nil), v...)
	}
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.VarintType)

	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.BytesType)

	return protowire.AppendString(b, v)
}
