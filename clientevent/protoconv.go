package clientevent

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/maxpoletaev/clientcast/membership"
)

// Field numbers of the ClientEvent message:
//
//	message ClientEvent {
//	  uint32 kind = 1;
//	  string subject = 2;
//	  repeated string peers = 3;
//	}
const (
	fieldKind    protowire.Number = 1
	fieldSubject protowire.Number = 2
	fieldPeers   protowire.Number = 3
)

var ErrMalformedEvent = errors.New("malformed client event")

// AppendEvent appends the wire representation of the event to b.
func AppendEvent(b []byte, e Event) []byte {
	b = protowire.AppendTag(b, fieldKind, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.Kind))

	b = protowire.AppendTag(b, fieldSubject, protowire.BytesType)
	b = protowire.AppendString(b, string(e.Subject))

	for _, peer := range e.Peers {
		b = protowire.AppendTag(b, fieldPeers, protowire.BytesType)
		b = protowire.AppendString(b, string(peer))
	}

	return b
}

func Marshal(e Event) []byte {
	return AppendEvent(nil, e)
}

// Unmarshal decodes an event. The kind is not checked against the known kinds,
// so that an event from an incompatible peer is rejected by the handler rather
// than lost in the decoder.
func Unmarshal(b []byte) (Event, error) {
	var e Event

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, protowire.ParseError(n))
		}

		b = b[n:]

		switch {
		case num == fieldKind && typ == protowire.VarintType:
			var v uint64
			if v, n = protowire.ConsumeVarint(b); n >= 0 {
				if v > math.MaxUint32 {
					return Event{}, fmt.Errorf("%w: kind %d out of range", ErrMalformedEvent, v)
				}

				e.Kind = Kind(v)
			}
		case num == fieldSubject && typ == protowire.BytesType:
			var v string
			if v, n = protowire.ConsumeString(b); n >= 0 {
				e.Subject = membership.NodeID(v)
			}
		case num == fieldPeers && typ == protowire.BytesType:
			var v string
			if v, n = protowire.ConsumeString(b); n >= 0 {
				e.Peers = append(e.Peers, membership.NodeID(v))
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}

		if n < 0 {
			return Event{}, fmt.Errorf("%w: field %d: %v", ErrMalformedEvent, num, protowire.ParseError(n))
		}

		b = b[n:]
	}

	if e.Subject == "" {
		return Event{}, fmt.Errorf("%w: missing subject", ErrMalformedEvent)
	}

	switch e.Kind {
	case KindConnect, KindDisconnect:
		if len(e.Peers) > 0 {
			return Event{}, fmt.Errorf("%w: %s event carries a peer snapshot", ErrMalformedEvent, e.Kind)
		}
	case KindConfirmConnect:
		if e.Peers == nil {
			e.Peers = []membership.NodeID{}
		}
	}

	return e, nil
}
