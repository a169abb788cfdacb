package clientevent

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/clientcast/internal/telemetry"
	"github.com/maxpoletaev/clientcast/membership"
)

var ErrNotDisseminated = errors.New("event kind cannot be disseminated")

// Encoded events are small, but a confirmation carries the whole flatfile.
const initialBufferSize = 512

var bufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, initialBufferSize)
		return &b
	},
}

// Sender originates client events.
type Sender struct {
	store     Store
	transport Transport
	logger    log.Logger
}

func NewSender(store Store, transport Transport, logger log.Logger) *Sender {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &Sender{
		store:     store,
		transport: transport,
		logger:    logger,
	}
}

// Disseminate sends a connect or disconnect event about the subject to the
// current peer view. No acknowledgment is awaited.
func (s *Sender) Disseminate(kind Kind, subject membership.NodeID) error {
	var e Event

	switch kind {
	case KindConnect:
		e = NewConnect(subject)
	case KindDisconnect:
		e = NewDisconnect(subject)
	default:
		return fmt.Errorf("%w: %s", ErrNotDisseminated, kind)
	}

	return s.send(e, s.transport.Broadcast)
}

// Confirm sends the current flatfile directly to the subject client.
func (s *Sender) Confirm(subject membership.NodeID) error {
	level.Info(s.logger).Log("msg", "confirming that client has been propagated everywhere", "client", subject)

	e := NewConfirmConnect(subject, s.store.Peers())

	return s.send(e, func(payload []byte) error {
		return s.transport.SendTo(subject, payload)
	})
}

func (s *Sender) send(e Event, write func([]byte) error) error {
	bufp := bufferPool.Get().(*[]byte)

	defer func() {
		*bufp = (*bufp)[:0]
		bufferPool.Put(bufp)
	}()

	*bufp = AppendEvent((*bufp)[:0], e)

	if err := write(*bufp); err != nil {
		return fmt.Errorf("failed to send %s event: %w", e.Kind, err)
	}

	telemetry.EventsSent.WithLabelValues(e.Kind.String()).Inc()

	level.Debug(s.logger).Log("msg", "client event sent", "kind", e.Kind, "client", e.Subject)

	return nil
}
