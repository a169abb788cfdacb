package clientevent

import (
	"errors"
	"testing"

	"github.com/go-kit/log"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpoletaev/clientcast/membership"
)

func TestSender_Disseminate(t *testing.T) {
	for _, kind := range []Kind{KindConnect, KindDisconnect} {
		t.Run(kind.String(), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			transport := NewMockTransport(ctrl)
			sender := NewSender(NewMockStore(ctrl), transport, log.NewNopLogger())

			var payload []byte

			transport.EXPECT().
				Broadcast(gomock.Any()).
				DoAndReturn(func(b []byte) error {
					payload = append([]byte(nil), b...)
					return nil
				})

			require.NoError(t, sender.Disseminate(kind, clientID))

			e, err := Unmarshal(payload)
			require.NoError(t, err)
			assert.Equal(t, Event{Kind: kind, Subject: clientID}, e)
		})
	}
}

func TestSender_Disseminate_ConfirmRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := NewSender(NewMockStore(ctrl), NewMockTransport(ctrl), nil)

	err := sender.Disseminate(KindConfirmConnect, clientID)
	assert.ErrorIs(t, err, ErrNotDisseminated)
}

func TestSender_Disseminate_TransportFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := NewMockTransport(ctrl)
	sender := NewSender(NewMockStore(ctrl), transport, nil)

	errWrite := errors.New("write failed")
	transport.EXPECT().Broadcast(gomock.Any()).Return(errWrite)

	err := sender.Disseminate(KindDisconnect, clientID)
	require.ErrorIs(t, err, errWrite)

	// The buffer goes back to the pool even if the write fails.
	transport.EXPECT().Broadcast(gomock.Any()).Return(nil)
	require.NoError(t, sender.Disseminate(KindConnect, clientID))
}

func TestSender_Confirm(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	transport := NewMockTransport(ctrl)
	sender := NewSender(store, transport, log.NewNopLogger())

	flatfile := []membership.NodeID{selfID, peerID, clientID}
	store.EXPECT().Peers().Return(flatfile)

	var payload []byte

	transport.EXPECT().
		SendTo(clientID, gomock.Any()).
		DoAndReturn(func(_ membership.NodeID, b []byte) error {
			payload = append([]byte(nil), b...)
			return nil
		})

	require.NoError(t, sender.Confirm(clientID))

	e, err := Unmarshal(payload)
	require.NoError(t, err)
	assert.Equal(t, KindConfirmConnect, e.Kind)
	assert.Equal(t, clientID, e.Subject)
	assert.Equal(t, flatfile, e.Peers)
}
