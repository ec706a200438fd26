package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, conn *Connection) Message {
	t.Helper()
	select {
	case data := <-conn.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func TestHubPublishReachesOwnerOnly(t *testing.T) {
	hub := NewHub()
	a1 := &Connection{Owner: "host_a", Send: make(chan []byte, 4), Hub: hub}
	a2 := &Connection{Owner: "host_a", Send: make(chan []byte, 4), Hub: hub}
	b := &Connection{Owner: "host_b", Send: make(chan []byte, 4), Hub: hub}
	hub.Register(a1)
	hub.Register(a2)
	hub.Register(b)

	hub.Publish("host_a", string(MsgStateChanged), map[string]string{"state": "capturing"})

	for _, conn := range []*Connection{a1, a2} {
		msg := receive(t, conn)
		assert.Equal(t, MsgStateChanged, msg.Type)
		assert.JSONEq(t, `{"state":"capturing"}`, string(msg.Payload))
	}

	select {
	case <-b.Send:
		t.Fatal("other owner received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	conn := &Connection{Owner: "host_a", Send: make(chan []byte, 1), Hub: hub}
	hub.Register(conn)
	assert.Eventually(t, func() bool { return hub.Connections("host_a") == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(conn)
	assert.Eventually(t, func() bool { return hub.Connections("host_a") == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-conn.Send
	assert.False(t, open)

	// Unregistering twice is harmless
	hub.Unregister(conn)
}
