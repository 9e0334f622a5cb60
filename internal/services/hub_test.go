package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID string) *WSClient {
	return NewWSClient(nil, userID)
}

func TestClientSubscriptions(t *testing.T) {
	client := newTestClient("")

	assert.False(t, client.SubscribedTo(GameChannel("123")))

	client.Subscribe(GameChannel("123"))
	assert.True(t, client.SubscribedTo(GameChannel("123")))
	assert.False(t, client.SubscribedTo(GameChannel("456")))

	client.Unsubscribe(GameChannel("123"))
	assert.False(t, client.SubscribedTo(GameChannel("123")))
}

func TestChannelNames(t *testing.T) {
	assert.Equal(t, "game:0022400123", GameChannel("0022400123"))
	assert.Equal(t, "user:abc", UserChannel("abc"))
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewWebSocketHub()
	go hub.Run()

	client := newTestClient("")
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Unregister(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)

	// Send channel is closed on unregister.
	select {
	case _, ok := <-client.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected send channel to be closed")
	}
}

func TestBroadcastReachesSubscribersOnly(t *testing.T) {
	hub := NewWebSocketHub()
	go hub.Run()

	subscribed := newTestClient("")
	subscribed.Subscribe(GameChannel("123"))
	other := newTestClient("")
	other.Subscribe(GameChannel("456"))

	hub.Register(subscribed)
	hub.Register(other)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.BroadcastGameUpdate("123", EventGameUpdate, map[string]int{"home": 80})

	select {
	case msg := <-subscribed.Send:
		assert.Equal(t, EventGameUpdate, msg.Type)
		assert.Equal(t, GameChannel("123"), msg.Channel)
		assert.False(t, msg.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("subscribed client did not receive broadcast")
	}

	select {
	case msg := <-other.Send:
		t.Fatalf("unsubscribed client received %v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastToUser(t *testing.T) {
	hub := NewWebSocketHub()
	go hub.Run()

	client := newTestClient("user-1")
	client.Subscribe(UserChannel("user-1"))
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.BroadcastToUser("user-1", EventRecommendations, nil)

	select {
	case msg := <-client.Send:
		assert.Equal(t, EventRecommendations, msg.Type)
		assert.Equal(t, "user:user-1", msg.Channel)
	case <-time.After(time.Second):
		t.Fatal("user did not receive broadcast")
	}
}

func TestSlowConsumerDisconnected(t *testing.T) {
	hub := NewWebSocketHub()
	go hub.Run()

	slow := &WSClient{
		ID:       "slow",
		Send:     make(chan WSMessage, 1),
		channels: map[string]bool{GameChannel("123"): true},
	}
	hub.Register(slow)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// First message fills the buffer, second marks the client slow.
	hub.BroadcastGameUpdate("123", EventGameUpdate, 1)
	hub.BroadcastGameUpdate("123", EventGameUpdate, 2)

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
