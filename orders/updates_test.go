package orders

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{Send: make(chan []byte, 10)}
	hub.register <- client

	event := Event{
		Type:        "order_placed",
		OrderID:     "o123",
		OrderNumber: "ORD-1-00001",
		Status:      "pending",
		TotalPrice:  660,
	}
	hub.Broadcast(event)

	select {
	case got := <-client.Send:
		var decoded Event
		if err := json.Unmarshal(got, &decoded); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if decoded != event {
			t.Fatalf("expected %+v, got %+v", event, decoded)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	hub.unregister <- client
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// unbuffered send channel, never read
	slow := &Client{Send: make(chan []byte)}
	hub.register <- slow

	hub.Broadcast(Event{Type: "order_placed", OrderID: "o1"})

	select {
	case _, ok := <-slow.Send:
		if ok {
			t.Fatal("expected the slow client's channel to be closed")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for the slow client to be dropped")
	}
}

func TestBroadcastDoesNotBlockWhenSaturated(t *testing.T) {
	hub := NewHub() // Run never started, channel fills up

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Broadcast(Event{Type: "order_placed"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Broadcast blocked on a saturated hub")
	}
}
