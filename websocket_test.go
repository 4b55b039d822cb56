package main

import (
	"encoding/json"
	"testing"
	"time"
)

// A dashboard that stops draining its queue must be dropped; the scan
// path never waits on a socket write.
func TestBroadcastNeverBlocksOnStalledClient(t *testing.T) {
	c := &wsClient{send: make(chan []byte, 2)}
	wsHub.register(c)
	defer wsHub.unregister(c)

	done := make(chan struct{})
	go func() {
		// fill the queue, then overflow it
		for i := 0; i < 5; i++ {
			broadcastScan("T-900", "material", ScanResponse{Success: true, Message: "Material successfully approved"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a client that is not reading")
	}

	wsHub.mu.RLock()
	_, stillThere := wsHub.clients[c]
	wsHub.mu.RUnlock()
	if stillThere {
		t.Error("stalled client was not dropped from the hub")
	}
}

func TestBroadcastDeliversScanEvent(t *testing.T) {
	c := &wsClient{send: make(chan []byte, sendBuffer)}
	wsHub.register(c)
	defer wsHub.unregister(c)

	info := &ProductInfo{OrderNumber: "19686"}
	broadcastScan("D-011234567", "unit", ScanResponse{
		Success:     true,
		Message:     "Item successfully approved: 2 of 2 models",
		ProductInfo: info,
	})

	select {
	case data := <-c.send:
		var evt ScanEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if evt.Type != "scan" || evt.Barcode != "D-011234567" || evt.Kind != "unit" {
			t.Errorf("unexpected event: %+v", evt)
		}
		if !evt.Success || evt.OrderNumber != "19686" {
			t.Errorf("unexpected event payload: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no event queued for connected client")
	}
}
