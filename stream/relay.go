package stream

import (
	"context"
	"encoding/json"
	"log"
	"strings"
)

// Event is the JSON shape pushed to live subscribers.
type Event struct {
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData carries the created moment's identifier.
type EventData struct {
	ID string `json:"id"`
}

// NewMomentPayload builds the broker payload for a freshly created moment.
func NewMomentPayload(momentID string) string {
	return "new_moment:" + momentID
}

// Relay subscribes once to the moments channel and fans each event out to
// every live hub client. It decouples the write path (which only publishes
// to the broker) from transport-level delivery.
type Relay struct {
	broker *Broker
	hub    *Hub
}

// NewRelay creates a relay between the broker and the hub.
func NewRelay(broker *Broker, hub *Hub) *Relay {
	return &Relay{broker: broker, hub: hub}
}

// Run consumes the moments channel until the context is cancelled.
func (r *Relay) Run(ctx context.Context) {
	sub := r.broker.Subscribe(MomentsChannel)
	defer sub.Close()
	log.Printf("INFO: [Relay] Listening on channel '%s'.", MomentsChannel)

	for {
		select {
		case <-ctx.Done():
			log.Println("INFO: [Relay] Stopping.")
			return
		case payload, ok := <-sub.C:
			if !ok {
				return
			}
			momentID := strings.TrimPrefix(payload, "new_moment:")
			event := Event{Type: "new_moment", Data: EventData{ID: momentID}}
			message, err := json.Marshal(event)
			if err != nil {
				log.Printf("ERROR: [Relay] Failed to marshal event for moment %s: %v", momentID, err)
				continue
			}
			r.hub.Broadcast(message)
			log.Printf("INFO: [Relay] Broadcast new moment %s to %d clients.", momentID, r.hub.ClientCount())
		}
	}
}
