package stream

import (
	"log"
	"sync"
)

// MomentsChannel is the single logical channel carrying new-moment events.
const MomentsChannel = "moments_stream"

// Publisher is the write side of the pub/sub channel. The creation path only
// needs this; fan-out to live connections happens behind it.
type Publisher interface {
	Publish(channel, payload string)
}

// Subscription is a receive handle on one channel. Close unsubscribes.
type Subscription struct {
	C       chan string
	broker  *Broker
	channel string
	once    sync.Once
}

// Close removes the subscription from its broker.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broker.unsubscribe(s.channel, s)
	})
}

// Broker is an in-process publish/subscribe channel. Delivery is best effort:
// a subscriber whose buffer is full misses the message, and a subscriber that
// attaches after a publish never sees it. There is no replay.
type Broker struct {
	mu   sync.RWMutex
	subs map[string][]*Subscription
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string][]*Subscription)}
}

// Subscribe attaches a buffered subscription to the channel.
func (b *Broker) Subscribe(channel string) *Subscription {
	sub := &Subscription{
		C:       make(chan string, 64),
		broker:  b,
		channel: channel,
	}
	b.mu.Lock()
	b.subs[channel] = append(b.subs[channel], sub)
	b.mu.Unlock()
	return sub
}

// Publish delivers the payload to every current subscriber of the channel
// without blocking on any of them. Publishing to a channel with zero
// subscribers is a no-op.
func (b *Broker) Publish(channel, payload string) {
	b.mu.RLock()
	subs := b.subs[channel]
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.C <- payload:
		default:
			log.Printf("WARN: [Broker] Subscriber buffer full on channel '%s', message dropped for that subscriber.", channel)
		}
	}
}

func (b *Broker) unsubscribe(channel string, target *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[channel]
	for i, sub := range subs {
		if sub == target {
			b.subs[channel] = append(subs[:i], subs[i+1:]...)
			close(sub.C)
			return
		}
	}
}
