package channel

import (
	"sync"

	"github.com/baekilha/baekilha/pkg/metrics"
)

// Subscriber is a channel that receives notification messages
type Subscriber chan *Message

// Broker fans received messages out to in-process subscribers
type Broker struct {
	subscribers map[Subscriber]bool
	mu          sync.RWMutex
	messageCh   chan *Message
	stopCh      chan struct{}
}

// NewBroker creates a new message broker
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[Subscriber]bool),
		messageCh:   make(chan *Message, 100), // Buffer up to 100 messages
		stopCh:      make(chan struct{}),
	}
}

// Start begins the broker's distribution loop
func (b *Broker) Start() {
	go b.run()
}

// Stop stops the broker
func (b *Broker) Stop() {
	close(b.stopCh)
}

// Subscribe creates a new subscription and returns a channel
func (b *Broker) Subscribe() Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(Subscriber, 50) // Buffer per subscriber
	b.subscribers[sub] = true
	return sub
}

// Unsubscribe removes a subscription
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, sub)
	close(sub)
}

// Publish hands a message to the distribution loop
func (b *Broker) Publish(msg *Message) {
	select {
	case b.messageCh <- msg:
	case <-b.stopCh:
	}
}

func (b *Broker) run() {
	for {
		select {
		case msg := <-b.messageCh:
			b.broadcast(msg)
		case <-b.stopCh:
			return
		}
	}
}

func (b *Broker) broadcast(msg *Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub <- msg:
		default:
			// Subscriber buffer full, skip
			metrics.MessagesDropped.WithLabelValues("buffer_full").Inc()
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
