// Package feed fans the latest ledger snapshot of a household out to every
// viewer subscribed to it.
package feed

import (
	"sync"

	"gastocerto/internal/models"
)

// Broker delivers full household snapshots. Each subscriber holds at most
// one undelivered snapshot; a newer one replaces it.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan []models.Transaction
}

// NewBroker returns an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[int]chan []models.Transaction)}
}

// Subscribe registers a viewer of householdID. The returned cancel func
// unregisters it and closes the channel; it is safe to call more than once.
func (b *Broker) Subscribe(householdID string) (<-chan []models.Transaction, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan []models.Transaction, 1)
	if b.subs[householdID] == nil {
		b.subs[householdID] = make(map[int]chan []models.Transaction)
	}
	b.subs[householdID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[householdID], id)
			if len(b.subs[householdID]) == 0 {
				delete(b.subs, householdID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish hands snapshot to every subscriber of householdID without blocking.
func (b *Broker) Publish(householdID string, snapshot []models.Transaction) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[householdID] {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

// Subscribers returns the number of viewers of householdID.
func (b *Broker) Subscribers(householdID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[householdID])
}
