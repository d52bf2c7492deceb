// Package events carries the productsUpdated broadcast emitted after
// successful admin mutations. The payload is only a timestamp and a
// source tag: listeners treat it as a "please refetch" hint, never as
// authoritative data.
package events

import (
	"sync"
	"time"
)

// ProductsUpdated is the broadcast payload.
type ProductsUpdated struct {
	Source string    `json:"source"`
	At     time.Time `json:"at"`
}

// Bus publishes productsUpdated events to whoever is listening.
type Bus interface {
	Publish(source string) error
}

// InProcessBus fans events out to subscriber channels inside one
// process. Slow subscribers drop events rather than block the publisher;
// a dropped hint is harmless because the next mutation publishes again.
type InProcessBus struct {
	mu   sync.Mutex
	subs map[int]chan ProductsUpdated
	next int
}

func NewInProcessBus() *InProcessBus {
	return &InProcessBus{subs: map[int]chan ProductsUpdated{}}
}

// Subscribe registers a listener and returns its channel plus a cancel
// function.
func (b *InProcessBus) Subscribe() (<-chan ProductsUpdated, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan ProductsUpdated, 8)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (b *InProcessBus) Publish(source string) error {
	evt := ProductsUpdated{Source: source, At: time.Now()}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	return nil
}
