// Package event provides a small typed observer stream used for neuron
// fire and state-change notifications. Delivery is synchronous and ordered
// by subscription.
package event

import "sync"

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Stream fans a value out to its subscribers. The zero value is ready to
// use. Publish calls subscribers outside the internal lock, so a
// subscriber may subscribe or unsubscribe reentrantly.
type Stream[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber[T]
}

// Subscribe registers fn and returns a token for Unsubscribe. A nil fn is
// ignored and returns -1.
func (s *Stream[T]) Subscribe(fn func(T)) int {
	if fn == nil {
		return -1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.subs = append(s.subs, subscriber[T]{id: s.nextID, fn: fn})
	return s.nextID
}

// Unsubscribe removes the subscriber registered under id. It reports
// whether a subscriber was removed.
func (s *Stream[T]) Unsubscribe(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish delivers v to every subscriber in subscription order.
func (s *Stream[T]) Publish(v T) {
	s.mu.Lock()
	snapshot := make([]subscriber[T], len(s.subs))
	copy(snapshot, s.subs)
	s.mu.Unlock()

	for _, sub := range snapshot {
		sub.fn(v)
	}
}

// Len returns the number of subscribers.
func (s *Stream[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
