package event

import "testing"

func TestOrderedDelivery(t *testing.T) {
	var s Stream[int]
	var order []string

	s.Subscribe(func(v int) { order = append(order, "first") })
	s.Subscribe(func(v int) { order = append(order, "second") })

	s.Publish(1)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("delivery order = %v, want [first second]", order)
	}
}

func TestUnsubscribe(t *testing.T) {
	var s Stream[string]
	calls := 0

	id := s.Subscribe(func(string) { calls++ })
	s.Publish("a")

	if !s.Unsubscribe(id) {
		t.Error("Unsubscribe should report removal")
	}
	if s.Unsubscribe(id) {
		t.Error("second Unsubscribe should report false")
	}
	s.Publish("b")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestNilSubscriber(t *testing.T) {
	var s Stream[int]
	if id := s.Subscribe(nil); id != -1 {
		t.Errorf("Subscribe(nil) = %d, want -1", id)
	}
	s.Publish(1) // must not panic
}
