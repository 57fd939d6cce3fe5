package stats

import "testing"

func TestCounters(t *testing.T) {
	tr := New()
	tr.SignalCreated()
	tr.SignalCreated()
	tr.Delivered()
	tr.Dropped()
	tr.Fired()

	snap := tr.Snapshot()
	if snap.SignalsCreated != 2 || snap.Deliveries != 1 || snap.DroppedDeliveries != 1 || snap.Fires != 1 {
		t.Errorf("snapshot = %+v", snap)
	}

	tr.Reset()
	if snap := tr.Snapshot(); snap != (Snapshot{}) {
		t.Errorf("after reset: %+v", snap)
	}
}

func TestNilTrackerSafe(t *testing.T) {
	var tr *Tracker
	tr.SignalCreated()
	tr.Delivered()
	tr.Dropped()
	tr.Fired()
	tr.Reset()
	if snap := tr.Snapshot(); snap != (Snapshot{}) {
		t.Errorf("nil snapshot = %+v", snap)
	}
}
