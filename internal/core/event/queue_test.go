package event

import "testing"

func TestDrainDeliversOnlyWhatWasQueuedBefore(t *testing.T) {
	q := NewQueue[int](4)
	q.Push(1)
	q.Push(2)

	var got []int
	n := q.Drain(func(v int) {
		got = append(got, v)
		if v == 1 {
			q.Push(3)
		}
	})
	if n != 2 || len(got) != 2 {
		t.Fatalf("first drain delivered %v", got)
	}
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want the item pushed mid-drain", q.Len())
	}

	got = got[:0]
	q.Drain(func(v int) { got = append(got, v) })
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("second drain delivered %v, want [3]", got)
	}
}

func TestDeliverRoutesToPresenter(t *testing.T) {
	rec := &Recorder{}
	out := NewOutbox()
	out.Push(RoomEntered{RoomIndex: 2})
	out.Push(BossSpawned{BossID: "golem", BossName: "Stone Golem"})
	out.Push(Victory{})
	out.Drain(func(n Notification) { Deliver(rec, n) })

	if len(rec.Notes) != 3 {
		t.Fatalf("recorded %d notes, want 3", len(rec.Notes))
	}
	if got := rec.Notes[1].(BossSpawned).BossName; got != "Stone Golem" {
		t.Errorf("boss name = %q", got)
	}
	if rec.Count(Victory{}) != 1 {
		t.Error("victory not recorded")
	}
}
