package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertAndAdvanceFiresInOrder(t *testing.T) {
	w := New(1.0, 0)
	a := &Event{Payload: "a"}
	b := &Event{Payload: "b"}
	w.Insert(a, 0)
	w.Insert(b, 0)

	due := w.Advance()
	require.Len(t, due, 2)
	require.Equal(t, "a", due[0].Payload, "same-slot events fire in FIFO insertion order")
	require.Equal(t, "b", due[1].Payload)
}

func TestAdvanceOnlyFiresCurrentSlot(t *testing.T) {
	w := New(1.0, 0)
	soon := &Event{Payload: "soon"}
	later := &Event{Payload: "later"}
	w.Insert(soon, 0)
	w.Insert(later, 5)

	due := w.Advance()
	require.Len(t, due, 1)
	require.Equal(t, "soon", due[0].Payload)

	for i := 0; i < 3; i++ {
		due = w.Advance()
		require.Empty(t, due)
	}
	due = w.Advance()
	require.Len(t, due, 1)
	require.Equal(t, "later", due[0].Payload)
}

func TestEventFarInFutureUsesHigherLevel(t *testing.T) {
	w := New(1.0, 0)
	ev := &Event{Payload: "far"}
	farTime := float64(slotsCount * 3)
	w.Insert(ev, farTime)
	require.Len(t, w.lv, 2, "an event beyond one level's span must grow the cascade")

	for i := 0; i < int(farTime)-1; i++ {
		due := w.Advance()
		require.Empty(t, due)
	}
	due := w.Advance()
	require.Len(t, due, 1)
	require.Equal(t, "far", due[0].Payload)
}

func TestCascadeRedistributesWrappedLevel(t *testing.T) {
	w := New(1.0, 0)
	ev := &Event{Payload: "cascaded"}
	// Lands in level 1 (>= 64 away) but well within its span.
	w.Insert(ev, 100)

	var fired *Event
	for i := 0; i < 100; i++ {
		due := w.Advance()
		if len(due) > 0 {
			fired = due[0]
		}
	}
	require.NotNil(t, fired)
	require.Equal(t, "cascaded", fired.Payload)
	require.InDelta(t, 100, w.Now(), 1e-9)
}

func TestPeek(t *testing.T) {
	w := New(1.0, 0)
	require.False(t, w.Peek())
	w.Insert(&Event{}, 0)
	require.True(t, w.Peek())
}
