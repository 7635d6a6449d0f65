// Package schedule implements the hierarchical time-wheel event scheduler
// (§4.5): a cascade of circular buffers, each level's slot width a fixed
// multiple of the level below, so that far-future events sort coarsely
// into wide slots and only get bucketed precisely as they approach the
// current time.
package schedule

import "math"

// Event is anything the engine wants scheduled at a simulated time. Each
// cascade level holds these as a FIFO list per slot, so events that land
// in the same slot fire in the order they were inserted — causal
// ordering, not time ordering, within a slot (§4.5.1).
type Event struct {
	Time    float64
	Payload any
}

const (
	// levelBits is log2 of the slot count per level: 64 slots per level,
	// each level's span 64 times the one below.
	levelBits  = 6
	slotsCount = 1 << levelBits
	slotMask   = slotsCount - 1

	// maxLevels bounds the cascade depth (§4.5.3's bounded-recursion
	// requirement). An event further out than the cascade can address
	// is still placed in the deepest level, at the slot the usual
	// (tick >> (levelBits*k)) & slotMask rule gives, rather than being
	// rejected.
	maxLevels = 10
)

type level struct {
	slots [slotsCount][]*Event
}

// Wheel is a hierarchical/cascaded time wheel addressed by integer ticks
// of width dtMin. A level-k slot is a pure function of the absolute tick
// number, (tick >> (levelBits*k)) & slotMask — there is no independently
// advanced "head" per level, so cascading never drifts out of sync with
// the tick count it is derived from.
type Wheel struct {
	dtMin float64
	t0    float64
	tick  int64

	lv []*level // lv[0] always present once New returns
}

// New returns a Wheel whose base (level 0) slot width is dtMin, with the
// current simulated time set to t0.
func New(dtMin, t0 float64) *Wheel {
	return &Wheel{dtMin: dtMin, t0: t0, lv: []*level{{}}}
}

// Now returns the wheel's current simulated time.
func (w *Wheel) Now() float64 { return w.t0 + float64(w.tick)*w.dtMin }

// ticksOf converts simulated time t into an absolute tick count, rounding
// to the nearest tick and clamping to the current tick — times already in
// the past resolve to "now", not to a negative delta.
func (w *Wheel) ticksOf(t float64) int64 {
	ticks := int64(math.Round((t - w.t0) / w.dtMin))
	if ticks < w.tick {
		ticks = w.tick
	}
	return ticks
}

func (w *Wheel) ensureLevel(k int) {
	for len(w.lv) <= k {
		w.lv = append(w.lv, &level{})
	}
}

// levelFor picks the shallowest level whose span (slotsCount ticks at
// that level's width) can address delta ticks from now, capped at
// maxLevels-1.
func levelFor(delta int64) int {
	k := 0
	span := int64(slotsCount)
	for k < maxLevels-1 && delta >= span {
		k++
		span *= slotsCount
	}
	return k
}

func slotIndex(targetTick int64, k int) int {
	return int((targetTick >> uint(levelBits*k)) & slotMask)
}

// insertAt places ev, already stamped with its target tick >= w.tick,
// into the lowest level that can address it.
func (w *Wheel) insertAt(ev *Event, target int64) {
	k := levelFor(target - w.tick)
	w.ensureLevel(k)
	slot := slotIndex(target, k)
	w.lv[k].slots[slot] = append(w.lv[k].slots[slot], ev)
}

// Insert schedules ev to fire at simulated time t. A t at or before Now
// resolves to the very next tick, since the current tick's slot has
// already been (or is about to be) consumed.
func (w *Wheel) Insert(ev *Event, t float64) {
	ev.Time = t
	target := w.ticksOf(t)
	if target == w.tick {
		target++
	}
	w.insertAt(ev, target)
}

// Advance moves the wheel forward by exactly one tick (one level-0 slot
// width) and returns every event due to fire this tick, in FIFO
// insertion order. Whenever a level's slot index wraps back to 0, that
// level's new current slot in the next level up cascades down: events
// whose target tick is this one join the returned list directly, and the
// rest are reinserted into whichever level is now precise enough for
// their remaining delta. The cascade continues upward for as long as
// each successive level also reports index 0.
func (w *Wheel) Advance() []*Event {
	w.tick++

	idx0 := slotIndex(w.tick, 0)
	due := w.lv[0].slots[idx0]
	w.lv[0].slots[idx0] = nil

	if idx0 == 0 {
		due = append(due, w.cascade(1)...)
	}
	return due
}

// cascade pops level k's slot for the current tick and redistributes its
// events: those due exactly now are returned for the caller to fire;
// everything else is reinserted at its proper (now finer-grained) level.
// If level k's own index is also 0, the cascade continues to level k+1.
func (w *Wheel) cascade(k int) []*Event {
	if k >= len(w.lv) {
		return nil
	}
	idx := slotIndex(w.tick, k)
	wrapped := w.lv[k].slots[idx]
	w.lv[k].slots[idx] = nil

	var due []*Event
	for _, ev := range wrapped {
		target := w.ticksOf(ev.Time)
		if target == w.tick {
			due = append(due, ev)
		} else {
			w.insertAt(ev, target)
		}
	}
	if idx == 0 {
		due = append(due, w.cascade(k+1)...)
	}
	return due
}

// Peek reports whether level 0 holds an event for the next tick, without
// consuming it. Events still parked in a higher level, which the next
// Advance would release through a cascade, are not seen.
func (w *Wheel) Peek() bool {
	idx0 := slotIndex(w.tick+1, 0)
	return len(w.lv[0].slots[idx0]) > 0
}
