package poetry

import (
	"fmt"
	"hash/fnv"
)

const (
	minTableCapacity = 16
	// maxLoadFactor is the occupancy threshold that triggers a resize.
	// Quadratic probing degrades quickly past half-full tables.
	maxLoadFactor = 0.5
)

type slotState uint8

// Entries are never deleted, so slots are two-state; no tombstones.
const (
	slotEmpty slotState = iota
	slotOccupied
)

type tableSlot struct {
	state slotState
	key   string
	value *WordFreqInfo
}

// TransitionTable maps a word to its WordFreqInfo record using open
// addressing with triangular-number quadratic probing. Capacity is always
// a power of two, which makes the probe sequence a full permutation of
// the slot indices.
type TransitionTable struct {
	slots []tableSlot
	size  int
}

// NewTransitionTable returns an empty table pre-sized so that sizeHint
// entries fit without crossing the load-factor threshold.
func NewTransitionTable(sizeHint int) *TransitionTable {
	capacity := minTableCapacity
	for float64(sizeHint) > float64(capacity)*maxLoadFactor {
		capacity *= 2
	}
	return &TransitionTable{slots: make([]tableSlot, capacity)}
}

func hashKey(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return h.Sum64()
}

// probe returns the slot index for the i-th attempt on key hash h. The
// triangular-number step i(i+1)/2 visits every index exactly once over
// capacity attempts when capacity is a power of two; the naive i+i*i
// offset only reaches half the slots and must not be used.
func (t *TransitionTable) probe(h uint64, i int) int {
	return int((h + uint64(i)*(uint64(i)+1)/2) & uint64(len(t.slots)-1))
}

// Insert adds a new key. It returns an error if the key is already
// present; there is no update path, callers Find first and mutate the
// record. The table resizes before insertion whenever occupancy would
// cross the load-factor threshold.
func (t *TransitionTable) Insert(key string, value *WordFreqInfo) error {
	if float64(t.size+1) > float64(len(t.slots))*maxLoadFactor {
		t.resize()
	}
	h := hashKey(key)
	for i := 0; i < len(t.slots); i++ {
		slot := &t.slots[t.probe(h, i)]
		if slot.state == slotEmpty {
			slot.state = slotOccupied
			slot.key = key
			slot.value = value
			t.size++
			return nil
		}
		if slot.key == key {
			return fmt.Errorf("key %q already present", key)
		}
	}
	// Unreachable: the resize above keeps occupancy at or below the load
	// factor and the probe sequence covers every slot. Reaching this
	// means the table's own invariants are broken.
	panic("poetry: transition table probe sequence exhausted on insert")
}

// Find returns the record for key, following the same probe sequence as
// Insert until an empty slot proves absence.
func (t *TransitionTable) Find(key string) (*WordFreqInfo, bool) {
	h := hashKey(key)
	for i := 0; i < len(t.slots); i++ {
		slot := &t.slots[t.probe(h, i)]
		if slot.state == slotEmpty {
			return nil, false
		}
		if slot.key == key {
			return slot.value, true
		}
	}
	return nil, false
}

// Size returns the number of occupied slots.
func (t *TransitionTable) Size() int { return t.size }

// Capacity returns the length of the backing slot array.
func (t *TransitionTable) Capacity() int { return len(t.slots) }

// resize doubles the backing array and re-inserts every occupied entry
// using the new capacity.
func (t *TransitionTable) resize() {
	old := t.slots
	t.slots = make([]tableSlot, len(old)*2)
	t.size = 0
	for i := range old {
		if old[i].state != slotOccupied {
			continue
		}
		if err := t.Insert(old[i].key, old[i].value); err != nil {
			panic("poetry: duplicate key during rehash: " + old[i].key)
		}
	}
}

// Walk calls fn for every occupied entry in slot order. Returning false
// stops the walk early.
func (t *TransitionTable) Walk(fn func(key string, value *WordFreqInfo) bool) {
	for i := range t.slots {
		if t.slots[i].state == slotOccupied {
			if !fn(t.slots[i].key, t.slots[i].value) {
				return
			}
		}
	}
}
