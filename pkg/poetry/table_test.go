package poetry

import (
	"fmt"
	"testing"
)

func TestInsertAndFind(t *testing.T) {
	table := NewTransitionTable(0)

	a := NewWordFreqInfo("alpha")
	a.UpdateFollows("beta")
	if err := table.Insert("alpha", a); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, ok := table.Find("alpha")
	if !ok {
		t.Fatal("Find(alpha): expected presence")
	}
	if got != a {
		t.Error("Find(alpha): expected the inserted record, got a different one")
	}

	if _, ok = table.Find("missing"); ok {
		t.Error("Find(missing): expected absence")
	}
	if table.Size() != 1 {
		t.Errorf("Size() = %d, want 1", table.Size())
	}
}

func TestInsertDuplicateKey(t *testing.T) {
	table := NewTransitionTable(0)
	if err := table.Insert("alpha", NewWordFreqInfo("alpha")); err != nil {
		t.Fatalf("first Insert() error = %v", err)
	}
	if err := table.Insert("alpha", NewWordFreqInfo("alpha")); err == nil {
		t.Error("expected an error when inserting a duplicate key, got nil")
	}
	if table.Size() != 1 {
		t.Errorf("Size() = %d after duplicate insert, want 1", table.Size())
	}
}

func TestInsertAcrossResizes(t *testing.T) {
	table := NewTransitionTable(0)
	words := testWords(2000)

	for _, w := range words {
		info := NewWordFreqInfo(w)
		info.UpdateFollows(w + "-next")
		if err := table.Insert(w, info); err != nil {
			t.Fatalf("Insert(%q) error = %v", w, err)
		}
	}

	if table.Size() != len(words) {
		t.Fatalf("Size() = %d, want %d", table.Size(), len(words))
	}
	for _, w := range words {
		info, ok := table.Find(w)
		if !ok {
			t.Fatalf("Find(%q): expected presence after resizes", w)
		}
		if info.Word != w || info.FollowWordAt(0) != w+"-next" {
			t.Fatalf("Find(%q): wrong record %+v", w, info)
		}
	}
}

func TestCapacityStaysPowerOfTwo(t *testing.T) {
	table := NewTransitionTable(0)
	for i, w := range testWords(1000) {
		if err := table.Insert(w, NewWordFreqInfo(w)); err != nil {
			t.Fatalf("Insert(%q) error = %v", w, err)
		}
		capacity := table.Capacity()
		if capacity&(capacity-1) != 0 {
			t.Fatalf("capacity %d not a power of two after %d inserts", capacity, i+1)
		}
		if load := float64(table.Size()) / float64(capacity); load > maxLoadFactor {
			t.Fatalf("load factor %.3f exceeds %.2f after %d inserts", load, maxLoadFactor, i+1)
		}
	}
}

func TestPreSizing(t *testing.T) {
	tests := []struct {
		sizeHint     int
		wantCapacity int
	}{
		{0, 16},
		{8, 16},
		{9, 32},
		{1000, 2048},
	}
	for _, tc := range tests {
		if got := NewTransitionTable(tc.sizeHint).Capacity(); got != tc.wantCapacity {
			t.Errorf("NewTransitionTable(%d).Capacity() = %d, want %d", tc.sizeHint, got, tc.wantCapacity)
		}
	}
}

// The triangular-number probe must visit every slot index before the
// sequence is exhausted, for any starting hash.
func TestProbeSequenceCoversAllSlots(t *testing.T) {
	table := NewTransitionTable(0)
	capacity := table.Capacity()

	for _, key := range []string{"a", "quadratic", "probe", "zz"} {
		h := hashKey(key)
		visited := make(map[int]struct{}, capacity)
		for i := 0; i < capacity; i++ {
			visited[table.probe(h, i)] = struct{}{}
		}
		if len(visited) != capacity {
			t.Errorf("probe sequence for %q visited %d of %d slots", key, len(visited), capacity)
		}
	}
}

func TestWalkVisitsEveryEntry(t *testing.T) {
	table := NewTransitionTable(0)
	words := testWords(100)
	for _, w := range words {
		if err := table.Insert(w, NewWordFreqInfo(w)); err != nil {
			t.Fatalf("Insert(%q) error = %v", w, err)
		}
	}

	seen := make(map[string]struct{})
	table.Walk(func(key string, value *WordFreqInfo) bool {
		seen[key] = struct{}{}
		return true
	})
	if len(seen) != len(words) {
		t.Errorf("Walk visited %d entries, want %d", len(seen), len(words))
	}

	var stopped int
	table.Walk(func(string, *WordFreqInfo) bool {
		stopped++
		return false
	})
	if stopped != 1 {
		t.Errorf("Walk continued after fn returned false (%d calls)", stopped)
	}
}

func BenchmarkTableInsert(b *testing.B) {
	words := testWords(b.N)
	b.ResetTimer()
	table := NewTransitionTable(b.N)
	for i := 0; i < b.N; i++ {
		_ = table.Insert(words[i], NewWordFreqInfo(words[i]))
	}
}

func BenchmarkTableFind(b *testing.B) {
	table := NewTransitionTable(0)
	words := testWords(4096)
	for _, w := range words {
		_ = table.Insert(w, NewWordFreqInfo(w))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = table.Find(words[i%len(words)])
	}
}

func ExampleTransitionTable() {
	table := NewTransitionTable(0)
	info := NewWordFreqInfo("rose")
	info.UpdateFollows("red")
	_ = table.Insert("rose", info)

	if found, ok := table.Find("rose"); ok {
		fmt.Println(found.FollowWordAt(0))
	}
	// Output: red
}
