package mode

import (
	"slices"
	"testing"
)

func TestLoopMode_Cycle(t *testing.T) {
	if got := LoopOff.Cycle(); got != LoopAll {
		t.Errorf("LoopOff.Cycle() = %v, want LoopAll", got)
	}
	if got := LoopAll.Cycle(); got != LoopOne {
		t.Errorf("LoopAll.Cycle() = %v, want LoopOne", got)
	}
	if got := LoopOne.Cycle(); got != LoopOff {
		t.Errorf("LoopOne.Cycle() = %v, want LoopOff", got)
	}
}

func TestController_ToggleLoop_Cycle(t *testing.T) {
	c := NewController()

	want := []LoopMode{LoopAll, LoopOne, LoopOff, LoopAll}
	for i, w := range want {
		if got := c.ToggleLoop(); got != w {
			t.Errorf("toggle %d = %v, want %v", i+1, got, w)
		}
	}
	// After 4 toggles from Off the mode is All again.
	if c.Loop() != LoopAll {
		t.Errorf("Loop() = %v, want LoopAll", c.Loop())
	}
}

func TestParseLoopMode(t *testing.T) {
	tests := []struct {
		in      string
		want    LoopMode
		wantErr bool
	}{
		{"off", LoopOff, false},
		{"all", LoopAll, false},
		{"one", LoopOne, false},
		{"ONE", LoopOne, false},
		{"", LoopOff, false},
		{"repeat", LoopOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLoopMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLoopMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLoopMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestController_ToggleShuffle_PairIsIdempotent(t *testing.T) {
	c := NewController()

	if got := c.ToggleShuffle(5); !got {
		t.Error("first ToggleShuffle() = false, want true")
	}
	if len(c.Order()) != 5 {
		t.Errorf("order length = %d, want 5", len(c.Order()))
	}

	if got := c.ToggleShuffle(5); got {
		t.Error("second ToggleShuffle() = true, want false")
	}
	if c.Order() != nil {
		t.Errorf("order after disable = %v, want nil", c.Order())
	}
}

func TestController_ShuffleOrder_IsPermutation(t *testing.T) {
	c := NewController()
	c.SetShuffle(true, 8)

	order := c.Order()
	if len(order) != 8 {
		t.Fatalf("order length = %d, want 8", len(order))
	}
	seen := make(map[int]bool)
	for _, idx := range order {
		if idx < 0 || idx >= 8 {
			t.Errorf("order contains out-of-range index %d", idx)
		}
		if seen[idx] {
			t.Errorf("order contains duplicate index %d", idx)
		}
		seen[idx] = true
	}
}

func TestController_NextIndex_Sequential(t *testing.T) {
	tests := []struct {
		name    string
		loop    LoopMode
		current int
		length  int
		want    int
		wantOK  bool
	}{
		{"mid playlist", LoopOff, 3, 5, 4, true},
		{"at end no loop", LoopOff, 4, 5, 0, false},
		{"at end loop all wraps", LoopAll, 4, 5, 0, true},
		{"at end loop one defers to engine", LoopOne, 4, 5, 0, false},
		{"no selection", LoopOff, -1, 5, 0, true},
		{"empty playlist", LoopAll, -1, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController()
			c.SetLoop(tt.loop)

			got, ok := c.NextIndex(tt.current, tt.length)
			if ok != tt.wantOK {
				t.Fatalf("NextIndex() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("NextIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestController_NextIndex_FixedShuffleOrder(t *testing.T) {
	c := NewController()
	c.SetShuffle(true, 5)
	c.SetOrder([]int{3, 1, 4, 0, 2})

	// Playlist index 0 sits at position 3 in the order; its successor
	// is playlist index 2.
	got, ok := c.NextIndex(0, 5)
	if !ok || got != 2 {
		t.Fatalf("NextIndex(0, 5) = %d, %v, want 2, true", got, ok)
	}

	// Index 2 is the last position; with loop off the order is done.
	if _, ok := c.NextIndex(2, 5); ok {
		t.Error("NextIndex(2, 5) ok = true, want false at end of order")
	}
}

func TestController_NextIndex_ShuffleLoopAllReshuffles(t *testing.T) {
	c := NewController()
	c.SetShuffle(true, 5)
	c.SetLoop(LoopAll)
	c.SetOrder([]int{3, 1, 4, 0, 2})

	got, ok := c.NextIndex(2, 5)
	if !ok {
		t.Fatal("NextIndex() ok = false, want true with loop all")
	}
	order := c.Order()
	if len(order) != 5 {
		t.Fatalf("regenerated order length = %d, want 5", len(order))
	}
	if got != order[0] {
		t.Errorf("NextIndex() = %d, want head of fresh order %d", got, order[0])
	}
	if slices.Equal(order, []int{3, 1, 4, 0, 2}) {
		// A fresh permutation may coincide with the old one, but the
		// pinned order must at least have been replaced by a real
		// regeneration; verify it is still a permutation.
		t.Logf("fresh order equals the pinned one (possible, not an error)")
	}
}

func TestController_NextIndex_StaleOrderRebuilt(t *testing.T) {
	c := NewController()
	c.SetShuffle(true, 3)
	c.SetOrder([]int{2, 0, 1})

	// Playlist grew to 5 tracks; the stale order must be discarded.
	if _, ok := c.NextIndex(0, 5); !ok {
		t.Fatal("NextIndex() ok = false, want true")
	}
	if len(c.Order()) != 5 {
		t.Errorf("rebuilt order length = %d, want 5", len(c.Order()))
	}
}

func TestController_NextIndex_CurrentAbsentFallsBackToHead(t *testing.T) {
	c := NewController()
	c.SetShuffle(true, 5)
	c.SetOrder([]int{3, 1, 4, 0, 2})

	// -1 (no selection) is not in the order: next is the order's head.
	got, ok := c.NextIndex(-1, 5)
	if !ok || got != 3 {
		t.Errorf("NextIndex(-1, 5) = %d, %v, want 3, true", got, ok)
	}
}

func TestController_Reset_DiscardsOrder(t *testing.T) {
	c := NewController()
	c.SetShuffle(true, 4)
	c.Reset()

	if c.Order() != nil {
		t.Errorf("Order() after Reset = %v, want nil", c.Order())
	}
	if !c.Shuffle() {
		t.Error("Reset must not disable shuffle")
	}
}
