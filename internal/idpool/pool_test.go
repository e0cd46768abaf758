package idpool

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestAllocateGrows(t *testing.T) {
	p := New()

	for i := 0; i < 5; i++ {
		testutil.AssertEqual(t, "allocated id", p.Allocate(), i)
	}
	testutil.AssertEqual(t, "size", p.Size(), 5)
	testutil.AssertEqual(t, "leased", p.Leased(), 5)
}

func TestFreeReuse(t *testing.T) {
	tests := map[string]struct {
		allocate int
		free     []int
		expNext  []int
		expSize  int
	}{
		"freed id is reused": {
			allocate: 3,
			free:     []int{1},
			expNext:  []int{1, 3},
			expSize:  4,
		},
		"smallest freed id first": {
			allocate: 4,
			free:     []int{3, 0, 2},
			expNext:  []int{0, 2, 3, 4},
			expSize:  5,
		},
		"no frees keeps growing": {
			allocate: 2,
			expNext:  []int{2, 3},
			expSize:  4,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := New()
			for i := 0; i < tt.allocate; i++ {
				p.Allocate()
			}
			for _, id := range tt.free {
				p.Free(id)
			}
			for i, exp := range tt.expNext {
				testutil.AssertEqual(t, "allocated id", p.Allocate(), exp)
				_ = i
			}
			testutil.AssertEqual(t, "size", p.Size(), tt.expSize)
		})
	}
}

// Allocating N, freeing all N, then allocating N again must yield the same
// set of ids without growing the id space.
func TestRoundTrip(t *testing.T) {
	p := New()

	const n = 16
	ids := make([]int, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, p.Allocate())
	}
	for _, id := range ids {
		p.Free(id)
	}
	testutil.AssertEqual(t, "leased after free", p.Leased(), 0)

	seen := map[int]bool{}
	for i := 0; i < n; i++ {
		seen[p.Allocate()] = true
	}

	for _, id := range ids {
		if !seen[id] {
			t.Errorf("id %d not reused after round trip", id)
		}
	}
	testutil.AssertEqual(t, "size after round trip", p.Size(), n)
}

func TestFreeDefensive(t *testing.T) {
	p := New()
	id := p.Allocate()

	// Out-of-range and negative ids are ignored.
	p.Free(42)
	p.Free(-1)
	testutil.AssertEqual(t, "size", p.Size(), 1)
	testutil.AssertEqual(t, "leased", p.Leased(), 1)

	// Double free is a no-op.
	p.Free(id)
	p.Free(id)
	testutil.AssertEqual(t, "leased after double free", p.Leased(), 0)
	testutil.AssertEqual(t, "reallocated", p.Allocate(), id)
}
