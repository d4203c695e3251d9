package hashutil

import (
	"fmt"
	"testing"
)

func TestHashDeterministic(t *testing.T) {
	facts := map[string]any{
		"avg_score":     8.4,
		"session_count": 3,
		"categories":    map[string]int{"low_left": 4, "centered": 6},
		"priorities":    []string{"trigger_control", "grip"},
	}

	first, err := Hash(facts)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Hash(facts)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		if again != first {
			t.Fatalf("hash not deterministic: %s != %s", again, first)
		}
	}
	if len(first) != 64 {
		t.Fatalf("expected sha256 hex, got %q", first)
	}
}

func TestHashIgnoresMapInsertionOrder(t *testing.T) {
	a := map[string]any{}
	b := map[string]any{}
	for i := 0; i < 20; i++ {
		a[fmt.Sprintf("key_%d", i)] = i
	}
	for i := 19; i >= 0; i-- {
		b[fmt.Sprintf("key_%d", i)] = i
	}

	ha, err := Hash(a)
	if err != nil {
		t.Fatalf("hash a: %v", err)
	}
	hb, err := Hash(b)
	if err != nil {
		t.Fatalf("hash b: %v", err)
	}
	if ha != hb {
		t.Fatalf("insertion order changed the hash: %s != %s", ha, hb)
	}
}

func TestHashDistinguishesValues(t *testing.T) {
	base := map[string]any{"avg_score": 8.4, "shots": 60}
	cases := []map[string]any{
		{"avg_score": 8.5, "shots": 60},
		{"avg_score": 8.4, "shots": 61},
		{"avg_score": 8.4},
		{"avg_score": "8.4", "shots": 60},
	}

	baseHash, err := Hash(base)
	if err != nil {
		t.Fatalf("hash base: %v", err)
	}
	for i, c := range cases {
		h, err := Hash(c)
		if err != nil {
			t.Fatalf("hash case %d: %v", i, err)
		}
		if h == baseHash {
			t.Fatalf("case %d collided with base: %v", i, c)
		}
	}
}

func TestHashSliceOrderMatters(t *testing.T) {
	a, err := Hash([]string{"grip", "stance"})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := Hash([]string{"stance", "grip"})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatal("slice order should change the hash")
	}
}

func TestHashWholeFloatMatchesInt(t *testing.T) {
	// Facts survive a JSON round trip, which turns ints into whole floats.
	// Both forms must canonicalize identically or every decode would look
	// like a data change.
	a, err := Hash(map[string]any{"n": 3})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := Hash(map[string]any{"n": 3.0})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a != b {
		t.Fatalf("int and whole float should hash alike: %s != %s", a, b)
	}
}

func TestHashCyclicStructure(t *testing.T) {
	inner := map[string]any{"name": "loop"}
	inner["self"] = inner

	// Must terminate and stay stable.
	first, err := Hash(inner)
	if err != nil {
		t.Fatalf("hash cyclic: %v", err)
	}
	second, err := Hash(inner)
	if err != nil {
		t.Fatalf("hash cyclic: %v", err)
	}
	if first != second {
		t.Fatalf("cyclic hash not stable: %s != %s", first, second)
	}
}

func TestHashNil(t *testing.T) {
	if _, err := Hash(nil); err != nil {
		t.Fatalf("hash nil: %v", err)
	}
}
