package pointers

import "testing"

func TestPtrReturnsCopy(t *testing.T) {
	v := 7
	p := Ptr(v)
	if p == &v {
		t.Fatal("Ptr must return the address of a copy")
	}
	if *p != 7 {
		t.Fatalf("*p = %d, want 7", *p)
	}
	v = 8
	if *p != 7 {
		t.Fatal("the copy must not alias the original")
	}
}
