package retro

import "testing"

func TestButtonsSetGet(t *testing.T) {
	for id := uint32(0); id < 16; id++ {
		b := Buttons(0).Set(id, true)
		if !b.Get(id) {
			t.Fatalf("bit %d: Get returned false after Set(true)", id)
		}
		if b.Int16()&(1<<id) == 0 {
			t.Fatalf("bit %d: raw mask missing bit after Set(true)", id)
		}
		b = b.Set(id, false)
		if b.Get(id) {
			t.Fatalf("bit %d: Get returned true after Set(false)", id)
		}
	}
}

func TestButtonsGetOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range button id")
		}
	}()
	Buttons(0).Get(16)
}

func TestButtonsNamedAccessorsMatchLibretroIDs(t *testing.T) {
	b := Buttons(0).Right(true).A(true)
	if !b.GetRight() || !b.GetA() {
		t.Fatal("named setters/getters disagree")
	}
	if b.GetUp() || b.GetB() {
		t.Fatal("unrelated buttons should remain released")
	}
}
