package retro

import (
	"testing"
	"unsafe"
)

func withTestContext(t *testing.T) *emulatorContext {
	t.Helper()
	c := acquireContext("test-core")
	t.Cleanup(releaseContext)
	return c
}

func TestMemoryRefMatchesSimpleRAMDescriptor(t *testing.T) {
	c := withTestContext(t)
	ram := make([]byte, 16)
	ram[3] = 0x42

	c.memoryMap = []memoryDescriptor{
		{
			ptr:   uintptr(unsafe.Pointer(&ram[0])),
			start: 0,
			len:   len(ram),
		},
	}

	e := &Emulator{}
	slice, err := e.MemoryRef(3)
	if err != nil {
		t.Fatalf("MemoryRef: %v", err)
	}
	if slice[0] != 0x42 {
		t.Fatalf("got %#x, want 0x42", slice[0])
	}
}

func TestMemoryRefNotMapped(t *testing.T) {
	withTestContext(t)
	e := &Emulator{}
	if _, err := e.MemoryRef(0); err == nil {
		t.Fatal("expected error for address with no descriptors")
	}
}

func TestMemoryRefSelectMaskSkipsNonMatchingDescriptor(t *testing.T) {
	c := withTestContext(t)
	a := make([]byte, 8)
	b := make([]byte, 8)
	b[0] = 0x7

	c.memoryMap = []memoryDescriptor{
		{ptr: uintptr(unsafe.Pointer(&a[0])), start: 0, len: 8, selectMask: 0x10},
		{ptr: uintptr(unsafe.Pointer(&b[0])), start: 0, len: 8, selectMask: 0},
	}

	e := &Emulator{}
	slice, err := e.MemoryRef(0)
	if err != nil {
		t.Fatalf("MemoryRef: %v", err)
	}
	if slice[0] != 0x7 {
		t.Fatalf("expected scan to skip the select-masked descriptor and land on b, got %#x", slice[0])
	}
}

func TestMemoryRefMutStaleRegionIsRejected(t *testing.T) {
	withTestContext(t)
	e := &Emulator{}
	stale := MemoryRegion{which: 5, Start: 0, Len: 8}
	if _, err := e.MemoryRefMut(stale, 0); err == nil {
		t.Fatal("expected RAMMapOutOfRange for a region index past the current map")
	}
}
