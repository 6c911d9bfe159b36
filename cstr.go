package retro

import "unsafe"

// cStringAt reads a NUL-terminated C string starting at the given address.
// It returns "" for a nil pointer, matching the libretro convention that an
// absent optional string field is a null pointer.
func cStringAt(addr uintptr) string {
	if addr == 0 {
		return ""
	}
	n := 0
	for {
		b := *(*byte)(unsafe.Pointer(addr + uintptr(n)))
		if b == 0 {
			break
		}
		n++
	}
	return unsafe.String((*byte)(unsafe.Pointer(addr)), n)
}

// newCString allocates a NUL-terminated copy of s and returns a pointer
// suitable for passing across the libretro C boundary. The backing array
// stays alive only as long as the caller retains the returned byte slice
// alongside the pointer; callers in this package store it in the
// emulatorContext, so it lives until Close releases the context (mirrors
// the original implementation's documented cheat-string leak: libretro
// gives no contract for taking the string back).
func newCString(s string) (uintptr, []byte) {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return uintptr(unsafe.Pointer(&buf[0])), buf
}
