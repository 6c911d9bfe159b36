package retro

import "testing"

func Test0RGB1555DecodeWhite(t *testing.T) {
	r, g, b := argb555to888(0xFF, 0x7F)
	if r != 0xFF || g != 0xFF || b != 0xFF {
		t.Fatalf("got (%#x,%#x,%#x), want (0xff,0xff,0xff)", r, g, b)
	}
}

func TestRGB565DecodeRed(t *testing.T) {
	r, g, b := rgb565to888(0x00, 0xF8)
	if r != 0xFF || g != 0 || b != 0 {
		t.Fatalf("got (%#x,%#x,%#x), want (0xff,0,0)", r, g, b)
	}
}

func TestRGB332RoundTrip(t *testing.T) {
	for r := byte(0); r <= 7; r++ {
		for g := byte(0); g <= 7; g++ {
			for b := byte(0); b <= 3; b++ {
				packed := rgb888to332(r*32, g*32, b*64)
				rr, gg, bb := rgb332to888(packed)
				// Round trip lands within one quantization bucket of the
				// original channel value.
				if abs(int(rr)-int(r)*32) > 32 || abs(int(gg)-int(g)*32) > 32 || abs(int(bb)-int(b)*64) > 64 {
					t.Fatalf("round trip (%d,%d,%d) -> %#x -> (%d,%d,%d) out of bucket", r, g, b, packed, rr, gg, bb)
				}
			}
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestDecodePixelXRGB8888(t *testing.T) {
	fb := []byte{0xAA, 0x10, 0x20, 0x30}
	r, g, b, a := decodePixel(PixelFormatXRGB8888, fb, 0)
	if r != 0x10 || g != 0x20 || b != 0x30 || a != 1 {
		t.Fatalf("got (%#x,%#x,%#x,%d)", r, g, b, a)
	}
}

func TestCopyFramebufferRGB888(t *testing.T) {
	fb := []byte{0xAA, 0x10, 0x20, 0x30, 0xBB, 0x40, 0x50, 0x60}
	dst := make([]byte, 6)
	copyFramebufferRGB888(PixelFormatXRGB8888, fb, dst)
	want := []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, dst[i], want[i])
		}
	}
}
