package retro

import "github.com/go-retro/frontend/abi"

// PixelFormat identifies the wire layout a core uses for its framebuffer.
type PixelFormat int

const (
	PixelFormat0RGB1555 PixelFormat = abi.PixelFormat0RGB1555
	PixelFormatXRGB8888 PixelFormat = abi.PixelFormatXRGB8888
	PixelFormatRGB565   PixelFormat = abi.PixelFormatRGB565
)

// BytesPerPixel returns the framebuffer stride contribution of one pixel in
// this format, or 0 if fmt is not one of the three formats libretro allows.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormat0RGB1555, PixelFormatRGB565:
		return 2
	case PixelFormatXRGB8888:
		return 4
	default:
		return 0
	}
}

func (f PixelFormat) String() string {
	switch f {
	case PixelFormat0RGB1555:
		return "0RGB1555"
	case PixelFormatXRGB8888:
		return "XRGB8888"
	case PixelFormatRGB565:
		return "RGB565"
	default:
		return "unknown"
	}
}

// argb555to888 unpacks a little-endian 0RGB1555 pixel (lo, hi byte order as
// it appears in the framebuffer) into 8-bit-per-channel RGB, replicating the
// high bits into the low bits each channel is missing.
func argb555to888(lo, hi byte) (r, g, b byte) {
	r = (hi & 0b0111_1100) >> 2
	g = ((hi & 0b0000_0011) << 3) + ((lo & 0b1110_0000) >> 5)
	b = lo & 0b0001_1111
	r = (r << 3) | (r >> 2)
	g = (g << 3) | (g >> 2)
	b = (b << 3) | (b >> 2)
	return r, g, b
}

// rgb565to888 unpacks a little-endian RGB565 pixel into 8-bit-per-channel RGB.
func rgb565to888(lo, hi byte) (r, g, b byte) {
	r = (hi & 0b1111_1000) >> 3
	g = ((hi & 0b0000_0111) << 3) + ((lo & 0b1110_0000) >> 5)
	b = lo & 0b0001_1111
	r = (r << 3) | (r >> 2)
	g = (g << 2) | (g >> 4)
	b = (b << 3) | (b >> 2)
	return r, g, b
}

// rgb332to888 expands a packed RGB332 byte into 8-bit-per-channel RGB.
func rgb332to888(c byte) (r, g, b byte) {
	col := uint32(c)
	r = byte((((col & 0b1110_0000) >> 5) * 255) / 8)
	g = byte((((col & 0b0001_1100) >> 2) * 255) / 8)
	b = byte(((col & 0b0000_0011) * 255) / 4)
	return r, g, b
}

// rgb888to332 packs 8-bit-per-channel RGB into one RGB332 byte.
func rgb888to332(r, g, b byte) byte {
	rr := byte((uint32(r) * 8) / 256)
	gg := byte((uint32(g) * 8) / 256)
	bb := byte((uint32(b) * 4) / 256)
	return (rr << 5) + (gg << 2) + bb
}

// decodePixel extracts the RGB and raw-alpha-bit value of the pixel at byte
// offset off in fb, for the given format. alphaBit is the top bit of the
// 0RGB1555 "unused" channel (0 or 1), meaningful only for that format; other
// formats report alphaBit as 1 (fully opaque) since they carry no alpha.
func decodePixel(fmt PixelFormat, fb []byte, off int) (r, g, b, alphaBit byte) {
	switch fmt {
	case PixelFormat0RGB1555:
		lo, hi := fb[off], fb[off+1]
		r, g, b = argb555to888(lo, hi)
		return r, g, b, hi >> 7
	case PixelFormatXRGB8888:
		return fb[off+1], fb[off+2], fb[off+3], 1
	case PixelFormatRGB565:
		lo, hi := fb[off], fb[off+1]
		r, g, b = rgb565to888(lo, hi)
		return r, g, b, 1
	default:
		panic("retro: unsupported pixel format")
	}
}

// forEachPixel walks fb, bpp bytes at a time, and invokes f with each
// pixel's (x, y, r, g, b) in row-major order for a framebuffer of width w.
func forEachPixel(fmt PixelFormat, fb []byte, w int, f func(x, y int, r, g, b byte)) {
	bpp := fmt.BytesPerPixel()
	x, y := 0, 0
	for off := 0; off+bpp <= len(fb); off += bpp {
		r, g, b, _ := decodePixel(fmt, fb, off)
		f(x, y, r, g, b)
		x++
		if x >= w {
			x = 0
			y++
		}
	}
}

// copyFramebufferRGB888 writes 3 bytes (R, G, B) per source pixel into dst.
func copyFramebufferRGB888(fmt PixelFormat, fb []byte, dst []byte) {
	bpp := fmt.BytesPerPixel()
	n := len(fb) / bpp
	for i := 0; i < n; i++ {
		r, g, b, _ := decodePixel(fmt, fb, i*bpp)
		d := dst[i*3 : i*3+3]
		d[0], d[1], d[2] = r, g, b
	}
}

// copyFramebufferRGBA8888 writes 4 bytes (R, G, B, A) per source pixel into dst.
func copyFramebufferRGBA8888(fmt PixelFormat, fb []byte, dst []byte) {
	bpp := fmt.BytesPerPixel()
	n := len(fb) / bpp
	for i := 0; i < n; i++ {
		r, g, b, a := decodePixel(fmt, fb, i*bpp)
		d := dst[i*4 : i*4+4]
		d[0], d[1], d[2] = r, g, b
		d[3] = a * 0xFF
	}
}

// copyFramebufferRGB332 writes one packed RGB332 byte per source pixel into dst.
func copyFramebufferRGB332(fmt PixelFormat, fb []byte, dst []byte) {
	bpp := fmt.BytesPerPixel()
	n := len(fb) / bpp
	for i := 0; i < n; i++ {
		r, g, b, _ := decodePixel(fmt, fb, i*bpp)
		dst[i] = rgb888to332(r, g, b)
	}
}

// copyFramebufferARGB32 writes one packed 0xAARRGGBB word per source pixel into dst.
func copyFramebufferARGB32(fmt PixelFormat, fb []byte, dst []uint32) {
	bpp := fmt.BytesPerPixel()
	n := len(fb) / bpp
	for i := 0; i < n; i++ {
		r, g, b, a := decodePixel(fmt, fb, i*bpp)
		dst[i] = uint32(a)*0xFF00_0000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	}
}

// copyFramebufferRGBA32 writes one packed 0xRRGGBBAA word per source pixel into dst.
func copyFramebufferRGBA32(fmt PixelFormat, fb []byte, dst []uint32) {
	bpp := fmt.BytesPerPixel()
	n := len(fb) / bpp
	for i := 0; i < n; i++ {
		r, g, b, a := decodePixel(fmt, fb, i*bpp)
		dst[i] = uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)*0xFF
	}
}

// copyFramebufferRGBAF32x4 writes 4 normalized float32 channels (R, G, B, A)
// per source pixel into dst.
func copyFramebufferRGBAF32x4(fmt PixelFormat, fb []byte, dst []float32) {
	bpp := fmt.BytesPerPixel()
	n := len(fb) / bpp
	for i := 0; i < n; i++ {
		r, g, b, a := decodePixel(fmt, fb, i*bpp)
		d := dst[i*4 : i*4+4]
		d[0] = float32(r) / 255
		d[1] = float32(g) / 255
		d[2] = float32(b) / 255
		d[3] = float32(a)
	}
}
