package retro

import (
	"testing"
	"unsafe"
)

// newFakeCore builds an Emulator backed by a synthetic, purego-free stand-in
// for a loaded shared library. It drives the same package-level callback
// trampolines a real core would invoke through its C function pointers,
// without dlopen or any symbol binding (purego is used only for the
// NewCallback calls in acquireContext and newTrampolines) — the fake plays
// the part of the dynamically loaded library for every property that
// doesn't need a real NES core.
func newFakeCore(t *testing.T) (*Emulator, []byte) {
	t.Helper()
	acquireContext("fake-core")
	t.Cleanup(releaseContext)

	frame := make([]byte, 4*2*1) // one XRGB8888 row of 2 pixels
	frame[0], frame[1], frame[2], frame[3] = 0, 0x10, 0x20, 0x30
	frame[4], frame[5], frame[6], frame[7] = 0, 0x40, 0x50, 0x60

	serialized := make([]byte, 0)

	lib := &coreLibrary{
		retroSetEnvironment:          func(uintptr) {},
		retroSetVideoRefresh:         func(uintptr) {},
		retroSetAudioSample:          func(uintptr) {},
		retroSetAudioSampleBatch:     func(uintptr) {},
		retroSetInputPoll:            func(uintptr) {},
		retroSetInputState:           func(uintptr) {},
		retroInit:                    func() {},
		retroDeinit:                  func() {},
		retroAPIVersion:              func() uint32 { return 1 },
		retroGetSystemInfo:           func(uintptr) {},
		retroGetSystemAVInfo:         func(uintptr) {},
		retroSetControllerPortDevice: func(uint32, uint32) {},
		retroReset:                   func() {},
		retroRun: func() {
			videoRefreshCallback(uintptr(unsafe.Pointer(&frame[0])), 2, 1, 8)
			audioSampleCallback(100, -100)
		},
		retroSerializeSize: func() uintptr { return 4 },
		retroSerialize: func(ptr uintptr, size uintptr) bool {
			dst := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), int(size))
			copy(dst, []byte{1, 2, 3, 4})
			serialized = append([]byte(nil), dst...)
			return true
		},
		retroUnserialize: func(ptr uintptr, size uintptr) bool {
			src := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), int(size))
			return len(src) == len(serialized)
		},
		retroCheatReset:     func() {},
		retroCheatSet:       func(uint32, bool, uintptr) {},
		retroLoadGame:       func(uintptr) bool { return true },
		retroUnloadGame:     func() {},
		retroGetRegion:      func() uint32 { return 0 },
		retroGetMemoryData:  func(uint32) uintptr { return 0 },
		retroGetMemorySize:  func(uint32) uintptr { return 0 },
	}

	ctx.pixFmt = PixelFormatXRGB8888
	e := &Emulator{lib: lib, tramps: newTrampolines()}
	return e, frame
}

func TestRunRecordsFramebufferAndAudio(t *testing.T) {
	e, _ := newFakeCore(t)
	e.Run([2]Buttons{})

	w, h := e.FramebufferSize()
	if w != 2 || h != 1 {
		t.Fatalf("framebuffer size = (%d,%d), want (2,1)", w, h)
	}
	var sampleCount int
	e.PeekAudioSample(func(s []int16) { sampleCount = len(s) })
	if sampleCount != 2 {
		t.Fatalf("audio sample count = %d, want 2 (one stereo frame)", sampleCount)
	}
}

func TestRunClearsAudioEachFrame(t *testing.T) {
	e, _ := newFakeCore(t)
	e.Run([2]Buttons{})
	e.Run([2]Buttons{})
	var sampleCount int
	e.PeekAudioSample(func(s []int16) { sampleCount = len(s) })
	if sampleCount != 2 {
		t.Fatalf("audio did not reset between frames: got %d samples, want 2", sampleCount)
	}
}

func TestGetPixelAfterRun(t *testing.T) {
	e, _ := newFakeCore(t)
	e.Run([2]Buttons{})
	r, g, b, err := e.GetPixel(1, 0)
	if err != nil {
		t.Fatalf("GetPixel: %v", err)
	}
	if r != 0x40 || g != 0x50 || b != 0x60 {
		t.Fatalf("got (%#x,%#x,%#x), want (0x40,0x50,0x60)", r, g, b)
	}
}

func TestPeekFramebufferBeforeRunIsNoFramebuffer(t *testing.T) {
	e, _ := newFakeCore(t)
	_, _, _, err := e.GetPixel(0, 0)
	var retroErr *Error
	if err == nil {
		t.Fatal("expected NoFramebuffer error before first Run")
	}
	if !asError(err, &retroErr) || retroErr.Kind != NoFramebuffer {
		t.Fatalf("got %v, want NoFramebuffer", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	e, _ := newFakeCore(t)
	buf := make([]byte, e.SaveSize())
	if !e.Save(buf) {
		t.Fatal("Save reported failure")
	}
	if !e.Load(buf) {
		t.Fatal("Load reported failure for a buffer Save just produced")
	}
}

func TestSaveRejectsUndersizedBuffer(t *testing.T) {
	e, _ := newFakeCore(t)
	if e.Save(make([]byte, 1)) {
		t.Fatal("Save should reject a buffer shorter than SaveSize()")
	}
}

func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
