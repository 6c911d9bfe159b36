package retro

import (
	"fmt"
	"unsafe"

	"github.com/go-retro/frontend/abi"
)

// GameGeometry is the Go-native mirror of abi.GameGeometry.
type GameGeometry struct {
	BaseWidth   uint32
	BaseHeight  uint32
	MaxWidth    uint32
	MaxHeight   uint32
	AspectRatio float32
}

// SystemTiming is the Go-native mirror of abi.SystemTiming.
type SystemTiming struct {
	FPS        float64
	SampleRate float64
}

// SystemAVInfo is the Go-native mirror of abi.SystemAVInfo, the core's
// declared video/audio format.
type SystemAVInfo struct {
	Geometry GameGeometry
	Timing   SystemTiming
}

// Emulator is a loaded libretro core paired with the ROM it has running.
// An Emulator is not safe for use from more than one goroutine, and the
// goroutine that calls Open must stay pinned to its current OS thread
// (runtime.LockOSThread) for the Emulator's entire lifetime: the callbacks
// the core invokes are routed through process-local state, not state scoped
// to any one goroutine, and at most one Emulator may be open in the process
// at a time.
type Emulator struct {
	lib    *coreLibrary
	tramps *trampolines
	closed bool
}

// Open loads the shared library at corePath (the platform suffix is
// appended automatically) and starts rom running on it. gfx selects the
// graphics backend; pass SoftwareGfx{} for a core with no hardware-render
// ambitions, or a *glgfx.Backend to negotiate an OpenGL context.
//
// The caller must have called runtime.LockOSThread before calling Open, and
// must not call runtime.UnlockOSThread until after Close.
func Open(corePath, romPath string, rom []byte, gfx Gfx) (*Emulator, error) {
	path := libraryPath(corePath)
	lib, err := openCoreLibrary(path)
	if err != nil {
		return nil, err
	}

	c := acquireContext(corePath)
	if gfx != nil {
		c.gfx = gfx
	}

	tramps := newTrampolines()
	lib.retroSetEnvironment(tramps.environment)
	lib.retroSetVideoRefresh(tramps.videoRefresh)
	lib.retroSetAudioSample(tramps.audioSample)
	lib.retroSetAudioSampleBatch(tramps.audioSampleBatch)
	lib.retroSetInputPoll(tramps.inputPoll)
	lib.retroSetInputState(tramps.inputState)

	lib.retroInit()

	romPathPtr, romPathBuf := newCString(romPath)
	c.romPath, c.romPathBuf = romPathPtr, romPathBuf
	c.romData = rom
	info := abi.GameInfo{
		Path: romPathPtr,
		Size: uint64(len(rom)),
	}
	if len(rom) > 0 {
		info.Data = uintptr(unsafe.Pointer(&rom[0]))
	}
	if !lib.retroLoadGame(uintptr(unsafe.Pointer(&info))) {
		lib.retroDeinit()
		releaseContext()
		return nil, fmt.Errorf("retro: core %q rejected game %q", corePath, romPath)
	}

	var sysInfo abi.SystemInfo
	lib.retroGetSystemInfo(uintptr(unsafe.Pointer(&sysInfo)))

	var avInfo abi.SystemAVInfo
	lib.retroGetSystemAVInfo(uintptr(unsafe.Pointer(&avInfo)))
	c.avInfo = SystemAVInfo{
		Geometry: GameGeometry{
			BaseWidth:   avInfo.Geometry.BaseWidth,
			BaseHeight:  avInfo.Geometry.BaseHeight,
			MaxWidth:    avInfo.Geometry.MaxWidth,
			MaxHeight:   avInfo.Geometry.MaxHeight,
			AspectRatio: avInfo.Geometry.AspectRatio,
		},
		Timing: SystemTiming{
			FPS:        avInfo.Timing.FPS,
			SampleRate: avInfo.Timing.SampleRate,
		},
	}

	return &Emulator{lib: lib, tramps: tramps}, nil
}

// SetVariables installs the hard-coded GET_VARIABLE store a core's
// environment calls will read from. Keys not present here cause the core's
// GET_VARIABLE query to report unhandled, matching a core's defaulting
// behavior for variables it has no front-end-supplied override for.
func (e *Emulator) SetVariables(vars map[string]string) {
	ctx.variables = vars
}

// Close unloads the game and the core, and frees the process-wide context
// slot so a subsequent Open can succeed.
func (e *Emulator) Close() error {
	if e.closed {
		return nil
	}
	e.lib.retroUnloadGame()
	e.lib.retroDeinit()
	ctx.gfx.DestroyContext()
	releaseContext()
	e.closed = true
	return nil
}

// Run advances the core by exactly one frame with the given per-port button
// state. Audio accumulated during the previous frame is cleared first; the
// video/audio callbacks the core fires during retro_run populate the state
// the framebuffer accessors and PeekAudioSample observe afterward.
func (e *Emulator) Run(inputs [2]Buttons) {
	ctx.audioSample = ctx.audioSample[:0]
	ctx.buttons = inputs
	ctx.gfx.Bind()
	e.lib.retroRun()
	ctx.gfx.Unbind()
}

// RunWithButtonCallback is Run, but inputs are computed fresh for this
// frame by calling next with the frame's 0-based index — convenient for
// scripted scenarios ("hold Right for the next N frames").
func (e *Emulator) RunWithButtonCallback(frame int, next func(frame int) [2]Buttons) {
	e.Run(next(frame))
}

// Reset asks the core to reset to its power-on state. Accumulated audio and
// the recorded framebuffer pointer are cleared, as are both ports' buttons;
// the framebuffer is unavailable until the core calls video_refresh again
// during the next Run.
func (e *Emulator) Reset() {
	ctx.audioSample = ctx.audioSample[:0]
	ctx.buttons = [2]Buttons{}
	ctx.framePtr = 0
	e.lib.retroReset()
}

// Region reports the core's declared video region (NTSC/PAL, in libretro's
// numbering).
func (e *Emulator) Region() uint32 { return e.lib.retroGetRegion() }

// AspectRatio returns the core's declared display aspect ratio.
func (e *Emulator) AspectRatio() float32 { return ctx.avInfo.Geometry.AspectRatio }

// GetAudioSampleRate returns the core's declared audio sample rate in Hz.
func (e *Emulator) GetAudioSampleRate() float64 { return ctx.avInfo.Timing.SampleRate }

// GetVideoFPS returns the core's declared video frame rate.
func (e *Emulator) GetVideoFPS() float64 { return ctx.avInfo.Timing.FPS }

func (e *Emulator) ramSize(kind uint32) int {
	return int(e.lib.retroGetMemorySize(kind))
}

func (e *Emulator) ram(kind uint32) []byte {
	n := e.ramSize(kind)
	if n == 0 {
		return nil
	}
	ptr := e.lib.retroGetMemoryData(kind)
	if ptr == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n)
}

// VideoRAMRef returns the core's video RAM, or nil if it doesn't expose any.
func (e *Emulator) VideoRAMRef() []byte { return e.ram(abi.MemoryVideoRAM) }

// SystemRAMRef returns a read-only view of the core's system RAM.
func (e *Emulator) SystemRAMRef() []byte { return e.ram(abi.MemorySystemRAM) }

// SystemRAMMut returns a mutable view of the core's system RAM.
func (e *Emulator) SystemRAMMut() []byte { return e.ram(abi.MemorySystemRAM) }

// SaveRAM returns the core's battery-backed save RAM, or nil if it has none.
func (e *Emulator) SaveRAM() []byte { return e.ram(abi.MemorySaveRAM) }

// PixelFormat reports the pixel format the core has selected, via
// SET_PIXEL_FORMAT. Defaults to PixelFormat0RGB1555 until the core calls it.
func (e *Emulator) PixelFormat() PixelFormat { return ctx.pixFmt }

// FramebufferSize returns the width and height, in pixels, of the most
// recent video_refresh.
func (e *Emulator) FramebufferSize() (width, height int) {
	return int(ctx.frameWidth), int(ctx.frameHeight)
}

// FramebufferPitch returns the stride, in bytes, of the most recent
// video_refresh.
func (e *Emulator) FramebufferPitch() int { return ctx.framePitch }

// peekFramebuffer calls f with the current framebuffer's pixels, row after
// row with any pitch padding left out (width*height pixels in all), or
// returns NoFramebuffer if the core has not called video_refresh yet.
func (e *Emulator) peekFramebuffer(f func(fb []byte)) error {
	if ctx.framePtr == 0 {
		return newError(NoFramebuffer)
	}
	n := int(ctx.frameHeight) * ctx.framePitch
	fb := unsafe.Slice((*byte)(unsafe.Pointer(ctx.framePtr)), n)
	ctx.gfx.SyncFramebuffer(fb)
	if row := int(ctx.frameWidth) * ctx.pixFmt.BytesPerPixel(); row > 0 && row < ctx.framePitch {
		packed := make([]byte, 0, row*int(ctx.frameHeight))
		for y := 0; y < int(ctx.frameHeight); y++ {
			packed = append(packed, fb[y*ctx.framePitch:y*ctx.framePitch+row]...)
		}
		fb = packed
	}
	f(fb)
	return nil
}

// PeekAudioSample calls f with the interleaved stereo int16 samples
// accumulated during the most recent Run.
func (e *Emulator) PeekAudioSample(f func(samples []int16)) { f(ctx.audioSample) }

// Save writes the core's serialized state into buf, which must be at least
// SaveSize() bytes. It reports whether the core accepted the request.
func (e *Emulator) Save(buf []byte) bool {
	size := e.SaveSize()
	if len(buf) < size || size == 0 {
		return false
	}
	return e.lib.retroSerialize(uintptr(unsafe.Pointer(&buf[0])), uintptr(size))
}

// Load restores the core's state from buf, which must be at least
// SaveSize() bytes. It reports whether the core accepted the request.
func (e *Emulator) Load(buf []byte) bool {
	size := e.SaveSize()
	if len(buf) < size || size == 0 {
		return false
	}
	return e.lib.retroUnserialize(uintptr(unsafe.Pointer(&buf[0])), uintptr(size))
}

// SaveSize returns the number of bytes Save requires.
func (e *Emulator) SaveSize() int { return int(e.lib.retroSerializeSize()) }

// ClearCheats removes every cheat previously installed with SetCheat.
func (e *Emulator) ClearCheats() { e.lib.retroCheatReset() }

// SetCheat installs or updates the cheat at index with the given libretro
// cheat code syntax (core-specific). The core retains no contract for
// giving the string back, so — like the frontend this is ported from — the
// backing buffer is intentionally leaked for the Emulator's lifetime rather
// than freed while the core might still hold the pointer.
func (e *Emulator) SetCheat(index int, enabled bool, code string) {
	ptr, buf := newCString(code)
	ctx.cheatStrings = append(ctx.cheatStrings, buf)
	e.lib.retroCheatSet(uint32(index), enabled, ptr)
}

// GetPixel decodes and returns the RGB color of the pixel at (x, y) in the
// current framebuffer.
func (e *Emulator) GetPixel(x, y int) (r, g, b byte, err error) {
	w, _ := e.FramebufferSize()
	fmt := e.PixelFormat()
	err = e.peekFramebuffer(func(fb []byte) {
		off := (y*w + x) * fmt.BytesPerPixel()
		r, g, b, _ = decodePixel(fmt, fb, off)
	})
	return r, g, b, err
}

// ForEachPixel calls f with the (x, y, r, g, b) of every pixel in the
// current framebuffer, in row-major order.
func (e *Emulator) ForEachPixel(f func(x, y int, r, g, b byte)) error {
	w, _ := e.FramebufferSize()
	fmt := e.PixelFormat()
	return e.peekFramebuffer(func(fb []byte) {
		forEachPixel(fmt, fb, w, f)
	})
}

// CopyFramebufferRGB888 copies the current framebuffer into dst as 3
// bytes (R, G, B) per pixel. dst must be at least width*height*3 bytes.
func (e *Emulator) CopyFramebufferRGB888(dst []byte) error {
	fmt := e.PixelFormat()
	return e.peekFramebuffer(func(fb []byte) { copyFramebufferRGB888(fmt, fb, dst) })
}

// CopyFramebufferRGBA8888 copies the current framebuffer into dst as 4
// bytes (R, G, B, A) per pixel.
func (e *Emulator) CopyFramebufferRGBA8888(dst []byte) error {
	fmt := e.PixelFormat()
	return e.peekFramebuffer(func(fb []byte) { copyFramebufferRGBA8888(fmt, fb, dst) })
}

// CopyFramebufferRGB332 copies the current framebuffer into dst as one
// packed RGB332 byte per pixel.
func (e *Emulator) CopyFramebufferRGB332(dst []byte) error {
	fmt := e.PixelFormat()
	return e.peekFramebuffer(func(fb []byte) { copyFramebufferRGB332(fmt, fb, dst) })
}

// CopyFramebufferARGB32 copies the current framebuffer into dst as one
// packed 0xAARRGGBB word per pixel.
func (e *Emulator) CopyFramebufferARGB32(dst []uint32) error {
	fmt := e.PixelFormat()
	return e.peekFramebuffer(func(fb []byte) { copyFramebufferARGB32(fmt, fb, dst) })
}

// CopyFramebufferRGBA32 copies the current framebuffer into dst as one
// packed 0xRRGGBBAA word per pixel.
func (e *Emulator) CopyFramebufferRGBA32(dst []uint32) error {
	fmt := e.PixelFormat()
	return e.peekFramebuffer(func(fb []byte) { copyFramebufferRGBA32(fmt, fb, dst) })
}

// CopyFramebufferRGBAF32x4 copies the current framebuffer into dst as 4
// normalized float32 channels (R, G, B, A) per pixel.
func (e *Emulator) CopyFramebufferRGBAF32x4(dst []float32) error {
	fmt := e.PixelFormat()
	return e.peekFramebuffer(func(fb []byte) { copyFramebufferRGBAF32x4(fmt, fb, dst) })
}
