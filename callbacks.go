package retro

import (
	"log"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/go-retro/frontend/abi"
)

// trampolines are the six C function pointers purego.NewCallback hands to
// the core in place of the environment/video/audio/input callbacks a cgo
// build would register directly. Each wraps a package-level Go function
// using only purego-representable parameter types.
type trampolines struct {
	environment      uintptr
	videoRefresh     uintptr
	audioSample      uintptr
	audioSampleBatch uintptr
	inputPoll        uintptr
	inputState       uintptr
}

func newTrampolines() *trampolines {
	return &trampolines{
		environment:      purego.NewCallback(environmentCallback),
		videoRefresh:     purego.NewCallback(videoRefreshCallback),
		audioSample:      purego.NewCallback(audioSampleCallback),
		audioSampleBatch: purego.NewCallback(audioSampleBatchCallback),
		inputPoll:        purego.NewCallback(inputPollCallback),
		inputState:       purego.NewCallback(inputStateCallback),
	}
}

// environmentCallback is the only trampoline libretro allows to fail (via
// its bool return), so it's the only one that recovers from panics — a
// malformed or unsupported environment command becomes "not handled"
// instead of tearing down the process.
func environmentCallback(cmd uint32, data uintptr) (result bool) {
	defer func() {
		if recover() != nil {
			result = false
		}
	}()
	switch cmd {
	case abi.EnvSetControllerInfo:
		return true
	case abi.EnvSetPixelFormat:
		fmt := *(*uint32)(unsafe.Pointer(data))
		switch fmt {
		case abi.PixelFormat0RGB1555, abi.PixelFormatXRGB8888, abi.PixelFormatRGB565:
		default:
			return false
		}
		ctx.pixFmt = PixelFormat(fmt)
		return true
	case abi.EnvGetSystemDirectory, abi.EnvGetSaveDirectory:
		*(*uintptr)(unsafe.Pointer(data)) = ctx.corePath
		return true
	case abi.EnvGetCanDupe:
		*(*bool)(unsafe.Pointer(data)) = true
		return true
	case abi.EnvSetMemoryMaps:
		m := (*abi.MemoryMap)(unsafe.Pointer(data))
		if m.NumDescriptors == 0 {
			ctx.memoryMap = nil
			return true
		}
		descs := unsafe.Slice((*abi.MemoryDescriptor)(unsafe.Pointer(m.Descriptors)), m.NumDescriptors)
		// The core owns the array it gave us only for the duration of this
		// call, so copy every descriptor out now.
		mapped := make([]memoryDescriptor, len(descs))
		for i, d := range descs {
			mapped[i] = memoryDescriptor{
				flags:      d.Flags,
				ptr:        d.Ptr,
				offset:     int(d.Offset),
				start:      int(d.Start),
				selectMask: int(d.Select),
				disconnect: int(d.Disconnect),
				len:        int(d.Len),
				addrspace:  cStringAt(d.Addrspace),
			}
		}
		ctx.memoryMap = mapped
		return true
	case abi.EnvGetPreferredHWRender:
		*(*uint32)(unsafe.Pointer(data)) = ctx.gfx.PreferredAPI()
		return true
	case abi.EnvSetHWRender:
		cb := (*abi.HWRenderCallback)(unsafe.Pointer(data))
		if !ctx.gfx.PrepareHardwareContext(ctx.avInfo, cb) {
			return false
		}
		ctx.hwRender = &hwRenderState{
			contextType:      cb.ContextType,
			bottomLeftOrigin: cb.BottomLeftOrigin,
			cacheContext:     cb.CacheContext,
			contextReset:     cb.ContextReset,
			contextDestroy:   cb.ContextDestroy,
		}
		return true
	case abi.EnvGetVariable:
		v := (*abi.Variable)(unsafe.Pointer(data))
		val, ok := ctx.variables[cStringAt(v.Key)]
		if !ok {
			return false
		}
		valPtr, valBuf := newCString(val)
		ctx.variableValueBufs = append(ctx.variableValueBufs, valBuf)
		v.Value = valPtr
		return true
	case abi.EnvGetLogInterface:
		lc := (*abi.LogCallback)(unsafe.Pointer(data))
		lc.Log = ctx.logThunk
		return true
	case abi.EnvShutdown:
		ctx.shutdownRequested = true
		ctx.gfx.DestroyContext()
		return true
	default:
		return false
	}
}

// videoRefreshCallback can't panic: libretro gives it no way to signal
// failure.
func videoRefreshCallback(data uintptr, width, height uint32, pitch uintptr) {
	if data == 0 {
		return
	}
	ctx.framePtr = data
	ctx.framePitch = int(pitch)
	ctx.frameWidth = width
	ctx.frameHeight = height
	ctx.gfx.VideoRefresh(width, height, int(pitch))
}

// audioSampleCallback can't panic.
func audioSampleCallback(left, right int16) {
	ctx.audioSample = append(ctx.audioSample, left, right)
}

// audioSampleBatchCallback can't panic.
func audioSampleBatchCallback(data uintptr, frames uintptr) uintptr {
	if data == 0 || frames == 0 {
		return frames
	}
	samples := unsafe.Slice((*int16)(unsafe.Pointer(data)), int(frames)*2)
	ctx.audioSample = append(ctx.audioSample, samples...)
	return frames
}

// logCallback backs the function pointer installed by GET_LOG_INTERFACE. A
// real retro_log_printf_t is variadic; purego can't synthesize a callback
// with a C variadic signature, so this only formats the literal string the
// core passed, without expanding any trailing printf arguments.
func logCallback(level uint32, fmtPtr uintptr) {
	log.Printf("[core level=%d] %s", level, cStringAt(fmtPtr))
}

// inputPollCallback can't panic; this frontend has no peripheral to poll.
func inputPollCallback() {}

// inputStateCallback can't panic.
func inputStateCallback(port, device, index, id uint32) int16 {
	if port > 1 || device != abi.DeviceJoypad || index != 0 {
		return 0
	}
	if id == abi.DeviceIDJoypadMask {
		return ctx.buttons[port].Int16()
	}
	if id > 16 {
		return 0
	}
	if ctx.buttons[port].Get(id) {
		return 1
	}
	return 0
}
