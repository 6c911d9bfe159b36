package retro

import (
	"sync"

	"github.com/ebitengine/purego"
)

// memoryDescriptor is the Go-native copy of one abi.MemoryDescriptor, taken
// at SET_MEMORY_MAPS time since the core retains no obligation to keep the
// array it handed the frontend alive afterward.
type memoryDescriptor struct {
	flags      uint64
	ptr        uintptr
	offset     int
	start      int
	selectMask int
	disconnect int
	len        int
	addrspace  string
}

// hwRenderState records the negotiated hardware-render callback, when the
// core asked for one via SET_HW_RENDER. Only the fields the gfx backend
// needs to drive bind/readback are kept.
type hwRenderState struct {
	contextType      uint32
	bottomLeftOrigin bool
	cacheContext     bool
	contextReset     uintptr
	contextDestroy   uintptr
}

// emulatorContext is the process-local analogue of the original
// implementation's thread-local CTX. See the package doc on Open for the
// OS-thread affinity this requires of callers.
type emulatorContext struct {
	audioSample []int16
	buttons     [2]Buttons

	corePath    uintptr // kept alive by corePathBuf
	corePathBuf []byte

	romPath    uintptr // kept alive by romPathBuf; the core may retain this pointer
	romPathBuf []byte

	// romData retains the ROM bytes handed to retro_load_game: some cores
	// map game data directly (e.g. CHR-ROM) rather than copying it, so the
	// backing array must outlive the call.
	romData []byte

	framePtr    uintptr
	framePitch  int
	frameWidth  uint32
	frameHeight uint32

	pixFmt PixelFormat

	memoryMap []memoryDescriptor

	avInfo SystemAVInfo

	hwRender *hwRenderState
	gfx      Gfx

	shutdownRequested bool

	// cheatStrings retains every C string handed to retro_cheat_set, since
	// libretro gives the frontend no contract for reclaiming them.
	cheatStrings [][]byte

	// variables is the hard-coded store GET_VARIABLE answers from. Callers
	// populate it through Emulator.SetVariables once Open has returned, so
	// queries the core makes during Open's retro_init and retro_load_game
	// find it empty; an unrecognized key falls through to "not handled."
	variables map[string]string
	// variableValueBufs retains the C strings handed back for GET_VARIABLE,
	// mirroring corePathBuf/romPathBuf: the core may hold the pointer past
	// the call that returned it.
	variableValueBufs [][]byte

	// logThunk is the C function pointer installed by GET_LOG_INTERFACE,
	// built once per context since purego.NewCallback allocates a fresh
	// trampoline on every call.
	logThunk uintptr
}

var (
	ctxMu    sync.Mutex
	ctx      *emulatorContext
	occupied bool
)

// acquireContext installs a fresh emulatorContext as the single process-wide
// slot, or panics if one is already installed — mirroring the original's
// "Can't use multiple emulators in one thread currently" assertion, tightened
// to one per process since purego callbacks are not routed by calling thread.
func acquireContext(corePath string) *emulatorContext {
	ctxMu.Lock()
	defer ctxMu.Unlock()
	if occupied {
		panic("retro: an Emulator is already open in this process")
	}
	pathPtr, pathBuf := newCString(corePath)
	c := &emulatorContext{
		corePath:    pathPtr,
		corePathBuf: pathBuf,
		gfx:         SoftwareGfx{},
		logThunk:    purego.NewCallback(logCallback),
	}
	ctx = c
	occupied = true
	return c
}

// releaseContext clears the single process-wide slot.
func releaseContext() {
	ctxMu.Lock()
	defer ctxMu.Unlock()
	ctx = nil
	occupied = false
}
