package retro

import (
	"fmt"
	"runtime"

	"github.com/ebitengine/purego"
)

// coreLibrary holds the libretro entrypoints resolved from a loaded shared
// object, bound as typed Go function variables via purego.RegisterLibFunc.
type coreLibrary struct {
	handle uintptr

	retroSetEnvironment          func(uintptr)
	retroSetVideoRefresh         func(uintptr)
	retroSetAudioSample          func(uintptr)
	retroSetAudioSampleBatch     func(uintptr)
	retroSetInputPoll            func(uintptr)
	retroSetInputState           func(uintptr)
	retroInit                    func()
	retroDeinit                  func()
	retroAPIVersion              func() uint32
	retroGetSystemInfo           func(uintptr)
	retroGetSystemAVInfo         func(uintptr)
	retroSetControllerPortDevice func(uint32, uint32)
	retroReset                   func()
	retroRun                     func()
	retroSerializeSize           func() uintptr
	retroSerialize               func(uintptr, uintptr) bool
	retroUnserialize             func(uintptr, uintptr) bool
	retroCheatReset              func()
	retroCheatSet                func(uint32, bool, uintptr)
	retroLoadGame                func(uintptr) bool
	retroUnloadGame              func()
	retroGetRegion               func() uint32
	retroGetMemoryData           func(uint32) uintptr
	retroGetMemorySize           func(uint32) uintptr
}

// libraryPath appends the platform-appropriate shared-library suffix to a
// core path with no extension, matching the original's with_extension call.
func libraryPath(corePath string) string {
	switch runtime.GOOS {
	case "windows":
		return corePath + ".dll"
	case "darwin":
		return corePath + ".dylib"
	default:
		return corePath + ".so"
	}
}

// openCoreLibrary opens the shared object at path and resolves every
// required libretro entrypoint. A missing symbol is a fatal error: a core
// that doesn't export the full retro_* surface cannot be driven by this
// frontend.
func openCoreLibrary(path string) (*coreLibrary, error) {
	handle, err := purego.Dlopen(path, platformDlopenMode)
	if err != nil {
		return nil, fmt.Errorf("retro: opening core library %q: %w", path, err)
	}
	lib := &coreLibrary{handle: handle}
	bindings := []struct {
		fptr any
		name string
	}{
		{&lib.retroSetEnvironment, "retro_set_environment"},
		{&lib.retroSetVideoRefresh, "retro_set_video_refresh"},
		{&lib.retroSetAudioSample, "retro_set_audio_sample"},
		{&lib.retroSetAudioSampleBatch, "retro_set_audio_sample_batch"},
		{&lib.retroSetInputPoll, "retro_set_input_poll"},
		{&lib.retroSetInputState, "retro_set_input_state"},
		{&lib.retroInit, "retro_init"},
		{&lib.retroDeinit, "retro_deinit"},
		{&lib.retroAPIVersion, "retro_api_version"},
		{&lib.retroGetSystemInfo, "retro_get_system_info"},
		{&lib.retroGetSystemAVInfo, "retro_get_system_av_info"},
		{&lib.retroSetControllerPortDevice, "retro_set_controller_port_device"},
		{&lib.retroReset, "retro_reset"},
		{&lib.retroRun, "retro_run"},
		{&lib.retroSerializeSize, "retro_serialize_size"},
		{&lib.retroSerialize, "retro_serialize"},
		{&lib.retroUnserialize, "retro_unserialize"},
		{&lib.retroCheatReset, "retro_cheat_reset"},
		{&lib.retroCheatSet, "retro_cheat_set"},
		{&lib.retroLoadGame, "retro_load_game"},
		{&lib.retroUnloadGame, "retro_unload_game"},
		{&lib.retroGetRegion, "retro_get_region"},
		{&lib.retroGetMemoryData, "retro_get_memory_data"},
		{&lib.retroGetMemorySize, "retro_get_memory_size"},
	}
	for _, b := range bindings {
		if _, err := purego.Dlsym(handle, b.name); err != nil {
			return nil, fmt.Errorf("retro: core %q missing required symbol %s: %w", path, b.name, err)
		}
		purego.RegisterLibFunc(b.fptr, handle, b.name)
	}
	return lib, nil
}
