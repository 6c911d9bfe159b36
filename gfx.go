package retro

import "github.com/go-retro/frontend/abi"

// Gfx is the graphics backend an Emulator delegates hardware-rendering
// negotiation to. SoftwareGfx satisfies it for cores that render directly
// into the framebuffer libretro hands the frontend; package glgfx provides
// an OpenGL-backed implementation for cores that request a HW context.
type Gfx interface {
	// PreferredAPI reports the abi.HWContext* value this backend can drive,
	// or abi.HWContextNone if it cannot accelerate anything.
	PreferredAPI() uint32

	// PrepareHardwareContext is called when a core issues SET_HW_RENDER. It
	// may populate cb.GetCurrentFramebuffer/GetProcAddress with callback
	// pointers the core can call, and reports whether it accepted the
	// requested context type.
	PrepareHardwareContext(av SystemAVInfo, cb *abi.HWRenderCallback) bool

	// VideoRefresh is called on every video_refresh, even when data is the
	// HW-render sentinel, so the backend can track the negotiated geometry.
	VideoRefresh(width, height uint32, pitch int)

	// DestroyContext releases any backend resources. Called when the core
	// issues the SHUTDOWN environment command, and when the Emulator closes.
	DestroyContext()

	// Bind/Unbind wrap the retro_run call that may issue hardware draw
	// calls, so the backend can make its context current and release it.
	Bind()
	Unbind()

	// SyncFramebuffer is given the host framebuffer (height*pitch bytes)
	// before peekFramebuffer hands it to a reader; a hardware backend
	// overwrites it with a glReadPixels readback, a software one leaves it as is.
	SyncFramebuffer(fb []byte)
}

// SoftwareGfx is a no-op Gfx for cores that never request a hardware
// context. It refuses every hardware negotiation, which keeps a core on its
// pure-software rendering path.
type SoftwareGfx struct{}

func (SoftwareGfx) PreferredAPI() uint32 { return abi.HWContextNone }

func (SoftwareGfx) PrepareHardwareContext(SystemAVInfo, *abi.HWRenderCallback) bool {
	return false
}

func (SoftwareGfx) VideoRefresh(uint32, uint32, int) {}
func (SoftwareGfx) DestroyContext()                  {}
func (SoftwareGfx) Bind()                             {}
func (SoftwareGfx) Unbind()                           {}
func (SoftwareGfx) SyncFramebuffer([]byte)            {}
