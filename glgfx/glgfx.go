// Package glgfx is an OpenGL hardware-render backend for cores that issue
// SET_HW_RENDER. It opens an off-screen GLX context via purego bindings to
// libGL/libX11 (no cgo), vends a framebuffer object the core renders into,
// and reads it back with glReadPixels for the same CopyFramebuffer* paths a
// software-rendered core goes through.
package glgfx

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	retro "github.com/go-retro/frontend"
	"github.com/go-retro/frontend/abi"
)

var (
	libsOnce sync.Once
	libsErr  error

	x11lib uintptr
	gllib  uintptr

	xOpenDisplay    func(*byte) uintptr
	xDefaultScreen  func(uintptr) int32
	xRootWindow     func(uintptr, int32) uintptr
	xCreateColormap func(uintptr, uintptr, uintptr, int32) uintptr
	xCreateWindow   func(uintptr, uintptr, int32, int32, uint32, uint32, uint32, int32, uint32, uintptr, uint64, unsafe.Pointer) uintptr
	xCloseDisplay   func(uintptr) int32

	glxChooseVisual             func(uintptr, int32, *int32) *xVisualInfo
	glxChooseFBConfig           func(uintptr, int32, *int32, *int32) uintptr
	glxGetVisualFromFBConfig    func(uintptr, uintptr) *xVisualInfo
	glxCreateContext            func(uintptr, *xVisualInfo, uintptr, int32) uintptr
	glxCreateContextAttribsARB  func(uintptr, uintptr, uintptr, int32, *int32) uintptr
	glxMakeCurrent              func(uintptr, uintptr, uintptr) int32
	glxDestroyContext           func(uintptr, uintptr)
	glXGetProcAddressARB        func(*byte) uintptr

	glBindFramebuffer func(uint32, uint32)
	glGenFramebuffers func(int32, *uint32)
	glGenTextures     func(int32, *uint32)
	glBindTexture     func(uint32, uint32)
	glTexImage2D      func(uint32, int32, int32, int32, int32, int32, uint32, uint32, unsafe.Pointer)
	glTexParameteri   func(uint32, uint32, int32)
	glFramebufferTexture2D func(uint32, uint32, uint32, uint32, int32)
	glViewport        func(int32, int32, int32, int32)
	glReadPixels      func(int32, int32, int32, int32, uint32, uint32, unsafe.Pointer)
	glPixelStorei     func(uint32, int32)
	glGetError        func() uint32
)

// GLX/GL constants needed for off-screen context + FBO setup. Named the way
// the headers spell them so they're greppable against libGL docs.
const (
	glxRGBA         = 4
	glxDepthSize    = 12
	glxStencilSize  = 13
	glxDoubleBuffer = 5
	glxNone         = 0

	glxXRenderable  = 0x8012
	glxDrawableType = 0x8010
	glxWindowBit    = 0x00000001
	glxRenderType   = 0x8011
	glxRGBABit      = 0x00000001
	glxRedSize      = 8
	glxGreenSize    = 9
	glxBlueSize     = 10
	glxAlphaSize    = 11

	glxContextMajorVersionARB = 0x2091
	glxContextMinorVersionARB = 0x2092

	inputOutput = 1
	cwColormap  = 1 << 13

	glFramebuffer       = 0x8D40
	glColorAttachment0  = 0x8CE0
	glTexture2D         = 0x0DE1
	glTextureMinFilter  = 0x2801
	glTextureMagFilter  = 0x2800
	glLinear            = 0x2601
	glRGBA              = 0x1908
	glUnsignedByte      = 0x1401
	glPackAlignment     = 0x0D05
)

type xVisualInfo struct {
	Visual       uintptr
	VisualID     uint
	Screen       int32
	Depth        int32
	Class        int32
	RedMask      uint64
	GreenMask    uint64
	BlueMask     uint64
	ColormapSize int32
	BitsPerRGB   int32
	MapEntries   int32
	_            int32
}

type xSetWindowAttributes struct {
	BackgroundPixmap uintptr
	BackgroundPixel  uint64
	BorderPixmap     uint64
	BorderPixel      uint64
	BitGravity       int32
	WinGravity       int32
	BackingStore     int32
	BackingPlanes    uint64
	BackingPixel     uint64
	SaveUnder        int32
	EventMask        int64
	DoNotPropagate   int64
	OverrideRedirect int32
	Colormap         uintptr
	Cursor           uintptr
}

func ensureLibs() error {
	libsOnce.Do(func() {
		var err error
		x11lib, err = purego.Dlopen("libX11.so.6", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			libsErr = fmt.Errorf("glgfx: opening libX11: %w", err)
			return
		}
		gllib, err = purego.Dlopen("libGL.so.1", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			libsErr = fmt.Errorf("glgfx: opening libGL: %w", err)
			return
		}

		purego.RegisterLibFunc(&xOpenDisplay, x11lib, "XOpenDisplay")
		purego.RegisterLibFunc(&xDefaultScreen, x11lib, "XDefaultScreen")
		purego.RegisterLibFunc(&xRootWindow, x11lib, "XRootWindow")
		purego.RegisterLibFunc(&xCreateColormap, x11lib, "XCreateColormap")
		purego.RegisterLibFunc(&xCreateWindow, x11lib, "XCreateWindow")
		purego.RegisterLibFunc(&xCloseDisplay, x11lib, "XCloseDisplay")

		purego.RegisterLibFunc(&glxChooseVisual, gllib, "glXChooseVisual")
		purego.RegisterLibFunc(&glxCreateContext, gllib, "glXCreateContext")
		purego.RegisterLibFunc(&glxMakeCurrent, gllib, "glXMakeCurrent")
		purego.RegisterLibFunc(&glxDestroyContext, gllib, "glXDestroyContext")

		if _, err := purego.Dlsym(gllib, "glXChooseFBConfig"); err == nil {
			purego.RegisterLibFunc(&glxChooseFBConfig, gllib, "glXChooseFBConfig")
		}
		if _, err := purego.Dlsym(gllib, "glXGetVisualFromFBConfig"); err == nil {
			purego.RegisterLibFunc(&glxGetVisualFromFBConfig, gllib, "glXGetVisualFromFBConfig")
		}
		if _, err := purego.Dlsym(gllib, "glXCreateContextAttribsARB"); err == nil {
			purego.RegisterLibFunc(&glxCreateContextAttribsARB, gllib, "glXCreateContextAttribsARB")
		}
		if _, err := purego.Dlsym(gllib, "glXGetProcAddressARB"); err == nil {
			purego.RegisterLibFunc(&glXGetProcAddressARB, gllib, "glXGetProcAddressARB")
		}

		purego.RegisterLibFunc(&glBindFramebuffer, gllib, "glBindFramebuffer")
		purego.RegisterLibFunc(&glGenFramebuffers, gllib, "glGenFramebuffers")
		purego.RegisterLibFunc(&glGenTextures, gllib, "glGenTextures")
		purego.RegisterLibFunc(&glBindTexture, gllib, "glBindTexture")
		purego.RegisterLibFunc(&glTexImage2D, gllib, "glTexImage2D")
		purego.RegisterLibFunc(&glTexParameteri, gllib, "glTexParameteri")
		purego.RegisterLibFunc(&glFramebufferTexture2D, gllib, "glFramebufferTexture2D")
		purego.RegisterLibFunc(&glViewport, gllib, "glViewport")
		purego.RegisterLibFunc(&glReadPixels, gllib, "glReadPixels")
		purego.RegisterLibFunc(&glPixelStorei, gllib, "glPixelStorei")
		purego.RegisterLibFunc(&glGetError, gllib, "glGetError")
	})
	return libsErr
}

// state mirrors the Rust backend's GlGfxData: a lazily created off-screen GL
// context plus the FBO+texture pair a core renders into. Guarded by mu the
// same way the original guards its static Mutex<Option<GlGfxData>>.
type state struct {
	display uintptr
	window  uintptr
	glxCtx  uintptr

	w, h int32
	fbo  uint32
	tex  uint32
}

func (s *state) getFBO() uint32 {
	if s == nil {
		return 0
	}
	return s.fbo
}

func (s *state) createSurface() {
	if s.w == 0 || s.h == 0 {
		return
	}
	glGenFramebuffers(1, &s.fbo)
	glGenTextures(1, &s.tex)
	glBindTexture(glTexture2D, s.tex)
	glTexImage2D(glTexture2D, 0, int32(glRGBA), s.w, s.h, 0, glRGBA, glUnsignedByte, nil)
	glTexParameteri(glTexture2D, glTextureMinFilter, glLinear)
	glTexParameteri(glTexture2D, glTextureMagFilter, glLinear)
	glBindFramebuffer(glFramebuffer, s.fbo)
	glFramebufferTexture2D(glFramebuffer, glColorAttachment0, glTexture2D, s.tex, 0)
}

func (s *state) destroySurface() {
	if s.fbo == 0 {
		return
	}
	s.fbo = 0
	s.tex = 0
}

func (s *state) setDimensions(w, h int32) {
	if w == s.w && h == s.h && s.fbo != 0 {
		return
	}
	s.destroySurface()
	s.w, s.h = w, h
	s.createSurface()
}

func (s *state) bind() {
	glxMakeCurrent(s.display, s.window, s.glxCtx)
	glBindFramebuffer(glFramebuffer, s.fbo)
	glViewport(0, 0, s.w, s.h)
}

func (s *state) syncFramebuffer(fb []byte) {
	s.bind()
	glBindFramebuffer(glFramebuffer, s.fbo)
	glPixelStorei(glPackAlignment, 4)
	glReadPixels(0, 0, s.w, s.h, glRGBA, glUnsignedByte, unsafe.Pointer(&fb[0]))
	for i := 0; i+3 < len(fb); i += 4 {
		fb[i], fb[i+1], fb[i+2], fb[i+3] = fb[i+3], fb[i], fb[i+1], fb[i+2]
	}
}

func (s *state) destroy() {
	s.destroySurface()
	if s.glxCtx != 0 {
		glxDestroyContext(s.display, s.glxCtx)
	}
	if s.display != 0 {
		xCloseDisplay(s.display)
	}
}

func createState(w, h int32, versionMajor, versionMinor uint32) (*state, error) {
	if err := ensureLibs(); err != nil {
		return nil, err
	}
	display := xOpenDisplay(nil)
	if display == 0 {
		return nil, fmt.Errorf("glgfx: XOpenDisplay failed, no X server reachable")
	}
	screen := xDefaultScreen(display)
	root := xRootWindow(display, screen)

	var visual *xVisualInfo
	var fbConfig uintptr
	var glxCtx uintptr

	if glxChooseFBConfig != nil && glxGetVisualFromFBConfig != nil {
		fbAttribs := []int32{
			glxXRenderable, 1,
			glxDrawableType, glxWindowBit,
			glxRenderType, glxRGBABit,
			glxRedSize, 8,
			glxGreenSize, 8,
			glxBlueSize, 8,
			glxAlphaSize, 8,
			glxDepthSize, 24,
			glxNone,
		}
		var numConfigs int32
		fbConfigs := glxChooseFBConfig(display, screen, &fbAttribs[0], &numConfigs)
		if fbConfigs != 0 && numConfigs > 0 {
			fbConfig = *(*uintptr)(unsafe.Pointer(fbConfigs))
			visual = glxGetVisualFromFBConfig(display, fbConfig)
			if visual != nil && glxCreateContextAttribsARB != nil {
				ctxAttribs := []int32{
					glxContextMajorVersionARB, int32(versionMajor),
					glxContextMinorVersionARB, int32(versionMinor),
					glxNone,
				}
				glxCtx = glxCreateContextAttribsARB(display, fbConfig, 0, 1, &ctxAttribs[0])
			}
		}
	}

	if glxCtx == 0 {
		attrs := []int32{glxRGBA, glxDoubleBuffer, glxDepthSize, 24, glxStencilSize, 8, glxNone}
		visual = glxChooseVisual(display, screen, &attrs[0])
		if visual == nil {
			xCloseDisplay(display)
			return nil, fmt.Errorf("glgfx: glXChooseVisual found no matching visual")
		}
		glxCtx = glxCreateContext(display, visual, 0, 1)
		if glxCtx == 0 {
			xCloseDisplay(display)
			return nil, fmt.Errorf("glgfx: glXCreateContext failed")
		}
	}

	cmap := xCreateColormap(display, root, visual.Visual, 0)
	var swa xSetWindowAttributes
	swa.Colormap = cmap
	ww, hh := w, h
	if ww <= 0 {
		ww = 1
	}
	if hh <= 0 {
		hh = 1
	}
	win := xCreateWindow(display, root, 0, 0, uint32(ww), uint32(hh), 0, visual.Depth,
		inputOutput, visual.Visual, cwColormap, unsafe.Pointer(&swa))
	if win == 0 {
		glxDestroyContext(display, glxCtx)
		xCloseDisplay(display)
		return nil, fmt.Errorf("glgfx: XCreateWindow failed")
	}

	if glxMakeCurrent(display, win, glxCtx) == 0 {
		glxDestroyContext(display, glxCtx)
		xCloseDisplay(display)
		return nil, fmt.Errorf("glgfx: glXMakeCurrent failed")
	}

	s := &state{display: display, window: win, glxCtx: glxCtx, w: w, h: h}
	s.createSurface()
	return s, nil
}

var (
	mu  sync.Mutex
	cur *state
)

func getProcAddressR(proc string) uintptr {
	mu.Lock()
	defer mu.Unlock()
	if cur == nil || glXGetProcAddressARB == nil {
		return 0
	}
	nameBuf := append([]byte(proc), 0)
	return glXGetProcAddressARB(&nameBuf[0])
}

func getProcAddress(proc uintptr) uintptr {
	name := cStringAt(proc)
	return getProcAddressR(name)
}

func getCurrentFramebuffer() uintptr {
	mu.Lock()
	defer mu.Unlock()
	return uintptr(cur.getFBO())
}

func cStringAt(addr uintptr) string {
	if addr == 0 {
		return ""
	}
	var n int
	for {
		b := *(*byte)(unsafe.Pointer(addr + uintptr(n)))
		if b == 0 {
			break
		}
		n++
	}
	return unsafe.String((*byte)(unsafe.Pointer(addr)), n)
}

// Backend is a retro.Gfx implementation backed by a GLX off-screen context.
// It satisfies cores that issue SET_HW_RENDER with RETRO_HW_CONTEXT_OPENGL;
// Vulkan and Direct3D requests are refused the way the software backend
// refuses everything.
type Backend struct {
	contextReset   uintptr
	contextDestroy uintptr
}

func (b *Backend) PreferredAPI() uint32 { return abi.HWContextOpenGL }

func (b *Backend) PrepareHardwareContext(av retro.SystemAVInfo, cb *abi.HWRenderCallback) bool {
	if cb.ContextType == abi.HWContextVulkan || cb.ContextType >= abi.HWContextDirect3D9 {
		return false
	}
	cb.VersionMajor = 4
	cb.VersionMinor = 6

	w, h := int32(av.Geometry.MaxWidth), int32(av.Geometry.MaxHeight)
	s, err := createState(w, h, cb.VersionMajor, cb.VersionMinor)
	if err != nil {
		return false
	}

	mu.Lock()
	if cur != nil {
		cur.destroy()
	}
	cur = s
	mu.Unlock()

	cb.BottomLeftOrigin = false
	cb.CacheContext = true
	cb.GetProcAddress = purego.NewCallback(getProcAddress)
	cb.GetCurrentFramebuffer = purego.NewCallback(getCurrentFramebuffer)
	b.contextReset = cb.ContextReset
	b.contextDestroy = cb.ContextDestroy
	return true
}

func (b *Backend) VideoRefresh(width, height uint32, _ int) {
	w, h := int32(width), int32(height)
	mu.Lock()
	if cur == nil {
		mu.Unlock()
		return
	}
	changed := cur.w != w || cur.h != h
	if changed {
		cur.setDimensions(w, h)
	}
	mu.Unlock()

	if changed && b.contextReset != 0 {
		purego.SyscallN(b.contextReset)
	}
}

func (b *Backend) DestroyContext() {
	mu.Lock()
	defer mu.Unlock()
	if cur == nil {
		return
	}
	if b.contextDestroy != 0 {
		purego.SyscallN(b.contextDestroy)
	}
	cur.destroy()
	cur = nil
}

func (b *Backend) Bind() {
	mu.Lock()
	defer mu.Unlock()
	if cur != nil {
		cur.bind()
	}
}

func (b *Backend) Unbind() {}

func (b *Backend) SyncFramebuffer(fb []byte) {
	mu.Lock()
	defer mu.Unlock()
	if cur != nil && len(fb) > 0 {
		cur.syncFramebuffer(fb)
	}
}
