//go:build !linux

package retro

import "github.com/ebitengine/purego"

// platformDlopenMode omits RTLD_NODELETE outside Linux: purego does not
// expose the flag for darwin/windows dlopen. Cores that rely on static
// destructors surviving a close/reopen cycle may crash there, the same risk
// the original implementation documents for non-Linux targets. RTLD_GLOBAL
// is not requested here either, for the same reason as the Linux variant:
// a core's symbols must not leak into libraries opened afterward.
const platformDlopenMode = purego.RTLD_NOW
