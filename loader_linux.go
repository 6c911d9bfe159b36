//go:build linux

package retro

import "github.com/ebitengine/purego"

// platformDlopenMode adds RTLD_NODELETE (0x1000 in glibc's dlfcn.h) to the
// flags purego exposes. Closing a core's shared object and reopening it in
// the same process segfaults some cores that register static destructors;
// NODELETE keeps the mapping resident even after the handle is released.
// RTLD_GLOBAL is deliberately not OR'd in here: a core's symbols must stay
// local to its own handle, not leak into subsequently dlopen'd libraries.
const platformDlopenMode = purego.RTLD_NOW | 0x1000
