package retro

import "unsafe"

// MemoryRegion is a friendlier view over one libretro memory descriptor
// registered by the core through SET_MEMORY_MAPS.
type MemoryRegion struct {
	which      int
	Flags      uint64
	Len        int
	Start      int
	Offset     int
	Select     int
	Disconnect int
	Name       string
}

// MemoryRegions returns the memory map the core most recently registered,
// empty if the core never called SET_MEMORY_MAPS.
func (e *Emulator) MemoryRegions() []MemoryRegion {
	regions := make([]MemoryRegion, len(ctx.memoryMap))
	for i, d := range ctx.memoryMap {
		regions[i] = MemoryRegion{
			which:      i,
			Flags:      d.flags,
			Len:        d.len,
			Start:      d.start,
			Offset:     d.offset,
			Select:     d.selectMask,
			Disconnect: d.disconnect,
			Name:       d.addrspace,
		}
	}
	return regions
}

// MemoryRef returns a read-only view into the region of host memory that
// maps the flat address start, scanning the registered descriptors in
// order and returning the first match — the same rule a libretro frontend
// applies when translating RetroAchievements-style flat addresses.
func (e *Emulator) MemoryRef(start int) ([]byte, error) {
	for _, mr := range e.MemoryRegions() {
		if mr.Select != 0 && start&mr.Select == 0 {
			continue
		}
		if start >= mr.Start && start < mr.Start+mr.Len {
			return e.MemoryRefMut(mr, start)
		}
	}
	return nil, newError(RAMCopyNotMappedIntoRegion)
}

// MemoryRefMut returns a mutable view into region mr at flat address start.
// mr must have been obtained from a call to MemoryRegions on this Emulator
// no older than the most recent SET_MEMORY_MAPS the core issued. An mr
// whose index is past the end of the current map reports RAMMapOutOfRange;
// a stale mr whose index still falls inside the current map is not detected.
func (e *Emulator) MemoryRefMut(mr MemoryRegion, start int) ([]byte, error) {
	if mr.which >= len(ctx.memoryMap) {
		return nil, newError(RAMMapOutOfRange)
	}
	if start < mr.Start {
		return nil, newError(RAMCopySrcOutOfBounds)
	}
	local := (start - mr.Start) &^ mr.Disconnect
	d := ctx.memoryMap[mr.which]
	if local >= d.len {
		return nil, newError(RAMCopyCrossedRegion)
	}
	base := d.ptr + uintptr(local) + uintptr(d.offset)
	return unsafe.Slice((*byte)(unsafe.Pointer(base)), d.len-local), nil
}
