package retro

import "github.com/go-retro/frontend/abi"

// Buttons is a 16-bit joypad state, one bit per libretro RETRO_DEVICE_ID_JOYPAD_*
// constant. The zero value has every button released.
type Buttons int16

// Get reports whether the button at id is held. id must be in [0, 16).
func (b Buttons) Get(id uint32) bool {
	if id >= 16 {
		panic("retro: button id out of range")
	}
	return b&(1<<id) != 0
}

// Set returns a copy of b with the button at id forced to held (true) or
// released (false). id must be in [0, 16).
func (b Buttons) Set(id uint32, held bool) Buttons {
	if id >= 16 {
		panic("retro: button id out of range")
	}
	if held {
		return b | (1 << id)
	}
	return b &^ (1 << id)
}

func (b Buttons) Up(held bool) Buttons     { return b.Set(abi.DeviceIDJoypadUp, held) }
func (b Buttons) Down(held bool) Buttons   { return b.Set(abi.DeviceIDJoypadDown, held) }
func (b Buttons) Left(held bool) Buttons   { return b.Set(abi.DeviceIDJoypadLeft, held) }
func (b Buttons) Right(held bool) Buttons  { return b.Set(abi.DeviceIDJoypadRight, held) }
func (b Buttons) Select(held bool) Buttons { return b.Set(abi.DeviceIDJoypadSelect, held) }
func (b Buttons) Start(held bool) Buttons  { return b.Set(abi.DeviceIDJoypadStart, held) }
func (b Buttons) A(held bool) Buttons      { return b.Set(abi.DeviceIDJoypadA, held) }
func (b Buttons) B(held bool) Buttons      { return b.Set(abi.DeviceIDJoypadB, held) }
func (b Buttons) X(held bool) Buttons      { return b.Set(abi.DeviceIDJoypadX, held) }
func (b Buttons) Y(held bool) Buttons      { return b.Set(abi.DeviceIDJoypadY, held) }
func (b Buttons) L1(held bool) Buttons     { return b.Set(abi.DeviceIDJoypadL, held) }
func (b Buttons) R1(held bool) Buttons     { return b.Set(abi.DeviceIDJoypadR, held) }
func (b Buttons) L2(held bool) Buttons     { return b.Set(abi.DeviceIDJoypadL2, held) }
func (b Buttons) R2(held bool) Buttons     { return b.Set(abi.DeviceIDJoypadR2, held) }
func (b Buttons) L3(held bool) Buttons     { return b.Set(abi.DeviceIDJoypadL3, held) }
func (b Buttons) R3(held bool) Buttons     { return b.Set(abi.DeviceIDJoypadR3, held) }

func (b Buttons) GetUp() bool     { return b.Get(abi.DeviceIDJoypadUp) }
func (b Buttons) GetDown() bool   { return b.Get(abi.DeviceIDJoypadDown) }
func (b Buttons) GetLeft() bool   { return b.Get(abi.DeviceIDJoypadLeft) }
func (b Buttons) GetRight() bool  { return b.Get(abi.DeviceIDJoypadRight) }
func (b Buttons) GetSelect() bool { return b.Get(abi.DeviceIDJoypadSelect) }
func (b Buttons) GetStart() bool  { return b.Get(abi.DeviceIDJoypadStart) }
func (b Buttons) GetA() bool      { return b.Get(abi.DeviceIDJoypadA) }
func (b Buttons) GetB() bool      { return b.Get(abi.DeviceIDJoypadB) }
func (b Buttons) GetX() bool      { return b.Get(abi.DeviceIDJoypadX) }
func (b Buttons) GetY() bool      { return b.Get(abi.DeviceIDJoypadY) }
func (b Buttons) GetL1() bool     { return b.Get(abi.DeviceIDJoypadL) }
func (b Buttons) GetR1() bool     { return b.Get(abi.DeviceIDJoypadR) }
func (b Buttons) GetL2() bool     { return b.Get(abi.DeviceIDJoypadL2) }
func (b Buttons) GetR2() bool     { return b.Get(abi.DeviceIDJoypadR2) }
func (b Buttons) GetL3() bool     { return b.Get(abi.DeviceIDJoypadL3) }
func (b Buttons) GetR3() bool     { return b.Get(abi.DeviceIDJoypadR3) }

// Int16 returns the raw bitmask, in the form libretro's bitmask-query
// convention (RETRO_DEVICE_ID_JOYPAD_MASK) returns it from input_state.
func (b Buttons) Int16() int16 { return int16(b) }
