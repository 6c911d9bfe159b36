// Package rsimage converts an Emulator's current framebuffer into a
// standard library image.Image, for callers that want to save a screenshot
// or hand a frame to anything in the image/* ecosystem.
package rsimage

import (
	"image"

	retro "github.com/go-retro/frontend"
)

// ImageBuffer renders the emulator's current framebuffer as an *image.RGBA.
// It fails with the same error CopyFramebufferRGBA8888 would if no frame has
// been rendered yet.
func ImageBuffer(e *retro.Emulator) (*image.RGBA, error) {
	w, h := e.FramebufferSize()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := e.CopyFramebufferRGBA8888(img.Pix); err != nil {
		return nil, err
	}
	return img, nil
}
