package prepress

import (
	"github.com/Desmondshah/Comic-restor-sub000/internal/color"
	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

// PlaneNames lists the ink planes in the order returned by Planes.
var PlaneNames = [4]string{"cyan", "magenta", "yellow", "black"}

// Preview approximates the printed appearance of a CMYK buffer on screen:
// R = 255(1-C)(1-K), G = 255(1-M)(1-K), B = 255(1-Y)(1-K).
//
// This is a screen preview, not an inverse of Convert, and no ICC profile is
// involved. Colors with no gray component (one of R, G, B at 255) round trip
// to within a level when dot gain is off. Anything with a gray component
// previews darker, because K carries that component while C, M and Y keep
// 1-gcr of it: mid-gray at 80% GCR comes back near 23. Dot gain, TAC
// limiting and the rich black recipe add further drift.
func Preview(cmyk *ir.PixelBuffer) (*ir.PixelBuffer, error) {
	if err := cmyk.RequireChannels(ir.CMYK); err != nil {
		return nil, err
	}
	dst := &ir.PixelBuffer{
		Width:    cmyk.Width,
		Height:   cmyk.Height,
		Channels: ir.RGB,
		Data:     make([]byte, cmyk.Pixels()*3),
	}
	for i := 0; i < cmyk.Pixels(); i++ {
		c := float64(cmyk.Data[i*4]) / 255
		m := float64(cmyk.Data[i*4+1]) / 255
		y := float64(cmyk.Data[i*4+2]) / 255
		k := float64(cmyk.Data[i*4+3]) / 255
		dst.Data[i*3] = color.ClampByte(255 * (1 - c) * (1 - k))
		dst.Data[i*3+1] = color.ClampByte(255 * (1 - m) * (1 - k))
		dst.Data[i*3+2] = color.ClampByte(255 * (1 - y) * (1 - k))
	}
	return dst, nil
}

// Planes splits a CMYK buffer into four single-channel buffers (C, M, Y, K)
// for prepress inspection. Plane samples are ink coverage, 255 = 100%.
func Planes(cmyk *ir.PixelBuffer) ([4]*ir.PixelBuffer, error) {
	var planes [4]*ir.PixelBuffer
	if err := cmyk.RequireChannels(ir.CMYK); err != nil {
		return planes, err
	}
	n := cmyk.Pixels()
	for p := range planes {
		planes[p] = &ir.PixelBuffer{Width: cmyk.Width, Height: cmyk.Height, Channels: ir.Gray, Data: make([]byte, n)}
	}
	for i := 0; i < n; i++ {
		for p := range planes {
			planes[p].Data[i] = cmyk.Data[i*4+p]
		}
	}
	return planes, nil
}
