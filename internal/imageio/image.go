// Package imageio moves pixel buffers in and out of files: common raster
// formats on the way in, PNG and raw CMYK with a JSON sidecar on the way out.
package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

// Decode reads any registered format (PNG, JPEG, TIFF, BMP, WebP) and
// returns an RGB buffer with the format name.
func Decode(r io.Reader) (*ir.PixelBuffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decoding: %w", err)
	}
	buf, err := FromImage(img)
	if err != nil {
		return nil, "", err
	}
	return buf, format, nil
}

// ReadFile decodes the image at path.
func ReadFile(path string) (*ir.PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	defer f.Close()
	buf, _, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// FromImage converts img to an RGB buffer. Transparent pixels are
// composited over white paper.
func FromImage(img image.Image) (*ir.PixelBuffer, error) {
	b := img.Bounds()
	buf, err := ir.New(b.Dx(), b.Dy(), ir.RGB)
	if err != nil {
		return nil, err
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			paper := 0xffff - a
			buf.Data[i] = byte((r + paper) >> 8)
			buf.Data[i+1] = byte((g + paper) >> 8)
			buf.Data[i+2] = byte((bl + paper) >> 8)
			i += 3
		}
	}
	return buf, nil
}

// ToImage wraps buf in the matching image type: gray planes as *image.Gray,
// RGB as *image.NRGBA and CMYK as *image.CMYK.
func ToImage(buf *ir.PixelBuffer) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, buf.Width, buf.Height)
	switch buf.Channels {
	case ir.Gray:
		img := image.NewGray(rect)
		copy(img.Pix, buf.Data)
		return img, nil
	case ir.RGB:
		img := image.NewNRGBA(rect)
		for i := 0; i < buf.Pixels(); i++ {
			copy(img.Pix[i*4:i*4+3], buf.Data[i*3:i*3+3])
			img.Pix[i*4+3] = 0xff
		}
		return img, nil
	case ir.CMYK:
		img := image.NewCMYK(rect)
		copy(img.Pix, buf.Data)
		return img, nil
	}
	return nil, fmt.Errorf("%w: no image type for %d channels", ir.ErrInvalidDimensions, buf.Channels)
}

// EncodePNG writes a gray or RGB buffer as PNG.
func EncodePNG(w io.Writer, buf *ir.PixelBuffer) error {
	if buf != nil && buf.Channels == ir.CMYK {
		return fmt.Errorf("%w: PNG cannot hold CMYK, export planes or a preview", ir.ErrInvalidDimensions)
	}
	img, err := ToImage(buf)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// WritePNG encodes buf to path.
func WritePNG(path string, buf *ir.PixelBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := EncodePNG(w, buf); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing output: %w", err)
	}
	return f.Close()
}
