package ir

import "fmt"

// Channel layouts understood by the engine.
const (
	Gray = 1
	RGB  = 3
	CMYK = 4
)

// PixelBuffer is the intermediate representation passed between pipeline
// stages. Samples are stored as interleaved bytes (Channels bytes per pixel,
// row-major order). For CMYK buffers a sample of 255 means 100% ink.
type PixelBuffer struct {
	Width    int
	Height   int
	Channels int
	Data     []byte // len = Width * Height * Channels
}

// New allocates a zeroed buffer.
func New(width, height, channels int) (*PixelBuffer, error) {
	if err := checkShape(width, height, channels); err != nil {
		return nil, err
	}
	return &PixelBuffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Data:     make([]byte, width*height*channels),
	}, nil
}

// Wrap validates data against the given shape and returns a buffer that
// references it without copying.
func Wrap(data []byte, width, height, channels int) (*PixelBuffer, error) {
	b := &PixelBuffer{Width: width, Height: height, Channels: channels, Data: data}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate reports ErrInvalidDimensions when the buffer shape is unusable.
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidDimensions)
	}
	if err := checkShape(b.Width, b.Height, b.Channels); err != nil {
		return err
	}
	if want := b.Width * b.Height * b.Channels; len(b.Data) != want {
		return fmt.Errorf("%w: expected %d bytes for %dx%dx%d, got %d",
			ErrInvalidDimensions, want, b.Width, b.Height, b.Channels, len(b.Data))
	}
	return nil
}

// RequireChannels validates the buffer and checks its channel count.
func (b *PixelBuffer) RequireChannels(channels int) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if b.Channels != channels {
		return fmt.Errorf("%w: expected %d channels, got %d", ErrInvalidDimensions, channels, b.Channels)
	}
	return nil
}

// SameShape reports whether two buffers have identical dimensions and layout.
func (b *PixelBuffer) SameShape(o *PixelBuffer) bool {
	return b.Width == o.Width && b.Height == o.Height && b.Channels == o.Channels
}

// Pixels returns Width*Height.
func (b *PixelBuffer) Pixels() int {
	return b.Width * b.Height
}

// Offset returns the index of the first sample of pixel (x, y).
func (b *PixelBuffer) Offset(x, y int) int {
	return (y*b.Width + x) * b.Channels
}

// Clone returns a deep copy.
func (b *PixelBuffer) Clone() *PixelBuffer {
	data := make([]byte, len(b.Data))
	copy(data, b.Data)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Channels: b.Channels, Data: data}
}

// Like allocates a zeroed buffer with the same shape as b.
func (b *PixelBuffer) Like() *PixelBuffer {
	return &PixelBuffer{
		Width:    b.Width,
		Height:   b.Height,
		Channels: b.Channels,
		Data:     make([]byte, len(b.Data)),
	}
}

func checkShape(width, height, channels int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	switch channels {
	case Gray, RGB, CMYK:
		return nil
	default:
		return fmt.Errorf("%w: unsupported channel count %d", ErrInvalidDimensions, channels)
	}
}
