package imageio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

// Raw sample layouts and payload encodings recorded in the sidecar.
const (
	FormatCMYK8 = "CMYK8"

	CompressionNone = "none"
	CompressionZstd = "zstd"
)

// RawMeta is the JSON sidecar written next to a raw CMYK file.
type RawMeta struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      string `json:"format"`
	Compression string `json:"compression,omitempty"`
}

// SidecarPath returns the sidecar location for a raw file: the same name
// with a .json extension.
func SidecarPath(rawPath string) string {
	return strings.TrimSuffix(rawPath, filepath.Ext(rawPath)) + ".json"
}

func newZstdEncoder() (*zstd.Encoder, error) {
	return zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
}

func newZstdDecoder() (*zstd.Decoder, error) {
	return zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
}

// WriteRaw writes the interleaved CMYK samples to path and the sidecar next
// to it, compressing the samples with zstd when compress is set. It returns
// the sidecar path.
func WriteRaw(path string, cmyk *ir.PixelBuffer, compress bool) (string, error) {
	if err := cmyk.RequireChannels(ir.CMYK); err != nil {
		return "", err
	}
	meta := RawMeta{Width: cmyk.Width, Height: cmyk.Height, Format: FormatCMYK8, Compression: CompressionNone}
	payload := cmyk.Data
	if compress {
		enc, err := newZstdEncoder()
		if err != nil {
			return "", fmt.Errorf("zstd encoder: %w", err)
		}
		payload = enc.EncodeAll(cmyk.Data, make([]byte, 0, len(cmyk.Data)/4))
		enc.Close()
		meta.Compression = CompressionZstd
	}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return "", fmt.Errorf("writing raw CMYK: %w", err)
	}

	metaJSON, _ := json.MarshalIndent(meta, "", "  ")
	metaPath := SidecarPath(path)
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return "", fmt.Errorf("writing sidecar: %w", err)
	}
	return metaPath, nil
}

// ReadRaw loads a raw CMYK file described by its sidecar.
func ReadRaw(path string) (*ir.PixelBuffer, error) {
	metaJSON, err := os.ReadFile(SidecarPath(path))
	if err != nil {
		return nil, fmt.Errorf("reading sidecar: %w", err)
	}
	var meta RawMeta
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return nil, fmt.Errorf("parsing sidecar: %w", err)
	}
	if meta.Format != FormatCMYK8 {
		return nil, fmt.Errorf("unsupported raw format %q", meta.Format)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading raw CMYK: %w", err)
	}
	switch meta.Compression {
	case "", CompressionNone:
	case CompressionZstd:
		dec, err := newZstdDecoder()
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		defer dec.Close()
		if payload, err = dec.DecodeAll(payload, nil); err != nil {
			return nil, fmt.Errorf("zstd decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported compression %q", meta.Compression)
	}
	return ir.Wrap(payload, meta.Width, meta.Height, ir.CMYK)
}
