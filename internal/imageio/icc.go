package imageio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

const (
	maxProfileSize = 4 * 1024 * 1024
	acspMagic      = 0x61637370 // 'acsp'
	pngSignature   = "\x89PNG\r\n\x1a\n"
)

// Profile is the header metadata of an embedded ICC profile. The engine
// treats every input as sRGB; the profile is only reported.
type Profile struct {
	Size       uint32
	Version    string
	ColorSpace string // "RGB ", "CMYK", ...
	PCS        string
	Class      string
	Intent     string
}

// iccHeader is the fixed 128-byte ICC header, big endian.
type iccHeader struct {
	Size       uint32
	CMM        [4]byte
	Version    [4]byte
	Class      [4]byte
	ColorSpace [4]byte
	PCS        [4]byte
	Created    [12]byte
	Magic      uint32
	Platform   [4]byte
	Flags      uint32
	Maker      [4]byte
	Model      [4]byte
	Attributes uint64
	Intent     uint32
	Illuminant [12]byte
	Creator    [4]byte
	ID         [16]byte
	Reserved   [28]byte
}

var intentNames = [...]string{"perceptual", "relative colorimetric", "saturation", "absolute colorimetric"}

// ParseProfile reads ICC header metadata from raw profile bytes.
func ParseProfile(data []byte) (*Profile, error) {
	var h iccHeader
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("ICC header: %w", err)
	}
	switch {
	case h.Magic != acspMagic:
		return nil, fmt.Errorf("invalid ICC signature: 0x%08x", h.Magic)
	case h.Size > maxProfileSize:
		return nil, fmt.Errorf("ICC profile too large (%d bytes)", h.Size)
	case int(h.Size) > len(data):
		return nil, fmt.Errorf("ICC profile truncated: header says %d bytes, have %d", h.Size, len(data))
	}
	p := &Profile{
		Size:       h.Size,
		Version:    fmt.Sprintf("%d.%d.%d", h.Version[0], h.Version[1]>>4, h.Version[1]&0x0f),
		ColorSpace: string(h.ColorSpace[:]),
		PCS:        string(h.PCS[:]),
		Class:      string(h.Class[:]),
		Intent:     fmt.Sprintf("intent %d", h.Intent),
	}
	if int(h.Intent) < len(intentNames) {
		p.Intent = intentNames[h.Intent]
	}
	return p, nil
}

// IsRGB reports whether the profile describes an RGB device space.
func (p *Profile) IsRGB() bool { return p.ColorSpace == "RGB " }

func (p *Profile) String() string {
	return fmt.Sprintf("ICC %s, %s %s profile, %s, %d bytes",
		p.Version, spaceName(p.ColorSpace), className(p.Class), p.Intent, p.Size)
}

func spaceName(sig string) string {
	switch sig {
	case "RGB ":
		return "RGB"
	case "CMYK":
		return "CMYK"
	case "GRAY":
		return "grayscale"
	case "Lab ":
		return "CIELAB"
	}
	return sig
}

func className(sig string) string {
	switch sig {
	case "mntr":
		return "display"
	case "prtr":
		return "output"
	case "scnr":
		return "input"
	case "spac":
		return "color space"
	}
	return sig
}

// EmbeddedProfile returns the ICC profile embedded in a JPEG (APP2 chunks)
// or PNG (iCCP) file, or nil when there is none or the format carries none.
func EmbeddedProfile(file []byte) ([]byte, error) {
	switch {
	case len(file) >= 2 && file[0] == 0xff && file[1] == 0xd8:
		return jpegProfile(file)
	case bytes.HasPrefix(file, []byte(pngSignature)):
		return pngProfile(file)
	}
	return nil, nil
}

// jpegProfile walks the marker segments before the first scan, slotting
// each ICC_PROFILE APP2 payload by its sequence number.
func jpegProfile(file []byte) ([]byte, error) {
	var parts iccParts
	pos := 2
	for pos+4 <= len(file) {
		if file[pos] != 0xff {
			return nil, fmt.Errorf("JPEG marker expected at offset %d", pos)
		}
		marker := file[pos+1]
		switch {
		case marker == 0xff:
			pos++
			continue
		case marker == 0xda || marker == 0xd9:
			return parts.join()
		case (marker >= 0xd0 && marker <= 0xd7) || marker == 0x01:
			pos += 2
			continue
		}
		n := int(binary.BigEndian.Uint16(file[pos+2 : pos+4]))
		if n < 2 || pos+2+n > len(file) {
			return nil, fmt.Errorf("truncated JPEG segment at offset %d", pos)
		}
		if marker == 0xe2 {
			if err := parts.add(file[pos+4 : pos+2+n]); err != nil {
				return nil, err
			}
		}
		pos += 2 + n
	}
	return parts.join()
}

// iccParts holds ICC chunks by 1-based sequence number. Each APP2 payload
// is "ICC_PROFILE\0", the sequence number, the chunk count and the data.
type iccParts [][]byte

func (p *iccParts) add(payload []byte) error {
	const tag = "ICC_PROFILE\x00"
	if len(payload) < len(tag)+2 || string(payload[:len(tag)]) != tag {
		return nil
	}
	seq, count := int(payload[len(tag)]), int(payload[len(tag)+1])
	switch {
	case seq == 0 || seq > count:
		return fmt.Errorf("invalid ICC chunk sequence %d/%d", seq, count)
	case *p == nil:
		*p = make(iccParts, count)
	case len(*p) != count:
		return fmt.Errorf("inconsistent ICC chunk count: %d vs %d", count, len(*p))
	case (*p)[seq-1] != nil:
		return fmt.Errorf("duplicate ICC chunk %d", seq)
	}
	(*p)[seq-1] = payload[len(tag)+2:]
	return nil
}

func (p iccParts) join() ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	var profile []byte
	for i, part := range p {
		if part == nil {
			return nil, fmt.Errorf("ICC chunk %d of %d missing", i+1, len(p))
		}
		profile = append(profile, part...)
	}
	return profile, nil
}

// pngProfile inflates the iCCP chunk: a profile name, a NUL, a compression
// method byte (always 0, zlib) and the compressed profile.
func pngProfile(file []byte) ([]byte, error) {
	pos := len(pngSignature)
	for pos+8 <= len(file) {
		n := int(binary.BigEndian.Uint32(file[pos : pos+4]))
		typ := string(file[pos+4 : pos+8])
		if n < 0 || pos+12+n > len(file) {
			return nil, fmt.Errorf("truncated PNG chunk %q", typ)
		}
		body := file[pos+8 : pos+8+n]
		switch typ {
		case "iCCP":
			name := bytes.IndexByte(body, 0)
			if name < 0 || name+2 > len(body) || body[name+1] != 0 {
				return nil, errors.New("malformed iCCP chunk")
			}
			zr, err := zlib.NewReader(bytes.NewReader(body[name+2:]))
			if err != nil {
				return nil, fmt.Errorf("iCCP: %w", err)
			}
			defer zr.Close()
			profile, err := io.ReadAll(io.LimitReader(zr, maxProfileSize+1))
			if err != nil {
				return nil, fmt.Errorf("iCCP: %w", err)
			}
			return profile, nil
		case "IDAT", "IEND":
			return nil, nil
		}
		pos += 12 + n
	}
	return nil, nil
}
