package color

import "math"

// RGBToHSV converts normalized RGB ([0,1] per channel) to hue in degrees
// [0,360) and saturation/value in [0,1]. Achromatic colors have hue 0.
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	v = hi
	d := hi - lo
	if hi > 0 {
		s = d / hi
	}
	if d == 0 {
		return 0, s, v
	}
	switch hi {
	case r:
		h = 60 * math.Mod((g-b)/d, 6)
	case g:
		h = 60 * ((b-r)/d + 2)
	default:
		h = 60 * ((r-g)/d + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// HSVToRGB is the inverse of RGBToHSV. Results are normalized to [0,1].
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	s = Clamp(s, 0, 1)
	v = Clamp(v, 0, 1)
	c := v * s
	hp := math.Mod(h, 360)
	if hp < 0 {
		hp += 360
	}
	hp /= 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := v - c
	return r + m, g + m, b + m
}

// AdjustSaturation rewrites every RGB pixel of src into dst, scaling its HSV
// saturation by factor(h, s). dst and src may alias.
func AdjustSaturation(dst, src []byte, factor func(h, s float64) float64) {
	for i := 0; i+2 < len(src); i += 3 {
		h, s, v := RGBToHSV(float64(src[i])/255, float64(src[i+1])/255, float64(src[i+2])/255)
		f := factor(h, s)
		if f == 1 || s == 0 {
			dst[i], dst[i+1], dst[i+2] = src[i], src[i+1], src[i+2]
			continue
		}
		r, g, b := HSVToRGB(h, Clamp(s*f, 0, 1), v)
		dst[i] = ClampByte(r * 255)
		dst[i+1] = ClampByte(g * 255)
		dst[i+2] = ClampByte(b * 255)
	}
}
