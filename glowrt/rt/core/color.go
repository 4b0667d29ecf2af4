package core

// Color is a linear RGB triple. Components are not clamped; values above 1
// are left for tone mapping.
type Color [3]float32

// HexColor converts a 0xRRGGBB literal into a linear Color in [0,1].
func HexColor(hex uint32) Color {
	return Color{
		float32((hex>>16)&0xff) / 255.0,
		float32((hex>>8)&0xff) / 255.0,
		float32(hex&0xff) / 255.0,
	}
}

func (c Color) Add(o Color) Color {
	return Color{c[0] + o[0], c[1] + o[1], c[2] + o[2]}
}

func (c Color) Mul(s float32) Color {
	return Color{c[0] * s, c[1] * s, c[2] * s}
}

func (c Color) MulColor(o Color) Color {
	return Color{c[0] * o[0], c[1] * o[1], c[2] * o[2]}
}

// Max returns the largest component.
func (c Color) Max() float32 {
	m := c[0]
	if c[1] > m {
		m = c[1]
	}
	if c[2] > m {
		m = c[2]
	}
	return m
}

// RGBA8 returns the colour as 8-bit channels, clamped to [0,1] first.
func (c Color) RGBA8() [4]uint8 {
	var out [4]uint8
	for i := 0; i < 3; i++ {
		v := c[i]
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		out[i] = uint8(v*255.0 + 0.5)
	}
	out[3] = 255
	return out
}
