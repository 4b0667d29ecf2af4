package core

// ToneMapping compresses an unbounded linear colour into displayable range.
type ToneMapping interface {
	Map(c Color) Color
}

// LinearToneMapping scales by Exposure and clamps to [0,1].
type LinearToneMapping struct {
	Exposure float32
}

func (tm LinearToneMapping) Map(c Color) Color {
	out := c.Mul(tm.Exposure)
	for i := range out {
		if out[i] < 0 {
			out[i] = 0
		}
		if out[i] > 1 {
			out[i] = 1
		}
	}
	return out
}
