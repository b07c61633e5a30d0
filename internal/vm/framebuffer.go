package vm

// Display dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Framebuffer is the monochrome display, stored row-major.
type Framebuffer [Width * Height]bool

// Pixel returns whether the pixel is set. Coordinates wrap around the display.
func (f *Framebuffer) Pixel(x, y int) bool {
	return f[offset(x, y)]
}

// Lit returns the number of set pixels.
func (f *Framebuffer) Lit() int {
	var n int
	for _, p := range f {
		if p {
			n++
		}
	}
	return n
}

// flip toggles the pixel and returns true if it was set before.
func (f *Framebuffer) flip(x, y int) bool {
	i := offset(x, y)
	was := f[i]
	f[i] = !was
	return was
}

func offset(x, y int) int {
	x %= Width
	if x < 0 {
		x += Width
	}
	y %= Height
	if y < 0 {
		y += Height
	}
	return y*Width + x
}
