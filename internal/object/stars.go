package object

import "github.com/tomz197/bugstroids/internal/draw"

const starCount = 100

// DrawStars renders the backdrop. Star positions come from a fixed formula,
// so the field is identical every frame without being stored.
func DrawStars(surf draw.Surface, b Bounds) {
	w, h := int(b.Width), int(b.Height)
	if w <= 0 || h <= 0 {
		return
	}
	for i := 0; i < starCount; i++ {
		x := (i * 37) % w
		y := (i * 73) % h
		surf.FillRect(float64(x), float64(y), 1, 1, ColorStar)
	}
}
