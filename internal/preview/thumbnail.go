package preview

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

const halfBlock = "▀"

// RenderThumbnail scales img to fit cols x rows terminal cells. Each cell
// carries two vertical pixels: the top one as foreground of an upper half
// block and the bottom one as its background.
func RenderThumbnail(img image.Image, cols, rows int) string {
	src := img.Bounds()
	if src.Empty() || cols <= 0 || rows <= 0 {
		return ""
	}

	w, h := fitBox(src.Dx(), src.Dy(), cols, rows*2)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)

	var b strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := dst.RGBAAt(x, y)
			bottom := color.RGBA{}
			if y+1 < h {
				bottom = dst.RGBAAt(x, y+1)
			}

			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(top))).
				Background(lipgloss.Color(hex(bottom))).
				Render(halfBlock))
		}
		if y+2 < h {
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// fitBox scales w x h down (or up) to fit inside maxW x maxH keeping aspect.
func fitBox(w, h, maxW, maxH int) (int, int) {
	if w*maxH > h*maxW {
		nh := h * maxW / w
		return maxW, max(nh, 1)
	}
	nw := w * maxH / h
	return max(nw, 1), maxH
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
