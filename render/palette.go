package render

import (
	"image/color"

	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotutil"
)

const paletteName = "Set1"

// Colors returns n distinct colors. Series keep the same color in every panel
// of a figure as long as they keep their position in the label list.
func Colors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	out := make([]color.Color, n)
	p, err := brewer.GetPalette(brewer.TypeQualitative, paletteName, max(n, 3))
	if err != nil {
		// More series than the qualitative palette holds.
		for i := range out {
			out[i] = plotutil.Color(i)
		}
		return out
	}
	copy(out, p.Colors())
	return out
}

// NRGBA converts the palette to the color model used by the viewer.
func NRGBA(n int) []color.NRGBA {
	colors := Colors(n)
	out := make([]color.NRGBA, len(colors))
	for i, c := range colors {
		out[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
	}
	return out
}
