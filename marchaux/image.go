package marchaux

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"golang.org/x/image/draw"

	"github.com/ggcrunchy/LittleGreenMen/vgrid"
)

// RenderPNGSlice renders the z-slice of g as a PNG. The image width is
// sized from picHeight to preserve the grid's aspect ratio. Missing
// values render through the conversion as the grid's missing value. If a
// nil color conversion is passed then one is chosen automatically.
func RenderPNGSlice(w io.Writer, g *vgrid.Grid, z, picHeight int, colorConversion func(float64) color.Color) error {
	nx, ny, nz := g.Dims()
	if z < 0 || z >= nz {
		return errors.New("marchaux: slice index out of range")
	}
	if picHeight <= 0 {
		return errors.New("marchaux: non-positive image height")
	}
	if colorConversion == nil {
		diag := math.Sqrt(float32(nx*nx + ny*ny))
		colorConversion = ColorConversionInigoQuilez(diag / 3)
	}
	src := image.NewRGBA(image.Rect(0, 0, nx, ny))
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			v, _ := g.At(x, y, z)
			// Flip y so +y points up in the image.
			src.Set(x, ny-1-y, colorConversion(v))
		}
	}
	pixPerCell := float64(picHeight) / float64(ny)
	picWidth := int(pixPerCell * float64(nx))
	if picWidth < 1 {
		picWidth = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, picWidth, picHeight))
	draw.NearestNeighbor.Scale(img, img.Bounds(), src, src.Bounds(), draw.Src, nil)
	return png.Encode(w, img)
}

var red = color.RGBA{R: 255, A: 255}

// ColorConversionInigoQuilez creates a new color conversion using [Inigo Quilez]'s style.
// A good value for characteristic distance is the slice diagonal divided by 3. Returns red for NaN values.
//
// [Inigo Quilez]: https://iquilezles.org/articles/distfunctions2d/
func ColorConversionInigoQuilez(characteristicDistance float32) func(float64) color.Color {
	inv := 1. / characteristicDistance
	return func(d64 float64) color.Color {
		d := float32(d64)
		if math.IsNaN(d) {
			return red
		}
		d *= inv
		var one = ms3.Vec{X: 1, Y: 1, Z: 1}
		var c ms3.Vec
		if d > 0 {
			c = ms3.Vec{X: 0.9, Y: 0.6, Z: 0.3}
		} else {
			c = ms3.Vec{X: 0.65, Y: 0.85, Z: 1.0}
		}
		c = ms3.Scale(1-math.Exp(-6*math.Abs(d)), c)
		c = ms3.Scale(0.8+0.2*math.Cos(150*d), c)
		hi := 1 - smoothStep(0, 0.01, math.Abs(d))
		c = ms3.Add(c, ms3.Scale(hi, ms3.Sub(one, c)))
		return color.RGBA{
			R: uint8(c.X * 255),
			G: uint8(c.Y * 255),
			B: uint8(c.Z * 255),
			A: 255,
		}
	}
}

// ColorConversionLinearGradient creates a grayscale gradient centered
// along d=0 that extends gradientLength.
func ColorConversionLinearGradient(gradientLength float32) func(d float64) color.Color {
	return func(d64 float64) color.Color {
		blend := float32(d64)/gradientLength + 0.5
		if blend <= 0 {
			return color.Black
		} else if blend >= 1 {
			return color.White
		}
		return color.Gray{Y: uint8(blend * 255)}
	}
}

func smoothStep(edge0, edge1, x float32) float32 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}
