package grid

import (
	"image"
	"image/color"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// K-means palette extraction runs in CIE Lab space so perceptually close
// colors cluster together.

const (
	maxPaletteSamples = 10000
	maxKMeansIters    = 20
)

// labColor pairs a Lab point with its RGB rendering so nearest-color
// lookups do not round-trip through colorful on every cell.
type labColor struct {
	lab [3]float64
	rgb color.RGBA
}

func toLab(c color.NRGBA) [3]float64 {
	cc := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	l, a, b := cc.Lab()
	return [3]float64{l, a, b}
}

func labToRGBA(p [3]float64) color.RGBA {
	r, g, b := colorful.Lab(p[0], p[1], p[2]).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func labDistSq(a, b [3]float64) float64 {
	dl := a[0] - b[0]
	da := a[1] - b[1]
	db := a[2] - b[2]
	return dl*dl + da*da + db*db
}

// extractPalette clusters the image's pixels into at most k colors. Large
// images are subsampled to keep clustering bounded.
func extractPalette(img *image.NRGBA, k int, seed int64) []labColor {
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	rng := rand.New(rand.NewSource(seed))

	samples := make([][3]float64, 0, min(total, maxPaletteSamples))
	if total <= maxPaletteSamples {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				samples = append(samples, toLab(img.NRGBAAt(x, y)))
			}
		}
	} else {
		for i := 0; i < maxPaletteSamples; i++ {
			x := b.Min.X + rng.Intn(b.Dx())
			y := b.Min.Y + rng.Intn(b.Dy())
			samples = append(samples, toLab(img.NRGBAAt(x, y)))
		}
	}
	if k > len(samples) {
		k = len(samples)
	}

	centers := make([][3]float64, k)
	for i, j := range rng.Perm(len(samples))[:k] {
		centers[i] = samples[j]
	}

	assign := make([]int, len(samples))
	for iter := 0; iter < maxKMeansIters; iter++ {
		moved := false
		for i, s := range samples {
			best, bestD := 0, labDistSq(s, centers[0])
			for c := 1; c < k; c++ {
				if d := labDistSq(s, centers[c]); d < bestD {
					best, bestD = c, d
				}
			}
			if assign[i] != best {
				assign[i] = best
				moved = true
			}
		}
		if !moved && iter > 0 {
			break
		}

		sums := make([][3]float64, k)
		counts := make([]int, k)
		for i, s := range samples {
			c := assign[i]
			sums[c][0] += s[0]
			sums[c][1] += s[1]
			sums[c][2] += s[2]
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue // empty cluster keeps its previous center
			}
			n := float64(counts[c])
			centers[c] = [3]float64{sums[c][0] / n, sums[c][1] / n, sums[c][2] / n}
		}
	}

	palette := make([]labColor, k)
	for c := 0; c < k; c++ {
		palette[c] = labColor{lab: centers[c], rgb: labToRGBA(centers[c])}
	}
	return palette
}

// nearestColor returns the palette color closest to p in Lab space.
func nearestColor(palette []labColor, p [3]float64) color.RGBA {
	best := palette[0]
	bestD := labDistSq(p, best.lab)
	for _, c := range palette[1:] {
		if d := labDistSq(p, c.lab); d < bestD {
			best, bestD = c, d
		}
	}
	return best.rgb
}
