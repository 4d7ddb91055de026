// Package histogram builds joint colour histograms and compares them.
package histogram

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

const (
	// BinsPerChannel is the number of bins each of R, G and B is quantised into.
	BinsPerChannel = 8
	// Size is the length of a Descriptor.
	Size = BinsPerChannel * BinsPerChannel * BinsPerChannel

	// 256 / BinsPerChannel == 1<<binShift
	binShift = 5

	flatEpsilon = 2.220446049250313e-16
)

// Descriptor is an L2-normalised joint RGB histogram, flattened as
// r*64 + g*8 + b.
type Descriptor [Size]float32

// Compute returns the descriptor of img. Alpha is ignored.
func Compute(img image.Image) Descriptor {
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = imaging.Clone(img)
	}

	var counts [Size]uint32
	b := nrgba.Bounds()
	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			r := uint32(row[x]) >> binShift
			g := uint32(row[x+1]) >> binShift
			bl := uint32(row[x+2]) >> binShift
			counts[r*BinsPerChannel*BinsPerChannel+g*BinsPerChannel+bl]++
		}
	}

	var sumSq float64
	for _, c := range counts {
		sumSq += float64(c) * float64(c)
	}

	var d Descriptor
	if sumSq == 0 {
		return d
	}
	norm := math.Sqrt(sumSq)
	for i, c := range counts {
		d[i] = float32(float64(c) / norm)
	}
	return d
}

// Correlation returns the Pearson correlation of a and b, in [-1, 1].
// Two flat descriptors (zero variance) correlate as 1.
func Correlation(a, b *Descriptor) float64 {
	var sa, sb, sab, saa, sbb float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		sa += x
		sb += y
		sab += x * y
		saa += x * x
		sbb += y * y
	}

	const n = float64(Size)
	num := sab - sa*sb/n
	den := (saa - sa*sa/n) * (sbb - sb*sb/n)
	if math.Abs(den) <= flatEpsilon {
		return 1
	}
	return num / math.Sqrt(den)
}
