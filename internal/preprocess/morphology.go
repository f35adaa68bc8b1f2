package preprocess

import "image"

// Binary morphology on thresholded pages. Ink is 0, paper is 255; the
// operations are defined over ink so that Open removes small ink specks and a
// strongly anisotropic kernel (e.g. 40x1) keeps only long strokes.

const inkOn = 0

// ErodeInk keeps a pixel as ink only when every pixel under the kw x kh
// kernel is ink.
func ErodeInk(src *image.Gray, kw, kh int) *image.Gray {
	return applyInk(src, kw, kh, true)
}

// DilateInk marks a pixel as ink when any pixel under the kw x kh kernel
// is ink.
func DilateInk(src *image.Gray, kw, kh int) *image.Gray {
	return applyInk(src, kw, kh, false)
}

// Open performs erosion followed by dilation with the same kernel.
func Open(src *image.Gray, kw, kh int) *image.Gray {
	return DilateInk(ErodeInk(src, kw, kh), kw, kh)
}

func applyInk(src *image.Gray, kw, kh int, erode bool) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if kw < 1 {
		kw = 1
	}
	if kh < 1 {
		kh = 1
	}
	halfW, halfH := kw/2, kh/2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ink := erode
			for ky := -halfH; ky <= halfH; ky++ {
				for kx := -halfW; kx <= halfW; kx++ {
					nx, ny := x+kx, y+ky
					covered := nx >= 0 && nx < w && ny >= 0 && ny < h &&
						src.GrayAt(b.Min.X+nx, b.Min.Y+ny).Y == inkOn
					if erode && !covered {
						ink = false
					}
					if !erode && covered {
						ink = true
					}
				}
			}
			if ink {
				out.Pix[y*out.Stride+x] = inkOn
			} else {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// OrInk merges two binary masks of identical bounds: a pixel is ink when it
// is ink in either input.
func OrInk(a, b *image.Gray) *image.Gray {
	ba := a.Bounds()
	w, h := ba.Dx(), ba.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if a.GrayAt(ba.Min.X+x, ba.Min.Y+y).Y == inkOn || b.GrayAt(b.Bounds().Min.X+x, b.Bounds().Min.Y+y).Y == inkOn {
				out.Pix[y*out.Stride+x] = inkOn
			} else {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}
