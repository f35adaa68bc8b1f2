package preprocess

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// ErrDecodeFailure indicates the page image could not be decoded or carries no
// pixel data. Callers receive the input back unchanged and may continue with
// degraded input.
var ErrDecodeFailure = errors.New("preprocess: page image not decodable")

// Config holds tuning parameters for page normalization.
type Config struct {
	ScaleFactor   float64 `mapstructure:"scale_factor"   yaml:"scale_factor"   json:"scale_factor"`
	DenoiseSigma  float64 `mapstructure:"denoise_sigma"  yaml:"denoise_sigma"  json:"denoise_sigma"`
	BlockSize     int     `mapstructure:"block_size"     yaml:"block_size"     json:"block_size"`
	Constant      int     `mapstructure:"constant"       yaml:"constant"       json:"constant"`
	OpeningKernel int     `mapstructure:"opening_kernel" yaml:"opening_kernel" json:"opening_kernel"`
	SharpenSigma  float64 `mapstructure:"sharpen_sigma"  yaml:"sharpen_sigma"  json:"sharpen_sigma"`
}

// DefaultConfig returns normalization defaults tuned for 300 DPI scans of
// order documents.
func DefaultConfig() Config {
	return Config{
		ScaleFactor:   1.5,
		DenoiseSigma:  0.8,
		BlockSize:     25,
		Constant:      10,
		OpeningKernel: 3,
		SharpenSigma:  0.6,
	}
}

// Normalize prepares a page image for OCR: upscale, grayscale, light Gaussian
// denoise, adaptive threshold, morphological opening and edge sharpening.
// The transform is deterministic for identical input and config.
//
// If the page carries no decodable image, the input is returned unchanged
// together with ErrDecodeFailure so the pipeline can continue degraded.
func Normalize(page PageImage, cfg Config) (PageImage, error) {
	if page.Empty() {
		return page, ErrDecodeFailure
	}

	img := page.Img
	if cfg.ScaleFactor > 0 && cfg.ScaleFactor != 1.0 {
		b := img.Bounds()
		w := int(float64(b.Dx()) * cfg.ScaleFactor)
		h := int(float64(b.Dy()) * cfg.ScaleFactor)
		if w > 0 && h > 0 {
			img = imaging.Resize(img, w, h, imaging.Lanczos)
		}
	}

	gray := imaging.Grayscale(img)
	if cfg.DenoiseSigma > 0 {
		gray = imaging.Blur(gray, cfg.DenoiseSigma)
	}

	bin := AdaptiveThreshold(ToGray(gray), cfg.BlockSize, cfg.Constant)
	if cfg.OpeningKernel > 1 {
		bin = Open(bin, cfg.OpeningKernel, cfg.OpeningKernel)
	}

	out := image.Image(bin)
	if cfg.SharpenSigma > 0 {
		out = imaging.Sharpen(bin, cfg.SharpenSigma)
	}

	return PageImage{Img: out, DPI: page.DPI, Index: page.Index}, nil
}

// ToGray converts an NRGBA (or any) image into *image.Gray without going
// through a second color conversion when it is already grayscale.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Set(x, y, img.At(x, y))
		}
	}
	return g
}
