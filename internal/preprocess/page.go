package preprocess

import "image"

// PageImage is a rasterized document page together with the resolution it was
// rendered at and its zero-based index within the source document.
type PageImage struct {
	Img   image.Image
	DPI   int
	Index int
}

// Bounds returns the pixel bounds of the page image, or the zero rectangle
// when no image is attached.
func (p PageImage) Bounds() image.Rectangle {
	if p.Img == nil {
		return image.Rectangle{}
	}
	return p.Img.Bounds()
}

// Empty reports whether the page carries no decodable pixel data.
func (p PageImage) Empty() bool {
	b := p.Bounds()
	return b.Dx() <= 0 || b.Dy() <= 0
}
