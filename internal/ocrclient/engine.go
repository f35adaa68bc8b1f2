// Package ocrclient wraps external OCR engines behind a uniform
// image-region-to-text contract. Two backends are provided: a local
// Tesseract engine (via gosseract) and Google Document AI. The Adapter adds
// bounded retry, per-call timeouts and text cleanup on top of either.
package ocrclient

import (
	"context"
	"errors"
	"image"
)

// Mode selects the OCR engine configuration for a call.
type Mode string

const (
	// ModeGeneral uses automatic page segmentation for mixed layouts.
	ModeGeneral Mode = "general"
	// ModeTable treats the region as a single uniform text block.
	ModeTable Mode = "table"
	// ModeDigits restricts recognition to numeric characters.
	ModeDigits Mode = "digits"
)

// ErrBackendUnavailable signals that the OCR backend failed or timed out
// after all retries. Callers treat it as "no text recovered", never as a
// reason to abort a document.
var ErrBackendUnavailable = errors.New("ocrclient: backend unavailable")

// Token is one recognized word with its bounding box in region coordinates.
type Token struct {
	Text       string
	Box        image.Rectangle
	Confidence float64
}

// RawText is the immutable output of one OCR call.
type RawText struct {
	Text   string
	Tokens []Token
}

// Empty reports whether no text was recovered.
func (r RawText) Empty() bool { return r.Text == "" }

// Engine is the contract an OCR backend must satisfy. Implementations must
// tolerate concurrent calls or document that callers serialize them.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, mode Mode) (RawText, error)
	Close() error
}
