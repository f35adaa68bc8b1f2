package ocrclient

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

const digitWhitelist = "0123456789.,-/ "

// TesseractEngine runs OCR through a locally installed Tesseract binary via
// gosseract. A fresh client is created per call so concurrent recognitions do
// not share native state.
type TesseractEngine struct {
	languages []string
	newClient func() *gosseract.Client
}

// NewTesseractEngine constructs a local OCR engine. Languages follow
// Tesseract naming ("eng", "por", ...); empty defaults to English.
func NewTesseractEngine(languages ...string) *TesseractEngine {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &TesseractEngine{languages: languages, newClient: gosseract.NewClient}
}

// Recognize performs one OCR call on the image with the given mode.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image, mode Mode) (RawText, error) {
	if err := ctx.Err(); err != nil {
		return RawText{}, err
	}
	if img == nil {
		return RawText{}, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return RawText{}, fmt.Errorf("encode region: %w", err)
	}

	c := e.newClient()
	defer func() { _ = c.Close() }()

	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return RawText{}, fmt.Errorf("set image: %w", err)
	}
	if err := c.SetLanguage(e.languages...); err != nil {
		return RawText{}, fmt.Errorf("set languages: %w", err)
	}
	if err := configureMode(c, mode); err != nil {
		return RawText{}, err
	}

	text, err := c.Text()
	if err != nil {
		return RawText{}, fmt.Errorf("recognize: %w", err)
	}

	return RawText{Text: text, Tokens: extractTokens(c)}, nil
}

// Close is a no-op; clients are per-call.
func (e *TesseractEngine) Close() error { return nil }

func configureMode(c *gosseract.Client, mode Mode) error {
	switch mode {
	case ModeTable:
		if err := c.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
			return fmt.Errorf("set psm: %w", err)
		}
	case ModeDigits:
		if err := c.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
			return fmt.Errorf("set psm: %w", err)
		}
		if err := c.SetWhitelist(digitWhitelist); err != nil {
			return fmt.Errorf("set whitelist: %w", err)
		}
	default: // ModeGeneral
		if err := c.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
			return fmt.Errorf("set psm: %w", err)
		}
	}
	return nil
}

// extractTokens pulls per-word boxes; failures degrade to text-only output.
func extractTokens(c *gosseract.Client) []Token {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return nil
	}
	tokens := make([]Token, 0, len(boxes))
	for _, b := range boxes {
		tokens = append(tokens, Token{
			Text:       b.Word,
			Box:        b.Box,
			Confidence: b.Confidence / 100.0,
		})
	}
	return tokens
}
