// Package pdf turns input documents into the page images the extraction
// pipeline consumes. Scanned order PDFs embed one raster per page; pdfcpu
// pulls those out without a rasterizer dependency. Plain image files pass
// through as single-page documents.
package pdf

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	_ "golang.org/x/image/tiff"

	"github.com/fashionops/ordex/internal/preprocess"
)

// ErrNoPages means the document opened fine but yielded no page images,
// typically a born-digital PDF with no embedded scans.
var ErrNoPages = errors.New("pdf: document contains no page images")

// Load opens a document at path and returns its pages in order. PDFs are
// unpacked page by page; PNG, JPEG and TIFF files become one-page documents
// and ignore the page range.
func Load(path, pageRange string, dpi int) ([]preprocess.PageImage, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return Pages(path, pageRange, dpi)
	default:
		page, err := LoadImage(path, dpi, 0)
		if err != nil {
			return nil, err
		}
		return []preprocess.PageImage{page}, nil
	}
}

// Pages extracts the embedded page scans of a PDF. pageRange uses the
// "1-3,5" syntax with 1-based page numbers; empty means every page. Page
// indices on the returned images are zero-based and ordered.
func Pages(filename, pageRange string, dpi int) ([]preprocess.PageImage, error) {
	selected, err := ParsePageRange(pageRange)
	if err != nil {
		return nil, fmt.Errorf("invalid page range %q: %w", pageRange, err)
	}

	tempDir, err := os.MkdirTemp("", "ordex-pages-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	var pageStrings []string
	for _, n := range selected {
		pageStrings = append(pageStrings, strconv.Itoa(n))
	}
	if err := api.ExtractImagesFile(filename, tempDir, pageStrings, nil); err != nil {
		return nil, fmt.Errorf("extract page images from %s: %w", filename, err)
	}

	byPage, err := collectPageImages(tempDir)
	if err != nil {
		return nil, err
	}
	if len(byPage) == 0 {
		return nil, ErrNoPages
	}

	pageNums := make([]int, 0, len(byPage))
	for n := range byPage {
		pageNums = append(pageNums, n)
	}
	sort.Ints(pageNums)

	pages := make([]preprocess.PageImage, 0, len(pageNums))
	for i, n := range pageNums {
		pages = append(pages, preprocess.PageImage{Img: byPage[n], DPI: dpi, Index: i})
	}
	return pages, nil
}

// LoadImage reads a single raster file as one page.
func LoadImage(path string, dpi, index int) (preprocess.PageImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return preprocess.PageImage{}, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return preprocess.PageImage{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return preprocess.PageImage{Img: img, DPI: dpi, Index: index}, nil
}

// collectPageImages walks the extraction directory and keeps the largest
// image per page. Scanned pages carry one full-page raster; anything smaller
// on the same page is a logo or stamp.
func collectPageImages(dir string) (map[int]image.Image, error) {
	out := make(map[int]image.Image)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		pageNum, ok := pageFromFilename(info.Name())
		if !ok {
			return nil
		}
		img, err := decodeFile(path)
		if err != nil {
			// Unreadable embedded images are skipped, not fatal.
			return nil
		}
		if prev, exists := out[pageNum]; !exists || area(img) > area(prev) {
			out[pageNum] = img
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	return img, err
}

func area(img image.Image) int {
	b := img.Bounds()
	return b.Dx() * b.Dy()
}

// pageFromFilename parses the page number out of pdfcpu's extraction naming
// (page_<n>_image_<i>.<ext>).
func pageFromFilename(name string) (int, bool) {
	if !strings.HasPrefix(name, "page_") {
		return 0, false
	}
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParsePageRange expands "1-3,5" style selections into a page list. An
// empty selection means all pages and returns nil.
func ParsePageRange(pageRange string) ([]int, error) {
	if pageRange == "" {
		return nil, nil
	}

	var pages []int
	for _, part := range strings.Split(pageRange, ",") {
		expanded, err := parseRangeToken(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		pages = append(pages, expanded...)
	}
	return pages, nil
}

func parseRangeToken(part string) ([]int, error) {
	if !strings.Contains(part, "-") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid page number: %s", part)
		}
		return []int{n}, nil
	}

	bounds := strings.SplitN(part, "-", 2)
	start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
	if err != nil || start < 1 {
		return nil, fmt.Errorf("invalid start page: %s", bounds[0])
	}
	end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid end page: %s", bounds[1])
	}
	if start > end {
		return nil, fmt.Errorf("start page %d greater than end page %d", start, end)
	}
	out := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		out = append(out, n)
	}
	return out, nil
}
