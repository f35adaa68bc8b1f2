// Package tabledet locates tabular regions on document pages using rule-line
// morphology: long horizontal and vertical ink strokes are isolated with
// directional openings, merged, and the largest connected stroke component
// gives the table bounding box. Pages without visible rule lines yield no
// region, which callers treat as the non-gridded extraction branch.
package tabledet

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fashionops/ordex/internal/preprocess"
)

// Config holds table detection tuning parameters.
type Config struct {
	// MinLineLength is the directional opening kernel length; strokes
	// shorter than this are discarded as text, not rule lines.
	MinLineLength int `mapstructure:"min_line_length" yaml:"min_line_length" json:"min_line_length"`

	// MinAreaRatio is the minimum stroke-component bounding-box area
	// relative to the page area for a detection to count as a table.
	MinAreaRatio float64 `mapstructure:"min_area_ratio" yaml:"min_area_ratio" json:"min_area_ratio"`

	// BoundaryMerge merges projected grid boundaries closer than this many
	// pixels into a single boundary.
	BoundaryMerge int `mapstructure:"boundary_merge" yaml:"boundary_merge" json:"boundary_merge"`

	// BlockSize and Constant parameterize the binarization pass.
	BlockSize int `mapstructure:"block_size" yaml:"block_size" json:"block_size"`
	Constant  int `mapstructure:"constant"   yaml:"constant"   json:"constant"`
}

// DefaultConfig returns detection defaults for 300 DPI order documents.
func DefaultConfig() Config {
	return Config{
		MinLineLength: 40,
		MinAreaRatio:  0.02,
		BoundaryMerge: 10,
		BlockSize:     25,
		Constant:      10,
	}
}

// Cell is one grid cell in page coordinates.
type Cell struct {
	Row  int
	Col  int
	Rect image.Rectangle
}

// Table is a detected tabular region plus the stroke masks needed to
// segment it into cells. It is derived once and never mutated.
type Table struct {
	Region     image.Rectangle
	horizontal *image.Gray
	vertical   *image.Gray
}

// Detector finds table regions on binarized pages.
type Detector struct {
	cfg Config
}

// New creates a Detector with the given configuration.
func New(cfg Config) *Detector {
	if cfg.MinLineLength <= 0 {
		cfg = DefaultConfig()
	}
	return &Detector{cfg: cfg}
}

// Detect binarizes the page, extracts long horizontal and vertical strokes
// and returns the bounding box of the largest connected stroke component.
// The second return value is false when the page shows no usable grid; that
// is an expected branch, not an error.
func (d *Detector) Detect(page preprocess.PageImage) (*Table, bool) {
	if page.Empty() {
		return nil, false
	}

	gray := preprocess.ToGray(imaging.Grayscale(page.Img))
	bin := preprocess.AdaptiveThreshold(gray, d.cfg.BlockSize, d.cfg.Constant)

	hor := preprocess.Open(bin, d.cfg.MinLineLength, 1)
	ver := preprocess.Open(bin, 1, d.cfg.MinLineLength)
	mask := preprocess.OrInk(hor, ver)

	box, ok := largestComponent(mask)
	if !ok {
		return nil, false
	}

	pageArea := float64(bin.Bounds().Dx() * bin.Bounds().Dy())
	if pageArea <= 0 || float64(box.Dx()*box.Dy())/pageArea < d.cfg.MinAreaRatio {
		return nil, false
	}

	return &Table{Region: box, horizontal: hor, vertical: ver}, true
}

// Cells segments the table into a row-major cell grid. Row boundaries come
// from the horizontal stroke projection, column boundaries from the vertical
// one; boundaries closer than the merge threshold collapse into one. A table
// without at least two boundaries per axis yields no cells.
func (d *Detector) Cells(t *Table) [][]Cell {
	if t == nil {
		return nil
	}
	rows := projectBoundaries(t.horizontal, t.Region, false, d.cfg.BoundaryMerge)
	cols := projectBoundaries(t.vertical, t.Region, true, d.cfg.BoundaryMerge)
	if len(rows) < 2 || len(cols) < 2 {
		return nil
	}

	grid := make([][]Cell, 0, len(rows)-1)
	for r := 0; r+1 < len(rows); r++ {
		row := make([]Cell, 0, len(cols)-1)
		for c := 0; c+1 < len(cols); c++ {
			row = append(row, Cell{
				Row:  r,
				Col:  c,
				Rect: image.Rect(cols[c], rows[r], cols[c+1], rows[r+1]),
			})
		}
		grid = append(grid, row)
	}
	return grid
}
