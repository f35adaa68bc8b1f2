package tabledet

import (
	"image"
	"image/color"
	"testing"

	"github.com/fashionops/ordex/internal/preprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drawGrid paints a ruled table: horizontal lines at the given ys and
// vertical lines at the given xs, spanning the full extent of the other axis
// positions.
func drawGrid(w, h int, ys, xs []int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	x0, x1 := xs[0], xs[len(xs)-1]
	y0, y1 := ys[0], ys[len(ys)-1]
	for _, y := range ys {
		for x := x0; x <= x1; x++ {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}
	for _, x := range xs {
		for y := y0; y <= y1; y++ {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}
	return img
}

func TestDetectFindsRuledTable(t *testing.T) {
	img := drawGrid(300, 300, []int{40, 120, 200}, []int{30, 150, 270})
	page := preprocess.PageImage{Img: img, DPI: 300}

	d := New(DefaultConfig())
	table, ok := d.Detect(page)
	require.True(t, ok, "ruled grid should be detected")

	// The region should cover the drawn grid, within a small tolerance.
	assert.LessOrEqual(t, table.Region.Min.X, 32)
	assert.LessOrEqual(t, table.Region.Min.Y, 42)
	assert.GreaterOrEqual(t, table.Region.Max.X, 268)
	assert.GreaterOrEqual(t, table.Region.Max.Y, 198)
}

func TestDetectBlankPageReturnsNone(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	d := New(DefaultConfig())
	_, ok := d.Detect(preprocess.PageImage{Img: img, DPI: 300})
	assert.False(t, ok, "page without stroke lines must yield no region")
}

func TestDetectTextOnlyPageReturnsNone(t *testing.T) {
	// Short ink runs resembling text: all below the minimum line length.
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for row := 20; row < 180; row += 15 {
		for x := 20; x < 180; x += 12 {
			for dx := 0; dx < 7; dx++ {
				img.SetGray(x+dx, row, color.Gray{Y: 0})
			}
		}
	}
	d := New(DefaultConfig())
	_, ok := d.Detect(preprocess.PageImage{Img: img, DPI: 300})
	assert.False(t, ok)
}

func TestDetectEmptyPage(t *testing.T) {
	d := New(DefaultConfig())
	_, ok := d.Detect(preprocess.PageImage{})
	assert.False(t, ok)
}

func TestCellsGrid(t *testing.T) {
	img := drawGrid(300, 300, []int{40, 120, 200}, []int{30, 150, 270})
	d := New(DefaultConfig())
	table, ok := d.Detect(preprocess.PageImage{Img: img, DPI: 300})
	require.True(t, ok)

	grid := d.Cells(table)
	require.Len(t, grid, 2, "three row boundaries give two rows")
	require.Len(t, grid[0], 2, "three column boundaries give two columns")

	c := grid[0][0]
	assert.Equal(t, 0, c.Row)
	assert.Equal(t, 0, c.Col)
	assert.True(t, c.Rect.Dx() > 50 && c.Rect.Dy() > 30, "cell should span between boundaries, got %v", c.Rect)

	// Cells are row-major with increasing coordinates.
	assert.True(t, grid[0][1].Rect.Min.X > grid[0][0].Rect.Min.X)
	assert.True(t, grid[1][0].Rect.Min.Y > grid[0][0].Rect.Min.Y)
}

func TestCellsNilTable(t *testing.T) {
	d := New(DefaultConfig())
	assert.Nil(t, d.Cells(nil))
}

func TestMergeClose(t *testing.T) {
	got := mergeClose([]int{10, 11, 12, 30, 31, 55}, 10)
	assert.Equal(t, []int{10, 30, 55}, got)
}
