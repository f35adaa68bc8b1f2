package pdf

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{"empty means all", "", nil, false},
		{"single page", "3", []int{3}, false},
		{"range", "1-4", []int{1, 2, 3, 4}, false},
		{"mixed", "1-2,5", []int{1, 2, 5}, false},
		{"spaces tolerated", " 2 , 4-5 ", []int{2, 4, 5}, false},
		{"inverted range", "5-2", nil, true},
		{"zero page", "0", nil, true},
		{"garbage", "abc", nil, true},
		{"dangling range", "3-", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePageRange(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageFromFilename(t *testing.T) {
	n, ok := pageFromFilename("page_7_image_1.png")
	require.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = pageFromFilename("thumbnail.png")
	assert.False(t, ok)

	_, ok = pageFromFilename("page_x_image_1.png")
	assert.False(t, ok)
}

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, w, h))))
	return path
}

func TestLoadImageSinglePage(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "scan.png", 40, 60)

	page, err := LoadImage(path, 300, 0)
	require.NoError(t, err)
	assert.Equal(t, 300, page.DPI)
	assert.Equal(t, 0, page.Index)
	assert.Equal(t, 40, page.Img.Bounds().Dx())
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "scan.PNG", 20, 20)

	pages, err := Load(path, "", 300)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 0, pages[0].Index)
}

func TestLoadImageMissingFile(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "absent.png"), 300, 0)
	assert.Error(t, err)
}

func TestCollectPageImagesKeepsLargestPerPage(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "page_1_image_1.png", 10, 10)
	writeTestPNG(t, dir, "page_1_image_2.png", 100, 100)
	writeTestPNG(t, dir, "page_2_image_1.png", 50, 50)
	writeTestPNG(t, dir, "notes.txt.png", 5, 5)

	byPage, err := collectPageImages(dir)
	require.NoError(t, err)
	require.Len(t, byPage, 2)
	assert.Equal(t, 100, byPage[1].Bounds().Dx())
	assert.Equal(t, 50, byPage[2].Bounds().Dx())
}
