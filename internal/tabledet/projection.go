package tabledet

import "image"

// projectBoundaries scans the stroke mask inside the region and returns the
// sorted positions where the projection histogram is non-zero, merged so that
// positions closer than mergeDist collapse into their first occurrence. For
// columns=true the vertical mask is projected onto the x axis, otherwise the
// horizontal mask onto the y axis.
func projectBoundaries(mask *image.Gray, region image.Rectangle, columns bool, mergeDist int) []int {
	if mask == nil {
		return nil
	}
	b := mask.Bounds()
	region = region.Intersect(image.Rect(0, 0, b.Dx(), b.Dy()))
	if region.Empty() {
		return nil
	}
	if mergeDist < 1 {
		mergeDist = 1
	}

	var positions []int
	if columns {
		for x := region.Min.X; x < region.Max.X; x++ {
			if columnHasInk(mask, x, region) {
				positions = append(positions, x)
			}
		}
	} else {
		for y := region.Min.Y; y < region.Max.Y; y++ {
			if rowHasInk(mask, y, region) {
				positions = append(positions, y)
			}
		}
	}

	return mergeClose(positions, mergeDist)
}

func rowHasInk(mask *image.Gray, y int, region image.Rectangle) bool {
	b := mask.Bounds()
	for x := region.Min.X; x < region.Max.X; x++ {
		if mask.GrayAt(b.Min.X+x, b.Min.Y+y).Y == 0 {
			return true
		}
	}
	return false
}

func columnHasInk(mask *image.Gray, x int, region image.Rectangle) bool {
	b := mask.Bounds()
	for y := region.Min.Y; y < region.Max.Y; y++ {
		if mask.GrayAt(b.Min.X+x, b.Min.Y+y).Y == 0 {
			return true
		}
	}
	return false
}

// mergeClose collapses runs of positions closer than dist into the run's
// first position. Input must be sorted ascending.
func mergeClose(positions []int, dist int) []int {
	if len(positions) == 0 {
		return nil
	}
	merged := []int{positions[0]}
	for _, p := range positions[1:] {
		if p-merged[len(merged)-1] >= dist {
			merged = append(merged, p)
		}
	}
	return merged
}
