package tabledet

import (
	"container/list"
	"image"
)

// largestComponent finds the 4-connected ink component with the largest pixel
// count in a binary mask and returns its bounding box in mask coordinates.
func largestComponent(mask *image.Gray) (image.Rectangle, bool) {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return image.Rectangle{}, false
	}

	visited := make([]bool, w*h)
	var best image.Rectangle
	bestCount := 0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if visited[idx] || mask.GrayAt(b.Min.X+x, b.Min.Y+y).Y != 0 {
				continue
			}
			box, count := componentBFS(mask, visited, w, h, x, y)
			if count > bestCount {
				bestCount = count
				best = box
			}
		}
	}

	if bestCount == 0 {
		return image.Rectangle{}, false
	}
	return best, true
}

// componentBFS flood-fills one ink component starting at (sx, sy) and returns
// its bounding box and pixel count.
func componentBFS(mask *image.Gray, visited []bool, w, h, sx, sy int) (image.Rectangle, int) {
	b := mask.Bounds()
	minX, minY, maxX, maxY := sx, sy, sx, sy
	count := 0

	q := list.New()
	q.PushBack(sy*w + sx)
	visited[sy*w+sx] = true

	dirs := [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for q.Len() > 0 {
		e := q.Front()
		q.Remove(e)
		ci, ok := e.Value.(int)
		if !ok {
			continue
		}
		cx, cy := ci%w, ci/w
		count++
		if cx < minX {
			minX = cx
		}
		if cy < minY {
			minY = cy
		}
		if cx > maxX {
			maxX = cx
		}
		if cy > maxY {
			maxY = cy
		}

		for _, d := range dirs {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			ni := ny*w + nx
			if visited[ni] || mask.GrayAt(b.Min.X+nx, b.Min.Y+ny).Y != 0 {
				continue
			}
			visited[ni] = true
			q.PushBack(ni)
		}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), count
}
