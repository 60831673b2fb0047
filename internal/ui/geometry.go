package ui

import "image"

// pt reports whether (x,y) lies within r.
func pt(x, y int, r image.Rectangle) bool {
	return x >= r.Min.X && x < r.Max.X && y >= r.Min.Y && y < r.Max.Y
}

// insetRect returns r shrunk by pad pixels on all sides.
func insetRect(r image.Rectangle, pad int) image.Rectangle {
	return image.Rect(r.Min.X+pad, r.Min.Y+pad, r.Max.X-pad, r.Max.Y-pad)
}

// spanRect joins the rectangles rs[from:from+n].
func spanRect(rs []image.Rectangle, from, n int) image.Rectangle {
	if from < 0 || from >= len(rs) || n <= 0 {
		return image.Rectangle{}
	}
	r := rs[from]
	for i := from + 1; i < from+n && i < len(rs); i++ {
		r = r.Union(rs[i])
	}
	return r
}
