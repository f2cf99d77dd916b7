package geom

// Orientation2D returns the orientation of the origin relative to the
// directed segment (x1,y1) -> (x2,y2), together with twice its signed area.
//
// A zero area is resolved by comparing coordinates, so the result is
// antisymmetric: swapping the endpoints always flips a non-zero sign. That
// makes a point lying exactly on an edge belong to exactly one of the two
// triangles sharing the edge. Zero is only returned when both endpoints
// coincide.
func Orientation2D(x1, y1, x2, y2 float64) (int, float64) {
	area := y1*x2 - x1*y2
	switch {
	case area > 0:
		return 1, area
	case area < 0:
		return -1, area
	case y2 > y1:
		return 1, area
	case y2 < y1:
		return -1, area
	case x1 > x2:
		return 1, area
	case x1 < x2:
		return -1, area
	default:
		return 0, area
	}
}

// PointInTriangle2D tests whether (x0,y0) lies in the triangle
// (x1,y1), (x2,y2), (x3,y3) and returns its barycentric weights. The test is
// half-open through Orientation2D's tie break; degenerate triangles never
// contain a point.
func PointInTriangle2D(x0, y0, x1, y1, x2, y2, x3, y3 float64) (a, b, c float64, ok bool) {
	x1 -= x0
	x2 -= x0
	x3 -= x0
	y1 -= y0
	y2 -= y0
	y3 -= y0

	signA, a := Orientation2D(x2, y2, x3, y3)
	if signA == 0 {
		return 0, 0, 0, false
	}
	signB, b := Orientation2D(x3, y3, x1, y1)
	if signB != signA {
		return 0, 0, 0, false
	}
	signC, c := Orientation2D(x1, y1, x2, y2)
	if signC != signA {
		return 0, 0, 0, false
	}

	sum := a + b + c
	if sum == 0 {
		return 0, 0, 0, false
	}
	return a / sum, b / sum, c / sum, true
}
