package aggregator

// PointsTable maps finishing position (index+1) to championship points.
// Positions past the end of the table score nothing.
type PointsTable []int

// DefaultPoints is the standard 25-18-15-12-10-8-6-4-2-1 scale.
var DefaultPoints = PointsTable{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

// For returns the points for finishing position pos.
func (t PointsTable) For(pos int) int {
	if pos < 1 || pos > len(t) {
		return 0
	}
	return t[pos-1]
}
