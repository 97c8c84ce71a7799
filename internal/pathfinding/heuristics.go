// Package pathfinding implements the three A* flavors (single-chunk,
// multi-chunk, macro) and the shared flow-field engine described in spec
// §4.4 and §4.5. It depends only on navcore/internal/world's static chunk
// data and navcore/internal/core's vector/handle types, never on the
// dispatcher or agent component stores above it.
package pathfinding

// Octile is the 8-directional grid-distance heuristic in integer tenths of
// a cell: 10*max(dx,dz) + 4*min(dx,dz). Straight cost is 10, diagonal 14,
// and this heuristic stays admissible against that cost model.
func Octile(dx, dz int) int32 {
	if dx < 0 {
		dx = -dx
	}
	if dz < 0 {
		dz = -dz
	}
	lo, hi := dx, dz
	if lo > hi {
		lo, hi = hi, lo
	}
	return int32(10*hi + 4*lo)
}
