package pathfinding

import "testing"

func TestOctileStraightAndDiagonal(t *testing.T) {
	cases := []struct {
		dx, dz int
		want   int32
	}{
		{3, 0, 30},
		{0, 4, 40},
		{3, 3, 42}, // 10*3 + 4*3
		{5, 2, 58}, // 10*5 + 4*2
		{-5, -2, 58},
	}
	for _, c := range cases {
		if got := Octile(c.dx, c.dz); got != c.want {
			t.Errorf("Octile(%d, %d) = %d, want %d", c.dx, c.dz, got, c.want)
		}
	}
}

func TestOctileAdmissibleAgainstStepCosts(t *testing.T) {
	// A straight run of n steps costs 10n; the heuristic must never exceed
	// the true optimal cost for any (dx, dz).
	for dx := 0; dx <= 20; dx++ {
		for dz := 0; dz <= 20; dz++ {
			h := Octile(dx, dz)
			diag := dx
			if dz < diag {
				diag = dz
			}
			straight := dx + dz - 2*diag
			optimal := int32(diag)*14 + int32(straight)*10
			if h > optimal {
				t.Fatalf("Octile(%d, %d) = %d exceeds optimal cost %d", dx, dz, h, optimal)
			}
		}
	}
}
