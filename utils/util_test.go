package utils

import (
	"testing"

	vector "diesel.com/mpm/vector"
)

func TestScalePositionsShrinksTowardOrigin(t *testing.T) {
	origin := vector.Vec3{0, 0, 0}
	pos := []vector.Vec3{{2, 0, 0}, {0, 4, 0}, {0, 0, -2}}

	ScalePositions(pos, origin, 0.5)

	want := []vector.Vec3{{1, 0, 0}, {0, 2, 0}, {0, 0, -1}}
	for i := range pos {
		if !vector.VecEquals(pos[i], want[i]) {
			t.Errorf("index %d: got %v, want %v", i, pos[i], want[i])
		}
	}
}

func TestScalePositionsAboutNonZeroOrigin(t *testing.T) {
	origin := vector.Vec3{1, 1, 1}
	pos := []vector.Vec3{{3, 1, 1}}

	ScalePositions(pos, origin, 2.0)

	want := vector.Vec3{5, 1, 1}
	if !vector.VecEquals(pos[0], want) {
		t.Errorf("got %v, want %v", pos[0], want)
	}
}

func TestScalePositionsIdentityWhenScaleIsOne(t *testing.T) {
	origin := vector.Vec3{0.5, 0.5, 0.5}
	pos := []vector.Vec3{{1, 2, 3}, {-1, -2, -3}}
	orig := append([]vector.Vec3{}, pos...)

	ScalePositions(pos, origin, 1.0)

	for i := range pos {
		if !vector.VecEquals(pos[i], orig[i]) {
			t.Errorf("index %d: got %v, want unchanged %v", i, pos[i], orig[i])
		}
	}
}
