package boundary

import (
	"testing"

	vector "diesel.com/mpm/vector"
)

func TestReflectingFlipsNormalComponent(t *testing.T) {
	bc := Reflecting{}
	m := vector.Vec3{1, -2, 0}
	n := vector.Vec3{0, 1, 0}

	r := bc.EvaluateMomentumCondition(m, n)
	if !vector.VecEquals(r, vector.Vec3{1, 2, 0}) {
		t.Errorf("expected {1,2,0}, got %v", r)
	}
}

func TestStickyZeroesEverything(t *testing.T) {
	bc := Sticky{}
	m := vector.Vec3{5, 5, 5}
	n := vector.Vec3{0, 0, 1}

	if r := bc.EvaluateMomentumCondition(m, n); !vector.VecEquals(r, vector.Vec3{0, 0, 0}) {
		t.Errorf("expected zero momentum, got %v", r)
	}
	if r := bc.EvaluateImpulseCondition(m, n); !vector.VecEquals(r, vector.Vec3{0, 0, 0}) {
		t.Errorf("expected zero impulse, got %v", r)
	}
}

func TestFreeSlipKeepsTangentialOnly(t *testing.T) {
	bc := FreeSlip{}
	m := vector.Vec3{3, 0, 4}
	n := vector.Vec3{0, 0, 1}

	r := bc.EvaluateMomentumCondition(m, n)
	if !vector.VecEquals(r, vector.Vec3{3, 0, 0}) {
		t.Errorf("expected normal component removed, got %v", r)
	}
}

func TestOpenIsIdentity(t *testing.T) {
	bc := Open{}
	m := vector.Vec3{1, 2, 3}
	n := vector.Vec3{0, 0, 1}

	if r := bc.EvaluateMomentumCondition(m, n); !vector.VecEquals(r, m) {
		t.Errorf("expected unmodified momentum, got %v", r)
	}
	if r := bc.EvaluateImpulseCondition(m, n); !vector.VecEquals(r, m) {
		t.Errorf("expected unmodified impulse, got %v", r)
	}
}
