package material

import (
	"math"
	"testing"

	tensor "diesel.com/mpm/tensor"
)

func TestRegistryUnknownModel(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(0, "bogus", nil); err == nil {
		t.Error("expected error for unknown model name")
	}
}

func TestRegistryLookupMissing(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Lookup(5); err == nil {
		t.Error("expected error looking up unregistered material id")
	}
}

func TestLinearElasticRestStateIsZeroStress(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(0, "linear-elastic", map[string]float64{"lambda": 1e4, "mu": 5e3}); err != nil {
		t.Fatal(err)
	}
	m, err := r.Lookup(0)
	if err != nil {
		t.Fatal(err)
	}

	stress, strain := m.Update(tensor.Identity())
	if stress != (tensor.Mat3{}) {
		t.Errorf("expected zero stress at rest, got %v", stress)
	}
	if strain != (tensor.Mat3{}) {
		t.Errorf("expected zero strain at rest, got %v", strain)
	}
}

func TestLinearElasticUniaxialStretch(t *testing.T) {
	r := NewRegistry()
	lambda, mu := 1e4, 5e3
	r.Register(0, "linear-elastic", map[string]float64{"lambda": lambda, "mu": mu})
	m, _ := r.Lookup(0)

	F := tensor.Identity()
	F[0] = 1.01 // 1% stretch along x

	stress, _ := m.Update(F)
	expectedXX := 2*mu*0.01 + lambda*0.01
	if math.Abs(stress[0]-expectedXX) > 1e-9 {
		t.Errorf("expected sigma_xx=%f, got %f", expectedXX, stress[0])
	}
}

func TestNeoHookeanRestStateIsZeroStress(t *testing.T) {
	r := NewRegistry()
	r.Register(0, "neo-hookean", map[string]float64{"lambda": 1e4, "mu": 5e3})
	m, _ := r.Lookup(0)

	stress, _ := m.Update(tensor.Identity())
	for i, v := range stress {
		if math.Abs(v) > 1e-9 {
			t.Errorf("expected near-zero stress at rest, component %d = %f", i, v)
		}
	}
}

func TestNeoHookeanMissingParams(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(0, "neo-hookean", map[string]float64{"lambda": 1}); err == nil {
		t.Error("expected error for missing mu parameter")
	}
}
