package particle

//Particle carries the Lagrangian state that moves through the fixed
//background mesh: position, velocity, mass, current volume, the
//deformation gradient, the current velocity gradient, and the Cauchy
//stress and strain the constitutive model produced last step. NodeIds,
//BasisValues and BasisGradients are a scratch cache filled by the
//locate step and consumed by scatter/gather in the same time step -
//they are not carried forward across steps.

import (
	"fmt"

	tensor "diesel.com/mpm/tensor"
	vector "diesel.com/mpm/vector"
)

type Particle struct {
	Position vector.Vec3
	Velocity vector.Vec3

	Mass   float64
	Volume float64

	DeformationGradient tensor.Mat3
	VelocityGradient     tensor.Mat3
	Stress               tensor.Mat3
	Strain               tensor.Mat3

	MaterialId int

	NodeIds         []int
	BasisValues     []float64
	BasisGradients  []vector.Vec3
}

//NewParticle returns a particle at rest: unit deformation gradient, zero
//stress/strain/velocity gradient, the given reference mass/volume/material.
func NewParticle(position vector.Vec3, mass, volume float64, materialId int) *Particle {
	return &Particle{
		Position:             position,
		Velocity:             vector.Vec3{0, 0, 0},
		Mass:                 mass,
		Volume:               volume,
		DeformationGradient:  tensor.Identity(),
		VelocityGradient:     tensor.Mat3{},
		Stress:               tensor.Mat3{},
		Strain:               tensor.Mat3{},
		MaterialId:           materialId,
	}
}

//ResetBasisCache sizes the per-step locate scratch to nodesPerCell
//entries, reusing existing capacity so the basis slices are not
//reallocated across the solve loop. Reused entries keep their old values
//until the locate step overwrites them.
func (p *Particle) ResetBasisCache(nodesPerCell int) {
	if cap(p.NodeIds) < nodesPerCell {
		p.NodeIds = make([]int, nodesPerCell)
		p.BasisValues = make([]float64, nodesPerCell)
		p.BasisGradients = make([]vector.Vec3, nodesPerCell)
		return
	}
	p.NodeIds = p.NodeIds[:nodesPerCell]
	p.BasisValues = p.BasisValues[:nodesPerCell]
	p.BasisGradients = p.BasisGradients[:nodesPerCell]
}

//Momentum returns m*v
func (p *Particle) Momentum() vector.Vec3 {
	return vector.Scale(p.Velocity, p.Mass)
}

func (p *Particle) String() string {
	return fmt.Sprintf("Particle{pos:%v vel:%v m:%f vol:%f matid:%d}",
		p.Position, p.Velocity, p.Mass, p.Volume, p.MaterialId)
}

//NodalFields is the mesh-sized scratch the scatter/gather stages read and
//write every time step: nodal mass, momentum, velocity, impulse and
//internal force. Indexed by global node id, 0..TotalNumNodes-1.
type NodalFields struct {
	Mass           []float64
	Momentum       []vector.Vec3
	Velocity       []vector.Vec3
	Impulse        []vector.Vec3
	InternalForce  []vector.Vec3
}

func NewNodalFields(numNodes int) *NodalFields {
	return &NodalFields{
		Mass:          make([]float64, numNodes),
		Momentum:      make([]vector.Vec3, numNodes),
		Velocity:      make([]vector.Vec3, numNodes),
		Impulse:       make([]vector.Vec3, numNodes),
		InternalForce: make([]vector.Vec3, numNodes),
	}
}

//Clear zeroes every nodal field in place, called at the start of every
//time step before scatter runs.
func (n *NodalFields) Clear() {
	for i := range n.Mass {
		n.Mass[i] = 0
		n.Momentum[i] = vector.Vec3{0, 0, 0}
		n.Velocity[i] = vector.Vec3{0, 0, 0}
		n.Impulse[i] = vector.Vec3{0, 0, 0}
		n.InternalForce[i] = vector.Vec3{0, 0, 0}
	}
}
