package boundary

//BoundaryCondition governs what happens to nodal momentum/impulse at
//mesh nodes lying on a domain face. It is evaluated three times per
//step: against the scattered nodal momentum (before internal force is
//assembled), against the integrated nodal impulse (before the FLIP
//velocity update), and, through the momentum hook again, against the
//recomputed nodal velocity - both hooks the teacher's Collide handled in one
//place for a single moving particle, here split to match where the
//driver needs to intervene on fixed mesh state.

import (
	vector "diesel.com/mpm/vector"
)

type BoundaryCondition interface {
	//EvaluateMomentumCondition adjusts nodal momentum/velocity at a
	//boundary node given the face's outward normal.
	EvaluateMomentumCondition(momentum vector.Vec3, normal vector.Vec3) vector.Vec3

	//EvaluateImpulseCondition adjusts the nodal impulse accumulated from
	//internal force and gravity before it is applied to particles.
	EvaluateImpulseCondition(impulse vector.Vec3, normal vector.Vec3) vector.Vec3
}

//Reflecting negates the normal component of momentum/impulse and leaves
//the tangential component untouched: a rigid wall with full
//restitution, bouncing a particle back along the face normal instead of
//absorbing it.
type Reflecting struct{}

func (Reflecting) EvaluateMomentumCondition(m vector.Vec3, n vector.Vec3) vector.Vec3 {
	return *m.Reflect(n)
}

func (Reflecting) EvaluateImpulseCondition(imp vector.Vec3, n vector.Vec3) vector.Vec3 {
	return *imp.Reflect(n)
}

//Sticky zeroes all momentum/impulse at the boundary node: anything that
//reaches the face stops dead and stays there.
type Sticky struct{}

func (Sticky) EvaluateMomentumCondition(vector.Vec3, vector.Vec3) vector.Vec3 {
	return vector.Vec3{0, 0, 0}
}

func (Sticky) EvaluateImpulseCondition(vector.Vec3, vector.Vec3) vector.Vec3 {
	return vector.Vec3{0, 0, 0}
}

//FreeSlip zeroes only the component normal to the face, leaving the
//tangential component (motion along the wall) untouched.
type FreeSlip struct{}

func (FreeSlip) EvaluateMomentumCondition(m vector.Vec3, n vector.Vec3) vector.Vec3 {
	return vector.Tan(m, n)
}

func (FreeSlip) EvaluateImpulseCondition(imp vector.Vec3, n vector.Vec3) vector.Vec3 {
	return vector.Tan(imp, n)
}

//Open leaves momentum/impulse untouched: material is allowed to flow
//through the face without constraint. This is the default on the +z
//face (material falls out the "top" under no particular convention).
type Open struct{}

func (Open) EvaluateMomentumCondition(m vector.Vec3, _ vector.Vec3) vector.Vec3 {
	return m
}

func (Open) EvaluateImpulseCondition(imp vector.Vec3, _ vector.Vec3) vector.Vec3 {
	return imp
}
