package utils

import (
	vector "diesel.com/mpm/vector"
)

//ScalePositions scales a set of positions about origin in place, used
//to fit a particle cloud sized in simulation units into a normalized
//viewing volume before upload to the GPU.
func ScalePositions(pos []vector.Vec3, origin vector.Vec3, scale float64) {
	for i := range pos {
		v := pos[i]
		v.Sub(origin)
		v.Scale(scale)
		v.Add(origin)
		pos[i] = v
	}
}
