package mpm

import "errors"

var (
	//ErrInvalidConfig is returned when Solve is given a step count, time
	//step size, write frequency or mesh resolution that cannot produce a
	//valid solve (negative step count, non-positive counts, zero cell
	//width, etc), or when Initialize is given a non-positive sampling order.
	ErrInvalidConfig = errors.New("mpm: invalid configuration")

	//ErrParticleOutOfDomain is returned when locateParticles finds a
	//particle that has moved outside every cell of the background mesh.
	ErrParticleOutOfDomain = errors.New("mpm: particle out of domain")

	//ErrInvalidMaterial is returned when a particle references a
	//material id with no registered stress model.
	ErrInvalidMaterial = errors.New("mpm: invalid material")
)
