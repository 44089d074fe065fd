package geometry

//Geometry describes a region of space the initializer fills with
//particles: the driver tests every candidate position seeded in every
//mesh cell against each registered geometry, in configuration order,
//and the first one that claims a candidate wins the material assignment
//for the particle placed there. ParticleInGeometry is the yes/no membership test from that
//rasterization; InitializeParticle lets a geometry perturb a particle's
//starting state (initial velocity, mostly) at the moment it's placed.

import (
	"fmt"

	particle "diesel.com/mpm/particle"
	vector "diesel.com/mpm/vector"
)

type Geometry interface {
	ParticleInGeometry(pos vector.Vec3) bool
	InitializeParticle(p *particle.Particle)
	MaterialId() int
}

//Sphere claims every point within radius of its center.
type Sphere struct {
	Center     vector.Vec3
	Radius     float64
	InitialVel vector.Vec3
	Material   int
}

func NewSphere(center vector.Vec3, radius float64, initialVel vector.Vec3, materialId int) *Sphere {
	return &Sphere{Center: center, Radius: radius, InitialVel: initialVel, Material: materialId}
}

//ParticleInGeometry mirrors the squared-distance membership test the
//original solver used: no square root, compared against radius^2.
func (s *Sphere) ParticleInGeometry(pos vector.Vec3) bool {
	ref := vector.Sub(pos, s.Center)
	return vector.Dot(ref, ref) <= s.Radius*s.Radius
}

func (s *Sphere) InitializeParticle(p *particle.Particle) {
	p.Velocity = s.InitialVel
}

func (s *Sphere) MaterialId() int {
	return s.Material
}

//Box claims every point inside an axis-aligned bounding box given by
//opposing corners Min and Max.
type Box struct {
	Min        vector.Vec3
	Max        vector.Vec3
	InitialVel vector.Vec3
	Material   int
}

func NewBox(min, max, initialVel vector.Vec3, materialId int) *Box {
	return &Box{Min: min, Max: max, InitialVel: initialVel, Material: materialId}
}

func (b *Box) ParticleInGeometry(pos vector.Vec3) bool {
	for i := 0; i < 3; i++ {
		if pos[i] < b.Min[i] || pos[i] > b.Max[i] {
			return false
		}
	}
	return true
}

func (b *Box) InitializeParticle(p *particle.Particle) {
	p.Velocity = b.InitialVel
}

func (b *Box) MaterialId() int {
	return b.Material
}

func (b *Box) String() string {
	return fmt.Sprintf("Box{min:%v max:%v}", b.Min, b.Max)
}
