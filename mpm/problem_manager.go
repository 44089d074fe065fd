package mpm

//ProblemManager drives the material point method time-stepping loop:
//particles carry state between steps, the background mesh is scratch
//space rebuilt from scratch every step. The nine-stage pipeline below
//follows the same stage ordering and FLIP update the original ExaMPM
//solver used, translated onto the package's own Mesh/Material/Boundary
//contracts.

import (
	"fmt"

	boundary "diesel.com/mpm/boundary"
	geometry "diesel.com/mpm/geometry"
	material "diesel.com/mpm/material"
	mesh "diesel.com/mpm/mesh"
	particle "diesel.com/mpm/particle"
	tensor "diesel.com/mpm/tensor"
	vector "diesel.com/mpm/vector"
)

const gravityAccel = 9.81

//SnapshotWriter is implemented by anything that can persist a solve's
//particle state at a given step index. The snapshot package's CSV
//writer satisfies this without mpm importing it directly.
type SnapshotWriter interface {
	WriteTimeStep(step int, particles []*particle.Particle) error
}

//StepLogger is called once per step when write_frequency divides the
//step number, mirroring the console progress line the original solver
//printed.
type StepLogger func(step, numSteps int, time float64)

type ProblemManager struct {
	mesh       mesh.Mesh
	materials  *material.Registry
	boundaries [6]boundary.BoundaryCondition
	hasGravity bool

	particles []*particle.Particle
	nodal     *particle.NodalFields

	Logger StepLogger
}

//NewProblemManager constructs a solver bound to the given background
//mesh. Boundary conditions default to Open on every face until
//SetBoundaryConditions is called.
func NewProblemManager(m mesh.Mesh, hasGravity bool) *ProblemManager {
	pm := &ProblemManager{
		mesh:       m,
		hasGravity: hasGravity,
	}
	for i := range pm.boundaries {
		pm.boundaries[i] = boundary.Open{}
	}
	return pm
}

func (pm *ProblemManager) SetBoundaryConditions(bc [6]boundary.BoundaryCondition) {
	pm.boundaries = bc
}

func (pm *ProblemManager) SetMaterials(r *material.Registry) {
	pm.materials = r
}

func (pm *ProblemManager) Particles() []*particle.Particle {
	return pm.particles
}

//Initialize seeds particles over every mesh cell, at particlesPerCell(order)
//candidates per cell. Every candidate that some geometry claims becomes a
//particle bound to the first claiming geometry in the order given;
//candidates no geometry claims are discarded.
func (pm *ProblemManager) Initialize(geometries []geometry.Geometry, order int) error {
	if order <= 0 {
		return fmt.Errorf("%w: sampling order must be positive, got %d", ErrInvalidConfig, order)
	}

	grid, ok := pm.mesh.(*mesh.UniformGrid)
	if !ok {
		return fmt.Errorf("%w: initialize requires a UniformGrid mesh", ErrInvalidConfig)
	}

	ppcell := mesh.ParticlesPerCell(order)
	numCells := pm.mesh.TotalNumCells()

	for c := 0; c < numCells; c++ {
		candidates := candidatePositions(grid, c, order)

		for _, pos := range candidates[:ppcell] {
			for _, g := range geometries {
				if g.ParticleInGeometry(pos) {
					mass, volume := candidateMassVolume(grid, order)
					p := particle.NewParticle(pos, mass, volume, g.MaterialId())
					g.InitializeParticle(p)
					pm.particles = append(pm.particles, p)
					break
				}
			}
		}
	}

	return nil
}

//candidatePositions lays out order^3 evenly spaced candidate particle
//positions inside cell c.
func candidatePositions(grid *mesh.UniformGrid, cellId int, order int) []vector.Vec3 {
	ids := grid.CellNodeIds(cellId)
	origin := grid.NodePosition(ids[0])
	step := grid.CellWidth / float64(order)

	var positions []vector.Vec3
	for i := 0; i < order; i++ {
		for j := 0; j < order; j++ {
			for k := 0; k < order; k++ {
				positions = append(positions, vector.Vec3{
					origin[0] + step*(float64(i)+0.5),
					origin[1] + step*(float64(j)+0.5),
					origin[2] + step*(float64(k)+0.5),
				})
			}
		}
	}
	return positions
}

func candidateMassVolume(grid *mesh.UniformGrid, order int) (mass, volume float64) {
	cellVolume := grid.CellWidth * grid.CellWidth * grid.CellWidth
	volume = cellVolume / float64(mesh.ParticlesPerCell(order))
	mass = volume //unit reference density; nothing rescales it afterwards
	return
}

//Solve advances the problem numSteps steps of size dt, writing a
//snapshot of the initial state, every write_frequency'th step, and the
//final state to writer.
func (pm *ProblemManager) Solve(numSteps int, dt float64, writer SnapshotWriter, writeFrequency int) error {
	if numSteps < 0 {
		return fmt.Errorf("%w: numSteps must not be negative", ErrInvalidConfig)
	}
	if dt <= 0 || writeFrequency <= 0 {
		return fmt.Errorf("%w: dt and writeFrequency must be positive", ErrInvalidConfig)
	}
	if grid, ok := pm.mesh.(*mesh.UniformGrid); ok {
		if grid.NumCellsX <= 0 || grid.NumCellsY <= 0 || grid.NumCellsZ <= 0 || grid.CellWidth <= 0 {
			return fmt.Errorf("%w: mesh cell counts and cell width must be positive", ErrInvalidConfig)
		}
	}

	pm.nodal = particle.NewNodalFields(pm.mesh.TotalNumNodes())

	writeStep := 0
	if writer != nil {
		if err := writer.WriteTimeStep(writeStep, pm.particles); err != nil {
			return err
		}
	}

	time := 0.0

	for step := 0; step < numSteps; step++ {
		time += dt

		if pm.Logger != nil && (step+1)%writeFrequency == 0 {
			pm.Logger(step+1, numSteps, time)
		}

		if err := pm.locateParticles(); err != nil {
			return err
		}
		pm.nodal.Clear()
		pm.calculateNodalMass()
		pm.calculateNodalMomentum()
		if err := pm.calculateInternalNodalForces(); err != nil {
			return err
		}
		pm.calculateNodalImpulse(dt)
		pm.updateParticlePositionAndVelocity(dt)
		pm.calculateNodalVelocity()
		pm.updateParticleGradients(dt)
		if err := pm.updateParticleStressStrain(); err != nil {
			return err
		}

		if writer != nil && (step+1)%writeFrequency == 0 {
			writeStep++
			if err := writer.WriteTimeStep(writeStep, pm.particles); err != nil {
				return err
			}
		}
	}

	if writer != nil {
		if err := writer.WriteTimeStep(writeStep+1, pm.particles); err != nil {
			return err
		}
	}

	return nil
}

//locateParticles is stage 1: find each particle's containing cell and
//cache the local node ids and basis values/gradients used by every
//later stage this step.
func (pm *ProblemManager) locateParticles() error {
	nodesPerCell := pm.mesh.NodesPerCell()

	for _, p := range pm.particles {
		cellId, ok := pm.mesh.LocateCell(p.Position)
		if !ok {
			return fmt.Errorf("%w: particle at %v", ErrParticleOutOfDomain, p.Position)
		}

		p.ResetBasisCache(nodesPerCell)
		copy(p.NodeIds, pm.mesh.CellNodeIds(cellId))

		local := pm.mesh.MapPhysicalToReferenceFrame(p.Position, cellId)
		for n := 0; n < nodesPerCell; n++ {
			p.BasisValues[n] = pm.mesh.ShapeFunctionValue(local, n)
			p.BasisGradients[n] = pm.mesh.ShapeFunctionGradient(local, n, cellId)
		}
	}

	return nil
}

//calculateNodalMass is stage 2: scatter particle mass to nodes. The
//caller clears pm.nodal before this stage runs.
func (pm *ProblemManager) calculateNodalMass() {
	for _, p := range pm.particles {
		for n, nodeId := range p.NodeIds {
			pm.nodal.Mass[nodeId] += p.BasisValues[n] * p.Mass
		}
	}
}

//calculateNodalMomentum is stage 3: scatter particle momentum, then
//apply boundary conditions to the result.
func (pm *ProblemManager) calculateNodalMomentum() {
	for _, p := range pm.particles {
		for n, nodeId := range p.NodeIds {
			pm.nodal.Momentum[nodeId].Add(vector.Scale(p.Velocity, p.Mass*p.BasisValues[n]))
		}
	}
	pm.applyFaceCondition(pm.nodal.Momentum, boundary.BoundaryCondition.EvaluateMomentumCondition)
}

//calculateInternalNodalForces is stage 4: scatter the stress divergence
//to nodes as an internal force.
func (pm *ProblemManager) calculateInternalNodalForces() error {
	for _, p := range pm.particles {
		if pm.materials == nil {
			return fmt.Errorf("%w: no material registry configured", ErrInvalidMaterial)
		}
		if _, err := pm.materials.Lookup(p.MaterialId); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidMaterial, err)
		}

		for n, nodeId := range p.NodeIds {
			grad := p.BasisGradients[n]
			var f vector.Vec3
			for i := 0; i < 3; i++ {
				var sum float64
				for j := 0; j < 3; j++ {
					sum += grad[j] * p.Stress.At(j, i)
				}
				f[i] = -p.Volume * sum
			}
			pm.nodal.InternalForce[nodeId].Add(f)
		}
	}

	return nil
}

//calculateNodalImpulse is stage 5: integrate internal force (and
//gravity, if enabled) over dt, then apply boundary conditions.
func (pm *ProblemManager) calculateNodalImpulse(dt float64) {
	for n := range pm.nodal.Impulse {
		pm.nodal.Impulse[n] = vector.Scale(pm.nodal.InternalForce[n], dt)
	}

	if pm.hasGravity {
		for n := range pm.nodal.Impulse {
			pm.nodal.Impulse[n][2] -= dt * pm.nodal.Mass[n] * gravityAccel
		}
	}

	pm.applyFaceCondition(pm.nodal.Impulse, boundary.BoundaryCondition.EvaluateImpulseCondition)
}

//updateParticlePositionAndVelocity is stage 6: the FLIP update - the
//particle position advances by the grid velocity (momentum+impulse)/mass,
//but the particle velocity only picks up the nodal *impulse* contribution,
//not the full nodal velocity.
func (pm *ProblemManager) updateParticlePositionAndVelocity(dt float64) {
	for _, p := range pm.particles {
		for n, nodeId := range p.NodeIds {
			m := pm.nodal.Mass[nodeId]
			if m <= 0 {
				continue
			}

			gridMomentum := vector.Add(pm.nodal.Momentum[nodeId], pm.nodal.Impulse[nodeId])
			p.Position.Add(vector.Scale(gridMomentum, dt*p.BasisValues[n]/m))
			p.Velocity.Add(vector.Scale(pm.nodal.Impulse[nodeId], p.BasisValues[n]/m))
		}
	}
}

//calculateNodalVelocity is stage 7: a redundant re-scatter of particle
//momentum into nodal velocity (dividing by nodal mass this time), used
//only to compute the velocity gradient in stage 8. It intentionally
//does not reuse node_p from stage 3 (it does divide by the stage-2
//nodal mass) - the original solver keeps
//this as a separate accumulation so boundary conditions can be
//re-applied to velocity specifically rather than momentum.
func (pm *ProblemManager) calculateNodalVelocity() {
	for _, p := range pm.particles {
		for n, nodeId := range p.NodeIds {
			pm.nodal.Velocity[nodeId].Add(vector.Scale(p.Velocity, p.Mass*p.BasisValues[n]))
		}
	}

	for n := range pm.nodal.Velocity {
		if pm.nodal.Mass[n] > 0 {
			pm.nodal.Velocity[n] = vector.Scale(pm.nodal.Velocity[n], 1.0/pm.nodal.Mass[n])
		} else {
			pm.nodal.Velocity[n] = vector.Vec3{0, 0, 0}
		}
	}

	pm.applyFaceCondition(pm.nodal.Velocity, boundary.BoundaryCondition.EvaluateMomentumCondition)
}

//updateParticleGradients is stage 8: gather the nodal velocity gradient
//onto each particle, then advance its deformation gradient and volume.
func (pm *ProblemManager) updateParticleGradients(dt float64) {
	for _, p := range pm.particles {
		var gradV tensor.Mat3
		for n, nodeId := range p.NodeIds {
			grad := p.BasisGradients[n]
			v := pm.nodal.Velocity[nodeId]
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					idx := i*3 + j
					gradV[idx] += grad[i] * v[j]
				}
			}
		}
		p.VelocityGradient = gradV

		work := tensor.Scale(gradV, dt)
		deltaF, _ := work.CrossMat(&p.DeformationGradient)
		p.DeformationGradient = tensor.Add(p.DeformationGradient, deltaF)

		for i := 0; i < 3; i++ {
			idx := i*3 + i
			work[idx] += 1.0
		}
		p.Volume *= work.Det()
	}
}

//updateParticleStressStrain is stage 9: the constitutive update,
//dispatched through the material registry by each particle's material id.
func (pm *ProblemManager) updateParticleStressStrain() error {
	for _, p := range pm.particles {
		model, err := pm.materials.Lookup(p.MaterialId)
		if err != nil {
			return err
		}
		stress, strain := model.Update(p.DeformationGradient)
		p.Stress = stress
		p.Strain = strain
	}
	return nil
}

func (pm *ProblemManager) applyFaceCondition(field []vector.Vec3, apply func(boundary.BoundaryCondition, vector.Vec3, vector.Vec3) vector.Vec3) {
	grid, ok := pm.mesh.(*mesh.UniformGrid)
	if !ok {
		return
	}

	for face := mesh.FaceMinX; face <= mesh.FaceMaxZ; face++ {
		normal := mesh.FaceNormal(face)
		bc := pm.boundaries[face]
		for _, nodeId := range grid.BoundaryNodes(face) {
			field[nodeId] = apply(bc, field[nodeId], normal)
		}
	}
}
