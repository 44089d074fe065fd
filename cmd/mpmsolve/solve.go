package main

import (
	"fmt"
	"log"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	boundary "diesel.com/mpm/boundary"
	config "diesel.com/mpm/config"
	geometry "diesel.com/mpm/geometry"
	material "diesel.com/mpm/material"
	mesh "diesel.com/mpm/mesh"
	mpm "diesel.com/mpm/mpm"
	snapshot "diesel.com/mpm/snapshot"
	vector "diesel.com/mpm/vector"
	view "diesel.com/mpm/view"
)

func newSolveCmd() *cobra.Command {
	var configPath string
	var watch bool

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Run a material point method solve",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runSolve(cfg, watch)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML/JSON config file")
	cmd.Flags().BoolVar(&watch, "watch", false, "open a live particle-cloud viewer while solving")

	return cmd
}

func runSolve(cfg *config.Config, watch bool) error {
	grid := mesh.NewUniformGrid(vector.Vec3{0, 0, 0}, cfg.MeshCellWidth,
		cfg.MeshNumCellsX, cfg.MeshNumCellsY, cfg.MeshNumCellsZ)

	materials := material.NewRegistry()
	params := map[string]float64{"lambda": cfg.MaterialLambda, "mu": cfg.MaterialMu}
	if err := materials.Register(cfg.GeometryMaterialId, cfg.MaterialModel, params); err != nil {
		return fmt.Errorf("solve: registering material: %w", err)
	}

	bc, err := boundaryConditionsFromNames(cfg.BoundaryNames())
	if err != nil {
		return err
	}

	sphere := geometry.NewSphere(
		vector.Vec3{cfg.GeometrySphereCenterX, cfg.GeometrySphereCenterY, cfg.GeometrySphereCenterZ},
		cfg.GeometrySphereRadius,
		vector.Vec3{0, 0, 0},
		cfg.GeometryMaterialId,
	)

	pm := mpm.NewProblemManager(grid, cfg.HasGravity)
	pm.SetMaterials(materials)
	pm.SetBoundaryConditions(bc)

	if err := pm.Initialize([]geometry.Geometry{sphere}, cfg.SamplingOrder); err != nil {
		return fmt.Errorf("solve: initializing particles: %w", err)
	}

	writer := snapshot.NewCSVWriter(afero.NewOsFs(), cfg.OutputFile)

	pm.Logger = func(step, numSteps int, t float64) {
		log.Printf("Time Step %d/%d: %f (s)", step, numSteps, t)
	}

	if !watch {
		return pm.Solve(cfg.NumTimeSteps, cfg.TimeStepSize, writer, cfg.WriteFrequency)
	}

	return runSolveWatched(pm, cfg, writer)
}

//runSolveWatched drives the solve on its own goroutine, publishing a
//particle-cloud frame each time a step is logged (the particle state as
//that step begins) on a buffered channel
//that the render loop on the calling goroutine drains - the same
//producer/consumer handshake the teacher's fluid-compute thread used
//to hand particle state to its draw loop, narrowed here to a single
//channel since the solver has no sampler or density sub-thread to
//additionally synchronize.
func runSolveWatched(pm *mpm.ProblemManager, cfg *config.Config, writer mpm.SnapshotWriter) error {
	viewer, err := view.NewViewer(view.AppWindow{Width: 800, Height: 600, Title: "mpmsolve"}, len(pm.Particles()))
	if err != nil {
		return fmt.Errorf("solve: opening viewer: %w", err)
	}
	defer viewer.Close()
	viewer.SetProjection(800.0 / 600.0)
	viewer.SetDomain(domainCenter(cfg), domainExtent(cfg))

	frames := make(chan view.Frame, 4)
	baseLogger := pm.Logger
	pm.Logger = func(step, numSteps int, t float64) {
		baseLogger(step, numSteps, t)
		select {
		case frames <- view.NewFrame(pm.Particles()):
		default:
			//render loop is behind; drop this frame rather than block the solve
		}
	}

	solveErr := make(chan error, 1)
	go func() {
		solveErr <- pm.Solve(cfg.NumTimeSteps, cfg.TimeStepSize, writer, cfg.WriteFrequency)
		close(frames)
	}()

	for f := range frames {
		if !viewer.ShouldClose() {
			viewer.RenderFrame(f)
		}
	}
	return <-solveErr
}

func domainCenter(cfg *config.Config) vector.Vec3 {
	return vector.Vec3{
		float64(cfg.MeshNumCellsX) * cfg.MeshCellWidth / 2,
		float64(cfg.MeshNumCellsY) * cfg.MeshCellWidth / 2,
		float64(cfg.MeshNumCellsZ) * cfg.MeshCellWidth / 2,
	}
}

func domainExtent(cfg *config.Config) float64 {
	extent := float64(cfg.MeshNumCellsX) * cfg.MeshCellWidth
	if e := float64(cfg.MeshNumCellsY) * cfg.MeshCellWidth; e > extent {
		extent = e
	}
	if e := float64(cfg.MeshNumCellsZ) * cfg.MeshCellWidth; e > extent {
		extent = e
	}
	return extent
}

func boundaryConditionsFromNames(names [6]string) ([6]boundary.BoundaryCondition, error) {
	var bc [6]boundary.BoundaryCondition
	for i, name := range names {
		cond, err := boundaryConditionByName(name)
		if err != nil {
			return bc, err
		}
		bc[i] = cond
	}
	return bc, nil
}

func boundaryConditionByName(name string) (boundary.BoundaryCondition, error) {
	switch name {
	case "reflecting":
		return boundary.Reflecting{}, nil
	case "sticky":
		return boundary.Sticky{}, nil
	case "free-slip":
		return boundary.FreeSlip{}, nil
	case "open":
		return boundary.Open{}, nil
	default:
		return nil, fmt.Errorf("solve: unknown boundary condition %q", name)
	}
}
