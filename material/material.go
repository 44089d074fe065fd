package material

//StressModel is the constitutive contract the time-stepping driver calls
//once per particle per step, after the velocity gradient has been
//gathered and the deformation gradient advanced: given the updated
//deformation gradient, produce the Cauchy stress (and, for models that
//track it, the strain) the internal-force kernel will scatter back to
//the mesh next step.

import (
	"fmt"
	"math"

	tensor "diesel.com/mpm/tensor"
)

type Model interface {
	//Update returns the Cauchy stress and strain for the given
	//deformation gradient.
	Update(F tensor.Mat3) (stress, strain tensor.Mat3)
}

//allocators is a factory map, keyed by material name, mirroring the
//style continuum-mechanics solvers use to let each constitutive model
//register itself without the registry package importing every model type.
var allocators = make(map[string]func(params map[string]float64) (Model, error))

func init() {
	allocators["linear-elastic"] = newLinearElastic
	allocators["neo-hookean"] = newNeoHookean
}

//Registry resolves material ids used by particles to a concrete Model,
//built once at problem initialization from the configured material model.
type Registry struct {
	models map[int]Model
}

func NewRegistry() *Registry {
	return &Registry{models: make(map[int]Model)}
}

//Register builds the named model with params and binds it to materialId.
func (r *Registry) Register(materialId int, name string, params map[string]float64) error {
	alloc, ok := allocators[name]
	if !ok {
		return fmt.Errorf("material: unknown model %q", name)
	}
	m, err := alloc(params)
	if err != nil {
		return fmt.Errorf("material: building %q: %w", name, err)
	}
	r.models[materialId] = m
	return nil
}

func (r *Registry) Lookup(materialId int) (Model, error) {
	m, ok := r.models[materialId]
	if !ok {
		return nil, fmt.Errorf("material: no model registered for material id %d", materialId)
	}
	return m, nil
}

//LinearElastic is small-strain Hookean: stress = 2*mu*strain + lambda*tr(strain)*I,
//with strain taken as the symmetric part of (F - I).
type LinearElastic struct {
	Lambda float64
	Mu     float64
}

func newLinearElastic(params map[string]float64) (Model, error) {
	lambda, ok1 := params["lambda"]
	mu, ok2 := params["mu"]
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("linear-elastic: requires lambda and mu parameters")
	}
	return &LinearElastic{Lambda: lambda, Mu: mu}, nil
}

func (m *LinearElastic) Update(F tensor.Mat3) (tensor.Mat3, tensor.Mat3) {
	id := tensor.Identity()
	disp := tensor.Add(F, tensor.Scale(id, -1))
	strain := tensor.Scale(tensor.Add(disp, disp.Transpose()), 0.5)

	trace := strain.Trace()
	stress := tensor.Add(tensor.Scale(strain, 2*m.Mu), tensor.Scale(id, m.Lambda*trace))

	return stress, strain
}

//NeoHookean is a compressible neo-Hookean solid:
//  sigma = (mu/J)*(F*F^T - I) + (lambda*ln(J)/J)*I
//where J = det(F). This is the standard large-deformation model used for
//soft, nearly-incompressible materials (snow, rubber, foam) in MPM solvers.
type NeoHookean struct {
	Lambda float64
	Mu     float64
}

func newNeoHookean(params map[string]float64) (Model, error) {
	lambda, ok1 := params["lambda"]
	mu, ok2 := params["mu"]
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("neo-hookean: requires lambda and mu parameters")
	}
	return &NeoHookean{Lambda: lambda, Mu: mu}, nil
}

func (m *NeoHookean) Update(F tensor.Mat3) (tensor.Mat3, tensor.Mat3) {
	J := F.Det()
	if J <= 0 {
		J = 1e-9
	}

	FT := F.Transpose()
	B, _ := F.CrossMat(&FT)

	id := tensor.Identity()
	dev := tensor.Add(B, tensor.Scale(id, -1))

	logJ := safeLog(J)
	stress := tensor.Add(
		tensor.Scale(dev, m.Mu/J),
		tensor.Scale(id, m.Lambda*logJ/J),
	)

	//Green-Lagrange strain reported alongside stress for diagnostics/snapshots
	C, _ := FT.CrossMat(&F)
	strain := tensor.Scale(tensor.Add(C, tensor.Scale(id, -1)), 0.5)

	return stress, strain
}

func safeLog(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Log(x)
}
