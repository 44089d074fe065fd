package tensor

//Mat3 holds the second-order tensors the solver carries per particle:
//the deformation gradient F, the velocity gradient grad_v, and the
//Cauchy stress and strain tensors. Row-major, 9 components.

import (
	"fmt"
	"math"

	vector "diesel.com/mpm/vector"
)

const MAT3 = 3

type Mat3 [9]float64

func mapN(i, j, n int) (int, error) {
	if i < 0 || j < 0 || i >= n || j >= n {
		return 0, fmt.Errorf("tensor: index (%d,%d) out of range for %dx%d matrix", i, j, n, n)
	}
	return i*n + j, nil
}

//Identity returns the 3x3 identity tensor
func Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

func (m *Mat3) At(i, j int) float64 {
	idx, err := mapN(i, j, MAT3)
	if err != nil {
		return 0
	}
	return m[idx]
}

func (m *Mat3) Set(i, j int, v float64) {
	idx, err := mapN(i, j, MAT3)
	if err != nil {
		return
	}
	m[idx] = v
}

func Add(a, b Mat3) Mat3 {
	var r Mat3
	for i := range a {
		r[i] = a[i] + b[i]
	}
	return r
}

func Scale(a Mat3, s float64) Mat3 {
	var r Mat3
	for i := range a {
		r[i] = a[i] * s
	}
	return r
}

//CrossMat multiplies two 3x3 tensors (matrix product, not the elementwise
//cross the teacher's name suggests - kept for grounding with the original
//call sites).
func (m *Mat3) CrossMat(b *Mat3) (Mat3, error) {
	var r Mat3
	for i := 0; i < MAT3; i++ {
		for j := 0; j < MAT3; j++ {
			var sum float64
			for k := 0; k < MAT3; k++ {
				ik, _ := mapN(i, k, MAT3)
				kj, _ := mapN(k, j, MAT3)
				sum += m[ik] * b[kj]
			}
			idx, _ := mapN(i, j, MAT3)
			r[idx] = sum
		}
	}
	return r, nil
}

//CrossVec multiplies the tensor by a column vector
func (m *Mat3) CrossVec(v *vector.Vec3) (vector.Vec3, error) {
	var r vector.Vec3
	for i := 0; i < MAT3; i++ {
		var sum float64
		for j := 0; j < MAT3; j++ {
			idx, _ := mapN(i, j, MAT3)
			sum += m[idx] * v[j]
		}
		r[i] = sum
	}
	return r, nil
}

//Transpose returns the transpose of the tensor
func (m *Mat3) Transpose() Mat3 {
	var r Mat3
	for i := 0; i < MAT3; i++ {
		for j := 0; j < MAT3; j++ {
			ij, _ := mapN(i, j, MAT3)
			ji, _ := mapN(j, i, MAT3)
			r[ji] = m[ij]
		}
	}
	return r
}

//Det returns the determinant of the tensor by closed-form 3x3 cofactor
//expansion. The solver multiplies each particle's volume by the
//determinant of I + dt*grad_v every step.
func (m *Mat3) Det() float64 {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]

	return a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
}

//Inverse returns the matrix inverse, or the zero tensor if singular.
func (m *Mat3) Inverse() Mat3 {
	det := m.Det()
	if math.Abs(det) < 1e-15 {
		return Mat3{}
	}

	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]

	invDet := 1.0 / det

	return Mat3{
		(e*i - f*h) * invDet, (c*h - b*i) * invDet, (b*f - c*e) * invDet,
		(f*g - d*i) * invDet, (a*i - c*g) * invDet, (c*d - a*f) * invDet,
		(d*h - e*g) * invDet, (b*g - a*h) * invDet, (a*e - b*d) * invDet,
	}
}

//Trace returns the sum of the diagonal entries
func (m *Mat3) Trace() float64 {
	return m[0] + m[4] + m[8]
}

func (m *Mat3) String() string {
	return fmt.Sprintf("[ %f %f %f ]\n[ %f %f %f ]\n[ %f %f %f ]\n",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}
