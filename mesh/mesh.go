package mesh

//UniformGrid is the background mesh the solver scatters particle state
//onto and gathers updated nodal state from. It is a fixed uniform
//trilinear-hex grid: cells never move, split, or merge; only particle
//positions and nodal field values change between steps. Cell and node
//indexing follows the same row-major-bucket arithmetic the teacher's
//voxel hash used for its spatial lookup, generalized here from a
//nearest-neighbor particle bucket into an interpolation element.

import (
	"fmt"

	vector "diesel.com/mpm/vector"
)

const NodesPerHex = 8
const SpatialDimension = 3

//Mesh is the contract the solver drives every time step: locate a
//particle's containing cell and its local (reference-frame) coordinates,
//then evaluate the nodal basis used to scatter/gather particle state.
type Mesh interface {
	TotalNumCells() int
	TotalNumNodes() int
	NodesPerCell() int
	SpatialDim() int

	LocateCell(pos vector.Vec3) (cellId int, ok bool)
	CellNodeIds(cellId int) []int
	NodePosition(nodeId int) vector.Vec3

	MapPhysicalToReferenceFrame(pos vector.Vec3, cellId int) vector.Vec3

	ShapeFunctionValue(localCoord vector.Vec3, nodeLocalIndex int) float64
	ShapeFunctionGradient(localCoord vector.Vec3, nodeLocalIndex int, cellId int) vector.Vec3
}

//UniformGrid implements Mesh over an axis-aligned box of equal-sized
//cubic cells, (NumCellsX+1)*(NumCellsY+1)*(NumCellsZ+1) nodes.
type UniformGrid struct {
	Origin     vector.Vec3
	CellWidth  float64
	NumCellsX  int
	NumCellsY  int
	NumCellsZ  int
}

func NewUniformGrid(origin vector.Vec3, cellWidth float64, nx, ny, nz int) *UniformGrid {
	return &UniformGrid{
		Origin:    origin,
		CellWidth: cellWidth,
		NumCellsX: nx,
		NumCellsY: ny,
		NumCellsZ: nz,
	}
}

func (g *UniformGrid) TotalNumCells() int {
	return g.NumCellsX * g.NumCellsY * g.NumCellsZ
}

func (g *UniformGrid) TotalNumNodes() int {
	return (g.NumCellsX + 1) * (g.NumCellsY + 1) * (g.NumCellsZ + 1)
}

func (g *UniformGrid) NodesPerCell() int {
	return NodesPerHex
}

func (g *UniformGrid) SpatialDim() int {
	return SpatialDimension
}

//ParticlesPerCell returns order^3, the number of candidate positions an
//Initializer tests per cell for the given sampling order.
func ParticlesPerCell(order int) int {
	return order * order * order
}

//cellIndices maps a cell id to its (i,j,k) lattice coordinates, row-major
//in z, matching the nesting the teacher used to build its voxel buckets.
func (g *UniformGrid) cellIndices(cellId int) (i, j, k int) {
	i = cellId / (g.NumCellsY * g.NumCellsZ)
	rem := cellId % (g.NumCellsY * g.NumCellsZ)
	j = rem / g.NumCellsZ
	k = rem % g.NumCellsZ
	return
}

func (g *UniformGrid) cellId(i, j, k int) int {
	return i*g.NumCellsY*g.NumCellsZ + j*g.NumCellsZ + k
}

func (g *UniformGrid) nodeId(i, j, k int) int {
	ny := g.NumCellsY + 1
	nz := g.NumCellsZ + 1
	return i*ny*nz + j*nz + k
}

//LocateCell returns the cell id containing pos, or ok=false if pos falls
//outside the grid's bounding box.
func (g *UniformGrid) LocateCell(pos vector.Vec3) (int, bool) {
	rel := vector.Sub(pos, g.Origin)
	i := int(rel[0] / g.CellWidth)
	j := int(rel[1] / g.CellWidth)
	k := int(rel[2] / g.CellWidth)

	if i < 0 || j < 0 || k < 0 || i >= g.NumCellsX || j >= g.NumCellsY || k >= g.NumCellsZ {
		return 0, false
	}
	if rel[0] < 0 || rel[1] < 0 || rel[2] < 0 {
		return 0, false
	}

	return g.cellId(i, j, k), true
}

//CellNodeIds returns the 8 global node ids of cellId in a fixed local
//ordering: node 0 is the (i,j,k) corner, walking i fastest, then j, then k,
//with the bit convention (local index bit0=di, bit1=dj, bit2=dk).
func (g *UniformGrid) CellNodeIds(cellId int) []int {
	i, j, k := g.cellIndices(cellId)
	ids := make([]int, NodesPerHex)
	for local := 0; local < NodesPerHex; local++ {
		di := local & 1
		dj := (local >> 1) & 1
		dk := (local >> 2) & 1
		ids[local] = g.nodeId(i+di, j+dj, k+dk)
	}
	return ids
}

func (g *UniformGrid) NodePosition(nodeId int) vector.Vec3 {
	ny := g.NumCellsY + 1
	nz := g.NumCellsZ + 1
	i := nodeId / (ny * nz)
	rem := nodeId % (ny * nz)
	j := rem / nz
	k := rem % nz

	return vector.Vec3{
		g.Origin[0] + float64(i)*g.CellWidth,
		g.Origin[1] + float64(j)*g.CellWidth,
		g.Origin[2] + float64(k)*g.CellWidth,
	}
}

//MapPhysicalToReferenceFrame maps pos into [0,1]^3 local coordinates
//within cellId, with (0,0,0) at local node 0 and (1,1,1) at local node 7.
func (g *UniformGrid) MapPhysicalToReferenceFrame(pos vector.Vec3, cellId int) vector.Vec3 {
	i, j, k := g.cellIndices(cellId)
	origin := vector.Vec3{
		g.Origin[0] + float64(i)*g.CellWidth,
		g.Origin[1] + float64(j)*g.CellWidth,
		g.Origin[2] + float64(k)*g.CellWidth,
	}
	rel := vector.Sub(pos, origin)
	return vector.Scale(rel, 1.0/g.CellWidth)
}

//ShapeFunctionValue evaluates the trilinear basis for local node
//nodeLocalIndex at the given reference-frame coordinate.
func (g *UniformGrid) ShapeFunctionValue(local vector.Vec3, nodeLocalIndex int) float64 {
	di := nodeLocalIndex & 1
	dj := (nodeLocalIndex >> 1) & 1
	dk := (nodeLocalIndex >> 2) & 1

	nx := axisFactor(local[0], di)
	ny := axisFactor(local[1], dj)
	nz := axisFactor(local[2], dk)

	return nx * ny * nz
}

//ShapeFunctionGradient returns d(N)/d(physical), obtained by the chain
//rule from the reference-frame gradient scaled by 1/CellWidth (the
//Jacobian of a uniform cubic cell is CellWidth*I, constant over the cell).
func (g *UniformGrid) ShapeFunctionGradient(local vector.Vec3, nodeLocalIndex int, cellId int) vector.Vec3 {
	di := nodeLocalIndex & 1
	dj := (nodeLocalIndex >> 1) & 1
	dk := (nodeLocalIndex >> 2) & 1

	nx := axisFactor(local[0], di)
	ny := axisFactor(local[1], dj)
	nz := axisFactor(local[2], dk)

	dnx := axisDeriv(di)
	dny := axisDeriv(dj)
	dnz := axisDeriv(dk)

	invH := 1.0 / g.CellWidth

	return vector.Vec3{
		dnx * ny * nz * invH,
		nx * dny * nz * invH,
		nx * ny * dnz * invH,
	}
}

func axisFactor(t float64, side int) float64 {
	if side == 0 {
		return 1 - t
	}
	return t
}

func axisDeriv(side int) float64 {
	if side == 0 {
		return -1
	}
	return 1
}

//Face indices follow the (-x,+x,-y,+y,-z,+z) ordering the solver's
//boundary condition table uses.
const (
	FaceMinX = 0
	FaceMaxX = 1
	FaceMinY = 2
	FaceMaxY = 3
	FaceMinZ = 4
	FaceMaxZ = 5
)

//FaceNormal returns the outward unit normal of the given face.
func FaceNormal(face int) vector.Vec3 {
	switch face {
	case FaceMinX:
		return vector.Vec3{-1, 0, 0}
	case FaceMaxX:
		return vector.Vec3{1, 0, 0}
	case FaceMinY:
		return vector.Vec3{0, -1, 0}
	case FaceMaxY:
		return vector.Vec3{0, 1, 0}
	case FaceMinZ:
		return vector.Vec3{0, 0, -1}
	case FaceMaxZ:
		return vector.Vec3{0, 0, 1}
	}
	return vector.Vec3{}
}

//BoundaryNodes returns the global node ids lying on the given face.
func (g *UniformGrid) BoundaryNodes(face int) []int {
	nx, ny, nz := g.NumCellsX+1, g.NumCellsY+1, g.NumCellsZ+1
	var ids []int

	switch face {
	case FaceMinX, FaceMaxX:
		i := 0
		if face == FaceMaxX {
			i = nx - 1
		}
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				ids = append(ids, g.nodeId(i, j, k))
			}
		}
	case FaceMinY, FaceMaxY:
		j := 0
		if face == FaceMaxY {
			j = ny - 1
		}
		for i := 0; i < nx; i++ {
			for k := 0; k < nz; k++ {
				ids = append(ids, g.nodeId(i, j, k))
			}
		}
	case FaceMinZ, FaceMaxZ:
		k := 0
		if face == FaceMaxZ {
			k = nz - 1
		}
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				ids = append(ids, g.nodeId(i, j, k))
			}
		}
	}

	return ids
}

func (g *UniformGrid) String() string {
	return fmt.Sprintf("UniformGrid{origin:%v width:%f cells:%dx%dx%d nodes:%d}",
		g.Origin, g.CellWidth, g.NumCellsX, g.NumCellsY, g.NumCellsZ, g.TotalNumNodes())
}
