package mesh

import (
	"math"
	"testing"

	vector "diesel.com/mpm/vector"
)

func newTestGrid() *UniformGrid {
	return NewUniformGrid(vector.Vec3{0, 0, 0}, 1.0, 2, 2, 2)
}

func TestTotalCounts(t *testing.T) {
	g := newTestGrid()
	if g.TotalNumCells() != 8 {
		t.Errorf("expected 8 cells, got %d", g.TotalNumCells())
	}
	if g.TotalNumNodes() != 27 {
		t.Errorf("expected 27 nodes, got %d", g.TotalNumNodes())
	}
	if g.NodesPerCell() != 8 {
		t.Errorf("expected 8 nodes per cell, got %d", g.NodesPerCell())
	}
}

func TestLocateCell(t *testing.T) {
	g := newTestGrid()

	cellId, ok := g.LocateCell(vector.Vec3{0.5, 0.5, 0.5})
	if !ok || cellId != g.cellId(0, 0, 0) {
		t.Errorf("expected cell (0,0,0), got id=%d ok=%v", cellId, ok)
	}

	_, ok = g.LocateCell(vector.Vec3{-0.1, 0, 0})
	if ok {
		t.Errorf("expected out-of-bounds position to report ok=false")
	}

	_, ok = g.LocateCell(vector.Vec3{2.5, 0, 0})
	if ok {
		t.Errorf("expected beyond-grid position to report ok=false")
	}
}

func TestPartitionOfUnity(t *testing.T) {
	g := newTestGrid()
	local := vector.Vec3{0.37, 0.81, 0.12}

	sum := 0.0
	for i := 0; i < 8; i++ {
		sum += g.ShapeFunctionValue(local, i)
	}
	if math.Abs(sum-1.0) > 1e-12 {
		t.Errorf("expected shape functions to sum to 1, got %f", sum)
	}
}

func TestShapeFunctionAtCorners(t *testing.T) {
	g := newTestGrid()

	if v := g.ShapeFunctionValue(vector.Vec3{0, 0, 0}, 0); math.Abs(v-1.0) > 1e-12 {
		t.Errorf("node 0 should be 1 at its own corner, got %f", v)
	}
	if v := g.ShapeFunctionValue(vector.Vec3{0, 0, 0}, 7); math.Abs(v) > 1e-12 {
		t.Errorf("node 7 should be 0 at node 0's corner, got %f", v)
	}
}

func TestMapPhysicalToReferenceFrame(t *testing.T) {
	g := newTestGrid()
	cellId, _ := g.LocateCell(vector.Vec3{1.25, 0.5, 0.75})
	local := g.MapPhysicalToReferenceFrame(vector.Vec3{1.25, 0.5, 0.75}, cellId)

	expected := vector.Vec3{0.25, 0.5, 0.75}
	if !vector.VecEquals(local, expected) {
		t.Errorf("expected local coords %v, got %v", expected, local)
	}
}

func TestCellNodeIdsDistinct(t *testing.T) {
	g := newTestGrid()
	ids := g.CellNodeIds(0)

	seen := make(map[int]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate node id %d in cell node list", id)
		}
		seen[id] = true
	}
	if len(ids) != 8 {
		t.Errorf("expected 8 node ids, got %d", len(ids))
	}
}

func TestParticlesPerCell(t *testing.T) {
	if ParticlesPerCell(2) != 8 {
		t.Errorf("expected 8 particles per cell at order 2, got %d", ParticlesPerCell(2))
	}
}

func TestBoundaryNodesCount(t *testing.T) {
	g := newTestGrid()

	for face := FaceMinX; face <= FaceMaxZ; face++ {
		ids := g.BoundaryNodes(face)
		if len(ids) != 9 {
			t.Errorf("face %d: expected 9 boundary nodes on a 2x2x2 grid, got %d", face, len(ids))
		}
	}
}

func TestFaceNormalsAreUnitAndOutward(t *testing.T) {
	cases := map[int]vector.Vec3{
		FaceMinX: {-1, 0, 0},
		FaceMaxX: {1, 0, 0},
		FaceMinY: {0, -1, 0},
		FaceMaxY: {0, 1, 0},
		FaceMinZ: {0, 0, -1},
		FaceMaxZ: {0, 0, 1},
	}
	for face, expected := range cases {
		if n := FaceNormal(face); !vector.VecEquals(n, expected) {
			t.Errorf("face %d: expected normal %v, got %v", face, expected, n)
		}
	}
}
