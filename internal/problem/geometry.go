// Package problem builds the distributed linear system the benchmark solves:
// a 27-point stencil operator on a regular 3-D grid, partitioned into z-axis
// slabs across the worker group, with halo planes exchanged between
// neighboring ranks.
package problem

import "fmt"

// Geometry describes one worker's slab of the global grid. The global grid is
// nx × ny × (nz · size); rank r owns planes [r·nz, (r+1)·nz).
type Geometry struct {
	NX, NY, NZ int // local dimensions
	Rank, Size int
	GlobalNZ   int
	ZBase      int // first global z plane owned by this rank
}

func NewGeometry(nx, ny, nz, rank, size int) (*Geometry, error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, fmt.Errorf("problem dimensions must be positive, got %dx%dx%d", nx, ny, nz)
	}
	if size < 1 || rank < 0 || rank >= size {
		return nil, fmt.Errorf("invalid rank %d for group size %d", rank, size)
	}
	return &Geometry{
		NX: nx, NY: ny, NZ: nz,
		Rank: rank, Size: size,
		GlobalNZ: nz * size,
		ZBase:    rank * nz,
	}, nil
}

// LocalRows is the number of grid points this rank owns.
func (g *Geometry) LocalRows() int { return g.NX * g.NY * g.NZ }

// PlaneSize is the number of points in one z plane, the unit of halo exchange.
func (g *Geometry) PlaneSize() int { return g.NX * g.NY }

// HasBelow reports whether a neighbor rank owns the plane under this slab.
func (g *Geometry) HasBelow() bool { return g.Rank > 0 }

// HasAbove reports whether a neighbor rank owns the plane over this slab.
func (g *Geometry) HasAbove() bool { return g.Rank < g.Size-1 }

// Index maps local coordinates to a column index. Interior points (iz in
// [0,NZ)) map to [0, LocalRows); the halo plane below (iz == -1) and above
// (iz == NZ) map past the interior, below first.
func (g *Geometry) Index(ix, iy, iz int) int {
	switch {
	case iz >= 0 && iz < g.NZ:
		return ix + g.NX*(iy+g.NY*iz)
	case iz == -1:
		return g.LocalRows() + ix + g.NX*iy
	case iz == g.NZ:
		off := g.LocalRows()
		if g.HasBelow() {
			off += g.PlaneSize()
		}
		return off + ix + g.NX*iy
	}
	panic(fmt.Sprintf("problem: z index %d outside halo range [-1,%d]", iz, g.NZ))
}

// Columns is the length of vectors that carry halo planes.
func (g *Geometry) Columns() int {
	cols := g.LocalRows()
	if g.HasBelow() {
		cols += g.PlaneSize()
	}
	if g.HasAbove() {
		cols += g.PlaneSize()
	}
	return cols
}
