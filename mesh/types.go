// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh implements the hexahedral/tetrahedral mesh model, its
// boundary-quad adjacency table, level-set construction and quadrilateral
// extraction.
//
// Labels are a tagged variant (Region + a Marked flag) rather than a
// signed-integer convention (±2/±3 via trick_matrix); the ±-encoding is
// isolated to the IO layer (ioformat), which is the only place that needs
// to round-trip it. Likewise vertex references are 0-based throughout this
// package; the 1-based convention used by .mesh files is an ioformat
// concern only.
package mesh

import (
	"github.com/cpmech/gosl/utl"

	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// Region distinguishes the two sides of the interface: Exterior (outside
// Ω) and Interior (inside Ω). The numeric values match the .mesh label
// convention (2, 3) so ioformat's signed-label round trip is a direct
// cast.
type Region int

const (
	Exterior Region = 2
	Interior Region = 3
)

// CellLabel is the tagged variant behind the {2,3,-2,-3} signed-integer
// wire convention: a Region plus an independent "matrix-trick" marker bit,
// used only when `trick_matrix` is enabled in the configuration.
type CellLabel struct {
	Region Region
	Marked bool
}

// Vertex is a 3D point carrying one reusable scalar `Value` field, used
// for either a level-set sample or (later) a metric size.
type Vertex struct {
	X, Y, Z float64
	Value   float64
}

// HexMesh is a uniform grid of (Nx-1)(Ny-1)(Nz-1) hexahedra over Nx*Ny*Nz
// vertices. Hexes store 8 vertex indices (0-based) and a CellLabel.
type HexMesh struct {
	Nx, Ny, Nz       int
	Xmin, Ymin, Zmin float64
	DX, DY, DZ       float64
	Vertices         []Vertex
	HexVerts         [][8]int
	HexLabels        []CellLabel
}

// VertexIndex returns the linear index of grid vertex (a,b,c), 0-based on
// every axis.
func (m *HexMesh) VertexIndex(a, b, c int) int {
	return (a*m.Ny+b)*m.Nz + c
}

// NHex returns the number of hexahedra.
func (m *HexMesh) NHex() int { return (m.Nx - 1) * (m.Ny - 1) * (m.Nz - 1) }

// NewHexMesh builds the uniform grid over the given box. It fails
// with InvalidMesh if any of nx, ny, nz is below 3, the minimum needed so
// every box face carries at least one interior normal.
func NewHexMesh(xmin, ymin, zmin, xmax, ymax, zmax float64, nx, ny, nz int) (*HexMesh, error) {
	const comp = "mesh.NewHexMesh"
	if nx < 3 || ny < 3 || nz < 3 {
		return nil, mpderr.New(mpderr.InvalidMesh, comp, [3]int{nx, ny, nz}, "n_x, n_y, n_z must each be >= 3")
	}
	m := &HexMesh{
		Nx: nx, Ny: ny, Nz: nz,
		Xmin: xmin, Ymin: ymin, Zmin: zmin,
		DX: (xmax - xmin) / float64(nx-1),
		DY: (ymax - ymin) / float64(ny-1),
		DZ: (zmax - zmin) / float64(nz-1),
	}
	xs := utl.LinSpace(xmin, xmax, nx)
	ys := utl.LinSpace(ymin, ymax, ny)
	zs := utl.LinSpace(zmin, zmax, nz)
	m.Vertices = make([]Vertex, nx*ny*nz)
	for a := 0; a < nx; a++ {
		for b := 0; b < ny; b++ {
			for c := 0; c < nz; c++ {
				m.Vertices[m.VertexIndex(a, b, c)] = Vertex{X: xs[a], Y: ys[b], Z: zs[c]}
			}
		}
	}

	nhex := (nx - 1) * (ny - 1) * (nz - 1)
	m.HexVerts = make([][8]int, 0, nhex)
	for ci := 0; ci < nx-1; ci++ {
		for cj := 0; cj < ny-1; cj++ {
			for ck := 0; ck < nz-1; ck++ {
				m.HexVerts = append(m.HexVerts, [8]int{
					m.VertexIndex(ci, cj, ck),
					m.VertexIndex(ci+1, cj, ck),
					m.VertexIndex(ci+1, cj+1, ck),
					m.VertexIndex(ci, cj+1, ck),
					m.VertexIndex(ci, cj, ck+1),
					m.VertexIndex(ci+1, cj, ck+1),
					m.VertexIndex(ci+1, cj+1, ck+1),
					m.VertexIndex(ci, cj+1, ck+1),
				})
			}
		}
	}
	m.HexLabels = make([]CellLabel, len(m.HexVerts))
	return m, nil
}

// HexCoord converts a linear hex index back into its (ci,cj,ck) grid
// coordinate (all 0-based, ci in [0,Nx-2] etc.), the inverse of the
// row-major traversal NewHexMesh used to build HexVerts.
func (m *HexMesh) HexCoord(hexIdx int) (ci, cj, ck int) {
	nj, nk := m.Ny-1, m.Nz-1
	ck = hexIdx % nk
	t := hexIdx / nk
	cj = t % nj
	ci = t / nj
	return
}

// HexAt returns the linear index of the hex at grid coordinate (ci,cj,ck),
// or -1 if out of range.
func (m *HexMesh) HexAt(ci, cj, ck int) int {
	if ci < 0 || ci >= m.Nx-1 || cj < 0 || cj >= m.Ny-1 || ck < 0 || ck >= m.Nz-1 {
		return -1
	}
	return (ci*(m.Ny-1)+cj)*(m.Nz-1) + ck
}

// Centroid approximates a hex's centroid as vertex 1 (the min corner)
// plus half the cell diagonal.
func (m *HexMesh) Centroid(hexIdx int) Vertex {
	v0 := m.Vertices[m.HexVerts[hexIdx][0]]
	return Vertex{X: v0.X + m.DX/2, Y: v0.Y + m.DY/2, Z: v0.Z + m.DZ/2}
}

// Tetrahedron is a 4-vertex index tuple (0-based), used both by TetMesh
// and by the hex-path's internal tetrahedralisation for quadrature.
type Tetrahedron [4]int

// TetMesh holds vertices (with a per-vertex scalar), edges, triangles and
// tetrahedra. Boundary triangles are tracked separately as the label-10
// interface, mirroring HexMesh's boundary-quad adjacency.
type TetMesh struct {
	Vertices          []Vertex
	Edges             [][2]int
	Triangles         [][3]int
	Tetrahedra        []Tetrahedron
	BoundaryTriangles []int // indices into Triangles labeled 10
}

// Validate checks the documented invariants: the count of label-10
// (boundary) elements must be self-consistent; here that every boundary
// triangle index is in range and triangles reference valid vertices.
func (t *TetMesh) Validate() error {
	const comp = "mesh.TetMesh.Validate"
	for _, bi := range t.BoundaryTriangles {
		if bi < 0 || bi >= len(t.Triangles) {
			return mpderr.New(mpderr.InvalidMesh, comp, bi, "boundary triangle index out of range")
		}
	}
	for _, tri := range t.Triangles {
		for _, v := range tri {
			if v < 0 || v >= len(t.Vertices) {
				return mpderr.New(mpderr.InvalidMesh, comp, v, "triangle vertex index out of range")
			}
		}
	}
	for _, tet := range t.Tetrahedra {
		for _, v := range tet {
			if v < 0 || v >= len(t.Vertices) {
				return mpderr.New(mpderr.InvalidMesh, comp, v, "tetrahedron vertex index out of range")
			}
		}
	}
	return nil
}
