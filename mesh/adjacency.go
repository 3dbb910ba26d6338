// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// Quad is an oriented interface quadrilateral: four 0-based vertex indices
// taken from the exterior hex's face in faceTable order, so its
// right-hand-rule normal points out of the exterior hex, into the interior
// hex.
type Quad struct {
	Vertices [4]int
}

// AdjacencyRecord pairs an extracted quad with the two hexes it separates.
// HexExterior is always labeled Exterior; HexInterior is always
// labeled Interior (both invariants, checked by ValidateAdjacency).
type AdjacencyRecord struct {
	QuadIndex   int
	HexExterior int
	HexInterior int
}

// faceDir names one of the six axis-aligned hex faces.
type faceDir struct {
	dci, dcj, dck int    // neighbor offset
	corners       [4]int // 1-based corner indices, fixed per-face ordering
}

// faceTable holds the six fixed per-face vertex orderings, emitted
// verbatim: each is counter-clockwise when viewed from outside the hex whose
// corners it lists, i.e. from the neighbor across that face.
var faceTable = [6]faceDir{
	{-1, 0, 0, [4]int{1, 5, 8, 4}}, // -x
	{+1, 0, 0, [4]int{2, 3, 7, 6}}, // +x
	{0, -1, 0, [4]int{1, 2, 6, 5}}, // -y
	{0, +1, 0, [4]int{3, 4, 8, 7}}, // +y
	{0, 0, -1, [4]int{1, 4, 3, 2}}, // -z
	{0, 0, +1, [4]int{5, 6, 7, 8}}, // +z
}

// ExtractQuads walks every Exterior-labeled hex and, for each of its six
// axis-aligned neighbors labeled Interior, emits an oriented interface quad
// plus the adjacency record that names the (exterior, interior) hex pair.
// The two-pass shape (count, then fill) guarantees deterministic,
// idempotent ordering: exterior hexes are visited in HexVerts order, and
// each hex's six faces are visited in the faceTable order above.
func ExtractQuads(m *HexMesh) ([]Quad, []AdjacencyRecord, error) {
	const comp = "mesh.ExtractQuads"
	for _, lbl := range m.HexLabels {
		if lbl.Region != Exterior && lbl.Region != Interior {
			return nil, nil, mpderr.New(mpderr.InvalidMesh, comp, lbl.Region, "hex label must be Exterior or Interior")
		}
	}

	// pass 1: count
	count := 0
	for h := range m.HexVerts {
		if m.HexLabels[h].Region != Exterior {
			continue
		}
		ci, cj, ck := m.HexCoord(h)
		for _, f := range faceTable {
			nb := m.HexAt(ci+f.dci, cj+f.dcj, ck+f.dck)
			if nb >= 0 && m.HexLabels[nb].Region == Interior {
				count++
			}
		}
	}

	// pass 2: fill
	quads := make([]Quad, 0, count)
	adj := make([]AdjacencyRecord, 0, count)
	for h := range m.HexVerts {
		if m.HexLabels[h].Region != Exterior {
			continue
		}
		ci, cj, ck := m.HexCoord(h)
		for _, f := range faceTable {
			nb := m.HexAt(ci+f.dci, cj+f.dcj, ck+f.dck)
			if nb < 0 || m.HexLabels[nb].Region != Interior {
				continue
			}
			var q Quad
			for k, corner1 := range f.corners {
				q.Vertices[k] = m.HexVerts[h][corner1-1]
			}
			qi := len(quads)
			quads = append(quads, q)
			adj = append(adj, AdjacencyRecord{QuadIndex: qi, HexExterior: h, HexInterior: nb})
		}
	}

	if len(quads) != len(adj) {
		return nil, nil, mpderr.New(mpderr.InvalidMesh, comp, [2]int{len(quads), len(adj)},
			"extracted quad count must equal adjacency record count")
	}
	return quads, adj, nil
}

// ValidateAdjacency checks the adjacency invariants: every record's
// HexExterior must be labeled Exterior and HexInterior labeled Interior, and
// the adjacency sequence must bijects exactly the extracted quads.
func ValidateAdjacency(m *HexMesh, quads []Quad, adj []AdjacencyRecord) error {
	const comp = "mesh.ValidateAdjacency"
	if len(adj) != len(quads) {
		return mpderr.New(mpderr.InvalidMesh, comp, [2]int{len(adj), len(quads)},
			"adjacency length must equal the number of label-10 quads")
	}
	seen := make([]bool, len(quads))
	for _, r := range adj {
		if r.QuadIndex < 0 || r.QuadIndex >= len(quads) {
			return mpderr.New(mpderr.InvalidMesh, comp, r.QuadIndex, "adjacency quad index out of range")
		}
		if seen[r.QuadIndex] {
			return mpderr.New(mpderr.InvalidMesh, comp, r.QuadIndex, "adjacency quad index repeated")
		}
		seen[r.QuadIndex] = true
		if m.HexLabels[r.HexExterior].Region != Exterior {
			return mpderr.New(mpderr.InvalidMesh, comp, r.HexExterior, "adjacency hex_exterior must be labeled Exterior")
		}
		if m.HexLabels[r.HexInterior].Region != Interior {
			return mpderr.New(mpderr.InvalidMesh, comp, r.HexInterior, "adjacency hex_interior must be labeled Interior")
		}
	}
	return nil
}

// OuterBoundaryQuadCount returns the count of axis-aligned 1x1x1 faces on
// the six outer surfaces of the uniform grid, i.e.
// 2*((Nx-1)(Ny-1)+(Nx-1)(Nz-1)+(Ny-1)(Nz-1)) — the sanity baseline
// distinguishing the box's own outer surface from interior Ω interface
// quads (which ExtractQuads alone reports).
func (m *HexMesh) OuterBoundaryQuadCount() int {
	nx, ny, nz := m.Nx-1, m.Ny-1, m.Nz-1
	return 2 * (nx*ny + nx*nz + ny*nz)
}

// TetrahedralizeInterior splits every Interior-labeled hex into six
// tetrahedra, for use by the overlap-matrix engine's quadrature: each
// pairwise integral over Ω is decomposed into integrals over the
// tetrahedra of the interior.
func TetrahedralizeInterior(m *HexMesh) []Tetrahedron {
	// Canonical 6-tet decomposition of a hexahedron with corners ordered
	// 0..7 as in HexVerts.
	var splits = [6][4]int{
		{0, 1, 2, 6},
		{0, 2, 3, 6},
		{0, 3, 7, 6},
		{0, 7, 4, 6},
		{0, 4, 5, 6},
		{0, 5, 1, 6},
	}
	var tets []Tetrahedron
	for h, verts := range m.HexVerts {
		if m.HexLabels[h].Region != Interior {
			continue
		}
		for _, s := range splits {
			tets = append(tets, Tetrahedron{verts[s[0]], verts[s[1]], verts[s[2]], verts[s[3]]})
		}
	}
	return tets
}
