// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_new_hex_mesh_rejects_small_grids(tst *testing.T) {
	chk.PrintTitle("hex mesh rejects n < 3")

	if _, err := NewHexMesh(-1, -1, -1, 1, 1, 1, 2, 5, 5); err == nil {
		tst.Errorf("nx=2 should be rejected")
	}
	if _, err := NewHexMesh(-1, -1, -1, 1, 1, 1, 5, 5, 5); err != nil {
		tst.Errorf("nx=ny=nz=5 should be accepted: %v", err)
	}
}

func Test_vertex_linearization(tst *testing.T) {
	chk.PrintTitle("vertex linearization and hex coordinate round trip")

	m, err := NewHexMesh(0, 0, 0, 4, 4, 4, 5, 5, 5)
	if err != nil {
		tst.Fatalf("mesh build failed: %v", err)
	}
	if m.VertexIndex(0, 0, 0) != 0 {
		tst.Errorf("origin vertex should be index 0")
	}
	if m.VertexIndex(1, 0, 0) != m.Ny*m.Nz {
		tst.Errorf("a-step should advance by Ny*Nz")
	}
	if len(m.Vertices) != 5*5*5 {
		tst.Errorf("expected %d vertices, got %d", 5*5*5, len(m.Vertices))
	}
	if m.NHex() != 4*4*4 {
		tst.Errorf("expected %d hexes, got %d", 4*4*4, m.NHex())
	}

	for h := 0; h < m.NHex(); h++ {
		ci, cj, ck := m.HexCoord(h)
		if m.HexAt(ci, cj, ck) != h {
			tst.Fatalf("hex coordinate round trip failed at h=%d: got (%d,%d,%d) -> %d", h, ci, cj, ck, m.HexAt(ci, cj, ck))
		}
	}
}

func Test_levelset_sphere_hydrogen_scenario(tst *testing.T) {
	chk.PrintTitle("hydrogen atom sphere guess")

	m, err := NewHexMesh(-4, -4, -4, 4, 4, 4, 5, 5, 5)
	if err != nil {
		tst.Fatalf("mesh build failed: %v", err)
	}
	shape, err := NewShape(ShapeSphere, 0, 0, 0, 1)
	if err != nil {
		tst.Fatalf("shape build failed: %v", err)
	}
	BuildLevelSetHex(m, shape)

	for h := 0; h < m.NHex(); h++ {
		c := m.Centroid(h)
		dist := math.Sqrt(c.X*c.X + c.Y*c.Y + c.Z*c.Z)
		wantInterior := dist < 1.0
		gotInterior := m.HexLabels[h].Region == Interior
		if wantInterior != gotInterior {
			tst.Errorf("hex %d centroid=%v dist=%v: want interior=%v got=%v", h, c, dist, wantInterior, gotInterior)
		}
	}
}

func Test_levelset_cube_signed_distance(tst *testing.T) {
	chk.PrintTitle("cube signed distance on symmetry axes")

	shape, err := NewShape(ShapeCube, 0, 0, 0, 2)
	if err != nil {
		tst.Fatalf("shape build failed: %v", err)
	}
	cases := []struct {
		x, y, z, want float64
	}{
		{1, 0, 0, 0},
		{-1, 0, 0, 0},
		{0, 0, 0, -1},
		{3, 0, 0, 2},
		{-3, 0, 0, 2},
	}
	tol := 1e-12
	for _, c := range cases {
		got := shape.SignedDistance(c.x, c.y, c.z)
		if math.Abs(got-c.want) > tol {
			tst.Errorf("Phi(%v,%v,%v) = %v, want %v", c.x, c.y, c.z, got, c.want)
		}
	}
}

func Test_new_shape_rejects_nonpositive_radius(tst *testing.T) {
	chk.PrintTitle("shape rejects r <= 0")

	if _, err := NewShape(ShapeSphere, 0, 0, 0, 0); err == nil {
		tst.Errorf("r=0 should be rejected")
	}
	if _, err := NewShape(ShapeSphere, 0, 0, 0, -1); err == nil {
		tst.Errorf("r=-1 should be rejected")
	}
}

// singleInteriorHex builds a 3x3x3-cell grid with only the single centre
// hex labeled Interior; the other 26 are Exterior. This is the minimal
// non-degenerate case for adjacency extraction: the centre hex's 6 faces
// are each shared with an Exterior neighbor, so extraction must produce
// exactly 6 quads, one per face, each in canonical order.
func singleInteriorHex(tst *testing.T) *HexMesh {
	m, err := NewHexMesh(0, 0, 0, 3, 3, 3, 4, 4, 4)
	if err != nil {
		tst.Fatalf("mesh build failed: %v", err)
	}
	for h := range m.HexLabels {
		m.HexLabels[h] = CellLabel{Region: Exterior}
	}
	centre := m.HexAt(1, 1, 1)
	m.HexLabels[centre] = CellLabel{Region: Interior}
	return m
}

func Test_extract_quads_single_interior_hex(tst *testing.T) {
	chk.PrintTitle("quad extraction around a single interior hex")

	m := singleInteriorHex(tst)
	quads, adj, err := ExtractQuads(m)
	if err != nil {
		tst.Fatalf("extraction failed: %v", err)
	}
	if len(quads) != 6 {
		tst.Fatalf("expected 6 interface quads around a single interior cell, got %d", len(quads))
	}
	if err := ValidateAdjacency(m, quads, adj); err != nil {
		tst.Errorf("adjacency invalid: %v", err)
	}
	centre := m.HexAt(1, 1, 1)
	for _, r := range adj {
		if r.HexInterior != centre {
			tst.Errorf("every adjacency record should point at the single interior hex, got %d", r.HexInterior)
		}
	}
}

func Test_extract_quads_idempotent(tst *testing.T) {
	chk.PrintTitle("adjacency builder is idempotent")

	m := singleInteriorHex(tst)
	q1, a1, err := ExtractQuads(m)
	if err != nil {
		tst.Fatalf("extraction failed: %v", err)
	}
	q2, a2, err := ExtractQuads(m)
	if err != nil {
		tst.Fatalf("extraction failed: %v", err)
	}
	if len(q1) != len(q2) || len(a1) != len(a2) {
		tst.Fatalf("two extraction runs produced different lengths")
	}
	for i := range q1 {
		if q1[i] != q2[i] {
			tst.Errorf("quad %d differs between runs: %v vs %v", i, q1[i], q2[i])
		}
		if a1[i] != a2[i] {
			tst.Errorf("adjacency record %d differs between runs: %v vs %v", i, a1[i], a2[i])
		}
	}
}

func Test_extract_quads_rejects_bad_label(tst *testing.T) {
	chk.PrintTitle("quad extraction rejects unknown hex labels")

	m := singleInteriorHex(tst)
	m.HexLabels[0] = CellLabel{Region: Region(99)}
	if _, _, err := ExtractQuads(m); err == nil {
		tst.Errorf("unknown label should be rejected as InvalidMesh")
	}
}

func Test_levelset_zero_crossing_on_extracted_quads(tst *testing.T) {
	chk.PrintTitle("level-set crosses zero across every extracted quad")

	m, err := NewHexMesh(-4, -4, -4, 4, 4, 4, 5, 5, 5)
	if err != nil {
		tst.Fatalf("mesh build failed: %v", err)
	}
	shape, err := NewShape(ShapeSphere, 0, 0, 0, 1)
	if err != nil {
		tst.Fatalf("shape build failed: %v", err)
	}
	BuildLevelSetHex(m, shape)
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Value = shape.SignedDistance(v.X, v.Y, v.Z)
	}

	_, adj, err := ExtractQuads(m)
	if err != nil {
		tst.Fatalf("extraction failed: %v", err)
	}
	for _, r := range adj {
		inVal := m.Centroid(r.HexInterior)
		outVal := m.Centroid(r.HexExterior)
		inPhi := shape.SignedDistance(inVal.X, inVal.Y, inVal.Z)
		outPhi := shape.SignedDistance(outVal.X, outVal.Y, outVal.Z)
		if inPhi >= 0 || outPhi <= 0 {
			tst.Errorf("expected interior centroid phi<0 (%v) and exterior centroid phi>0 (%v)", inPhi, outPhi)
		}
	}
}

func Test_tetrahedralize_interior(tst *testing.T) {
	chk.PrintTitle("tetrahedralize interior hexes")

	m := singleInteriorHex(tst)
	tets := TetrahedralizeInterior(m)
	if len(tets) != 6 {
		tst.Fatalf("expected 6 tets from 1 interior hex, got %d", len(tets))
	}
}

func Test_outer_boundary_quad_count(tst *testing.T) {
	chk.PrintTitle("outer boundary quad count identity")

	m, err := NewHexMesh(0, 0, 0, 4, 4, 4, 5, 5, 5)
	if err != nil {
		tst.Fatalf("mesh build failed: %v", err)
	}
	// n=5 => 4 cells per axis => 2*(4*4+4*4+4*4) = 96
	if got := m.OuterBoundaryQuadCount(); got != 96 {
		tst.Errorf("expected 96, got %d", got)
	}
}
